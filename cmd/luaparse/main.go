// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

// luaparse is a command-line tool for checking and formatting Lua 5.4 source.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"zombiezen.com/go/bass/sigterm"
	"zombiezen.com/go/log"
)

func main() {
	rootCommand := &cobra.Command{
		Use:           "luaparse",
		Short:         "Lua 5.4 syntax tools",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	g := defaultGlobalConfig()
	if err := g.mergeFiles(configPaths()); err != nil {
		initLogging(false)
		log.Errorf(context.Background(), "%v", err)
		os.Exit(1)
	}
	if err := g.mergeEnvironment(); err != nil {
		initLogging(false)
		log.Errorf(context.Background(), "%v", err)
		os.Exit(1)
	}

	rootCommand.PersistentFlags().BoolVar(&g.Debug, "debug", g.Debug, "show debugging output")
	rootCommand.PersistentFlags().StringVar(&g.CacheDB, "cache", g.CacheDB, "`path` to cache database")
	rootCommand.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		initLogging(g.Debug)
		return g.validate()
	}

	rootCommand.AddCommand(
		newASTCommand(g),
		newCacheCommand(g),
		newCheckCommand(g),
		newFormatCommand(g),
		newServeCommand(g),
		newTokensCommand(g),
		newVersionCommand(g),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), sigterm.Signals()...)
	err := rootCommand.ExecuteContext(ctx)
	cancel()
	if err != nil {
		initLogging(g.Debug)
		log.Errorf(context.Background(), "%v", err)
		os.Exit(1)
	}
}

// stdinChunkName is the chunk name used for source read from standard input.
const stdinChunkName = "stdin"

// readSource reads the named Lua file
// or standard input if name is "-".
// It returns the chunk name to use in error messages.
func readSource(name string) (source []byte, chunkName string, err error) {
	if name == "-" {
		source, err = io.ReadAll(os.Stdin)
		return source, stdinChunkName, err
	}
	source, err = os.ReadFile(name)
	return source, filepath.ToSlash(name), err
}

var initLogOnce sync.Once

func initLogging(showDebug bool) {
	initLogOnce.Do(func() {
		minLogLevel := log.Info
		if showDebug {
			minLogLevel = log.Debug
		}
		log.SetDefault(&log.LevelFilter{
			Min:    minLogLevel,
			Output: log.New(os.Stderr, "luaparse: ", log.StdFlags, nil),
		})
	})
}

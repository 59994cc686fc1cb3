// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
	"zb.256lights.llc/luaparse/internal/useragent"
	"zombiezen.com/go/log"
)

func newVersionCommand(g *globalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:                   "version",
		Short:                 "show version information",
		DisableFlagsInUseLine: true,
		Args:                  cobra.NoArgs,
		SilenceErrors:         true,
		SilenceUsage:          true,
	}
	c.RunE = func(cmd *cobra.Command, args []string) error {
		return runVersion(cmd.Context(), cmd.OutOrStdout())
	}
	return c
}

func runVersion(ctx context.Context, stdout io.Writer) error {
	version := useragent.Version
	if version == "" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		} else {
			log.Debugf(ctx, "No version information in binary")
		}
	}

	firstLine := "luaparse"
	if version == "" {
		firstLine += " (version unknown)"
	} else {
		firstLine += " version " + version
	}
	_, err := fmt.Fprintf(stdout, "%s\nGo:           %s\nSystem:       %s/%s\nCPUs:         %d\n",
		firstLine, runtime.Version(), runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	return err
}

// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"zb.256lights.llc/luaparse/luasyntax"
	"zombiezen.com/go/log"
)

type formatOptions struct {
	files  []string
	write  bool
	list   bool
	indent string
	stdout io.Writer
}

func newFormatCommand(g *globalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "fmt [options] [FILE [...]]",
		Short: "reformat Lua files",
		Long: "Fmt re-prints Lua files in a canonical layout.\n" +
			"With no files, fmt reformats standard input.\n" +
			"Comments are not preserved.",
		DisableFlagsInUseLine: true,
		Args:                  cobra.ArbitraryArgs,
		SilenceErrors:         true,
		SilenceUsage:          true,
	}
	opts := new(formatOptions)
	c.Flags().BoolVarP(&opts.write, "write", "w", false, "write result to source files instead of standard output")
	c.Flags().BoolVarP(&opts.list, "list", "l", false, "list files whose formatting differs")
	c.Flags().Var(&indentFlag{indent: &opts.indent}, "indent", "indentation (number of spaces or \"tab\"; default from "+projectConfigFileName+")")
	c.RunE = func(cmd *cobra.Command, args []string) error {
		opts.files = args
		if len(opts.files) == 0 {
			opts.files = []string{"-"}
		}
		opts.stdout = cmd.OutOrStdout()
		return runFormat(cmd.Context(), opts)
	}
	return c
}

func runFormat(ctx context.Context, opts *formatOptions) error {
	failed := 0
	for _, file := range opts.files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := formatFile(ctx, file, opts); err != nil {
			log.Errorf(ctx, "%v", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be formatted", failed, len(opts.files))
	}
	return nil
}

func formatFile(ctx context.Context, file string, opts *formatOptions) error {
	source, chunkName, err := readSource(file)
	if err != nil {
		return err
	}
	block, err := luasyntax.Parse(chunkName, bytes.NewReader(source))
	if err != nil {
		return err
	}
	indent := opts.indent
	if indent == "" {
		proj, err := projectConfigFor(file)
		if err != nil {
			return err
		}
		indent = proj.Format.Indent
	}
	formatted := new(strings.Builder)
	if err := (&luasyntax.Printer{Indent: indent}).Fprint(formatted, block); err != nil {
		return err
	}
	changed := formatted.String() != string(source)

	if opts.list && changed {
		fmt.Fprintln(opts.stdout, file)
	}
	if opts.write && file != "-" {
		if !changed {
			return nil
		}
		info, err := os.Stat(file)
		if err != nil {
			return err
		}
		if err := os.WriteFile(file, []byte(formatted.String()), info.Mode().Perm()); err != nil {
			return err
		}
		log.Debugf(ctx, "Rewrote %s", file)
		return nil
	}
	if !opts.list {
		_, err := io.WriteString(opts.stdout, formatted.String())
		return err
	}
	return nil
}

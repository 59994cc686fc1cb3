// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"zb.256lights.llc/luaparse/internal/astjson"
	"zb.256lights.llc/luaparse/luasyntax"
	"zombiezen.com/go/log"
)

type astOptions struct {
	file   string
	format outputFormat
	indent string
	stdout io.Writer
}

func newASTCommand(g *globalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "ast [options] FILE",
		Short: "print the syntax tree of a Lua file",
		Long: "Ast parses a Lua file (or standard input if FILE is \"-\")\n" +
			"and prints its syntax tree as JSON or as re-printed Lua source.\n" +
			"JSON output is indented when standard output is a terminal.",
		DisableFlagsInUseLine: true,
		Args:                  cobra.ExactArgs(1),
		SilenceErrors:         true,
		SilenceUsage:          true,
	}
	opts := &astOptions{format: jsonFormat}
	c.Flags().VarP((*outputFormatFlag)(&opts.format), "format", "f", "output `format` (json or lua)")
	c.Flags().Var(&indentFlag{indent: &opts.indent}, "indent", "indentation for lua output (number of spaces or \"tab\"; default from "+projectConfigFileName+")")
	c.RunE = func(cmd *cobra.Command, args []string) error {
		opts.file = args[0]
		opts.stdout = cmd.OutOrStdout()
		return runAST(cmd.Context(), opts)
	}
	return c
}

func runAST(ctx context.Context, opts *astOptions) error {
	source, chunkName, err := readSource(opts.file)
	if err != nil {
		return err
	}
	block, err := luasyntax.Parse(chunkName, bytes.NewReader(source))
	if err != nil {
		return err
	}
	log.Debugf(ctx, "Parsed %s (%d statements)", chunkName, len(block.Stats))

	switch opts.format {
	case luaFormat:
		indent := opts.indent
		if indent == "" {
			proj, err := projectConfigFor(opts.file)
			if err != nil {
				return err
			}
			indent = proj.Format.Indent
		}
		return (&luasyntax.Printer{Indent: indent}).Fprint(opts.stdout, block)
	default:
		var jsonOpts []jsontext.Options
		if isTerminal(opts.stdout) {
			jsonOpts = append(jsonOpts, jsontext.WithIndent("  "))
		}
		data, err := astjson.Marshal(block, jsonOpts...)
		if err != nil {
			return err
		}
		data = append(data, '\n')
		_, err = opts.stdout.Write(data)
		return err
	}
}

// projectConfigFor returns the project configuration
// that applies to the named file.
func projectConfigFor(name string) (*projectConfig, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	if name != "-" {
		if !filepath.IsAbs(name) {
			name = filepath.Join(dir, name)
		}
		dir = filepath.Dir(name)
	}
	return findProjectConfig(dir)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

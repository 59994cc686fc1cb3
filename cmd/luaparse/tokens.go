// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"zb.256lights.llc/luaparse/lualex"
)

type tokensOptions struct {
	file   string
	stdout io.Writer
}

func newTokensCommand(g *globalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "tokens FILE",
		Short: "print the tokens of a Lua file",
		Long: "Tokens prints one line per token in a Lua file\n" +
			"(or standard input if FILE is \"-\"): its position, kind, and value.",
		DisableFlagsInUseLine: true,
		Args:                  cobra.ExactArgs(1),
		SilenceErrors:         true,
		SilenceUsage:          true,
	}
	opts := new(tokensOptions)
	c.RunE = func(cmd *cobra.Command, args []string) error {
		opts.file = args[0]
		opts.stdout = cmd.OutOrStdout()
		return runTokens(cmd.Context(), opts)
	}
	return c
}

func runTokens(ctx context.Context, opts *tokensOptions) error {
	source, chunkName, err := readSource(opts.file)
	if err != nil {
		return err
	}
	out := bufio.NewWriter(opts.stdout)
	s := lualex.NewScanner(bytes.NewReader(source))
	for tok, err := range s.All() {
		if err != nil {
			out.Flush()
			return fmt.Errorf("%s:%w", chunkName, err)
		}
		fmt.Fprintf(out, "%v\t%v", tok.Position, tok.Kind)
		switch tok.Kind {
		case lualex.StringToken:
			fmt.Fprintf(out, "\t%s", lualex.Quote(tok.Value))
		case lualex.IdentifierToken, lualex.IntegerToken, lualex.FloatToken:
			fmt.Fprintf(out, "\t%s", tok.Value)
		}
		out.WriteString("\n")
	}
	return out.Flush()
}

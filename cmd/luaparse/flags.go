// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// outputFormat is the representation used to print a syntax tree.
type outputFormat string

const (
	jsonFormat outputFormat = "json"
	luaFormat  outputFormat = "lua"
)

var outputFormats = []outputFormat{jsonFormat, luaFormat}

var (
	_ pflag.Value = (*outputFormatFlag)(nil)
	_ pflag.Value = (*indentFlag)(nil)
)

// outputFormatFlag is the implementation of [github.com/spf13/pflag.Value]
// for an [outputFormat].
type outputFormatFlag outputFormat

func (f *outputFormatFlag) Type() string  { return "format" }
func (f outputFormatFlag) String() string { return string(f) }
func (f outputFormatFlag) Get() any       { return outputFormat(f) }

func (f *outputFormatFlag) Set(s string) error {
	for _, format := range outputFormats {
		if strings.EqualFold(s, string(format)) {
			*f = outputFormatFlag(format)
			return nil
		}
	}
	names := make([]string, len(outputFormats))
	for i, format := range outputFormats {
		names[i] = string(format)
	}
	return fmt.Errorf("unknown format %q (must be one of %s)", s, strings.Join(names, ", "))
}

// indentFlag is the implementation of [github.com/spf13/pflag.Value]
// for an indentation string.
// Numbers are interpreted as a count of spaces
// and the word "tab" as a single tab character.
type indentFlag struct {
	indent *string
}

func (f *indentFlag) Type() string { return "indent" }

func (f *indentFlag) String() string {
	if f.indent == nil {
		return ""
	}
	switch s := *f.indent; {
	case s == "\t":
		return "tab"
	case s != "" && strings.Trim(s, " ") == "":
		return strconv.Itoa(len(s))
	default:
		return s
	}
}

func (f *indentFlag) Set(s string) error {
	switch {
	case strings.EqualFold(s, "tab"):
		*f.indent = "\t"
	case s != "" && strings.Trim(s, "0123456789") == "":
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 16 {
			return fmt.Errorf("invalid indent %q", s)
		}
		*f.indent = strings.Repeat(" ", n)
	case strings.Trim(s, " \t") == "":
		*f.indent = s
	default:
		return fmt.Errorf("invalid indent %q (must be a number of spaces, \"tab\", or whitespace)", s)
	}
	return nil
}

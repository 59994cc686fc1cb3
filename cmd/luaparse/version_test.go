// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package main

import (
	"runtime"
	"strings"
	"testing"

	"zb.256lights.llc/luaparse/internal/testcontext"
	"zb.256lights.llc/luaparse/internal/useragent"
)

func TestVersion(t *testing.T) {
	ctx, cancel := testcontext.New(t)
	defer cancel()

	old := useragent.Version
	useragent.Version = "1.2.3"
	t.Cleanup(func() { useragent.Version = old })

	stdout := new(strings.Builder)
	if err := runVersion(ctx, stdout); err != nil {
		t.Fatal(err)
	}
	got := stdout.String()
	if !strings.HasPrefix(got, "luaparse version 1.2.3\n") {
		t.Errorf("first line of %q is not \"luaparse version 1.2.3\"", got)
	}
	if !strings.Contains(got, runtime.Version()) {
		t.Errorf("output %q does not contain Go version %s", got, runtime.Version())
	}
}

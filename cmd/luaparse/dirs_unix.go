// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

//go:build unix

package main

import (
	"iter"
	"path/filepath"
	"slices"

	"go4.org/xdgdir"
)

func cacheDir() string {
	return xdgdir.Cache.Path()
}

// configPaths returns the global configuration files to read,
// from lowest to highest precedence.
func configPaths() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, dir := range slices.Backward(xdgdir.Config.SearchPaths()) {
			if !yield(filepath.Join(dir, "luaparse", "config.jwcc")) {
				return
			}
		}
	}
}

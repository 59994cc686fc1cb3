// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

package main

import (
	"iter"
	"os"
	"path/filepath"
)

func cacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return dir
}

// configPaths returns the global configuration files to read,
// from lowest to highest precedence.
func configPaths() iter.Seq[string] {
	return func(yield func(string) bool) {
		dir, err := os.UserConfigDir()
		if err != nil {
			return
		}
		yield(filepath.Join(dir, "luaparse", "config.jwcc"))
	}
}

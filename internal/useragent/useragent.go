// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

// Package useragent contains the User-Agent HTTP header value for luaparse.
package useragent

// Version is the luaparse version string filled in by the linker (e.g. "1.2.3").
var Version string

// String returns the user agent string used for making HTTP requests.
func String() string {
	if Version == "" {
		return "luaparse"
	}
	return "luaparse/" + Version
}

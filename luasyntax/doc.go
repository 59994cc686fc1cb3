// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

/*
Package luasyntax provides a parser that converts Lua 5.4 source
into an abstract syntax tree.
See [Parse] for more details.

The tree is a faithful rendering of the source's grammatical structure:
the parser performs no semantic checks
(such as goto resolution or detecting break outside a loop)
and no constant folding.
Nodes do not record source positions;
positions are only reported in errors.

[Format] and [Printer] convert a tree back into Lua source
that parses to an equal tree.
[Walk] and [Inspect] traverse a tree.

# Statement boundaries

Lua's grammar is ambiguous when a line starts with an open parenthesis:

	local a = f
	(g).x = 1

This package treats an open parenthesis on a new line
as the start of a new statement,
so the example above is a local declaration followed by an assignment.
*/
package luasyntax

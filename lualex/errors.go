// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package lualex

import "fmt"

// LexicalErrorKind is an enumeration of the ways scanning can fail.
type LexicalErrorKind int

// [LexicalErrorKind] values.
const (
	// UnexpectedCharacter indicates a byte that cannot start any token.
	UnexpectedCharacter LexicalErrorKind = 1 + iota
	// UnterminatedString indicates a short string
	// that reached a newline or the end of input before its closing quote.
	UnterminatedString
	// UnterminatedLongBracket indicates a long string or long comment
	// without a closing bracket of the same level.
	UnterminatedLongBracket
	// InvalidLongBracket indicates an opening bracket
	// followed by equals signs but no second bracket (e.g. "[=x").
	InvalidLongBracket
	// InvalidEscape indicates a malformed backslash escape in a short string.
	InvalidEscape
	// InvalidNumeral indicates a malformed numeric constant.
	InvalidNumeral
)

// String returns the name of the kind.
func (k LexicalErrorKind) String() string {
	switch k {
	case UnexpectedCharacter:
		return "UnexpectedCharacter"
	case UnterminatedString:
		return "UnterminatedString"
	case UnterminatedLongBracket:
		return "UnterminatedLongBracket"
	case InvalidLongBracket:
		return "InvalidLongBracket"
	case InvalidEscape:
		return "InvalidEscape"
	case InvalidNumeral:
		return "InvalidNumeral"
	default:
		return fmt.Sprintf("LexicalErrorKind(%d)", int(k))
	}
}

// LexicalError is the error returned by [Scanner.Scan]
// when the input is not a valid sequence of Lua tokens.
type LexicalError struct {
	Kind LexicalErrorKind
	// Position is the start of the offending token.
	Position Position
	// Msg is a human-readable description of the problem.
	Msg string
}

func (e *LexicalError) Error() string {
	if !e.Position.IsValid() {
		return e.Msg
	}
	return e.Position.String() + ": " + e.Msg
}

// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package luasyntax

import (
	"errors"
	"strings"

	"zb.256lights.llc/luaparse/lualex"
)

// Errors wrapped by [*SyntaxError].
var (
	// ErrUnexpectedSymbol indicates a token that cannot start an expression.
	ErrUnexpectedSymbol = errors.New("unexpected symbol")
	// ErrInvalidStatement indicates an expression used as a statement
	// that is not a function call,
	// or an assignment to something that is not a variable.
	ErrInvalidStatement = errors.New("syntax error")
	// ErrUnknownAttribute indicates a local variable attribute
	// other than "const" or "close".
	ErrUnknownAttribute = errors.New("unknown attribute")
	// ErrTooDeep indicates that the source nests constructs
	// more deeply than the parser permits.
	ErrTooDeep = errors.New("chunk has too many syntax levels")
)

// SyntaxError is the error returned by [Parse]
// when the token stream does not conform to Lua's grammar.
type SyntaxError struct {
	// Chunk is the name of the chunk passed to [Parse].
	Chunk string
	// Position is the location of the offending token.
	Position lualex.Position
	// Found is the offending token.
	Found lualex.Token
	// Expected is the list of acceptable alternatives, if known.
	// Token kinds are formatted in single quotes (e.g. "'end'").
	Expected []string
	// Err is the reason for the error when Expected is empty.
	Err error

	// note is extra context appended to the message.
	note string
}

// Error formats the error like "chunk:1:13: 'end' expected near <eof>".
func (e *SyntaxError) Error() string {
	sb := new(strings.Builder)
	sb.WriteString(displayChunkName(e.Chunk))
	if e.Position.IsValid() {
		sb.WriteString(":")
		sb.WriteString(e.Position.String())
	}
	sb.WriteString(": ")
	switch {
	case len(e.Expected) > 0:
		sb.WriteString(strings.Join(e.Expected, " or "))
		sb.WriteString(" expected")
	case e.Err != nil:
		sb.WriteString(e.Err.Error())
	default:
		sb.WriteString("syntax error")
	}
	if e.note != "" {
		sb.WriteString(" ")
		sb.WriteString(e.note)
	}
	if e.Found.Kind != lualex.ErrorToken {
		sb.WriteString(" near ")
		sb.WriteString(nearToken(e.Found))
	}
	return sb.String()
}

// Unwrap returns e.Err.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func displayChunkName(name string) string {
	if name == "" {
		return "?"
	}
	return name
}

// quoteKind formats a token kind as it appears in an "expected" message.
func quoteKind(k lualex.TokenKind) string {
	switch k {
	case lualex.EOFToken, lualex.IdentifierToken, lualex.StringToken,
		lualex.IntegerToken, lualex.FloatToken:
		return k.String()
	default:
		return "'" + k.String() + "'"
	}
}

func nearToken(tok lualex.Token) string {
	if tok.Kind == lualex.EOFToken {
		return tok.Kind.String()
	}
	return "'" + tok.String() + "'"
}

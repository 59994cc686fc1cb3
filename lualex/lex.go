// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

// Package lualex provides a scanner to split a byte stream
// into [Lua lexical elements].
//
// [Lua lexical elements]: https://www.lua.org/manual/5.4/manual.html#3.1
package lualex

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"unicode/utf8"
)

// A Scanner parses Lua tokens from a byte stream.
// Tokens are produced on demand:
// the Scanner never reads further than the token it is returning.
type Scanner struct {
	r    io.ByteScanner
	next Position
	prev Position
	err  error
}

// NewScanner returns a [Scanner] that reads from r.
// NewScanner does not buffer r.
func NewScanner(r io.ByteScanner) *Scanner {
	return &Scanner{
		r:    r,
		next: Position{Line: 1, Column: 1},
	}
}

// Scan reads the next [Token] from the stream.
// At the end of the stream, Scan returns an [EOFToken]
// positioned just past the last byte and a nil error,
// and it continues to do so on subsequent calls.
//
// If the stream is not valid Lua, Scan returns an [ErrorToken]
// and a [*LexicalError] whose position is the start of the offending token.
// Errors from the underlying reader are returned as-is.
// Once Scan returns an error, it returns the same error on every subsequent call.
func (s *Scanner) Scan() (Token, error) {
	if s.err != nil {
		return Token{Kind: ErrorToken}, s.err
	}

	for {
		b, err := s.readByte()
		if err != nil {
			return s.endOfInput(err)
		}
		switch {
		case isSpace(b):
			// Ignore.
		case isLetter(b) || b == '_':
			// Identifier or keyword.
			pos := s.prev
			sb := new(strings.Builder)
			sb.WriteByte(b)
			for {
				b, err := s.readByte()
				if err != nil {
					if err != io.EOF {
						s.err = err
						return Token{Kind: ErrorToken, Position: pos}, err
					}
					break
				}
				if b != '_' && !isLetter(b) && !isDigit(b) {
					s.unreadByte()
					break
				}
				sb.WriteByte(b)
			}
			value := sb.String()
			if kind, isKeyword := keywords[value]; isKeyword {
				return Token{Kind: kind, Position: pos}, nil
			}
			return Token{Kind: IdentifierToken, Position: pos, Value: value}, nil
		case isDigit(b):
			s.unreadByte()
			return s.numeralToken(s.next, false)
		case b == '\'' || b == '"':
			pos := s.prev
			value, err := s.shortLiteralString(pos, b)
			if err != nil {
				s.err = err
				return Token{Kind: ErrorToken, Position: pos}, err
			}
			return Token{Kind: StringToken, Position: pos, Value: value}, nil
		case b == '+':
			return Token{Kind: AddToken, Position: s.prev}, nil
		case b == '-':
			// Look ahead for double-hyphen before returning.
			pos := s.prev
			b, err := s.readByte()
			if err != nil {
				return s.endOfToken(Token{Kind: SubToken, Position: pos}, err)
			}
			if b != '-' {
				s.unreadByte()
				return Token{Kind: SubToken, Position: pos}, nil
			}

			n, err := s.longOpenBracket()
			if s.err != nil {
				return Token{Kind: ErrorToken, Position: pos}, s.err
			}
			if err == nil {
				// Long comment.
				if err := s.findClosingLongBracket(discardByteWriter{}, n); err != nil {
					if errors.Is(err, io.ErrUnexpectedEOF) {
						return s.fail(UnterminatedLongBracket, pos, "unfinished long comment")
					}
					s.err = err
					return Token{Kind: ErrorToken, Position: pos}, err
				}
			} else {
				// Short comment.
				for {
					b, err := s.readByte()
					if err != nil {
						return s.endOfInput(err)
					}
					if b == '\n' {
						break
					}
				}
			}
		case b == '*':
			return Token{Kind: MulToken, Position: s.prev}, nil
		case b == '/':
			pos := s.prev
			b, err := s.readByte()
			if err != nil {
				return s.endOfToken(Token{Kind: DivToken, Position: pos}, err)
			}
			if b == '/' {
				return Token{Kind: IntDivToken, Position: pos}, nil
			}
			s.unreadByte()
			return Token{Kind: DivToken, Position: pos}, nil
		case b == '%':
			return Token{Kind: ModToken, Position: s.prev}, nil
		case b == '^':
			return Token{Kind: PowToken, Position: s.prev}, nil
		case b == '#':
			return Token{Kind: LenToken, Position: s.prev}, nil
		case b == '&':
			return Token{Kind: BitAndToken, Position: s.prev}, nil
		case b == '~':
			pos := s.prev
			b, err := s.readByte()
			if err != nil {
				return s.endOfToken(Token{Kind: BitXorToken, Position: pos}, err)
			}
			if b == '=' {
				return Token{Kind: NotEqualToken, Position: pos}, nil
			}
			s.unreadByte()
			return Token{Kind: BitXorToken, Position: pos}, nil
		case b == '|':
			return Token{Kind: BitOrToken, Position: s.prev}, nil
		case b == '<':
			pos := s.prev
			b, err := s.readByte()
			if err != nil {
				return s.endOfToken(Token{Kind: LessToken, Position: pos}, err)
			}
			switch b {
			case '<':
				return Token{Kind: LShiftToken, Position: pos}, nil
			case '=':
				return Token{Kind: LessEqualToken, Position: pos}, nil
			default:
				s.unreadByte()
				return Token{Kind: LessToken, Position: pos}, nil
			}
		case b == '>':
			pos := s.prev
			b, err := s.readByte()
			if err != nil {
				return s.endOfToken(Token{Kind: GreaterToken, Position: pos}, err)
			}
			switch b {
			case '>':
				return Token{Kind: RShiftToken, Position: pos}, nil
			case '=':
				return Token{Kind: GreaterEqualToken, Position: pos}, nil
			default:
				s.unreadByte()
				return Token{Kind: GreaterToken, Position: pos}, nil
			}
		case b == '=':
			pos := s.prev
			b, err := s.readByte()
			if err != nil {
				return s.endOfToken(Token{Kind: AssignToken, Position: pos}, err)
			}
			if b == '=' {
				return Token{Kind: EqualToken, Position: pos}, nil
			}
			s.unreadByte()
			return Token{Kind: AssignToken, Position: pos}, nil
		case b == '(':
			return Token{Kind: LParenToken, Position: s.prev}, nil
		case b == ')':
			return Token{Kind: RParenToken, Position: s.prev}, nil
		case b == '{':
			return Token{Kind: LBraceToken, Position: s.prev}, nil
		case b == '}':
			return Token{Kind: RBraceToken, Position: s.prev}, nil
		case b == '[':
			pos := s.prev
			s.unreadByte()

			n, err := s.longOpenBracket()
			if s.err != nil {
				return Token{Kind: ErrorToken, Position: pos}, s.err
			}
			if err != nil {
				if n == 0 {
					// Plain open bracket.
					return Token{Kind: LBracketToken, Position: pos}, nil
				}
				return s.fail(InvalidLongBracket, pos, "invalid long string delimiter")
			}

			if err := s.skipFirstNewline(); err != nil {
				s.err = err
				return Token{Kind: ErrorToken, Position: pos}, err
			}
			llw := new(longLiteralWriter)
			if err := s.findClosingLongBracket(llw, n); err != nil {
				if errors.Is(err, io.ErrUnexpectedEOF) {
					return s.fail(UnterminatedLongBracket, pos, "unfinished long string")
				}
				s.err = err
				return Token{Kind: ErrorToken, Position: pos}, err
			}
			return Token{Kind: StringToken, Position: pos, Value: llw.String()}, nil
		case b == ']':
			return Token{Kind: RBracketToken, Position: s.prev}, nil
		case b == ':':
			pos := s.prev
			b, err := s.readByte()
			if err != nil {
				return s.endOfToken(Token{Kind: ColonToken, Position: pos}, err)
			}
			if b == ':' {
				return Token{Kind: LabelToken, Position: pos}, nil
			}
			s.unreadByte()
			return Token{Kind: ColonToken, Position: pos}, nil
		case b == ';':
			return Token{Kind: SemiToken, Position: s.prev}, nil
		case b == ',':
			return Token{Kind: CommaToken, Position: s.prev}, nil
		case b == '.':
			pos := s.prev
			b, err := s.readByte()
			if err != nil {
				return s.endOfToken(Token{Kind: DotToken, Position: pos}, err)
			}
			switch {
			case b == '.':
				b, err = s.readByte()
				if err != nil {
					return s.endOfToken(Token{Kind: ConcatToken, Position: pos}, err)
				}
				if b != '.' {
					s.unreadByte()
					return Token{Kind: ConcatToken, Position: pos}, nil
				}
				return Token{Kind: VarargToken, Position: pos}, nil
			case isDigit(b):
				s.unreadByte()
				return s.numeralToken(pos, true)
			default:
				s.unreadByte()
				return Token{Kind: DotToken, Position: pos}, nil
			}
		default:
			if isPrint(rune(b)) {
				return s.fail(UnexpectedCharacter, s.prev, "unexpected symbol near '%c'", b)
			}
			return s.fail(UnexpectedCharacter, s.prev, "unexpected symbol near '<\\%d>'", b)
		}
	}
}

// End returns the position just past the last token returned by [Scanner.Scan].
// For a token that spans lines, such as a long string,
// End reports the line on which the token ends.
func (s *Scanner) End() Position {
	return s.next
}

// All returns an iterator over the remaining tokens in the stream.
// The sequence ends after yielding an [EOFToken] or the first error.
func (s *Scanner) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := s.Scan()
			if !yield(tok, err) || err != nil || tok.Kind == EOFToken {
				return
			}
		}
	}
}

// fail records a [*LexicalError] as the scanner's sticky error.
func (s *Scanner) fail(kind LexicalErrorKind, pos Position, format string, args ...any) (Token, error) {
	s.err = &LexicalError{
		Kind:     kind,
		Position: pos,
		Msg:      fmt.Sprintf(format, args...),
	}
	return Token{Kind: ErrorToken, Position: pos}, s.err
}

// endOfToken returns tok if err is [io.EOF].
// Otherwise it records err as the scanner's sticky error.
// It is used when reading one byte past a token fails.
func (s *Scanner) endOfToken(tok Token, err error) (Token, error) {
	if err == io.EOF {
		return tok, nil
	}
	s.err = err
	return Token{Kind: ErrorToken, Position: tok.Position}, err
}

// endOfInput converts an error from reading the first byte of a token
// into the result of [Scanner.Scan].
func (s *Scanner) endOfInput(err error) (Token, error) {
	if err == io.EOF {
		return Token{Kind: EOFToken, Position: s.next}, nil
	}
	s.err = err
	return Token{Kind: ErrorToken}, err
}

func (s *Scanner) numeralToken(start Position, dot bool) (Token, error) {
	value, err := s.numeral(dot)
	if s.err != nil {
		return Token{Kind: ErrorToken, Position: start}, s.err
	}
	if err != nil {
		return s.fail(InvalidNumeral, start, "%v", err)
	}
	kind, ok := classifyNumeral(value)
	if !ok {
		return s.fail(InvalidNumeral, start, "malformed number near '%s'", value)
	}
	return Token{Kind: kind, Position: start, Value: value}, nil
}

func (s *Scanner) shortLiteralString(start Position, end byte) (string, error) {
	sb := new(strings.Builder)
	unfinished := func() error {
		return &LexicalError{
			Kind:     UnterminatedString,
			Position: start,
			Msg:      "unfinished string",
		}
	}
	invalidEscape := func(format string, args ...any) error {
		return &LexicalError{
			Kind:     InvalidEscape,
			Position: start,
			Msg:      fmt.Sprintf(format, args...),
		}
	}
	readByte := func() (byte, error) {
		b, err := s.readByte()
		if err == io.EOF {
			return 0, unfinished()
		}
		return b, err
	}

	for {
		b, err := readByte()
		if err != nil {
			return sb.String(), err
		}
		switch {
		case b == end:
			return sb.String(), nil
		case b == '\n' || b == '\r':
			return sb.String(), unfinished()
		case b != '\\':
			sb.WriteByte(b)
			continue
		}

		// Backslash escape.
		b, err = readByte()
		if err != nil {
			return sb.String(), err
		}
		switch b {
		case 'a':
			sb.WriteByte('\a')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'v':
			sb.WriteByte('\v')
		case '\\', '\'', '"':
			sb.WriteByte(b)
		case '\n', '\r':
			b2, err := readByte()
			if err != nil {
				return sb.String(), err
			}
			if !(b == '\n' && b2 == '\r') && !(b == '\r' && b2 == '\n') {
				s.unreadByte()
			}
			sb.WriteByte('\n')
		case 'z':
			// "'\z' skips the following span of whitespace characters, including line breaks"
			for {
				b, err := readByte()
				if err != nil {
					return sb.String(), err
				}
				if !isSpace(b) {
					s.unreadByte()
					break
				}
			}
		case 'x':
			var nibbles [2]byte
			for i := range nibbles {
				digit, err := readByte()
				if err != nil {
					return sb.String(), err
				}
				nibbles[i], err = hexDigit(digit)
				if err != nil {
					return sb.String(), invalidEscape("hexadecimal digit expected")
				}
			}
			sb.WriteByte(nibbles[0]<<4 | nibbles[1])
		case 'u':
			// \u{XXX}, 1+ hex digits to UTF-8 limited to 2^31
			b, err := readByte()
			if err != nil {
				return sb.String(), err
			}
			if b != '{' {
				return sb.String(), invalidEscape("missing '{' in \\u{xxxx}")
			}
			var r uint32
			for first := true; ; first = false {
				b, err := readByte()
				if err != nil {
					return sb.String(), err
				}
				if b == '}' {
					if first {
						return sb.String(), invalidEscape("hexadecimal digit expected")
					}
					break
				}
				nibble, err := hexDigit(b)
				if err != nil {
					return sb.String(), invalidEscape("missing '}' in \\u{xxxx}")
				}
				if r > 0x7FFFFFFF>>4 {
					return sb.String(), invalidEscape("UTF-8 value too large")
				}
				r = r<<4 | uint32(nibble)
			}
			var buf [6]byte
			sb.Write(appendUTF8(buf[:0], r))
		default:
			if !isDigit(b) {
				return sb.String(), invalidEscape("invalid escape sequence '\\%c'", b)
			}
			// Decimal escape (1-3 digits).
			result := uint16(b - '0')
			for range 2 {
				b, err := readByte()
				if err != nil {
					return sb.String(), err
				}
				if !isDigit(b) {
					s.unreadByte()
					break
				}
				result = 10*result + uint16(b-'0')
			}
			if result > 0xff {
				return sb.String(), invalidEscape("decimal escape too large")
			}
			sb.WriteByte(byte(result))
		}
	}
}

// numeral reads a numeral as written.
// It does not check whether the result denotes a valid number:
// see [classifyNumeral].
func (s *Scanner) numeral(dot bool) (string, error) {
	sb := new(strings.Builder)
	isHex := false
	if dot {
		sb.WriteByte('.')
	} else {
		first, err := s.readByte()
		if err != nil {
			return "", s.readError(err)
		}
		if !isDigit(first) {
			s.unreadByte()
			return "", fmt.Errorf("malformed number near '%c'", first)
		}
		sb.WriteByte(first)

		second, err := s.readByte()
		if err != nil {
			return sb.String(), s.readError(err)
		}
		isHex = first == '0' && (second == 'x' || second == 'X')
		if isHex {
			sb.WriteByte(second)
		} else {
			s.unreadByte()
		}

	whole:
		for {
			b, err := s.readByte()
			switch {
			case err != nil:
				return sb.String(), s.readError(err)
			case isDigit(b) || isHex && isHexDigit(b):
				sb.WriteByte(b)
			case isExponentDelim(b, isHex):
				sb.WriteByte(b)
				err := s.exponent(sb)
				return sb.String(), err
			case b == '.':
				sb.WriteByte(b)
				break whole
			case isLetter(b) || b == '_':
				s.unreadByte()
				return sb.String(), fmt.Errorf("malformed number near '%s%c'", sb, b)
			default:
				s.unreadByte()
				return sb.String(), nil
			}
		}
	}

	// Fractional part.
	for {
		b, err := s.readByte()
		switch {
		case err != nil:
			return sb.String(), s.readError(err)
		case isDigit(b) || isHex && isHexDigit(b):
			sb.WriteByte(b)
		case isExponentDelim(b, isHex):
			sb.WriteByte(b)
			err := s.exponent(sb)
			return sb.String(), err
		case isLetter(b) || b == '_' || b == '.':
			s.unreadByte()
			return sb.String(), fmt.Errorf("malformed number near '%s%c'", sb, b)
		default:
			s.unreadByte()
			return sb.String(), nil
		}
	}
}

func (s *Scanner) exponent(sb *strings.Builder) error {
	b, err := s.readByteNoEOF()
	if err != nil {
		if err != io.ErrUnexpectedEOF {
			return s.readError(err)
		}
		return fmt.Errorf("malformed number near '%s'", sb)
	}
	switch {
	case b == '-' || b == '+':
		sb.WriteByte(b)
		b, err = s.readByteNoEOF()
		if err != nil {
			if err != io.ErrUnexpectedEOF {
				return s.readError(err)
			}
			return fmt.Errorf("malformed number near '%s'", sb)
		}
		if !isDigit(b) {
			s.unreadByte()
			return fmt.Errorf("malformed number near '%s%c'", sb, b)
		}
		sb.WriteByte(b)
	case !isDigit(b):
		s.unreadByte()
		return fmt.Errorf("malformed number near '%s%c'", sb, b)
	default:
		sb.WriteByte(b)
	}

	// Optional remaining digits.
	for {
		b, err := s.readByte()
		if err != nil {
			return s.readError(err)
		}
		if isLetter(b) || b == '_' || b == '.' {
			s.unreadByte()
			return fmt.Errorf("malformed number near '%s%c'", sb, b)
		}
		if !isDigit(b) {
			s.unreadByte()
			return nil
		}
		sb.WriteByte(b)
	}
}

// readError returns nil for [io.EOF].
// Any other error is recorded as the scanner's sticky error and returned.
func (s *Scanner) readError(err error) error {
	if err == io.EOF {
		return nil
	}
	s.err = err
	return err
}

// longOpenBracket consumes an opening long bracket
// and returns its level.
// If the input does not start with an opening long bracket,
// longOpenBracket returns an error and the number of equals signs consumed.
// Reader errors other than end of input are recorded in s.err.
func (s *Scanner) longOpenBracket() (int, error) {
	b, err := s.readByte()
	if err != nil {
		if err != io.EOF {
			s.err = err
		}
		return 0, err
	}
	if b != '[' {
		s.unreadByte()
		return 0, fmt.Errorf("%v: unexpected %q (want '[')", s.next, b)
	}

	n := 0
	for {
		b, err := s.readByteNoEOF()
		if err != nil {
			if err != io.ErrUnexpectedEOF {
				s.err = err
			}
			return n, err
		}
		switch b {
		case '=':
			n++
		case '[':
			return n, nil
		default:
			s.unreadByte()
			return n, fmt.Errorf("%v: unexpected %q (want '[' or '=')", s.next, b)
		}
	}
}

// skipFirstNewline skips a newline sequence that immediately follows
// an opening long bracket.
func (s *Scanner) skipFirstNewline() error {
	b, err := s.readByte()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	if b != '\n' && b != '\r' {
		return s.unreadByte()
	}
	b2, err := s.readByte()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	if b2 == b || (b2 != '\n' && b2 != '\r') {
		return s.unreadByte()
	}
	return nil
}

// findClosingLongBracket copies bytes from s.r to w
// until a closing long bracket of level n is found.
// (For example, a closing long bracket of level 4 is "]====]".)
// Reaching the end of input returns [io.ErrUnexpectedEOF].
func (s *Scanner) findClosingLongBracket(w io.ByteWriter, n int) error {
	writePartial := func(n int) error {
		if err := w.WriteByte(']'); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := w.WriteByte('='); err != nil {
				return err
			}
		}
		return nil
	}

searchStart:
	for {
		// Find initial closing bracket.
		b, err := s.readByteNoEOF()
		if err != nil {
			return err
		}
		if b != ']' {
			if err := w.WriteByte(b); err != nil {
				return err
			}
			continue
		}

		// Consume equal signs.
		for i := 0; i < n; i++ {
			b, err := s.readByteNoEOF()
			if err != nil {
				writePartial(i)
				return err
			}
			if b != '=' {
				s.unreadByte()
				if err := writePartial(i); err != nil {
					return err
				}
				continue searchStart
			}
		}

		// Read second closing bracket (hopefully).
		b, err = s.readByteNoEOF()
		if err != nil {
			writePartial(n)
			return err
		}
		if b == ']' {
			return nil
		}
		// The bracket may start another closing bracket.
		s.unreadByte()
		if err := writePartial(n); err != nil {
			return err
		}
	}
}

func (s *Scanner) readByte() (byte, error) {
	b, err := s.r.ReadByte()
	if err != nil {
		return b, err
	}
	s.prev = s.next
	switch b {
	case '\n':
		s.next.Line++
		s.next.Column = 1
	case '\t':
		s.next.Column++
		const tabWidth = 8
		for s.next.Column%tabWidth != 1 {
			s.next.Column++
		}
	default:
		s.next.Column++
	}
	return b, nil
}

func (s *Scanner) readByteNoEOF() (byte, error) {
	b, err := s.readByte()
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return b, err
}

func (s *Scanner) unreadByte() error {
	if err := s.r.UnreadByte(); err != nil {
		return err
	}
	s.next = s.prev
	return nil
}

// Quote returns a double-quoted Lua string literal representing s.
func Quote(s string) string {
	sb := new(strings.Builder)
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for {
		c, size := utf8.DecodeRuneInString(s)
		switch {
		case size == 0:
			sb.WriteByte('"')
			return sb.String()
		case c == utf8.RuneError && size == 1:
			sb.WriteString(`\x`)
			for _, digit := range toHexDigits(s[0]) {
				sb.WriteByte(digit)
			}
		case c == '\\' || c == '"':
			sb.WriteByte('\\')
			sb.WriteRune(c)
		case isPrint(c):
			sb.WriteRune(c)
		case c == '\a':
			sb.WriteString(`\a`)
		case c == '\b':
			sb.WriteString(`\b`)
		case c == '\f':
			sb.WriteString(`\f`)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c == '\v':
			sb.WriteString(`\v`)
		default:
			sb.WriteString(`\u{`)
			fmt.Fprintf(sb, "%x", c)
			sb.WriteString(`}`)
		}
		s = s[size:]
	}
}

// Unquote interprets s as a single-quoted, double-quoted, or bracket-delimited Lua string literal,
// returning the string value that s quotes.
func Unquote(s string) (string, error) {
	if len(s) < 2 {
		return "", errUnquoteSyntax
	}
	sr := strings.NewReader(s)
	var unquoted string
	switch s[0] {
	case '\'', '"':
		sr.ReadByte()
		scanner := NewScanner(sr)
		var err error
		unquoted, err = scanner.shortLiteralString(Pos(1, 1), s[0])
		if err != nil {
			return "", errUnquoteSyntax
		}
	case '[':
		scanner := NewScanner(sr)
		level, err := scanner.longOpenBracket()
		if err != nil {
			return "", errUnquoteSyntax
		}
		if err := scanner.skipFirstNewline(); err != nil {
			return "", errUnquoteSyntax
		}
		llw := new(longLiteralWriter)
		err = scanner.findClosingLongBracket(llw, level)
		if err != nil {
			return "", errUnquoteSyntax
		}
		unquoted = llw.String()
	default:
		return "", errUnquoteSyntax
	}

	if sr.Len() > 0 {
		return "", errUnquoteSyntax
	}
	return unquoted, nil
}

var errUnquoteSyntax = errors.New("invalid syntax")

// appendUTF8 appends the encoding of x (which must be less than 2^31)
// using the extended UTF-8 scheme of Lua's "\u{XXX}" escape,
// which admits surrogates and values beyond U+10FFFF.
func appendUTF8(dst []byte, x uint32) []byte {
	if x < 0x80 {
		return append(dst, byte(x))
	}
	var buf [6]byte
	n := 1
	mfb := uint32(0x3f) // maximum that fits in first byte
	for {
		buf[len(buf)-n] = byte(0x80 | (x & 0x3f))
		n++
		x >>= 6
		mfb >>= 1
		if x <= mfb {
			break
		}
	}
	buf[len(buf)-n] = byte((^mfb << 1) | x)
	return append(dst, buf[len(buf)-n:]...)
}

// isSpace reports whether the given byte represents a space in Lua source code.
// According to the [reference],
// "[i]n source code, Lua recognizes as spaces the standard ASCII whitespace characters
// space, form feed, newline, carriage return, horizontal tab, and vertical tab."
//
// [reference]: https://www.lua.org/manual/5.4/manual.html#:~:text=In%20source%20code%2C%20Lua%20recognizes%20as%20spaces,.
func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r' || c == '\f' || c == '\v'
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func toHexDigits(x byte) [2]byte {
	var result [2]byte
	if hi := x >> 4; hi < 0xa {
		result[0] = hi + '0'
	} else {
		result[0] = hi - 0xa + 'a'
	}
	if lo := x & 0xf; lo < 0xa {
		result[1] = lo + '0'
	} else {
		result[1] = lo - 0xa + 'a'
	}
	return result
}

func isPrint(c rune) bool {
	return 0x20 <= c && c < 0x7f
}

func isExponentDelim(c byte, isHex bool) bool {
	return (!isHex && (c == 'E' || c == 'e')) || (isHex && (c == 'P' || c == 'p'))
}

func hexDigit(c byte) (byte, error) {
	switch {
	case isDigit(c):
		return c - '0', nil
	case 'a' <= c && c <= 'f':
		return c - 'a' + 0xa, nil
	case 'A' <= c && c <= 'F':
		return c - 'A' + 0xa, nil
	default:
		return 0, fmt.Errorf("unexpected %q (want hex digit)", c)
	}
}

// longLiteralWriter accumulates the contents of a long string,
// converting each newline sequence ("\n", "\r", "\r\n", or "\n\r") to "\n".
type longLiteralWriter struct {
	sb   strings.Builder
	prev byte
}

func (llw *longLiteralWriter) WriteByte(c byte) error {
	switch {
	case llw.prev == '\r' && c == '\n' || llw.prev == '\n' && c == '\r':
		llw.sb.WriteByte('\n')
		llw.prev = 0
	case c == '\n' || c == '\r':
		if llw.prev != 0 {
			llw.sb.WriteByte('\n')
		}
		llw.prev = c
	case llw.prev != 0:
		llw.sb.WriteByte('\n')
		llw.prev = 0
		fallthrough
	default:
		llw.sb.WriteByte(c)
	}
	return nil
}

func (llw *longLiteralWriter) String() string {
	if llw.prev != 0 {
		llw.sb.WriteByte('\n')
		llw.prev = 0
	}
	return llw.sb.String()
}

type discardByteWriter struct{}

func (discardByteWriter) WriteByte(c byte) error { return nil }

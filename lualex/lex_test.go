// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

package lualex

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestScanner(t *testing.T) {
	tests := []struct {
		s    string
		want []Token
		// errKind is the expected kind of lexical error.
		// Zero indicates the input scans successfully.
		errKind LexicalErrorKind
	}{
		{s: "", want: []Token{}},
		{
			s: "foo",
			want: []Token{
				{Kind: IdentifierToken, Position: Pos(1, 1), Value: "foo"},
			},
		},
		{
			s: "  foo  ",
			want: []Token{
				{Kind: IdentifierToken, Position: Pos(1, 3), Value: "foo"},
			},
		},
		{
			s: "_G2 x_y",
			want: []Token{
				{Kind: IdentifierToken, Position: Pos(1, 1), Value: "_G2"},
				{Kind: IdentifierToken, Position: Pos(1, 5), Value: "x_y"},
			},
		},
		{
			s: "3",
			want: []Token{
				{Kind: IntegerToken, Position: Pos(1, 1), Value: "3"},
			},
		},
		{
			s: "345",
			want: []Token{
				{Kind: IntegerToken, Position: Pos(1, 1), Value: "345"},
			},
		},
		{
			s: "0xff",
			want: []Token{
				{Kind: IntegerToken, Position: Pos(1, 1), Value: "0xff"},
			},
		},
		{
			s: "0xBEBADA",
			want: []Token{
				{Kind: IntegerToken, Position: Pos(1, 1), Value: "0xBEBADA"},
			},
		},
		{
			s: "9223372036854775808",
			want: []Token{
				{Kind: FloatToken, Position: Pos(1, 1), Value: "9223372036854775808"},
			},
		},
		{
			s: "3.0",
			want: []Token{
				{Kind: FloatToken, Position: Pos(1, 1), Value: "3.0"},
			},
		},
		{
			s: "3.1416",
			want: []Token{
				{Kind: FloatToken, Position: Pos(1, 1), Value: "3.1416"},
			},
		},
		{
			s: "314.16e-2",
			want: []Token{
				{Kind: FloatToken, Position: Pos(1, 1), Value: "314.16e-2"},
			},
		},
		{
			s: "0.31416E1",
			want: []Token{
				{Kind: FloatToken, Position: Pos(1, 1), Value: "0.31416E1"},
			},
		},
		{
			s: "34e1",
			want: []Token{
				{Kind: FloatToken, Position: Pos(1, 1), Value: "34e1"},
			},
		},
		{
			s: "0x0.1E",
			want: []Token{
				{Kind: FloatToken, Position: Pos(1, 1), Value: "0x0.1E"},
			},
		},
		{
			s: "0xA23p-4",
			want: []Token{
				{Kind: FloatToken, Position: Pos(1, 1), Value: "0xA23p-4"},
			},
		},
		{
			s: "0X1.921FB54442D18P+1",
			want: []Token{
				{Kind: FloatToken, Position: Pos(1, 1), Value: "0X1.921FB54442D18P+1"},
			},
		},
		{
			s: "5.",
			want: []Token{
				{Kind: FloatToken, Position: Pos(1, 1), Value: "5."},
			},
		},
		{
			s: ".5",
			want: []Token{
				{Kind: FloatToken, Position: Pos(1, 1), Value: ".5"},
			},
		},
		{
			s: "3..2",
			want: []Token{
				{Kind: ErrorToken, Position: Pos(1, 1)},
			},
			errKind: InvalidNumeral,
		},
		{
			s: "3x",
			want: []Token{
				{Kind: ErrorToken, Position: Pos(1, 1)},
			},
			errKind: InvalidNumeral,
		},
		{
			s: "1e+",
			want: []Token{
				{Kind: ErrorToken, Position: Pos(1, 1)},
			},
			errKind: InvalidNumeral,
		},
		{
			s: "0x",
			want: []Token{
				{Kind: ErrorToken, Position: Pos(1, 1)},
			},
			errKind: InvalidNumeral,
		},
		{
			s: "3 .. 2",
			want: []Token{
				{Kind: IntegerToken, Position: Pos(1, 1), Value: "3"},
				{Kind: ConcatToken, Position: Pos(1, 3)},
				{Kind: IntegerToken, Position: Pos(1, 6), Value: "2"},
			},
		},
		{
			s: `a = 'alo\n123"'`,
			want: []Token{
				{Kind: IdentifierToken, Position: Pos(1, 1), Value: "a"},
				{Kind: AssignToken, Position: Pos(1, 3)},
				{Kind: StringToken, Position: Pos(1, 5), Value: "alo\n123\""},
			},
		},
		{
			s: `a = "alo\n123\""`,
			want: []Token{
				{Kind: IdentifierToken, Position: Pos(1, 1), Value: "a"},
				{Kind: AssignToken, Position: Pos(1, 3)},
				{Kind: StringToken, Position: Pos(1, 5), Value: "alo\n123\""},
			},
		},
		{
			s: `a = '\97lo\10\04923"'`,
			want: []Token{
				{Kind: IdentifierToken, Position: Pos(1, 1), Value: "a"},
				{Kind: AssignToken, Position: Pos(1, 3)},
				{Kind: StringToken, Position: Pos(1, 5), Value: "alo\n123\""},
			},
		},
		{
			s: "a = [[alo\n123\"]]",
			want: []Token{
				{Kind: IdentifierToken, Position: Pos(1, 1), Value: "a"},
				{Kind: AssignToken, Position: Pos(1, 3)},
				{Kind: StringToken, Position: Pos(1, 5), Value: "alo\n123\""},
			},
		},
		{
			s: "a = [==[\nalo\n123\"]==]",
			want: []Token{
				{Kind: IdentifierToken, Position: Pos(1, 1), Value: "a"},
				{Kind: AssignToken, Position: Pos(1, 3)},
				{Kind: StringToken, Position: Pos(1, 5), Value: "alo\n123\""},
			},
		},
		{
			s: "[[\r\n\r\nx]]",
			want: []Token{
				{Kind: StringToken, Position: Pos(1, 1), Value: "\nx"},
			},
		},
		{
			s: `a = "xyz`,
			want: []Token{
				{Kind: IdentifierToken, Position: Pos(1, 1), Value: "a"},
				{Kind: AssignToken, Position: Pos(1, 3)},
				{Kind: ErrorToken, Position: Pos(1, 5)},
			},
			errKind: UnterminatedString,
		},
		{
			s: `a = 'xyz`,
			want: []Token{
				{Kind: IdentifierToken, Position: Pos(1, 1), Value: "a"},
				{Kind: AssignToken, Position: Pos(1, 3)},
				{Kind: ErrorToken, Position: Pos(1, 5)},
			},
			errKind: UnterminatedString,
		},
		{
			s: "a = 'xyz\nabc'",
			want: []Token{
				{Kind: IdentifierToken, Position: Pos(1, 1), Value: "a"},
				{Kind: AssignToken, Position: Pos(1, 3)},
				{Kind: ErrorToken, Position: Pos(1, 5)},
			},
			errKind: UnterminatedString,
		},
		{
			s: `x = "\q"`,
			want: []Token{
				{Kind: IdentifierToken, Position: Pos(1, 1), Value: "x"},
				{Kind: AssignToken, Position: Pos(1, 3)},
				{Kind: ErrorToken, Position: Pos(1, 5)},
			},
			errKind: InvalidEscape,
		},
		{
			s: `"\300"`,
			want: []Token{
				{Kind: ErrorToken, Position: Pos(1, 1)},
			},
			errKind: InvalidEscape,
		},
		{
			s: `"\xZZ"`,
			want: []Token{
				{Kind: ErrorToken, Position: Pos(1, 1)},
			},
			errKind: InvalidEscape,
		},
		{
			s: `a = [[xyz`,
			want: []Token{
				{Kind: IdentifierToken, Position: Pos(1, 1), Value: "a"},
				{Kind: AssignToken, Position: Pos(1, 3)},
				{Kind: ErrorToken, Position: Pos(1, 5)},
			},
			errKind: UnterminatedLongBracket,
		},
		{
			s: ` --[[ foo`,
			want: []Token{
				{Kind: ErrorToken, Position: Pos(1, 2)},
			},
			errKind: UnterminatedLongBracket,
		},
		{
			s: "goto",
			want: []Token{
				{Kind: GotoToken, Position: Pos(1, 1)},
			},
		},
		{
			s: "-- hello comment\ntest\n2 + 2\n",
			want: []Token{
				{Kind: IdentifierToken, Position: Pos(2, 1), Value: "test"},
				{Kind: IntegerToken, Position: Pos(3, 1), Value: "2"},
				{Kind: AddToken, Position: Pos(3, 3)},
				{Kind: IntegerToken, Position: Pos(3, 5), Value: "2"},
			},
		},
		{
			s: "--[=[ hello comment\nfake-out: ]]\n]=]\ntest\n2 + 2\n",
			want: []Token{
				{Kind: IdentifierToken, Position: Pos(4, 1), Value: "test"},
				{Kind: IntegerToken, Position: Pos(5, 1), Value: "2"},
				{Kind: AddToken, Position: Pos(5, 3)},
				{Kind: IntegerToken, Position: Pos(5, 5), Value: "2"},
			},
		},
		{
			s: "x -- trailing comment",
			want: []Token{
				{Kind: IdentifierToken, Position: Pos(1, 1), Value: "x"},
			},
		},
		{
			s: ".",
			want: []Token{
				{Kind: DotToken, Position: Pos(1, 1)},
			},
		},
		{
			s: "..",
			want: []Token{
				{Kind: ConcatToken, Position: Pos(1, 1)},
			},
		},
		{
			s: "...",
			want: []Token{
				{Kind: VarargToken, Position: Pos(1, 1)},
			},
		},
		{
			s: "....",
			want: []Token{
				{Kind: VarargToken, Position: Pos(1, 1)},
				{Kind: DotToken, Position: Pos(1, 4)},
			},
		},
		{
			s: ".....",
			want: []Token{
				{Kind: VarargToken, Position: Pos(1, 1)},
				{Kind: ConcatToken, Position: Pos(1, 4)},
			},
		},
		{
			s: ":",
			want: []Token{
				{Kind: ColonToken, Position: Pos(1, 1)},
			},
		},
		{
			s: "::",
			want: []Token{
				{Kind: LabelToken, Position: Pos(1, 1)},
			},
		},
		{
			s: "[",
			want: []Token{
				{Kind: LBracketToken, Position: Pos(1, 1)},
			},
		},
		{
			s: "t[1]",
			want: []Token{
				{Kind: IdentifierToken, Position: Pos(1, 1), Value: "t"},
				{Kind: LBracketToken, Position: Pos(1, 2)},
				{Kind: IntegerToken, Position: Pos(1, 3), Value: "1"},
				{Kind: RBracketToken, Position: Pos(1, 4)},
			},
		},
		{
			s: "[=",
			want: []Token{
				{Kind: ErrorToken, Position: Pos(1, 1)},
			},
			errKind: InvalidLongBracket,
		},
		{
			s: "[===abc",
			want: []Token{
				{Kind: ErrorToken, Position: Pos(1, 1)},
			},
			errKind: InvalidLongBracket,
		},
		{
			s: "a >< b",
			want: []Token{
				{Kind: IdentifierToken, Position: Pos(1, 1), Value: "a"},
				{Kind: GreaterToken, Position: Pos(1, 3)},
				{Kind: LessToken, Position: Pos(1, 4)},
				{Kind: IdentifierToken, Position: Pos(1, 6), Value: "b"},
			},
		},
		{
			s: "~= ~ // / <= << >= == = -",
			want: []Token{
				{Kind: NotEqualToken, Position: Pos(1, 1)},
				{Kind: BitXorToken, Position: Pos(1, 4)},
				{Kind: IntDivToken, Position: Pos(1, 6)},
				{Kind: DivToken, Position: Pos(1, 9)},
				{Kind: LessEqualToken, Position: Pos(1, 11)},
				{Kind: LShiftToken, Position: Pos(1, 14)},
				{Kind: GreaterEqualToken, Position: Pos(1, 17)},
				{Kind: EqualToken, Position: Pos(1, 20)},
				{Kind: AssignToken, Position: Pos(1, 23)},
				{Kind: SubToken, Position: Pos(1, 25)},
			},
		},
		{
			s: "\tx",
			want: []Token{
				{Kind: IdentifierToken, Position: Pos(1, 9), Value: "x"},
			},
		},
		{
			s: "x @",
			want: []Token{
				{Kind: IdentifierToken, Position: Pos(1, 1), Value: "x"},
				{Kind: ErrorToken, Position: Pos(1, 3)},
			},
			errKind: UnexpectedCharacter,
		},
		{
			s: `res = (h >> (32 - floatbits)) % 2^32`,
			want: []Token{
				{Kind: IdentifierToken, Position: Pos(1, 1), Value: "res"},
				{Kind: AssignToken, Position: Pos(1, 5)},
				{Kind: LParenToken, Position: Pos(1, 7)},
				{Kind: IdentifierToken, Position: Pos(1, 8), Value: "h"},
				{Kind: RShiftToken, Position: Pos(1, 10)},
				{Kind: LParenToken, Position: Pos(1, 13)},
				{Kind: IntegerToken, Position: Pos(1, 14), Value: "32"},
				{Kind: SubToken, Position: Pos(1, 17)},
				{Kind: IdentifierToken, Position: Pos(1, 19), Value: "floatbits"},
				{Kind: RParenToken, Position: Pos(1, 28)},
				{Kind: RParenToken, Position: Pos(1, 29)},
				{Kind: ModToken, Position: Pos(1, 31)},
				{Kind: IntegerToken, Position: Pos(1, 33), Value: "2"},
				{Kind: PowToken, Position: Pos(1, 34)},
				{Kind: IntegerToken, Position: Pos(1, 35), Value: "32"},
			},
		},
	}

	for _, test := range tests {
		s := NewScanner(strings.NewReader(test.s))
		var got []Token
		var err error
		for {
			var tok Token
			tok, err = s.Scan()
			if err == nil && tok.Kind == EOFToken {
				break
			}
			got = append(got, tok)
			if err != nil {
				break
			}
		}

		switch {
		case err == nil && test.errKind != 0:
			t.Errorf("scan of %q did not return an error", test.s)
		case err != nil && test.errKind == 0:
			t.Errorf("scan of %q error: %v", test.s, err)
		case err != nil:
			t.Logf("scan of %q returned (expected) error: %v", test.s, err)
			var lexErr *LexicalError
			if !errors.As(err, &lexErr) {
				t.Errorf("scan of %q error is %T; want %T", test.s, err, lexErr)
			} else if lexErr.Kind != test.errKind {
				t.Errorf("scan of %q error kind = %v; want %v", test.s, lexErr.Kind, test.errKind)
			}
		}
		if diff := cmp.Diff(test.want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("scan of %q (-want +got):\n%s", test.s, diff)
		}
	}
}

func TestScannerEOF(t *testing.T) {
	s := NewScanner(strings.NewReader("if true then\n"))
	var last Token
	for range 3 {
		var err error
		last, err = s.Scan()
		if err != nil {
			t.Fatal(err)
		}
	}
	want := Token{Kind: EOFToken, Position: Pos(2, 1)}
	for i := range 3 {
		got, err := s.Scan()
		if err != nil {
			t.Fatalf("Scan() #%d after %v: %v", i+1, last, err)
		}
		if got != want {
			t.Errorf("Scan() #%d after %v = %v @ %v; want %v @ %v",
				i+1, last, got, got.Position, want, want.Position)
		}
	}
}

func TestScannerStickyError(t *testing.T) {
	s := NewScanner(strings.NewReader("x = 'abc\nfoo bar"))
	var firstErr error
	for range 10 {
		_, err := s.Scan()
		if err == nil {
			continue
		}
		if firstErr == nil {
			firstErr = err
		} else if err != firstErr {
			t.Errorf("Scan() = _, %v after %v; want same error", err, firstErr)
		}
	}
	if firstErr == nil {
		t.Fatal("Scan() never returned an error")
	}
	const want = "1:5: unfinished string"
	if got := firstErr.Error(); got != want {
		t.Errorf("error = %q; want %q", got, want)
	}
}

func TestScannerReadError(t *testing.T) {
	errBoom := errors.New("boom")
	sources := []string{
		"x",
		"local",
		"12",
		"1.5",
		"1e5",
		"0x",
		"'a",
		"-",
		"--",
		"-- comment",
		"--[[ comment",
		"/",
		"~",
		"<",
		">",
		"=",
		":",
		".",
		"..",
		"[",
	}
	for _, src := range sources {
		r := bufio.NewReader(io.MultiReader(strings.NewReader(src), iotest.ErrReader(errBoom)))
		var lastErr error
		for tok, err := range NewScanner(r).All() {
			if tok.Kind == EOFToken {
				t.Errorf("scanning %q yielded %v; want error", src, tok)
			}
			lastErr = err
		}
		if lastErr != errBoom {
			t.Errorf("scanning %q returned error %v; want %v", src, lastErr, errBoom)
		}
	}
}

func TestScannerEnd(t *testing.T) {
	tests := []struct {
		s    string
		want []Position
	}{
		{"x = 1", []Position{Pos(1, 2), Pos(1, 4), Pos(1, 6), Pos(1, 6)}},
		{"f[[\nabc]]", []Position{Pos(1, 2), Pos(2, 6), Pos(2, 6)}},
		{"\"a\\\nb\" x", []Position{Pos(2, 3), Pos(2, 5), Pos(2, 5)}},
	}
	for _, test := range tests {
		s := NewScanner(strings.NewReader(test.s))
		var got []Position
		for _, err := range s.All() {
			if err != nil {
				t.Fatalf("scanning %q: %v", test.s, err)
			}
			got = append(got, s.End())
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("End() after each token in %q (-want +got):\n%s", test.s, diff)
		}
	}
}

func TestAll(t *testing.T) {
	var got []TokenKind
	for tok, err := range NewScanner(strings.NewReader("local x = 1")).All() {
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, tok.Kind)
	}
	want := []TokenKind{LocalToken, IdentifierToken, AssignToken, IntegerToken, EOFToken}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("kinds (-want +got):\n%s", diff)
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Token{Kind: EOFToken}, "<eof>"},
		{Token{Kind: EndToken}, "end"},
		{Token{Kind: ConcatToken}, ".."},
		{Token{Kind: IdentifierToken, Value: "foo"}, "foo"},
		{Token{Kind: IntegerToken, Value: "0x10"}, "0x10"},
		{Token{Kind: StringToken, Value: "a\nb"}, `"a\nb"`},
	}
	for _, test := range tests {
		if got := test.tok.String(); got != test.want {
			t.Errorf("%#v.String() = %q; want %q", test.tok, got, test.want)
		}
	}
}

func TestIsName(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"", false},
		{"x", true},
		{"_", true},
		{"_ENV", true},
		{"a1", true},
		{"1a", false},
		{"end", false},
		{"End", true},
		{"a-b", false},
	}
	for _, test := range tests {
		if got := IsName(test.s); got != test.want {
			t.Errorf("IsName(%q) = %t; want %t", test.s, got, test.want)
		}
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		s    string
		want string
		err  bool
	}{
		{
			s:    `""`,
			want: "",
		},
		{
			s:    `''`,
			want: "",
		},
		{
			s:    `"abc"`,
			want: "abc",
		},
		{
			s:    `'abc'`,
			want: "abc",
		},
		{
			s:    "[[\nabc]]",
			want: "abc",
		},
		{
			s:    "[==[a]]b]==]",
			want: "a]]b",
		},
		{
			s:    `"a\z  ` + "\n" + `  b"`,
			want: "ab",
		},
		{
			s:   `"abc`,
			err: true,
		},
		{
			s:   `"abc"x`,
			err: true,
		},
		{
			s:   `abc`,
			err: true,
		},

		// Invalid UTF-8 code points.
		{
			s:    `"\u{110000}"`,
			want: "\xf4\x90\x80\x80",
		},
		{
			s:    `"\u{7FFFFFFF}"`,
			want: "\xfd\xbf\xbf\xbf\xbf\xbf",
		},
		{
			s:   `"\u{80000000}"`,
			err: true,
		},
	}

	for _, test := range tests {
		got, err := Unquote(test.s)
		if got != test.want || (err != nil) != test.err {
			errString := "<nil>"
			if test.err {
				errString = "<error>"
			}
			t.Errorf("Unquote(%q) = %q, %v; want %q, %s", test.s, got, err, test.want, errString)
		}
	}
}

func FuzzQuote(f *testing.F) {
	f.Add("")
	f.Add("abc")
	f.Add("Hello, 世界")
	f.Add("abc\nxyz")
	f.Add("abc\x00xyz")
	f.Add("\x00\x01\x023\x05\x009")
	f.Add("\x00\xe4\x00b8c\x00")
	f.Add("\x7f\x80")

	f.Fuzz(func(t *testing.T, s string) {
		luaString := Quote(s)
		got, err := Unquote(luaString)
		if got != s || err != nil {
			t.Errorf("Unquote(Quote(%q)) = %q, %v; want %q, <nil> (Quote(...) = %q)",
				s, got, err, s, luaString)
		}
	})
}

func FuzzScanner(f *testing.F) {
	f.Add("local x <const> = 0x10 .. [[s]] -- c")
	f.Add("a = 'b\\z\n c'")
	f.Add("3..2")
	f.Add("[==[")

	f.Fuzz(func(t *testing.T, src string) {
		s := NewScanner(strings.NewReader(src))
		for i := 0; i <= len(src)+1; i++ {
			tok, err := s.Scan()
			if err != nil {
				return
			}
			if tok.Kind == EOFToken {
				return
			}
		}
		t.Errorf("scan of %q did not reach end of input", src)
	})
}

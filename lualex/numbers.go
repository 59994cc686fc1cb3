// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

package lualex

import (
	"errors"
	"strconv"
	"strings"
)

// ParseInt converts the given string to a 64-bit signed integer
// according to the [lexical rules of Lua].
// Surrounding whitespace is permitted,
// and any error returned will be of type [*strconv.NumError].
// Hexadecimal integers wrap around on overflow;
// decimal integers that overflow return an error wrapping [strconv.ErrRange].
//
// [lexical rules of Lua]: https://lua.org/manual/5.4/manual.html#3.1
func ParseInt(s string) (int64, error) {
	s = trimSpace(s)
	neg, withoutSign := cutSign(s)
	syntaxError := &strconv.NumError{
		Func: "ParseInt",
		Num:  s,
		Err:  strconv.ErrSyntax,
	}
	if strings.Contains(withoutSign, "_") {
		return 0, syntaxError
	}

	if h, isHex := cutHexPrefix(withoutSign); isHex {
		// “Hexadecimal numerals with neither a radix point nor an exponent
		// always denote an integer value;
		// if the value overflows, it wraps around to fit into a valid integer.”
		if h == "" {
			return 0, syntaxError
		}
		var x uint64
		for _, b := range []byte(h) {
			nibble, err := hexDigit(b)
			if err != nil {
				return 0, syntaxError
			}
			x = x<<4 | uint64(nibble)
		}
		if neg {
			return int64(-x), nil
		}
		return int64(x), nil
	}

	return strconv.ParseInt(s, 10, 64)
}

// ParseNumber converts the given string to a 64-bit floating-point number
// according to the [lexical rules of Lua].
// Surrounding whitespace is permitted,
// and any error returned will be of type [*strconv.NumError].
//
// [lexical rules of Lua]: https://lua.org/manual/5.4/manual.html#3.1
func ParseNumber(s string) (float64, error) {
	s = trimSpace(s)
	_, withoutSign := cutSign(s)
	if strings.EqualFold(withoutSign, "Inf") ||
		strings.EqualFold(withoutSign, "Infinity") ||
		strings.EqualFold(withoutSign, "NaN") ||
		strings.Contains(withoutSign, "_") {
		return 0, &strconv.NumError{
			Func: "ParseNumber",
			Num:  s,
			Err:  strconv.ErrSyntax,
		}
	}
	toParse := s
	if (strings.HasPrefix(withoutSign, "0x") || strings.HasPrefix(withoutSign, "0X")) &&
		!strings.ContainsAny(s, "pP") {
		if !strings.Contains(s, ".") {
			i, err := ParseInt(s)
			if err != nil {
				err.(*strconv.NumError).Func = "ParseNumber"
			}
			return float64(i), err
		}

		// Go hex float literals must have an exponent.
		toParse = s + "p0"
	}
	f, err := strconv.ParseFloat(toParse, 64)
	if errors.Is(err, strconv.ErrRange) {
		err = nil
	} else if err != nil {
		err.(*strconv.NumError).Num = s
	}
	return f, err
}

// classifyNumeral reports whether the numeral as written
// denotes an integer or a float.
// Decimal integers too large to fit in 64 bits are floats.
// ok is false if the numeral is malformed.
func classifyNumeral(s string) (kind TokenKind, ok bool) {
	_, isHex := cutHexPrefix(s)
	var isFloat bool
	if isHex {
		isFloat = strings.ContainsAny(s, ".pP")
	} else {
		isFloat = strings.ContainsAny(s, ".eE")
	}
	if !isFloat {
		_, err := ParseInt(s)
		switch {
		case err == nil:
			return IntegerToken, true
		case isHex || !errors.Is(err, strconv.ErrRange):
			return ErrorToken, false
		}
	}
	if _, err := ParseNumber(s); err != nil {
		return ErrorToken, false
	}
	return FloatToken, true
}

func cutHexPrefix(s string) (rest string, hex bool) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s[2:], true
	}
	return s, false
}

func cutSign(s string) (neg bool, rest string) {
	switch {
	case len(s) == 0:
		return false, s
	case s[0] == '+':
		return false, s[1:]
	case s[0] == '-':
		return true, s[1:]
	default:
		return false, s
	}
}

func trimSpace(s string) string {
	for len(s) > 0 && isSpace(s[0]) {
		s = s[1:]
	}
	for len(s) > 0 && isSpace(s[len(s)-1]) {
		s = s[:len(s)-1]
	}
	return s
}

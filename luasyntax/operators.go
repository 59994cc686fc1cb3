// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package luasyntax

import (
	"fmt"

	"zb.256lights.llc/luaparse/lualex"
)

// BinaryOperator is an enumeration of Lua's binary operators.
// The zero value is not a valid operator.
type BinaryOperator int

// [BinaryOperator] values.
const (
	Or BinaryOperator = 1 + iota
	And
	Less
	Greater
	LessEqual
	GreaterEqual
	NotEqual
	Equal
	BitwiseOr
	BitwiseXOR
	BitwiseAnd
	ShiftLeft
	ShiftRight
	Concat
	Add
	Subtract
	Multiply
	Divide
	IntegerDivide
	Modulo
	Power

	numBinaryOperators = iota
)

var binaryOperatorTokens = [...]lualex.TokenKind{
	Or:            lualex.OrToken,
	And:           lualex.AndToken,
	Less:          lualex.LessToken,
	Greater:       lualex.GreaterToken,
	LessEqual:     lualex.LessEqualToken,
	GreaterEqual:  lualex.GreaterEqualToken,
	NotEqual:      lualex.NotEqualToken,
	Equal:         lualex.EqualToken,
	BitwiseOr:     lualex.BitOrToken,
	BitwiseXOR:    lualex.BitXorToken,
	BitwiseAnd:    lualex.BitAndToken,
	ShiftLeft:     lualex.LShiftToken,
	ShiftRight:    lualex.RShiftToken,
	Concat:        lualex.ConcatToken,
	Add:           lualex.AddToken,
	Subtract:      lualex.SubToken,
	Multiply:      lualex.MulToken,
	Divide:        lualex.DivToken,
	IntegerDivide: lualex.IntDivToken,
	Modulo:        lualex.ModToken,
	Power:         lualex.PowToken,
}

// IsValid reports whether op is one of the named operators.
func (op BinaryOperator) IsValid() bool {
	return 0 < op && op <= numBinaryOperators
}

// String returns the operator as written in Lua source.
func (op BinaryOperator) String() string {
	if !op.IsValid() {
		return fmt.Sprintf("BinaryOperator(%d)", int(op))
	}
	return binaryOperatorTokens[op].String()
}

func toBinaryOperator(tk lualex.TokenKind) (_ BinaryOperator, ok bool) {
	for op := Or; op <= numBinaryOperators; op++ {
		if binaryOperatorTokens[op] == tk {
			return op, true
		}
	}
	return 0, false
}

// operatorPrecedence is the binding power table for [BinaryOperator].
// An operator whose right power is lower than its left power
// is right associative.
var operatorPrecedence = [...]struct {
	left  uint8
	right uint8
}{
	Or:            {1, 1},
	And:           {2, 2},
	Less:          {3, 3},
	Greater:       {3, 3},
	LessEqual:     {3, 3},
	GreaterEqual:  {3, 3},
	NotEqual:      {3, 3},
	Equal:         {3, 3},
	BitwiseOr:     {4, 4},
	BitwiseXOR:    {5, 5},
	BitwiseAnd:    {6, 6},
	ShiftLeft:     {7, 7},
	ShiftRight:    {7, 7},
	Concat:        {9, 8}, // right associative
	Add:           {10, 10},
	Subtract:      {10, 10},
	Multiply:      {11, 11},
	Divide:        {11, 11},
	IntegerDivide: {11, 11},
	Modulo:        {11, 11},
	Power:         {14, 13}, // right associative
}

// unaryPrecedence is the binding power of the operand of a unary operator.
// Only [Power] binds tighter.
const unaryPrecedence = 12

// UnaryOperator is an enumeration of Lua's unary operators.
// The zero value is not a valid operator.
type UnaryOperator int

// [UnaryOperator] values.
const (
	UnaryMinus UnaryOperator = 1 + iota
	Not
	Length
	BitwiseNot

	numUnaryOperators = iota
)

// IsValid reports whether op is one of the named operators.
func (op UnaryOperator) IsValid() bool {
	return 0 < op && op <= numUnaryOperators
}

// String returns the operator as written in Lua source.
func (op UnaryOperator) String() string {
	switch op {
	case UnaryMinus:
		return "-"
	case Not:
		return "not"
	case Length:
		return "#"
	case BitwiseNot:
		return "~"
	default:
		return fmt.Sprintf("UnaryOperator(%d)", int(op))
	}
}

func toUnaryOperator(tk lualex.TokenKind) (_ UnaryOperator, ok bool) {
	switch tk {
	case lualex.SubToken:
		return UnaryMinus, true
	case lualex.NotToken:
		return Not, true
	case lualex.LenToken:
		return Length, true
	case lualex.BitXorToken:
		return BitwiseNot, true
	default:
		return 0, false
	}
}

// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package luasyntax

// Node is an element of the syntax tree:
// a [*Block], a [Stat], or an [Exp].
type Node interface {
	node()
}

// Block is an ordered sequence of statements.
// A chunk, a loop body, a function body, and each branch of an if statement
// are all blocks.
type Block struct {
	Stats []Stat
}

// Stat is a statement.
type Stat interface {
	Node
	stat()
}

// Exp is an expression.
type Exp interface {
	Node
	exp()
}

// EmptyStat is a lone semicolon.
type EmptyStat struct{}

// AssignStat is a multiple assignment.
// Each target is a [*NameExp] or an [*IndexExp].
// The lengths of Targets and Values need not match.
type AssignStat struct {
	Targets []Exp
	Values  []Exp
}

// CallStat is a function call evaluated for its side effects.
type CallStat struct {
	Call *FunctionCall
}

// LabelStat is a "::name::" label.
type LabelStat struct {
	Name string
}

// BreakStat is a break statement.
type BreakStat struct{}

// ReturnStat is a return statement.
type ReturnStat struct {
	Values []Exp
}

// GotoStat is a goto statement.
type GotoStat struct {
	Name string
}

// DoStat is a "do ... end" block.
type DoStat struct {
	Body Block
}

// WhileStat is a "while ... do ... end" loop.
type WhileStat struct {
	Cond Exp
	Body Block
}

// RepeatStat is a "repeat ... until ..." loop.
type RepeatStat struct {
	Body Block
	Cond Exp
}

// IfStat is an if statement.
type IfStat struct {
	If      IfClause
	ElseIfs []IfClause
	// Else is nil if the statement has no else clause.
	Else *Block
}

// IfClause is a condition and the block it guards.
type IfClause struct {
	Cond Exp
	Body Block
}

// NumericForStat is a "for name = start, end, step do ... end" loop.
type NumericForStat struct {
	Name  string
	Start Exp
	End   Exp
	// Step is nil if the loop does not name a step.
	Step Exp
	Body Block
}

// GenericForStat is a "for names in exps do ... end" loop.
type GenericForStat struct {
	Names []string
	Exps  []Exp
	Body  Block
}

// LocalFunctionStat is a "local function" declaration.
type LocalFunctionStat struct {
	Name string
	Func Funcbody
}

// LocalStat is a local variable declaration.
type LocalStat struct {
	Names  []AttName
	Values []Exp
}

// FunctionStat is a function declaration statement
// like "function a.b.c:m() end".
type FunctionStat struct {
	// Path is the dotted name of the function. It has at least one element.
	Path []string
	// Method is the name after the colon, if present.
	Method string
	Func   Funcbody
}

// AttName is a name in a local declaration
// with its optional attribute ("const" or "close").
type AttName struct {
	Name   string
	Attrib string
}

// Funcbody is the parameter list and body of a function.
type Funcbody struct {
	Params   []string
	IsVararg bool
	Body     Block
}

// NilExp is the nil literal.
type NilExp struct{}

// BoolExp is a true or false literal.
type BoolExp struct {
	Value bool
}

// IntExp is a numeral with an integer representation.
type IntExp struct {
	Value int64
}

// FloatExp is a numeral with a floating-point representation.
type FloatExp struct {
	Value float64
}

// StringExp is a string literal.
type StringExp struct {
	Value string
}

// VarargExp is the "..." expression.
type VarargExp struct{}

// FunctionExp is an anonymous function literal.
type FunctionExp struct {
	Func Funcbody
}

// FunctionCall is a function call expression.
// For a method call "recv:m(args)",
// Func is the receiver and Method is "m".
type FunctionCall struct {
	Func   Exp
	Method string
	Args   []Exp
}

// NameExp is a variable reference.
type NameExp struct {
	Name string
}

// ParenExp is a parenthesized expression.
// It is kept distinct from its operand
// because parentheses truncate multiple results to one value.
type ParenExp struct {
	X Exp
}

// BinaryExp is a binary operator expression.
type BinaryExp struct {
	Op BinaryOperator
	X  Exp
	Y  Exp
}

// UnaryExp is a unary operator expression.
type UnaryExp struct {
	Op UnaryOperator
	X  Exp
}

// IndexExp is an indexing expression "x[key]".
// "x.name" is represented with a [*StringExp] key.
type IndexExp struct {
	X   Exp
	Key Exp
}

// TableExp is a table constructor.
type TableExp struct {
	Fields []Field
}

// Field is a single entry in a table constructor.
// Key is nil for positional fields.
// "name = v" is represented with a [*StringExp] key.
type Field struct {
	Key   Exp
	Value Exp
}

func (*Block) node() {}

func (*EmptyStat) node()         {}
func (*AssignStat) node()        {}
func (*CallStat) node()          {}
func (*LabelStat) node()         {}
func (*BreakStat) node()         {}
func (*ReturnStat) node()        {}
func (*GotoStat) node()          {}
func (*DoStat) node()            {}
func (*WhileStat) node()         {}
func (*RepeatStat) node()        {}
func (*IfStat) node()            {}
func (*NumericForStat) node()    {}
func (*GenericForStat) node()    {}
func (*LocalFunctionStat) node() {}
func (*LocalStat) node()         {}
func (*FunctionStat) node()      {}

func (*EmptyStat) stat()         {}
func (*AssignStat) stat()        {}
func (*CallStat) stat()          {}
func (*LabelStat) stat()         {}
func (*BreakStat) stat()         {}
func (*ReturnStat) stat()        {}
func (*GotoStat) stat()          {}
func (*DoStat) stat()            {}
func (*WhileStat) stat()         {}
func (*RepeatStat) stat()        {}
func (*IfStat) stat()            {}
func (*NumericForStat) stat()    {}
func (*GenericForStat) stat()    {}
func (*LocalFunctionStat) stat() {}
func (*LocalStat) stat()         {}
func (*FunctionStat) stat()      {}

func (*NilExp) node()       {}
func (*BoolExp) node()      {}
func (*IntExp) node()       {}
func (*FloatExp) node()     {}
func (*StringExp) node()    {}
func (*VarargExp) node()    {}
func (*FunctionExp) node()  {}
func (*FunctionCall) node() {}
func (*NameExp) node()      {}
func (*ParenExp) node()     {}
func (*BinaryExp) node()    {}
func (*UnaryExp) node()     {}
func (*IndexExp) node()     {}
func (*TableExp) node()     {}

func (*NilExp) exp()       {}
func (*BoolExp) exp()      {}
func (*IntExp) exp()       {}
func (*FloatExp) exp()     {}
func (*StringExp) exp()    {}
func (*VarargExp) exp()    {}
func (*FunctionExp) exp()  {}
func (*FunctionCall) exp() {}
func (*NameExp) exp()      {}
func (*ParenExp) exp()     {}
func (*BinaryExp) exp()    {}
func (*UnaryExp) exp()     {}
func (*IndexExp) exp()     {}
func (*TableExp) exp()     {}

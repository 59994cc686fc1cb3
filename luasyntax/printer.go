// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package luasyntax

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"zb.256lights.llc/luaparse/lualex"
)

// Printer formats syntax trees as Lua source.
// The output of a Printer parses back to an equal tree.
type Printer struct {
	// Indent is the string written once per nesting level
	// at the start of each line.
	// If empty, a tab is used.
	Indent string
}

// Print formats b with the default [Printer] and writes it to w.
func Print(w io.Writer, b *Block) error {
	return new(Printer).Fprint(w, b)
}

// Format returns b formatted with the default [Printer].
func Format(b *Block) string {
	sb := new(strings.Builder)
	Print(sb, b)
	return sb.String()
}

// Fprint formats b and writes it to w.
func (p *Printer) Fprint(w io.Writer, b *Block) error {
	ps := &printState{indent: p.Indent}
	if ps.indent == "" {
		ps.indent = "\t"
	}
	ps.block(b)
	_, err := io.WriteString(w, ps.sb.String())
	return err
}

type printState struct {
	sb     strings.Builder
	indent string
	depth  int
}

func (ps *printState) newline() {
	ps.sb.WriteByte('\n')
	for range ps.depth {
		ps.sb.WriteString(ps.indent)
	}
}

// block writes each statement of b on its own line.
// The top-level block ends with a newline.
func (ps *printState) block(b *Block) {
	for _, stat := range b.Stats {
		ps.stat(stat)
		ps.sb.WriteByte('\n')
	}
}

// body writes an indented block starting on a new line,
// leaving the cursor at the start of the line after it.
func (ps *printState) body(b *Block) {
	ps.depth++
	for _, stat := range b.Stats {
		ps.newline()
		ps.stat(stat)
	}
	ps.depth--
	ps.newline()
}

func (ps *printState) stat(stat Stat) {
	switch stat := stat.(type) {
	case *EmptyStat:
		ps.sb.WriteString(";")
	case *AssignStat:
		ps.expList(stat.Targets)
		ps.sb.WriteString(" = ")
		ps.expList(stat.Values)
	case *CallStat:
		ps.exp(stat.Call)
	case *LabelStat:
		ps.sb.WriteString("::")
		ps.sb.WriteString(stat.Name)
		ps.sb.WriteString("::")
	case *BreakStat:
		ps.sb.WriteString("break")
	case *ReturnStat:
		ps.sb.WriteString("return")
		if len(stat.Values) > 0 {
			ps.sb.WriteString(" ")
			ps.expList(stat.Values)
		}
	case *GotoStat:
		ps.sb.WriteString("goto ")
		ps.sb.WriteString(stat.Name)
	case *DoStat:
		ps.sb.WriteString("do")
		ps.body(&stat.Body)
		ps.sb.WriteString("end")
	case *WhileStat:
		ps.sb.WriteString("while ")
		ps.exp(stat.Cond)
		ps.sb.WriteString(" do")
		ps.body(&stat.Body)
		ps.sb.WriteString("end")
	case *RepeatStat:
		ps.sb.WriteString("repeat")
		ps.body(&stat.Body)
		ps.sb.WriteString("until ")
		ps.exp(stat.Cond)
	case *IfStat:
		ps.sb.WriteString("if ")
		ps.exp(stat.If.Cond)
		ps.sb.WriteString(" then")
		ps.body(&stat.If.Body)
		for _, clause := range stat.ElseIfs {
			ps.sb.WriteString("elseif ")
			ps.exp(clause.Cond)
			ps.sb.WriteString(" then")
			ps.body(&clause.Body)
		}
		if stat.Else != nil {
			ps.sb.WriteString("else")
			ps.body(stat.Else)
		}
		ps.sb.WriteString("end")
	case *NumericForStat:
		ps.sb.WriteString("for ")
		ps.sb.WriteString(stat.Name)
		ps.sb.WriteString(" = ")
		ps.exp(stat.Start)
		ps.sb.WriteString(", ")
		ps.exp(stat.End)
		if stat.Step != nil {
			ps.sb.WriteString(", ")
			ps.exp(stat.Step)
		}
		ps.sb.WriteString(" do")
		ps.body(&stat.Body)
		ps.sb.WriteString("end")
	case *GenericForStat:
		ps.sb.WriteString("for ")
		ps.sb.WriteString(strings.Join(stat.Names, ", "))
		ps.sb.WriteString(" in ")
		ps.expList(stat.Exps)
		ps.sb.WriteString(" do")
		ps.body(&stat.Body)
		ps.sb.WriteString("end")
	case *LocalFunctionStat:
		ps.sb.WriteString("local function ")
		ps.sb.WriteString(stat.Name)
		ps.funcbody(&stat.Func)
	case *LocalStat:
		ps.sb.WriteString("local ")
		for i, name := range stat.Names {
			if i > 0 {
				ps.sb.WriteString(", ")
			}
			ps.sb.WriteString(name.Name)
			if name.Attrib != "" {
				ps.sb.WriteString(" <")
				ps.sb.WriteString(name.Attrib)
				ps.sb.WriteString(">")
			}
		}
		if len(stat.Values) > 0 {
			ps.sb.WriteString(" = ")
			ps.expList(stat.Values)
		}
	case *FunctionStat:
		ps.sb.WriteString("function ")
		ps.sb.WriteString(strings.Join(stat.Path, "."))
		if stat.Method != "" {
			ps.sb.WriteString(":")
			ps.sb.WriteString(stat.Method)
		}
		ps.funcbody(&stat.Func)
	default:
		panic(fmt.Errorf("print: unhandled statement %T", stat))
	}
}

func (ps *printState) funcbody(f *Funcbody) {
	ps.sb.WriteString("(")
	ps.sb.WriteString(strings.Join(f.Params, ", "))
	if f.IsVararg {
		if len(f.Params) > 0 {
			ps.sb.WriteString(", ")
		}
		ps.sb.WriteString("...")
	}
	ps.sb.WriteString(")")
	ps.body(&f.Body)
	ps.sb.WriteString("end")
}

func (ps *printState) expList(list []Exp) {
	for i, e := range list {
		if i > 0 {
			ps.sb.WriteString(", ")
		}
		ps.exp(e)
	}
}

func (ps *printState) exp(e Exp) {
	switch e := e.(type) {
	case *NilExp:
		ps.sb.WriteString("nil")
	case *BoolExp:
		ps.sb.WriteString(strconv.FormatBool(e.Value))
	case *IntExp:
		ps.sb.WriteString(formatInt(e.Value))
	case *FloatExp:
		ps.sb.WriteString(formatFloat(e.Value))
	case *StringExp:
		ps.sb.WriteString(lualex.Quote(e.Value))
	case *VarargExp:
		ps.sb.WriteString("...")
	case *FunctionExp:
		ps.sb.WriteString("function")
		ps.funcbody(&e.Func)
	case *FunctionCall:
		ps.prefixExp(e.Func)
		if e.Method != "" {
			ps.sb.WriteString(":")
			ps.sb.WriteString(e.Method)
		}
		ps.sb.WriteString("(")
		ps.expList(e.Args)
		ps.sb.WriteString(")")
	case *NameExp:
		ps.sb.WriteString(e.Name)
	case *ParenExp:
		ps.sb.WriteString("(")
		ps.exp(e.X)
		ps.sb.WriteString(")")
	case *BinaryExp:
		prec := operatorPrecedence[e.Op]
		ps.wrapIf(leftNeedsParens(e.X, prec.left), e.X)
		ps.sb.WriteString(" ")
		ps.sb.WriteString(e.Op.String())
		ps.sb.WriteString(" ")
		ps.wrapIf(rightNeedsParens(e.Y, prec.right), e.Y)
	case *UnaryExp:
		ps.sb.WriteString(e.Op.String())
		if e.Op == Not || e.Op == UnaryMinus && startsWithMinus(e.X) {
			ps.sb.WriteString(" ")
		}
		x, isBinary := e.X.(*BinaryExp)
		ps.wrapIf(isBinary && operatorPrecedence[x.Op].left <= unaryPrecedence, e.X)
	case *IndexExp:
		ps.prefixExp(e.X)
		if k, ok := e.Key.(*StringExp); ok && lualex.IsName(k.Value) {
			ps.sb.WriteString(".")
			ps.sb.WriteString(k.Value)
		} else {
			ps.sb.WriteString("[")
			ps.exp(e.Key)
			ps.sb.WriteString("]")
		}
	case *TableExp:
		ps.table(e)
	default:
		panic(fmt.Errorf("print: unhandled expression %T", e))
	}
}

// prefixExp writes e, parenthesizing it
// unless it can be followed by a call or index suffix as-is.
func (ps *printState) prefixExp(e Exp) {
	switch e.(type) {
	case *NameExp, *IndexExp, *FunctionCall, *ParenExp:
		ps.exp(e)
	default:
		ps.wrapIf(true, e)
	}
}

func (ps *printState) wrapIf(cond bool, e Exp) {
	if cond {
		ps.sb.WriteString("(")
	}
	ps.exp(e)
	if cond {
		ps.sb.WriteString(")")
	}
}

func (ps *printState) table(t *TableExp) {
	if len(t.Fields) == 0 {
		ps.sb.WriteString("{}")
		return
	}
	ps.sb.WriteString("{")
	for i, f := range t.Fields {
		if i > 0 {
			ps.sb.WriteString(", ")
		}
		switch k := f.Key.(type) {
		case nil:
		case *StringExp:
			if lualex.IsName(k.Value) {
				ps.sb.WriteString(k.Value)
			} else {
				ps.sb.WriteString("[")
				ps.exp(k)
				ps.sb.WriteString("]")
			}
			ps.sb.WriteString(" = ")
		default:
			ps.sb.WriteString("[")
			ps.exp(k)
			ps.sb.WriteString("] = ")
		}
		ps.exp(f.Value)
	}
	ps.sb.WriteString("}")
}

// leftNeedsParens reports whether x must be parenthesized
// as the left operand of an operator with the given left binding power.
func leftNeedsParens(x Exp, left uint8) bool {
	switch x := x.(type) {
	case *BinaryExp:
		return operatorPrecedence[x.Op].right < left
	case *UnaryExp:
		return unaryPrecedence < left
	default:
		return false
	}
}

// rightNeedsParens reports whether y must be parenthesized
// as the right operand of an operator with the given right binding power.
func rightNeedsParens(y Exp, right uint8) bool {
	x, ok := y.(*BinaryExp)
	return ok && operatorPrecedence[x.Op].left <= right
}

// startsWithMinus reports whether the formatted x begins with a '-',
// which would form a comment if written directly after another '-'.
func startsWithMinus(x Exp) bool {
	switch x := x.(type) {
	case *UnaryExp:
		return x.Op == UnaryMinus
	case *IntExp:
		return false
	case *FloatExp:
		return math.Signbit(x.Value) && !math.IsNaN(x.Value)
	default:
		return false
	}
}

// formatInt formats an integer as a numeral.
// Negative values are written in hexadecimal
// so that they read back as a single integer constant.
func formatInt(i int64) string {
	if i < 0 {
		return "0x" + strconv.FormatUint(uint64(i), 16)
	}
	return strconv.FormatInt(i, 10)
}

// formatFloat formats a floating-point number as a numeral
// that scans as a float.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "1e9999"
	case math.IsInf(f, -1):
		return "-1e9999"
	case math.IsNaN(f):
		return "(0.0 / 0.0)"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

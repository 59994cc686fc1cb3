// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package luasyntax

import "fmt"

// A Visitor's Visit method is invoked for each node encountered by [Walk].
// If the result visitor w is not nil,
// Walk visits each of the children of node with the visitor w,
// followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(n Node) (w Visitor)
}

// Walk traverses a syntax tree in depth-first order,
// visiting children in source order.
// It starts by calling v.Visit(n); n must not be nil.
func Walk(v Visitor, n Node) {
	if v = v.Visit(n); v == nil {
		return
	}

	switch n := n.(type) {
	case *Block:
		for _, stat := range n.Stats {
			Walk(v, stat)
		}

	case *EmptyStat, *BreakStat, *LabelStat, *GotoStat:
		// Leaves.
	case *AssignStat:
		walkList(v, n.Targets)
		walkList(v, n.Values)
	case *CallStat:
		Walk(v, n.Call)
	case *ReturnStat:
		walkList(v, n.Values)
	case *DoStat:
		Walk(v, &n.Body)
	case *WhileStat:
		Walk(v, n.Cond)
		Walk(v, &n.Body)
	case *RepeatStat:
		Walk(v, &n.Body)
		Walk(v, n.Cond)
	case *IfStat:
		Walk(v, n.If.Cond)
		Walk(v, &n.If.Body)
		for i := range n.ElseIfs {
			Walk(v, n.ElseIfs[i].Cond)
			Walk(v, &n.ElseIfs[i].Body)
		}
		if n.Else != nil {
			Walk(v, n.Else)
		}
	case *NumericForStat:
		Walk(v, n.Start)
		Walk(v, n.End)
		if n.Step != nil {
			Walk(v, n.Step)
		}
		Walk(v, &n.Body)
	case *GenericForStat:
		walkList(v, n.Exps)
		Walk(v, &n.Body)
	case *LocalFunctionStat:
		Walk(v, &n.Func.Body)
	case *LocalStat:
		walkList(v, n.Values)
	case *FunctionStat:
		Walk(v, &n.Func.Body)

	case *NilExp, *BoolExp, *IntExp, *FloatExp, *StringExp, *VarargExp, *NameExp:
		// Leaves.
	case *FunctionExp:
		Walk(v, &n.Func.Body)
	case *FunctionCall:
		Walk(v, n.Func)
		walkList(v, n.Args)
	case *ParenExp:
		Walk(v, n.X)
	case *BinaryExp:
		Walk(v, n.X)
		Walk(v, n.Y)
	case *UnaryExp:
		Walk(v, n.X)
	case *IndexExp:
		Walk(v, n.X)
		Walk(v, n.Key)
	case *TableExp:
		for _, f := range n.Fields {
			if f.Key != nil {
				Walk(v, f.Key)
			}
			Walk(v, f.Value)
		}

	default:
		panic(fmt.Sprintf("luasyntax.Walk: unexpected node type %T", n))
	}

	v.Visit(nil)
}

func walkList[E Node](v Visitor, list []E) {
	for _, n := range list {
		Walk(v, n)
	}
}

type inspector func(Node) bool

func (f inspector) Visit(n Node) Visitor {
	if f(n) {
		return f
	}
	return nil
}

// Inspect traverses a syntax tree in depth-first order,
// visiting children in source order.
// It starts by calling f(n); n must not be nil.
// If f returns true, Inspect invokes f recursively
// for each of the children of n, followed by a call of f(nil).
func Inspect(n Node, f func(Node) bool) {
	Walk(inspector(f), n)
}

// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package luasyntax

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInspect(t *testing.T) {
	b, err := ParseString("test", "local x = f(a, 1) if x then return {k = -x} end")
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	Inspect(b, func(n Node) bool {
		if n != nil {
			got = append(got, fmt.Sprintf("%T", n))
		}
		return true
	})
	want := []string{
		"*luasyntax.Block",
		"*luasyntax.LocalStat",
		"*luasyntax.FunctionCall",
		"*luasyntax.NameExp",
		"*luasyntax.NameExp",
		"*luasyntax.IntExp",
		"*luasyntax.IfStat",
		"*luasyntax.NameExp",
		"*luasyntax.Block",
		"*luasyntax.ReturnStat",
		"*luasyntax.TableExp",
		"*luasyntax.StringExp",
		"*luasyntax.UnaryExp",
		"*luasyntax.NameExp",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("visited nodes (-want +got):\n%s", diff)
	}
}

func TestInspectPrune(t *testing.T) {
	b, err := ParseString("test", "f(function() g() end) h()")
	if err != nil {
		t.Fatal(err)
	}
	var calls []string
	Inspect(b, func(n Node) bool {
		switch n := n.(type) {
		case *FunctionExp:
			return false
		case *FunctionCall:
			if name, ok := n.Func.(*NameExp); ok {
				calls = append(calls, name.Name)
			}
		}
		return true
	})
	want := []string{"f", "h"}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Errorf("calls outside function literals (-want +got):\n%s", diff)
	}
}

type countingVisitor struct {
	enter, leave int
}

func (v *countingVisitor) Visit(n Node) Visitor {
	if n == nil {
		v.leave++
	} else {
		v.enter++
	}
	return v
}

func TestWalkBalanced(t *testing.T) {
	b, err := ParseString("test", roundTripSource)
	if err != nil {
		t.Fatal(err)
	}
	v := new(countingVisitor)
	Walk(v, b)
	if v.enter == 0 || v.enter != v.leave {
		t.Errorf("Walk visited %d nodes and left %d; want equal and non-zero", v.enter, v.leave)
	}
}

// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

// Package astjson encodes Lua syntax trees and parse errors as JSON.
//
// Every node is encoded as an object whose "type" member names the node
// (e.g. "LocalStat" or "BinaryExp"), followed by the node's fields
// in lower camel case.
// Operators are encoded as their Lua spelling.
//
// A string literal whose value is valid UTF-8 is encoded as
// {"type":"StringExp","value":...}.
// Lua strings may hold arbitrary bytes,
// so any other string literal is encoded with a "quoted" member instead,
// holding the double-quoted Lua literal produced by [lualex.Quote].
package astjson

import (
	"errors"
	"math"
	"unicode/utf8"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"zb.256lights.llc/luaparse/lualex"
	"zb.256lights.llc/luaparse/luasyntax"
)

// Marshal returns the JSON encoding of n.
func Marshal(n luasyntax.Node, opts ...jsontext.Options) ([]byte, error) {
	return jsonv2.Marshal(Node{n}, opts...)
}

// Node wraps a [luasyntax.Node] so that it can be passed to
// the functions in [github.com/go-json-experiment/json].
type Node struct {
	luasyntax.Node
}

// MarshalJSONTo writes the node to the given JSON encoder.
func (n Node) MarshalJSONTo(enc *jsontext.Encoder) error {
	e := &encoder{enc: enc}
	e.node(n.Node)
	return e.err
}

// encoder writes tokens to a [*jsontext.Encoder]
// until the first error.
type encoder struct {
	enc *jsontext.Encoder
	err error
}

func (e *encoder) token(tok jsontext.Token) {
	if e.err == nil {
		e.err = e.enc.WriteToken(tok)
	}
}

func (e *encoder) name(s string) {
	e.token(jsontext.String(s))
}

func (e *encoder) begin(typ string) {
	e.token(jsontext.BeginObject)
	e.name("type")
	e.token(jsontext.String(typ))
}

func (e *encoder) end() {
	e.token(jsontext.EndObject)
}

func (e *encoder) stringMember(name, value string) {
	e.name(name)
	e.token(jsontext.String(value))
}

func (e *encoder) strings(name string, list []string) {
	e.name(name)
	e.token(jsontext.BeginArray)
	for _, s := range list {
		e.token(jsontext.String(s))
	}
	e.token(jsontext.EndArray)
}

func (e *encoder) member(name string, n luasyntax.Node) {
	e.name(name)
	e.node(n)
}

func (e *encoder) list(name string, list []luasyntax.Exp) {
	e.name(name)
	e.token(jsontext.BeginArray)
	for _, x := range list {
		e.node(x)
	}
	e.token(jsontext.EndArray)
}

func (e *encoder) block(name string, b *luasyntax.Block) {
	e.name(name)
	e.node(b)
}

func (e *encoder) funcbody(name string, f *luasyntax.Funcbody) {
	e.name(name)
	e.token(jsontext.BeginObject)
	e.strings("params", f.Params)
	e.name("isVararg")
	e.token(jsontext.Bool(f.IsVararg))
	e.block("body", &f.Body)
	e.token(jsontext.EndObject)
}

func (e *encoder) ifClause(c *luasyntax.IfClause) {
	e.token(jsontext.BeginObject)
	e.member("cond", c.Cond)
	e.block("body", &c.Body)
	e.token(jsontext.EndObject)
}

func (e *encoder) number(f float64) {
	switch {
	case math.IsInf(f, 1):
		e.token(jsontext.String("Infinity"))
	case math.IsInf(f, -1):
		e.token(jsontext.String("-Infinity"))
	case math.IsNaN(f):
		e.token(jsontext.String("NaN"))
	default:
		e.token(jsontext.Float(f))
	}
}

func (e *encoder) node(n luasyntax.Node) {
	if e.err != nil {
		return
	}
	switch n := n.(type) {
	case nil:
		e.token(jsontext.Null)
	case *luasyntax.Block:
		e.begin("Block")
		e.name("stats")
		e.token(jsontext.BeginArray)
		for _, stat := range n.Stats {
			e.node(stat)
		}
		e.token(jsontext.EndArray)
		e.end()

	case *luasyntax.EmptyStat:
		e.begin("EmptyStat")
		e.end()
	case *luasyntax.AssignStat:
		e.begin("AssignStat")
		e.list("targets", n.Targets)
		e.list("values", n.Values)
		e.end()
	case *luasyntax.CallStat:
		e.begin("CallStat")
		e.member("call", n.Call)
		e.end()
	case *luasyntax.LabelStat:
		e.begin("LabelStat")
		e.stringMember("name", n.Name)
		e.end()
	case *luasyntax.BreakStat:
		e.begin("BreakStat")
		e.end()
	case *luasyntax.ReturnStat:
		e.begin("ReturnStat")
		e.list("values", n.Values)
		e.end()
	case *luasyntax.GotoStat:
		e.begin("GotoStat")
		e.stringMember("name", n.Name)
		e.end()
	case *luasyntax.DoStat:
		e.begin("DoStat")
		e.block("body", &n.Body)
		e.end()
	case *luasyntax.WhileStat:
		e.begin("WhileStat")
		e.member("cond", n.Cond)
		e.block("body", &n.Body)
		e.end()
	case *luasyntax.RepeatStat:
		e.begin("RepeatStat")
		e.block("body", &n.Body)
		e.member("cond", n.Cond)
		e.end()
	case *luasyntax.IfStat:
		e.begin("IfStat")
		e.name("if")
		e.ifClause(&n.If)
		e.name("elseifs")
		e.token(jsontext.BeginArray)
		for i := range n.ElseIfs {
			e.ifClause(&n.ElseIfs[i])
		}
		e.token(jsontext.EndArray)
		if n.Else != nil {
			e.block("else", n.Else)
		}
		e.end()
	case *luasyntax.NumericForStat:
		e.begin("NumericForStat")
		e.stringMember("name", n.Name)
		e.member("start", n.Start)
		e.member("end", n.End)
		if n.Step != nil {
			e.member("step", n.Step)
		}
		e.block("body", &n.Body)
		e.end()
	case *luasyntax.GenericForStat:
		e.begin("GenericForStat")
		e.strings("names", n.Names)
		e.list("exps", n.Exps)
		e.block("body", &n.Body)
		e.end()
	case *luasyntax.LocalFunctionStat:
		e.begin("LocalFunctionStat")
		e.stringMember("name", n.Name)
		e.funcbody("func", &n.Func)
		e.end()
	case *luasyntax.LocalStat:
		e.begin("LocalStat")
		e.name("names")
		e.token(jsontext.BeginArray)
		for _, an := range n.Names {
			e.token(jsontext.BeginObject)
			e.stringMember("name", an.Name)
			if an.Attrib != "" {
				e.stringMember("attrib", an.Attrib)
			}
			e.token(jsontext.EndObject)
		}
		e.token(jsontext.EndArray)
		e.list("values", n.Values)
		e.end()
	case *luasyntax.FunctionStat:
		e.begin("FunctionStat")
		e.strings("path", n.Path)
		if n.Method != "" {
			e.stringMember("method", n.Method)
		}
		e.funcbody("func", &n.Func)
		e.end()

	case *luasyntax.NilExp:
		e.begin("NilExp")
		e.end()
	case *luasyntax.BoolExp:
		e.begin("BoolExp")
		e.name("value")
		e.token(jsontext.Bool(n.Value))
		e.end()
	case *luasyntax.IntExp:
		e.begin("IntExp")
		e.name("value")
		e.token(jsontext.Int(n.Value))
		e.end()
	case *luasyntax.FloatExp:
		e.begin("FloatExp")
		e.name("value")
		e.number(n.Value)
		e.end()
	case *luasyntax.StringExp:
		e.begin("StringExp")
		if utf8.ValidString(n.Value) {
			e.stringMember("value", n.Value)
		} else {
			e.stringMember("quoted", lualex.Quote(n.Value))
		}
		e.end()
	case *luasyntax.VarargExp:
		e.begin("VarargExp")
		e.end()
	case *luasyntax.FunctionExp:
		e.begin("FunctionExp")
		e.funcbody("func", &n.Func)
		e.end()
	case *luasyntax.FunctionCall:
		e.begin("FunctionCall")
		e.member("func", n.Func)
		if n.Method != "" {
			e.stringMember("method", n.Method)
		}
		e.list("args", n.Args)
		e.end()
	case *luasyntax.NameExp:
		e.begin("NameExp")
		e.stringMember("name", n.Name)
		e.end()
	case *luasyntax.ParenExp:
		e.begin("ParenExp")
		e.member("x", n.X)
		e.end()
	case *luasyntax.BinaryExp:
		e.begin("BinaryExp")
		e.stringMember("op", n.Op.String())
		e.member("x", n.X)
		e.member("y", n.Y)
		e.end()
	case *luasyntax.UnaryExp:
		e.begin("UnaryExp")
		e.stringMember("op", n.Op.String())
		e.member("x", n.X)
		e.end()
	case *luasyntax.IndexExp:
		e.begin("IndexExp")
		e.member("x", n.X)
		e.member("key", n.Key)
		e.end()
	case *luasyntax.TableExp:
		e.begin("TableExp")
		e.name("fields")
		e.token(jsontext.BeginArray)
		for _, f := range n.Fields {
			e.token(jsontext.BeginObject)
			if f.Key != nil {
				e.member("key", f.Key)
			}
			e.member("value", f.Value)
			e.token(jsontext.EndObject)
		}
		e.token(jsontext.EndArray)
		e.end()

	default:
		e.err = errors.New("astjson: unknown node type")
	}
}

// Error is the JSON representation of an error returned by [luasyntax.Parse].
type Error struct {
	// Kind is "lexical" for a [*lualex.LexicalError],
	// "syntax" for a [*luasyntax.SyntaxError],
	// and "io" for anything else.
	Kind string `json:"kind"`
	// LexicalKind is the [lualex.LexicalErrorKind] of a lexical error.
	LexicalKind string   `json:"lexicalKind,omitempty"`
	Line        int      `json:"line,omitzero"`
	Column      int      `json:"column,omitzero"`
	Expected    []string `json:"expected,omitempty"`
	Found       string   `json:"found,omitempty"`
	Message     string   `json:"message"`
}

// NewError converts a parse error into its JSON representation.
func NewError(err error) *Error {
	je := &Error{
		Kind:    "io",
		Message: err.Error(),
	}
	var lexErr *lualex.LexicalError
	var syntaxErr *luasyntax.SyntaxError
	switch {
	case errors.As(err, &lexErr):
		je.Kind = "lexical"
		je.LexicalKind = lexErr.Kind.String()
		je.Line = lexErr.Position.Line
		je.Column = lexErr.Position.Column
	case errors.As(err, &syntaxErr):
		je.Kind = "syntax"
		je.Line = syntaxErr.Position.Line
		je.Column = syntaxErr.Position.Column
		je.Expected = syntaxErr.Expected
		je.Found = syntaxErr.Found.String()
	}
	return je
}

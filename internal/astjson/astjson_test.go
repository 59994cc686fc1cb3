// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package astjson

import (
	"errors"
	"math"
	"testing"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/google/go-cmp/cmp"
	"zb.256lights.llc/luaparse/lualex"
	"zb.256lights.llc/luaparse/luasyntax"
)

func TestMarshal(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   any
	}{
		{
			name:   "Empty",
			source: "",
			want: map[string]any{
				"type":  "Block",
				"stats": []any{},
			},
		},
		{
			name:   "Local",
			source: "local x <const> = 1 + 2.5",
			want: map[string]any{
				"type": "Block",
				"stats": []any{
					map[string]any{
						"type": "LocalStat",
						"names": []any{
							map[string]any{"name": "x", "attrib": "const"},
						},
						"values": []any{
							map[string]any{
								"type": "BinaryExp",
								"op":   "+",
								"x":    map[string]any{"type": "IntExp", "value": 1.0},
								"y":    map[string]any{"type": "FloatExp", "value": 2.5},
							},
						},
					},
				},
			},
		},
		{
			name:   "MethodCall",
			source: `obj:m("s", ...)`,
			want: map[string]any{
				"type": "Block",
				"stats": []any{
					map[string]any{
						"type": "CallStat",
						"call": map[string]any{
							"type":   "FunctionCall",
							"func":   map[string]any{"type": "NameExp", "name": "obj"},
							"method": "m",
							"args": []any{
								map[string]any{"type": "StringExp", "value": "s"},
								map[string]any{"type": "VarargExp"},
							},
						},
					},
				},
			},
		},
		{
			name:   "If",
			source: "if a then elseif not b then else return end",
			want: map[string]any{
				"type": "Block",
				"stats": []any{
					map[string]any{
						"type": "IfStat",
						"if": map[string]any{
							"cond": map[string]any{"type": "NameExp", "name": "a"},
							"body": map[string]any{"type": "Block", "stats": []any{}},
						},
						"elseifs": []any{
							map[string]any{
								"cond": map[string]any{
									"type": "UnaryExp",
									"op":   "not",
									"x":    map[string]any{"type": "NameExp", "name": "b"},
								},
								"body": map[string]any{"type": "Block", "stats": []any{}},
							},
						},
						"else": map[string]any{
							"type": "Block",
							"stats": []any{
								map[string]any{"type": "ReturnStat", "values": []any{}},
							},
						},
					},
				},
			},
		},
		{
			name:   "Function",
			source: "function t.a:b(x, ...) end",
			want: map[string]any{
				"type": "Block",
				"stats": []any{
					map[string]any{
						"type":   "FunctionStat",
						"path":   []any{"t", "a"},
						"method": "b",
						"func": map[string]any{
							"params":   []any{"x"},
							"isVararg": true,
							"body":     map[string]any{"type": "Block", "stats": []any{}},
						},
					},
				},
			},
		},
		{
			name:   "Table",
			source: "return {1, k = true, [nil] = t[1]}",
			want: map[string]any{
				"type": "Block",
				"stats": []any{
					map[string]any{
						"type": "ReturnStat",
						"values": []any{
							map[string]any{
								"type": "TableExp",
								"fields": []any{
									map[string]any{
										"value": map[string]any{"type": "IntExp", "value": 1.0},
									},
									map[string]any{
										"key":   map[string]any{"type": "StringExp", "value": "k"},
										"value": map[string]any{"type": "BoolExp", "value": true},
									},
									map[string]any{
										"key": map[string]any{"type": "NilExp"},
										"value": map[string]any{
											"type": "IndexExp",
											"x":    map[string]any{"type": "NameExp", "name": "t"},
											"key":  map[string]any{"type": "IntExp", "value": 1.0},
										},
									},
								},
							},
						},
					},
				},
			},
		},
		{
			name:   "InvalidUTF8String",
			source: `return "\xff\200", "\u{48}i"`,
			want: map[string]any{
				"type": "Block",
				"stats": []any{
					map[string]any{
						"type": "ReturnStat",
						"values": []any{
							map[string]any{"type": "StringExp", "quoted": `"\xff\x80"`},
							map[string]any{"type": "StringExp", "value": "Hi"},
						},
					},
				},
			},
		},
		{
			name:   "NumericFor",
			source: "for i = 1, 2 do break end",
			want: map[string]any{
				"type": "Block",
				"stats": []any{
					map[string]any{
						"type":  "NumericForStat",
						"name":  "i",
						"start": map[string]any{"type": "IntExp", "value": 1.0},
						"end":   map[string]any{"type": "IntExp", "value": 2.0},
						"body": map[string]any{
							"type":  "Block",
							"stats": []any{map[string]any{"type": "BreakStat"}},
						},
					},
				},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b, err := luasyntax.ParseString("test", test.source)
			if err != nil {
				t.Fatal(err)
			}
			data, err := Marshal(b)
			if err != nil {
				t.Fatal("Marshal:", err)
			}
			var got any
			if err := jsonv2.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal(%s): %v", data, err)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Marshal(ParseString(%q)) (-want +got):\n%s", test.source, diff)
			}
		})
	}
}

func TestMarshalNonFiniteFloats(t *testing.T) {
	b := &luasyntax.Block{
		Stats: []luasyntax.Stat{
			&luasyntax.ReturnStat{
				Values: []luasyntax.Exp{
					&luasyntax.FloatExp{Value: math.Inf(1)},
					&luasyntax.FloatExp{Value: math.Inf(-1)},
					&luasyntax.FloatExp{Value: math.NaN()},
				},
			},
		},
	}
	data, err := Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	const want = `{"type":"Block","stats":[{"type":"ReturnStat","values":[` +
		`{"type":"FloatExp","value":"Infinity"},` +
		`{"type":"FloatExp","value":"-Infinity"},` +
		`{"type":"FloatExp","value":"NaN"}]}]}`
	if got := string(data); got != want {
		t.Errorf("Marshal(...) = %s; want %s", got, want)
	}
}

func TestNewError(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   *Error
	}{
		{
			name:   "Syntax",
			source: "x = = 1",
			want: &Error{
				Kind:    "syntax",
				Line:    1,
				Column:  5,
				Found:   "=",
				Message: "test:1:5: unexpected symbol near '='",
			},
		},
		{
			name:   "Expected",
			source: "do",
			want: &Error{
				Kind:     "syntax",
				Line:     1,
				Column:   3,
				Expected: []string{"'end'"},
				Found:    "<eof>",
				Message:  "test:1:3: 'end' expected near <eof>",
			},
		},
		{
			name:   "Lexical",
			source: `x = "abc`,
			want: &Error{
				Kind:        "lexical",
				LexicalKind: lualex.UnterminatedString.String(),
				Line:        1,
				Column:      5,
				Message:     "test:1:5: unfinished string",
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := luasyntax.ParseString("test", test.source)
			if err == nil {
				t.Fatalf("ParseString(%q) did not return an error", test.source)
			}
			got := NewError(err)
			// Messages are tested in luasyntax.
			got.Message = test.want.Message
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("NewError(...) (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("Other", func(t *testing.T) {
		got := NewError(errors.New("bork"))
		want := &Error{Kind: "io", Message: "bork"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("NewError(...) (-want +got):\n%s", diff)
		}
	})
}

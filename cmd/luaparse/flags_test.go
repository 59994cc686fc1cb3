// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package main

import "testing"

func TestIndentFlag(t *testing.T) {
	tests := []struct {
		arg     string
		want    string
		wantStr string
		wantErr bool
	}{
		{arg: "tab", want: "\t", wantStr: "tab"},
		{arg: "TAB", want: "\t", wantStr: "tab"},
		{arg: "2", want: "  ", wantStr: "2"},
		{arg: "4", want: "    ", wantStr: "4"},
		{arg: "0", wantErr: true},
		{arg: "17", wantErr: true},
		{arg: "-1", wantErr: true},
		{arg: "xyz", wantErr: true},
	}
	for _, test := range tests {
		var indent string
		f := &indentFlag{indent: &indent}
		err := f.Set(test.arg)
		if test.wantErr {
			if err == nil {
				t.Errorf("Set(%q) = <nil>; want error (indent = %q)", test.arg, indent)
			}
			continue
		}
		if err != nil {
			t.Errorf("Set(%q): %v", test.arg, err)
			continue
		}
		if indent != test.want {
			t.Errorf("after Set(%q), indent = %q; want %q", test.arg, indent, test.want)
		}
		if got := f.String(); got != test.wantStr {
			t.Errorf("after Set(%q), String() = %q; want %q", test.arg, got, test.wantStr)
		}
	}
}

func TestOutputFormatFlag(t *testing.T) {
	var f outputFormatFlag
	if err := f.Set("Lua"); err != nil {
		t.Fatal(err)
	}
	if outputFormat(f) != luaFormat {
		t.Errorf("after Set(\"Lua\"), format = %q; want %q", f, luaFormat)
	}
	if err := f.Set("yaml"); err == nil {
		t.Error("Set(\"yaml\") = <nil>; want error")
	}
}

// # internal/parser/parser_test.go
package parser

import (
	"testing"

	"codescope/internal/summary"
)

func TestParse_TypeScript(t *testing.T) {
	source := `import React from "react";
import { useState, useEffect as effect } from "react";
import * as path from "node:path";
import { helper } from "./util";
import "./polyfill";

export function loadUser(id: string, force?: boolean) {
	return fetch("/users/" + id);
}

export default class UserService {
	cache = new Map();

	get(id: string) {
		return this.cache.get(id);
	}
}

export interface User {
	id: string;
}

export type UserID = string;

export const MAX_USERS = 100;
`

	p := New()
	file := p.Parse("src/user.ts", []byte(source))

	if file.ParseError {
		t.Fatalf("unexpected parse error: %s", file.ParseErrorMsg)
	}
	if file.Language != "typescript" {
		t.Errorf("Language = %q", file.Language)
	}

	byFrom := make(map[string][]summary.Import)
	for _, imp := range file.Imports {
		byFrom[imp.From] = append(byFrom[imp.From], imp)
	}

	react := byFrom["react"]
	if len(react) != 3 {
		t.Fatalf("react imports = %v", react)
	}
	if react[0].Name != "React" || !react[0].IsDefault {
		t.Errorf("default import = %+v", react[0])
	}
	if react[2].Name != "effect" {
		t.Errorf("aliased import should record the alias, got %+v", react[2])
	}
	for _, imp := range react {
		if imp.Kind != summary.ImportExternal {
			t.Errorf("react import kind = %s", imp.Kind)
		}
	}

	if got := byFrom["node:path"]; len(got) != 1 || got[0].Kind != summary.ImportBuiltin || got[0].Name != "path" {
		t.Errorf("namespace builtin import = %v", got)
	}
	if got := byFrom["./util"]; len(got) != 1 || got[0].Kind != summary.ImportInternal {
		t.Errorf("internal import = %v", got)
	}
	if got := byFrom["./polyfill"]; len(got) != 1 || got[0].Name != "" {
		t.Errorf("side-effect import = %v", got)
	}

	if len(file.Functions) != 1 || file.Functions[0].Name != "loadUser" {
		t.Fatalf("Functions = %v", file.Functions)
	}
	if !file.Functions[0].Exported {
		t.Error("loadUser not marked exported")
	}
	if file.Functions[0].Params != 2 {
		t.Errorf("Params = %d, want 2", file.Functions[0].Params)
	}

	if len(file.Classes) != 1 || file.Classes[0].Name != "UserService" {
		t.Fatalf("Classes = %v", file.Classes)
	}
	cls := file.Classes[0]
	if len(cls.Methods) != 1 || cls.Methods[0].Name != "get" {
		t.Errorf("Methods = %v", cls.Methods)
	}
	if len(cls.Properties) != 1 || cls.Properties[0].Name != "cache" {
		t.Errorf("Properties = %v", cls.Properties)
	}

	if len(file.Interfaces) != 1 || file.Interfaces[0].Name != "User" {
		t.Errorf("Interfaces = %v", file.Interfaces)
	}
	if len(file.TypeAliases) != 1 || file.TypeAliases[0].Name != "UserID" {
		t.Errorf("TypeAliases = %v", file.TypeAliases)
	}
	if len(file.Variables) != 1 || file.Variables[0].Name != "MAX_USERS" || !file.Variables[0].Exported {
		t.Errorf("Variables = %v", file.Variables)
	}

	hasDefault := false
	for _, exp := range file.Exports {
		if exp.IsDefault && exp.Name == "UserService" {
			hasDefault = true
		}
	}
	if !hasDefault {
		t.Errorf("default class export missing: %v", file.Exports)
	}
}

func TestParse_JavaScript(t *testing.T) {
	source := `const fs = require("fs");

function main() {
	console.log("hi");
}
`
	p := New()
	file := p.Parse("cli.js", []byte(source))

	if file.ParseError {
		t.Fatalf("unexpected parse error: %s", file.ParseErrorMsg)
	}
	if file.Language != "javascript" {
		t.Errorf("Language = %q", file.Language)
	}
	if len(file.Functions) != 1 || file.Functions[0].Name != "main" {
		t.Errorf("Functions = %v", file.Functions)
	}
}

func TestParse_TSX(t *testing.T) {
	source := `export function Button({ label }: { label: string }) {
	return <button>{label}</button>;
}
`
	p := New()
	file := p.Parse("Button.tsx", []byte(source))

	if file.ParseError {
		t.Fatalf("unexpected parse error: %s", file.ParseErrorMsg)
	}
	if file.Language != "tsx" {
		t.Errorf("Language = %q", file.Language)
	}
	if len(file.Functions) != 1 || file.Functions[0].Name != "Button" {
		t.Errorf("Functions = %v", file.Functions)
	}
}

func TestParse_MalformedSource(t *testing.T) {
	p := New()
	file := p.Parse("broken.ts", []byte("function ("))

	if !file.ParseError {
		t.Error("malformed source should set ParseError")
	}
}

func TestParse_UnsupportedExtension(t *testing.T) {
	p := New()
	file := p.Parse("style.css", []byte(".a {}"))

	if !file.ParseError {
		t.Error("unsupported extension should set ParseError")
	}
}

func TestSupported(t *testing.T) {
	p := New()
	if !p.Supported("a.ts") || !p.Supported("b.mjs") {
		t.Error("supported extensions rejected")
	}
	if p.Supported("c.go") {
		t.Error("go files are not supported")
	}
}

func TestClassifySpecifier(t *testing.T) {
	cases := map[string]summary.ImportKind{
		"./a":          summary.ImportInternal,
		"../lib/b":     summary.ImportInternal,
		".":            summary.ImportInternal,
		"node:fs":      summary.ImportBuiltin,
		"fs":           summary.ImportBuiltin,
		"path/posix":   summary.ImportBuiltin,
		"react":        summary.ImportExternal,
		"@scope/pkg":   summary.ImportExternal,
		"lodash/merge": summary.ImportExternal,
	}
	for spec, want := range cases {
		if got := classifySpecifier(spec); got != want {
			t.Errorf("classifySpecifier(%q) = %s, want %s", spec, got, want)
		}
	}
}

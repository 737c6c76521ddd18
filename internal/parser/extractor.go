// # internal/parser/extractor.go
package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"codescope/internal/summary"
)

// extractor walks the syntax tree once and fills the file summary. The
// TypeScript, TSX and JavaScript grammars share the node kinds handled
// here; TS-only kinds simply never occur in JS trees.
type extractor struct {
	source []byte
	file   *summary.FileSummary
}

func (e *extractor) walk(node *sitter.Node, exported bool) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "import_statement":
		e.extractImport(node)
		return
	case "export_statement":
		e.extractExport(node)
		return
	case "function_declaration", "generator_function_declaration":
		e.extractFunction(node, exported)
		return
	case "class_declaration":
		e.extractClass(node, exported)
		return
	case "interface_declaration":
		e.extractInterface(node, exported)
		return
	case "type_alias_declaration":
		e.extractTypeAlias(node, exported)
		return
	case "lexical_declaration", "variable_declaration":
		e.extractVariables(node, exported)
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		e.walk(node.Child(i), false)
	}
}

func (e *extractor) extractImport(node *sitter.Node) {
	from := ""
	names := make([]string, 0, 2)
	defaults := make(map[string]bool)

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "string":
			from = trimQuotes(e.text(child))
		case "import_clause":
			e.collectImportNames(child, &names, defaults)
		}
	}

	if from == "" {
		return
	}

	line := int(node.StartPosition().Row) + 1
	kind := classifySpecifier(from)

	if len(names) == 0 {
		// Side-effect import: import "./polyfill".
		e.file.Imports = append(e.file.Imports, summary.Import{
			From: from,
			Kind: kind,
			Line: line,
		})
		return
	}

	for _, name := range names {
		e.file.Imports = append(e.file.Imports, summary.Import{
			Name:      name,
			From:      from,
			Kind:      kind,
			IsDefault: defaults[name],
			Line:      line,
		})
	}
}

func (e *extractor) collectImportNames(clause *sitter.Node, names *[]string, defaults map[string]bool) {
	for i := uint(0); i < clause.ChildCount(); i++ {
		child := clause.Child(i)
		switch child.Kind() {
		case "identifier":
			name := e.text(child)
			*names = append(*names, name)
			defaults[name] = true
		case "namespace_import":
			for j := uint(0); j < child.ChildCount(); j++ {
				if inner := child.Child(j); inner.Kind() == "identifier" {
					*names = append(*names, e.text(inner))
				}
			}
		case "named_imports":
			for j := uint(0); j < child.ChildCount(); j++ {
				spec := child.Child(j)
				if spec.Kind() != "import_specifier" {
					continue
				}
				// Last identifier wins: covers "name as alias".
				name := ""
				for k := uint(0); k < spec.ChildCount(); k++ {
					if inner := spec.Child(k); inner.Kind() == "identifier" {
						name = e.text(inner)
					}
				}
				if name != "" {
					*names = append(*names, name)
				}
			}
		}
	}
}

func (e *extractor) extractExport(node *sitter.Node) {
	isDefault := false
	for i := uint(0); i < node.ChildCount(); i++ {
		if node.Child(i).Kind() == "default" {
			isDefault = true
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "function_declaration", "generator_function_declaration":
			e.extractFunction(child, true)
			e.recordExport(e.declarationName(child), summary.KindFunction, child, isDefault)
		case "class_declaration":
			e.extractClass(child, true)
			e.recordExport(e.declarationName(child), summary.KindClass, child, isDefault)
		case "interface_declaration":
			e.extractInterface(child, true)
			e.recordExport(e.declarationName(child), summary.KindInterface, child, isDefault)
		case "type_alias_declaration":
			e.extractTypeAlias(child, true)
			e.recordExport(e.declarationName(child), summary.KindType, child, isDefault)
		case "lexical_declaration", "variable_declaration":
			e.extractVariables(child, true)
			for _, name := range e.declaratorNames(child) {
				e.recordExport(name, summary.KindVariable, child, isDefault)
			}
		case "export_clause":
			for j := uint(0); j < child.ChildCount(); j++ {
				spec := child.Child(j)
				if spec.Kind() != "export_specifier" {
					continue
				}
				name := ""
				for k := uint(0); k < spec.ChildCount(); k++ {
					if inner := spec.Child(k); inner.Kind() == "identifier" {
						name = e.text(inner)
					}
				}
				e.recordExport(name, summary.KindVariable, spec, false)
			}
		}
	}
}

func (e *extractor) recordExport(name string, kind summary.SymbolKind, node *sitter.Node, isDefault bool) {
	if name == "" && !isDefault {
		return
	}
	e.file.Exports = append(e.file.Exports, summary.Export{
		Name:      name,
		Kind:      kind,
		IsDefault: isDefault,
		Line:      int(node.StartPosition().Row) + 1,
	})
}

func (e *extractor) extractFunction(node *sitter.Node, exported bool) {
	name := e.declarationName(node)
	if name == "" {
		return
	}
	e.file.Functions = append(e.file.Functions, summary.Function{
		Name:     name,
		Line:     int(node.StartPosition().Row) + 1,
		EndLine:  int(node.EndPosition().Row) + 1,
		Params:   e.paramCount(node),
		Exported: exported,
	})
}

func (e *extractor) extractClass(node *sitter.Node, exported bool) {
	cls := summary.Class{
		Name:     e.declarationName(node),
		Line:     int(node.StartPosition().Row) + 1,
		EndLine:  int(node.EndPosition().Row) + 1,
		Exported: exported,
	}
	if cls.Name == "" {
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		body := node.Child(i)
		if body.Kind() != "class_body" {
			continue
		}
		for j := uint(0); j < body.ChildCount(); j++ {
			member := body.Child(j)
			switch member.Kind() {
			case "method_definition":
				cls.Methods = append(cls.Methods, summary.Method{
					Name:    e.memberName(member),
					Line:    int(member.StartPosition().Row) + 1,
					EndLine: int(member.EndPosition().Row) + 1,
					Params:  e.paramCount(member),
				})
			case "public_field_definition", "field_definition":
				cls.Properties = append(cls.Properties, summary.Property{
					Name: e.memberName(member),
					Line: int(member.StartPosition().Row) + 1,
				})
			}
		}
	}

	e.file.Classes = append(e.file.Classes, cls)
}

func (e *extractor) extractInterface(node *sitter.Node, exported bool) {
	name := e.declarationName(node)
	if name == "" {
		return
	}
	e.file.Interfaces = append(e.file.Interfaces, summary.Interface{
		Name:     name,
		Line:     int(node.StartPosition().Row) + 1,
		Exported: exported,
	})
}

func (e *extractor) extractTypeAlias(node *sitter.Node, exported bool) {
	name := e.declarationName(node)
	if name == "" {
		return
	}
	e.file.TypeAliases = append(e.file.TypeAliases, summary.TypeAlias{
		Name:     name,
		Line:     int(node.StartPosition().Row) + 1,
		Exported: exported,
	})
}

func (e *extractor) extractVariables(node *sitter.Node, exported bool) {
	for i := uint(0); i < node.ChildCount(); i++ {
		decl := node.Child(i)
		if decl.Kind() != "variable_declarator" {
			continue
		}
		for j := uint(0); j < decl.ChildCount(); j++ {
			if inner := decl.Child(j); inner.Kind() == "identifier" {
				e.file.Variables = append(e.file.Variables, summary.Variable{
					Name:     e.text(inner),
					Line:     int(decl.StartPosition().Row) + 1,
					Exported: exported,
				})
				break
			}
		}
	}
}

// declaratorNames returns the declared names of a lexical or variable
// declaration, mirroring the traversal in extractVariables.
func (e *extractor) declaratorNames(node *sitter.Node) []string {
	var names []string
	for i := uint(0); i < node.ChildCount(); i++ {
		decl := node.Child(i)
		if decl.Kind() != "variable_declarator" {
			continue
		}
		for j := uint(0); j < decl.ChildCount(); j++ {
			if inner := decl.Child(j); inner.Kind() == "identifier" {
				names = append(names, e.text(inner))
				break
			}
		}
	}
	return names
}

// declarationName finds the name node of a declaration: identifiers for
// functions, type identifiers for classes, interfaces and type aliases.
func (e *extractor) declarationName(node *sitter.Node) string {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "identifier", "type_identifier":
			return e.text(child)
		}
	}
	return ""
}

func (e *extractor) memberName(node *sitter.Node) string {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "property_identifier", "private_property_identifier", "computed_property_name":
			return e.text(child)
		}
	}
	return ""
}

func (e *extractor) paramCount(node *sitter.Node) int {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() != "formal_parameters" {
			continue
		}
		count := 0
		for j := uint(0); j < child.ChildCount(); j++ {
			switch child.Child(j).Kind() {
			case "required_parameter", "optional_parameter", "identifier", "rest_pattern", "object_pattern", "array_pattern", "assignment_pattern":
				count++
			}
		}
		return count
	}
	return 0
}

func (e *extractor) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(e.source[node.StartByte():node.EndByte()])
}

func trimQuotes(value string) string {
	value = strings.TrimSpace(value)
	return strings.Trim(value, "\"'`")
}

// # internal/summary/types.go
package summary

import (
	"time"
)

// FileSummary is the structural description of one source file as produced
// by the parser. It is replaced wholesale whenever the file changes and is
// never mutated after construction.
type FileSummary struct {
	Path          string      `json:"path"`
	Language      string      `json:"language"`
	Imports       []Import    `json:"imports,omitempty"`
	Exports       []Export    `json:"exports,omitempty"`
	Functions     []Function  `json:"functions,omitempty"`
	Classes       []Class     `json:"classes,omitempty"`
	Interfaces    []Interface `json:"interfaces,omitempty"`
	TypeAliases   []TypeAlias `json:"typeAliases,omitempty"`
	Variables     []Variable  `json:"variables,omitempty"`
	ParseError    bool        `json:"parseError,omitempty"`
	ParseErrorMsg string      `json:"parseErrorMsg,omitempty"`
	ParsedAt      time.Time   `json:"parsedAt"`
}

type ImportKind string

const (
	ImportInternal ImportKind = "internal"
	ImportExternal ImportKind = "external"
	ImportBuiltin  ImportKind = "builtin"
)

type Import struct {
	Name      string     `json:"name"`
	From      string     `json:"from"`
	Kind      ImportKind `json:"kind"`
	IsDefault bool       `json:"isDefault,omitempty"`
	Line      int        `json:"line"`
}

type SymbolKind string

const (
	KindFunction  SymbolKind = "function"
	KindClass     SymbolKind = "class"
	KindInterface SymbolKind = "interface"
	KindType      SymbolKind = "type"
	KindVariable  SymbolKind = "variable"
	KindMethod    SymbolKind = "method"
)

type Export struct {
	Name      string     `json:"name"`
	Kind      SymbolKind `json:"kind"`
	IsDefault bool       `json:"isDefault,omitempty"`
	Line      int        `json:"line"`
}

type Function struct {
	Name     string `json:"name"`
	Line     int    `json:"line"`
	EndLine  int    `json:"endLine"`
	Params   int    `json:"params"`
	Exported bool   `json:"exported,omitempty"`
}

type Class struct {
	Name       string     `json:"name"`
	Line       int        `json:"line"`
	EndLine    int        `json:"endLine"`
	Exported   bool       `json:"exported,omitempty"`
	Methods    []Method   `json:"methods,omitempty"`
	Properties []Property `json:"properties,omitempty"`
}

type Method struct {
	Name    string `json:"name"`
	Line    int    `json:"line"`
	EndLine int    `json:"endLine"`
	Params  int    `json:"params"`
}

type Property struct {
	Name string `json:"name"`
	Line int    `json:"line"`
}

type Interface struct {
	Name     string `json:"name"`
	Line     int    `json:"line"`
	Exported bool   `json:"exported,omitempty"`
}

type TypeAlias struct {
	Name     string `json:"name"`
	Line     int    `json:"line"`
	Exported bool   `json:"exported,omitempty"`
}

type Variable struct {
	Name     string `json:"name"`
	Line     int    `json:"line"`
	Exported bool   `json:"exported,omitempty"`
}

// Clone returns a deep copy so callers can hold summaries across index writes.
func (f *FileSummary) Clone() *FileSummary {
	if f == nil {
		return nil
	}
	c := *f
	c.Imports = append([]Import(nil), f.Imports...)
	c.Exports = append([]Export(nil), f.Exports...)
	c.Functions = append([]Function(nil), f.Functions...)
	c.Interfaces = append([]Interface(nil), f.Interfaces...)
	c.TypeAliases = append([]TypeAlias(nil), f.TypeAliases...)
	c.Variables = append([]Variable(nil), f.Variables...)
	if len(f.Classes) > 0 {
		c.Classes = make([]Class, len(f.Classes))
		for i, cls := range f.Classes {
			cc := cls
			cc.Methods = append([]Method(nil), cls.Methods...)
			cc.Properties = append([]Property(nil), cls.Properties...)
			c.Classes[i] = cc
		}
	}
	return &c
}

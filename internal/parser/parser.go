// # internal/parser/parser.go
package parser

import (
	"fmt"
	"path/filepath"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"codescope/internal/summary"
)

// Parser produces structural summaries from raw source. Parse never fails
// hard: malformed input yields a partial summary with ParseError set, an
// empty one on total failure.
type Parser struct {
	languages map[string]*sitter.Language
}

func New() *Parser {
	return &Parser{
		languages: map[string]*sitter.Language{
			"typescript": sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
			"tsx":        sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()),
			"javascript": sitter.NewLanguage(tree_sitter_javascript.Language()),
		},
	}
}

// Supported reports whether a path has an extension the parser handles.
func (p *Parser) Supported(path string) bool {
	return p.detectLanguage(path) != ""
}

func (p *Parser) Parse(path string, content []byte) *summary.FileSummary {
	file := &summary.FileSummary{
		Path:     path,
		ParsedAt: time.Now(),
	}

	lang := p.detectLanguage(path)
	if lang == "" {
		file.ParseError = true
		file.ParseErrorMsg = fmt.Sprintf("unsupported extension: %s", filepath.Ext(path))
		return file
	}
	file.Language = lang

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(p.languages[lang])

	tree := parser.Parse(content, nil)
	if tree == nil {
		file.ParseError = true
		file.ParseErrorMsg = "parse produced no tree"
		return file
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		// Extraction still proceeds over whatever the tree recovered.
		file.ParseError = true
		file.ParseErrorMsg = "syntax errors in source"
	}

	e := &extractor{source: content, file: file}
	e.walk(root, false)
	return file
}

func (p *Parser) detectLanguage(path string) string {
	switch filepath.Ext(path) {
	case ".ts":
		return "typescript"
	case ".tsx":
		return "tsx"
	case ".js", ".jsx", ".mjs", ".cjs":
		return "javascript"
	default:
		return ""
	}
}

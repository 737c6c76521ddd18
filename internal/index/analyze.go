// # internal/index/analyze.go
package index

import (
	"path"
	"strings"

	"codescope/internal/summary"
)

// FileType classifies a file from its path alone.
type FileType string

const (
	FileSource  FileType = "source"
	FileTest    FileType = "test"
	FileTypes   FileType = "types"
	FileConfig  FileType = "config"
	FileUnknown FileType = "unknown"
)

// hubThreshold is the dependent count a file must exceed to be a hub.
const hubThreshold = 5

// reference maxima at which each complexity input saturates its share of
// the score.
const (
	refMaxLOC        = 500
	refMaxNesting    = 10
	refMaxCyclomatic = 20
)

// ComplexityMetrics is a structural approximation, not a control-flow
// accurate measurement.
type ComplexityMetrics struct {
	LOC        int `json:"loc"`
	Nesting    int `json:"nesting"`
	Cyclomatic int `json:"cyclomaticComplexity"`
	Score      int `json:"score"`
}

// AnalyzeComplexity derives metrics from the raw source and the file's
// structural summary.
func AnalyzeComplexity(source []byte, s *summary.FileSummary) ComplexityMetrics {
	m := ComplexityMetrics{
		LOC:        CountLinesOfCode(source),
		Nesting:    estimateNesting(s),
		Cyclomatic: estimateCyclomatic(s),
	}
	m.Score = complexityScore(m.LOC, m.Nesting, m.Cyclomatic)
	return m
}

// CountLinesOfCode counts lines that are neither blank nor fully inside a
// comment. Both //-style and /* */-style comments are recognized, including
// block comments spanning multiple lines.
func CountLinesOfCode(source []byte) int {
	loc := 0
	inBlock := false

	for _, line := range strings.Split(string(source), "\n") {
		trimmed := strings.TrimSpace(line)
		hasCode := false

		for i := 0; i < len(trimmed); {
			if inBlock {
				end := strings.Index(trimmed[i:], "*/")
				if end < 0 {
					i = len(trimmed)
					break
				}
				inBlock = false
				i += end + 2
				continue
			}
			if strings.HasPrefix(trimmed[i:], "//") {
				break
			}
			if strings.HasPrefix(trimmed[i:], "/*") {
				inBlock = true
				i += 2
				continue
			}
			if !isSpaceByte(trimmed[i]) {
				hasCode = true
			}
			i++
		}

		if hasCode {
			loc++
		}
	}

	return loc
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r'
}

// estimateNesting is a structural proxy: roughly one level per ten lines of
// a function's span, taking the maximum across all functions and methods.
func estimateNesting(s *summary.FileSummary) int {
	if s == nil {
		return 0
	}
	deepest := 0
	consider := func(startLine, endLine int) {
		span := endLine - startLine + 1
		if span < 1 {
			span = 1
		}
		if n := (span + 9) / 10; n > deepest {
			deepest = n
		}
	}
	for _, fn := range s.Functions {
		consider(fn.Line, fn.EndLine)
	}
	for _, cls := range s.Classes {
		for _, m := range cls.Methods {
			consider(m.Line, m.EndLine)
		}
	}
	return deepest
}

// estimateCyclomatic counts one per function declaration and one per class
// method on top of the base value of 1.
func estimateCyclomatic(s *summary.FileSummary) int {
	c := 1
	if s == nil {
		return c
	}
	c += len(s.Functions)
	for _, cls := range s.Classes {
		c += len(cls.Methods)
	}
	return c
}

// complexityScore maps the three inputs to [0,100], monotonically
// increasing in each, saturating once an input reaches its reference
// maximum. LOC carries 40 points, nesting and cyclomatic 30 each.
func complexityScore(loc, nesting, cyclomatic int) int {
	score := ratio(loc, refMaxLOC)*40 + ratio(nesting, refMaxNesting)*30 + ratio(cyclomatic, refMaxCyclomatic)*30
	rounded := int(score + 0.5)
	if rounded > 100 {
		rounded = 100
	}
	return rounded
}

func ratio(value, limit int) float64 {
	if value <= 0 {
		return 0
	}
	if value >= limit {
		return 1
	}
	return float64(value) / float64(limit)
}

// ComplexityBucket labels a score for ranking summaries. Boundary values
// belong to the lower bucket.
func ComplexityBucket(score int) string {
	switch {
	case score > 60:
		return "high"
	case score > 30:
		return "medium"
	default:
		return "low"
	}
}

var configBasenames = map[string]struct{}{
	"package.json":      {},
	"package-lock.json": {},
	"tsconfig.json":     {},
	"jsconfig.json":     {},
	".babelrc":          {},
	".eslintrc":         {},
	".prettierrc":       {},
	".npmrc":            {},
}

var configPrefixes = []string{
	"babel.config.",
	"jest.config.",
	"webpack.config.",
	"vite.config.",
	"vitest.config.",
	"rollup.config.",
	"eslint.config.",
	".eslintrc.",
	".prettierrc.",
}

var entryPointBasenames = map[string]struct{}{
	"index":  {},
	"main":   {},
	"app":    {},
	"cli":    {},
	"server": {},
}

// Classify determines the structural file type from the path.
func Classify(p string) FileType {
	p = NormalizePath(p)
	base := path.Base(p)

	if isTestPath(p) {
		return FileTest
	}
	if isTypesPath(p, base) {
		return FileTypes
	}
	if isConfigBasename(base) {
		return FileConfig
	}
	if hasSupportedExtension(p) {
		return FileSource
	}
	return FileUnknown
}

func isTestPath(p string) bool {
	if strings.Contains(p, ".test.") || strings.Contains(p, ".spec.") {
		return true
	}
	for _, seg := range strings.Split(path.Dir(p), "/") {
		if seg == "tests" || seg == "__tests__" {
			return true
		}
	}
	return false
}

func isTypesPath(p, base string) bool {
	if strings.HasSuffix(base, ".d.ts") || strings.HasSuffix(base, ".d.mts") || strings.HasSuffix(base, ".d.cts") {
		return true
	}
	for _, seg := range strings.Split(path.Dir(p), "/") {
		if seg == "types" {
			return true
		}
	}
	stem := strings.TrimSuffix(base, path.Ext(base))
	return stem == "types" && hasSupportedExtension(base)
}

func isConfigBasename(base string) bool {
	if _, ok := configBasenames[base]; ok {
		return true
	}
	for _, prefix := range configPrefixes {
		if strings.HasPrefix(base, prefix) {
			return true
		}
	}
	return false
}

// IsEntryPoint reports whether a file looks like a program entry point: an
// index file, a conventional entry basename regardless of extension, or a
// file nothing depends on.
func IsEntryPoint(p string, dependentCount int) bool {
	if dependentCount == 0 {
		return true
	}
	base := path.Base(NormalizePath(p))
	stem := strings.TrimSuffix(base, path.Ext(base))
	_, ok := entryPointBasenames[stem]
	return ok
}

// IsHub reports whether the dependent count exceeds the hub threshold.
// Exactly at the threshold is not a hub.
func IsHub(dependentCount int) bool {
	return dependentCount > hubThreshold
}

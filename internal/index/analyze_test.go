// # internal/index/analyze_test.go
package index

import (
	"testing"

	"codescope/internal/summary"
)

func TestCountLinesOfCode(t *testing.T) {
	source := `// header comment
import { x } from "./x";

/* block
   comment */
function f() {
	return x; // trailing comment counts as code
}
`
	if got := CountLinesOfCode([]byte(source)); got != 4 {
		t.Errorf("CountLinesOfCode = %d, want 4", got)
	}
}

func TestCountLinesOfCode_Empty(t *testing.T) {
	if got := CountLinesOfCode(nil); got != 0 {
		t.Errorf("CountLinesOfCode(nil) = %d", got)
	}
	if got := CountLinesOfCode([]byte("\n\n\n")); got != 0 {
		t.Errorf("blank-only source counted %d lines", got)
	}
}

func TestAnalyzeComplexity_Score(t *testing.T) {
	s := &summary.FileSummary{
		Path: "src/a.ts",
		Functions: []summary.Function{
			{Name: "f", Line: 1, EndLine: 20},
		},
	}
	m := AnalyzeComplexity([]byte("const a = 1;\n"), s)

	if m.LOC != 1 {
		t.Errorf("LOC = %d", m.LOC)
	}
	if m.Nesting != 2 {
		t.Errorf("Nesting = %d, want 2 (span 19 -> ceil 19/10)", m.Nesting)
	}
	if m.Cyclomatic != 2 {
		t.Errorf("Cyclomatic = %d, want 2", m.Cyclomatic)
	}
	if m.Score < 0 || m.Score > 100 {
		t.Errorf("Score = %d out of range", m.Score)
	}
}

// Saturation: values at or beyond the reference maxima pin the score at 100.
func TestAnalyzeComplexity_Saturates(t *testing.T) {
	fns := make([]summary.Function, 25)
	for i := range fns {
		fns[i] = summary.Function{Name: "f", Line: 1, EndLine: 200}
	}
	src := make([]byte, 0, 600*10)
	for i := 0; i < 600; i++ {
		src = append(src, []byte("const x=1\n")...)
	}

	m := AnalyzeComplexity(src, &summary.FileSummary{Path: "big.ts", Functions: fns})
	if m.Score != 100 {
		t.Errorf("Score = %d, want 100", m.Score)
	}
}

func TestComplexityBucket(t *testing.T) {
	cases := map[int]string{0: "low", 30: "low", 31: "medium", 60: "medium", 61: "high", 100: "high"}
	for score, want := range cases {
		if got := ComplexityBucket(score); got != want {
			t.Errorf("ComplexityBucket(%d) = %q, want %q", score, got, want)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := map[string]FileType{
		"src/app.ts":                FileSource,
		"src/app.test.ts":           FileTest,
		"src/app.spec.tsx":          FileTest,
		"src/__tests__/helpers.ts":  FileTest,
		"tests/integration.ts":      FileTest,
		"src/global.d.ts":           FileTypes,
		"src/types/models.ts":       FileTypes,
		"src/types.ts":              FileTypes,
		"jest.config.js":            FileConfig,
		"babel.config.cjs":          FileConfig,
		"src/components/Button.tsx": FileSource,
		"README.md":                 FileUnknown,
	}
	for p, want := range cases {
		if got := Classify(p); got != want {
			t.Errorf("Classify(%q) = %q, want %q", p, got, want)
		}
	}
}

func TestIsHub_Boundary(t *testing.T) {
	if IsHub(5) {
		t.Error("IsHub(5) = true, threshold is exclusive")
	}
	if !IsHub(6) {
		t.Error("IsHub(6) = false")
	}
}

func TestIsEntryPoint(t *testing.T) {
	if !IsEntryPoint("src/index.ts", 3) {
		t.Error("index basename should be an entry point")
	}
	if !IsEntryPoint("src/server.ts", 1) {
		t.Error("server basename should be an entry point")
	}
	if !IsEntryPoint("src/leaf.ts", 0) {
		t.Error("zero dependents should be an entry point")
	}
	if IsEntryPoint("src/util.ts", 2) {
		t.Error("util.ts with dependents is not an entry point")
	}
}

// # internal/scanner/scanner_test.go
package scanner

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, root, rel string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("export {};\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanner_Scan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.ts")
	writeFile(t, root, "src/nested/b.tsx")
	writeFile(t, root, "c.js")
	writeFile(t, root, "README.md")
	writeFile(t, root, "node_modules/react/index.js")
	writeFile(t, root, "dist/bundle.js")

	s, err := New(root, []string{"node_modules", "dist"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	files, err := s.Scan()
	if err != nil {
		t.Fatal(err)
	}

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	want := []string{"c.js", "src/a.ts", "src/nested/b.tsx"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("Scan = %v, want %v", paths, want)
	}
}

func TestScanner_FileExcludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.ts")
	writeFile(t, root, "src/a.generated.ts")

	s, err := New(root, nil, []string{"*.generated.ts"})
	if err != nil {
		t.Fatal(err)
	}

	files, err := s.Scan()
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].Path != "src/a.ts" {
		t.Errorf("Scan = %v", files)
	}
}

func TestScanner_InvalidPattern(t *testing.T) {
	if _, err := New(t.TempDir(), []string{"["}, nil); err == nil {
		t.Error("invalid glob pattern should fail")
	}
}

func TestSupportedExtension(t *testing.T) {
	for _, p := range []string{"a.ts", "b.tsx", "c.js", "d.jsx", "e.mjs", "f.cjs"} {
		if !SupportedExtension(p) {
			t.Errorf("SupportedExtension(%s) = false", p)
		}
	}
	for _, p := range []string{"a.go", "b.css", "c"} {
		if SupportedExtension(p) {
			t.Errorf("SupportedExtension(%s) = true", p)
		}
	}
}

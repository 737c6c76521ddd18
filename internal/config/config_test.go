// # internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Root != "." {
		t.Errorf("Root = %q", cfg.Root)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Debounce = %v", cfg.Watch.Debounce)
	}
	found := false
	for _, d := range cfg.Exclude.Dirs {
		if d == "node_modules" {
			found = true
		}
	}
	if !found {
		t.Errorf("default excludes missing node_modules: %v", cfg.Exclude.Dirs)
	}
}

func TestLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "codescope.toml")
	content := `
root = "./web"

[watch]
debounce = "250ms"

[exclude]
dirs = ["node_modules", "generated"]
files = ["*.min.js"]

[store]
path = "/tmp/codescope.db"

[metrics]
addr = ":9090"
`
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Root != "./web" {
		t.Errorf("Root = %q", cfg.Root)
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("Debounce = %v", cfg.Watch.Debounce)
	}
	if len(cfg.Exclude.Dirs) != 2 || cfg.Exclude.Dirs[1] != "generated" {
		t.Errorf("Exclude.Dirs = %v", cfg.Exclude.Dirs)
	}
	if cfg.Store.Path != "/tmp/codescope.db" {
		t.Errorf("Store.Path = %q", cfg.Store.Path)
	}
	if cfg.Metrics.Addr != ":9090" {
		t.Errorf("Metrics.Addr = %q", cfg.Metrics.Addr)
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	p := filepath.Join(t.TempDir(), "codescope.toml")
	if err := os.WriteFile(p, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Root != "." || cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if len(cfg.Exclude.Dirs) == 0 {
		t.Error("default exclude dirs not applied")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("missing file should return an error")
	}
}

// # internal/app/app_test.go
package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codescope/internal/config"
	"codescope/internal/watcher"
)

func writeSource(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func newTestApp(t *testing.T, root string) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Root = root
	cfg.Store.Path = filepath.Join(t.TempDir(), "codescope.db")

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	a, err := New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestApp_InitialScan(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "src/a.ts", `import { b } from "./b";
export function a() { return b(); }
`)
	writeSource(t, root, "src/b.ts", `import { c } from "./c";
export function b() { return c(); }
`)
	writeSource(t, root, "src/c.ts", `export function c() { return 1; }
`)
	writeSource(t, root, "node_modules/react/index.js", `module.exports = {};`)

	a := newTestApp(t, root)
	require.NoError(t, a.InitialScan())

	assert.Equal(t, 3, a.Index.FileCount())
	assert.Equal(t, []string{"src/b.ts"}, a.Index.Dependencies("src/a.ts"))
	assert.Equal(t, []string{"src/b.ts", "src/c.ts"}, a.Index.TransitiveDependencies("src/a.ts"))

	entries, err := a.Query.FindSymbol(context.Background(), "b")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "src/b.ts", entries[0].Path)
}

func TestApp_HandleEventLifecycle(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "src/a.ts", `import { b } from "./b";
export function a() {}
`)

	a := newTestApp(t, root)
	require.NoError(t, a.InitialScan())

	// The import of ./b is unresolved until b.ts appears.
	assert.Empty(t, a.Index.Dependencies("src/a.ts"))

	writeSource(t, root, "src/b.ts", `export function b() {}
`)
	a.HandleEvent(watcher.Event{ID: "1", Type: watcher.EventAdd, Path: "src/b.ts", Timestamp: time.Now()})

	assert.Equal(t, []string{"src/b.ts"}, a.Index.Dependencies("src/a.ts"))

	a.HandleEvent(watcher.Event{ID: "2", Type: watcher.EventUnlink, Path: "src/b.ts", Timestamp: time.Now()})

	assert.Empty(t, a.Index.Dependencies("src/a.ts"))
	assert.Empty(t, a.Index.Lookup("b"))
	assert.Equal(t, 1, a.Index.FileCount())
}

func TestApp_HandleChange(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "src/a.ts", `export function before() {}
`)

	a := newTestApp(t, root)
	require.NoError(t, a.InitialScan())
	require.Len(t, a.Index.Lookup("before"), 1)

	writeSource(t, root, "src/a.ts", `export function after() {}
`)
	a.HandleEvent(watcher.Event{ID: "3", Type: watcher.EventChange, Path: "src/a.ts", Timestamp: time.Now()})

	assert.Empty(t, a.Index.Lookup("before"))
	assert.Len(t, a.Index.Lookup("after"), 1)
}

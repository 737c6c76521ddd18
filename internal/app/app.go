// # internal/app/app.go
package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"codescope/internal/config"
	"codescope/internal/index"
	"codescope/internal/observability"
	"codescope/internal/parser"
	"codescope/internal/query"
	"codescope/internal/scanner"
	"codescope/internal/store"
	"codescope/internal/summary"
	"codescope/internal/util"
	"codescope/internal/watcher"
)

// App wires the scanner, parser, index, store and watcher together. The
// index is the single source of truth; the store trails it and is safe to
// lose.
type App struct {
	Config *config.Config
	Parser *parser.Parser
	Index  *index.Index
	Query  *query.Service

	scan    *scanner.Scanner
	watch   *watcher.Watcher
	store   *store.Store
	logger  *slog.Logger
	persist *util.Limiter
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	scan, err := scanner.New(cfg.Root, cfg.Exclude.Dirs, cfg.Exclude.Files)
	if err != nil {
		return nil, fmt.Errorf("configure scanner: %w", err)
	}

	idx := index.New()
	a := &App{
		Config:  cfg,
		Parser:  parser.New(),
		Index:   idx,
		Query:   query.NewService(idx),
		scan:    scan,
		logger:  logger,
		persist: util.NewLimiter(50, 200),
	}

	if cfg.Store.Path != "" {
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		a.store = st
	}

	return a, nil
}

func (a *App) Close() error {
	var firstErr error
	if a.watch != nil {
		if err := a.watch.Close(); err != nil {
			firstErr = err
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// InitialScan walks the root, parses every candidate file on a worker
// pool, and merges the results into the index in one pass.
func (a *App) InitialScan() error {
	started := time.Now()

	files, err := a.scan.Scan()
	if err != nil {
		return fmt.Errorf("scan %s: %w", a.Config.Root, err)
	}

	paths := make(chan string, len(files))
	for _, f := range files {
		paths <- f.Path
	}
	close(paths)

	var (
		mu     sync.Mutex
		parsed []index.ParsedFile
		wg     sync.WaitGroup
	)
	workers := runtime.NumCPU()
	if workers > len(files) && len(files) > 0 {
		workers = len(files)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rel := range paths {
				pf, ok := a.parseOne(rel)
				if !ok {
					continue
				}
				mu.Lock()
				parsed = append(parsed, pf)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	a.Index.Build(parsed)
	a.Index.ComputeTransitiveCounts()

	if a.store != nil {
		for _, pf := range parsed {
			a.persistFile(pf.Summary)
		}
	}

	a.updateGaugeMetrics()
	observability.AnalysisDuration.WithLabelValues("initial_scan").Observe(time.Since(started).Seconds())

	a.logger.Info("initial scan complete",
		"files", a.Index.FileCount(),
		"symbols", a.Index.SymbolCount(),
		"edges", a.Index.EdgeCount(),
		"duration", time.Since(started))
	return nil
}

// StartWatcher begins watch mode. Debounced events flow into HandleEvent
// until Close.
func (a *App) StartWatcher() error {
	w, err := watcher.New(a.Config.Root, a.Config.Watch.Debounce, a.scan, a.logger)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	a.watch = w
	w.Subscribe(a.HandleEvent)
	a.logger.Info("watching", "root", a.Config.Root, "debounce", a.Config.Watch.Debounce)
	return nil
}

// HandleEvent applies one debounced file event to the index and store.
func (a *App) HandleEvent(ev watcher.Event) {
	observability.WatcherEventsTotal.WithLabelValues(string(ev.Type)).Inc()

	switch ev.Type {
	case watcher.EventAdd, watcher.EventChange:
		pf, ok := a.parseOne(ev.Path)
		if !ok {
			// The file may already be gone again; treat it as unlinked.
			a.remove(ev.Path)
			return
		}
		a.Index.Upsert(pf.Summary, pf.Source)
		a.persistFile(pf.Summary)
	case watcher.EventUnlink:
		a.remove(ev.Path)
	}

	a.updateGaugeMetrics()
	a.logger.Debug("applied event", "id", ev.ID, "type", ev.Type, "path", ev.Path)
}

func (a *App) remove(rel string) {
	a.Index.Remove(rel)
	if a.store != nil {
		if err := a.store.DeleteFile(index.NormalizePath(rel)); err != nil {
			observability.StoreWritesTotal.WithLabelValues("error").Inc()
			a.logger.Warn("delete from store", "path", rel, "error", err)
		} else {
			observability.StoreWritesTotal.WithLabelValues("ok").Inc()
		}
	}
}

func (a *App) parseOne(rel string) (index.ParsedFile, bool) {
	abs := filepath.Join(a.Config.Root, filepath.FromSlash(rel))
	content, err := os.ReadFile(abs)
	if err != nil {
		a.logger.Warn("read file", "path", rel, "error", err)
		return index.ParsedFile{}, false
	}

	started := time.Now()
	sum := a.Parser.Parse(rel, content)
	observability.ParsingDuration.WithLabelValues(sum.Language).Observe(time.Since(started).Seconds())
	if sum.ParseError {
		observability.ParseErrorsTotal.Inc()
		a.logger.Warn("parse error", "path", rel, "error", sum.ParseErrorMsg)
	}

	return index.ParsedFile{Summary: sum, Source: content}, true
}

// persistFile writes one file's summary, symbols and edges to the store.
// Persistence is throttled; skipped writes are caught by the next change
// to the same file or the next full scan.
func (a *App) persistFile(sum *summary.FileSummary) {
	if a.store == nil {
		return
	}
	if !a.persist.Allow() {
		observability.StoreWritesTotal.WithLabelValues("throttled").Inc()
		return
	}

	p := index.NormalizePath(sum.Path)
	symbols := index.EntriesFromSummary(sum)
	deps := a.Index.Dependencies(p)

	if err := a.store.SaveFile(sum, symbols, deps); err != nil {
		observability.StoreWritesTotal.WithLabelValues("error").Inc()
		a.logger.Warn("persist file", "path", sum.Path, "error", err)
		return
	}
	if meta, ok := a.Index.Meta(p); ok {
		if err := a.store.SaveMeta(meta); err != nil {
			observability.StoreWritesTotal.WithLabelValues("error").Inc()
			a.logger.Warn("persist meta", "path", sum.Path, "error", err)
			return
		}
	}
	observability.StoreWritesTotal.WithLabelValues("ok").Inc()
}

func (a *App) updateGaugeMetrics() {
	observability.GraphNodes.Set(float64(a.Index.FileCount()))
	observability.GraphEdges.Set(float64(a.Index.EdgeCount()))
	observability.IndexedSymbols.Set(float64(a.Index.SymbolCount()))
}

// PrintSummary writes a human-readable state report, used by one-shot
// mode.
func (a *App) PrintSummary(w io.Writer) {
	stats := a.Index.Stats()

	fmt.Fprintf(w, "Files:   %d\n", stats.TotalFiles)
	fmt.Fprintf(w, "Symbols: %d\n", stats.TotalSymbols)
	fmt.Fprintf(w, "Edges:   %d\n", stats.TotalEdges)
	if len(stats.ParseErrors) > 0 {
		fmt.Fprintf(w, "Parse errors: %d\n", len(stats.ParseErrors))
	}

	cycles := a.Index.Cycles()
	if len(cycles) == 0 {
		fmt.Fprintln(w, "No circular dependencies.")
		return
	}
	fmt.Fprintf(w, "Circular dependencies (%d):\n", len(cycles))
	for _, cycle := range cycles {
		fmt.Fprintf(w, "  %s\n", joinCycle(cycle))
	}
}

func joinCycle(cycle []string) string {
	return strings.Join(cycle, " -> ")
}

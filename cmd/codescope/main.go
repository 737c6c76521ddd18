// # cmd/codescope/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"codescope/internal/app"
	"codescope/internal/config"
	"codescope/internal/index"
	"codescope/internal/observability"
)

var (
	configPath  = flag.String("config", "./codescope.toml", "Path to config file")
	once        = flag.Bool("once", false, "Run single scan and exit")
	symbolName  = flag.String("symbol", "", "Look up a symbol by exact name and exit")
	search      = flag.String("search", "", "Search symbols by substring or regex and exit")
	searchRegex = flag.Bool("regex", false, "Treat -search pattern as a regular expression")
	deps        = flag.String("deps", "", "Print dependencies of a file and exit")
	dependents  = flag.String("dependents", "", "Print dependents of a file and exit")
	transitive  = flag.Bool("transitive", false, "Make -deps/-dependents transitive")
	cycles      = flag.Bool("cycles", false, "Print circular dependencies and exit")
	stats       = flag.Bool("stats", false, "Print index statistics and exit")
	complexity  = flag.String("complexity", "", "Rank files under a path prefix by complexity and exit ('.' for all)")
	topN        = flag.Int("top", 10, "Limit for -complexity output")
	metricsAddr = flag.String("metrics-addr", "", "Serve /metrics and /health on this address")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	version     = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("codescope v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if os.IsNotExist(err) && *configPath == "./codescope.toml" {
			cfg = config.Default()
		} else {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}
	if flag.NArg() > 0 {
		cfg.Root = flag.Arg(0)
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}

	ctx := context.Background()
	if cfg.Tracing.Enabled {
		shutdown, err := observability.InitTracing(ctx, cfg.Tracing.Endpoint, VERSION)
		if err != nil {
			logger.Error("failed to initialize tracing", "error", err)
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				logger.Warn("tracing shutdown", "error", err)
			}
		}()
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.InitialScan(); err != nil {
		logger.Error("initial scan failed", "error", err)
		os.Exit(1)
	}

	if ran, err := runQuery(ctx, a); ran {
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		return
	}

	if cfg.Metrics.Addr != "" {
		srv := observability.NewServer(cfg.Metrics.Addr, a.Index)
		srv.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Stop(stopCtx)
		}()
	}

	a.PrintSummary(os.Stdout)

	if *once {
		return
	}

	if err := a.StartWatcher(); err != nil {
		logger.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")
}

// runQuery handles the one-shot query flags. It reports whether any flag
// selected a query.
func runQuery(ctx context.Context, a *app.App) (bool, error) {
	switch {
	case *symbolName != "":
		entries, err := a.Query.FindSymbol(ctx, *symbolName)
		if err != nil {
			return true, err
		}
		printSymbols(entries)
		return true, nil

	case *search != "":
		entries, err := a.Query.SearchSymbols(ctx, *search, *searchRegex)
		if err != nil {
			return true, err
		}
		printSymbols(entries)
		return true, nil

	case *deps != "":
		paths, err := a.Query.Dependencies(ctx, *deps, *transitive)
		if err != nil {
			return true, err
		}
		printPaths(paths)
		return true, nil

	case *dependents != "":
		paths, err := a.Query.Dependents(ctx, *dependents, *transitive)
		if err != nil {
			return true, err
		}
		printPaths(paths)
		return true, nil

	case *cycles:
		found, err := a.Query.Cycles(ctx)
		if err != nil {
			return true, err
		}
		if len(found) == 0 {
			fmt.Println("No circular dependencies.")
			return true, nil
		}
		for _, cycle := range found {
			fmt.Println(strings.Join(cycle, " -> "))
		}
		return true, nil

	case *complexity != "":
		prefix := *complexity
		if prefix == "." {
			prefix = ""
		}
		ranked, err := a.Query.Complexity(ctx, prefix, *topN)
		if err != nil {
			return true, err
		}
		for _, meta := range ranked {
			fmt.Printf("%4d  %-8s %s\n", meta.Complexity.Score, index.ComplexityBucket(meta.Complexity.Score), meta.Path)
		}
		return true, nil

	case *stats:
		st, err := a.Query.Statistics(ctx)
		if err != nil {
			return true, err
		}
		printStats(st)
		return true, nil
	}

	return false, nil
}

func printSymbols(entries []index.SymbolEntry) {
	if len(entries) == 0 {
		fmt.Println("No matches.")
		return
	}
	for _, e := range entries {
		fmt.Printf("%s:%d  %s (%s)\n", e.Path, e.Line, e.Name, e.Kind)
	}
}

func printPaths(paths []string) {
	if len(paths) == 0 {
		fmt.Println("None.")
		return
	}
	for _, p := range paths {
		fmt.Println(p)
	}
}

func printStats(st index.Statistics) {
	fmt.Printf("Files:   %d\n", st.TotalFiles)
	fmt.Printf("Symbols: %d\n", st.TotalSymbols)
	fmt.Printf("Edges:   %d\n", st.TotalEdges)
	fmt.Printf("Parse errors: %d\n", len(st.ParseErrors))

	fmt.Println("Files by type:")
	for _, t := range []index.FileType{index.FileSource, index.FileTest, index.FileTypes, index.FileConfig, index.FileUnknown} {
		if n := st.FilesByType[t]; n > 0 {
			fmt.Printf("  %-8s %d\n", t, n)
		}
	}

	if len(st.Hubs) > 0 {
		fmt.Printf("Hubs (%d):\n", len(st.Hubs))
		for _, p := range st.Hubs {
			fmt.Printf("  %s\n", p)
		}
	}
	if len(st.Orphans) > 0 {
		fmt.Printf("Orphans (%d):\n", len(st.Orphans))
		for _, p := range st.Orphans {
			fmt.Printf("  %s\n", p)
		}
	}
}

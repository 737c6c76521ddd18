// # internal/observability/metrics.go
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "codescope_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "codescope_graph_nodes_total",
		Help: "Total number of nodes in the dependency graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "codescope_graph_edges_total",
		Help: "Total number of edges in the dependency graph.",
	})

	IndexedSymbols = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "codescope_indexed_symbols_total",
		Help: "Total number of symbols in the index.",
	})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "codescope_analysis_seconds",
		Help:    "Time spent on high-level analysis tasks.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	WatcherEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codescope_watcher_events_total",
		Help: "Total number of debounced file events handled, by type.",
	}, []string{"type"})

	ParseErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codescope_parse_errors_total",
		Help: "Total number of files whose parse produced errors.",
	})

	StoreWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codescope_store_writes_total",
		Help: "Total number of persistence operations, by outcome.",
	}, []string{"outcome"})
)

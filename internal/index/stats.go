// # internal/index/stats.go
package index

import (
	"sort"

	"codescope/internal/summary"
)

// Statistics is the aggregate view of the index.
type Statistics struct {
	TotalFiles    int                        `json:"totalFiles"`
	TotalSymbols  int                        `json:"totalSymbols"`
	TotalEdges    int                        `json:"totalEdges"`
	FilesByType   map[FileType]int           `json:"filesByType"`
	SymbolsByKind map[summary.SymbolKind]int `json:"symbolsByKind"`
	Hubs          []string                   `json:"hubs"`
	Orphans       []string                   `json:"orphans"`
	ParseErrors   []string                   `json:"parseErrors"`
}

// Stats computes index-wide statistics: totals, the per-kind symbol
// breakdown, hub files, orphans (files with neither dependents nor
// dependencies) and files whose last parse reported an error.
func (ix *Index) Stats() Statistics {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	stats := Statistics{
		TotalFiles:    len(ix.summaries),
		TotalSymbols:  ix.symbols.Len(),
		TotalEdges:    ix.graph.EdgeCount(),
		FilesByType:   make(map[FileType]int),
		SymbolsByKind: ix.symbols.KindCounts(),
		Hubs:          []string{},
		Orphans:       []string{},
		ParseErrors:   []string{},
	}

	for p, state := range ix.states {
		stats.FilesByType[state.fileType]++
		if state.parseError {
			stats.ParseErrors = append(stats.ParseErrors, p)
		}
		dependents := ix.graph.DependentCount(p)
		if IsHub(dependents) {
			stats.Hubs = append(stats.Hubs, p)
		}
		if dependents == 0 && len(ix.graph.imports[p]) == 0 {
			stats.Orphans = append(stats.Orphans, p)
		}
	}

	sort.Strings(stats.Hubs)
	sort.Strings(stats.Orphans)
	sort.Strings(stats.ParseErrors)
	return stats
}

// ComplexityRanking lists files under a path prefix ranked by complexity
// score, highest first, limited to n entries when n > 0. An empty prefix
// ranks the whole project.
func (ix *Index) ComplexityRanking(prefix string, n int) []FileMeta {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	prefix = NormalizePath(prefix)
	if prefix == "." {
		prefix = ""
	}

	ranked := make([]FileMeta, 0)
	for p := range ix.states {
		if prefix != "" && p != prefix && !hasPathPrefix(p, prefix) {
			continue
		}
		if meta, ok := ix.metaLocked(p); ok {
			ranked = append(ranked, meta)
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Complexity.Score == ranked[j].Complexity.Score {
			return ranked[i].Path < ranked[j].Path
		}
		return ranked[i].Complexity.Score > ranked[j].Complexity.Score
	})

	if n > 0 && len(ranked) > n {
		return ranked[:n]
	}
	return ranked
}

func hasPathPrefix(p, prefix string) bool {
	return len(p) > len(prefix) && p[:len(prefix)] == prefix && p[len(prefix)] == '/'
}

// # internal/index/graph.go
package index

import (
	"sort"
)

// Graph holds the file-level dependency relation in both directions.
// imports and importedBy are exact inverses at all times; every write to
// one side is mirrored into the other in the same step. Only files that
// resolved to internal project paths appear as nodes; external and builtin
// imports never do.
//
// Graph carries no lock of its own. The owning Index serializes writes.
type Graph struct {
	imports    map[string]map[string]struct{}
	importedBy map[string]map[string]struct{}
}

func NewGraph() *Graph {
	return &Graph{
		imports:    make(map[string]map[string]struct{}),
		importedBy: make(map[string]map[string]struct{}),
	}
}

// SetDependencies replaces the outbound edge set of a file. Stale edges
// from a prior import list are removed, not merely superseded, and the
// reverse direction is updated in the same call.
func (g *Graph) SetDependencies(from string, deps []string) {
	next := make(map[string]struct{}, len(deps))
	for _, d := range deps {
		next[d] = struct{}{}
	}

	for old := range g.imports[from] {
		if _, kept := next[old]; !kept {
			g.removeReverse(old, from)
		}
	}

	if len(next) == 0 {
		delete(g.imports, from)
	} else {
		g.imports[from] = next
	}

	for dep := range next {
		if g.importedBy[dep] == nil {
			g.importedBy[dep] = make(map[string]struct{})
		}
		g.importedBy[dep][from] = struct{}{}
	}
}

// RemoveNode deletes a file from the graph entirely: its outbound edges,
// and its appearance as a target in every other file's dependency list.
func (g *Graph) RemoveNode(p string) {
	for dep := range g.imports[p] {
		g.removeReverse(dep, p)
	}
	delete(g.imports, p)

	for from := range g.importedBy[p] {
		if targets := g.imports[from]; targets != nil {
			delete(targets, p)
			if len(targets) == 0 {
				delete(g.imports, from)
			}
		}
	}
	delete(g.importedBy, p)
}

func (g *Graph) removeReverse(to, from string) {
	if rev := g.importedBy[to]; rev != nil {
		delete(rev, from)
		if len(rev) == 0 {
			delete(g.importedBy, to)
		}
	}
}

// Dependencies returns the sorted outbound edge list of a file.
func (g *Graph) Dependencies(p string) []string {
	return sortedKeys(g.imports[p])
}

// Dependents returns the sorted inbound edge list of a file.
func (g *Graph) Dependents(p string) []string {
	return sortedKeys(g.importedBy[p])
}

func (g *Graph) DependentCount(p string) int {
	return len(g.importedBy[p])
}

// Nodes returns every path that participates in at least one edge.
func (g *Graph) Nodes() []string {
	set := make(map[string]struct{}, len(g.imports)+len(g.importedBy))
	for p := range g.imports {
		set[p] = struct{}{}
	}
	for p := range g.importedBy {
		set[p] = struct{}{}
	}
	return sortedKeys(set)
}

func (g *Graph) EdgeCount() int {
	n := 0
	for _, targets := range g.imports {
		n += len(targets)
	}
	return n
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

package index

import (
	"sort"
	"sync"

	"codescope/internal/summary"
)

// Index is the aggregate project model: symbol table, dependency graph,
// per-file metadata and the transitive-closure memo. It is a single
// logical mutable structure; all writes are serialized behind one lock.
// Concurrent reads during a build see transiently inconsistent results,
// which callers accept by contract.
type Index struct {
	mu sync.RWMutex

	summaries map[string]*summary.FileSummary
	symbols   *SymbolIndex
	graph     *Graph
	resolver  *Resolver
	states    map[string]*fileState
	closure   *closureCache

	// Files whose summaries contain internal specifiers that did not
	// resolve. They are retried when a new file appears, because the new
	// file may be the missing target.
	pendingResolve map[string]struct{}
}

func New() *Index {
	return &Index{
		summaries:      make(map[string]*summary.FileSummary),
		symbols:        NewSymbolIndex(),
		graph:          NewGraph(),
		resolver:       NewResolver(),
		states:         make(map[string]*fileState),
		closure:        newClosureCache(),
		pendingResolve: make(map[string]struct{}),
	}
}

// ParsedFile pairs a structural summary with the raw source it was parsed
// from. The source is only needed transiently, for complexity analysis.
type ParsedFile struct {
	Summary *summary.FileSummary
	Source  []byte
}

// Build replaces the whole index from a batch of parsed files. Candidate
// paths are registered first so that import resolution sees every file of
// the batch regardless of processing order.
func (ix *Index) Build(files []ParsedFile) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for _, f := range files {
		if f.Summary != nil {
			ix.resolver.AddFile(f.Summary.Path)
		}
	}
	for _, f := range files {
		if f.Summary != nil {
			ix.upsertLocked(f.Summary, f.Source)
		}
	}
}

// Upsert indexes one file: it replaces the file's symbol entries, its
// resolved dependency list (both graph directions), its complexity and
// classification, and invalidates the transitive memo. This is the add and
// change path of incremental updates.
func (ix *Index) Upsert(s *summary.FileSummary, source []byte) {
	if s == nil {
		return
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()

	_, existed := ix.summaries[NormalizePath(s.Path)]
	ix.resolver.AddFile(s.Path)
	ix.upsertLocked(s, source)

	if !existed {
		ix.retryPendingLocked()
	}
}

func (ix *Index) upsertLocked(s *summary.FileSummary, source []byte) {
	p := NormalizePath(s.Path)
	clone := s.Clone()
	clone.Path = p
	ix.summaries[p] = clone

	ix.symbols.ReplaceFile(p, EntriesFromSummary(clone))

	deps, unresolved := ix.resolver.ResolveImports(clone)
	ix.graph.SetDependencies(p, deps)
	if len(unresolved) > 0 {
		ix.pendingResolve[p] = struct{}{}
	} else {
		delete(ix.pendingResolve, p)
	}

	ix.states[p] = &fileState{
		complexity: AnalyzeComplexity(source, clone),
		fileType:   Classify(p),
		parseError: clone.ParseError,
	}

	ix.closure.invalidate()
}

// retryPendingLocked re-resolves files holding unresolved specifiers. A
// freshly added file may be the target they were waiting for.
func (ix *Index) retryPendingLocked() {
	for p := range ix.pendingResolve {
		s, ok := ix.summaries[p]
		if !ok {
			delete(ix.pendingResolve, p)
			continue
		}
		deps, unresolved := ix.resolver.ResolveImports(s)
		ix.graph.SetDependencies(p, deps)
		if len(unresolved) == 0 {
			delete(ix.pendingResolve, p)
		}
	}
}

// Remove handles unlink: symbol entries, graph node, metadata and summary
// all go away, and files that imported the removed path become candidates
// for re-resolution.
func (ix *Index) Remove(p string) {
	p = NormalizePath(p)
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for _, importer := range ix.graph.Dependents(p) {
		ix.pendingResolve[importer] = struct{}{}
	}

	ix.symbols.RemoveFile(p)
	ix.graph.RemoveNode(p)
	ix.resolver.RemoveFile(p)
	delete(ix.summaries, p)
	delete(ix.states, p)
	delete(ix.pendingResolve, p)

	ix.closure.invalidate()
}

// Summary returns the current structural summary of a file.
func (ix *Index) Summary(p string) (*summary.FileSummary, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	s, ok := ix.summaries[NormalizePath(p)]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// Lookup finds symbol entries by exact name.
func (ix *Index) Lookup(name string) []SymbolEntry {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.symbols.Lookup(name)
}

// Search matches symbol names case-insensitively, optionally as a regular
// expression. Results are ordered by path then line for determinism.
func (ix *Index) Search(pattern string, asRegex bool) ([]SymbolEntry, error) {
	ix.mu.RLock()
	entries, err := ix.symbols.Search(pattern, asRegex)
	ix.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Path == entries[j].Path {
			if entries[i].Line == entries[j].Line {
				return entries[i].Name < entries[j].Name
			}
			return entries[i].Line < entries[j].Line
		}
		return entries[i].Path < entries[j].Path
	})
	return entries, nil
}

// Dependencies returns the direct resolved dependencies of a file. Unknown
// paths yield an empty list, never an error.
func (ix *Index) Dependencies(p string) []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.graph.Dependencies(NormalizePath(p))
}

// Dependents returns the direct dependents of a file.
func (ix *Index) Dependents(p string) []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.graph.Dependents(NormalizePath(p))
}

// Cycles runs cycle detection over the current graph. It is a query-time
// computation, never maintained incrementally.
func (ix *Index) Cycles() [][]string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.graph.Cycles()
}

// TransitiveDependencies returns every file reachable forward from p,
// sorted. The traversal is memoized until the next graph mutation.
func (ix *Index) TransitiveDependencies(p string) []string {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return sortedKeys(ix.closure.reachable(ix.graph, NormalizePath(p), Forward))
}

// TransitiveDependents returns every file reachable backward from p,
// sorted.
func (ix *Index) TransitiveDependents(p string) []string {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return sortedKeys(ix.closure.reachable(ix.graph, NormalizePath(p), Backward))
}

// ComputeTransitiveCounts fills the transitive counts of every file in one
// pass, reusing the closure memo where traversals overlap. Counts read from
// FileMeta reflect the last call to this method, not the latest graph.
func (ix *Index) ComputeTransitiveCounts() {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for p, state := range ix.states {
		state.transitiveDepCount = len(ix.closure.reachable(ix.graph, p, Backward))
		state.transitiveDepByCount = len(ix.closure.reachable(ix.graph, p, Forward))
	}
}

// Meta assembles the per-file metadata view. Unknown paths report ok=false.
func (ix *Index) Meta(p string) (FileMeta, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.metaLocked(NormalizePath(p))
}

func (ix *Index) metaLocked(p string) (FileMeta, bool) {
	state, ok := ix.states[p]
	if !ok {
		return FileMeta{}, false
	}
	dependents := ix.graph.Dependents(p)
	return FileMeta{
		Path:                 p,
		Complexity:           state.complexity,
		Dependencies:         ix.graph.Dependencies(p),
		Dependents:           dependents,
		IsHub:                IsHub(len(dependents)),
		IsEntryPoint:         IsEntryPoint(p, len(dependents)),
		FileType:             state.fileType,
		TransitiveDepCount:   state.transitiveDepCount,
		TransitiveDepByCount: state.transitiveDepByCount,
	}, true
}

// Files returns every indexed path, sorted.
func (ix *Index) Files() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	paths := make([]string, 0, len(ix.summaries))
	for p := range ix.summaries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (ix *Index) FileCount() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.summaries)
}

func (ix *Index) SymbolCount() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.symbols.Len()
}

func (ix *Index) EdgeCount() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.graph.EdgeCount()
}

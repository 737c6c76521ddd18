// # internal/index/symbols.go
package index

import (
	"regexp"
	"strings"

	"codescope/internal/summary"
)

// SymbolEntry locates one named declaration. Class methods appear twice:
// once under the method name and once under "Class.method".
type SymbolEntry struct {
	Name string             `json:"name"`
	Path string             `json:"path"`
	Line int                `json:"line"`
	Kind summary.SymbolKind `json:"kind"`
}

// SymbolIndex maps a symbol name to every location that declares it.
// Duplicates across files are preserved; a name may legitimately resolve
// to multiple entries.
type SymbolIndex struct {
	byName map[string][]SymbolEntry
	byPath map[string][]string // names contributed by each path, for removal
}

func NewSymbolIndex() *SymbolIndex {
	return &SymbolIndex{
		byName: make(map[string][]SymbolEntry),
		byPath: make(map[string][]string),
	}
}

// EntriesFromSummary flattens a file summary into symbol entries in
// declaration order. Entries with an empty name are skipped.
func EntriesFromSummary(s *summary.FileSummary) []SymbolEntry {
	if s == nil {
		return nil
	}

	entries := make([]SymbolEntry, 0, len(s.Functions)+len(s.Classes)+len(s.Interfaces)+len(s.TypeAliases)+len(s.Variables))
	add := func(name string, line int, kind summary.SymbolKind) {
		if name == "" {
			return
		}
		entries = append(entries, SymbolEntry{Name: name, Path: s.Path, Line: line, Kind: kind})
	}

	for _, fn := range s.Functions {
		add(fn.Name, fn.Line, summary.KindFunction)
	}
	for _, cls := range s.Classes {
		add(cls.Name, cls.Line, summary.KindClass)
		for _, m := range cls.Methods {
			if cls.Name == "" || m.Name == "" {
				continue
			}
			add(cls.Name+"."+m.Name, m.Line, summary.KindMethod)
		}
	}
	for _, iface := range s.Interfaces {
		add(iface.Name, iface.Line, summary.KindInterface)
	}
	for _, alias := range s.TypeAliases {
		add(alias.Name, alias.Line, summary.KindType)
	}
	for _, v := range s.Variables {
		if !v.Exported {
			continue
		}
		add(v.Name, v.Line, summary.KindVariable)
	}

	return entries
}

// ReplaceFile discards every prior entry whose path equals the given path,
// then adds the new entries. Stale entries after an edit are a correctness
// bug, not just staleness.
func (si *SymbolIndex) ReplaceFile(path string, entries []SymbolEntry) {
	si.RemoveFile(path)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		si.byName[e.Name] = append(si.byName[e.Name], e)
		names = append(names, e.Name)
	}
	if len(names) > 0 {
		si.byPath[path] = names
	}
}

func (si *SymbolIndex) RemoveFile(path string) {
	names, ok := si.byPath[path]
	if !ok {
		return
	}
	delete(si.byPath, path)

	for _, name := range names {
		existing := si.byName[name]
		kept := existing[:0]
		for _, e := range existing {
			if e.Path != path {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			delete(si.byName, name)
		} else {
			si.byName[name] = kept
		}
	}
}

// Lookup returns all entries for an exact name, or nil if unknown.
func (si *SymbolIndex) Lookup(name string) []SymbolEntry {
	entries := si.byName[name]
	if len(entries) == 0 {
		return nil
	}
	out := make([]SymbolEntry, len(entries))
	copy(out, entries)
	return out
}

// Search matches symbol names case-insensitively. When asRegex is set the
// pattern is compiled as a case-insensitive regular expression; otherwise
// it is treated as a plain substring.
func (si *SymbolIndex) Search(pattern string, asRegex bool) ([]SymbolEntry, error) {
	var matches func(string) bool
	if asRegex {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, err
		}
		matches = re.MatchString
	} else {
		needle := strings.ToLower(pattern)
		matches = func(name string) bool {
			return strings.Contains(strings.ToLower(name), needle)
		}
	}

	out := make([]SymbolEntry, 0)
	for name, entries := range si.byName {
		if !matches(name) {
			continue
		}
		out = append(out, entries...)
	}
	return out, nil
}

func (si *SymbolIndex) Len() int {
	n := 0
	for _, entries := range si.byName {
		n += len(entries)
	}
	return n
}

// KindCounts returns the number of entries per symbol kind.
func (si *SymbolIndex) KindCounts() map[summary.SymbolKind]int {
	counts := make(map[summary.SymbolKind]int)
	for _, entries := range si.byName {
		for _, e := range entries {
			counts[e.Kind]++
		}
	}
	return counts
}

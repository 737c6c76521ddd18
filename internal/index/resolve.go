// # internal/index/resolve.go
package index

import (
	"path"
	"sort"
	"strings"

	"codescope/internal/summary"
)

// extension classes for resolution. The importing file's class decides
// candidate order; the other class is tried afterwards.
var (
	tsExtensions = []string{".ts", ".tsx"}
	jsExtensions = []string{".js", ".jsx"}
)

// Resolver maps internal import specifiers to concrete indexed paths.
// It resolves against the set of known project files, never the disk,
// which keeps resolution deterministic during incremental updates.
type Resolver struct {
	files map[string]struct{}
}

func NewResolver() *Resolver {
	return &Resolver{files: make(map[string]struct{})}
}

func (r *Resolver) AddFile(p string)    { r.files[NormalizePath(p)] = struct{}{} }
func (r *Resolver) RemoveFile(p string) { delete(r.files, NormalizePath(p)) }

func (r *Resolver) has(p string) bool {
	_, ok := r.files[p]
	return ok
}

// Resolve turns one specifier into a project path. Precedence: exact match
// with a supported extension, extension substitution (.js -> .ts,
// .jsx -> .tsx), then directory index resolution.
func (r *Resolver) Resolve(fromPath, specifier string) (string, bool) {
	fromPath = NormalizePath(fromPath)
	base := path.Join(path.Dir(fromPath), specifier)
	exts := candidateExtensions(fromPath)

	if hasSupportedExtension(base) && r.has(base) {
		return base, true
	}
	for _, ext := range exts {
		if candidate := base + ext; r.has(candidate) {
			return candidate, true
		}
	}

	if sub, ok := substituteExtension(base); ok && r.has(sub) {
		return sub, true
	}

	for _, ext := range exts {
		if candidate := base + "/index" + ext; r.has(candidate) {
			return candidate, true
		}
	}

	return "", false
}

// ResolveImports resolves every internal import of a summary. External and
// builtin specifiers are dropped; unresolvable ones are collected so they
// can be retried when new files appear. The result is deduplicated and
// sorted lexicographically.
func (r *Resolver) ResolveImports(s *summary.FileSummary) (deps []string, unresolved []string) {
	seen := make(map[string]struct{})
	for _, imp := range s.Imports {
		if imp.Kind != summary.ImportInternal {
			continue
		}
		target, ok := r.Resolve(s.Path, imp.From)
		if !ok {
			unresolved = append(unresolved, imp.From)
			continue
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		deps = append(deps, target)
	}
	sort.Strings(deps)
	return deps, unresolved
}

func candidateExtensions(fromPath string) []string {
	ext := path.Ext(fromPath)
	switch ext {
	case ".ts", ".tsx":
		return append(append([]string(nil), tsExtensions...), jsExtensions...)
	default:
		return append(append([]string(nil), jsExtensions...), tsExtensions...)
	}
}

func substituteExtension(base string) (string, bool) {
	switch {
	case strings.HasSuffix(base, ".js"):
		return strings.TrimSuffix(base, ".js") + ".ts", true
	case strings.HasSuffix(base, ".jsx"):
		return strings.TrimSuffix(base, ".jsx") + ".tsx", true
	}
	return "", false
}

func hasSupportedExtension(p string) bool {
	switch path.Ext(p) {
	case ".ts", ".tsx", ".js", ".jsx":
		return true
	}
	return false
}

// NormalizePath converts a path to the canonical slash-separated project
// form used as a graph key.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean(p)
	p = strings.TrimPrefix(p, "./")
	return p
}

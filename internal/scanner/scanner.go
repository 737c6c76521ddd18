// # internal/scanner/scanner.go
package scanner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/gobwas/glob"
)

// FileInfo describes one candidate file found during a walk, with the path
// relative to the scanned root in slash form.
type FileInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Scanner enumerates indexable files under a root, skipping excluded
// directories and files. Supported extensions are fixed; exclude patterns
// are gitignore-flavored globs matched against basenames.
type Scanner struct {
	root         string
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
}

var supportedExtensions = map[string]struct{}{
	".ts":  {},
	".tsx": {},
	".js":  {},
	".jsx": {},
	".mjs": {},
	".cjs": {},
}

func New(root string, excludeDirs, excludeFiles []string) (*Scanner, error) {
	s := &Scanner{root: root}

	for _, pattern := range excludeDirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", pattern, err)
		}
		s.excludeDirs = append(s.excludeDirs, g)
	}
	for _, pattern := range excludeFiles {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", pattern, err)
		}
		s.excludeFiles = append(s.excludeFiles, g)
	}

	return s, nil
}

func (s *Scanner) Root() string { return s.root }

// Scan walks the root and returns candidate files sorted by path.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var files []FileInfo

	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		base := filepath.Base(p)
		if d.IsDir() {
			if p != s.root && s.ExcludeDir(base) {
				return filepath.SkipDir
			}
			return nil
		}

		if _, ok := supportedExtensions[filepath.Ext(p)]; !ok {
			return nil
		}
		if s.ExcludeFile(base) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return nil
		}

		files = append(files, FileInfo{
			Path:    filepath.ToSlash(rel),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// ExcludeDir reports whether a directory basename matches an exclude
// pattern.
func (s *Scanner) ExcludeDir(base string) bool {
	for _, g := range s.excludeDirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// ExcludeFile reports whether a file basename matches an exclude pattern.
func (s *Scanner) ExcludeFile(base string) bool {
	for _, g := range s.excludeFiles {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// SupportedExtension reports whether the path carries an indexable
// extension.
func SupportedExtension(p string) bool {
	_, ok := supportedExtensions[filepath.Ext(p)]
	return ok
}

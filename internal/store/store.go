// # internal/store/store.go
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"codescope/internal/index"
	"codescope/internal/summary"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

// Store persists the index to sqlite across four tables: symbols, edges,
// file_meta and summaries. All rows for a file are replaced in one
// transaction so readers never observe a half-updated file.
type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("store path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("store path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite store %q: %w", cleanPath, err)
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// SaveFile replaces everything stored for one file: its summary, its
// symbol rows and its outgoing edges.
func (s *Store) SaveFile(sum *summary.FileSummary, symbols []index.SymbolEntry, deps []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(sum)
	if err != nil {
		return fmt.Errorf("encode summary %s: %w", sum.Path, err)
	}

	return s.withRetry("save file", func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		for _, stmt := range []string{
			`DELETE FROM symbols WHERE path = ?`,
			`DELETE FROM edges WHERE src = ?`,
		} {
			if _, err := tx.Exec(stmt, sum.Path); err != nil {
				return err
			}
		}

		if _, err := tx.Exec(
			`INSERT INTO summaries(path, summary, updated_at_utc) VALUES (?, ?, ?)
			 ON CONFLICT(path) DO UPDATE SET summary = excluded.summary, updated_at_utc = excluded.updated_at_utc`,
			sum.Path, string(raw), time.Now().UTC().Format(time.RFC3339Nano),
		); err != nil {
			return err
		}

		for i, sym := range symbols {
			if _, err := tx.Exec(
				`INSERT INTO symbols(path, ord, name, line, kind) VALUES (?, ?, ?, ?, ?)`,
				sum.Path, i, sym.Name, sym.Line, string(sym.Kind),
			); err != nil {
				return err
			}
		}
		for _, dst := range deps {
			if _, err := tx.Exec(`INSERT INTO edges(src, dst) VALUES (?, ?)`, sum.Path, dst); err != nil {
				return err
			}
		}

		return tx.Commit()
	})
}

// SaveMeta upserts the derived per-file metadata blob.
func (s *Store) SaveMeta(meta index.FileMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode meta %s: %w", meta.Path, err)
	}

	return s.withRetry("save meta", func() error {
		_, err := s.db.Exec(
			`INSERT INTO file_meta(path, meta) VALUES (?, ?)
			 ON CONFLICT(path) DO UPDATE SET meta = excluded.meta`,
			meta.Path, string(raw),
		)
		return err
	})
}

// DeleteFile removes every row belonging to a file, including edges that
// point at it from elsewhere.
func (s *Store) DeleteFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withRetry("delete file", func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`DELETE FROM symbols WHERE path = ?`, path); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM edges WHERE src = ? OR dst = ?`, path, path); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM file_meta WHERE path = ?`, path); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM summaries WHERE path = ?`, path); err != nil {
			return err
		}

		return tx.Commit()
	})
}

// LoadSummaries reads all persisted file summaries, keyed by path. Used to
// warm the in-memory index before the first scan completes.
func (s *Store) LoadSummaries() (map[string]*summary.FileSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows *sql.Rows
	err := s.withRetry("load summaries", func() error {
		var qErr error
		rows, qErr = s.db.Query(`SELECT path, summary FROM summaries ORDER BY path`)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]*summary.FileSummary)
	for rows.Next() {
		var p, raw string
		if err := rows.Scan(&p, &raw); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		var sum summary.FileSummary
		if err := json.Unmarshal([]byte(raw), &sum); err != nil {
			return nil, fmt.Errorf("decode summary %s: %w", p, err)
		}
		out[p] = &sum
	}
	return out, rows.Err()
}

// FileCount reports how many summaries are persisted.
func (s *Store) FileCount() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	err := s.withRetry("count files", func() error {
		return s.db.QueryRow(`SELECT COUNT(*) FROM summaries`).Scan(&n)
	})
	return n, err
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

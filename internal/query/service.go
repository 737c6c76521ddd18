// # internal/query/service.go
package query

import (
	"context"

	"codescope/internal/index"
	"codescope/internal/observability"
	"codescope/internal/summary"
)

// Service is the read-side surface over the index. Every method checks the
// context before touching the index so callers with cancelled requests get
// out early; unknown paths and names yield empty results, never errors.
type Service struct {
	idx *index.Index
}

func NewService(idx *index.Index) *Service {
	return &Service{idx: idx}
}

func (s *Service) FindSymbol(ctx context.Context, name string) ([]index.SymbolEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.idx.Lookup(name), nil
}

func (s *Service) SearchSymbols(ctx context.Context, pattern string, asRegex bool) ([]index.SymbolEntry, error) {
	_, span := observability.StartSpan(ctx, "query.SearchSymbols")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.idx.Search(pattern, asRegex)
}

func (s *Service) FileSummary(ctx context.Context, path string) (*summary.FileSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sum, _ := s.idx.Summary(path)
	return sum, nil
}

func (s *Service) FileMeta(ctx context.Context, path string) (index.FileMeta, bool, error) {
	if err := ctx.Err(); err != nil {
		return index.FileMeta{}, false, err
	}
	meta, ok := s.idx.Meta(path)
	return meta, ok, nil
}

func (s *Service) Dependencies(ctx context.Context, path string, transitive bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if transitive {
		return s.idx.TransitiveDependencies(path), nil
	}
	return s.idx.Dependencies(path), nil
}

func (s *Service) Dependents(ctx context.Context, path string, transitive bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if transitive {
		return s.idx.TransitiveDependents(path), nil
	}
	return s.idx.Dependents(path), nil
}

func (s *Service) Cycles(ctx context.Context) ([][]string, error) {
	_, span := observability.StartSpan(ctx, "query.Cycles")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.idx.Cycles(), nil
}

// Complexity ranks files under prefix by complexity score, highest first.
// An empty prefix ranks the whole tree; limit <= 0 means no limit.
func (s *Service) Complexity(ctx context.Context, prefix string, limit int) ([]index.FileMeta, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.idx.ComplexityRanking(prefix, limit), nil
}

func (s *Service) Statistics(ctx context.Context) (index.Statistics, error) {
	_, span := observability.StartSpan(ctx, "query.Statistics")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return index.Statistics{}, err
	}
	s.idx.ComputeTransitiveCounts()
	return s.idx.Stats(), nil
}

// # internal/index/meta.go
package index

// FileMeta is the per-file view handed to consumers. Dependencies,
// dependents, hub and entry-point flags are assembled from the live graph
// at query time; complexity, file type and transitive counts are the
// values stored at the last analysis.
type FileMeta struct {
	Path                 string            `json:"path"`
	Complexity           ComplexityMetrics `json:"complexity"`
	Dependencies         []string          `json:"dependencies"`
	Dependents           []string          `json:"dependents"`
	IsHub                bool              `json:"isHub"`
	IsEntryPoint         bool              `json:"isEntryPoint"`
	FileType             FileType          `json:"fileType"`
	TransitiveDepCount   int               `json:"transitiveDepCount"`
	TransitiveDepByCount int               `json:"transitiveDepByCount"`
}

// fileState is the part of a file's metadata that survives between queries.
// It is created on first analysis, replaced wholesale on every re-analysis,
// and deleted when the file is removed.
type fileState struct {
	complexity ComplexityMetrics
	fileType   FileType
	parseError bool

	// Filled by the last ComputeTransitiveCounts batch; stale until the
	// next one.
	transitiveDepCount   int
	transitiveDepByCount int
}

package rag

import "context"

// VectorStore is the application-layer port onto vector persistence.
// The infrastructure layer provides the concrete implementation
// (Milvus in this deployment).
type VectorStore interface {
	// EnsureCollection creates the backing collection if absent and
	// verifies its dimensionality. Idempotent.
	EnsureCollection(ctx context.Context) error

	// Upsert inserts or replaces points by id.
	Upsert(ctx context.Context, points []*VectorPoint) error

	// Search returns at most params.TopK hits ordered by descending
	// similarity. An empty or absent collection yields an empty slice,
	// not an error.
	Search(ctx context.Context, params *VectorSearchParams) ([]*VectorSearchResult, error)

	// DeleteByChapter removes every point indexed for a chapter.
	DeleteByChapter(ctx context.Context, chapterID string) error
}

// VectorPoint is one embedded chunk ready for storage.
type VectorPoint struct {
	ID          string
	Vector      []float32
	TextContent string
	ChapterID   string
	ModuleID    string
	ChunkOrder  int
	StartPos    int
	EndPos      int
}

// VectorSearchParams narrows a similarity search.
type VectorSearchParams struct {
	QueryVector []float32
	TopK        int

	// Optional scoping filters; empty means unfiltered.
	ChapterID string
	ModuleID  string
}

// VectorSearchResult is one raw hit from the store.
type VectorSearchResult struct {
	ID          string
	Score       float32
	TextContent string
	ChapterID   string
	ModuleID    string
	ChunkOrder  int
}

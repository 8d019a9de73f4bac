package milvus

import (
	"context"
	"fmt"

	"textbook-assistant-api/internal/application/rag"
)

// RAGVectorStore adapts the Milvus repository to the application-layer
// vector store port.
type RAGVectorStore struct {
	repo *Repository
}

func NewRAGVectorStore(repo *Repository) *RAGVectorStore {
	return &RAGVectorStore{repo: repo}
}

var _ rag.VectorStore = (*RAGVectorStore)(nil)

func (s *RAGVectorStore) EnsureCollection(ctx context.Context) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("vector store not configured")
	}
	return s.repo.EnsureCollection(ctx)
}

func (s *RAGVectorStore) Upsert(ctx context.Context, points []*rag.VectorPoint) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("vector store not configured")
	}
	if len(points) == 0 {
		return nil
	}

	chunks := make([]*ContentChunk, 0, len(points))
	for _, p := range points {
		if p == nil {
			continue
		}
		chunks = append(chunks, &ContentChunk{
			ID:          p.ID,
			Vector:      p.Vector,
			ChapterID:   p.ChapterID,
			ModuleID:    p.ModuleID,
			ChunkOrder:  int64(p.ChunkOrder),
			StartPos:    int64(p.StartPos),
			EndPos:      int64(p.EndPos),
			TextContent: p.TextContent,
		})
	}
	return s.repo.UpsertChunks(ctx, chunks)
}

func (s *RAGVectorStore) Search(ctx context.Context, params *rag.VectorSearchParams) ([]*rag.VectorSearchResult, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("vector store not configured")
	}
	if params == nil {
		return nil, nil
	}

	out, err := s.repo.Search(ctx, &SearchParams{
		QueryVector: params.QueryVector,
		TopK:        params.TopK,
		ChapterID:   params.ChapterID,
		ModuleID:    params.ModuleID,
	})
	if err != nil {
		return nil, err
	}

	results := make([]*rag.VectorSearchResult, 0, len(out))
	for _, v := range out {
		if v == nil {
			continue
		}
		results = append(results, &rag.VectorSearchResult{
			ID:          v.ID,
			Score:       v.Score,
			TextContent: v.TextContent,
			ChapterID:   v.ChapterID,
			ModuleID:    v.ModuleID,
			ChunkOrder:  int(v.ChunkOrder),
		})
	}
	return results, nil
}

func (s *RAGVectorStore) DeleteByChapter(ctx context.Context, chapterID string) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("vector store not configured")
	}
	return s.repo.DeleteByChapter(ctx, chapterID)
}

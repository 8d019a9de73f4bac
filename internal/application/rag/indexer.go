package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/embedding"

	"textbook-assistant-api/internal/domain/entity"
	apperrors "textbook-assistant-api/pkg/errors"
	"textbook-assistant-api/pkg/logger"
	"textbook-assistant-api/pkg/metrics"
)

const defaultEmbeddingBatch = 16

// Indexer turns chapter text into embedded chunks in the vector store.
type Indexer struct {
	embedder embedding.Embedder
	vector   VectorStore

	embeddingBatchSize int
	chunkMaxTokens     int
	chunkOverlap       int
	dimension          int
}

// IndexerConfig tunes chunking and embedding behavior.
type IndexerConfig struct {
	EmbeddingBatchSize int
	ChunkMaxTokens     int
	ChunkOverlap       int
	// Dimension is the expected embedding width; vectors of any other
	// width are rejected instead of being truncated or padded.
	Dimension int
}

func NewIndexer(embedder embedding.Embedder, vector VectorStore, cfg IndexerConfig) *Indexer {
	if cfg.EmbeddingBatchSize <= 0 {
		cfg.EmbeddingBatchSize = defaultEmbeddingBatch
	}
	if cfg.ChunkMaxTokens <= 0 {
		cfg.ChunkMaxTokens = DefaultChunkMaxTokens
	}
	if cfg.ChunkOverlap < 0 {
		cfg.ChunkOverlap = DefaultChunkOverlap
	}
	return &Indexer{
		embedder:           embedder,
		vector:             vector,
		embeddingBatchSize: cfg.EmbeddingBatchSize,
		chunkMaxTokens:     cfg.ChunkMaxTokens,
		chunkOverlap:       cfg.ChunkOverlap,
		dimension:          cfg.Dimension,
	}
}

// IndexContent chunks, embeds and stores one chapter's text, returning
// the number of chunks written. Existing points for the chapter are
// removed first so reindexing never leaves stale chunks behind.
func (i *Indexer) IndexContent(ctx context.Context, text, chapterID, moduleID string) (int, error) {
	if strings.TrimSpace(chapterID) == "" || strings.TrimSpace(moduleID) == "" {
		return 0, apperrors.New(apperrors.CodeInvalidParam, "chapter_id and module_id are required")
	}

	start := time.Now()
	defer func() {
		metrics.IndexingDuration.WithLabelValues(moduleID).Observe(time.Since(start).Seconds())
	}()

	if err := i.vector.EnsureCollection(ctx); err != nil {
		return 0, err
	}
	if err := i.vector.DeleteByChapter(ctx, chapterID); err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeIndexingFailed, "failed to clear previous chunks").WithDetail(chapterID)
	}

	chunks := ChunkChapterContent(text, chapterID, moduleID)
	if len(chunks) == 0 {
		// Empty content still clears old chunks above.
		return 0, nil
	}

	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.Text)
	}

	vectors, err := i.embedBatch(ctx, texts)
	if err != nil {
		metrics.ChunksIndexedTotal.WithLabelValues("error").Add(float64(len(chunks)))
		return 0, err
	}

	points := make([]*VectorPoint, 0, len(chunks))
	for idx, c := range chunks {
		points = append(points, &VectorPoint{
			ID:          c.Metadata.ChunkID,
			Vector:      vectors[idx],
			TextContent: c.Text,
			ChapterID:   c.Metadata.ChapterID,
			ModuleID:    c.Metadata.ModuleID,
			ChunkOrder:  c.Metadata.ChunkOrder,
			StartPos:    c.Metadata.StartPos,
			EndPos:      c.Metadata.EndPos,
		})
	}

	if err := i.vector.Upsert(ctx, points); err != nil {
		metrics.ChunksIndexedTotal.WithLabelValues("error").Add(float64(len(points)))
		return 0, apperrors.Wrap(err, apperrors.CodeIndexingFailed, "failed to store chunks").WithDetail(chapterID)
	}

	metrics.ChunksIndexedTotal.WithLabelValues("success").Add(float64(len(points)))
	logger.Info(ctx, "chapter indexed",
		"chapter_id", chapterID,
		"module_id", moduleID,
		"chunks", len(points),
	)
	return len(points), nil
}

// IndexChapter indexes one chapter entity.
func (i *Indexer) IndexChapter(ctx context.Context, chapter *entity.Chapter) (int, error) {
	if chapter == nil {
		return 0, apperrors.New(apperrors.CodeInvalidParam, "chapter is nil")
	}
	return i.IndexContent(ctx, chapter.Content, chapter.ID, chapter.ModuleID)
}

// IndexModule indexes every chapter of a module best-effort: one bad
// chapter does not stop the rest, but the overall call reports failure
// unless all chapters succeeded.
func (i *Indexer) IndexModule(ctx context.Context, chapters []*entity.Chapter) (int, error) {
	var total, failed int
	for _, chapter := range chapters {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := i.IndexChapter(ctx, chapter)
		if err != nil {
			failed++
			logger.Error(ctx, "failed to index chapter", err,
				"chapter_id", chapter.ID,
				"module_id", chapter.ModuleID,
			)
			continue
		}
		total += n
	}

	if failed > 0 {
		return total, apperrors.New(apperrors.CodeIndexingFailed, "some chapters failed to index").
			WithDetail(fmt.Sprintf("%d of %d chapters failed", failed, len(chapters)))
	}
	return total, nil
}

// embedBatch embeds texts in provider-sized batches and narrows the
// vectors to float32 for storage.
func (i *Indexer) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += i.embeddingBatchSize {
		end := start + i.embeddingBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		v64, err := i.embedder.EmbedStrings(ctx, texts[start:end])
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeEmbeddingFailed, "embedding request failed")
		}
		for _, vec := range v64 {
			if i.dimension > 0 && len(vec) != i.dimension {
				return nil, apperrors.New(apperrors.CodeConfigurationError, "embedding dimension mismatch").
					WithDetail(fmt.Sprintf("got %d, want %d", len(vec), i.dimension))
			}
			f32 := make([]float32, 0, len(vec))
			for _, x := range vec {
				f32 = append(f32, float32(x))
			}
			out = append(out, f32)
		}
	}
	return out, nil
}

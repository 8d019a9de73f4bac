package milvus

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "textbook-assistant-api/pkg/errors"
	"textbook-assistant-api/pkg/metrics"
)

// Repository stores and searches content chunk vectors.
type Repository struct {
	client *Client
	dim    int
}

// NewRepository creates the chunk repository. dimension must match the
// embedding model serving the index.
func NewRepository(client *Client, dimension int) *Repository {
	return &Repository{client: client, dim: dimension}
}

// SearchParams narrows a similarity search.
type SearchParams struct {
	QueryVector []float32
	TopK        int
	ChapterID   string
	ModuleID    string
}

// SearchResult is one scored hit.
type SearchResult struct {
	ID          string
	Score       float32
	TextContent string
	ChapterID   string
	ModuleID    string
	ChunkOrder  int64
}

func (r *Repository) collection() string {
	if r.client.config.Collection != "" {
		return r.client.config.Collection
	}
	return DefaultCollection
}

func (r *Repository) dimension() int {
	if r.dim > 0 {
		return r.dim
	}
	return DefaultVectorDimension
}

// EnsureCollection creates the chunk collection, index included, when
// absent and verifies the stored vector width against configuration.
// Never drops or rebuilds anything.
func (r *Repository) EnsureCollection(ctx context.Context) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}

	collName := r.collection()
	exists, err := r.client.HasCollection(ctx, collName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if !exists {
		if err := r.createCollection(ctx); err != nil {
			return err
		}
		if err := r.createIndex(ctx); err != nil {
			return err
		}
	} else if err := r.verifyDimension(ctx); err != nil {
		return err
	}

	return r.client.LoadCollection(ctx, collName)
}

func (r *Repository) createCollection(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "milvus.CreateCollection",
		trace.WithAttributes(attribute.String("collection", r.collection())))
	defer span.End()

	schema := ContentSchema(r.collection(), r.dimension())
	if err := r.client.milvus.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

func (r *Repository) createIndex(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "milvus.CreateIndex",
		trace.WithAttributes(attribute.String("collection", r.collection())))
	defer span.End()

	idx, err := entity.NewIndexHNSW(
		entity.COSINE,
		r.client.config.HNSWM,
		r.client.config.HNSWEfConstruction,
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create index: %w", err)
	}

	if err := r.client.milvus.CreateIndex(ctx, r.collection(), "vector", idx, false); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create index: %w", err)
	}
	return nil
}

// verifyDimension rejects a collection whose vector width differs from
// the configured embedding dimension. Truncating or padding vectors
// would silently corrupt similarity scores.
func (r *Repository) verifyDimension(ctx context.Context) error {
	coll, err := r.client.milvus.DescribeCollection(ctx, r.collection())
	if err != nil {
		return fmt.Errorf("failed to describe collection: %w", err)
	}

	for _, field := range coll.Schema.Fields {
		if field.Name != "vector" {
			continue
		}
		dimStr, ok := field.TypeParams["dim"]
		if !ok {
			return nil
		}
		dim, err := strconv.Atoi(dimStr)
		if err != nil {
			return nil
		}
		if dim != r.dimension() {
			return apperrors.New(apperrors.CodeConfigurationError, "collection dimension mismatch").
				WithDetail(fmt.Sprintf("collection %s has dim %d, config wants %d", r.collection(), dim, r.dimension()))
		}
	}
	return nil
}

// Search returns at most TopK hits by descending cosine similarity. A
// missing collection yields an empty result, not an error.
func (r *Repository) Search(ctx context.Context, params *SearchParams) ([]*SearchResult, error) {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return nil, fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.Search",
		trace.WithAttributes(
			attribute.String("collection", r.collection()),
			attribute.Int("top_k", params.TopK),
		))
	defer span.End()

	collName := r.collection()
	start := time.Now()
	defer func() {
		metrics.VectorSearchDuration.WithLabelValues(collName).Observe(time.Since(start).Seconds())
	}()

	if has, err := r.client.milvus.HasCollection(ctx, collName); err != nil {
		span.RecordError(err)
		metrics.VectorSearchTotal.WithLabelValues(collName, "error").Inc()
		return nil, fmt.Errorf("failed to check collection: %w", err)
	} else if !has {
		metrics.VectorSearchTotal.WithLabelValues(collName, "empty").Inc()
		return []*SearchResult{}, nil
	}

	filter := buildFilter(params.ChapterID, params.ModuleID)

	sp, err := entity.NewIndexHNSWSearchParam(128)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create search param: %w", err)
	}

	results, err := r.client.milvus.Search(ctx,
		collName,
		nil,
		filter,
		[]string{"id", "text_content", "chapter_id", "module_id", "chunk_order"},
		[]entity.Vector{entity.FloatVector(params.QueryVector)},
		"vector",
		entity.COSINE,
		params.TopK,
		sp,
	)
	if err != nil {
		span.RecordError(err)
		metrics.VectorSearchTotal.WithLabelValues(collName, "error").Inc()
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var searchResults []*SearchResult
	for _, result := range results {
		for i := 0; i < result.ResultCount; i++ {
			sr := &SearchResult{
				// COSINE scores from Milvus are similarities already,
				// higher is closer.
				Score: result.Scores[i],
			}

			if idCol, ok := result.Fields.GetColumn("id").(*entity.ColumnVarChar); ok {
				sr.ID = idCol.Data()[i]
			}
			if textCol, ok := result.Fields.GetColumn("text_content").(*entity.ColumnVarChar); ok {
				sr.TextContent = textCol.Data()[i]
			}
			if chapterCol, ok := result.Fields.GetColumn("chapter_id").(*entity.ColumnVarChar); ok {
				sr.ChapterID = chapterCol.Data()[i]
			}
			if moduleCol, ok := result.Fields.GetColumn("module_id").(*entity.ColumnVarChar); ok {
				sr.ModuleID = moduleCol.Data()[i]
			}
			if orderCol, ok := result.Fields.GetColumn("chunk_order").(*entity.ColumnInt64); ok {
				sr.ChunkOrder = orderCol.Data()[i]
			}

			searchResults = append(searchResults, sr)
		}
	}

	metrics.VectorSearchTotal.WithLabelValues(collName, "success").Inc()
	span.SetAttributes(attribute.Int("result_count", len(searchResults)))
	return searchResults, nil
}

func buildFilter(chapterID, moduleID string) string {
	var parts []string
	if c := strings.TrimSpace(chapterID); c != "" {
		parts = append(parts, fmt.Sprintf(`chapter_id == "%s"`, c))
	}
	if m := strings.TrimSpace(moduleID); m != "" {
		parts = append(parts, fmt.Sprintf(`module_id == "%s"`, m))
	}
	return strings.Join(parts, " && ")
}

// UpsertChunks inserts or replaces chunks by id.
func (r *Repository) UpsertChunks(ctx context.Context, chunks []*ContentChunk) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.UpsertChunks",
		trace.WithAttributes(
			attribute.String("collection", r.collection()),
			attribute.Int("count", len(chunks)),
		))
	defer span.End()

	if len(chunks) == 0 {
		return nil
	}

	ids := make([]string, len(chunks))
	vectors := make([][]float32, len(chunks))
	chapterIDs := make([]string, len(chunks))
	moduleIDs := make([]string, len(chunks))
	chunkOrders := make([]int64, len(chunks))
	startPositions := make([]int64, len(chunks))
	endPositions := make([]int64, len(chunks))
	textContents := make([]string, len(chunks))

	for i, c := range chunks {
		ids[i] = c.ID
		vectors[i] = c.Vector
		chapterIDs[i] = c.ChapterID
		moduleIDs[i] = c.ModuleID
		chunkOrders[i] = c.ChunkOrder
		startPositions[i] = c.StartPos
		endPositions[i] = c.EndPos
		textContents[i] = c.TextContent
	}

	idCol := entity.NewColumnVarChar("id", ids)
	vectorCol := entity.NewColumnFloatVector("vector", r.dimension(), vectors)
	chapterCol := entity.NewColumnVarChar("chapter_id", chapterIDs)
	moduleCol := entity.NewColumnVarChar("module_id", moduleIDs)
	orderCol := entity.NewColumnInt64("chunk_order", chunkOrders)
	startCol := entity.NewColumnInt64("start_pos", startPositions)
	endCol := entity.NewColumnInt64("end_pos", endPositions)
	textCol := entity.NewColumnVarChar("text_content", textContents)

	_, err := r.client.milvus.Upsert(ctx, r.collection(), "",
		idCol, vectorCol, chapterCol, moduleCol, orderCol, startCol, endCol, textCol)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to upsert chunks: %w", err)
	}
	return nil
}

// DeleteByChapter removes every chunk indexed for a chapter.
func (r *Repository) DeleteByChapter(ctx context.Context, chapterID string) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	chapterID = strings.TrimSpace(chapterID)
	if chapterID == "" {
		return nil
	}

	ctx, span := tracer.Start(ctx, "milvus.DeleteByChapter",
		trace.WithAttributes(attribute.String("chapter_id", chapterID)))
	defer span.End()

	collName := r.collection()
	if has, err := r.client.milvus.HasCollection(ctx, collName); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to check collection: %w", err)
	} else if !has {
		return nil
	}

	filter := fmt.Sprintf(`chapter_id == "%s"`, chapterID)
	if err := r.client.milvus.Delete(ctx, collName, "", filter); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	return nil
}

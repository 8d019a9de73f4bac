// Command content-indexer bulk-indexes chapter content into the vector
// store. Run it after loading new textbook content or when the
// embedding model changes.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"textbook-assistant-api/internal/application/rag"
	"textbook-assistant-api/internal/config"
	"textbook-assistant-api/internal/domain/entity"
	"textbook-assistant-api/internal/domain/repository"
	"textbook-assistant-api/internal/infrastructure/embedding"
	"textbook-assistant-api/internal/infrastructure/persistence/milvus"
	"textbook-assistant-api/internal/infrastructure/persistence/postgres"
	apperrors "textbook-assistant-api/pkg/errors"
	"textbook-assistant-api/pkg/logger"
)

func main() {
	moduleID := flag.String("module", "", "index only this module (default: all modules)")
	chapterID := flag.String("chapter", "", "index only this chapter")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.MustLoad()
	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		logger.Fatal(ctx, "failed to connect to postgres", err)
	}
	defer pg.Close()

	mv, err := milvus.NewClient(ctx, &cfg.Vector.Milvus)
	if err != nil {
		logger.Fatal(ctx, "failed to connect to milvus", err)
	}
	defer mv.Close()

	embedder, err := embedding.NewEinoEmbedder(ctx, &cfg.Embedding)
	if err != nil {
		logger.Fatal(ctx, "failed to init embedder", err)
	}

	vectorStore := milvus.NewRAGVectorStore(milvus.NewRepository(mv, cfg.Embedding.Dimension))
	indexer := rag.NewIndexer(embedder, vectorStore, rag.IndexerConfig{
		EmbeddingBatchSize: cfg.Embedding.BatchSize,
		ChunkMaxTokens:     cfg.RAG.ChunkMaxTokens,
		ChunkOverlap:       cfg.RAG.ChunkOverlap,
		Dimension:          cfg.Embedding.Dimension,
	})

	chapters := postgres.NewChapterRepository(pg)
	modules := postgres.NewModuleRepository(pg)

	if err := run(ctx, indexer, modules, chapters, *moduleID, *chapterID); err != nil {
		logger.Error(ctx, "indexing failed", err)
		os.Exit(1)
	}
	logger.Info(ctx, "indexing complete")
}

func run(ctx context.Context, indexer *rag.Indexer, modules repository.ModuleRepository, chapters repository.ChapterRepository, moduleID, chapterID string) error {
	if chapterID != "" {
		chapter, err := chapters.GetByID(ctx, chapterID)
		if err != nil {
			return err
		}
		if chapter == nil {
			return apperrors.New(apperrors.CodeChapterNotFound, "chapter not found").WithDetail(chapterID)
		}
		n, err := indexer.IndexChapter(ctx, chapter)
		if err != nil {
			return err
		}
		logger.Info(ctx, "chapter indexed", "chapter_id", chapterID, "chunks", n)
		return nil
	}

	targets, err := moduleTargets(ctx, modules, moduleID)
	if err != nil {
		return err
	}

	for _, m := range targets {
		list, err := chapters.ListByModule(ctx, m.ID)
		if err != nil {
			return err
		}
		n, err := indexer.IndexModule(ctx, list)
		if err != nil {
			return err
		}
		logger.Info(ctx, "module indexed", "module_id", m.ID, "chapters", len(list), "chunks", n)
	}
	return nil
}

func moduleTargets(ctx context.Context, modules repository.ModuleRepository, moduleID string) ([]*entity.Module, error) {
	if moduleID != "" {
		m, err := modules.GetByID(ctx, moduleID)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, apperrors.New(apperrors.CodeModuleNotFound, "module not found").WithDetail(moduleID)
		}
		return []*entity.Module{m}, nil
	}

	var all []*entity.Module
	page := 1
	for {
		result, err := modules.List(ctx, repository.NewPagination(page, 100))
		if err != nil {
			return nil, err
		}
		all = append(all, result.Items...)
		if page >= result.TotalPages {
			break
		}
		page++
	}
	return all, nil
}

// Command api-server runs the textbook assistant HTTP API.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"textbook-assistant-api/internal/application/auth"
	"textbook-assistant-api/internal/application/curriculum"
	"textbook-assistant-api/internal/application/rag"
	"textbook-assistant-api/internal/application/translation"
	"textbook-assistant-api/internal/config"
	"textbook-assistant-api/internal/infrastructure/embedding"
	"textbook-assistant-api/internal/infrastructure/llm"
	"textbook-assistant-api/internal/infrastructure/persistence/milvus"
	"textbook-assistant-api/internal/infrastructure/persistence/postgres"
	"textbook-assistant-api/internal/infrastructure/persistence/redis"
	"textbook-assistant-api/internal/interfaces/http/handler"
	"textbook-assistant-api/internal/interfaces/http/router"
	"textbook-assistant-api/pkg/logger"
	"textbook-assistant-api/pkg/tracer"
	"textbook-assistant-api/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()
	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracer.Init(ctx, tracer.Config{
		ServiceName: cfg.App.Name,
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init tracing", err)
	}

	// Relational storage.
	pg, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		logger.Fatal(ctx, "failed to connect to postgres", err)
	}
	defer pg.Close()
	if err := pg.Migrate(); err != nil {
		logger.Fatal(ctx, "failed to run migrations", err)
	}

	// Cache.
	rds, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		logger.Fatal(ctx, "failed to connect to redis", err)
	}
	defer rds.Close()
	cache := redis.NewCache(rds)

	// Vector store.
	mv, err := milvus.NewClient(ctx, &cfg.Vector.Milvus)
	if err != nil {
		logger.Fatal(ctx, "failed to connect to milvus", err)
	}
	defer mv.Close()
	vectorRepo := milvus.NewRepository(mv, cfg.Embedding.Dimension)
	vectorStore := milvus.NewRAGVectorStore(vectorRepo)

	// Model providers.
	embedder, err := embedding.NewEinoEmbedder(ctx, &cfg.Embedding)
	if err != nil {
		logger.Fatal(ctx, "failed to init embedder", err)
	}
	llmFactory := llm.NewEinoFactory(cfg)
	chat, err := llmFactory.Default(ctx)
	if err != nil {
		logger.Fatal(ctx, "failed to init chat model", err)
	}
	modelName := llmFactory.ModelName(cfg.LLM.DefaultProvider)

	// Repositories.
	users := postgres.NewUserRepository(pg)
	modules := postgres.NewModuleRepository(pg)
	chapters := postgres.NewChapterRepository(pg)
	progress := postgres.NewProgressRepository(pg)
	sessions := postgres.NewSessionRepository(pg)
	translations := postgres.NewTranslationRepository(pg)

	// Application services.
	indexer := rag.NewIndexer(embedder, vectorStore, rag.IndexerConfig{
		EmbeddingBatchSize: cfg.Embedding.BatchSize,
		ChunkMaxTokens:     cfg.RAG.ChunkMaxTokens,
		ChunkOverlap:       cfg.RAG.ChunkOverlap,
		Dimension:          cfg.Embedding.Dimension,
	})
	agent := rag.NewAgent(embedder, chat, vectorStore, rag.AgentConfig{
		TopK:             cfg.RAG.TopK,
		MinScore:         cfg.RAG.MinScore,
		AnswerMaxTokens:  cfg.RAG.AnswerMaxTokens,
		MaxConcurrentLLM: cfg.RAG.MaxConcurrentLLM,
		ModelName:        modelName,
	})
	txManager := postgres.NewTxManager(pg)
	curriculumSvc := curriculum.NewService(modules, chapters, progress, txManager, cache, 0)
	translationSvc := translation.NewService(chapters, translations, chat, cache,
		cfg.Translation.SupportedLanguages, cfg.Translation.CacheTTL, modelName)
	jwtManager := utils.NewJWTManager(cfg.Security.JWT.Secret, cfg.Security.JWT.Issuer)
	authSvc := auth.NewService(users, jwtManager,
		cfg.Security.JWT.Expiration, cfg.Security.JWT.RefreshExpiration)

	var limiter *redis.RateLimiter
	if cfg.Security.RateLimit.Enabled {
		limiter = redis.NewRateLimiter(rds,
			cfg.Security.RateLimit.RequestsPerSecond, time.Second)
	}

	handlers := &router.Handlers{
		QA:          handler.NewQAHandler(agent, sessions),
		Indexing:    handler.NewIndexingHandler(indexer, curriculumSvc, chapters),
		Curriculum:  handler.NewCurriculumHandler(curriculumSvc, indexer),
		History:     handler.NewHistoryHandler(sessions),
		Translation: handler.NewTranslationHandler(translationSvc),
		Auth:        handler.NewAuthHandler(authSvc),
		Health: handler.NewHealthHandler(cfg.App.Version, map[string]handler.HealthChecker{
			"postgres": pg,
			"redis":    rds,
			"milvus":   mv,
		}),
	}

	engine := router.New(cfg, jwtManager, limiter, handlers)
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.HTTP.Host, cfg.Server.HTTP.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:  cfg.Server.HTTP.IdleTimeout,
	}

	go func() {
		logger.Info(ctx, "http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "http server failed", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "http shutdown failed", err)
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "tracer shutdown failed", err)
	}
}

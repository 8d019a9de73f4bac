// Package router assembles the gin engine.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"textbook-assistant-api/internal/config"
	"textbook-assistant-api/internal/domain/entity"
	"textbook-assistant-api/internal/infrastructure/persistence/redis"
	"textbook-assistant-api/internal/interfaces/http/handler"
	"textbook-assistant-api/internal/interfaces/http/middleware"
	"textbook-assistant-api/pkg/utils"
)

// Handlers groups every endpoint handler the router mounts.
type Handlers struct {
	QA          *handler.QAHandler
	Indexing    *handler.IndexingHandler
	Curriculum  *handler.CurriculumHandler
	History     *handler.HistoryHandler
	Translation *handler.TranslationHandler
	Auth        *handler.AuthHandler
	Health      *handler.HealthHandler
}

// New builds the engine with the full middleware chain and route table.
// limiter may be nil when rate limiting is disabled.
func New(cfg *config.Config, jwt *utils.JWTManager, limiter *redis.RateLimiter, h *Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Trace(cfg.App.Name),
		middleware.TraceContext(),
		middleware.Metrics(),
		middleware.CORS(&cfg.Security.CORS),
	)

	engine.GET("/healthz", h.Health.Live)
	engine.GET("/readyz", h.Health.Ready)
	if cfg.Observability.Metrics.Enabled {
		path := cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		engine.GET(path, gin.WrapH(promhttp.Handler()))
	}

	v1 := engine.Group("/api/v1")

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
	}

	authed := v1.Group("")
	authed.Use(middleware.Auth(jwt))
	if limiter != nil {
		authed.Use(middleware.RateLimit(limiter))
	}
	{
		authed.POST("/qa/ask", h.QA.Ask)
		authed.POST("/qa/ask-selection", h.QA.AskSelection)

		authed.GET("/modules", h.Curriculum.ListModules)
		authed.GET("/modules/:id", h.Curriculum.GetModule)
		authed.GET("/modules/:id/chapters", h.Curriculum.ListChapters)
		authed.GET("/modules/:id/progress", h.Curriculum.GetModuleProgress)
		authed.GET("/chapters/:id", h.Curriculum.GetChapter)

		authed.GET("/progress", h.Curriculum.ListProgress)
		authed.PUT("/chapters/:id/progress", h.Curriculum.UpdateProgress)

		authed.POST("/chapters/:id/translate", h.Translation.Translate)
		authed.GET("/chapters/:id/translations", h.Translation.List)
		authed.GET("/translations/languages", h.Translation.Languages)

		authed.GET("/history", h.History.List)
		authed.GET("/history/:id", h.History.Get)
		authed.DELETE("/history", h.History.Clear)

		authed.GET("/profile", h.Auth.GetProfile)
		authed.PUT("/profile", h.Auth.UpdateProfile)
	}

	admin := v1.Group("/admin")
	admin.Use(middleware.Auth(jwt), middleware.RequireRole(entity.UserRoleAdmin, entity.UserRoleInstructor))
	{
		admin.POST("/modules", h.Curriculum.CreateModule)
		admin.POST("/chapters", h.Curriculum.CreateChapter)
		admin.PUT("/chapters/:id/content", h.Curriculum.UpdateChapterContent)
		admin.POST("/index/chapter", h.Indexing.IndexChapter)
		admin.POST("/index/module", h.Indexing.IndexModule)
	}

	return engine
}

package handler

import (
	"github.com/gin-gonic/gin"

	"textbook-assistant-api/internal/application/curriculum"
	"textbook-assistant-api/internal/application/rag"
	"textbook-assistant-api/internal/domain/entity"
	"textbook-assistant-api/internal/domain/repository"
	"textbook-assistant-api/internal/interfaces/http/dto"
	"textbook-assistant-api/internal/interfaces/http/middleware"
	"textbook-assistant-api/pkg/logger"
)

// CurriculumHandler serves modules, chapters and reading progress.
type CurriculumHandler struct {
	curriculum *curriculum.Service
	indexer    *rag.Indexer
}

func NewCurriculumHandler(curriculumSvc *curriculum.Service, indexer *rag.Indexer) *CurriculumHandler {
	return &CurriculumHandler{curriculum: curriculumSvc, indexer: indexer}
}

// ListModules handles GET /modules.
func (h *CurriculumHandler) ListModules(c *gin.Context) {
	var q dto.ListModulesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		dto.BadRequest(c, err)
		return
	}

	page, err := h.curriculum.ListModules(c.Request.Context(), q.Subject,
		repository.NewPagination(q.Page, q.PageSize))
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, page)
}

// GetModule handles GET /modules/:id.
func (h *CurriculumHandler) GetModule(c *gin.Context) {
	module, err := h.curriculum.GetModule(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, module)
}

// ListChapters handles GET /modules/:id/chapters.
func (h *CurriculumHandler) ListChapters(c *gin.Context) {
	chapters, err := h.curriculum.ListChapters(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, chapters)
}

// GetChapter handles GET /chapters/:id.
func (h *CurriculumHandler) GetChapter(c *gin.Context) {
	chapter, err := h.curriculum.GetChapter(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, chapter)
}

// CreateModule handles POST /admin/modules.
func (h *CurriculumHandler) CreateModule(c *gin.Context) {
	var req dto.CreateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err)
		return
	}

	module := &entity.Module{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		GradeLevel:  req.GradeLevel,
		SeqNum:      req.SeqNum,
	}
	if err := h.curriculum.CreateModule(c.Request.Context(), module); err != nil {
		dto.Error(c, err)
		return
	}
	dto.Created(c, module)
}

// CreateChapter handles POST /admin/chapters. New content is indexed
// right away so it is searchable without a separate indexing call.
func (h *CurriculumHandler) CreateChapter(c *gin.Context) {
	var req dto.CreateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	chapter := &entity.Chapter{
		ID:       req.ID,
		ModuleID: req.ModuleID,
		Title:    req.Title,
		Content:  req.Content,
		SeqNum:   req.SeqNum,
	}
	if err := h.curriculum.CreateChapter(ctx, chapter); err != nil {
		dto.Error(c, err)
		return
	}

	if chapter.HasContent() {
		if _, err := h.indexer.IndexChapter(ctx, chapter); err != nil {
			logger.Error(ctx, "failed to index new chapter", err, "chapter_id", chapter.ID)
		}
	}
	dto.Created(c, chapter)
}

// UpdateChapterContent handles PUT /admin/chapters/:id/content.
func (h *CurriculumHandler) UpdateChapterContent(c *gin.Context) {
	var req dto.UpdateChapterContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	chapter, err := h.curriculum.UpdateChapterContent(ctx, c.Param("id"), req.Content)
	if err != nil {
		dto.Error(c, err)
		return
	}

	if _, err := h.indexer.IndexChapter(ctx, chapter); err != nil {
		logger.Error(ctx, "failed to reindex chapter", err, "chapter_id", chapter.ID)
	}
	dto.Success(c, chapter)
}

// GetModuleProgress handles GET /modules/:id/progress.
func (h *CurriculumHandler) GetModuleProgress(c *gin.Context) {
	summary, err := h.curriculum.GetModuleProgress(c.Request.Context(),
		middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, summary)
}

// ListProgress handles GET /progress.
func (h *CurriculumHandler) ListProgress(c *gin.Context) {
	rows, err := h.curriculum.ListProgress(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, rows)
}

// UpdateProgress handles PUT /chapters/:id/progress.
func (h *CurriculumHandler) UpdateProgress(c *gin.Context) {
	var req dto.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err)
		return
	}

	row, err := h.curriculum.UpdateProgress(c.Request.Context(),
		middleware.CurrentUserID(c), c.Param("id"), req.CompletionPct, req.Completed)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, row)
}

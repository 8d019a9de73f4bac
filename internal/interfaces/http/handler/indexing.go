package handler

import (
	"github.com/gin-gonic/gin"

	"textbook-assistant-api/internal/application/curriculum"
	"textbook-assistant-api/internal/application/rag"
	"textbook-assistant-api/internal/domain/repository"
	"textbook-assistant-api/internal/interfaces/http/dto"
	apperrors "textbook-assistant-api/pkg/errors"
)

// IndexingHandler triggers vector store (re)indexing of chapters.
type IndexingHandler struct {
	indexer    *rag.Indexer
	curriculum *curriculum.Service
	chapters   repository.ChapterRepository
}

func NewIndexingHandler(indexer *rag.Indexer, curriculumSvc *curriculum.Service, chapters repository.ChapterRepository) *IndexingHandler {
	return &IndexingHandler{
		indexer:    indexer,
		curriculum: curriculumSvc,
		chapters:   chapters,
	}
}

// IndexChapter handles POST /admin/index/chapter.
func (h *IndexingHandler) IndexChapter(c *gin.Context) {
	var req dto.IndexChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	chapter, err := h.curriculum.GetChapter(ctx, req.ChapterID)
	if err != nil {
		dto.Error(c, err)
		return
	}

	count, err := h.indexer.IndexChapter(ctx, chapter)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, &dto.IndexResponse{
		ChapterID:  chapter.ID,
		ModuleID:   chapter.ModuleID,
		ChunkCount: count,
	})
}

// IndexModule handles POST /admin/index/module.
func (h *IndexingHandler) IndexModule(c *gin.Context) {
	var req dto.IndexModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.curriculum.GetModule(ctx, req.ModuleID); err != nil {
		dto.Error(c, err)
		return
	}

	chapters, err := h.chapters.ListByModule(ctx, req.ModuleID)
	if err != nil {
		dto.Error(c, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list chapters"))
		return
	}

	count, err := h.indexer.IndexModule(ctx, chapters)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, &dto.IndexResponse{
		ModuleID:   req.ModuleID,
		Chapters:   len(chapters),
		ChunkCount: count,
	})
}

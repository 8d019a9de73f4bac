package handler

import (
	"github.com/gin-gonic/gin"

	"textbook-assistant-api/internal/domain/entity"
	"textbook-assistant-api/internal/domain/repository"
	"textbook-assistant-api/internal/interfaces/http/dto"
	"textbook-assistant-api/internal/interfaces/http/middleware"
	apperrors "textbook-assistant-api/pkg/errors"
)

// HistoryHandler serves past question/answer sessions.
type HistoryHandler struct {
	sessions repository.SessionRepository
}

func NewHistoryHandler(sessions repository.SessionRepository) *HistoryHandler {
	return &HistoryHandler{sessions: sessions}
}

// List handles GET /history.
func (h *HistoryHandler) List(c *gin.Context) {
	var q dto.HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		dto.BadRequest(c, err)
		return
	}

	filter := &repository.SessionFilter{
		ChapterID: q.ChapterID,
		ModuleID:  q.ModuleID,
		Mode:      entity.SessionMode(q.Mode),
	}
	page, err := h.sessions.ListByUser(c.Request.Context(), middleware.CurrentUserID(c),
		filter, repository.NewPagination(q.Page, q.PageSize))
	if err != nil {
		dto.Error(c, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list history"))
		return
	}
	dto.Success(c, page)
}

// Get handles GET /history/:id.
func (h *HistoryHandler) Get(c *gin.Context) {
	session, err := h.sessions.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.Error(c, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load session"))
		return
	}
	if session == nil || session.UserID != middleware.CurrentUserID(c) {
		dto.Error(c, apperrors.New(apperrors.CodeSessionNotFound, "session not found"))
		return
	}
	dto.Success(c, session)
}

// Clear handles DELETE /history.
func (h *HistoryHandler) Clear(c *gin.Context) {
	if err := h.sessions.DeleteByUser(c.Request.Context(), middleware.CurrentUserID(c)); err != nil {
		dto.Error(c, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to clear history"))
		return
	}
	dto.Success(c, nil)
}

// Package handler implements the HTTP endpoints.
package handler

import (
	"github.com/gin-gonic/gin"

	"textbook-assistant-api/internal/application/rag"
	"textbook-assistant-api/internal/domain/entity"
	"textbook-assistant-api/internal/domain/repository"
	"textbook-assistant-api/internal/interfaces/http/dto"
	"textbook-assistant-api/internal/interfaces/http/middleware"
	"textbook-assistant-api/pkg/logger"
)

// QAHandler answers questions and records each exchange in history.
type QAHandler struct {
	agent    *rag.Agent
	sessions repository.SessionRepository
}

func NewQAHandler(agent *rag.Agent, sessions repository.SessionRepository) *QAHandler {
	return &QAHandler{agent: agent, sessions: sessions}
}

// Ask handles POST /qa/ask.
func (h *QAHandler) Ask(c *gin.Context) {
	var req dto.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	answer, err := h.agent.AnswerQuestion(ctx, req.Question, &rag.QuestionScope{
		ChapterID: req.ChapterID,
		ModuleID:  req.ModuleID,
	})
	if err != nil {
		dto.Error(c, err)
		return
	}

	session := h.saveSession(c, &entity.AISession{
		UserID:    middleware.CurrentUserID(c),
		ChapterID: req.ChapterID,
		ModuleID:  req.ModuleID,
		Mode:      entity.SessionModeQuestion,
		Question:  req.Question,
		Answer:    answer.Answer,
		Model:     answer.Model,
	}, answer)

	dto.Success(c, toAnswerResponse(session, answer))
}

// AskSelection handles POST /qa/ask-selection.
func (h *QAHandler) AskSelection(c *gin.Context) {
	var req dto.AskSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	answer, err := h.agent.AnswerFromSelection(ctx, req.Question, req.SelectedText)
	if err != nil {
		dto.Error(c, err)
		return
	}

	session := h.saveSession(c, &entity.AISession{
		UserID:       middleware.CurrentUserID(c),
		ChapterID:    req.ChapterID,
		ModuleID:     req.ModuleID,
		Mode:         entity.SessionModeSelection,
		Question:     req.Question,
		SelectedText: req.SelectedText,
		Answer:       answer.Answer,
		Model:        answer.Model,
	}, answer)

	dto.Success(c, toAnswerResponse(session, answer))
}

// saveSession is best-effort: losing a history row never fails the answer.
func (h *QAHandler) saveSession(c *gin.Context, session *entity.AISession, answer *rag.Answer) *entity.AISession {
	for _, ref := range answer.References {
		session.SourceContentIDs = append(session.SourceContentIDs, ref.ContentID)
	}
	if err := h.sessions.Create(c.Request.Context(), session); err != nil {
		logger.Warn(c.Request.Context(), "failed to save session", "error", err)
		return nil
	}
	return session
}

func toAnswerResponse(session *entity.AISession, answer *rag.Answer) *dto.AnswerResponse {
	resp := &dto.AnswerResponse{
		Answer:     answer.Answer,
		References: answer.References,
		Model:      answer.Model,
	}
	if session != nil {
		resp.SessionID = session.ID
	}
	return resp
}

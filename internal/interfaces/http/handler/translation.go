package handler

import (
	"github.com/gin-gonic/gin"

	"textbook-assistant-api/internal/application/translation"
	"textbook-assistant-api/internal/interfaces/http/dto"
)

// TranslationHandler serves chapter translations.
type TranslationHandler struct {
	translations *translation.Service
}

func NewTranslationHandler(translations *translation.Service) *TranslationHandler {
	return &TranslationHandler{translations: translations}
}

// Translate handles POST /chapters/:id/translate.
func (h *TranslationHandler) Translate(c *gin.Context) {
	var req dto.TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err)
		return
	}

	result, err := h.translations.TranslateChapter(c.Request.Context(), c.Param("id"), req.TargetLang)
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, result)
}

// List handles GET /chapters/:id/translations.
func (h *TranslationHandler) List(c *gin.Context) {
	rows, err := h.translations.ListTranslations(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.Error(c, err)
		return
	}
	dto.Success(c, rows)
}

// Languages handles GET /translations/languages.
func (h *TranslationHandler) Languages(c *gin.Context) {
	dto.Success(c, gin.H{"languages": h.translations.SupportedLanguages()})
}

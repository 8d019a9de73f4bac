package dto

import (
	"textbook-assistant-api/internal/application/rag"
)

// AskRequest is a free question, optionally scoped to a chapter or module.
type AskRequest struct {
	Question  string `json:"question" binding:"required"`
	ChapterID string `json:"chapter_id,omitempty"`
	ModuleID  string `json:"module_id,omitempty"`
}

// AskSelectionRequest is a question about text the user highlighted.
type AskSelectionRequest struct {
	Question     string `json:"question" binding:"required"`
	SelectedText string `json:"selected_text" binding:"required"`
	ChapterID    string `json:"chapter_id,omitempty"`
	ModuleID     string `json:"module_id,omitempty"`
}

// AnswerResponse carries the generated answer with its sources.
type AnswerResponse struct {
	SessionID  string          `json:"session_id,omitempty"`
	Answer     string          `json:"answer"`
	References []rag.Reference `json:"references"`
	Model      string          `json:"model,omitempty"`
}

// IndexChapterRequest triggers reindexing of one chapter.
type IndexChapterRequest struct {
	ChapterID string `json:"chapter_id" binding:"required"`
}

// IndexModuleRequest triggers reindexing of every chapter in a module.
type IndexModuleRequest struct {
	ModuleID string `json:"module_id" binding:"required"`
}

// IndexResponse reports what was indexed.
type IndexResponse struct {
	ModuleID   string `json:"module_id,omitempty"`
	ChapterID  string `json:"chapter_id,omitempty"`
	ChunkCount int    `json:"chunk_count"`
	Chapters   int    `json:"chapters,omitempty"`
}

package repository

import (
	"context"

	"textbook-assistant-api/internal/domain/entity"
)

// TranslationRepository accesses stored chapter translations.
type TranslationRepository interface {
	// Upsert creates or replaces the translation for (chapter, language).
	Upsert(ctx context.Context, translation *entity.Translation) error

	GetByChapterAndLang(ctx context.Context, chapterID, lang string) (*entity.Translation, error)

	// ListByChapter returns all translations of a chapter.
	ListByChapter(ctx context.Context, chapterID string) ([]*entity.Translation, error)

	DeleteByChapter(ctx context.Context, chapterID string) error
}

package repository

import (
	"context"

	"textbook-assistant-api/internal/domain/entity"
)

// ChapterRepository accesses chapter content.
type ChapterRepository interface {
	Create(ctx context.Context, chapter *entity.Chapter) error
	GetByID(ctx context.Context, id string) (*entity.Chapter, error)
	Update(ctx context.Context, chapter *entity.Chapter) error
	Delete(ctx context.Context, id string) error

	// ListByModule returns a module's chapters ordered by sequence number.
	ListByModule(ctx context.Context, moduleID string) ([]*entity.Chapter, error)

	// CountByModule returns the number of chapters in a module.
	CountByModule(ctx context.Context, moduleID string) (int64, error)

	// UpdateContent replaces a chapter's text.
	UpdateContent(ctx context.Context, id, content string) error
}

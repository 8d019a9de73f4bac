package repository

import (
	"context"

	"textbook-assistant-api/internal/domain/entity"
)

// ProgressRepository accesses per-user chapter progress.
type ProgressRepository interface {
	// Upsert creates or updates the progress row for (user, chapter).
	Upsert(ctx context.Context, progress *entity.Progress) error

	GetByUserAndChapter(ctx context.Context, userID, chapterID string) (*entity.Progress, error)

	// ListByUser returns all progress rows for a user.
	ListByUser(ctx context.Context, userID string) ([]*entity.Progress, error)

	// ListByUserAndModule returns a user's progress within one module.
	ListByUserAndModule(ctx context.Context, userID, moduleID string) ([]*entity.Progress, error)

	// CountCompletedByModule returns how many chapters of a module a user finished.
	CountCompletedByModule(ctx context.Context, userID, moduleID string) (int64, error)
}

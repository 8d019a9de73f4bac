package repository

import (
	"context"

	"textbook-assistant-api/internal/domain/entity"
)

// SessionFilter narrows history listings.
type SessionFilter struct {
	ChapterID string
	ModuleID  string
	Mode      entity.SessionMode
}

// SessionRepository accesses question/answer history.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.AISession) error
	GetByID(ctx context.Context, id string) (*entity.AISession, error)

	// ListByUser returns a user's sessions, newest first.
	ListByUser(ctx context.Context, userID string, filter *SessionFilter, pagination Pagination) (*PagedResult[*entity.AISession], error)

	// DeleteByUser removes a user's entire history.
	DeleteByUser(ctx context.Context, userID string) error
}

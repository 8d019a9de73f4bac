package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"textbook-assistant-api/internal/domain/entity"
	"textbook-assistant-api/internal/domain/repository"
)

// SessionRepository implements repository.SessionRepository.
type SessionRepository struct {
	client *Client
}

func NewSessionRepository(client *Client) *SessionRepository {
	return &SessionRepository{client: client}
}

var _ repository.SessionRepository = (*SessionRepository)(nil)

func (r *SessionRepository) Create(ctx context.Context, session *entity.AISession) error {
	ctx, span := tracer.Start(ctx, "postgres.SessionRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(session).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*entity.AISession, error) {
	ctx, span := tracer.Start(ctx, "postgres.SessionRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var session entity.AISession
	if err := db.First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID string, filter *repository.SessionFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.AISession], error) {
	ctx, span := tracer.Start(ctx, "postgres.SessionRepository.ListByUser")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.AISession{}).Where("user_id = ?", userID)

	if filter != nil {
		if filter.ChapterID != "" {
			query = query.Where("chapter_id = ?", filter.ChapterID)
		}
		if filter.ModuleID != "" {
			query = query.Where("module_id = ?", filter.ModuleID)
		}
		if filter.Mode != "" {
			query = query.Where("mode = ?", filter.Mode)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}

	var sessions []*entity.AISession
	err := query.
		Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&sessions).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return repository.NewPagedResult(sessions, total, pagination), nil
}

func (r *SessionRepository) DeleteByUser(ctx context.Context, userID string) error {
	ctx, span := tracer.Start(ctx, "postgres.SessionRepository.DeleteByUser")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.AISession{}, "user_id = ?", userID).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	return nil
}

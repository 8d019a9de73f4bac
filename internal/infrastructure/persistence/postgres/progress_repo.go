package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"textbook-assistant-api/internal/domain/entity"
	"textbook-assistant-api/internal/domain/repository"
)

// ProgressRepository implements repository.ProgressRepository.
type ProgressRepository struct {
	client *Client
}

func NewProgressRepository(client *Client) *ProgressRepository {
	return &ProgressRepository{client: client}
}

var _ repository.ProgressRepository = (*ProgressRepository)(nil)

func (r *ProgressRepository) Upsert(ctx context.Context, progress *entity.Progress) error {
	ctx, span := tracer.Start(ctx, "postgres.ProgressRepository.Upsert")
	defer span.End()

	db := getDB(ctx, r.client.db)
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "chapter_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "completion_pct", "last_accessed_at", "completed_at", "updated_at",
		}),
	}).Create(progress).Error
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to upsert progress: %w", err)
	}
	return nil
}

func (r *ProgressRepository) GetByUserAndChapter(ctx context.Context, userID, chapterID string) (*entity.Progress, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProgressRepository.GetByUserAndChapter")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var progress entity.Progress
	err := db.First(&progress, "user_id = ? AND chapter_id = ?", userID, chapterID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return &progress, nil
}

func (r *ProgressRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Progress, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProgressRepository.ListByUser")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var rows []*entity.Progress
	err := db.Where("user_id = ?", userID).
		Order("last_accessed_at DESC").
		Find(&rows).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	return rows, nil
}

func (r *ProgressRepository) ListByUserAndModule(ctx context.Context, userID, moduleID string) ([]*entity.Progress, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProgressRepository.ListByUserAndModule")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var rows []*entity.Progress
	err := db.Where("user_id = ? AND module_id = ?", userID, moduleID).
		Order("last_accessed_at DESC").
		Find(&rows).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list module progress: %w", err)
	}
	return rows, nil
}

func (r *ProgressRepository) CountCompletedByModule(ctx context.Context, userID, moduleID string) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProgressRepository.CountCompletedByModule")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var count int64
	err := db.Model(&entity.Progress{}).
		Where("user_id = ? AND module_id = ? AND status = ?", userID, moduleID, entity.ProgressCompleted).
		Count(&count).Error
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to count completed chapters: %w", err)
	}
	return count, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"textbook-assistant-api/internal/domain/entity"
	"textbook-assistant-api/internal/domain/repository"
)

// ChapterRepository implements repository.ChapterRepository.
type ChapterRepository struct {
	client *Client
}

func NewChapterRepository(client *Client) *ChapterRepository {
	return &ChapterRepository{client: client}
}

var _ repository.ChapterRepository = (*ChapterRepository)(nil)

func (r *ChapterRepository) Create(ctx context.Context, chapter *entity.Chapter) error {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(chapter).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create chapter: %w", err)
	}
	return nil
}

func (r *ChapterRepository) GetByID(ctx context.Context, id string) (*entity.Chapter, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var chapter entity.Chapter
	if err := db.First(&chapter, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}
	return &chapter, nil
}

func (r *ChapterRepository) Update(ctx context.Context, chapter *entity.Chapter) error {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(chapter).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update chapter: %w", err)
	}
	return nil
}

func (r *ChapterRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.Chapter{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete chapter: %w", err)
	}
	return nil
}

func (r *ChapterRepository) ListByModule(ctx context.Context, moduleID string) ([]*entity.Chapter, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.ListByModule")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var chapters []*entity.Chapter
	err := db.Where("module_id = ?", moduleID).
		Order("seq_num ASC").
		Find(&chapters).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	return chapters, nil
}

func (r *ChapterRepository) CountByModule(ctx context.Context, moduleID string) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.CountByModule")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var count int64
	if err := db.Model(&entity.Chapter{}).Where("module_id = ?", moduleID).Count(&count).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to count chapters: %w", err)
	}
	return count, nil
}

func (r *ChapterRepository) UpdateContent(ctx context.Context, id, content string) error {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.UpdateContent")
	defer span.End()

	db := getDB(ctx, r.client.db)
	updates := map[string]any{
		"content":    content,
		"word_count": len([]rune(content)),
	}
	if err := db.Model(&entity.Chapter{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update chapter content: %w", err)
	}
	return nil
}

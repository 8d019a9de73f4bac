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

// TranslationRepository implements repository.TranslationRepository.
type TranslationRepository struct {
	client *Client
}

func NewTranslationRepository(client *Client) *TranslationRepository {
	return &TranslationRepository{client: client}
}

var _ repository.TranslationRepository = (*TranslationRepository)(nil)

func (r *TranslationRepository) Upsert(ctx context.Context, translation *entity.Translation) error {
	ctx, span := tracer.Start(ctx, "postgres.TranslationRepository.Upsert")
	defer span.End()

	db := getDB(ctx, r.client.db)
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "chapter_id"}, {Name: "target_lang"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"content", "model", "updated_at",
		}),
	}).Create(translation).Error
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to upsert translation: %w", err)
	}
	return nil
}

func (r *TranslationRepository) GetByChapterAndLang(ctx context.Context, chapterID, lang string) (*entity.Translation, error) {
	ctx, span := tracer.Start(ctx, "postgres.TranslationRepository.GetByChapterAndLang")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var translation entity.Translation
	err := db.First(&translation, "chapter_id = ? AND target_lang = ?", chapterID, lang).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get translation: %w", err)
	}
	return &translation, nil
}

func (r *TranslationRepository) ListByChapter(ctx context.Context, chapterID string) ([]*entity.Translation, error) {
	ctx, span := tracer.Start(ctx, "postgres.TranslationRepository.ListByChapter")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var translations []*entity.Translation
	if err := db.Where("chapter_id = ?", chapterID).Find(&translations).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list translations: %w", err)
	}
	return translations, nil
}

func (r *TranslationRepository) DeleteByChapter(ctx context.Context, chapterID string) error {
	ctx, span := tracer.Start(ctx, "postgres.TranslationRepository.DeleteByChapter")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.Translation{}, "chapter_id = ?", chapterID).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete translations: %w", err)
	}
	return nil
}

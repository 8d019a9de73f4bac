// Package curriculum serves module and chapter listings and tracks
// per-user reading progress.
package curriculum

import (
	"context"
	"fmt"
	"time"

	"textbook-assistant-api/internal/domain/entity"
	"textbook-assistant-api/internal/domain/repository"
	"textbook-assistant-api/internal/infrastructure/persistence/redis"
	apperrors "textbook-assistant-api/pkg/errors"
	"textbook-assistant-api/pkg/logger"
)

const defaultCacheTTL = 5 * time.Minute

// Service exposes the curriculum read model and progress updates.
type Service struct {
	modules  repository.ModuleRepository
	chapters repository.ChapterRepository
	progress repository.ProgressRepository
	tx       repository.Transactor
	cache    *redis.Cache
	cacheTTL time.Duration
}

// NewService wires the curriculum service. tx and cache may be nil, in
// which case writes run outside a transaction and every read goes to
// the database.
func NewService(
	modules repository.ModuleRepository,
	chapters repository.ChapterRepository,
	progress repository.ProgressRepository,
	tx repository.Transactor,
	cache *redis.Cache,
	cacheTTL time.Duration,
) *Service {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &Service{
		modules:  modules,
		chapters: chapters,
		progress: progress,
		tx:       tx,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// ListModules returns a page of modules, optionally filtered by subject.
func (s *Service) ListModules(ctx context.Context, subject string, pagination repository.Pagination) (*repository.PagedResult[*entity.Module], error) {
	load := func(ctx context.Context) (interface{}, error) {
		if subject != "" {
			return s.modules.ListBySubject(ctx, subject, pagination)
		}
		return s.modules.List(ctx, pagination)
	}

	if s.cache == nil {
		result, err := load(ctx)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list modules")
		}
		return result.(*repository.PagedResult[*entity.Module]), nil
	}

	var page repository.PagedResult[*entity.Module]
	key := redis.ModuleListKey(subject, pagination.Page, pagination.PageSize)
	if err := s.cache.GetOrLoadSafe(ctx, key, &page, s.cacheTTL, load); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list modules")
	}
	return &page, nil
}

// GetModule returns one module by id.
func (s *Service) GetModule(ctx context.Context, id string) (*entity.Module, error) {
	if id == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "module id is required")
	}
	module, err := s.modules.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to get module")
	}
	if module == nil {
		return nil, apperrors.New(apperrors.CodeModuleNotFound, "module not found").WithDetail(id)
	}
	return module, nil
}

// ListChapters returns the chapters of a module in reading order.
// Content is omitted from listings; use GetChapter for the full text.
func (s *Service) ListChapters(ctx context.Context, moduleID string) ([]*entity.Chapter, error) {
	if _, err := s.GetModule(ctx, moduleID); err != nil {
		return nil, err
	}

	load := func(ctx context.Context) (interface{}, error) {
		chapters, err := s.chapters.ListByModule(ctx, moduleID)
		if err != nil {
			return nil, err
		}
		summaries := make([]*entity.Chapter, len(chapters))
		for i, ch := range chapters {
			summary := *ch
			summary.Content = ""
			summaries[i] = &summary
		}
		return summaries, nil
	}

	if s.cache == nil {
		result, err := load(ctx)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list chapters")
		}
		return result.([]*entity.Chapter), nil
	}

	var chapters []*entity.Chapter
	if err := s.cache.GetOrLoadSafe(ctx, redis.ChapterListKey(moduleID), &chapters, s.cacheTTL, load); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list chapters")
	}
	return chapters, nil
}

// GetChapter returns one chapter including its content.
func (s *Service) GetChapter(ctx context.Context, id string) (*entity.Chapter, error) {
	if id == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "chapter id is required")
	}

	load := func(ctx context.Context) (interface{}, error) {
		return s.chapters.GetByID(ctx, id)
	}

	var chapter *entity.Chapter
	if s.cache != nil {
		if err := s.cache.GetOrLoadSafe(ctx, redis.ChapterKey(id), &chapter, s.cacheTTL, load); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to get chapter")
		}
	} else {
		result, err := load(ctx)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to get chapter")
		}
		chapter, _ = result.(*entity.Chapter)
	}

	if chapter == nil || chapter.ID == "" {
		return nil, apperrors.New(apperrors.CodeChapterNotFound, "chapter not found").WithDetail(id)
	}
	return chapter, nil
}

// CreateModule stores a new module and invalidates listings.
func (s *Service) CreateModule(ctx context.Context, module *entity.Module) error {
	if module.ID == "" || module.Title == "" {
		return apperrors.New(apperrors.CodeInvalidParam, "module id and title are required")
	}
	if err := s.modules.Create(ctx, module); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to create module")
	}
	s.invalidateModule(ctx, module.ID)
	return nil
}

// CreateChapter stores a new chapter under an existing module.
func (s *Service) CreateChapter(ctx context.Context, chapter *entity.Chapter) error {
	if chapter.ID == "" || chapter.ModuleID == "" || chapter.Title == "" {
		return apperrors.New(apperrors.CodeInvalidParam, "chapter id, module id and title are required")
	}
	if _, err := s.GetModule(ctx, chapter.ModuleID); err != nil {
		return err
	}
	chapter.SetContent(chapter.Content)
	if err := s.chapters.Create(ctx, chapter); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to create chapter")
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, redis.ChapterKey(chapter.ID)); err != nil {
			logger.Warn(ctx, "chapter cache invalidation failed", "chapter_id", chapter.ID, "error", err)
		}
	}
	s.invalidateModule(ctx, chapter.ModuleID)
	return nil
}

// UpdateChapterContent replaces a chapter's text and drops cached
// copies, including stored translations' cache entries. The caller is
// responsible for reindexing the chapter afterwards.
func (s *Service) UpdateChapterContent(ctx context.Context, id, content string) (*entity.Chapter, error) {
	chapter, err := s.GetChapter(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.chapters.UpdateContent(ctx, id, content); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to update chapter content")
	}
	chapter.SetContent(content)

	if s.cache != nil {
		if err := s.cache.InvalidateChapter(ctx, id); err != nil {
			logger.Warn(ctx, "chapter cache invalidation failed", "chapter_id", id, "error", err)
		}
		s.invalidateModule(ctx, chapter.ModuleID)
	}
	return chapter, nil
}

// ModuleProgress summarizes a user's completion within one module.
type ModuleProgress struct {
	ModuleID          string             `json:"module_id"`
	TotalChapters     int64              `json:"total_chapters"`
	CompletedChapters int64              `json:"completed_chapters"`
	CompletionPct     float64            `json:"completion_pct"`
	Chapters          []*entity.Progress `json:"chapters"`
}

// GetModuleProgress computes a user's progress across a module.
func (s *Service) GetModuleProgress(ctx context.Context, userID, moduleID string) (*ModuleProgress, error) {
	if _, err := s.GetModule(ctx, moduleID); err != nil {
		return nil, err
	}

	total, err := s.chapters.CountByModule(ctx, moduleID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to count chapters")
	}
	completed, err := s.progress.CountCompletedByModule(ctx, userID, moduleID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to count completed chapters")
	}
	rows, err := s.progress.ListByUserAndModule(ctx, userID, moduleID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list progress")
	}

	summary := &ModuleProgress{
		ModuleID:          moduleID,
		TotalChapters:     total,
		CompletedChapters: completed,
		Chapters:          rows,
	}
	if total > 0 {
		summary.CompletionPct = float64(completed) / float64(total) * 100
	}
	return summary, nil
}

// ListProgress returns every progress row for a user, most recently
// accessed first.
func (s *Service) ListProgress(ctx context.Context, userID string) ([]*entity.Progress, error) {
	rows, err := s.progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list progress")
	}
	return rows, nil
}

// UpdateProgress records a user's position in a chapter. A completion
// percentage of 100 or the completed flag marks the chapter finished.
func (s *Service) UpdateProgress(ctx context.Context, userID, chapterID string, completionPct float64, completed bool) (*entity.Progress, error) {
	if userID == "" || chapterID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "user id and chapter id are required")
	}
	if completionPct < 0 || completionPct > 100 {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "completion_pct must be between 0 and 100")
	}

	chapter, err := s.GetChapter(ctx, chapterID)
	if err != nil {
		return nil, err
	}

	var row *entity.Progress
	update := func(ctx context.Context) error {
		var err error
		row, err = s.progress.GetByUserAndChapter(ctx, userID, chapterID)
		if err != nil {
			return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load progress")
		}
		if row == nil {
			row = entity.NewProgress(userID, chapterID, chapter.ModuleID)
		}

		row.Touch()
		if completionPct > row.CompletionPct {
			row.CompletionPct = completionPct
		}
		if completed || completionPct >= 100 {
			row.MarkCompleted()
		}

		if err := s.progress.Upsert(ctx, row); err != nil {
			return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to save progress")
		}
		return nil
	}

	if s.tx != nil {
		err = s.tx.WithTransaction(ctx, update)
	} else {
		err = update(ctx)
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (s *Service) invalidateModule(ctx context.Context, moduleID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateModule(ctx, moduleID); err != nil {
		logger.Warn(ctx, "module cache invalidation failed", "module_id", moduleID, "error", err)
	}
}

// String renders a short progress summary for logs.
func (p *ModuleProgress) String() string {
	return fmt.Sprintf("%s: %d/%d chapters", p.ModuleID, p.CompletedChapters, p.TotalChapters)
}

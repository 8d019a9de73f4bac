// Package translation produces and caches chapter translations.
package translation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"textbook-assistant-api/internal/domain/entity"
	"textbook-assistant-api/internal/domain/repository"
	"textbook-assistant-api/internal/infrastructure/persistence/redis"
	apperrors "textbook-assistant-api/pkg/errors"
	"textbook-assistant-api/pkg/logger"
	"textbook-assistant-api/pkg/metrics"
)

const (
	defaultCacheTTL = 24 * time.Hour

	translationTemperature float32 = 0.3
)

// languageNames maps supported language codes to the names used in the
// translation prompt.
var languageNames = map[string]string{
	"en": "English",
	"rw": "Kinyarwanda",
	"fr": "French",
	"sw": "Swahili",
}

// Service translates chapter content on demand. Results persist in the
// database and are served from cache on repeat requests.
type Service struct {
	chapters  repository.ChapterRepository
	store     repository.TranslationRepository
	chat      model.BaseChatModel
	cache     *redis.Cache
	supported map[string]bool
	cacheTTL  time.Duration
	modelName string
}

// NewService wires the translation service. cache may be nil.
func NewService(
	chapters repository.ChapterRepository,
	store repository.TranslationRepository,
	chat model.BaseChatModel,
	cache *redis.Cache,
	supported []string,
	cacheTTL time.Duration,
	modelName string,
) *Service {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	langs := make(map[string]bool, len(supported))
	for _, l := range supported {
		langs[strings.ToLower(l)] = true
	}
	return &Service{
		chapters:  chapters,
		store:     store,
		chat:      chat,
		cache:     cache,
		supported: langs,
		cacheTTL:  cacheTTL,
		modelName: modelName,
	}
}

// SupportedLanguages lists the language codes the service accepts.
func (s *Service) SupportedLanguages() []string {
	langs := make([]string, 0, len(s.supported))
	for l := range s.supported {
		langs = append(langs, l)
	}
	return langs
}

// TranslateChapter returns the chapter translated into targetLang,
// generating and persisting the translation on first request.
func (s *Service) TranslateChapter(ctx context.Context, chapterID, targetLang string) (*entity.Translation, error) {
	targetLang = strings.ToLower(strings.TrimSpace(targetLang))
	if chapterID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "chapter id is required")
	}
	if !s.supported[targetLang] {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "unsupported target language").WithDetail(targetLang)
	}

	cacheKey := entity.TranslationCacheKey(chapterID, targetLang)
	if s.cache != nil {
		var cached entity.Translation
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil && cached.Content != "" {
			metrics.TranslationsTotal.WithLabelValues(targetLang, "cache_hit").Inc()
			return &cached, nil
		} else if err != nil && !redis.IsNil(err) {
			logger.Warn(ctx, "translation cache read failed", "key", cacheKey, "error", err)
		}
	}

	stored, err := s.store.GetByChapterAndLang(ctx, chapterID, targetLang)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load translation")
	}
	if stored != nil {
		s.cacheTranslation(ctx, cacheKey, stored)
		metrics.TranslationsTotal.WithLabelValues(targetLang, "stored").Inc()
		return stored, nil
	}

	chapter, err := s.chapters.GetByID(ctx, chapterID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load chapter")
	}
	if chapter == nil {
		return nil, apperrors.New(apperrors.CodeChapterNotFound, "chapter not found").WithDetail(chapterID)
	}
	if !chapter.HasContent() {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "chapter has no content to translate")
	}

	content, err := s.translate(ctx, chapter.Content, targetLang)
	if err != nil {
		metrics.TranslationsTotal.WithLabelValues(targetLang, "error").Inc()
		return nil, err
	}

	translation := &entity.Translation{
		ChapterID:  chapterID,
		TargetLang: targetLang,
		Content:    content,
		Model:      s.modelName,
	}
	if err := s.store.Upsert(ctx, translation); err != nil {
		// The translation is still usable even if persistence failed.
		logger.Error(ctx, "failed to store translation", err,
			"chapter_id", chapterID, "target_lang", targetLang)
	}
	s.cacheTranslation(ctx, cacheKey, translation)

	metrics.TranslationsTotal.WithLabelValues(targetLang, "generated").Inc()
	return translation, nil
}

// ListTranslations returns every stored translation of a chapter.
func (s *Service) ListTranslations(ctx context.Context, chapterID string) ([]*entity.Translation, error) {
	rows, err := s.store.ListByChapter(ctx, chapterID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list translations")
	}
	return rows, nil
}

func (s *Service) translate(ctx context.Context, content, targetLang string) (string, error) {
	name := languageNames[targetLang]
	if name == "" {
		name = targetLang
	}
	prompt := fmt.Sprintf(
		"Translate the following educational content into %s. "+
			"Preserve the meaning, structure and any technical terms. "+
			"Return only the translated text.\n\n%s",
		name, content)

	msg, err := s.chat.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)},
		model.WithTemperature(translationTemperature))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", apperrors.Wrap(err, apperrors.CodeTranslationFailed, "translation model call failed")
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", apperrors.New(apperrors.CodeTranslationFailed, "translation model returned empty content")
	}
	return msg.Content, nil
}

func (s *Service) cacheTranslation(ctx context.Context, key string, t *entity.Translation) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, t, s.cacheTTL); err != nil {
		logger.Warn(ctx, "translation cache write failed", "key", key, "error", err)
	}
}

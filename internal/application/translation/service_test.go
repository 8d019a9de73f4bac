package translation

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"textbook-assistant-api/internal/domain/entity"
	apperrors "textbook-assistant-api/pkg/errors"
)

type fakeChapterRepo struct {
	chapters map[string]*entity.Chapter
}

func (f *fakeChapterRepo) Create(_ context.Context, c *entity.Chapter) error {
	f.chapters[c.ID] = c
	return nil
}

func (f *fakeChapterRepo) GetByID(_ context.Context, id string) (*entity.Chapter, error) {
	return f.chapters[id], nil
}

func (f *fakeChapterRepo) Update(_ context.Context, c *entity.Chapter) error  { return nil }
func (f *fakeChapterRepo) Delete(_ context.Context, id string) error          { return nil }
func (f *fakeChapterRepo) UpdateContent(_ context.Context, _, _ string) error { return nil }

func (f *fakeChapterRepo) CountByModule(_ context.Context, _ string) (int64, error) {
	return 0, nil
}

func (f *fakeChapterRepo) ListByModule(_ context.Context, _ string) ([]*entity.Chapter, error) {
	return nil, nil
}

type fakeTranslationRepo struct {
	rows map[string]*entity.Translation // keyed chapter|lang
}

func translationKey(chapterID, lang string) string { return chapterID + "|" + lang }

func (f *fakeTranslationRepo) Upsert(_ context.Context, t *entity.Translation) error {
	f.rows[translationKey(t.ChapterID, t.TargetLang)] = t
	return nil
}

func (f *fakeTranslationRepo) GetByChapterAndLang(_ context.Context, chapterID, lang string) (*entity.Translation, error) {
	return f.rows[translationKey(chapterID, lang)], nil
}

func (f *fakeTranslationRepo) ListByChapter(_ context.Context, chapterID string) ([]*entity.Translation, error) {
	var out []*entity.Translation
	for _, t := range f.rows {
		if t.ChapterID == chapterID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTranslationRepo) DeleteByChapter(_ context.Context, chapterID string) error {
	for k, t := range f.rows {
		if t.ChapterID == chapterID {
			delete(f.rows, k)
		}
	}
	return nil
}

type fakeChatModel struct {
	reply string
	err   error
	calls int
}

func (f *fakeChatModel) Generate(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func newTestService(chat *fakeChatModel) (*Service, *fakeTranslationRepo) {
	chapters := &fakeChapterRepo{chapters: map[string]*entity.Chapter{
		"ch-1": {ID: "ch-1", ModuleID: "m1", Title: "Nodes", Content: "Nodes communicate over topics."},
		"ch-2": {ID: "ch-2", ModuleID: "m1", Title: "Empty"},
	}}
	store := &fakeTranslationRepo{rows: map[string]*entity.Translation{}}
	svc := NewService(chapters, store, chat, nil, []string{"en", "rw", "fr", "sw"}, 0, "test-model")
	return svc, store
}

func TestTranslateChapterGenerates(t *testing.T) {
	chat := &fakeChatModel{reply: "Imbuga zivugana hejuru ya topics."}
	svc, store := newTestService(chat)

	result, err := svc.TranslateChapter(context.Background(), "ch-1", "rw")
	if err != nil {
		t.Fatalf("TranslateChapter: %v", err)
	}
	if result.Content != chat.reply {
		t.Errorf("content = %q", result.Content)
	}
	if result.TargetLang != "rw" {
		t.Errorf("target lang = %q", result.TargetLang)
	}
	if result.Model != "test-model" {
		t.Errorf("model = %q", result.Model)
	}
	if len(store.rows) != 1 {
		t.Errorf("stored %d translations, want 1", len(store.rows))
	}
}

func TestTranslateChapterReusesStored(t *testing.T) {
	chat := &fakeChatModel{reply: "should not be used"}
	svc, store := newTestService(chat)
	store.rows[translationKey("ch-1", "fr")] = &entity.Translation{
		ChapterID:  "ch-1",
		TargetLang: "fr",
		Content:    "Les noeuds communiquent.",
	}

	result, err := svc.TranslateChapter(context.Background(), "ch-1", "fr")
	if err != nil {
		t.Fatalf("TranslateChapter: %v", err)
	}
	if result.Content != "Les noeuds communiquent." {
		t.Errorf("content = %q, want stored translation", result.Content)
	}
	if chat.calls != 0 {
		t.Errorf("model called %d times for a stored translation", chat.calls)
	}
}

func TestTranslateChapterUnsupportedLanguage(t *testing.T) {
	svc, _ := newTestService(&fakeChatModel{reply: "x"})

	_, err := svc.TranslateChapter(context.Background(), "ch-1", "de")
	if !apperrors.HasCode(err, apperrors.CodeInvalidParam) {
		t.Errorf("error = %v, want invalid param", err)
	}
}

func TestTranslateChapterNotFound(t *testing.T) {
	svc, _ := newTestService(&fakeChatModel{reply: "x"})

	_, err := svc.TranslateChapter(context.Background(), "missing", "rw")
	if !apperrors.HasCode(err, apperrors.CodeChapterNotFound) {
		t.Errorf("error = %v, want chapter not found", err)
	}
}

func TestTranslateChapterEmptyContent(t *testing.T) {
	svc, _ := newTestService(&fakeChatModel{reply: "x"})

	_, err := svc.TranslateChapter(context.Background(), "ch-2", "rw")
	if !apperrors.HasCode(err, apperrors.CodeInvalidParam) {
		t.Errorf("error = %v, want invalid param", err)
	}
}

func TestTranslateChapterModelFailure(t *testing.T) {
	svc, store := newTestService(&fakeChatModel{err: errors.New("provider down")})

	_, err := svc.TranslateChapter(context.Background(), "ch-1", "sw")
	if !apperrors.HasCode(err, apperrors.CodeTranslationFailed) {
		t.Errorf("error = %v, want translation failed", err)
	}
	if len(store.rows) != 0 {
		t.Error("failed translation was persisted")
	}
}

func TestLanguageCodeNormalized(t *testing.T) {
	chat := &fakeChatModel{reply: "translated"}
	svc, _ := newTestService(chat)

	result, err := svc.TranslateChapter(context.Background(), "ch-1", " RW ")
	if err != nil {
		t.Fatalf("TranslateChapter: %v", err)
	}
	if result.TargetLang != "rw" {
		t.Errorf("target lang = %q, want rw", result.TargetLang)
	}
}

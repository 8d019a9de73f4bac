package curriculum

import (
	"context"
	"testing"

	"textbook-assistant-api/internal/domain/entity"
	"textbook-assistant-api/internal/domain/repository"
	apperrors "textbook-assistant-api/pkg/errors"
)

type fakeModuleRepo struct {
	modules map[string]*entity.Module
}

func (f *fakeModuleRepo) Create(_ context.Context, m *entity.Module) error {
	f.modules[m.ID] = m
	return nil
}

func (f *fakeModuleRepo) GetByID(_ context.Context, id string) (*entity.Module, error) {
	return f.modules[id], nil
}

func (f *fakeModuleRepo) Update(_ context.Context, m *entity.Module) error {
	f.modules[m.ID] = m
	return nil
}

func (f *fakeModuleRepo) Delete(_ context.Context, id string) error {
	delete(f.modules, id)
	return nil
}

func (f *fakeModuleRepo) List(_ context.Context, p repository.Pagination) (*repository.PagedResult[*entity.Module], error) {
	items := make([]*entity.Module, 0, len(f.modules))
	for _, m := range f.modules {
		items = append(items, m)
	}
	return repository.NewPagedResult(items, int64(len(items)), p), nil
}

func (f *fakeModuleRepo) ListBySubject(ctx context.Context, subject string, p repository.Pagination) (*repository.PagedResult[*entity.Module], error) {
	var items []*entity.Module
	for _, m := range f.modules {
		if m.Subject == subject {
			items = append(items, m)
		}
	}
	return repository.NewPagedResult(items, int64(len(items)), p), nil
}

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

func (f *fakeChapterRepo) Update(_ context.Context, c *entity.Chapter) error {
	f.chapters[c.ID] = c
	return nil
}

func (f *fakeChapterRepo) Delete(_ context.Context, id string) error {
	delete(f.chapters, id)
	return nil
}

func (f *fakeChapterRepo) ListByModule(_ context.Context, moduleID string) ([]*entity.Chapter, error) {
	var out []*entity.Chapter
	for _, c := range f.chapters {
		if c.ModuleID == moduleID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeChapterRepo) CountByModule(ctx context.Context, moduleID string) (int64, error) {
	list, _ := f.ListByModule(ctx, moduleID)
	return int64(len(list)), nil
}

func (f *fakeChapterRepo) UpdateContent(_ context.Context, id, content string) error {
	if c, ok := f.chapters[id]; ok {
		c.SetContent(content)
	}
	return nil
}

type fakeProgressRepo struct {
	rows map[string]*entity.Progress // keyed user|chapter
}

func progressKey(userID, chapterID string) string { return userID + "|" + chapterID }

func (f *fakeProgressRepo) Upsert(_ context.Context, p *entity.Progress) error {
	f.rows[progressKey(p.UserID, p.ChapterID)] = p
	return nil
}

func (f *fakeProgressRepo) GetByUserAndChapter(_ context.Context, userID, chapterID string) (*entity.Progress, error) {
	return f.rows[progressKey(userID, chapterID)], nil
}

func (f *fakeProgressRepo) ListByUser(_ context.Context, userID string) ([]*entity.Progress, error) {
	var out []*entity.Progress
	for _, p := range f.rows {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProgressRepo) ListByUserAndModule(_ context.Context, userID, moduleID string) ([]*entity.Progress, error) {
	var out []*entity.Progress
	for _, p := range f.rows {
		if p.UserID == userID && p.ModuleID == moduleID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProgressRepo) CountCompletedByModule(_ context.Context, userID, moduleID string) (int64, error) {
	var n int64
	for _, p := range f.rows {
		if p.UserID == userID && p.ModuleID == moduleID && p.Status == entity.ProgressCompleted {
			n++
		}
	}
	return n, nil
}

func newTestService() (*Service, *fakeModuleRepo, *fakeChapterRepo, *fakeProgressRepo) {
	modules := &fakeModuleRepo{modules: map[string]*entity.Module{
		"ros-basics": {ID: "ros-basics", Title: "ROS 2 Basics", Subject: "robotics"},
	}}
	chapters := &fakeChapterRepo{chapters: map[string]*entity.Chapter{
		"ch-1": {ID: "ch-1", ModuleID: "ros-basics", Title: "Nodes", Content: "Nodes communicate over topics."},
		"ch-2": {ID: "ch-2", ModuleID: "ros-basics", Title: "Topics", Content: "Topics carry typed messages."},
	}}
	progress := &fakeProgressRepo{rows: map[string]*entity.Progress{}}
	return NewService(modules, chapters, progress, nil, nil, 0), modules, chapters, progress
}

func TestGetModuleNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.GetModule(context.Background(), "missing")
	if !apperrors.HasCode(err, apperrors.CodeModuleNotFound) {
		t.Errorf("error = %v, want module not found", err)
	}
}

func TestListChaptersStripsContent(t *testing.T) {
	svc, _, _, _ := newTestService()

	chapters, err := svc.ListChapters(context.Background(), "ros-basics")
	if err != nil {
		t.Fatalf("ListChapters: %v", err)
	}
	if len(chapters) != 2 {
		t.Fatalf("got %d chapters, want 2", len(chapters))
	}
	for _, c := range chapters {
		if c.Content != "" {
			t.Errorf("chapter %s listing includes content", c.ID)
		}
	}
}

func TestListChaptersUnknownModule(t *testing.T) {
	svc, _, _, _ := newTestService()

	if _, err := svc.ListChapters(context.Background(), "missing"); !apperrors.HasCode(err, apperrors.CodeModuleNotFound) {
		t.Errorf("error = %v, want module not found", err)
	}
}

func TestUpdateProgressCreatesRow(t *testing.T) {
	svc, _, _, progress := newTestService()

	row, err := svc.UpdateProgress(context.Background(), "u1", "ch-1", 40, false)
	if err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if row.Status != entity.ProgressInProgress {
		t.Errorf("status = %s, want in_progress", row.Status)
	}
	if row.CompletionPct != 40 {
		t.Errorf("completion = %v, want 40", row.CompletionPct)
	}
	if len(progress.rows) != 1 {
		t.Errorf("stored %d rows, want 1", len(progress.rows))
	}
}

func TestUpdateProgressNeverRegresses(t *testing.T) {
	svc, _, _, _ := newTestService()

	if _, err := svc.UpdateProgress(context.Background(), "u1", "ch-1", 60, false); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	row, err := svc.UpdateProgress(context.Background(), "u1", "ch-1", 20, false)
	if err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if row.CompletionPct != 60 {
		t.Errorf("completion regressed to %v", row.CompletionPct)
	}
}

func TestUpdateProgressCompletes(t *testing.T) {
	svc, _, _, _ := newTestService()

	row, err := svc.UpdateProgress(context.Background(), "u1", "ch-1", 100, false)
	if err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if row.Status != entity.ProgressCompleted {
		t.Errorf("status = %s, want completed", row.Status)
	}
	if row.CompletedAt == nil {
		t.Error("completed_at not set")
	}
}

func TestUpdateProgressRejectsBadPct(t *testing.T) {
	svc, _, _, _ := newTestService()

	if _, err := svc.UpdateProgress(context.Background(), "u1", "ch-1", 120, false); !apperrors.HasCode(err, apperrors.CodeInvalidParam) {
		t.Errorf("error = %v, want invalid param", err)
	}
}

func TestGetModuleProgress(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.UpdateProgress(ctx, "u1", "ch-1", 100, false); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if _, err := svc.UpdateProgress(ctx, "u1", "ch-2", 30, false); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}

	summary, err := svc.GetModuleProgress(ctx, "u1", "ros-basics")
	if err != nil {
		t.Fatalf("GetModuleProgress: %v", err)
	}
	if summary.TotalChapters != 2 || summary.CompletedChapters != 1 {
		t.Errorf("summary = %+v, want 1 of 2 completed", summary)
	}
	if summary.CompletionPct != 50 {
		t.Errorf("completion = %v, want 50", summary.CompletionPct)
	}
}

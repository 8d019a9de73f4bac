package entity

import (
	"time"
)

// ProgressStatus is the completion state of a chapter for a user.
type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "not_started"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
)

// Progress tracks a user's position within a chapter.
type Progress struct {
	ID             string         `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID         string         `json:"user_id" gorm:"type:uuid;index:idx_progress_user_chapter,unique;not null"`
	ChapterID      string         `json:"chapter_id" gorm:"type:varchar(128);index:idx_progress_user_chapter,unique;not null"`
	ModuleID       string         `json:"module_id" gorm:"type:varchar(128);index;not null"`
	Status         ProgressStatus `json:"status" gorm:"type:varchar(50);default:'not_started'"`
	CompletionPct  float64        `json:"completion_pct" gorm:"default:0"`
	LastAccessedAt time.Time      `json:"last_accessed_at"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name.
func (Progress) TableName() string {
	return "progress"
}

// NewProgress starts tracking a chapter for a user.
func NewProgress(userID, chapterID, moduleID string) *Progress {
	now := time.Now()
	return &Progress{
		UserID:         userID,
		ChapterID:      chapterID,
		ModuleID:       moduleID,
		Status:         ProgressInProgress,
		LastAccessedAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Touch records an access without changing completion.
func (p *Progress) Touch() {
	p.LastAccessedAt = time.Now()
	if p.Status == ProgressNotStarted {
		p.Status = ProgressInProgress
	}
	p.UpdatedAt = p.LastAccessedAt
}

// MarkCompleted finishes the chapter.
func (p *Progress) MarkCompleted() {
	now := time.Now()
	p.Status = ProgressCompleted
	p.CompletionPct = 100
	p.CompletedAt = &now
	p.LastAccessedAt = now
	p.UpdatedAt = now
}

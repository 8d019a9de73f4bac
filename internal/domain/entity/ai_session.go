package entity

import (
	"time"

	"github.com/lib/pq"
)

// SessionMode distinguishes how a question reached the assistant.
type SessionMode string

const (
	SessionModeQuestion  SessionMode = "question"
	SessionModeSelection SessionMode = "selection"
)

// AISession is one question/answer exchange with the assistant,
// persisted for the user's history.
type AISession struct {
	ID               string         `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID           string         `json:"user_id" gorm:"type:uuid;index;not null"`
	ChapterID        string         `json:"chapter_id,omitempty" gorm:"type:varchar(128);index"`
	ModuleID         string         `json:"module_id,omitempty" gorm:"type:varchar(128);index"`
	Mode             SessionMode    `json:"mode" gorm:"type:varchar(50);not null"`
	Question         string         `json:"question" gorm:"type:text;not null"`
	SelectedText     string         `json:"selected_text,omitempty" gorm:"type:text"`
	Answer           string         `json:"answer,omitempty" gorm:"type:text"`
	SourceContentIDs pq.StringArray `json:"source_content_ids,omitempty" gorm:"type:text[]"`
	Model            string         `json:"model,omitempty" gorm:"type:varchar(128)"`
	CreatedAt        time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name.
func (AISession) TableName() string {
	return "ai_sessions"
}

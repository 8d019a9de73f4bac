package entity

import (
	"fmt"
	"time"
)

// Translation stores a machine translation of a chapter into one
// target language. One row per (chapter, language) pair.
type Translation struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChapterID  string    `json:"chapter_id" gorm:"type:varchar(128);index:idx_translation_chapter_lang,unique;not null"`
	TargetLang string    `json:"target_lang" gorm:"type:varchar(10);index:idx_translation_chapter_lang,unique;not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	Model      string    `json:"model,omitempty" gorm:"type:varchar(128)"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name.
func (Translation) TableName() string {
	return "translations"
}

// CacheKey returns the cache key for a chapter/language pair.
func TranslationCacheKey(chapterID, lang string) string {
	return fmt.Sprintf("translation:%s:%s", chapterID, lang)
}

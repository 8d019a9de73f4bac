package entity

import (
	"time"
)

// Chapter is a readable unit of a module carrying the textbook content
// that gets chunked and indexed for retrieval.
type Chapter struct {
	ID        string    `json:"id" gorm:"type:varchar(128);primaryKey"`
	ModuleID  string    `json:"module_id" gorm:"type:varchar(128);index;not null"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null"`
	Content   string    `json:"content,omitempty" gorm:"type:text"`
	SeqNum    int       `json:"seq_num" gorm:"not null;default:0"`
	WordCount int       `json:"word_count" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name.
func (Chapter) TableName() string {
	return "chapters"
}

// SetContent replaces the chapter text and recounts words.
func (c *Chapter) SetContent(content string) {
	c.Content = content
	c.WordCount = len([]rune(content))
	c.UpdatedAt = time.Now()
}

// HasContent reports whether there is anything to index.
func (c *Chapter) HasContent() bool {
	return len(c.Content) > 0
}

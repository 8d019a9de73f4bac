package entity

import (
	"time"
)

// Module is a top-level unit of the curriculum grouping chapters.
type Module struct {
	ID          string    `json:"id" gorm:"type:varchar(128);primaryKey"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Subject     string    `json:"subject,omitempty" gorm:"type:varchar(128);index"`
	GradeLevel  string    `json:"grade_level,omitempty" gorm:"type:varchar(50)"`
	SeqNum      int       `json:"seq_num" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name.
func (Module) TableName() string {
	return "modules"
}

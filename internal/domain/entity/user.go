// Package entity defines domain entities.
package entity

import (
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// UserRole is the access role of a user.
type UserRole string

const (
	UserRoleStudent    UserRole = "student"
	UserRoleInstructor UserRole = "instructor"
	UserRoleAdmin      UserRole = "admin"
)

// ExperienceLevel is a learner's self-reported experience.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

// LearningPace is the preferred study pace.
type LearningPace string

const (
	PaceSlow   LearningPace = "slow"
	PaceNormal LearningPace = "normal"
	PaceFast   LearningPace = "fast"
)

// User is a learner account.
type User struct {
	ID                string          `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email             string          `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash      string          `json:"-" gorm:"type:varchar(255);not null"`
	Name              string          `json:"name" gorm:"type:varchar(255)"`
	Role              UserRole        `json:"role" gorm:"type:varchar(50);default:'student'"`
	ExperienceLevel   ExperienceLevel `json:"experience_level" gorm:"type:varchar(50);default:'beginner'"`
	PreferredLanguage string          `json:"preferred_language" gorm:"type:varchar(10);default:'en'"`
	LearningPace      LearningPace    `json:"learning_pace" gorm:"type:varchar(50);default:'normal'"`
	CareerGoals       pq.StringArray  `json:"career_goals,omitempty" gorm:"type:text[]"`
	LastLoginAt       *time.Time      `json:"last_login_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name.
func (User) TableName() string {
	return "users"
}

// NewUser creates a user with default learner settings.
func NewUser(email, name string) *User {
	now := time.Now()
	return &User{
		Email:             email,
		Name:              name,
		Role:              UserRoleStudent,
		ExperienceLevel:   ExperienceBeginner,
		PreferredLanguage: "en",
		LearningPace:      PaceNormal,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// IsAdmin checks whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// SetPassword hashes and stores the password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

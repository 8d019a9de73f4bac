package dto

import (
	"textbook-assistant-api/internal/domain/entity"
	"textbook-assistant-api/pkg/utils"
)

// RegisterRequest creates an account.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"`
}

// LoginRequest authenticates by email and password.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest exchanges a refresh token for new tokens.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthResponse returns the authenticated user with tokens.
type AuthResponse struct {
	User   *entity.User     `json:"user"`
	Tokens *utils.TokenPair `json:"tokens"`
}

// UpdateProfileRequest changes personalization settings. Omitted
// fields are left unchanged.
type UpdateProfileRequest struct {
	Name              *string  `json:"name"`
	ExperienceLevel   *string  `json:"experience_level"`
	PreferredLanguage *string  `json:"preferred_language"`
	LearningPace      *string  `json:"learning_pace"`
	CareerGoals       []string `json:"career_goals"`
}

// TranslateRequest asks for a chapter in another language.
type TranslateRequest struct {
	TargetLang string `json:"target_lang" binding:"required"`
}

// Package auth handles account registration, login and profile updates.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"textbook-assistant-api/internal/domain/entity"
	"textbook-assistant-api/internal/domain/repository"
	apperrors "textbook-assistant-api/pkg/errors"
	"textbook-assistant-api/pkg/logger"
	"textbook-assistant-api/pkg/utils"
)

const minPasswordLength = 8

// Service implements authentication and profile management.
type Service struct {
	users      repository.UserRepository
	jwt        *utils.JWTManager
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewService wires the auth service.
func NewService(users repository.UserRepository, jwt *utils.JWTManager, accessTTL, refreshTTL time.Duration) *Service {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &Service{
		users:      users,
		jwt:        jwt,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Register creates a new learner account and returns it with a token pair.
func (s *Service) Register(ctx context.Context, email, password, name string) (*entity.User, *utils.TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, nil, apperrors.New(apperrors.CodeInvalidParam, "a valid email is required")
	}
	if len(password) < minPasswordLength {
		return nil, nil, apperrors.New(apperrors.CodeInvalidParam, "password must be at least 8 characters")
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to check email")
	}
	if exists {
		return nil, nil, apperrors.New(apperrors.CodeConflict, "email already registered")
	}

	user := entity.NewUser(email, name)
	if err := user.SetPassword(password); err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to hash password")
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to create user")
	}

	pair, err := s.jwt.GenerateTokenPair(user.ID, string(user.Role), s.accessTTL, s.refreshTTL)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to issue tokens")
	}

	logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, pair, nil
}

// Login verifies credentials and returns the user with a token pair.
func (s *Service) Login(ctx context.Context, email, password string) (*entity.User, *utils.TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load user")
	}
	// Same error for unknown email and bad password.
	if user == nil || !user.CheckPassword(password) {
		return nil, nil, apperrors.New(apperrors.CodeUnauthorized, "invalid email or password")
	}

	pair, err := s.jwt.GenerateTokenPair(user.ID, string(user.Role), s.accessTTL, s.refreshTTL)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to issue tokens")
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Warn(ctx, "failed to record last login", "user_id", user.ID, "error", err)
	}
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*utils.TokenPair, error) {
	claims, err := s.jwt.ParseToken(refreshToken)
	if err != nil {
		if errors.Is(err, utils.ErrExpiredToken) {
			return nil, apperrors.New(apperrors.CodeTokenExpired, "refresh token expired")
		}
		return nil, apperrors.New(apperrors.CodeTokenInvalid, "invalid refresh token")
	}
	if claims.Type != "refresh" {
		return nil, apperrors.New(apperrors.CodeTokenInvalid, "not a refresh token")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load user")
	}
	if user == nil {
		return nil, apperrors.New(apperrors.CodeUserNotFound, "user no longer exists")
	}

	pair, err := s.jwt.GenerateTokenPair(user.ID, string(user.Role), s.accessTTL, s.refreshTTL)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to issue tokens")
	}
	return pair, nil
}

// GetProfile returns a user's account and personalization settings.
func (s *Service) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load user")
	}
	if user == nil {
		return nil, apperrors.New(apperrors.CodeUserNotFound, "user not found")
	}
	return user, nil
}

// ProfileUpdate carries the fields a user may change. Nil fields are
// left untouched.
type ProfileUpdate struct {
	Name              *string
	ExperienceLevel   *entity.ExperienceLevel
	PreferredLanguage *string
	LearningPace      *entity.LearningPace
	CareerGoals       []string
}

// UpdateProfile applies personalization changes to a user.
func (s *Service) UpdateProfile(ctx context.Context, userID string, update *ProfileUpdate) (*entity.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.ExperienceLevel != nil {
		switch *update.ExperienceLevel {
		case entity.ExperienceBeginner, entity.ExperienceIntermediate, entity.ExperienceAdvanced:
			user.ExperienceLevel = *update.ExperienceLevel
		default:
			return nil, apperrors.New(apperrors.CodeInvalidParam, "invalid experience level")
		}
	}
	if update.PreferredLanguage != nil {
		user.PreferredLanguage = strings.ToLower(*update.PreferredLanguage)
	}
	if update.LearningPace != nil {
		switch *update.LearningPace {
		case entity.PaceSlow, entity.PaceNormal, entity.PaceFast:
			user.LearningPace = *update.LearningPace
		default:
			return nil, apperrors.New(apperrors.CodeInvalidParam, "invalid learning pace")
		}
	}
	if update.CareerGoals != nil {
		user.CareerGoals = update.CareerGoals
	}
	user.UpdatedAt = time.Now()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to update user")
	}
	return user, nil
}

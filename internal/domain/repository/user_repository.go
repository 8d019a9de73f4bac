package repository

import (
	"context"

	"textbook-assistant-api/internal/domain/entity"
)

// UserRepository accesses learner accounts.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
	UpdateLastLogin(ctx context.Context, id string) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

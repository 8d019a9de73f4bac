package repository

import (
	"context"

	"textbook-assistant-api/internal/domain/entity"
)

// ModuleRepository accesses curriculum modules.
type ModuleRepository interface {
	Create(ctx context.Context, module *entity.Module) error
	GetByID(ctx context.Context, id string) (*entity.Module, error)
	Update(ctx context.Context, module *entity.Module) error
	Delete(ctx context.Context, id string) error

	// List returns modules ordered by sequence number.
	List(ctx context.Context, pagination Pagination) (*PagedResult[*entity.Module], error)

	// ListBySubject returns modules for one subject ordered by sequence number.
	ListBySubject(ctx context.Context, subject string, pagination Pagination) (*PagedResult[*entity.Module], error)
}

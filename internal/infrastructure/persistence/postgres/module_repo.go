package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"textbook-assistant-api/internal/domain/entity"
	"textbook-assistant-api/internal/domain/repository"
)

// ModuleRepository implements repository.ModuleRepository.
type ModuleRepository struct {
	client *Client
}

func NewModuleRepository(client *Client) *ModuleRepository {
	return &ModuleRepository{client: client}
}

var _ repository.ModuleRepository = (*ModuleRepository)(nil)

func (r *ModuleRepository) Create(ctx context.Context, module *entity.Module) error {
	ctx, span := tracer.Start(ctx, "postgres.ModuleRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(module).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create module: %w", err)
	}
	return nil
}

func (r *ModuleRepository) GetByID(ctx context.Context, id string) (*entity.Module, error) {
	ctx, span := tracer.Start(ctx, "postgres.ModuleRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var module entity.Module
	if err := db.First(&module, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get module: %w", err)
	}
	return &module, nil
}

func (r *ModuleRepository) Update(ctx context.Context, module *entity.Module) error {
	ctx, span := tracer.Start(ctx, "postgres.ModuleRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(module).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update module: %w", err)
	}
	return nil
}

func (r *ModuleRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.ModuleRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.Module{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete module: %w", err)
	}
	return nil
}

func (r *ModuleRepository) List(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.Module], error) {
	return r.list(ctx, "", pagination)
}

func (r *ModuleRepository) ListBySubject(ctx context.Context, subject string, pagination repository.Pagination) (*repository.PagedResult[*entity.Module], error) {
	return r.list(ctx, subject, pagination)
}

func (r *ModuleRepository) list(ctx context.Context, subject string, pagination repository.Pagination) (*repository.PagedResult[*entity.Module], error) {
	ctx, span := tracer.Start(ctx, "postgres.ModuleRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.Module{})
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count modules: %w", err)
	}

	var modules []*entity.Module
	err := query.
		Order("seq_num ASC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&modules).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}

	return repository.NewPagedResult(modules, total, pagination), nil
}

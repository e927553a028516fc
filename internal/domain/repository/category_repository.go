package repository

import (
	"context"

	"foodstore/internal/domain/entity"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]*entity.Category, error)
	Upsert(ctx context.Context, category *entity.Category) error
}

package repository

import (
	"context"

	"foodstore/internal/domain/entity"
)

type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// Page runs a store-native query, reaching q.Skip through a cursor.
	Page(ctx context.Context, q entity.ProductQuery) ([]*entity.Product, error)
	// Count returns the number of documents matching q's filters.
	Count(ctx context.Context, q entity.ProductQuery) (int, error)
	// All returns every document matching q's filters in q's order,
	// ignoring Skip and Limit.
	All(ctx context.Context, q entity.ProductQuery) ([]*entity.Product, error)
	Upsert(ctx context.Context, product *entity.Product) error
	// UpdateReviews applies fn to the stored product inside a transaction
	// and persists the resulting reviews array.
	UpdateReviews(ctx context.Context, id string, fn func(*entity.Product) error) (*entity.Product, error)
}

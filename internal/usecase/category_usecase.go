package usecase

import (
	"context"

	"foodstore/internal/domain/entity"
	"foodstore/internal/domain/repository"
	"foodstore/pkg/logger"
)

type CategoryUseCase struct {
	categoryRepo repository.CategoryRepository
	cache        Cache
}

func NewCategoryUseCase(categoryRepo repository.CategoryRepository, cache Cache) *CategoryUseCase {
	if cache == nil {
		cache = noopCache{}
	}
	return &CategoryUseCase{
		categoryRepo: categoryRepo,
		cache:        cache,
	}
}

func (uc *CategoryUseCase) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	var cached []*entity.Category
	if hit, err := uc.cache.Get(ctx, categoriesCacheKey, &cached); err != nil {
		logger.Warn("category cache read failed: %v", err)
	} else if hit {
		return cached, nil
	}

	categories, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := uc.cache.Set(ctx, categoriesCacheKey, categories); err != nil {
		logger.Warn("category cache write failed: %v", err)
	}
	return categories, nil
}

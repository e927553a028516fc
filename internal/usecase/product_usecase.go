package usecase

import (
	"context"
	"math"
	"strings"

	"foodstore/internal/domain/entity"
	"foodstore/internal/domain/repository"
	"foodstore/pkg/errors"
	"foodstore/pkg/logger"
)

type ProductUseCaseConfig struct {
	DefaultPageSize int
	MaxPageSize     int
	// ExactTotals adds a count query per page. Without it totalItems is
	// the size of the returned page.
	ExactTotals bool
}

type ProductUseCase struct {
	productRepo repository.ProductRepository
	cache       Cache
	cfg         ProductUseCaseConfig
}

func NewProductUseCase(productRepo repository.ProductRepository, cache Cache, cfg ProductUseCaseConfig) *ProductUseCase {
	if cache == nil {
		cache = noopCache{}
	}
	if cfg.DefaultPageSize < 1 {
		cfg.DefaultPageSize = 20
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		cfg.MaxPageSize = cfg.DefaultPageSize
	}
	return &ProductUseCase{
		productRepo: productRepo,
		cache:       cache,
		cfg:         cfg,
	}
}

// maxSkip bounds the documents passed over to reach a page; the store's
// limits are 32-bit.
const maxSkip = math.MaxInt32

// Normalize applies defaults: page below 1 is clamped to 1, a missing
// page size takes the default and an oversized one the maximum. Pages
// whose offset would exceed maxSkip are clamped to the last reachable one.
func (uc *ProductUseCase) Normalize(params entity.QueryParams) entity.QueryParams {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = uc.cfg.DefaultPageSize
	}
	if params.PageSize > uc.cfg.MaxPageSize {
		params.PageSize = uc.cfg.MaxPageSize
	}
	if maxPage := maxSkip/params.PageSize + 1; params.Page > maxPage {
		params.Page = maxPage
	}
	if params.SortDirection != entity.SortDesc {
		params.SortDirection = entity.SortAsc
	}
	if !entity.SortableFields[params.SortField] {
		params.SortField = ""
	}
	if strings.TrimSpace(params.SearchTerm) == "" {
		params.SearchTerm = ""
	}
	return params
}

// Plan translates params into the store-native query for their page.
func (uc *ProductUseCase) Plan(params entity.QueryParams) entity.ProductQuery {
	params = uc.Normalize(params)

	q := entity.ProductQuery{
		Category: params.Category,
		Skip:     (params.Page - 1) * params.PageSize,
		Limit:    params.PageSize,
	}
	if params.SortField != "" {
		q.OrderBy = params.SortField
		q.Direction = params.SortDirection
	}
	return q
}

func (uc *ProductUseCase) ListProducts(ctx context.Context, params entity.QueryParams) (*entity.PageResult[*entity.Product], error) {
	params = uc.Normalize(params)
	q := uc.Plan(params)

	if params.SearchTerm != "" {
		return uc.search(ctx, params, q)
	}

	items, err := uc.productRepo.Page(ctx, q)
	if err != nil {
		return nil, queryFailure(err)
	}

	total := len(items)
	if uc.cfg.ExactTotals {
		if total, err = uc.productRepo.Count(ctx, q); err != nil {
			return nil, queryFailure(err)
		}
	}

	return &entity.PageResult[*entity.Product]{
		Items:       items,
		CurrentPage: params.Page,
		TotalItems:  total,
		TotalPages:  entity.TotalPages(total, params.PageSize),
	}, nil
}

// search is the substring fallback: the store only offers prefix ranges,
// so every document in the category is scanned and the match is paginated
// in memory.
func (uc *ProductUseCase) search(ctx context.Context, params entity.QueryParams, q entity.ProductQuery) (*entity.PageResult[*entity.Product], error) {
	all, err := uc.productRepo.All(ctx, q)
	if err != nil {
		return nil, queryFailure(err)
	}

	needle := strings.ToLower(params.SearchTerm)
	matched := make([]*entity.Product, 0, len(all))
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Title), needle) {
			matched = append(matched, p)
		}
	}

	start := q.Skip
	if start < 0 {
		start = 0
	}
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}

	logger.Debug("search %q in category %q matched %d of %d products", params.SearchTerm, params.Category, len(matched), len(all))

	return &entity.PageResult[*entity.Product]{
		Items:       matched[start:end],
		CurrentPage: params.Page,
		TotalItems:  len(matched),
		TotalPages:  entity.TotalPages(len(matched), params.PageSize),
	}, nil
}

func (uc *ProductUseCase) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.NotFound("Product", nil)
	}

	var cached entity.Product
	if hit, err := uc.cache.Get(ctx, productCacheKey(id), &cached); err != nil {
		logger.Warn("product cache read failed for %s: %v", id, err)
	} else if hit {
		return &cached, nil
	}

	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := uc.cache.Set(ctx, productCacheKey(id), product); err != nil {
		logger.Warn("product cache write failed for %s: %v", id, err)
	}

	return product, nil
}

// queryFailure keeps classified errors and wraps anything else. A
// malformed stored document is a server-side fault on a listing.
func queryFailure(err error) error {
	if appErr, ok := errors.As(err); ok {
		if appErr.Code == errors.CodeValidation {
			return errors.QueryFailure("Failed to fetch products", err)
		}
		return err
	}
	return errors.QueryFailure("Failed to fetch products", err)
}

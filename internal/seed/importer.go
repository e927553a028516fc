package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"foodstore/internal/domain/entity"
	"foodstore/internal/domain/repository"
	"foodstore/pkg/logger"
)

// ImageMirror copies an image URL into owned storage.
type ImageMirror interface {
	Mirror(ctx context.Context, productID, url string) (string, error)
}

type Importer struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	mirror     ImageMirror
	newID      func() string
}

// NewImporter builds an importer; mirror may be nil to keep source URLs.
func NewImporter(products repository.ProductRepository, categories repository.CategoryRepository, mirror ImageMirror) *Importer {
	return &Importer{
		products:   products,
		categories: categories,
		mirror:     mirror,
		newID:      uuid.NewString,
	}
}

type Summary struct {
	Categories int
	Products   int
	Reviews    int
	Images     int
}

// Import validates the whole catalog before writing anything.
func (im *Importer) Import(ctx context.Context, c *Catalog) (*Summary, error) {
	categories := make([]*entity.Category, 0, len(c.Categories))
	for _, rec := range c.Categories {
		cat, err := rec.Entity()
		if err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}

	products := make([]*entity.Product, 0, len(c.Products))
	for _, rec := range c.Products {
		p, err := rec.Entity(im.newID)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	sum := &Summary{}
	for _, cat := range categories {
		if err := im.categories.Upsert(ctx, cat); err != nil {
			return sum, fmt.Errorf("upsert category %s: %w", cat.ID, err)
		}
		sum.Categories++
	}

	for _, p := range products {
		if p.ID == "" {
			p.ID = im.newID()
		}
		n, err := im.mirrorImages(ctx, p)
		if err != nil {
			return sum, err
		}
		sum.Images += n

		if err := im.products.Upsert(ctx, p); err != nil {
			return sum, fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
		sum.Products++
		sum.Reviews += len(p.Reviews)
		logger.Debug("Imported product %s (%s)", p.ID, p.Title)
	}

	return sum, nil
}

func (im *Importer) mirrorImages(ctx context.Context, p *entity.Product) (int, error) {
	if im.mirror == nil {
		return 0, nil
	}

	copied := 0
	for i, src := range p.Images {
		dst, err := im.mirror.Mirror(ctx, p.ID, src)
		if err != nil {
			return copied, fmt.Errorf("mirror image for product %s: %w", p.ID, err)
		}
		p.Images[i] = dst
		copied++
	}
	if p.Thumbnail != "" {
		dst, err := im.mirror.Mirror(ctx, p.ID, p.Thumbnail)
		if err != nil {
			return copied, fmt.Errorf("mirror thumbnail for product %s: %w", p.ID, err)
		}
		p.Thumbnail = dst
		copied++
	}
	return copied, nil
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"foodstore/internal/domain/entity"
	"foodstore/internal/domain/repository"
	"foodstore/pkg/errors"
	"foodstore/pkg/logger"
)

// ReviewUseCase maintains the reviews array embedded in product documents.
// New reviews are appended, so persisted order is oldest first.
type ReviewUseCase struct {
	productRepo repository.ProductRepository
	cache       Cache
	publisher   ReviewPublisher
	now         func() time.Time
	newID       func() string
}

func NewReviewUseCase(productRepo repository.ProductRepository, cache Cache, publisher ReviewPublisher) *ReviewUseCase {
	if cache == nil {
		cache = noopCache{}
	}
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &ReviewUseCase{
		productRepo: productRepo,
		cache:       cache,
		publisher:   publisher,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       func() string { return uuid.New().String() },
	}
}

type AddReviewInput struct {
	ReviewerName string
	Rating       int
	Comment      string
}

type EditReviewInput struct {
	Rating  int
	Comment string
}

type DeleteReviewsResult struct {
	Product *entity.Product
	Removed int
}

// AddReview appends a review. authorID may be empty for anonymous
// reviewers; such reviews can never be edited or deleted.
func (uc *ReviewUseCase) AddReview(ctx context.Context, productID, authorID string, input AddReviewInput) (*entity.Product, error) {
	if !entity.ValidRating(input.Rating) {
		return nil, errors.Validation(fmt.Sprintf("Rating must be between %d and %d", entity.MinRating, entity.MaxRating), nil)
	}
	name := strings.TrimSpace(input.ReviewerName)
	if name == "" {
		return nil, errors.Validation("Reviewer name is required", nil)
	}

	review := entity.Review{
		ID:           uc.newID(),
		ReviewerName: name,
		Rating:       input.Rating,
		Comment:      input.Comment,
		Date:         uc.now(),
		AuthorID:     authorID,
	}

	product, err := uc.productRepo.UpdateReviews(ctx, productID, func(p *entity.Product) error {
		p.Reviews = append(p.Reviews, review)
		return nil
	})
	if err != nil {
		return nil, storeFailure("Failed to add review", err)
	}

	uc.afterMutation(ctx, entity.ReviewAdded, productID, []entity.Review{review})
	return product, nil
}

// EditReview overwrites rating, comment and date of a review owned by
// authorID. Identifier and author never change.
func (uc *ReviewUseCase) EditReview(ctx context.Context, productID, reviewID, authorID string, input EditReviewInput) (*entity.Review, error) {
	if authorID == "" {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	if !entity.ValidRating(input.Rating) {
		return nil, errors.Validation(fmt.Sprintf("Rating must be between %d and %d", entity.MinRating, entity.MaxRating), nil)
	}

	var edited entity.Review
	_, err := uc.productRepo.UpdateReviews(ctx, productID, func(p *entity.Product) error {
		idx := p.ReviewIndex(reviewID)
		if reviewID == "" || idx < 0 {
			return errors.NotFound("Review", nil)
		}

		r := &p.Reviews[idx]
		if r.AuthorID == "" || r.AuthorID != authorID {
			return errors.Forbidden("You can only edit your own reviews", nil)
		}

		r.Rating = input.Rating
		r.Comment = input.Comment
		r.Date = uc.now()
		edited = *r
		return nil
	})
	if err != nil {
		return nil, storeFailure("Failed to update review", err)
	}

	uc.afterMutation(ctx, entity.ReviewUpdated, productID, []entity.Review{edited})
	return &edited, nil
}

// DeleteReviewsByAuthor removes every review on the product written by
// authorID.
func (uc *ReviewUseCase) DeleteReviewsByAuthor(ctx context.Context, productID, authorID string) (*DeleteReviewsResult, error) {
	if authorID == "" {
		return nil, errors.Unauthorized("Authentication required", nil)
	}

	var removed []entity.Review
	product, err := uc.productRepo.UpdateReviews(ctx, productID, func(p *entity.Product) error {
		removed = removed[:0]
		kept := make([]entity.Review, 0, len(p.Reviews))
		for _, r := range p.Reviews {
			if r.AuthorID == authorID {
				removed = append(removed, r)
				continue
			}
			kept = append(kept, r)
		}
		p.Reviews = kept
		return nil
	})
	if err != nil {
		return nil, storeFailure("Failed to delete reviews", err)
	}

	if len(removed) > 0 {
		uc.afterMutation(ctx, entity.ReviewDeleted, productID, removed)
	}

	return &DeleteReviewsResult{
		Product: product,
		Removed: len(removed),
	}, nil
}

func (uc *ReviewUseCase) afterMutation(ctx context.Context, kind, productID string, reviews []entity.Review) {
	if err := uc.cache.Delete(ctx, productCacheKey(productID)); err != nil {
		logger.Warn("product cache invalidation failed for %s: %v", productID, err)
	}

	uc.publisher.Publish(entity.ReviewEvent{
		Type:      kind,
		ProductID: productID,
		Reviews:   reviews,
		At:        uc.now(),
	})
}

func storeFailure(message string, err error) error {
	if _, ok := errors.As(err); ok {
		return err
	}
	return errors.StoreFailure(message, err)
}

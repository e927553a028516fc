package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"foodstore/internal/session"
	"foodstore/internal/usecase"
	"foodstore/pkg/errors"
	"foodstore/pkg/response"
)

type ReviewHandler struct {
	reviewUseCase *usecase.ReviewUseCase
}

func NewReviewHandler(reviewUseCase *usecase.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{
		reviewUseCase: reviewUseCase,
	}
}

type addReviewRequest struct {
	ReviewerName string `json:"reviewerName" validate:"required"`
	Rating       int    `json:"rating" validate:"required"`
	Comment      string `json:"comment" validate:"required"`
}

type updateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required"`
	Comment string `json:"comment" validate:"required"`
}

// AddReview accepts anonymous reviews; a valid bearer token records the
// caller as the author.
func (h *ReviewHandler) AddReview(c echo.Context) error {
	var req addReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.Validation("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, errors.Validation("All fields are required", err))
	}

	product, err := h.reviewUseCase.AddReview(c.Request().Context(), c.Param("id"), session.UID(c), usecase.AddReviewInput{
		ReviewerName: req.ReviewerName,
		Rating:       req.Rating,
		Comment:      req.Comment,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, product)
}

func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	var req updateReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.Validation("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, errors.Validation("Rating and comment are required", err))
	}

	review, err := h.reviewUseCase.EditReview(c.Request().Context(), c.Param("id"), c.Param("reviewId"), session.UID(c), usecase.EditReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Review updated successfully",
		"review":  review,
	})
}

// DeleteReviews removes every review the caller wrote on the product.
func (h *ReviewHandler) DeleteReviews(c echo.Context) error {
	result, err := h.reviewUseCase.DeleteReviewsByAuthor(c.Request().Context(), c.Param("id"), session.UID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Reviews deleted successfully",
		"removed": result.Removed,
		"product": result.Product,
	})
}

package handler

import (
	"github.com/labstack/echo/v4"

	"foodstore/internal/domain/entity"
	"foodstore/internal/usecase"
	"foodstore/pkg/response"
)

type CategoryHandler struct {
	categoryUseCase *usecase.CategoryUseCase
}

func NewCategoryHandler(categoryUseCase *usecase.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{
		categoryUseCase: categoryUseCase,
	}
}

func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.categoryUseCase.ListCategories(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	if categories == nil {
		categories = []*entity.Category{}
	}

	return response.Success(c, categories)
}

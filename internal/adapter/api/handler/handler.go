package handler

import (
	"foodstore/internal/infrastructure/websocket"
	"foodstore/internal/usecase"
)

var (
	authHandler     *AuthHandler
	productHandler  *ProductHandler
	reviewHandler   *ReviewHandler
	categoryHandler *CategoryHandler
	feedHandler     *ReviewFeedHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	productUseCase *usecase.ProductUseCase,
	reviewUseCase *usecase.ReviewUseCase,
	categoryUseCase *usecase.CategoryUseCase,
	hub *websocket.Hub,
) {
	authHandler = NewAuthHandler(authUseCase)
	productHandler = NewProductHandler(productUseCase)
	reviewHandler = NewReviewHandler(reviewUseCase)
	categoryHandler = NewCategoryHandler(categoryUseCase)
	feedHandler = NewReviewFeedHandler(hub)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetProductHandler() *ProductHandler {
	return productHandler
}

func GetReviewHandler() *ReviewHandler {
	return reviewHandler
}

func GetCategoryHandler() *CategoryHandler {
	return categoryHandler
}

func GetReviewFeedHandler() *ReviewFeedHandler {
	return feedHandler
}

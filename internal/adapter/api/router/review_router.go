package router

import (
	"github.com/labstack/echo/v4"

	"foodstore/internal/adapter/api/handler"
	"foodstore/internal/adapter/api/middleware"
)

func SetupReviewRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	reviewHandler := handler.GetReviewHandler()
	feedHandler := handler.GetReviewFeedHandler()

	reviews := api.Group("/products/:id/reviews")
	reviews.POST("", reviewHandler.AddReview, authMiddleware.Optional)
	reviews.PUT("/:reviewId", reviewHandler.UpdateReview, authMiddleware.Authenticate)
	reviews.DELETE("", reviewHandler.DeleteReviews, authMiddleware.Authenticate)
	reviews.GET("/live", feedHandler.LiveReviews)
}

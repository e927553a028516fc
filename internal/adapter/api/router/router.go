package router

import (
	"github.com/labstack/echo/v4"

	"foodstore/internal/adapter/api/middleware"
)

// Options tunes route registration.
type Options struct {
	// AuthRateLimit is the per-IP request rate for sign-up and log-in.
	// Zero disables throttling.
	AuthRateLimit float64
}

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, opts Options) {
	api := e.Group("/api")
	SetupProductRouter(api)
	SetupReviewRouter(api, authMiddleware)
	SetupCategoryRouter(api)
	SetupAuthRouter(api, opts.AuthRateLimit)
	SetupHealthRouter(e)
}

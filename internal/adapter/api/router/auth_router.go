package router

import (
	"github.com/labstack/echo/v4"

	"foodstore/internal/adapter/api/handler"
	"foodstore/internal/adapter/api/middleware"
)

func SetupAuthRouter(api *echo.Group, ratePerSecond float64) {
	authHandler := handler.GetAuthHandler()

	auth := api.Group("/logPage")
	if ratePerSecond > 0 {
		auth.Use(middleware.RateLimit(ratePerSecond))
	}
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
}

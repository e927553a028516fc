package router

import (
	"github.com/labstack/echo/v4"

	"foodstore/internal/adapter/api/handler"
)

func SetupCategoryRouter(api *echo.Group) {
	api.GET("/categories", handler.GetCategoryHandler().ListCategories)
}

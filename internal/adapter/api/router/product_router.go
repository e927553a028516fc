package router

import (
	"github.com/labstack/echo/v4"

	"foodstore/internal/adapter/api/handler"
)

func SetupProductRouter(api *echo.Group) {
	productHandler := handler.GetProductHandler()

	products := api.Group("/products")
	products.GET("", productHandler.ListProducts)
	products.GET("/:id", productHandler.GetProduct)
}

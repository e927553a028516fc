package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"foodstore/internal/domain/entity"
	"foodstore/internal/usecase"
	"foodstore/pkg/response"
	"foodstore/pkg/utils"
)

type ProductHandler struct {
	productUseCase *usecase.ProductUseCase
}

func NewProductHandler(productUseCase *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{
		productUseCase: productUseCase,
	}
}

// ListProducts serves one page of the catalog.
//
//	GET /api/products?page=&limit=&category=&search=&sortBy=&order=&seq=
func (h *ProductHandler) ListProducts(c echo.Context) error {
	params := entity.QueryParams{
		Page:          utils.QueryInt(c, "page"),
		PageSize:      utils.QueryInt(c, "limit"),
		Category:      strings.TrimSpace(c.QueryParam("category")),
		SearchTerm:    c.QueryParam("search"),
		SortField:     strings.TrimSpace(c.QueryParam("sortBy")),
		SortDirection: strings.ToLower(strings.TrimSpace(c.QueryParam("order"))),
	}

	page, err := h.productUseCase.ListProducts(c.Request().Context(), params)
	if err != nil {
		return response.Error(c, err)
	}

	products := page.Items
	if products == nil {
		products = []*entity.Product{}
	}

	return response.ProductPage(c, products, page.CurrentPage, page.TotalItems, page.TotalPages, utils.RequestSeq(c, response.SeqHeader))
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	product, err := h.productUseCase.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

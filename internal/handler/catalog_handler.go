package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"kletos/internal/model"
	"kletos/internal/service"
)

// CatalogHandler serves product listings.
type CatalogHandler struct {
	svc service.CatalogService
}

// NewCatalogHandler creates a handler layer.
func NewCatalogHandler(svc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// ProductListResponse is a product listing, optionally for one category.
type ProductListResponse struct {
	Products []model.Product `json:"products"`
	Category string          `json:"category,omitempty"`
}

// ProductResponse wraps a single product.
type ProductResponse struct {
	Product *model.Product `json:"product"`
}

// CategoriesResponse lists product categories.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// ListProducts godoc
// @Summary List products
// @Tags catalog
// @Produce json
// @Param category query string false "Only products in this category"
// @Success 200 {object} ProductListResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products [get]
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	category := c.QueryParam("category")
	products, err := h.svc.ListProducts(c.Request().Context(), category)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, ProductListResponse{Products: products, Category: category})
}

// GetProduct godoc
// @Summary Get product by id
// @Tags catalog
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [get]
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return badRequest("invalid id")
	}
	product, err := h.svc.GetProduct(c.Request().Context(), uint(id))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, ProductResponse{Product: product})
}

// ListCategories godoc
// @Summary List product categories
// @Tags catalog
// @Produce json
// @Success 200 {object} CategoriesResponse
// @Router /categories [get]
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.svc.Categories(c.Request().Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, CategoriesResponse{Categories: categories})
}

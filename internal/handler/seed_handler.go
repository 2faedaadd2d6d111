package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"kletos/internal/service"
)

// SeedHandler handles seed data endpoints.
type SeedHandler struct {
	catalogService service.CatalogService
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(catalogService service.CatalogService) *SeedHandler {
	return &SeedHandler{catalogService: catalogService}
}

// SeedProductsResponse represents the seed response.
type SeedProductsResponse struct {
	Message string `json:"message"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
}

// SeedProducts godoc
// @Summary Seed the sample product catalog
// @Tags seed
// @Produce json
// @Success 200 {object} SeedProductsResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /seed/products [post]
func (h *SeedHandler) SeedProducts(c echo.Context) error {
	created, updated, err := h.catalogService.SeedProducts(c.Request().Context(), service.DefaultCatalog())
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, SeedProductsResponse{
		Message: "Products seeded successfully",
		Created: created,
		Updated: updated,
	})
}

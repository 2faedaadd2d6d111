package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// Hero is the storefront banner.
type Hero struct {
	Image      string `json:"image"`
	Text       string `json:"text"`
	ButtonText string `json:"button_text"`
	ButtonLink string `json:"button_link"`
}

// FooterLink is a navigation link in the footer.
type FooterLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// FooterContact is the support contact block.
type FooterContact struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Footer is the storefront footer.
type Footer struct {
	About   string        `json:"about"`
	Links   []FooterLink  `json:"links"`
	Contact FooterContact `json:"contact"`
}

// FeaturedProduct is a product card in the featured strip.
type FeaturedProduct struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Image string          `json:"image"`
	Price decimal.Decimal `json:"price"`
}

// HighlightedProduct is the single product promoted on the landing page.
type HighlightedProduct struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Price       decimal.Decimal `json:"price"`
}

// MessageResponse carries page copy.
type MessageResponse struct {
	Message string `json:"message"`
}

var (
	storefrontHero = Hero{
		Image:      "banner_image_url",
		Text:       "Kletos: Jewelry for Every Chapter",
		ButtonText: "Learn More",
		ButtonLink: "/learn-more",
	}

	storefrontFooter = Footer{
		About: "Find pieces that shimmer and radiate confidence just like you.",
		Links: []FooterLink{
			{Name: "Home", URL: "/home"},
			{Name: "Products", URL: "/products"},
		},
		Contact: FooterContact{
			Email:   "support@kletos.com",
			Phone:   "+1234567890",
			Address: "1234 Kletos St Jewelry City 56789",
		},
	}

	storefrontFeatured = []FeaturedProduct{
		{ID: 1, Name: "Featured Product 1", Image: "image_url", Price: decimal.NewFromInt(120)},
	}

	storefrontHighlighted = HighlightedProduct{
		ID:          2,
		Name:        "Highlighted Product",
		Description: "This is the main highlighted product.",
		Image:       "highlighted_image_url",
		Price:       decimal.NewFromInt(150),
	}
)

// ContentHandler serves static storefront copy.
type ContentHandler struct{}

// NewContentHandler creates a content handler.
func NewContentHandler() *ContentHandler {
	return &ContentHandler{}
}

// Home godoc
// @Summary Home page content
// @Tags content
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /home [get]
func (h *ContentHandler) Home(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: "Home page content"})
}

// About godoc
// @Summary About page content
// @Tags content
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /about [get]
func (h *ContentHandler) About(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: "About page content"})
}

// Contact godoc
// @Summary Contact page content
// @Tags content
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /contact [get]
func (h *ContentHandler) Contact(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: "Contact page content"})
}

// HeroContent godoc
// @Summary Hero banner
// @Tags content
// @Produce json
// @Success 200 {object} map[string]Hero
// @Router /hero-content [get]
func (h *ContentHandler) HeroContent(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]Hero{"hero": storefrontHero})
}

// FeaturedProducts godoc
// @Summary Featured products strip
// @Tags content
// @Produce json
// @Success 200 {object} map[string][]FeaturedProduct
// @Router /featured-products [get]
func (h *ContentHandler) FeaturedProducts(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]FeaturedProduct{"featured_products": storefrontFeatured})
}

// HighlightedProduct godoc
// @Summary Highlighted product
// @Tags content
// @Produce json
// @Success 200 {object} map[string]HighlightedProduct
// @Router /highlighted-product [get]
func (h *ContentHandler) HighlightedProduct(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]HighlightedProduct{"highlighted_product": storefrontHighlighted})
}

// FooterContent godoc
// @Summary Footer content
// @Tags content
// @Produce json
// @Success 200 {object} map[string]Footer
// @Router /footer-content [get]
func (h *ContentHandler) FooterContent(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]Footer{"footer": storefrontFooter})
}

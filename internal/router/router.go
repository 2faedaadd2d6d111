package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"kletos/docs"
	"kletos/internal/auth"
	"kletos/internal/config"
	"kletos/internal/handler"
)

// Handlers groups everything Register mounts.
type Handlers struct {
	Registration *handler.RegistrationHandler
	Auth         *handler.AuthHandler
	Profile      *handler.ProfileHandler
	Catalog      *handler.CatalogHandler
	Content      *handler.ContentHandler
	Seed         *handler.SeedHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	h Handlers,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = NewValidator()

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Registration
	api.POST("/signup", h.Registration.Signup)
	api.POST("/merchant_signup", h.Registration.MerchantSignup)

	// Auth
	api.POST("/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)

	// Catalog
	api.GET("/products", h.Catalog.ListProducts)
	api.GET("/products/:id", h.Catalog.GetProduct)
	api.GET("/categories", h.Catalog.ListCategories)
	api.POST("/seed/products", h.Seed.SeedProducts)

	// Storefront content
	api.GET("/home", h.Content.Home)
	api.GET("/about", h.Content.About)
	api.GET("/contact", h.Content.Contact)
	api.GET("/hero-content", h.Content.HeroContent)
	api.GET("/featured-products", h.Content.FeaturedProducts)
	api.GET("/highlighted-product", h.Content.HighlightedProduct)
	api.GET("/footer-content", h.Content.FooterContent)

	// Secured routes (require a live access token)
	secured := api.Group("", auth.JWTMiddleware(jwtService), auth.RequireAccessToken(tokenStore))
	secured.GET("/profile", h.Profile.GetProfile)
	secured.POST("/logout", h.Auth.Logout)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the validator used for request bodies.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

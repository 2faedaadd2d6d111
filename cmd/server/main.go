package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"kletos/internal/auth"
	"kletos/internal/cache"
	"kletos/internal/config"
	"kletos/internal/handler"
	"kletos/internal/router"
	"kletos/internal/service"
	"kletos/internal/store"
)

// @title Kletos Storefront API
// @version 1.0
// @description Customer and merchant registration, login and product catalog for the Kletos jewelry storefront.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.WithField("level", cfg.LogLevel).Warn("unknown LOG_LEVEL, using info")
	}

	stores, err := store.Open(cfg)
	if err != nil {
		logrus.Fatalf("store init: %v", err)
	}
	defer stores.Close()

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		// Tokens and cached reads degrade, registration still works.
		logrus.WithError(err).Warn("redis unavailable, continuing without cache")
	}
	cancelPing()

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	registrationService := service.NewRegistrationService(stores.Accounts, cfg.PhoneCountryPrefix)
	authService := service.NewAuthService(stores.Accounts, jwtService, tokenStore, cfg.PhoneCountryPrefix)
	profileService := service.NewProfileService(stores.Accounts, cacheClient)
	catalogService := service.NewCatalogService(stores.Products, cacheClient)

	e := echo.New()
	e.HideBanner = true

	// Register routes
	router.Register(e, cfg, jwtService, tokenStore, router.Handlers{
		Registration: handler.NewRegistrationHandler(registrationService),
		Auth:         handler.NewAuthHandler(authService),
		Profile:      handler.NewProfileHandler(profileService),
		Catalog:      handler.NewCatalogHandler(catalogService),
		Content:      handler.NewContentHandler(),
		Seed:         handler.NewSeedHandler(catalogService),
	})

	logrus.Infof("Swagger documentation available at: %s", swaggerURL(cfg.SwaggerHost))

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		logrus.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("server shutdown")
		}
	}()

	addr := ":" + cfg.ServerPort
	logrus.WithFields(logrus.Fields{"addr": addr, "store": cfg.StoreDriver}).Info("server starting")
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		logrus.Fatalf("server start: %v", err)
	}
}

// swaggerURL returns where the Swagger UI is served. host may already carry a scheme.
func swaggerURL(host string) string {
	switch {
	case host == "":
		// docker-compose maps the container port to 5000
		return "http://localhost:5000/swagger/index.html"
	case strings.HasPrefix(host, "http://"), strings.HasPrefix(host, "https://"):
		return host + "/swagger/index.html"
	default:
		return "http://" + host + "/swagger/index.html"
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"kletos/internal/cache"
	apperrors "kletos/internal/errors"
	"kletos/internal/model"
	"kletos/internal/repository"
)

const catalogCacheTTL = 10 * time.Minute

const (
	cacheKeyAllProducts = "catalog:products"
	cacheKeyCategories  = "catalog:categories"
)

// CatalogService exposes read access to the product catalog and seeding.
type CatalogService interface {
	// ListProducts returns every product, or only those in category when it is non-empty.
	ListProducts(ctx context.Context, category string) ([]model.Product, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	Categories(ctx context.Context) ([]string, error)
	// SeedProducts creates products that do not exist by name and updates the rest.
	SeedProducts(ctx context.Context, products []model.Product) (created int, updated int, err error)
}

type catalogService struct {
	repo  repository.ProductRepository
	cache *cache.Client
}

// NewCatalogService builds a CatalogService with repository and cache.
func NewCatalogService(repo repository.ProductRepository, cache *cache.Client) CatalogService {
	return &catalogService{repo: repo, cache: cache}
}

// DefaultCatalog is the sample catalog loaded by the seed endpoint and command.
func DefaultCatalog() []model.Product {
	return []model.Product{
		{Name: "Product 1", Category: "Necklace", Image: "image_url_1", Price: decimal.NewFromInt(100)},
		{Name: "Product 2", Category: "Bracelet", Image: "image_url_2", Price: decimal.NewFromInt(50)},
		{Name: "Product 3", Category: "Rings", Image: "image_url_3", Price: decimal.RequireFromString("75.50")},
		{Name: "Product 4", Category: "Earrings", Image: "image_url_4", Price: decimal.RequireFromString("42.99")},
	}
}

func categoryCacheKey(category string) string {
	return fmt.Sprintf("catalog:products:%s", strings.ToLower(category))
}

func productCacheKey(id uint) string {
	return fmt.Sprintf("catalog:product:%d", id)
}

func (s *catalogService) ListProducts(ctx context.Context, category string) ([]model.Product, error) {
	category = strings.TrimSpace(category)
	key := cacheKeyAllProducts
	if category != "" {
		key = categoryCacheKey(category)
	}

	var cached []model.Product
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	var (
		products []model.Product
		err      error
	)
	if category == "" {
		products, err = s.repo.List(ctx)
	} else {
		products, err = s.repo.ListByCategory(ctx, category)
	}
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	_ = s.cache.SetJSON(ctx, key, products, catalogCacheTTL)
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	var cached model.Product
	if s.cache.GetJSON(ctx, productCacheKey(id), &cached) {
		return &cached, nil
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	_ = s.cache.SetJSON(ctx, productCacheKey(id), product, catalogCacheTTL)
	return product, nil
}

func (s *catalogService) Categories(ctx context.Context) ([]string, error) {
	var cached []string
	if s.cache.GetJSON(ctx, cacheKeyCategories, &cached) {
		return cached, nil
	}

	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	_ = s.cache.SetJSON(ctx, cacheKeyCategories, categories, catalogCacheTTL)
	return categories, nil
}

func (s *catalogService) SeedProducts(ctx context.Context, products []model.Product) (created int, updated int, err error) {
	// Every category touched, old and new, loses its cached listing.
	stale := []string{cacheKeyAllProducts, cacheKeyCategories}
	defer func() {
		_ = s.cache.Delete(ctx, stale...)
	}()

	for _, product := range products {
		product := product
		if !product.Price.IsPositive() {
			return created, updated, fmt.Errorf("product %q: price must be positive", product.Name)
		}

		existing, err := s.repo.FindByName(ctx, product.Name)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return created, updated, fmt.Errorf("error checking product %q: %w", product.Name, err)
		}

		if existing != nil {
			stale = append(stale, categoryCacheKey(existing.Category), productCacheKey(existing.ID))
			existing.Category = product.Category
			existing.Image = product.Image
			existing.Price = product.Price
			if err := s.repo.Update(ctx, existing); err != nil {
				return created, updated, fmt.Errorf("error updating product %q: %w", product.Name, err)
			}
			stale = append(stale, categoryCacheKey(existing.Category))
			updated++
			continue
		}

		if err := s.repo.Create(ctx, &product); err != nil {
			return created, updated, fmt.Errorf("error creating product %q: %w", product.Name, err)
		}
		stale = append(stale, categoryCacheKey(product.Category), productCacheKey(product.ID))
		created++
	}

	logrus.WithFields(logrus.Fields{"created": created, "updated": updated}).Info("catalog seeded")
	return created, updated, nil
}

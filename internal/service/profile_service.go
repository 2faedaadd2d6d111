package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kletos/internal/cache"
	"kletos/internal/model"
	"kletos/internal/repository"
)

const profileCacheTTL = 5 * time.Minute

// ProfileService exposes read access to registered accounts.
type ProfileService interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*model.Account, error)
}

type profileService struct {
	repo  repository.AccountRepository
	cache *cache.Client
}

// NewProfileService builds a ProfileService with repository and cache.
func NewProfileService(repo repository.AccountRepository, cache *cache.Client) ProfileService {
	return &profileService{repo: repo, cache: cache}
}

func (s *profileService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("account:%s", id)
}

// GetProfile returns the account, from cache when possible. Accounts are never
// updated, so entries only expire.
func (s *profileService) GetProfile(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	var cached model.Account
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	_ = s.cache.SetJSON(ctx, s.cacheKey(id), account, profileCacheTTL)
	return account, nil
}

package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "kletos/internal/errors"
	"kletos/internal/model"
)

// memoryAccountRepository keeps accounts in maps. Keys are case-folded the way
// the MySQL default collation compares unique columns.
type memoryAccountRepository struct {
	mu         sync.RWMutex
	accounts   map[uuid.UUID]*model.Account
	byEmail    map[string]uuid.UUID
	byUsername map[string]uuid.UUID
	byPhone    map[string]uuid.UUID
	byBusiness map[string]uuid.UUID
}

// NewMemoryAccountRepository creates an in-memory account repository.
func NewMemoryAccountRepository() AccountRepository {
	return &memoryAccountRepository{
		accounts:   make(map[uuid.UUID]*model.Account),
		byEmail:    make(map[string]uuid.UUID),
		byUsername: make(map[string]uuid.UUID),
		byPhone:    make(map[string]uuid.UUID),
		byBusiness: make(map[string]uuid.UUID),
	}
}

func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Insert checks every unique key and stores the account under one lock.
func (r *memoryAccountRepository) Insert(ctx context.Context, account *model.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[foldKey(account.Email)]; ok {
		return apperrors.ErrDuplicateAccount
	}
	if _, ok := r.byUsername[foldKey(account.Username)]; ok {
		return apperrors.ErrDuplicateAccount
	}
	if _, ok := r.byPhone[account.Phone]; ok {
		return apperrors.ErrDuplicateAccount
	}
	if account.MerchantProfile != nil {
		if _, ok := r.byBusiness[foldKey(account.MerchantProfile.BusinessName)]; ok {
			return apperrors.ErrDuplicateAccount
		}
	}

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	now := time.Now()
	account.CreatedAt, account.UpdatedAt = now, now
	if account.MerchantProfile != nil {
		account.MerchantProfile.AccountID = account.ID
		account.MerchantProfile.CreatedAt, account.MerchantProfile.UpdatedAt = now, now
	}

	r.accounts[account.ID] = cloneAccount(account)
	r.byEmail[foldKey(account.Email)] = account.ID
	r.byUsername[foldKey(account.Username)] = account.ID
	r.byPhone[account.Phone] = account.ID
	if account.MerchantProfile != nil {
		r.byBusiness[foldKey(account.MerchantProfile.BusinessName)] = account.ID
	}
	return nil
}

func (r *memoryAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(id)
}

func (r *memoryAccountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[foldKey(email)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return r.lookup(id)
}

func (r *memoryAccountRepository) FindByLogin(ctx context.Context, identifier string) (*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id, ok := r.byEmail[foldKey(identifier)]; ok {
		return r.lookup(id)
	}
	if id, ok := r.byUsername[foldKey(identifier)]; ok {
		return r.lookup(id)
	}
	if id, ok := r.byPhone[identifier]; ok {
		return r.lookup(id)
	}
	return nil, apperrors.ErrNotFound
}

// lookup must be called with r.mu held.
func (r *memoryAccountRepository) lookup(id uuid.UUID) (*model.Account, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return cloneAccount(account), nil
}

func cloneAccount(a *model.Account) *model.Account {
	out := *a
	if a.MerchantProfile != nil {
		profile := *a.MerchantProfile
		profile.BusinessLicense = append([]byte(nil), a.MerchantProfile.BusinessLicense...)
		profile.IDProof = append([]byte(nil), a.MerchantProfile.IDProof...)
		out.MerchantProfile = &profile
	}
	return &out
}

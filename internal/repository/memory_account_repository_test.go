package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "kletos/internal/errors"
	"kletos/internal/model"
)

func newCustomer(username, email, phone string) *model.Account {
	return &model.Account{
		Username:     username,
		Email:        email,
		Phone:        phone,
		PasswordHash: "hash",
		Role:         model.RoleCustomer,
	}
}

func TestMemoryAccountRepository_InsertAndFind(t *testing.T) {
	repo := NewMemoryAccountRepository()
	ctx := context.Background()

	account := newCustomer("jane", "jane@example.com", "+254712345678")
	require.NoError(t, repo.Insert(ctx, account))
	assert.NotEqual(t, uuid.Nil, account.ID)
	assert.False(t, account.CreatedAt.IsZero())

	byEmail, err := repo.FindByEmail(ctx, "JANE@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byEmail.ID)

	byID, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane", byID.Username)

	for _, identifier := range []string{"jane@example.com", "Jane", "+254712345678"} {
		found, err := repo.FindByLogin(ctx, identifier)
		require.NoError(t, err, identifier)
		assert.Equal(t, account.ID, found.ID, identifier)
	}
}

func TestMemoryAccountRepository_NotFound(t *testing.T) {
	repo := NewMemoryAccountRepository()
	ctx := context.Background()

	_, err := repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = repo.FindByLogin(ctx, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMemoryAccountRepository_UniqueKeys(t *testing.T) {
	tests := []struct {
		name   string
		second *model.Account
	}{
		{"same email", newCustomer("other", "jane@example.com", "+254700000001")},
		{"same email different case", newCustomer("other", "Jane@Example.com", "+254700000001")},
		{"same username", newCustomer("JANE", "other@example.com", "+254700000001")},
		{"same phone", newCustomer("other", "other@example.com", "+254712345678")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMemoryAccountRepository()
			ctx := context.Background()
			require.NoError(t, repo.Insert(ctx, newCustomer("jane", "jane@example.com", "+254712345678")))

			err := repo.Insert(ctx, tt.second)
			assert.ErrorIs(t, err, apperrors.ErrDuplicateAccount)
		})
	}
}

func TestMemoryAccountRepository_UniqueBusinessName(t *testing.T) {
	repo := NewMemoryAccountRepository()
	ctx := context.Background()

	first := newCustomer("shop1", "shop1@example.com", "+254700000001")
	first.Role = model.RoleMerchant
	first.MerchantProfile = &model.MerchantProfile{BusinessName: "Gold Corner", BusinessLicense: []byte("pdf")}
	require.NoError(t, repo.Insert(ctx, first))
	assert.Equal(t, first.ID, first.MerchantProfile.AccountID)

	second := newCustomer("shop2", "shop2@example.com", "+254700000002")
	second.Role = model.RoleMerchant
	second.MerchantProfile = &model.MerchantProfile{BusinessName: "gold corner"}
	assert.ErrorIs(t, repo.Insert(ctx, second), apperrors.ErrDuplicateAccount)

	// A rejected insert must not leave partial index entries behind.
	_, err := repo.FindByEmail(ctx, "shop2@example.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMemoryAccountRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryAccountRepository()
	ctx := context.Background()

	account := newCustomer("jane", "jane@example.com", "+254712345678")
	account.MerchantProfile = &model.MerchantProfile{BusinessName: "Jane Gems", IDProof: []byte("id")}
	require.NoError(t, repo.Insert(ctx, account))

	found, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	found.Username = "mutated"
	found.MerchantProfile.IDProof[0] = 'X'

	again, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane", again.Username)
	assert.Equal(t, []byte("id"), again.MerchantProfile.IDProof)
}

func TestMemoryAccountRepository_ConcurrentInsertSameEmail(t *testing.T) {
	repo := NewMemoryAccountRepository()
	ctx := context.Background()

	const workers = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.Insert(ctx, newCustomer(fmt.Sprintf("user%02d", i), "race@example.com", fmt.Sprintf("+2547000000%02d", i)))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if assert.ErrorIs(t, err, apperrors.ErrDuplicateAccount) {
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)
}

func TestMemoryAccountRepository_CanceledContext(t *testing.T) {
	repo := NewMemoryAccountRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Insert(ctx, newCustomer("jane", "jane@example.com", "+254712345678"))
	assert.ErrorIs(t, err, context.Canceled)
}

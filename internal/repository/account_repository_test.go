package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"kletos/internal/db"
	apperrors "kletos/internal/errors"
	"kletos/internal/model"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"record not found", gorm.ErrRecordNotFound, apperrors.ErrNotFound},
		{"wrapped record not found", fmt.Errorf("query: %w", gorm.ErrRecordNotFound), apperrors.ErrNotFound},
		{"translated duplicate", gorm.ErrDuplicatedKey, apperrors.ErrDuplicateAccount},
		{"mysql duplicate entry", &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"}, apperrors.ErrDuplicateAccount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestTranslateError_PassesThroughOtherErrors(t *testing.T) {
	lockErr := &mysqldriver.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}
	got := translateError(lockErr)
	assert.Same(t, lockErr, got)

	boom := errors.New("boom")
	assert.Same(t, boom, translateError(boom))
}

// setupTestDB connects to MYSQL_TEST_DSN and resets the account tables. The
// test is skipped when no database is configured.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("MYSQL_TEST_DSN")
	if dsn == "" {
		t.Skip("MYSQL_TEST_DSN not set")
	}

	gormDB, err := db.NewMySQL(dsn)
	if err != nil {
		t.Skipf("Failed to connect to test database: %v", err)
	}

	require.NoError(t, gormDB.Migrator().DropTable(&model.MerchantProfile{}, &model.Account{}, &model.Product{}))
	require.NoError(t, db.Migrate(gormDB))
	return gormDB
}

func TestAccountRepository_MySQL(t *testing.T) {
	gormDB := setupTestDB(t)
	repo := NewAccountRepository(gormDB)
	ctx := context.Background()

	merchant := &model.Account{
		Username:     "goldshop",
		Email:        "gold@example.com",
		PasswordHash: "hash",
		Phone:        "+254712345678",
		Role:         model.RoleMerchant,
		MerchantProfile: &model.MerchantProfile{
			BusinessName:            "Gold Corner",
			ContactPersonName:       "Jane",
			BankName:                "KCB",
			AccountNumber:           "0011223344",
			PreferredPaymentMethods: "mpesa",
			BusinessLicense:         []byte("%PDF-1.4"),
			IDProof:                 []byte("id"),
			AgreeTerms:              true,
		},
	}
	require.NoError(t, repo.Insert(ctx, merchant))

	found, err := repo.FindByID(ctx, merchant.ID)
	require.NoError(t, err)
	require.NotNil(t, found.MerchantProfile)
	assert.Equal(t, "Gold Corner", found.MerchantProfile.BusinessName)

	byLogin, err := repo.FindByLogin(ctx, "+254712345678")
	require.NoError(t, err)
	assert.Equal(t, merchant.ID, byLogin.ID)

	dup := &model.Account{Username: "other", Email: "gold@example.com", PasswordHash: "hash", Phone: "+254700000000", Role: model.RoleCustomer}
	assert.ErrorIs(t, repo.Insert(ctx, dup), apperrors.ErrDuplicateAccount)

	// The profile insert fails on business name; the account row must roll back.
	second := &model.Account{
		Username:        "silvershop",
		Email:           "silver@example.com",
		PasswordHash:    "hash",
		Phone:           "+254700000001",
		Role:            model.RoleMerchant,
		MerchantProfile: &model.MerchantProfile{BusinessName: "Gold Corner", BusinessLicense: []byte("x"), IDProof: []byte("y")},
	}
	assert.ErrorIs(t, repo.Insert(ctx, second), apperrors.ErrDuplicateAccount)
	_, err = repo.FindByEmail(ctx, "silver@example.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

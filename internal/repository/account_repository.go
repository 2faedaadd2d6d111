package repository

import (
	"context"
	"errors"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "kletos/internal/errors"
	"kletos/internal/model"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// AccountRepository defines account persistence operations.
type AccountRepository interface {
	// Insert stores the account, and its merchant profile when set, atomically.
	// A uniqueness violation is reported as errors.ErrDuplicateAccount.
	Insert(ctx context.Context, account *model.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	// FindByLogin matches identifier against username, email or phone.
	FindByLogin(ctx context.Context, identifier string) (*model.Account, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a GORM-backed account repository.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// Insert creates the account and merchant profile in one transaction.
func (r *accountRepository) Insert(ctx context.Context, account *model.Account) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("MerchantProfile").Create(account).Error; err != nil {
			return err
		}
		if account.MerchantProfile == nil {
			return nil
		}
		account.MerchantProfile.AccountID = account.ID
		return tx.Create(account.MerchantProfile).Error
	})
	return translateError(err)
}

// FindByID finds an account by ID, including its merchant profile.
func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).Preload("MerchantProfile").
		Where("id = ?", id).First(&account).Error; err != nil {
		return nil, translateError(err)
	}
	return &account, nil
}

// FindByEmail finds an account by email.
func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		return nil, translateError(err)
	}
	return &account, nil
}

// FindByLogin finds an account whose username, email or phone equals identifier.
func (r *accountRepository) FindByLogin(ctx context.Context, identifier string) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).
		Where("email = ? OR username = ? OR phone = ?", identifier, identifier, identifier).
		First(&account).Error; err != nil {
		return nil, translateError(err)
	}
	return &account, nil
}

// translateError maps storage engine signals onto domain errors.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrDuplicateAccount
	}
	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return apperrors.ErrDuplicateAccount
	}
	return err
}

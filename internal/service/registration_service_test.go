package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "kletos/internal/errors"
	"kletos/internal/model"
	"kletos/internal/repository"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func validSignup() SignupInput {
	return SignupInput{
		Username:        "janedoe",
		Email:           "jane@example.com",
		Password:        "Secret1!x",
		ConfirmPassword: "Secret1!x",
		Phone:           "0712345678",
	}
}

func validMerchantSignup() MerchantSignupInput {
	in := MerchantSignupInput{
		SignupInput:             validSignup(),
		BusinessName:            "Jane's Jewels",
		ContactPersonName:       "Jane Doe",
		BankName:                "Equity",
		AccountNumber:           "0123456789",
		PreferredPaymentMethods: "mpesa",
		BusinessLicense:         pngHeader,
		IDProof:                 []byte("%PDF-1.4\n"),
		AgreeTerms:              "on",
	}
	in.Username = "janesjewels"
	in.Email = "shop@example.com"
	in.Phone = "0722000000"
	return in
}

func TestRegisterCustomer_Success(t *testing.T) {
	repo := repository.NewMemoryAccountRepository()
	svc := NewRegistrationService(repo, "")

	in := validSignup()
	in.Email = "  Jane@Example.COM "
	account, err := svc.RegisterCustomer(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", account.Email)
	assert.Equal(t, "+254712345678", account.Phone)
	assert.Equal(t, model.RoleCustomer, account.Role)
	assert.Nil(t, account.MerchantProfile)
	assert.NotEqual(t, in.Password, account.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(in.Password)))

	stored, err := repo.FindByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, stored.ID)
}

func TestRegisterCustomer_CustomPhonePrefix(t *testing.T) {
	svc := NewRegistrationService(repository.NewMemoryAccountRepository(), "+255")

	account, err := svc.RegisterCustomer(context.Background(), validSignup())
	require.NoError(t, err)
	assert.Equal(t, "+255712345678", account.Phone)
}

func TestRegisterCustomer_CheckOrder(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*SignupInput)
		kind  apperrors.Kind
		field string
	}{
		{"missing username", func(in *SignupInput) { in.Username = "  " }, apperrors.KindMissingField, "username"},
		{"missing email", func(in *SignupInput) { in.Email = "" }, apperrors.KindMissingField, "email"},
		{"missing password", func(in *SignupInput) { in.Password = "" }, apperrors.KindMissingField, "password"},
		{"username before email format", func(in *SignupInput) { in.Username = "abc"; in.Email = "bad" }, apperrors.KindFormatInvalid, "username"},
		{"email before password", func(in *SignupInput) { in.Email = "bad@"; in.Password = "weak" }, apperrors.KindFormatInvalid, "email"},
		{"password without symbol", func(in *SignupInput) { in.Password = "Secret12x"; in.ConfirmPassword = "Secret12x" }, apperrors.KindFormatInvalid, "password"},
		{"password past bcrypt limit", func(in *SignupInput) {
			in.Password = "Abcdef1!" + strings.Repeat("a", 70)
			in.ConfirmPassword = in.Password
		}, apperrors.KindFormatInvalid, "password"},
		{"password without digit", func(in *SignupInput) { in.Password = "Secret!!x"; in.ConfirmPassword = "Secret!!x" }, apperrors.KindFormatInvalid, "password"},
		{"password before mismatch", func(in *SignupInput) { in.Password = "short"; in.ConfirmPassword = "other" }, apperrors.KindFormatInvalid, "password"},
		{"mismatch", func(in *SignupInput) { in.ConfirmPassword = "Secret1!y" }, apperrors.KindMismatch, "confirmPassword"},
		{"missing confirmation", func(in *SignupInput) { in.ConfirmPassword = "" }, apperrors.KindMismatch, "confirmPassword"},
		{"mismatch before phone", func(in *SignupInput) { in.ConfirmPassword = "x"; in.Phone = "123" }, apperrors.KindMismatch, "confirmPassword"},
		{"missing phone", func(in *SignupInput) { in.Phone = "" }, apperrors.KindFormatInvalid, "phone"},
		{"phone with eleven digits", func(in *SignupInput) { in.Phone = "07123456789" }, apperrors.KindFormatInvalid, "phone"},
		{"international phone", func(in *SignupInput) { in.Phone = "+254712345678" }, apperrors.KindFormatInvalid, "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repository.NewMemoryAccountRepository()
			svc := NewRegistrationService(repo, "")

			in := validSignup()
			tt.edit(&in)
			account, err := svc.RegisterCustomer(context.Background(), in)

			assert.Nil(t, account)
			var verr *apperrors.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.kind, verr.Kind)
			assert.Equal(t, tt.field, verr.Field)
			assert.NotEmpty(t, verr.Message)

			_, err = repo.FindByEmail(context.Background(), "jane@example.com")
			assert.ErrorIs(t, err, apperrors.ErrNotFound)
		})
	}
}

func TestRegisterCustomer_Duplicate(t *testing.T) {
	svc := NewRegistrationService(repository.NewMemoryAccountRepository(), "")
	ctx := context.Background()

	_, err := svc.RegisterCustomer(ctx, validSignup())
	require.NoError(t, err)

	t.Run("same email", func(t *testing.T) {
		_, err := svc.RegisterCustomer(ctx, validSignup())
		assert.Equal(t, apperrors.ErrDuplicateAccount, err)
	})

	t.Run("duplicate email wins over later format errors", func(t *testing.T) {
		in := validSignup()
		in.Password = "weak"
		in.Phone = "bad"
		_, err := svc.RegisterCustomer(ctx, in)
		assert.Equal(t, apperrors.ErrDuplicateAccount, err)
	})

	t.Run("same username", func(t *testing.T) {
		in := validSignup()
		in.Email = "other@example.com"
		in.Phone = "0799999999"
		_, err := svc.RegisterCustomer(ctx, in)
		assert.Equal(t, apperrors.ErrDuplicateAccount, err)
	})

	t.Run("same phone", func(t *testing.T) {
		in := validSignup()
		in.Username = "someoneelse"
		in.Email = "other@example.com"
		_, err := svc.RegisterCustomer(ctx, in)
		assert.Equal(t, apperrors.ErrDuplicateAccount, err)
	})
}

func TestRegisterCustomer_ConcurrentSameEmail(t *testing.T) {
	svc := NewRegistrationService(repository.NewMemoryAccountRepository(), "")

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := validSignup()
			in.Username = "janedoe" + string(rune('a'+i))
			in.Phone = "07" + "1234567" + string(rune('0'+i))
			_, errs[i] = svc.RegisterCustomer(context.Background(), in)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, apperrors.ErrDuplicateAccount, err)
	}
	assert.Equal(t, 1, succeeded)
}

func TestRegisterCustomer_RepositoryFailure(t *testing.T) {
	mockRepo := new(MockAccountRepository)
	mockRepo.On("FindByEmail", mock.Anything, "jane@example.com").Return(nil, apperrors.ErrNotFound)
	mockRepo.On("Insert", mock.Anything, mock.AnythingOfType("*model.Account")).Return(errors.New("disk full"))

	svc := NewRegistrationService(mockRepo, "")
	_, err := svc.RegisterCustomer(context.Background(), validSignup())

	assert.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrDuplicateAccount)
	var verr *apperrors.ValidationError
	assert.False(t, errors.As(err, &verr))
	mockRepo.AssertExpectations(t)
}

func TestRegisterMerchant_Success(t *testing.T) {
	repo := repository.NewMemoryAccountRepository()
	svc := NewRegistrationService(repo, "")

	account, err := svc.RegisterMerchant(context.Background(), validMerchantSignup())

	require.NoError(t, err)
	assert.Equal(t, model.RoleMerchant, account.Role)
	require.NotNil(t, account.MerchantProfile)
	assert.Equal(t, "Jane's Jewels", account.MerchantProfile.BusinessName)
	assert.Equal(t, "image/png", account.MerchantProfile.BusinessLicenseType)
	assert.Equal(t, "application/pdf", account.MerchantProfile.IDProofType)
	assert.True(t, account.MerchantProfile.AgreeTerms)

	stored, err := repo.FindByID(context.Background(), account.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.MerchantProfile)
	assert.Equal(t, pngHeader, stored.MerchantProfile.BusinessLicense)
}

func TestRegisterMerchant_CheckOrder(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*MerchantSignupInput)
		kind  apperrors.Kind
		field string
	}{
		{"business name first", func(in *MerchantSignupInput) { in.BusinessName = ""; in.Username = "" }, apperrors.KindMissingField, "businessName"},
		{"contact person", func(in *MerchantSignupInput) { in.ContactPersonName = " " }, apperrors.KindMissingField, "contactPersonName"},
		{"account checks before bank", func(in *MerchantSignupInput) { in.Phone = "12"; in.BankName = "" }, apperrors.KindFormatInvalid, "phone"},
		{"bank name", func(in *MerchantSignupInput) { in.BankName = "" }, apperrors.KindMissingField, "bankName"},
		{"account number", func(in *MerchantSignupInput) { in.AccountNumber = "" }, apperrors.KindMissingField, "accountNumber"},
		{"payment methods", func(in *MerchantSignupInput) { in.PreferredPaymentMethods = "" }, apperrors.KindMissingField, "preferredPaymentMethods"},
		{"business license", func(in *MerchantSignupInput) { in.BusinessLicense = nil }, apperrors.KindMissingField, "businessLicense"},
		{"business license too large", func(in *MerchantSignupInput) {
			in.BusinessLicense = make([]byte, MaxUploadSize+1)
		}, apperrors.KindFormatInvalid, "businessLicense"},
		{"oversized upload after business name", func(in *MerchantSignupInput) {
			in.BusinessName = ""
			in.BusinessLicense = make([]byte, MaxUploadSize+1)
		}, apperrors.KindMissingField, "businessName"},
		{"bank fields before upload size", func(in *MerchantSignupInput) {
			in.BankName = ""
			in.IDProof = make([]byte, MaxUploadSize+1)
		}, apperrors.KindMissingField, "bankName"},
		{"id proof", func(in *MerchantSignupInput) { in.IDProof = []byte{} }, apperrors.KindMissingField, "idProof"},
		{"id proof too large", func(in *MerchantSignupInput) {
			in.IDProof = make([]byte, MaxUploadSize+1)
		}, apperrors.KindFormatInvalid, "idProof"},
		{"terms absent", func(in *MerchantSignupInput) { in.AgreeTerms = "" }, apperrors.KindMissingConsent, "agreeTerms"},
		{"terms declined", func(in *MerchantSignupInput) { in.AgreeTerms = "false" }, apperrors.KindMissingConsent, "agreeTerms"},
		{"terms unparseable", func(in *MerchantSignupInput) { in.AgreeTerms = "maybe" }, apperrors.KindMissingConsent, "agreeTerms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewRegistrationService(repository.NewMemoryAccountRepository(), "")

			in := validMerchantSignup()
			tt.edit(&in)
			_, err := svc.RegisterMerchant(context.Background(), in)

			var verr *apperrors.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.kind, verr.Kind)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestRegisterMerchant_DuplicateBusinessName(t *testing.T) {
	svc := NewRegistrationService(repository.NewMemoryAccountRepository(), "")
	ctx := context.Background()

	_, err := svc.RegisterMerchant(ctx, validMerchantSignup())
	require.NoError(t, err)

	in := validMerchantSignup()
	in.Username = "anotherseller"
	in.Email = "another@example.com"
	in.Phone = "0733000000"
	_, err = svc.RegisterMerchant(ctx, in)
	assert.Equal(t, apperrors.ErrDuplicateAccount, err)
}

func TestRegisterMerchant_SharesEmailSpaceWithCustomers(t *testing.T) {
	svc := NewRegistrationService(repository.NewMemoryAccountRepository(), "")
	ctx := context.Background()

	_, err := svc.RegisterCustomer(ctx, validSignup())
	require.NoError(t, err)

	in := validMerchantSignup()
	in.Email = "jane@example.com"
	_, err = svc.RegisterMerchant(ctx, in)
	assert.Equal(t, apperrors.ErrDuplicateAccount, err)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	apperrors "kletos/internal/errors"
	"kletos/internal/model"
	"kletos/internal/repository"
	"kletos/internal/validation"
)

// bcryptCost is a var so tests can lower it.
var bcryptCost = 10

// User-facing messages for each registration check.
const (
	msgUsernameRequired     = "Username is required."
	msgEmailRequired        = "Email is required."
	msgPasswordRequired     = "Password is required."
	msgUsernameTooShort     = "Username must be at least 4 characters long."
	msgEmailInvalid         = "Invalid email format."
	msgPasswordInvalid      = "Password must be 8 to 72 characters long and contain an uppercase letter, a lowercase letter, a number, and a special character."
	msgPasswordMismatch     = "Passwords do not match."
	msgPhoneInvalid         = "Phone number must be in the format 07XXXXXXXX."
	msgBusinessNameRequired = "Business name is required."
	msgContactRequired      = "Contact person name is required."
	msgBankNameRequired     = "Bank name is required."
	msgAccountNumRequired   = "Account number is required."
	msgPaymentMethodsReq    = "Preferred payment method is required."
	msgLicenseRequired      = "Business license is required."
	msgIDProofRequired      = "ID proof is required."
	msgLicenseTooLarge      = "Business license must be at most 5 MB."
	msgIDProofTooLarge      = "ID proof must be at most 5 MB."
	msgTermsRequired        = "You must agree to the terms and conditions."
)

// SignupInput is the customer signup form.
type SignupInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	Phone           string
}

// MaxUploadSize caps each merchant document. Callers may truncate a read at
// MaxUploadSize+1 bytes; anything longer than MaxUploadSize is rejected.
const MaxUploadSize = 5 << 20

// MerchantSignupInput is the merchant signup form. Nil or empty upload slices
// mean the file was not provided. AgreeTerms is the raw checkbox value.
type MerchantSignupInput struct {
	SignupInput
	BusinessName            string
	ContactPersonName       string
	BankName                string
	AccountNumber           string
	PreferredPaymentMethods string
	BusinessLicense         []byte
	IDProof                 []byte
	AgreeTerms              string
}

// RegistrationService creates customer and merchant accounts. Every check runs
// in a fixed order and the first failure is returned as-is.
type RegistrationService interface {
	RegisterCustomer(ctx context.Context, in SignupInput) (*model.Account, error)
	RegisterMerchant(ctx context.Context, in MerchantSignupInput) (*model.Account, error)
}

type registrationService struct {
	accounts    repository.AccountRepository
	phonePrefix string
}

// NewRegistrationService creates a registration service. phonePrefix replaces
// the leading "0" of stored phone numbers; empty means validation.DefaultCountryPrefix.
func NewRegistrationService(accounts repository.AccountRepository, phonePrefix string) RegistrationService {
	return &registrationService{accounts: accounts, phonePrefix: phonePrefix}
}

// RegisterCustomer validates the form and stores a customer account.
func (s *registrationService) RegisterCustomer(ctx context.Context, in SignupInput) (*model.Account, error) {
	account, err := s.checkAccount(ctx, in)
	if err != nil {
		logRejected("customer", in.Email, err)
		return nil, err
	}
	account.Role = model.RoleCustomer

	if err := s.persist(ctx, account, in.Password); err != nil {
		logRejected("customer", in.Email, err)
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"account_id": account.ID,
		"role":       account.Role,
	}).Info("account registered")
	return account, nil
}

// RegisterMerchant validates the merchant form and stores the account and its
// business profile together.
func (s *registrationService) RegisterMerchant(ctx context.Context, in MerchantSignupInput) (*model.Account, error) {
	account, err := s.checkMerchant(ctx, in)
	if err != nil {
		logRejected("merchant", in.Email, err)
		return nil, err
	}

	if err := s.persist(ctx, account, in.Password); err != nil {
		logRejected("merchant", in.Email, err)
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"account_id":    account.ID,
		"role":          account.Role,
		"business_name": account.MerchantProfile.BusinessName,
	}).Info("account registered")
	return account, nil
}

func (s *registrationService) checkMerchant(ctx context.Context, in MerchantSignupInput) (*model.Account, error) {
	if validation.Blank(in.BusinessName) {
		return nil, apperrors.MissingField("businessName", msgBusinessNameRequired)
	}
	if validation.Blank(in.ContactPersonName) {
		return nil, apperrors.MissingField("contactPersonName", msgContactRequired)
	}

	account, err := s.checkAccount(ctx, in.SignupInput)
	if err != nil {
		return nil, err
	}

	switch {
	case validation.Blank(in.BankName):
		return nil, apperrors.MissingField("bankName", msgBankNameRequired)
	case validation.Blank(in.AccountNumber):
		return nil, apperrors.MissingField("accountNumber", msgAccountNumRequired)
	case validation.Blank(in.PreferredPaymentMethods):
		return nil, apperrors.MissingField("preferredPaymentMethods", msgPaymentMethodsReq)
	case len(in.BusinessLicense) == 0:
		return nil, apperrors.MissingField("businessLicense", msgLicenseRequired)
	case len(in.BusinessLicense) > MaxUploadSize:
		return nil, apperrors.FormatInvalid("businessLicense", msgLicenseTooLarge)
	case len(in.IDProof) == 0:
		return nil, apperrors.MissingField("idProof", msgIDProofRequired)
	case len(in.IDProof) > MaxUploadSize:
		return nil, apperrors.FormatInvalid("idProof", msgIDProofTooLarge)
	}

	if agreed, ok := validation.ParseConsent(in.AgreeTerms); !ok || !agreed {
		return nil, apperrors.MissingConsent("agreeTerms", msgTermsRequired)
	}

	account.Role = model.RoleMerchant
	account.MerchantProfile = &model.MerchantProfile{
		BusinessName:            strings.TrimSpace(in.BusinessName),
		ContactPersonName:       strings.TrimSpace(in.ContactPersonName),
		BankName:                strings.TrimSpace(in.BankName),
		AccountNumber:           strings.TrimSpace(in.AccountNumber),
		PreferredPaymentMethods: strings.TrimSpace(in.PreferredPaymentMethods),
		BusinessLicense:         in.BusinessLicense,
		BusinessLicenseType:     mimetype.Detect(in.BusinessLicense).String(),
		IDProof:                 in.IDProof,
		IDProofType:             mimetype.Detect(in.IDProof).String(),
		AgreeTerms:              true,
	}
	return account, nil
}

// checkAccount runs the checks shared by both signups and returns an unsaved
// account with a normalized email and phone.
func (s *registrationService) checkAccount(ctx context.Context, in SignupInput) (*model.Account, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	switch {
	case username == "":
		return nil, apperrors.MissingField("username", msgUsernameRequired)
	case email == "":
		return nil, apperrors.MissingField("email", msgEmailRequired)
	case in.Password == "":
		return nil, apperrors.MissingField("password", msgPasswordRequired)
	}

	if !validation.ValidateUsername(username) {
		return nil, apperrors.FormatInvalid("username", msgUsernameTooShort)
	}

	// Early exit only; Insert enforces uniqueness atomically.
	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrDuplicateAccount
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("check account existence: %w", err)
	}

	if !validation.ValidateEmail(email) {
		return nil, apperrors.FormatInvalid("email", msgEmailInvalid)
	}
	if !validation.ValidatePassword(in.Password) {
		return nil, apperrors.FormatInvalid("password", msgPasswordInvalid)
	}
	if in.ConfirmPassword == "" || in.Password != in.ConfirmPassword {
		return nil, apperrors.Mismatch("confirmPassword", msgPasswordMismatch)
	}

	phone := strings.TrimSpace(in.Phone)
	if !validation.ValidatePhone(phone) {
		return nil, apperrors.FormatInvalid("phone", msgPhoneInvalid)
	}

	return &model.Account{
		Username: username,
		Email:    email,
		Phone:    validation.NormalizePhone(phone, s.phonePrefix),
	}, nil
}

func (s *registrationService) persist(ctx context.Context, account *model.Account, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	account.PasswordHash = string(hash)

	if err := s.accounts.Insert(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateAccount) {
			return apperrors.ErrDuplicateAccount
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func logRejected(role, email string, err error) {
	entry := logrus.WithFields(logrus.Fields{"role": role, "email": email})
	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		entry.WithFields(logrus.Fields{"kind": verr.Kind, "field": verr.Field}).Info("registration rejected")
	case errors.Is(err, apperrors.ErrDuplicateAccount):
		entry.Info("registration rejected: duplicate account")
	default:
		entry.WithError(err).Error("registration failed")
	}
}

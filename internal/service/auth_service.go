package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"kletos/internal/auth"
	apperrors "kletos/internal/errors"
	"kletos/internal/model"
	"kletos/internal/repository"
	"kletos/internal/validation"
)

var phoneSeparators = strings.NewReplacer(" ", "", "-", "")

// AuthService handles authentication operations.
type AuthService interface {
	// Login accepts an email, username or phone number (local or international form).
	Login(ctx context.Context, identifier, password string) (accessToken, refreshToken string, account *model.Account, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	// Logout revokes refreshToken and, when access is non-nil, blacklists that
	// access token for the rest of its lifetime.
	Logout(ctx context.Context, refreshToken string, access *auth.Claims) error
}

type authService struct {
	accountRepo repository.AccountRepository
	jwtService  *auth.JWTService
	tokenStore  auth.TokenStoreInterface
	phonePrefix string
}

// NewAuthService creates a new authentication service.
func NewAuthService(accountRepo repository.AccountRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, phonePrefix string) AuthService {
	return &authService{
		accountRepo: accountRepo,
		jwtService:  jwtService,
		tokenStore:  tokenStore,
		phonePrefix: phonePrefix,
	}
}

// loginIdentifier puts identifier in the form accounts are stored under.
// Phone numbers may be typed with spaces or dashes.
func (s *authService) loginIdentifier(identifier string) string {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return strings.ToLower(identifier)
	}

	compact := phoneSeparators.Replace(identifier)
	switch {
	case validation.ValidatePhone(compact):
		return validation.NormalizePhone(compact, s.phonePrefix)
	case validation.IsInternationalPhone(compact):
		return compact
	default:
		return identifier
	}
}

// Login authenticates an account and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, identifier, password string) (accessToken, refreshToken string, account *model.Account, err error) {
	account, err = s.accountRepo.FindByLogin(ctx, s.loginIdentifier(identifier))
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return "", "", nil, fmt.Errorf("find account: %w", err)
		}
		return "", "", nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		logrus.WithField("account_id", account.ID).Info("login rejected: password mismatch")
		return "", "", nil, apperrors.ErrInvalidCredentials
	}

	sub := auth.Subject{AccountID: account.ID.String(), Email: account.Email, Role: string(account.Role)}

	accessToken, err = s.jwtService.GenerateAccessToken(sub)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(sub)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, sub, auth.RefreshTokenExpiry); err != nil {
		return "", "", nil, fmt.Errorf("store refresh token: %w", err)
	}

	logrus.WithFields(logrus.Fields{"account_id": account.ID, "role": account.Role}).Info("login succeeded")
	return accessToken, refreshToken, account, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", apperrors.ErrInvalidToken
	}

	stored, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		return "", apperrors.ErrInvalidToken
	}
	if stored.AccountID != claims.AccountID || stored.Email != claims.Email {
		return "", apperrors.ErrInvalidToken
	}

	accessToken, err := s.jwtService.GenerateAccessToken(stored)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout invalidates a refresh token and the access token presented with it.
func (s *authService) Logout(ctx context.Context, refreshToken string, access *auth.Claims) error {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return apperrors.ErrInvalidToken
	}
	if access != nil && access.AccountID != claims.AccountID {
		return apperrors.ErrInvalidToken
	}

	if err := s.tokenStore.DeleteRefreshToken(ctx, claims.ID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}

	if access != nil && access.ExpiresAt != nil {
		if err := s.tokenStore.BlacklistAccessToken(ctx, access.ID, time.Until(access.ExpiresAt.Time)); err != nil {
			return fmt.Errorf("blacklist access token: %w", err)
		}
	}
	return nil
}

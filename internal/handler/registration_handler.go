package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"kletos/internal/model"
	"kletos/internal/service"
)

// RegistrationHandler handles customer and merchant signup.
type RegistrationHandler struct {
	registrationService service.RegistrationService
}

// NewRegistrationHandler creates a new registration handler.
func NewRegistrationHandler(registrationService service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

// SignupRequest is accepted as JSON or as a form.
type SignupRequest struct {
	Username        string `json:"username" form:"username"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
	Email           string `json:"email" form:"email"`
	Phone           string `json:"phone" form:"phone"`
}

// MerchantSignupRequest holds the text fields of the multipart merchant form.
// The businessLicense and idProof files are read separately.
type MerchantSignupRequest struct {
	SignupRequest
	BusinessName            string `form:"businessName"`
	ContactPersonName       string `form:"contactPersonName"`
	BankName                string `form:"bankName"`
	AccountNumber           string `form:"accountNumber"`
	PreferredPaymentMethods string `form:"preferredPaymentMethods"`
	AgreeTerms              string `form:"agreeTerms"`
}

// RegistrationResponse represents a successful signup.
type RegistrationResponse struct {
	Message string         `json:"message"`
	Account *model.Account `json:"account"`
}

func (r SignupRequest) input() service.SignupInput {
	return service.SignupInput{
		Username:        r.Username,
		Email:           r.Email,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
		Phone:           r.Phone,
	}
}

func registered(c echo.Context, account *model.Account) error {
	return c.JSON(http.StatusCreated, RegistrationResponse{
		Message: fmt.Sprintf("Registration successful! Your phone number is %s", account.Phone),
		Account: account,
	})
}

// Signup godoc
// @Summary Register a customer account
// @Tags registration
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body SignupRequest true "Signup data"
// @Success 201 {object} RegistrationResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /signup [post]
func (h *RegistrationHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	account, err := h.registrationService.RegisterCustomer(c.Request().Context(), req.input())
	if err != nil {
		return domainError(c, err)
	}
	return registered(c, account)
}

// MerchantSignup godoc
// @Summary Register a merchant account
// @Tags registration
// @Accept mpfd
// @Produce json
// @Param businessName formData string true "Business name"
// @Param contactPersonName formData string true "Contact person"
// @Param username formData string true "Username"
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Param confirmPassword formData string true "Password confirmation"
// @Param phone formData string true "Phone (07XXXXXXXX)"
// @Param bankName formData string true "Bank name"
// @Param accountNumber formData string true "Bank account number"
// @Param preferredPaymentMethods formData string true "Preferred payment methods"
// @Param businessLicense formData file true "Business license"
// @Param idProof formData file true "ID proof"
// @Param agreeTerms formData string true "Terms accepted (true/on/1)"
// @Success 201 {object} RegistrationResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /merchant_signup [post]
func (h *RegistrationHandler) MerchantSignup(c echo.Context) error {
	var req MerchantSignupRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	license, err := formFileBytes(c, "businessLicense")
	if err != nil {
		return domainError(c, err)
	}
	idProof, err := formFileBytes(c, "idProof")
	if err != nil {
		return domainError(c, err)
	}

	account, err := h.registrationService.RegisterMerchant(c.Request().Context(), service.MerchantSignupInput{
		SignupInput:             req.input(),
		BusinessName:            req.BusinessName,
		ContactPersonName:       req.ContactPersonName,
		BankName:                req.BankName,
		AccountNumber:           req.AccountNumber,
		PreferredPaymentMethods: req.PreferredPaymentMethods,
		BusinessLicense:         license,
		IDProof:                 idProof,
		AgreeTerms:              req.AgreeTerms,
	})
	if err != nil {
		return domainError(c, err)
	}
	return registered(c, account)
}

// formFileBytes reads an uploaded file, stopping one byte past
// service.MaxUploadSize. A missing file yields nil. Size and presence are
// judged by the service in check order.
func formFileBytes(c echo.Context, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, service.MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	return data, nil
}

package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"kletos/internal/auth"
	"kletos/internal/errors"
	"kletos/internal/model"
	"kletos/internal/service"
)

// ProfileHandler serves the signed-in account.
type ProfileHandler struct {
	svc service.ProfileService
}

// NewProfileHandler creates a handler layer.
func NewProfileHandler(svc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// ProfileResponse wraps the caller's account.
type ProfileResponse struct {
	Account *model.Account `json:"account"`
}

// GetProfile godoc
// @Summary Get the signed-in account
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return domainError(c, errors.ErrInvalidToken)
	}
	id, err := uuid.Parse(claims.AccountID)
	if err != nil {
		return domainError(c, errors.ErrInvalidToken)
	}

	account, err := h.svc.GetProfile(c.Request().Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, ProfileResponse{Account: account})
}

package handler

import (
	"net/http"

	"codebox/api/middleware"
	"codebox/internal/dto"
	"codebox/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ResetHandler struct {
	Service  *service.ResetService
	Validate *validator.Validate
}

func NewResetHandler(svc *service.ResetService, validate *validator.Validate) *ResetHandler {
	return &ResetHandler{Service: svc, Validate: validate}
}

func (h *ResetHandler) GenerateOTP(c echo.Context) error {
	code, err := h.Service.GenerateOTP(c.Request().Context(), identifier(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"code": code})
}

func (h *ResetHandler) VerifyOTP(c echo.Context) error {
	if err := h.Service.VerifyOTP(c.Request().Context(), identifier(c), c.QueryParam("code")); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "Verify Successfully!"})
}

func (h *ResetHandler) CreateResetSession(c echo.Context) error {
	flag, err := h.Service.CreateResetSession(c.Request().Context(), c.QueryParam("emailOrUsername"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]bool{"flag": flag})
}

func (h *ResetHandler) ResetPassword(c echo.Context) error {
	var req dto.ResetPasswordRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if req.EmailOrUsername == "" {
		req.EmailOrUsername = identifier(c)
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			return writeError(c, http.StatusBadRequest, err)
		}
	}
	if err := h.Service.ResetPassword(c.Request().Context(), req.EmailOrUsername, req.Password); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "Password reset successfully"})
}

func identifier(c echo.Context) string {
	if value, ok := middleware.IdentifierFromContext(c); ok {
		return value
	}
	return c.QueryParam("emailOrUsername")
}

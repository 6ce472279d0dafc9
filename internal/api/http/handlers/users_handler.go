package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zeus-agencias/kontrol-tiquetes/internal/api/dto"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/auth"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/service"
	apperrors "github.com/zeus-agencias/kontrol-tiquetes/pkg/util"
)

// UsersHandler serves login and session verification.
type UsersHandler struct {
	service *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{service: authService}
}

// Login POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, expiresAt, err := h.service.Login(c.UserContext(), req.Login, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User: dto.UserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Login: user.Login,
			Email: user.Email,
			Role:  user.Role,
		},
	})
}

// Verify GET /auth/verify echoes the authenticated identity.
func (h *UsersHandler) Verify(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{
		"valid": true,
		"user": dto.UserResponse{
			ID:    principal.User.ID,
			Name:  principal.User.Name,
			Login: principal.User.Login,
			Email: principal.User.Email,
			Role:  principal.User.Role,
		},
	})
}

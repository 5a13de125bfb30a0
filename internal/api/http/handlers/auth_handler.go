package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/it-repair-service/internal/api/dto"
	"github.com/spec-kit/it-repair-service/internal/auth"
	"github.com/spec-kit/it-repair-service/internal/domain"
	"github.com/spec-kit/it-repair-service/internal/service"
	apperrors "github.com/spec-kit/it-repair-service/pkg/util"
)

// AuthHandler manages admin authentication endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Register POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Username == "" || req.Password == "" || strings.TrimSpace(req.FullName) == "" {
		return apperrors.NewValidationError("email, username, password, fullName required", nil)
	}
	if len(req.Password) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters", nil)
	}

	role := domain.AdminRole(req.Role)
	if req.Role != "" && role != domain.AdminRoleViewer && role != domain.AdminRoleAgent && role != domain.AdminRoleSuper {
		return apperrors.NewValidationError("unknown role", map[string]any{"role": req.Role})
	}

	result, err := h.service.Register(c.UserContext(), service.RegisterInput{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
		FullName: strings.TrimSpace(req.FullName),
		Role:     role,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.AuthResponse{
		Token: result.Token,
		Admin: dto.NewAdminResponse(result.Admin),
	}})
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	result, err := h.service.Login(c.UserContext(), strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		Token: result.Token,
		Admin: dto.NewAdminResponse(result.Admin),
	}})
}

// Profile GET /auth/profile.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	claims := auth.ClaimsFromContext(c)
	if claims == nil {
		return apperrors.NewUnauthenticated("admin required")
	}
	admin, err := h.service.Profile(c.UserContext(), claims.AdminID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAdminResponse(admin)})
}

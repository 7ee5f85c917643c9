package handlers

import (
	"errors"
	"log/slog"
	"strings"

	"employee-portal/internal/adapters/http/middleware"
	"employee-portal/internal/core/domain"
	"employee-portal/internal/core/services"
	"employee-portal/internal/pkg/metrics"
	"employee-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles administrator authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	metrics     *metrics.Metrics
	log         *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, m *metrics.Metrics, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		metrics:     m,
		log:         log,
	}
}

// Register rejects self service administrator registration
// @Summary Register administrator (disabled)
// @Description Administrators are provisioned with the createadmin command
// @Tags Auth
// @Produce json
// @Failure 403 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	return response.Forbidden(c, "Admin registration is disabled")
}

// Login handles administrator login
// @Summary Administrator login
// @Description Login with username or email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.AdminLoginInput true "Login credentials"
// @Success 200 {object} response.Response{data=services.AdminAuthResult}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.AdminLoginInput
	if handled, err := parseAndValidate(c, &req); handled {
		return err
	}

	result, err := h.authService.AuthenticateAdmin(c.UserContext(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.metrics.AuthAttempt("admin_login", "invalid_credentials")
			return response.Unauthorized(c, "Invalid credentials")
		}
		h.metrics.AuthAttempt("admin_login", "error")
		return failure(c, h.log, err, "Login failed")
	}

	h.metrics.AuthAttempt("admin_login", "success")
	return response.Success(c, "Login successful", result)
}

// Me returns the signed in administrator
// @Summary Get current administrator
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	if principal == nil || principal.Admin == nil {
		return response.Unauthorized(c, "Access denied. No token provided.")
	}

	return response.Success(c, "", fiber.Map{
		"admin": principal.Admin.ToResponse(),
	})
}

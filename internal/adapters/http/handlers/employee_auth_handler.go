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

// EmployeeAuthHandler handles employee account claim and login
type EmployeeAuthHandler struct {
	accountService *services.AccountService
	authService    *services.AuthService
	metrics        *metrics.Metrics
	log            *slog.Logger
}

// NewEmployeeAuthHandler creates a new employee auth handler
func NewEmployeeAuthHandler(
	accountService *services.AccountService,
	authService *services.AuthService,
	m *metrics.Metrics,
	log *slog.Logger,
) *EmployeeAuthHandler {
	return &EmployeeAuthHandler{
		accountService: accountService,
		authService:    authService,
		metrics:        m,
		log:            log,
	}
}

// Register claims the account of an existing employee record
// @Summary Claim employee account
// @Description Set a password on an active employee record that has no account yet
// @Tags Employee Auth
// @Accept json
// @Produce json
// @Param body body services.ClaimInput true "Employee ID and new password"
// @Success 201 {object} response.Response{data=services.EmployeeAuthResult}
// @Failure 400 {object} response.Response
// @Router /employee-auth/register [post]
func (h *EmployeeAuthHandler) Register(c *fiber.Ctx) error {
	var req services.ClaimInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.accountService.Claim(c.UserContext(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidClaimTarget):
			h.metrics.AuthAttempt("claim", "invalid_target")
			return response.BadRequest(c, "Invalid employee ID or employee is not active")
		case errors.Is(err, domain.ErrAlreadyClaimed):
			h.metrics.AuthAttempt("claim", "already_claimed")
			return response.BadRequest(c, "Employee account already exists. Please login instead.")
		}
		if _, ok := domain.AsValidationError(err); ok {
			h.metrics.AuthAttempt("claim", "invalid_input")
		} else {
			h.metrics.AuthAttempt("claim", "error")
		}
		return failure(c, h.log, err, "Account creation failed")
	}

	h.metrics.AuthAttempt("claim", "success")
	return response.Created(c, "Employee account created successfully", result)
}

// Login handles employee login
// @Summary Employee login
// @Tags Employee Auth
// @Accept json
// @Produce json
// @Param body body services.EmployeeLoginInput true "Login credentials"
// @Success 200 {object} response.Response{data=services.EmployeeAuthResult}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /employee-auth/login [post]
func (h *EmployeeAuthHandler) Login(c *fiber.Ctx) error {
	var req services.EmployeeLoginInput
	if handled, err := parseAndValidate(c, &req); handled {
		return err
	}

	result, err := h.authService.AuthenticateEmployee(c.UserContext(), strings.TrimSpace(req.EmployeeID), req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.metrics.AuthAttempt("employee_login", "invalid_credentials")
			return response.Unauthorized(c, "Invalid credentials")
		}
		h.metrics.AuthAttempt("employee_login", "error")
		return failure(c, h.log, err, "Login failed")
	}

	h.metrics.AuthAttempt("employee_login", "success")
	return response.Success(c, "Login successful", result)
}

// Me returns the signed in employee
// @Summary Get current employee
// @Tags Employee Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /employee-auth/me [get]
func (h *EmployeeAuthHandler) Me(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	if principal == nil || principal.Employee == nil {
		return response.Unauthorized(c, "Access denied. No token provided.")
	}

	return response.Success(c, "", fiber.Map{
		"employee": principal.Employee.ToResponse(),
	})
}

// Profile returns the full record of the signed in employee
// @Summary Get employee profile
// @Tags Employee Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /employee-auth/profile [get]
func (h *EmployeeAuthHandler) Profile(c *fiber.Ctx) error {
	return h.Me(c)
}

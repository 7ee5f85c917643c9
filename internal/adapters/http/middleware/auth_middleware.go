package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"employee-portal/internal/core/domain"
	"employee-portal/internal/core/services"
	"employee-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PrincipalKey is the c.Locals key of the authenticated *services.Principal
const PrincipalKey = "principal"

// RequireRole authenticates the bearer token and requires role. The principal
// record is re-read on every request.
func RequireRole(authorizer *services.Authorizer, role domain.Role, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Extract bearer token
		token := BearerToken(c)
		if token == "" {
			return response.Unauthorized(c, "Access denied. No token provided.")
		}

		// 2. Verify token and principal
		principal, err := authorizer.Authorize(c.UserContext(), token, role)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrTokenExpired):
				return response.Unauthorized(c, "Token expired")
			case errors.Is(err, domain.ErrTokenInvalid):
				return response.Unauthorized(c, "Invalid token")
			case errors.Is(err, domain.ErrForbidden):
				return response.Forbidden(c, "Access denied. Insufficient permissions.")
			case errors.Is(err, domain.ErrNotFound):
				return response.NotFound(c, "Account not found")
			case errors.Is(err, domain.ErrUnauthenticated):
				return response.Unauthorized(c, "Account is inactive")
			case errors.Is(err, domain.ErrTimeout):
				return response.ServiceUnavailable(c, "Service temporarily unavailable, please retry")
			default:
				log.ErrorContext(c.UserContext(), "authorization failed", slog.Any("error", err))
				return response.InternalServerError(c, "Authentication failed")
			}
		}

		// 3. Set principal in context
		c.Locals(PrincipalKey, principal)

		return c.Next()
	}
}

// AdminOnly allows administrator tokens only
func AdminOnly(authorizer *services.Authorizer, log *slog.Logger) fiber.Handler {
	return RequireRole(authorizer, domain.RoleAdmin, log)
}

// EmployeeOnly allows employee tokens only
func EmployeeOnly(authorizer *services.Authorizer, log *slog.Logger) fiber.Handler {
	return RequireRole(authorizer, domain.RoleEmployee, log)
}

// BearerToken returns the token of an "Authorization: Bearer <token>" header
func BearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// GetPrincipal returns the principal stored by RequireRole
func GetPrincipal(c *fiber.Ctx) *services.Principal {
	p, _ := c.Locals(PrincipalKey).(*services.Principal)
	return p
}

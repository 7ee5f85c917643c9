package services

import (
	"context"
	"errors"

	"employee-portal/internal/adapters/persistence/models"
	"employee-portal/internal/adapters/persistence/repositories"
	"employee-portal/internal/core/domain"
	"employee-portal/internal/pkg/jwt"
)

// Principal is the authenticated caller of a request. Exactly one of Admin and
// Employee is set, matching Role.
type Principal struct {
	ID       string
	Role     domain.Role
	Admin    *models.Admin
	Employee *models.Employee
}

// Authorizer verifies bearer tokens and re-reads the principal on every request,
// so deactivation takes effect without revoking tokens.
type Authorizer struct {
	tokens       *jwt.Issuer
	adminRepo    repositories.AdminRepository
	employeeRepo repositories.EmployeeRepository
}

// NewAuthorizer creates a new authorizer
func NewAuthorizer(tokens *jwt.Issuer, adminRepo repositories.AdminRepository, employeeRepo repositories.EmployeeRepository) *Authorizer {
	return &Authorizer{
		tokens:       tokens,
		adminRepo:    adminRepo,
		employeeRepo: employeeRepo,
	}
}

// Authorize resolves rawToken to a principal holding the required role
func (a *Authorizer) Authorize(ctx context.Context, rawToken string, required domain.Role) (*Principal, error) {
	if rawToken == "" {
		return nil, domain.ErrUnauthenticated
	}

	claims, err := a.tokens.Verify(rawToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	role := domain.Role(claims.Role)
	if role != required {
		return nil, domain.ErrForbidden
	}

	switch role {
	case domain.RoleAdmin:
		admin, err := a.adminRepo.GetByID(ctx, claims.PrincipalID())
		if err != nil {
			return nil, asTimeout(err)
		}
		if !admin.IsActive {
			return nil, domain.ErrUnauthenticated
		}
		return &Principal{ID: admin.ID, Role: role, Admin: admin}, nil

	case domain.RoleEmployee:
		employee, err := a.employeeRepo.GetByID(ctx, claims.PrincipalID())
		if err != nil {
			return nil, asTimeout(err)
		}
		if !employee.HasAccount || employee.Status != string(domain.StatusActive) {
			return nil, domain.ErrUnauthenticated
		}
		return &Principal{ID: employee.ID, Role: role, Employee: employee}, nil
	}

	return nil, domain.ErrTokenInvalid
}

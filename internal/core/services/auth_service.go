package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"employee-portal/internal/adapters/persistence/repositories"
	"employee-portal/internal/core/domain"
	"employee-portal/internal/pkg/jwt"
	"employee-portal/internal/pkg/password"
)

// AuthService handles sign in for administrators and employees
type AuthService struct {
	adminRepo    repositories.AdminRepository
	employeeRepo repositories.EmployeeRepository
	tokens       *jwt.Issuer
	cost         int
	clock        Clock
	log          *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new auth service
func NewAuthService(
	adminRepo repositories.AdminRepository,
	employeeRepo repositories.EmployeeRepository,
	tokens *jwt.Issuer,
	bcryptCost int,
	clock Clock,
	log *slog.Logger,
) *AuthService {
	return &AuthService{
		adminRepo:    adminRepo,
		employeeRepo: employeeRepo,
		tokens:       tokens,
		cost:         bcryptCost,
		clock:        clock,
		log:          log,
	}
}

// AdminLoginInput represents administrator login input
type AdminLoginInput struct {
	Username string `json:"username" validate:"required,max=254"`
	Password string `json:"password" validate:"required"`
}

// EmployeeLoginInput represents employee login input
type EmployeeLoginInput struct {
	EmployeeID string `json:"employeeId" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// AuthenticateAdmin signs in an administrator by username or email
func (s *AuthService) AuthenticateAdmin(ctx context.Context, identifier, secret string) (*AdminAuthResult, error) {
	// 1. Find active admin
	admin, err := s.adminRepo.GetByIdentifier(ctx, strings.TrimSpace(identifier))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, asTimeout(err)
	}
	if admin == nil || !admin.IsActive {
		return nil, s.reject(ctx, secret)
	}

	// 2. Verify password
	ok, err := password.VerifyContext(ctx, secret, admin.Password)
	if err != nil {
		return nil, asTimeout(err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	// 3. Record last login
	now := s.clock.now()
	if err := s.adminRepo.TouchLastLogin(ctx, admin.ID, now); err != nil {
		s.log.WarnContext(ctx, "admin last login not recorded", slog.String("admin_id", admin.ID), slog.Any("error", err))
	} else {
		admin.LastLogin = &now
	}

	// 4. Issue token
	token, expiresAt, err := s.tokens.Issue(admin.ID, string(domain.RoleAdmin), admin.Username)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "admin signed in", slog.String("admin_id", admin.ID))

	return &AdminAuthResult{
		Admin:     admin.ToResponse(),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// AuthenticateEmployee signs in an employee with a claimed account
func (s *AuthService) AuthenticateEmployee(ctx context.Context, employeeID, secret string) (*EmployeeAuthResult, error) {
	// 1. Find claimed, active employee
	employee, err := s.employeeRepo.GetByEmployeeID(ctx, strings.TrimSpace(employeeID))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, asTimeout(err)
	}
	if employee == nil || !employee.HasAccount || employee.Status != string(domain.StatusActive) {
		return nil, s.reject(ctx, secret)
	}

	// 2. Verify password
	ok, err := password.VerifyContext(ctx, secret, employee.Password)
	if err != nil {
		return nil, asTimeout(err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	// 3. Record last login
	now := s.clock.now()
	if err := s.employeeRepo.TouchLastLogin(ctx, employee.ID, now); err != nil {
		s.log.WarnContext(ctx, "employee last login not recorded", slog.String("employee_id", employee.EmployeeID), slog.Any("error", err))
	} else {
		employee.LastLogin = &now
	}

	// 4. Issue token
	token, expiresAt, err := s.tokens.Issue(employee.ID, string(domain.RoleEmployee), employee.EmployeeID)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "employee signed in", slog.String("employee_id", employee.EmployeeID))

	return &EmployeeAuthResult{
		Employee:  employee.ToResponse(),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// reject spends one bcrypt comparison so unknown and known identifiers take the same time
func (s *AuthService) reject(ctx context.Context, secret string) error {
	s.dummyOnce.Do(func() {
		hash, err := password.Hash("not-a-real-password", s.cost)
		if err != nil {
			s.log.Error("dummy hash unavailable", slog.Any("error", err))
			return
		}
		s.dummyHash = hash
	})
	if _, err := password.VerifyContext(ctx, secret, s.dummyHash); err != nil {
		return asTimeout(err)
	}
	return domain.ErrInvalidCredentials
}

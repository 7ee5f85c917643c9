package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"employee-portal/internal/adapters/persistence/repositories"
	"employee-portal/internal/core/domain"
	"employee-portal/internal/pkg/jwt"
	"employee-portal/internal/pkg/password"
	"employee-portal/internal/pkg/validation"
)

// AccountService attaches login credentials to pre-existing employee records
type AccountService struct {
	employeeRepo repositories.EmployeeRepository
	tokens       *jwt.Issuer
	cost         int
	clock        Clock
	log          *slog.Logger
}

// NewAccountService creates a new account service
func NewAccountService(
	employeeRepo repositories.EmployeeRepository,
	tokens *jwt.Issuer,
	bcryptCost int,
	clock Clock,
	log *slog.Logger,
) *AccountService {
	return &AccountService{
		employeeRepo: employeeRepo,
		tokens:       tokens,
		cost:         bcryptCost,
		clock:        clock,
		log:          log,
	}
}

// ClaimInput represents account claim input
type ClaimInput struct {
	EmployeeID string `json:"employeeId"`
	Password   string `json:"password"`
}

// Password policy messages shown to employees
const (
	msgPasswordTooShort  = "Password must be at least 6 characters long"
	msgPasswordTooLong   = "Password cannot exceed 72 bytes"
	msgPasswordTooSimple = "Password must contain at least one uppercase letter, one lowercase letter, and one number"
)

// Claim creates the login account of an active employee. Exactly one claim per
// employee succeeds, concurrent attempts included.
func (s *AccountService) Claim(ctx context.Context, input ClaimInput) (*EmployeeAuthResult, error) {
	employeeID := strings.TrimSpace(input.EmployeeID)

	// 1. Validate input
	verr := &domain.ValidationError{}
	if fe := validation.Employee().ValidateField("employeeId", employeeID, s.clock.now()); fe != nil {
		verr.Add(fe.Field, fe.Message)
	}
	switch err := password.CheckPolicy(input.Password); {
	case errors.Is(err, password.ErrTooShort):
		verr.Add("password", msgPasswordTooShort)
	case errors.Is(err, password.ErrTooLong):
		verr.Add("password", msgPasswordTooLong)
	case errors.Is(err, password.ErrMissingClasses):
		verr.Add("password", msgPasswordTooSimple)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	// 2. Find active employee
	employee, err := s.employeeRepo.GetByEmployeeID(ctx, employeeID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidClaimTarget
	}
	if err != nil {
		return nil, asTimeout(err)
	}
	if employee.Status != string(domain.StatusActive) {
		return nil, domain.ErrInvalidClaimTarget
	}

	// 3. Reject claimed records before paying for a hash
	if employee.HasAccount {
		return nil, domain.ErrAlreadyClaimed
	}

	// 4. Hash password
	hash, err := password.HashContext(ctx, input.Password, s.cost)
	if err != nil {
		return nil, asTimeout(err)
	}

	// 5. Conditional write
	now := s.clock.now()
	claimed, err := s.employeeRepo.ClaimAccount(ctx, employee.ID, hash, now)
	if err != nil {
		return nil, asTimeout(err)
	}
	if !claimed {
		return nil, s.lostClaim(ctx, employee.ID)
	}
	employee.Password = hash
	employee.HasAccount = true
	employee.AccountCreatedAt = &now

	// 6. Issue token
	token, expiresAt, err := s.tokens.Issue(employee.ID, string(domain.RoleEmployee), employee.EmployeeID)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "employee account claimed", slog.String("employee_id", employee.EmployeeID))

	return &EmployeeAuthResult{
		Employee:  employee.ToResponse(),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// lostClaim explains why the conditional write matched nothing
func (s *AccountService) lostClaim(ctx context.Context, id string) error {
	current, err := s.employeeRepo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrInvalidClaimTarget
	}
	if err != nil {
		return asTimeout(err)
	}
	if current.HasAccount {
		return domain.ErrAlreadyClaimed
	}
	return domain.ErrInvalidClaimTarget
}

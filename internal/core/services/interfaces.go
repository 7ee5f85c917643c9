package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"employee-portal/internal/adapters/persistence/models"
	"employee-portal/internal/core/domain"
)

// Note: account claim lives in account_service.go, sign in in auth_service.go,
// the per-request gate in authorizer.go.

// Clock returns the current time
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// StatsInvalidator drops cached statistics after employee writes
type StatsInvalidator interface {
	Invalidate(ctx context.Context) error
}

// AdminAuthResult is returned by administrator sign in
type AdminAuthResult struct {
	Admin     *models.AdminResponse `json:"admin"`
	Token     string                `json:"token"`
	ExpiresAt time.Time             `json:"-"`
}

// EmployeeAuthResult is returned by employee sign in and account claim
type EmployeeAuthResult struct {
	Employee  *models.EmployeeResponse `json:"employee"`
	Token     string                   `json:"token"`
	ExpiresAt time.Time                `json:"-"`
}

// asTimeout folds context deadline errors into domain.ErrTimeout
func asTimeout(err error) error {
	if err == nil || errors.Is(err, domain.ErrTimeout) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}
	return err
}

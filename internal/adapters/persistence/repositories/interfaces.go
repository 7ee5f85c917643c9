package repositories

import (
	"context"
	"time"

	"employee-portal/internal/adapters/persistence/models"
)

// EmployeeFilter narrows an employee listing
type EmployeeFilter struct {
	Department string
	Status     string
	Search     string
	Offset     int
	Limit      int
}

// EmployeeRepository defines employee repository interface
type EmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	GetByID(ctx context.Context, id string) (*models.Employee, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*models.Employee, error)
	// Update writes models.ProfileColumns only.
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter EmployeeFilter) ([]*models.Employee, int64, error)
	ExistsByEmployeeID(ctx context.Context, employeeID, excludeID string) (bool, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)

	// ClaimAccount sets the credential fields only if the record is still Active and
	// unclaimed. It reports false when another writer got there first.
	ClaimAccount(ctx context.Context, id, passwordHash string, at time.Time) (bool, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error

	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	DepartmentStats(ctx context.Context) ([]models.DepartmentStat, error)
}

// AdminRepository defines admin repository interface
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id string) (*models.Admin, error)
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	// GetByIdentifier matches username exactly or email case-insensitively.
	GetByIdentifier(ctx context.Context, identifier string) (*models.Admin, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	Count(ctx context.Context) (int64, error)
}

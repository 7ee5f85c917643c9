package repositories

import (
	"context"
	"strings"
	"time"

	"employee-portal/internal/adapters/persistence/models"
	"employee-portal/internal/core/domain"

	"gorm.io/gorm"
)

// employeeRepository implements EmployeeRepository interface
type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) withAudit(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("CreatedBy").Preload("UpdatedBy")
}

// Create creates a new employee
func (r *employeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	return translateError(r.db.WithContext(ctx).Create(employee).Error)
}

// GetByID gets an employee by record ID
func (r *employeeRepository) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	var employee models.Employee
	err := r.withAudit(ctx).Where("id = ?", id).First(&employee).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &employee, nil
}

// GetByEmployeeID gets an employee by business identifier
func (r *employeeRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).Where("employee_id = ?", employeeID).First(&employee).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &employee, nil
}

// Update writes the profile columns of an employee
func (r *employeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	return translateError(r.db.WithContext(ctx).
		Model(employee).
		Select(models.ProfileColumns).
		Updates(employee).Error)
}

// Delete hard deletes an employee
func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Employee{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lists employees matching filter, newest first
func (r *employeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]*models.Employee, int64, error) {
	var employees []*models.Employee
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Employee{})
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + escapeLike(strings.ToLower(filter.Search)) + "%"
		query = query.Where(
			"(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(employee_id) LIKE ? OR LOWER(position) LIKE ?)",
			like, like, like, like, like,
		)
	}

	// Count total
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	// Get page
	err := query.Session(&gorm.Session{}).
		Preload("CreatedBy").
		Preload("UpdatedBy").
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&employees).Error
	if err != nil {
		return nil, 0, translateError(err)
	}

	return employees, total, nil
}

// ExistsByEmployeeID checks if an employee ID is taken by a record other than excludeID
func (r *employeeRepository) ExistsByEmployeeID(ctx context.Context, employeeID, excludeID string) (bool, error) {
	return r.exists(ctx, "employee_id = ?", employeeID, excludeID)
}

// ExistsByEmail checks if an email is taken by a record other than excludeID
func (r *employeeRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return r.exists(ctx, "email = ?", strings.ToLower(email), excludeID)
}

func (r *employeeRepository) exists(ctx context.Context, cond, value, excludeID string) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Employee{}).Where(cond, value)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, translateError(err)
}

// ClaimAccount attaches credentials to an active, unclaimed employee in one conditional write
func (r *employeeRepository) ClaimAccount(ctx context.Context, id, passwordHash string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("id = ? AND has_account = ? AND status = ?", id, false, string(domain.StatusActive)).
		Updates(map[string]interface{}{
			"password":           passwordHash,
			"has_account":        true,
			"account_created_at": at,
		})
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	return result.RowsAffected == 1, nil
}

// TouchLastLogin records a successful sign in
func (r *employeeRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return translateError(r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("id = ?", id).
		UpdateColumn("last_login", at).Error)
}

// Count counts all employees
func (r *employeeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Employee{}).Count(&count).Error
	return count, translateError(err)
}

// CountByStatus counts employees with status
func (r *employeeRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Employee{}).Where("status = ?", status).Count(&count).Error
	return count, translateError(err)
}

// DepartmentStats aggregates headcount and average salary per department
func (r *employeeRepository) DepartmentStats(ctx context.Context) ([]models.DepartmentStat, error) {
	var stats []models.DepartmentStat
	err := r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Select("department, COUNT(*) AS count, AVG(salary) AS avg_salary").
		Group("department").
		Order("count DESC").
		Scan(&stats).Error
	if err != nil {
		return nil, translateError(err)
	}
	return stats, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

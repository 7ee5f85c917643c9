// Package memory provides process-local repositories with the same uniqueness and
// conditional-write guarantees as the SQL ones.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"employee-portal/internal/adapters/persistence/models"
	"employee-portal/internal/adapters/persistence/repositories"
	"employee-portal/internal/core/domain"

	"github.com/google/uuid"
)

// Store holds admins and employees behind a single lock
type Store struct {
	mu        sync.RWMutex
	employees map[string]*employeeRow
	admins    map[string]*models.Admin
	seq       uint64
	now       func() time.Time
}

type employeeRow struct {
	models.Employee
	seq uint64
}

// New creates an empty store
func New() *Store {
	return &Store{
		employees: make(map[string]*employeeRow),
		admins:    make(map[string]*models.Admin),
		now:       time.Now,
	}
}

// WithClock replaces the clock used for timestamps
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Employees returns the employee repository view
func (s *Store) Employees() repositories.EmployeeRepository {
	return &employeeRepository{s: s}
}

// Admins returns the admin repository view
func (s *Store) Admins() repositories.AdminRepository {
	return &adminRepository{s: s}
}

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
		}
		return err
	}
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyAdmin(a *models.Admin) *models.Admin {
	if a == nil {
		return nil
	}
	out := *a
	out.LastLogin = copyTime(a.LastLogin)
	return &out
}

// ============================================================
// Employees
// ============================================================

type employeeRepository struct {
	s *Store
}

// snapshot copies a row and resolves its audit references. Caller holds the lock.
func (r *employeeRepository) snapshot(row *employeeRow) *models.Employee {
	out := row.Employee
	out.AccountCreatedAt = copyTime(row.AccountCreatedAt)
	out.LastLogin = copyTime(row.LastLogin)
	out.CreatedByID = copyString(row.CreatedByID)
	out.UpdatedByID = copyString(row.UpdatedByID)
	out.CreatedBy = nil
	out.UpdatedBy = nil
	if row.CreatedByID != nil {
		out.CreatedBy = copyAdmin(r.s.admins[*row.CreatedByID])
	}
	if row.UpdatedByID != nil {
		out.UpdatedBy = copyAdmin(r.s.admins[*row.UpdatedByID])
	}
	return &out
}

// conflicts reports whether another row already owns employeeID or email. Caller holds the lock.
func (r *employeeRepository) conflicts(id, employeeID, email string) bool {
	for _, row := range r.s.employees {
		if row.ID == id {
			continue
		}
		if employeeID != "" && row.EmployeeID == employeeID {
			return true
		}
		if strings.EqualFold(row.Email, email) {
			return true
		}
	}
	return false
}

func (r *employeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}
	if _, ok := r.s.employees[employee.ID]; ok {
		return domain.ErrDuplicateEntry
	}
	if r.conflicts(employee.ID, employee.EmployeeID, employee.Email) {
		return domain.ErrDuplicateEntry
	}

	now := r.s.now()
	employee.CreatedAt = now
	employee.UpdatedAt = now

	r.s.seq++
	row := &employeeRow{Employee: *employee, seq: r.s.seq}
	row.CreatedBy = nil
	row.UpdatedBy = nil
	row.CreatedByID = copyString(employee.CreatedByID)
	row.UpdatedByID = copyString(employee.UpdatedByID)
	row.AccountCreatedAt = copyTime(employee.AccountCreatedAt)
	row.LastLogin = copyTime(employee.LastLogin)
	r.s.employees[employee.ID] = row
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.employees[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.snapshot(row), nil
}

func (r *employeeRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*models.Employee, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, row := range r.s.employees {
		if row.EmployeeID == employeeID {
			return r.snapshot(row), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *employeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.employees[employee.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if r.conflicts(employee.ID, "", employee.Email) {
		return domain.ErrDuplicateEntry
	}

	row.FirstName = employee.FirstName
	row.LastName = employee.LastName
	row.Email = employee.Email
	row.Phone = employee.Phone
	row.Department = employee.Department
	row.Position = employee.Position
	row.Salary = employee.Salary
	row.HireDate = employee.HireDate
	row.Status = employee.Status
	row.Address = employee.Address
	row.EmergencyContact = employee.EmergencyContact
	row.UpdatedByID = copyString(employee.UpdatedByID)
	row.UpdatedAt = r.s.now()
	employee.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.employees[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.employees, id)
	return nil
}

func (r *employeeRepository) List(ctx context.Context, filter repositories.EmployeeFilter) ([]*models.Employee, int64, error) {
	if err := checkContext(ctx); err != nil {
		return nil, 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	var matched []*employeeRow
	for _, row := range r.s.employees {
		if filter.Department != "" && row.Department != filter.Department {
			continue
		}
		if filter.Status != "" && row.Status != filter.Status {
			continue
		}
		if search != "" && !matchesSearch(&row.Employee, search) {
			continue
		}
		matched = append(matched, row)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].seq > matched[j].seq
	})

	total := int64(len(matched))
	start := filter.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}

	out := make([]*models.Employee, 0, end-start)
	for _, row := range matched[start:end] {
		out = append(out, r.snapshot(row))
	}
	return out, total, nil
}

func matchesSearch(e *models.Employee, needle string) bool {
	for _, field := range []string{e.FirstName, e.LastName, e.Email, e.EmployeeID, e.Position} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func (r *employeeRepository) ExistsByEmployeeID(ctx context.Context, employeeID, excludeID string) (bool, error) {
	if err := checkContext(ctx); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, row := range r.s.employees {
		if row.ID != excludeID && row.EmployeeID == employeeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *employeeRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	if err := checkContext(ctx); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, row := range r.s.employees {
		if row.ID != excludeID && strings.EqualFold(row.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *employeeRepository) ClaimAccount(ctx context.Context, id, passwordHash string, at time.Time) (bool, error) {
	if err := checkContext(ctx); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.employees[id]
	if !ok || row.HasAccount || row.Status != string(domain.StatusActive) {
		return false, nil
	}
	row.Password = passwordHash
	row.HasAccount = true
	row.AccountCreatedAt = copyTime(&at)
	row.UpdatedAt = r.s.now()
	return true, nil
}

func (r *employeeRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.employees[id]
	if !ok {
		return domain.ErrNotFound
	}
	row.LastLogin = copyTime(&at)
	return nil
}

func (r *employeeRepository) Count(ctx context.Context) (int64, error) {
	if err := checkContext(ctx); err != nil {
		return 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.employees)), nil
}

func (r *employeeRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	if err := checkContext(ctx); err != nil {
		return 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, row := range r.s.employees {
		if row.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *employeeRepository) DepartmentStats(ctx context.Context) ([]models.DepartmentStat, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	type acc struct {
		count int64
		sum   float64
	}
	byDept := make(map[string]*acc)
	for _, row := range r.s.employees {
		a, ok := byDept[row.Department]
		if !ok {
			a = &acc{}
			byDept[row.Department] = a
		}
		a.count++
		a.sum += row.Salary
	}

	stats := make([]models.DepartmentStat, 0, len(byDept))
	for dept, a := range byDept {
		stats = append(stats, models.DepartmentStat{
			Department: dept,
			Count:      a.count,
			AvgSalary:  a.sum / float64(a.count),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Department < stats[j].Department
	})
	return stats, nil
}

// ============================================================
// Admins
// ============================================================

type adminRepository struct {
	s *Store
}

func (r *adminRepository) Create(ctx context.Context, admin *models.Admin) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	for _, a := range r.s.admins {
		if a.ID == admin.ID || a.Username == admin.Username || strings.EqualFold(a.Email, admin.Email) {
			return domain.ErrDuplicateEntry
		}
	}

	now := r.s.now()
	admin.CreatedAt = now
	admin.UpdatedAt = now
	r.s.admins[admin.ID] = copyAdmin(admin)
	return nil
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.admins[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyAdmin(a), nil
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.admins {
		if a.Username == username {
			return copyAdmin(a), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *adminRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.Admin, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.admins {
		if a.Username == identifier || strings.EqualFold(a.Email, identifier) {
			return copyAdmin(a), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *adminRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.admins[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.LastLogin = copyTime(&at)
	return nil
}

func (r *adminRepository) Count(ctx context.Context) (int64, error) {
	if err := checkContext(ctx); err != nil {
		return 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.admins)), nil
}

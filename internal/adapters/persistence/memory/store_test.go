package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"employee-portal/internal/adapters/persistence/models"
	"employee-portal/internal/adapters/persistence/repositories"
	"employee-portal/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmployee(employeeID, email string) *models.Employee {
	return &models.Employee{
		EmployeeID: employeeID,
		FirstName:  "Casey",
		LastName:   "Lee",
		Email:      email,
		Department: "IT",
		Position:   "Engineer",
		Salary:     1000,
		Status:     string(domain.StatusActive),
	}
}

func TestEmployeeUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := New().Employees()

	require.NoError(t, repo.Create(ctx, newEmployee("EMP0001", "casey@example.com")))
	assert.ErrorIs(t, repo.Create(ctx, newEmployee("EMP0001", "other@example.com")), domain.ErrDuplicateEntry)
	assert.ErrorIs(t, repo.Create(ctx, newEmployee("EMP0002", "CASEY@example.com")), domain.ErrDuplicateEntry)

	second := newEmployee("EMP0002", "second@example.com")
	require.NoError(t, repo.Create(ctx, second))

	second.Email = "casey@example.com"
	assert.ErrorIs(t, repo.Update(ctx, second), domain.ErrDuplicateEntry)
}

func TestClaimAccountSucceedsOnce(t *testing.T) {
	ctx := context.Background()
	repo := New().Employees()
	e := newEmployee("EMP0001", "casey@example.com")
	require.NoError(t, repo.Create(ctx, e))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.ClaimAccount(ctx, e.ID, "hash", time.Now())
			assert.NoError(t, err)
			if ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	got, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, got.HasAccount)
	assert.NotNil(t, got.AccountCreatedAt)
}

func TestClaimAccountRequiresActive(t *testing.T) {
	ctx := context.Background()
	repo := New().Employees()
	e := newEmployee("EMP0001", "casey@example.com")
	e.Status = string(domain.StatusInactive)
	require.NoError(t, repo.Create(ctx, e))

	ok, err := repo.ClaimAccount(ctx, e.ID, "hash", time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateLeavesCredentialsAlone(t *testing.T) {
	ctx := context.Background()
	repo := New().Employees()
	e := newEmployee("EMP0001", "casey@example.com")
	require.NoError(t, repo.Create(ctx, e))
	_, err := repo.ClaimAccount(ctx, e.ID, "hash", time.Now())
	require.NoError(t, err)

	patch := newEmployee("EMP9999", "casey@example.com")
	patch.ID = e.ID
	patch.FirstName = "Robin"
	patch.HasAccount = false
	patch.Password = ""
	require.NoError(t, repo.Update(ctx, patch))

	got, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Robin", got.FirstName)
	assert.Equal(t, "EMP0001", got.EmployeeID)
	assert.True(t, got.HasAccount)
	assert.Equal(t, "hash", got.Password)
}

func TestListFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := New().WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	})
	repo := store.Employees()

	a := newEmployee("EMP0001", "a@example.com")
	b := newEmployee("EMP0002", "b@example.com")
	b.Department = "HR"
	c := newEmployee("EMP0003", "c@example.com")
	c.Position = "Data Analyst"
	for _, e := range []*models.Employee{a, b, c} {
		require.NoError(t, repo.Create(ctx, e))
	}

	all, total, err := repo.List(ctx, repositories.EmployeeFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []string{"EMP0003", "EMP0002", "EMP0001"}, employeeIDs(all))

	it, total, err := repo.List(ctx, repositories.EmployeeFilter{Department: "IT", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, []string{"EMP0003", "EMP0001"}, employeeIDs(it))

	found, _, err := repo.List(ctx, repositories.EmployeeFilter{Search: "ANALYST", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"EMP0003"}, employeeIDs(found))

	page, total, err := repo.List(ctx, repositories.EmployeeFilter{Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []string{"EMP0001"}, employeeIDs(page))
}

func TestSnapshotsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := New()
	admin := &models.Admin{Username: "root", Email: "root@example.com", Role: domain.AdminRoleAdmin, IsActive: true}
	require.NoError(t, store.Admins().Create(ctx, admin))

	e := newEmployee("EMP0001", "casey@example.com")
	e.CreatedByID = &admin.ID
	require.NoError(t, store.Employees().Create(ctx, e))

	got, err := store.Employees().GetByID(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CreatedBy)
	assert.Equal(t, "root", got.CreatedBy.Username)

	got.FirstName = "Mutated"
	again, err := store.Employees().GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Casey", again.FirstName)
}

func TestAdminLookup(t *testing.T) {
	ctx := context.Background()
	repo := New().Admins()
	require.NoError(t, repo.Create(ctx, &models.Admin{Username: "root", Email: "root@example.com", IsActive: true}))
	assert.ErrorIs(t, repo.Create(ctx, &models.Admin{Username: "root", Email: "x@example.com"}), domain.ErrDuplicateEntry)

	byEmail, err := repo.GetByIdentifier(ctx, "ROOT@example.com")
	require.NoError(t, err)
	assert.Equal(t, "root", byEmail.Username)

	_, err = repo.GetByIdentifier(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExpiredContextIsTimeout(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := New().Employees().GetByID(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrTimeout)
}

func employeeIDs(es []*models.Employee) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.EmployeeID)
	}
	return out
}

package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"employee-portal/internal/adapters/persistence/models"
	"employee-portal/internal/core/domain"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlRecorder keeps every statement GORM would have sent
type sqlRecorder struct {
	mu   sync.Mutex
	sqls []string
}

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{}) {}

func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.mu.Lock()
	r.sqls = append(r.sqls, sql)
	r.mu.Unlock()
}

func (r *sqlRecorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sqls) == 0 {
		return ""
	}
	return r.sqls[len(r.sqls)-1]
}

func (r *sqlRecorder) all() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.sqls, "\n")
}

func newDryRunDB(t *testing.T) (*gorm.DB, *sqlRecorder) {
	t.Helper()
	rec := &sqlRecorder{}
	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		DSN:                       "user:pass@tcp(127.0.0.1:3306)/employees?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               rec,
	})
	require.NoError(t, err)
	return db, rec
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))
	assert.ErrorIs(t, translateError(gorm.ErrRecordNotFound), domain.ErrNotFound)
	assert.ErrorIs(t, translateError(fmt.Errorf("wrapped: %w", gorm.ErrRecordNotFound)), domain.ErrNotFound)
	assert.ErrorIs(t, translateError(gorm.ErrDuplicatedKey), domain.ErrDuplicateEntry)
	assert.ErrorIs(t, translateError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}), domain.ErrDuplicateEntry)
	assert.ErrorIs(t, translateError(&pgconn.PgError{Code: "23505"}), domain.ErrDuplicateEntry)

	timeout := translateError(context.DeadlineExceeded)
	assert.ErrorIs(t, timeout, domain.ErrTimeout)
	assert.ErrorIs(t, timeout, context.DeadlineExceeded)

	other := errors.New("connection refused")
	assert.Equal(t, other, translateError(other))
	assert.NotErrorIs(t, translateError(&mysql.MySQLError{Number: 1045}), domain.ErrDuplicateEntry)
}

func TestClaimAccountIsConditional(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewEmployeeRepository(db)

	claimed, err := repo.ClaimAccount(context.Background(), "rec-1", "hash", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, claimed, "dry run affects no rows")

	sql := rec.last()
	assert.Contains(t, sql, "UPDATE `employees` SET")
	assert.Contains(t, sql, "`has_account`=true")
	assert.Contains(t, sql, "`password`='hash'")
	assert.Contains(t, sql, "id = 'rec-1' AND has_account = false AND status = 'Active'")
}

func TestUpdateWritesProfileColumnsOnly(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewEmployeeRepository(db)

	e := &models.Employee{
		ID:         "rec-1",
		EmployeeID: "EMP0001",
		FirstName:  "Jordan",
		Password:   "should-not-be-written",
		HasAccount: true,
	}
	require.NoError(t, repo.Update(context.Background(), e))

	sql := rec.last()
	assert.Contains(t, sql, "UPDATE `employees` SET")
	assert.Contains(t, sql, "`first_name`='Jordan'")
	assert.Contains(t, sql, "`address_zip_code`=")
	assert.Contains(t, sql, "WHERE `id` = 'rec-1'")
	assert.NotContains(t, sql, "`password`")
	assert.NotContains(t, sql, "`has_account`")
	assert.NotContains(t, sql, "`employee_id`")
	assert.NotContains(t, sql, "`account_created_at`")
}

func TestDeleteIsHardAndReportsMissing(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewEmployeeRepository(db)

	err := repo.Delete(context.Background(), "rec-9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, rec.last(), "DELETE FROM `employees` WHERE id = 'rec-9'")
}

func TestListBuildsFilteredQuery(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewEmployeeRepository(db)

	_, _, err := repo.List(context.Background(), EmployeeFilter{
		Department: "IT",
		Status:     "Active",
		Search:     "50%_Ann",
		Offset:     20,
		Limit:      10,
	})
	require.NoError(t, err)

	sql := rec.all()
	assert.Contains(t, sql, "SELECT count(*) FROM `employees`")
	assert.Contains(t, sql, "department = 'IT'")
	assert.Contains(t, sql, "status = 'Active'")
	assert.Contains(t, sql, "LOWER(employee_id) LIKE")
	assert.Contains(t, sql, `%50\%\_ann%`)
	assert.Contains(t, sql, "ORDER BY created_at DESC LIMIT 10 OFFSET 20")
}

func TestTouchLastLoginOnlyWritesLastLogin(t *testing.T) {
	db, rec := newDryRunDB(t)

	require.NoError(t, NewAdminRepository(db).TouchLastLogin(context.Background(), "adm-1", time.Now()))
	sql := rec.last()
	assert.Contains(t, sql, "UPDATE `admins` SET `last_login`=")
	assert.NotContains(t, sql, "updated_at")
}

func TestGetByIdentifierMatchesUsernameOrEmail(t *testing.T) {
	db, rec := newDryRunDB(t)

	_, _ = NewAdminRepository(db).GetByIdentifier(context.Background(), "Root@Example.com")
	assert.Contains(t, rec.last(), "username = 'Root@Example.com' OR email = 'root@example.com'")
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\%b\_c\\d`, escapeLike(`a%b_c\d`))
}

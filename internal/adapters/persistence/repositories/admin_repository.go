package repositories

import (
	"context"
	"strings"
	"time"

	"employee-portal/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// adminRepository implements AdminRepository interface
type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

// Create creates a new admin
func (r *adminRepository) Create(ctx context.Context, admin *models.Admin) error {
	return translateError(r.db.WithContext(ctx).Create(admin).Error)
}

// GetByID gets an admin by ID
func (r *adminRepository) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&admin).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &admin, nil
}

// GetByUsername gets an admin by username
func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &admin, nil
}

// GetByIdentifier gets an admin by username or email
func (r *adminRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).
		First(&admin).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &admin, nil
}

// TouchLastLogin records a successful sign in
func (r *adminRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return translateError(r.db.WithContext(ctx).
		Model(&models.Admin{}).
		Where("id = ?", id).
		UpdateColumn("last_login", at).Error)
}

// Count counts admins
func (r *adminRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Admin{}).Count(&count).Error
	return count, translateError(err)
}

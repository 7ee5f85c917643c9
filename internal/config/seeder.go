package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"employee-portal/internal/adapters/persistence/models"
	"employee-portal/internal/adapters/persistence/repositories"
	"employee-portal/internal/core/domain"
	"employee-portal/internal/pkg/password"
)

// AdminSeed describes an administrator to provision
type AdminSeed struct {
	Username string
	Email    string
	Password string
	Role     string
}

// EnsureAdmin creates the administrator unless the username is taken. It reports
// whether a record was created.
func EnsureAdmin(ctx context.Context, repo repositories.AdminRepository, seed AdminSeed, cost int) (bool, error) {
	seed.Username = strings.TrimSpace(seed.Username)
	seed.Email = strings.ToLower(strings.TrimSpace(seed.Email))
	if seed.Role == "" {
		seed.Role = domain.AdminRoleAdmin
	}

	if seed.Username == "" || seed.Email == "" {
		return false, errors.New("username and email are required")
	}
	if seed.Role != domain.AdminRoleAdmin && seed.Role != domain.AdminRoleSuperAdmin {
		return false, fmt.Errorf("invalid role %q", seed.Role)
	}
	if err := password.CheckPolicy(seed.Password); err != nil {
		return false, err
	}

	_, err := repo.GetByUsername(ctx, seed.Username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}

	hash, err := password.HashContext(ctx, seed.Password, cost)
	if err != nil {
		return false, err
	}

	admin := &models.Admin{
		Username: seed.Username,
		Email:    seed.Email,
		Password: hash,
		Role:     seed.Role,
		IsActive: true,
	}
	if err := repo.Create(ctx, admin); err != nil {
		return false, err
	}
	return true, nil
}

// Seeder handles database seeding
type Seeder struct {
	admins repositories.AdminRepository
	cfg    *Config
	log    *slog.Logger
}

// NewSeeder creates a new seeder instance
func NewSeeder(admins repositories.AdminRepository, cfg *Config, log *slog.Logger) *Seeder {
	return &Seeder{admins: admins, cfg: cfg, log: log}
}

// Run seeds the development administrator when no administrator exists.
// Production administrators are created with the createadmin command.
func (s *Seeder) Run(ctx context.Context) error {
	if !s.cfg.IsDev() {
		return nil
	}

	count, err := s.admins.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if s.cfg.Seed.Password == "" {
		s.log.Warn("admin seed skipped: SEED_ADMIN_PASSWORD is not set")
		return nil
	}

	created, err := EnsureAdmin(ctx, s.admins, AdminSeed{
		Username: s.cfg.Seed.Username,
		Email:    s.cfg.Seed.Email,
		Password: s.cfg.Seed.Password,
		Role:     domain.AdminRoleSuperAdmin,
	}, s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		s.log.Info("admin user created", slog.String("username", s.cfg.Seed.Username))
	}
	return nil
}

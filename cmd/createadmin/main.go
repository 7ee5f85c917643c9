// Command createadmin provisions an administrator account. Running it again with
// an existing username changes nothing.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"employee-portal/internal/adapters/persistence/models"
	"employee-portal/internal/adapters/persistence/repositories"
	"employee-portal/internal/config"
	"employee-portal/internal/core/domain"
)

func main() {
	username := flag.String("username", "", "administrator username")
	email := flag.String("email", "", "administrator email")
	role := flag.String("role", domain.AdminRoleAdmin, "admin or super_admin")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := config.NewLogger(os.Stderr, cfg)

	// Password is read from ADMIN_PASSWORD, never from flags
	secret := os.Getenv("ADMIN_PASSWORD")
	if *username == "" || *email == "" || secret == "" {
		fmt.Fprintln(os.Stderr, "usage: ADMIN_PASSWORD=... createadmin -username NAME -email ADDRESS [-role admin|super_admin]")
		os.Exit(2)
	}

	if err := run(cfg, log, config.AdminSeed{
		Username: *username,
		Email:    *email,
		Password: secret,
		Role:     *role,
	}); err != nil {
		log.Error("create admin failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger, seed config.AdminSeed) error {
	if cfg.Database.Driver == config.DriverMemory {
		return fmt.Errorf("createadmin needs a SQL database, DB_DRIVER is %q", cfg.Database.Driver)
	}

	db, err := config.ConnectDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer config.CloseDatabase(db)

	if err := models.AutoMigrate(db); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	created, err := config.EnsureAdmin(ctx, repositories.NewAdminRepository(db), seed, cfg.BcryptCost)
	if err != nil {
		return err
	}
	if !created {
		log.Info("admin already exists, nothing changed", slog.String("username", seed.Username))
		return nil
	}
	log.Info("admin created", slog.String("username", seed.Username), slog.String("role", seed.Role))
	return nil
}

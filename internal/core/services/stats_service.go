package services

import (
	"context"
	"log/slog"

	"employee-portal/internal/adapters/cache"
	"employee-portal/internal/adapters/persistence/models"
	"employee-portal/internal/adapters/persistence/repositories"
	"employee-portal/internal/core/domain"

	"golang.org/x/sync/errgroup"
)

// StatsService computes the employee headcount overview
type StatsService struct {
	employeeRepo repositories.EmployeeRepository
	cache        *cache.StatsCache
	log          *slog.Logger
}

// NewStatsService creates a new stats service. A nil cache disables caching.
func NewStatsService(employeeRepo repositories.EmployeeRepository, statsCache *cache.StatsCache, log *slog.Logger) *StatsService {
	return &StatsService{
		employeeRepo: employeeRepo,
		cache:        statsCache,
		log:          log,
	}
}

// OverviewCounts are headcounts per status
type OverviewCounts struct {
	Total      int64 `json:"total"`
	Active     int64 `json:"active"`
	Inactive   int64 `json:"inactive"`
	Terminated int64 `json:"terminated"`
}

// Overview is the statistics payload
type Overview struct {
	Overview    OverviewCounts          `json:"overview"`
	Departments []models.DepartmentStat `json:"departments"`
}

// Overview returns the cached snapshot or computes a fresh one
func (s *StatsService) Overview(ctx context.Context) (*Overview, error) {
	var cached Overview
	hit, err := s.cache.Get(ctx, &cached)
	if err != nil {
		s.log.WarnContext(ctx, "stats cache read failed", slog.Any("error", err))
	}
	if hit {
		return &cached, nil
	}

	return s.computeAndStore(ctx)
}

// Refresh recomputes the snapshot and stores it
func (s *StatsService) Refresh(ctx context.Context) error {
	_, err := s.computeAndStore(ctx)
	return err
}

// computeAndStore caches the result only when no employee write invalidated the
// cache while it was computed
func (s *StatsService) computeAndStore(ctx context.Context) (*Overview, error) {
	gen, genErr := s.cache.Generation(ctx)
	if genErr != nil {
		s.log.WarnContext(ctx, "stats cache read failed", slog.Any("error", genErr))
	}

	overview, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		return overview, nil
	}

	stored, err := s.cache.SetIfGeneration(ctx, gen, overview)
	if err != nil {
		s.log.WarnContext(ctx, "stats cache write failed", slog.Any("error", err))
	} else if !stored && s.cache.Enabled() {
		s.log.DebugContext(ctx, "stats snapshot discarded, employees changed during computation")
	}
	return overview, nil
}

// Invalidate drops the cached snapshot
func (s *StatsService) Invalidate(ctx context.Context) error {
	if s == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}

func (s *StatsService) compute(ctx context.Context) (*Overview, error) {
	var out Overview

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.employeeRepo.Count(ctx)
		out.Overview.Total = n
		return err
	})
	g.Go(func() error {
		n, err := s.employeeRepo.CountByStatus(ctx, string(domain.StatusActive))
		out.Overview.Active = n
		return err
	})
	g.Go(func() error {
		n, err := s.employeeRepo.CountByStatus(ctx, string(domain.StatusInactive))
		out.Overview.Inactive = n
		return err
	})
	g.Go(func() error {
		n, err := s.employeeRepo.CountByStatus(ctx, string(domain.StatusTerminated))
		out.Overview.Terminated = n
		return err
	})
	g.Go(func() error {
		stats, err := s.employeeRepo.DepartmentStats(ctx)
		out.Departments = stats
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, asTimeout(err)
	}
	if out.Departments == nil {
		out.Departments = []models.DepartmentStat{}
	}
	return &out, nil
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// statsRefreshTimeout bounds one scheduled refresh
const statsRefreshTimeout = 30 * time.Second

// CronService runs scheduled background jobs
type CronService struct {
	cron  *cron.Cron
	stats *StatsService
	log   *slog.Logger
}

// NewCronService creates a scheduler that re-warms the stats cache on schedule
func NewCronService(stats *StatsService, schedule string, log *slog.Logger) (*CronService, error) {
	s := &CronService{
		cron:  cron.New(),
		stats: stats,
		log:   log,
	}
	if _, err := s.cron.AddFunc(schedule, s.refreshStats); err != nil {
		return nil, fmt.Errorf("cron: schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start starts the scheduler in the background
func (s *CronService) Start() {
	s.cron.Start()
	s.log.Info("cron service started", slog.Int("jobs", len(s.cron.Entries())))
}

// Stop stops the scheduler and waits for a running job to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("cron service stopped")
}

func (s *CronService) refreshStats() {
	ctx, cancel := context.WithTimeout(context.Background(), statsRefreshTimeout)
	defer cancel()

	if err := s.stats.Refresh(ctx); err != nil {
		s.log.Error("stats refresh failed", slog.Any("error", err))
		return
	}
	s.log.Debug("stats cache refreshed")
}

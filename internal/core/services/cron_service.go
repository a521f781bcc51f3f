package services

import (
	"context"
	"fmt"
	"time"

	"nonprofit-api/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSweepSpec runs the reset token sweep every 15 minutes
const DefaultSweepSpec = "@every 15m"

// CronService runs periodic maintenance jobs
type CronService struct {
	cron      *cron.Cron
	adminRepo repositories.AdminRepository
	sweepSpec string
	logger    *zap.Logger

	now Clock
}

// NewCronService creates a new cron service
func NewCronService(adminRepo repositories.AdminRepository, sweepSpec string, logger *zap.Logger) *CronService {
	if sweepSpec == "" {
		sweepSpec = DefaultSweepSpec
	}
	return &CronService{
		cron:      cron.New(),
		adminRepo: adminRepo,
		sweepSpec: sweepSpec,
		logger:    logger,
		now:       time.Now,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	_, err := s.cron.AddFunc(s.sweepSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if _, err := s.SweepExpiredResetTokens(ctx); err != nil {
			s.logger.Error("reset token sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule reset token sweep %q: %w", s.sweepSpec, err)
	}

	s.cron.Start()
	s.logger.Info("cron started", zap.String("reset_token_sweep", s.sweepSpec))
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("cron stopped")
}

// SweepExpiredResetTokens clears reset tokens whose window has passed
func (s *CronService) SweepExpiredResetTokens(ctx context.Context) (int64, error) {
	n, err := s.adminRepo.ClearExpiredResetTokens(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("expired reset tokens cleared", zap.Int64("count", n))
	}
	return n, nil
}

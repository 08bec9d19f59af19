package scheduler

import (
	"github.com/ikkim/gamecatalog-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// TokenSweeper clears reset session tokens that are no longer valid.
type TokenSweeper interface {
	SweepExpiredTokens() (int, error)
}

// ResetTokenSweeper periodically clears expired reset tokens so that users
// who abandoned a reset are not left holding a stale token.
type ResetTokenSweeper struct {
	cron    *cron.Cron
	sweeper TokenSweeper
	spec    string
}

// NewResetTokenSweeper takes a standard five field cron expression.
func NewResetTokenSweeper(sweeper TokenSweeper, spec string) *ResetTokenSweeper {
	return &ResetTokenSweeper{
		cron:    cron.New(),
		sweeper: sweeper,
		spec:    spec,
	}
}

func (s *ResetTokenSweeper) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		logger.Error("Failed to add cron job for reset token sweep", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Reset token sweeper started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// RunOnce performs a single sweep. Failures are logged and retried on the
// next tick.
func (s *ResetTokenSweeper) RunOnce() {
	cleared, err := s.sweeper.SweepExpiredTokens()
	if err != nil {
		logger.Error("Failed to sweep expired reset tokens", err)
		return
	}
	if cleared > 0 {
		logger.Info("Cleared expired reset tokens", map[string]interface{}{
			"cleared": cleared,
		})
	}
}

// Stop waits for a running sweep to finish.
func (s *ResetTokenSweeper) Stop() {
	logger.Info("Stopping reset token sweeper...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Reset token sweeper stopped", nil)
}

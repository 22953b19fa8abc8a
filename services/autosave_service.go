// services/autosave_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Flusher writes the full current state to storage.
type Flusher interface {
	Flush(ctx context.Context)
}

// AutosaveService flushes on a fixed interval whether or not anything changed.
type AutosaveService struct {
	flusher  Flusher
	interval time.Duration
	logger   *zap.Logger
	cron     *cron.Cron
}

func NewAutosaveService(flusher Flusher, interval time.Duration, logger *zap.Logger) *AutosaveService {
	return &AutosaveService{
		flusher:  flusher,
		interval: interval,
		logger:   logger.Named("autosave"),
	}
}

func (s *AutosaveService) StartScheduler() error {
	if s.interval <= 0 {
		return errors.New("autosave interval must be positive")
	}
	if s.cron != nil {
		return errors.New("autosave scheduler already started")
	}

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", s.interval), s.RunOnce); err != nil {
		return fmt.Errorf("schedule autosave: %w", err)
	}
	c.Start()
	s.cron = c

	s.logger.Info("Autosave scheduler started", zap.Duration("interval", s.interval))
	return nil
}

// RunOnce performs a single flush.
func (s *AutosaveService) RunOnce() {
	s.flusher.Flush(context.Background())
	s.logger.Info("Auto-save completed", zap.Time("at", time.Now()))
}

// Stop halts the scheduler and waits for a running flush to finish or ctx to end.
func (s *AutosaveService) Stop(ctx context.Context) {
	if s.cron == nil {
		return
	}
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("Autosave still running at shutdown deadline")
	}
}

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"vacancy-backend/utils"
)

// Status describes the outcome of the most recent flushes. A non-zero
// ConsecutiveFailures means memory holds changes storage does not.
type Status struct {
	Backend             string     `json:"backend"`
	LastSavedAt         *time.Time `json:"lastSavedAt"`
	LastError           string     `json:"lastError,omitempty"`
	LastErrorAt         *time.Time `json:"lastErrorAt,omitempty"`
	ConsecutiveFailures int        `json:"consecutiveFailures"`
}

func (s Status) Healthy() bool { return s.ConsecutiveFailures == 0 }

// BackupResult is what a successful backup reports back to the caller.
type BackupResult struct {
	File           string `json:"file"`
	TotalRooms     int    `json:"totalRooms"`
	TotalCustomers int    `json:"totalCustomers"`
	BackupDate     string `json:"backupDate"`
}

// Persister applies the storage policy on top of a Backend: loading and
// flushing never fail for the caller, backups do.
type Persister struct {
	backend Backend
	logger  *zap.Logger
	now     func() time.Time

	mu     sync.Mutex
	status Status
}

func NewPersister(backend Backend, logger *zap.Logger) *Persister {
	return &Persister{
		backend: backend,
		logger:  logger.Named("store"),
		now:     utils.Now,
		status:  Status{Backend: backend.Name()},
	}
}

// Load returns the stored Document, or an empty one if it cannot be read.
// Records the backend skipped are logged and the rest is kept.
func (p *Persister) Load(ctx context.Context) Document {
	doc, err := p.backend.Load(ctx)
	var skipped *SkippedRecordsError
	if errors.As(err, &skipped) {
		p.logger.Warn("Skipped unreadable records while loading",
			zap.String("backend", p.backend.Name()),
			zap.Int("rooms", len(doc.Rooms)), zap.Int("customers", len(doc.Customers)),
			zap.Error(err))
		return doc.normalize()
	}
	if err != nil {
		p.logger.Error("Error loading data, starting empty",
			zap.String("backend", p.backend.Name()), zap.Error(err))
		return Document{}.normalize()
	}
	return doc
}

// Save writes doc. Failures are logged and recorded in Status only.
func (p *Persister) Save(ctx context.Context, doc Document) {
	err := p.backend.Save(ctx, doc)
	now := p.now()

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.status.LastError = err.Error()
		p.status.LastErrorAt = &now
		p.status.ConsecutiveFailures++
		p.logger.Error("Error saving data",
			zap.String("backend", p.backend.Name()),
			zap.Int("consecutive_failures", p.status.ConsecutiveFailures),
			zap.Error(err))
		return
	}
	p.status.LastSavedAt = &now
	p.status.ConsecutiveFailures = 0
	p.logger.Debug("Data saved successfully",
		zap.Int("rooms", len(doc.Rooms)), zap.Int("customers", len(doc.Customers)))
}

func (p *Persister) Backup(ctx context.Context, doc Document) (BackupResult, error) {
	doc = doc.normalize()
	date := utils.FormatTimestamp(p.now())
	name, err := p.backend.Backup(ctx, BackupDocument{
		Rooms:      doc.Rooms,
		Customers:  doc.Customers,
		BackupDate: date,
	})
	if err != nil {
		p.logger.Error("Backup failed", zap.Error(err))
		return BackupResult{}, fmt.Errorf("backup: %w", err)
	}
	p.logger.Info("Backup written", zap.String("file", name))
	return BackupResult{
		File:           name,
		TotalRooms:     len(doc.Rooms),
		TotalCustomers: len(doc.Customers),
		BackupDate:     date,
	}, nil
}

func (p *Persister) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.status
	if s.LastSavedAt != nil {
		t := *s.LastSavedAt
		s.LastSavedAt = &t
	}
	if s.LastErrorAt != nil {
		t := *s.LastErrorAt
		s.LastErrorAt = &t
	}
	return s
}

func (p *Persister) Close() error {
	return p.backend.Close()
}

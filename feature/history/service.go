package history

import (
	"context"
	"errors"
	"fmt"

	"fmerge/core/merge"
	"fmerge/feature/history/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// DefaultLimit is the number of runs listed when no limit is given.
	DefaultLimit = 20
	// MaxLimit caps the number of runs returned by one listing.
	MaxLimit = 500
)

// ErrNotFound is returned when a run id is unknown.
var ErrNotFound = errors.New("run not found")

// Service reads and writes the run journal.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new journal service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, logger: logger}
}

// Migrate creates or updates the journal tables.
func (s *Service) Migrate() error {
	if err := s.db.AutoMigrate(&models.Run{}, &models.RunFolder{}); err != nil {
		return fmt.Errorf("failed to migrate journal: %w", err)
	}
	return nil
}

// Record stores a finished run together with its folders.
func (s *Service) Record(ctx context.Context, report *merge.Report) error {
	run := FromReport(report)
	if err := s.db.WithContext(ctx).Create(&run).Error; err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	s.logger.Debug("Recorded run", zap.String("run_id", run.ID), zap.Int("folders", len(run.Folders)))
	return nil
}

// List returns the most recent runs, newest first. Folders are not loaded.
func (s *Service) List(ctx context.Context, limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	var runs []models.Run
	if err := s.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// Get returns one run with its folders in merge order.
func (s *Service) Get(ctx context.Context, id string) (*models.Run, error) {
	var run models.Run
	err := s.db.WithContext(ctx).
		Preload("Folders", func(db *gorm.DB) *gorm.DB { return db.Order("ordinal ASC") }).
		Where("id = ?", id).
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return &run, nil
}

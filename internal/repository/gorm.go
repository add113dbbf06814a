package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/colocation-mining/pkg/model"
)

// RunRepository persists mining runs and their prevalent patterns.
type RunRepository interface {
	// SaveResult stores the run record and all its pattern rows.
	SaveResult(ctx context.Context, req *model.MiningRequest, result *model.MiningResult) error

	// GetRun retrieves a run record by its UUID.
	GetRun(ctx context.Context, runUUID string) (*MiningRun, error)

	// ListPatterns retrieves the prevalent patterns of a run, ordered by
	// size then pattern.
	ListPatterns(ctx context.Context, runUUID string) ([]model.PrevalentPattern, error)
}

// GormRunRepository implements RunRepository using GORM.
type GormRunRepository struct {
	db *gorm.DB
}

// NewGormRunRepository creates a new GormRunRepository.
func NewGormRunRepository(db *gorm.DB) *GormRunRepository {
	return &GormRunRepository{db: db}
}

// SaveResult stores the run and its patterns in one transaction.
func (r *GormRunRepository) SaveResult(ctx context.Context, req *model.MiningRequest, result *model.MiningResult) error {
	run := NewRunRecord(req, result)
	rows := NewPatternRows(result)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save mining run: %w", err)
	}
	return nil
}

// GetRun retrieves a run record by its UUID.
func (r *GormRunRepository) GetRun(ctx context.Context, runUUID string) (*MiningRun, error) {
	var run MiningRun
	err := r.db.WithContext(ctx).Where("run_uuid = ?", runUUID).First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("run not found: %s", runUUID)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListPatterns retrieves the prevalent patterns of a run.
func (r *GormRunRepository) ListPatterns(ctx context.Context, runUUID string) ([]model.PrevalentPattern, error) {
	var rows []PatternRow
	err := r.db.WithContext(ctx).
		Where("run_uuid = ?", runUUID).
		Order("size, pattern").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list patterns: %w", err)
	}

	out := make([]model.PrevalentPattern, len(rows))
	for i := range rows {
		out[i] = rows[i].ToModel()
	}
	return out, nil
}

// Close closes the underlying database connection.
func (r *GormRunRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

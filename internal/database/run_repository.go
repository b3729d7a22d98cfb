package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"policy-log-analytics/internal/model"
	"policy-log-analytics/internal/repository"
)

// ErrRunNotFound is returned when no analysis run exists for the given id.
var ErrRunNotFound = errors.New("analysis run not found")

type gormRunRepository struct {
	db *gorm.DB
}

func NewRunRepository(db *gorm.DB) repository.RunRepository {
	return &gormRunRepository{db: db}
}

func (r *gormRunRepository) Create(ctx context.Context, run *model.AnalysisRun) error {
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to create analysis run: %w", err)
	}
	return nil
}

func (r *gormRunRepository) Update(ctx context.Context, run *model.AnalysisRun) error {
	if err := r.db.WithContext(ctx).Save(run).Error; err != nil {
		return fmt.Errorf("failed to update analysis run: %w", err)
	}
	return nil
}

func (r *gormRunRepository) FindByID(ctx context.Context, id string) (*model.AnalysisRun, error) {
	var run model.AnalysisRun
	err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis run %s: %w", id, err)
	}
	return &run, nil
}

func (r *gormRunRepository) List(ctx context.Context, limit int) ([]model.AnalysisRun, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []model.AnalysisRun
	err := r.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis runs: %w", err)
	}
	return runs, nil
}

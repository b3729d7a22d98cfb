package repository

import (
	"context"

	"policy-log-analytics/internal/model"
)

// RunRepository persists analysis run metadata.
type RunRepository interface {
	Create(ctx context.Context, run *model.AnalysisRun) error
	Update(ctx context.Context, run *model.AnalysisRun) error
	FindByID(ctx context.Context, id string) (*model.AnalysisRun, error)
	List(ctx context.Context, limit int) ([]model.AnalysisRun, error)
}

package repository

import (
	"context"

	"policy-log-analytics/internal/dto"
)

type RecordRepository interface {
	Search(ctx context.Context, req dto.RecordSearchRequest) (*dto.RecordSearchResponse, error)
}

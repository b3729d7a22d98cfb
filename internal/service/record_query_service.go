package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"policy-log-analytics/internal/dto"
	"policy-log-analytics/internal/repository"
)

type RecordQueryService interface {
	SearchRecords(ctx context.Context, req dto.RecordSearchRequest) (*dto.RecordSearchResponse, error)
}

type recordQueryService struct {
	recordRepo repository.RecordRepository
}

func NewRecordQueryService(recordRepo repository.RecordRepository) RecordQueryService {
	return &recordQueryService{
		recordRepo: recordRepo,
	}
}

func (s *recordQueryService) SearchRecords(ctx context.Context, req dto.RecordSearchRequest) (*dto.RecordSearchResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Size <= 0 || req.Size > 1000 {
		req.Size = 500
	}
	if req.SortBy == "" {
		req.SortBy = "timestamp"
	}
	req.SortOrder = strings.ToLower(req.SortOrder)
	if req.SortOrder != "asc" && req.SortOrder != "desc" {
		req.SortOrder = "desc"
	}

	for i, level := range req.Levels {
		req.Levels[i] = strings.ToUpper(level)
	}

	log.Info().
		Str("query", req.Query).
		Strs("levels", req.Levels).
		Strs("sources", req.Sources).
		Int("page", req.Page).
		Int("size", req.Size).
		Msg("Searching records")

	return s.recordRepo.Search(ctx, req)
}

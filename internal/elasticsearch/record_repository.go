package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/operator"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/rs/zerolog/log"

	"policy-log-analytics/config"
	"policy-log-analytics/internal/dto"
	"policy-log-analytics/internal/model"
	"policy-log-analytics/internal/repository"
)

type elasticsearchRecordRepository struct {
	esTypedClient *elasticsearch.TypedClient
	indexPrefix   string
}

func NewElasticsearchRecordRepository(cfg *config.Config) (repository.RecordRepository, error) {
	transport := &http.Transport{
		MaxIdleConnsPerHost:   10,
		ResponseHeaderTimeout: time.Second * 10,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		TLSHandshakeTimeout:   5 * time.Second,
	}
	esCfgForTyped := elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,
		Transport: transport,
	}

	typedClient, err := elasticsearch.NewTypedClient(esCfgForTyped)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create Typed Elasticsearch Client in Repository")
		return nil, err
	}

	return &elasticsearchRecordRepository{
		esTypedClient: typedClient,
		indexPrefix:   cfg.Elasticsearch.RecordIndex,
	}, nil
}

func (r *elasticsearchRecordRepository) Search(ctx context.Context, req dto.RecordSearchRequest) (*dto.RecordSearchResponse, error) {
	indexPattern := fmt.Sprintf("%s-*", r.indexPrefix)
	queryParts := []types.Query{}

	if req.Query != "" {
		queryParts = append(queryParts, types.Query{
			QueryString: &types.QueryStringQuery{
				Query:  req.Query,
				Fields: []string{"message", "component", "event_type", "status", "log_level"},
				DefaultOperator: &operator.Operator{
					Name: "AND",
				},
			},
		})
	}

	if len(req.Levels) > 0 {
		levelTerms := make([]types.FieldValue, len(req.Levels))
		for i, level := range req.Levels {
			levelTerms[i] = level
		}
		queryParts = append(queryParts, types.Query{
			Terms: &types.TermsQuery{
				TermsQuery: map[string]types.TermsQueryField{
					"log_level.keyword": levelTerms,
				},
			},
		})
	}

	if len(req.Sources) > 0 {
		sourceTerms := make([]types.FieldValue, len(req.Sources))
		for i, source := range req.Sources {
			sourceTerms[i] = source
		}
		queryParts = append(queryParts, types.Query{
			Terms: &types.TermsQuery{
				TermsQuery: map[string]types.TermsQueryField{
					"source_file.keyword": sourceTerms,
				},
			},
		})
	}

	from := (req.Page - 1) * req.Size
	order := sortorder.Desc
	if req.SortOrder == "asc" {
		order = sortorder.Asc
	}
	sortField := req.SortBy
	knownKeywordFields := map[string]bool{
		"timestamp":   true,
		"log_level":   true,
		"component":   true,
		"event_type":  true,
		"status":      true,
		"source_file": true,
	}
	if knownKeywordFields[sortField] {
		sortField = fmt.Sprintf("%s.keyword", req.SortBy)
	} else {
		log.Warn().Str("sort_field", req.SortBy).Msg("Attempting to sort on unknown field")
	}

	searchRequest := &search.Request{
		Query: &types.Query{
			Bool: &types.BoolQuery{
				Filter: queryParts,
			},
		},
		Size: &req.Size,
		From: &from,
		Sort: []types.SortCombinations{
			types.SortOptions{
				SortOptions: map[string]types.FieldSort{
					sortField: {Order: &order},
				},
			},
		},
	}

	res, err := r.esTypedClient.Search().
		Index(indexPattern).
		Request(searchRequest).
		Do(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error executing Elasticsearch search via TypedClient")
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}

	records := make([]model.LogRecord, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var record model.LogRecord
		if hit.Source_ != nil {
			if err := json.Unmarshal(hit.Source_, &record); err != nil {
				log.Error().Err(err).Msg("Error unmarshalling Elasticsearch hit source")
				continue
			}
			records = append(records, record)
		}
	}

	response := &dto.RecordSearchResponse{
		Records:    records,
		TotalCount: res.Hits.Total.Value,
		Page:       req.Page,
		Size:       req.Size,
	}

	log.Debug().Int64("total_hits", response.TotalCount).Int("returned_hits", len(response.Records)).Msg("Elasticsearch search successful")
	return response, nil
}

package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"policy-log-analytics/config"
	"policy-log-analytics/internal/model"
)

type RecordStore interface {
	StoreRecords(ctx context.Context, records []model.LogRecord) error
	Close(ctx context.Context) error
}

type elasticRecordStore struct {
	client          *elasticsearch.Client
	bulkIndexer     esutil.BulkIndexer
	indexPrefix     string
	countSuccessful uint64
	countFailed     uint64
}

func NewElasticRecordStore(lc fx.Lifecycle, cfg *config.Config) (RecordStore, *elasticsearch.Client, error) {
	if len(cfg.Elasticsearch.Addresses) == 0 {
		log.Error().Msg("Elasticsearch addresses are not configured.")
		return nil, nil, errors.New("elasticsearch configuration missing")
	}
	transport := &http.Transport{
		MaxIdleConnsPerHost:   10,
		ResponseHeaderTimeout: time.Second * 10,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		TLSHandshakeTimeout:   5 * time.Second,
	}
	esCfg := elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,
		Transport: transport,
	}

	var esClient *elasticsearch.Client
	var err error
	operation := func() error {
		esClient, err = elasticsearch.NewClient(esCfg)
		if err != nil {
			log.Warn().Err(err).Msg("Attempt failed: Error creating the Elasticsearch client")
			return err
		}

		res, errPing := esClient.Info(
			esClient.Info.WithContext(context.Background()),
		)
		if errPing != nil {
			log.Warn().Err(errPing).Msg("Attempt failed: Error during Elasticsearch Info() call")
			return errPing
		}
		defer res.Body.Close()
		if res.IsError() {
			errMsg := fmt.Errorf("elasticsearch Info() returned error status: %s", res.Status())
			log.Warn().Err(errMsg).Msg("Attempt failed: Elasticsearch ping returned error status")
			return errMsg
		}
		log.Info().Msg("Elasticsearch client initialized and connection verified")
		return nil
	}

	connectBackoff := backoff.NewExponentialBackOff()
	connectBackoff.InitialInterval = 2 * time.Second
	connectBackoff.MaxInterval = 15 * time.Second
	connectBackoff.MaxElapsedTime = 90 * time.Second

	log.Info().Msg("Attempting to connect to Elasticsearch with retries...")
	if err = backoff.Retry(operation, connectBackoff); err != nil {
		log.Error().Err(err).Msg("Failed to connect to Elasticsearch after multiple retries")
		return nil, nil, err
	}

	store := &elasticRecordStore{
		client:      esClient,
		indexPrefix: cfg.Elasticsearch.RecordIndex,
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:        esClient,
		Index:         store.indexName(),
		NumWorkers:    cfg.Elasticsearch.BulkWorkers,
		FlushBytes:    cfg.Elasticsearch.FlushBytes,
		FlushInterval: cfg.Elasticsearch.FlushInterval,
		OnError: func(ctx context.Context, err error) {
			log.Error().Err(err).Msg("BulkIndexer error")
		},
		OnFlushStart: func(ctx context.Context) context.Context {
			log.Debug().Msg("BulkIndexer flush starting")
			return ctx
		},
		OnFlushEnd: func(ctx context.Context) {
			log.Debug().Msg("BulkIndexer flush ended")
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("Error creating the BulkIndexer")
		return nil, nil, err
	}
	store.bulkIndexer = bi
	log.Info().Msg("Elasticsearch BulkIndexer initialized")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Closing Elasticsearch BulkIndexer...")
			return store.Close(ctx)
		},
	})

	return store, esClient, nil
}

// StoreRecords queues records on the bulk indexer; actual indexing happens on
// the indexer's flush cadence.
func (s *elasticRecordStore) StoreRecords(ctx context.Context, records []model.LogRecord) error {
	if len(records) == 0 {
		return nil
	}

	currentFailed := atomic.LoadUint64(&s.countFailed)

	for i := range records {
		data, err := json.Marshal(records[i])
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal record for Elasticsearch")
			atomic.AddUint64(&s.countFailed, 1)
			continue
		}

		err = s.bulkIndexer.Add(
			ctx,
			esutil.BulkIndexerItem{
				Action: "index",
				Index:  s.indexName(),
				Body:   bytes.NewReader(data),
				OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
					atomic.AddUint64(&s.countSuccessful, 1)
				},
				OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
					atomic.AddUint64(&s.countFailed, 1)
					log.Error().Err(err).Str("reason", res.Error.Reason).Msg("BulkIndexer item failed")
				},
			},
		)
		if err != nil {
			log.Error().Err(err).Msg("Failed to add item to BulkIndexer")
			atomic.AddUint64(&s.countFailed, 1)
		}
	}
	log.Debug().Int("count", len(records)).Msg("Added records to Elasticsearch BulkIndexer queue")

	if atomic.LoadUint64(&s.countFailed) > currentFailed {
		return errors.New("one or more records failed during bulk indexing attempt")
	}
	return nil
}

func (s *elasticRecordStore) Close(ctx context.Context) error {
	err := s.bulkIndexer.Close(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error closing BulkIndexer")
	}

	stats := s.bulkIndexer.Stats()
	log.Info().
		Uint64("indexed", stats.NumIndexed).
		Uint64("added", stats.NumAdded).
		Uint64("flushed", stats.NumFlushed).
		Uint64("failed", stats.NumFailed).
		Uint64("requests", stats.NumRequests).
		Msg("Elasticsearch BulkIndexer final stats")

	return err
}

// indexName generates the daily index name, e.g. "policylogs-2024-03-01".
func (s *elasticRecordStore) indexName() string {
	return fmt.Sprintf("%s-%s", s.indexPrefix, time.Now().UTC().Format("2006-01-02"))
}

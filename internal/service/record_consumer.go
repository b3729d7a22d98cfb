package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"

	"policy-log-analytics/config"
	"policy-log-analytics/internal/elasticsearch"
	"policy-log-analytics/internal/kafka"
	"policy-log-analytics/internal/metrics"
	"policy-log-analytics/internal/model"
	"policy-log-analytics/internal/telemetry"
	"policy-log-analytics/internal/timescaledb"
)

// RecordConsumerService drains the record topic in batches, indexes the
// records into Elasticsearch and derives metric events into TimescaleDB.
// Offsets commit only after both stores succeed, so failures replay.
type RecordConsumerService interface {
	Run(ctx context.Context, wg *sync.WaitGroup)
}

type recordConsumerService struct {
	consumer    kafka.RecordConsumer
	recordStore elasticsearch.RecordStore
	metricStore timescaledb.MetricStore
	extractor   metrics.Extractor
	telemetry   *telemetry.Metrics
	batchSize   int
	maxWaitTime time.Duration
}

func NewRecordConsumerService(
	consumer kafka.RecordConsumer,
	recordStore elasticsearch.RecordStore,
	metricStore timescaledb.MetricStore,
	extractor metrics.Extractor,
	tm *telemetry.Metrics,
	cfg *config.Config,
) RecordConsumerService {
	return &recordConsumerService{
		consumer:    consumer,
		recordStore: recordStore,
		metricStore: metricStore,
		extractor:   extractor,
		telemetry:   tm,
		batchSize:   cfg.Ingest.BatchSize,
		maxWaitTime: cfg.Ingest.MaxBatchWait,
	}
}

func (s *recordConsumerService) Run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	log.Info().Msg("Starting record consumer loop...")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Record consumer loop stopping due to context cancellation.")
			return
		default:
		}

		if err := s.processBatch(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				log.Info().Msg("Context cancelled during batch processing.")
				return
			}
			log.Error().Err(err).Msg("Error processing consumer batch")
			time.Sleep(1 * time.Second)
		}
	}
}

func (s *recordConsumerService) processBatch(ctx context.Context) error {
	records := make([]model.LogRecord, 0, s.batchSize)
	messages := make([]kafkaGo.Message, 0, s.batchSize)
	batchStart := time.Now()

	for len(messages) < s.batchSize {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		remaining := s.maxWaitTime - time.Since(batchStart)
		if remaining <= 0 {
			break
		}
		fetchCtx, cancel := context.WithTimeout(ctx, remaining)
		record, msg, err := s.consumer.FetchRecord(fetchCtx)
		cancel()

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				log.Debug().Int("batch_size", len(records)).Msg("Max wait reached, processing partial batch.")
				break
			}
			// An undecodable message still carries its offset; track it so
			// the commit moves past it instead of reconsuming forever.
			if msg.Topic != "" {
				log.Warn().Int64("offset", msg.Offset).Msg("Skipping undecodable record, will commit its offset.")
				messages = append(messages, msg)
				continue
			}
			return fmt.Errorf("failed to fetch kafka record: %w", err)
		}

		records = append(records, *record)
		messages = append(messages, msg)
	}

	if len(messages) == 0 {
		return nil
	}
	log.Debug().Int("records", len(records)).Int("messages", len(messages)).Msg("Processing consumer batch...")

	if len(records) > 0 {
		if err := s.recordStore.StoreRecords(ctx, records); err != nil {
			log.Error().Err(err).Msg("Failed to store records in Elasticsearch")
			return fmt.Errorf("failed storing records: %w", err)
		}

		events := make([]model.MetricEvent, 0, len(records))
		for i := range records {
			events = append(events, s.extractor.ExtractMetricEvents(&records[i])...)
		}
		if err := s.metricStore.StoreMetricEvents(ctx, events); err != nil {
			log.Error().Err(err).Msg("Failed to store metric events in TimescaleDB")
			return fmt.Errorf("failed storing metric events: %w", err)
		}
	}

	if err := s.consumer.CommitMessages(ctx, messages...); err != nil {
		log.Error().Err(err).Msg("Failed to commit Kafka offsets after storage")
		return fmt.Errorf("failed committing kafka messages: %w", err)
	}
	s.telemetry.RecordsConsumed.Add(float64(len(records)))
	log.Info().Int("records", len(records)).Msg("Successfully processed and committed batch.")
	return nil
}

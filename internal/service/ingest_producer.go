package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"policy-log-analytics/config"
	"policy-log-analytics/internal/filestate"
	"policy-log-analytics/internal/ingest"
	"policy-log-analytics/internal/kafka"
	"policy-log-analytics/internal/model"
	"policy-log-analytics/internal/telemetry"
)

// IngestProducerService walks the configured log directory, reads the new
// tail of every CSV export and hands the records to Kafka. Offsets persist
// across cycles so a restart never re-ships what was already sent.
type IngestProducerService interface {
	ProcessLogs(ctx context.Context) error
}

type ingestProducerService struct {
	ingestor    ingest.CSVIngestor
	producer    kafka.RecordProducer
	stateMgr    filestate.Manager
	metrics     *telemetry.Metrics
	cfg         *config.IngestConfig
	processLock sync.Mutex
}

func NewIngestProducerService(
	cfg *config.Config,
	stateMgr filestate.Manager,
	ingestor ingest.CSVIngestor,
	producer kafka.RecordProducer,
	metrics *telemetry.Metrics,
) IngestProducerService {
	return &ingestProducerService{
		cfg:      &cfg.Ingest,
		stateMgr: stateMgr,
		ingestor: ingestor,
		producer: producer,
		metrics:  metrics,
	}
}

func (s *ingestProducerService) ProcessLogs(ctx context.Context) error {
	if !s.processLock.TryLock() {
		log.Warn().Msg("Ingest cycle already in progress, skipping run.")
		return nil
	}
	defer s.processLock.Unlock()

	log.Info().Msg("Starting ingest cycle...")
	startTime := time.Now()

	// A missing state file comes back as an empty offset map; the manager
	// owns that policy.
	offsets, err := s.stateMgr.LoadOffsets()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load offset state")
		return fmt.Errorf("failed to load offset state: %w", err)
	}

	newOffsets := make(filestate.Offsets, len(offsets))
	for k, v := range offsets {
		newOffsets[k] = v
	}

	csvFiles, err := s.findCSVFiles()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list CSV files")
		return fmt.Errorf("failed to list CSV files: %w", err)
	}
	log.Debug().Int("file_count", len(csvFiles)).Msg("Found CSV files to ingest")

	var totalRecordsSent int64
	var pending []model.LogRecord

	for _, filePath := range csvFiles {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		records, newOffset, err := s.ingestor.ReadFileFrom(filePath, offsets[filePath])
		if err != nil {
			log.Error().Err(err).Str("file", filePath).Msg("Failed to read CSV file")
			continue
		}
		newOffsets[filePath] = newOffset
		if len(records) == 0 {
			continue
		}
		log.Debug().Str("file", filePath).Int("records", len(records)).Msg("Read new records")
		pending = append(pending, records...)

		for len(pending) >= s.cfg.BatchSize {
			batch := pending[:s.cfg.BatchSize]
			pending = pending[s.cfg.BatchSize:]
			if err := s.sendBatch(ctx, batch); err != nil {
				log.Error().Err(err).Msg("Failed to send batch to Kafka")
				return err
			}
			totalRecordsSent += int64(len(batch))
		}
	}

	if len(pending) > 0 {
		if err := s.sendBatch(ctx, pending); err != nil {
			log.Error().Err(err).Msg("Failed to send final batch to Kafka")
			return err
		}
		totalRecordsSent += int64(len(pending))
	}

	if err := s.stateMgr.SaveOffsets(newOffsets); err != nil {
		log.Error().Err(err).Msg("Failed to save offset state")
		return fmt.Errorf("failed to save offset state: %w", err)
	}

	log.Info().
		Int64("records_sent", totalRecordsSent).
		Int("files_scanned", len(csvFiles)).
		Dur("duration", time.Since(startTime)).
		Msg("Finished ingest cycle.")
	return nil
}

func (s *ingestProducerService) findCSVFiles() ([]string, error) {
	entries, err := os.ReadDir(s.cfg.LogDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to read log directory: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".csv") {
			files = append(files, filepath.Join(s.cfg.LogDirectory, entry.Name()))
		}
	}
	return files, nil
}

func (s *ingestProducerService) sendBatch(ctx context.Context, batch []model.LogRecord) error {
	if len(batch) == 0 {
		return nil
	}
	if err := s.producer.Produce(ctx, batch); err != nil {
		return fmt.Errorf("kafka produce error: %w", err)
	}
	s.metrics.RecordsIngested.Add(float64(len(batch)))
	log.Debug().Int("batch_size", len(batch)).Msg("Sent record batch to Kafka.")
	return nil
}

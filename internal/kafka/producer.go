package kafka

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"

	"policy-log-analytics/config"
	"policy-log-analytics/internal/model"
)

type RecordProducer interface {
	Produce(ctx context.Context, records []model.LogRecord) error
	Close() error
}

type kafkaRecordProducer struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaRecordProducer(lc fx.Lifecycle, cfg *config.Config) (RecordProducer, error) {
	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.RecordTopic == "" {
		log.Error().Msg("Kafka brokers or record topic is not configured.")
		return nil, errors.New("kafka configuration missing")
	}
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.RecordTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    cfg.Ingest.BatchSize,
		BatchTimeout: cfg.Ingest.MaxBatchWait,
		Async:        true,
	})
	p := &kafkaRecordProducer{
		writer: writer,
		topic:  cfg.Kafka.RecordTopic,
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Closing Kafka producer")
			return p.Close()
		},
	})
	log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.RecordTopic).Msg("Kafka producer initialized")
	return p, nil
}

func (p *kafkaRecordProducer) Produce(ctx context.Context, records []model.LogRecord) error {
	if len(records) == 0 {
		return nil
	}
	messages := make([]kafka.Message, 0, len(records))

	for i := range records {
		// Key by source file so one file's records stay ordered in a partition.
		value, err := json.Marshal(records[i])
		if err != nil {
			log.Error().Err(err).Str("source_file", records[i].SourceFile).Msg("Failed to marshal record for Kafka")
			continue
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(records[i].SourceFile),
			Value: value,
		})
	}
	if len(messages) == 0 {
		log.Warn().Msg("No valid messages to produce.")
		return nil
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		log.Error().Err(err).Int("message_count", len(messages)).Msg("Failed to write messages to Kafka")
		return err
	}

	log.Debug().Int("message_count", len(messages)).Str("topic", p.topic).Msg("Successfully produced messages to Kafka")
	return nil
}

func (p *kafkaRecordProducer) Close() error {
	return p.writer.Close()
}

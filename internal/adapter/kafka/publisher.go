package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/storm-threat-service/internal/aggregator"
	"github.com/couchcryptid/storm-threat-service/internal/config"
	"github.com/couchcryptid/storm-threat-service/internal/observability"
)

// Publisher produces completed assessments to a Kafka topic so
// downstream consumers (alerting, history) can react to level changes.
// It implements the HTTP adapter's Publisher interface.
type Publisher struct {
	writer  *kafkago.Writer
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured assessment topic.
func NewPublisher(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, metrics: metrics, logger: logger}
}

// Publish serializes and produces one assessment, keyed by the rounded
// query location so a consumer sees per-location ordering.
func (p *Publisher) Publish(ctx context.Context, result aggregator.Result) error {
	msg, err := serializeToMessage(result)
	if err != nil {
		p.metrics.PublishErrors.Inc()
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.PublishErrors.Inc()
		return fmt.Errorf("write assessment: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an assessment into a Kafka message.
func serializeToMessage(result aggregator.Result) (kafkago.Message, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize assessment: %w", err)
	}
	key := fmt.Sprintf("%.2f,%.2f", result.Location.Latitude, result.Location.Longitude)
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "threat_level", Value: []byte(result.ThreatLevel.String())},
			{Key: "produced_at", Value: []byte(result.FetchedAt.Format(time.RFC3339))},
		},
	}, nil
}

// Package kafka publishes prediction audit events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/mwaniasam/maize-yield-api/internal/config"
	"github.com/mwaniasam/maize-yield-api/internal/domain"
	"github.com/mwaniasam/maize-yield-api/internal/observability"
)

// Publisher writes one message per successful prediction to the audit topic.
// It implements predict.Recorder: publish failures are logged and counted but
// never fail the prediction, which has already been served.
type Publisher struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPublisher creates a Kafka producer for the configured audit topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
	}
	return &Publisher{writer: w, logger: logger, metrics: metrics}
}

// Record serializes and publishes a prediction event. Key is the state so
// per-state ordering is preserved within a partition.
func (p *Publisher) Record(ctx context.Context, resp domain.PredictionResponse) {
	msg, err := serializeToMessage(resp)
	if err != nil {
		p.metrics.PublishFailures.Inc()
		p.logger.Warn("serialize prediction event failed", "error", err)
		return
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.PublishFailures.Inc()
		p.logger.Warn("publish prediction event failed", "error", err,
			"state", resp.InputParameters.State)
		return
	}

	p.metrics.EventsPublished.Inc()
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a prediction response into a Kafka message.
func serializeToMessage(resp domain.PredictionResponse) (kafkago.Message, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize prediction event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(resp.InputParameters.State),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "season", Value: []byte(resp.InputParameters.Season)},
			{Key: "predicted_at", Value: []byte(resp.PredictedAt.Format(time.RFC3339))},
		},
	}, nil
}

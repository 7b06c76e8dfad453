// Package predict runs the request pipeline: validate, encode, predict,
// format. It owns no state beyond the immutable artifacts loaded at startup.
package predict

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/mwaniasam/maize-yield-api/internal/domain"
	"github.com/mwaniasam/maize-yield-api/internal/observability"
)

// Predictor maps a feature vector to a scalar yield. Opaque so test doubles
// and alternate model backends can be substituted without touching the
// pipeline.
type Predictor interface {
	Predict(features []float64) (float64, error)
}

// Recorder receives every successful prediction for auditing. Implementations
// must not fail the prediction: errors are theirs to log and count.
type Recorder interface {
	Record(ctx context.Context, resp domain.PredictionResponse)
}

// Servicer is the prediction pipeline as seen by transport adapters.
type Servicer interface {
	Predict(ctx context.Context, req domain.PredictionRequest) (domain.PredictionResponse, error)
	PredictBatch(ctx context.Context, reqs []domain.PredictionRequest) ([]domain.PredictionResponse, error)
}

// Service wires the encoders, schema, and predictor into the single-request
// and batch pipelines.
type Service struct {
	predictor Predictor
	states    *domain.CategoryEncoder
	grades    *domain.CategoryEncoder
	schema    *domain.FeatureSchema
	modelName string
	recorder  Recorder // nil disables audit recording
	logger    *slog.Logger
	metrics   *observability.Metrics
	maxBatch  int
}

// NewService creates a Service. Pass a nil recorder to disable audit events.
func NewService(
	predictor Predictor,
	states, grades *domain.CategoryEncoder,
	schema *domain.FeatureSchema,
	modelName string,
	recorder Recorder,
	logger *slog.Logger,
	metrics *observability.Metrics,
	maxBatch int,
) *Service {
	return &Service{
		predictor: predictor,
		states:    states,
		grades:    grades,
		schema:    schema,
		modelName: modelName,
		recorder:  recorder,
		logger:    logger,
		metrics:   metrics,
		maxBatch:  maxBatch,
	}
}

// States returns the encoder for state labels.
func (s *Service) States() *domain.CategoryEncoder { return s.states }

// Grades returns the encoder for quality grade labels.
func (s *Service) Grades() *domain.CategoryEncoder { return s.grades }

// Predict runs the full pipeline for one request. Validation failures come
// back as *domain.ValidationError; everything past validation is an internal
// error.
func (s *Service) Predict(ctx context.Context, req domain.PredictionRequest) (domain.PredictionResponse, error) {
	start := time.Now()

	normalized, err := domain.ValidateRequest(req, s.states, s.grades)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			s.metrics.ValidationFailures.WithLabelValues(verr.Field).Inc()
		}
		s.metrics.Predictions.WithLabelValues("validation_error").Inc()
		return domain.PredictionResponse{}, err
	}

	vector, err := domain.EncodeFeatures(normalized, s.states, s.grades, s.schema)
	if err != nil {
		s.metrics.Predictions.WithLabelValues("internal_error").Inc()
		return domain.PredictionResponse{}, fmt.Errorf("encode features: %w", err)
	}

	raw, err := s.predictor.Predict(vector)
	if err != nil {
		s.metrics.Predictions.WithLabelValues("internal_error").Inc()
		return domain.PredictionResponse{}, fmt.Errorf("predict: %w", err)
	}

	resp := domain.PredictionResponse{
		PredictedYield:  roundYield(raw),
		InputParameters: normalized,
		ModelUsed:       s.modelName,
		Unit:            domain.YieldUnit,
		PredictedAt:     domain.Now(),
	}

	s.metrics.Predictions.WithLabelValues("ok").Inc()
	s.metrics.PredictionDuration.Observe(time.Since(start).Seconds())

	if s.recorder != nil {
		s.recorder.Record(ctx, resp)
	}

	return resp, nil
}

// PredictBatch applies the pipeline to each request in order. The whole
// batch aborts on the first failing item; the error names the item index so
// callers can fix and resubmit. Result order matches input order.
func (s *Service) PredictBatch(ctx context.Context, reqs []domain.PredictionRequest) ([]domain.PredictionResponse, error) {
	if len(reqs) > s.maxBatch {
		return nil, &domain.ValidationError{
			Field:  "requests",
			Kind:   domain.KindOutOfRange,
			Detail: fmt.Sprintf("batch has %d items, maximum is %d", len(reqs), s.maxBatch),
		}
	}

	s.metrics.BatchSize.Observe(float64(len(reqs)))

	responses := make([]domain.PredictionResponse, 0, len(reqs))
	for i, req := range reqs {
		resp, err := s.Predict(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// roundYield rounds to 2 decimal places, the precision the API contract
// promises.
func roundYield(v float64) float64 {
	return math.Round(v*100) / 100
}

package predict_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwaniasam/maize-yield-api/internal/domain"
	"github.com/mwaniasam/maize-yield-api/internal/observability"
	"github.com/mwaniasam/maize-yield-api/internal/predict"
)

// fakePredictor returns a fixed value, or an error, and records the vectors
// it was called with.
type fakePredictor struct {
	value   float64
	err     error
	vectors [][]float64
}

func (f *fakePredictor) Predict(features []float64) (float64, error) {
	f.vectors = append(f.vectors, features)
	return f.value, f.err
}

// recordingSink captures audited predictions.
type recordingSink struct {
	recorded []domain.PredictionResponse
}

func (r *recordingSink) Record(_ context.Context, resp domain.PredictionResponse) {
	r.recorded = append(r.recorded, resp)
}

func newTestService(t *testing.T, p predict.Predictor, rec predict.Recorder) *predict.Service {
	t.Helper()
	states, err := domain.NewCategoryEncoder([]string{"Abia", "Kaduna", "Kano", "Lagos"})
	require.NoError(t, err)
	grades, err := domain.NewCategoryEncoder([]string{"A", "B", "C"})
	require.NoError(t, err)
	schema, err := domain.NewFeatureSchema([]string{
		domain.FeatureState, domain.FeatureIsWet, domain.FeatureYear,
		domain.FeatureAreaHa, domain.FeatureGrade, domain.FeatureInteraction,
	})
	require.NoError(t, err)

	return predict.NewService(
		p, states, grades, schema, "Random Forest", rec,
		discardLogger(), observability.NewMetricsForTesting(), 3,
	)
}

func kanoWet() domain.PredictionRequest {
	return domain.PredictionRequest{
		State:        "Kano",
		Season:       "wet",
		Year:         2023,
		AreaHa:       5.0,
		QualityGrade: "A",
	}
}

func TestServicePredict(t *testing.T) {
	frozen := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(frozen))
	defer domain.SetClock(nil)

	t.Run("happy path", func(t *testing.T) {
		p := &fakePredictor{value: 3.456789}
		svc := newTestService(t, p, nil)

		resp, err := svc.Predict(context.Background(), kanoWet())
		require.NoError(t, err)

		assert.Equal(t, 3.46, resp.PredictedYield, "rounded to 2 decimal places")
		assert.Equal(t, "Random Forest", resp.ModelUsed)
		assert.Equal(t, "tonnes/hectare", resp.Unit)
		assert.Equal(t, kanoWet(), resp.InputParameters)
		assert.Equal(t, frozen, resp.PredictedAt)

		// Kano is index 2 of {Abia, Kaduna, Kano, Lagos}.
		require.Len(t, p.vectors, 1)
		assert.Equal(t, []float64{2, 1, 2023, 5.0, 0, 5.0}, p.vectors[0])
	})

	t.Run("normalized season is echoed", func(t *testing.T) {
		svc := newTestService(t, &fakePredictor{value: 2}, nil)

		req := kanoWet()
		req.Season = "WET"
		resp, err := svc.Predict(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "wet", resp.InputParameters.Season)
	})

	t.Run("validation failure never reaches the predictor", func(t *testing.T) {
		p := &fakePredictor{value: 2}
		svc := newTestService(t, p, nil)

		req := kanoWet()
		req.State = "Atlantis"
		_, err := svc.Predict(context.Background(), req)

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Empty(t, p.vectors, "predictor must not be invoked")
	})

	t.Run("predictor failure is an internal error", func(t *testing.T) {
		svc := newTestService(t, &fakePredictor{err: errors.New("shape mismatch")}, nil)

		_, err := svc.Predict(context.Background(), kanoWet())
		require.Error(t, err)
		assert.NotErrorAs(t, err, new(*domain.ValidationError))
	})

	t.Run("deterministic", func(t *testing.T) {
		svc := newTestService(t, &fakePredictor{value: 1.111}, nil)

		first, err := svc.Predict(context.Background(), kanoWet())
		require.NoError(t, err)
		second, err := svc.Predict(context.Background(), kanoWet())
		require.NoError(t, err)
		assert.Equal(t, first.PredictedYield, second.PredictedYield)
	})

	t.Run("successful predictions are recorded", func(t *testing.T) {
		sink := &recordingSink{}
		svc := newTestService(t, &fakePredictor{value: 2.5}, sink)

		_, err := svc.Predict(context.Background(), kanoWet())
		require.NoError(t, err)
		require.Len(t, sink.recorded, 1)
		assert.Equal(t, 2.5, sink.recorded[0].PredictedYield)
	})

	t.Run("failed predictions are not recorded", func(t *testing.T) {
		sink := &recordingSink{}
		svc := newTestService(t, &fakePredictor{value: 2.5}, sink)

		req := kanoWet()
		req.Year = 1990
		_, err := svc.Predict(context.Background(), req)
		require.Error(t, err)
		assert.Empty(t, sink.recorded)
	})
}

func TestServicePredictBatch(t *testing.T) {
	t.Run("results match input order", func(t *testing.T) {
		svc := newTestService(t, &fakePredictor{value: 2}, nil)

		reqs := []domain.PredictionRequest{kanoWet(), kanoWet(), kanoWet()}
		reqs[1].State = "Lagos"
		reqs[2].State = "Abia"

		got, err := svc.PredictBatch(context.Background(), reqs)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "Kano", got[0].InputParameters.State)
		assert.Equal(t, "Lagos", got[1].InputParameters.State)
		assert.Equal(t, "Abia", got[2].InputParameters.State)
	})

	t.Run("aborts whole batch on first failure", func(t *testing.T) {
		p := &fakePredictor{value: 2}
		svc := newTestService(t, p, nil)

		reqs := []domain.PredictionRequest{kanoWet(), kanoWet(), kanoWet()}
		reqs[1].State = "Atlantis"

		got, err := svc.PredictBatch(context.Background(), reqs)
		require.Error(t, err)
		assert.Nil(t, got, "no partial results")
		assert.Contains(t, err.Error(), "item 1")

		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr, "item error kind survives wrapping")
		assert.Len(t, p.vectors, 1, "item 2 is never attempted")
	})

	t.Run("empty batch is fine", func(t *testing.T) {
		svc := newTestService(t, &fakePredictor{value: 2}, nil)
		got, err := svc.PredictBatch(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("oversized batch is rejected up front", func(t *testing.T) {
		p := &fakePredictor{value: 2}
		svc := newTestService(t, p, nil) // maxBatch = 3

		reqs := []domain.PredictionRequest{kanoWet(), kanoWet(), kanoWet(), kanoWet()}
		_, err := svc.PredictBatch(context.Background(), reqs)

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, domain.KindOutOfRange, verr.Kind)
		assert.Empty(t, p.vectors)
	})
}

package predict

import (
	"context"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mwaniasam/maize-yield-api/internal/domain"
	"github.com/mwaniasam/maize-yield-api/internal/observability"
)

// cacheKey is the normalized request as a comparable value. Season is
// lowercased here so "WET" and "wet" share an entry even though
// normalization happens inside the inner service.
type cacheKey struct {
	state  string
	season string
	year   int
	areaHa float64
	grade  string
}

func keyFor(req domain.PredictionRequest) cacheKey {
	return cacheKey{
		state:  req.State,
		season: strings.ToLower(strings.TrimSpace(req.Season)),
		year:   req.Year,
		areaHa: req.AreaHa,
		grade:  req.QualityGrade,
	}
}

// CachedService decorates a Servicer with an LRU cache over single
// predictions. The model is deterministic, so cached results are exact.
// Only successful predictions are cached; failures always re-run.
type CachedService struct {
	inner   Servicer
	cache   *lru.Cache[cacheKey, domain.PredictionResponse]
	metrics *observability.Metrics
}

// NewCachedService creates a cache decorator around a prediction service.
func NewCachedService(inner Servicer, size int, metrics *observability.Metrics) (*CachedService, error) {
	cache, err := lru.New[cacheKey, domain.PredictionResponse](size)
	if err != nil {
		return nil, err
	}
	return &CachedService{inner: inner, cache: cache, metrics: metrics}, nil
}

func (c *CachedService) Predict(ctx context.Context, req domain.PredictionRequest) (domain.PredictionResponse, error) {
	key := keyFor(req)
	if resp, ok := c.cache.Get(key); ok {
		c.metrics.CacheLookups.WithLabelValues("hit").Inc()
		// The yield is identical; only the timestamp reflects this call.
		resp.PredictedAt = domain.Now()
		return resp, nil
	}
	c.metrics.CacheLookups.WithLabelValues("miss").Inc()

	resp, err := c.inner.Predict(ctx, req)
	if err != nil {
		return resp, err
	}
	c.cache.Add(key, resp)
	return resp, nil
}

// PredictBatch delegates to the inner service. Batch items skip the cache:
// batches are rarely repeated verbatim, and routing items through the
// single-prediction path would bypass the batch size limit and metrics.
func (c *CachedService) PredictBatch(ctx context.Context, reqs []domain.PredictionRequest) ([]domain.PredictionResponse, error) {
	return c.inner.PredictBatch(ctx, reqs)
}

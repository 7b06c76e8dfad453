package domain

import (
	"time"
)

// PredictionRequest carries the five user-supplied inputs for one prediction.
// The validator tags mirror the numeric bounds of the training data; the
// categorical fields are checked against the loaded encoders in
// ValidateRequest because their valid sets are only known at runtime.
type PredictionRequest struct {
	State        string  `json:"state" validate:"required"`
	Season       string  `json:"season" validate:"required"`
	Year         int     `json:"year" validate:"gte=2000,lte=2030"`
	AreaHa       float64 `json:"area_ha" validate:"gt=0,lte=1000"`
	QualityGrade string  `json:"quality_grade" validate:"required"`
}

// IsWet returns 1 for the wet season and 0 for dry. Only meaningful after
// the request passed validation, which normalizes Season.
func (r PredictionRequest) IsWet() float64 {
	if r.Season == SeasonWet {
		return 1
	}
	return 0
}

// PredictionResponse is the result of one prediction.
type PredictionResponse struct {
	PredictedYield  float64           `json:"predicted_yield"`
	InputParameters PredictionRequest `json:"input_parameters"`
	ModelUsed       string            `json:"model_used"`
	Unit            string            `json:"unit"`
	PredictedAt     time.Time         `json:"predicted_at"`
}

// YieldUnit is the unit of every prediction this model produces.
const YieldUnit = "tonnes/hectare"

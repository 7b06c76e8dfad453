package domain

import "fmt"

// EncodeFeatures turns a validated request into the ordered feature vector
// declared by the schema. A label that fails to encode here slipped past
// validation, so the error is an internal contract violation, never a user
// input error.
func EncodeFeatures(req PredictionRequest, states, grades *CategoryEncoder, schema *FeatureSchema) ([]float64, error) {
	stateCode, ok := states.Code(req.State)
	if !ok {
		return nil, fmt.Errorf("encode features: state %q passed validation but has no code", req.State)
	}

	gradeCode, ok := grades.Code(req.QualityGrade)
	if !ok {
		return nil, fmt.Errorf("encode features: grade %q passed validation but has no code", req.QualityGrade)
	}

	isWet := req.IsWet()

	byName := map[string]float64{
		FeatureState:       float64(stateCode),
		FeatureIsWet:       isWet,
		FeatureYear:        float64(req.Year),
		FeatureAreaHa:      req.AreaHa,
		FeatureGrade:       float64(gradeCode),
		FeatureInteraction: req.AreaHa * isWet,
	}

	vector := make([]float64, 0, schema.Len())
	for _, name := range schema.Names() {
		value, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("encode features: schema declares unknown feature %q", name)
		}
		vector = append(vector, value)
	}

	return vector, nil
}

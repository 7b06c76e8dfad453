package domain

import (
	"fmt"
	"slices"
)

// Feature names as they appeared in the training data columns.
const (
	FeatureState       = "state"
	FeatureIsWet       = "is_wet"
	FeatureYear        = "year"
	FeatureAreaHa      = "area_ha"
	FeatureGrade       = "quality_grade"
	FeatureInteraction = "area_wet_interaction"
)

// FeatureSchema is the ordered list of feature names the model was trained
// against. The order is authoritative: vectors passed to the predictor must
// list values in exactly this order.
type FeatureSchema struct {
	names []string
}

// NewFeatureSchema builds a schema from the feature_names artifact. The names
// must be a permutation of the six known features; anything else means the
// artifact belongs to a different model generation.
func NewFeatureSchema(names []string) (*FeatureSchema, error) {
	known := []string{
		FeatureState, FeatureIsWet, FeatureYear,
		FeatureAreaHa, FeatureGrade, FeatureInteraction,
	}

	if len(names) != len(known) {
		return nil, fmt.Errorf("feature schema: expected %d features, got %d", len(known), len(names))
	}
	for _, want := range known {
		if !slices.Contains(names, want) {
			return nil, fmt.Errorf("feature schema: missing feature %q", want)
		}
	}

	return &FeatureSchema{names: slices.Clone(names)}, nil
}

// Names returns the feature names in schema order. The slice is a copy.
func (s *FeatureSchema) Names() []string {
	return slices.Clone(s.names)
}

// Len returns the number of feature slots.
func (s *FeatureSchema) Len() int {
	return len(s.names)
}

package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Canonical season values after normalization.
const (
	SeasonWet = "wet"
	SeasonDry = "dry"
)

// validate holds the struct validator for the numeric bounds. Validator
// instances cache struct metadata, so a single shared instance is the
// intended usage.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateRequest checks a raw request against the numeric bounds and the
// categorical sets of the loaded encoders, returning the normalized request.
// Season is lowercased; all other fields are matched case-sensitively.
// Failures are *ValidationError values identifying the offending field.
func ValidateRequest(req PredictionRequest, states, grades *CategoryEncoder) (PredictionRequest, error) {
	req.Season = strings.ToLower(strings.TrimSpace(req.Season))

	if err := validate.Struct(req); err != nil {
		return PredictionRequest{}, asValidationError(err)
	}

	if req.Season != SeasonWet && req.Season != SeasonDry {
		return PredictionRequest{}, &ValidationError{
			Field:  "season",
			Kind:   KindInvalidEnum,
			Detail: fmt.Sprintf("season must be either %q or %q", SeasonWet, SeasonDry),
		}
	}

	if !states.Contains(req.State) {
		return PredictionRequest{}, &ValidationError{
			Field:  "state",
			Kind:   KindUnknownCategory,
			Detail: fmt.Sprintf("state %q not recognized. Available states: %s", req.State, summarizeLabels(states.Labels(), 10)),
		}
	}

	if !grades.Contains(req.QualityGrade) {
		return PredictionRequest{}, &ValidationError{
			Field:  "quality_grade",
			Kind:   KindUnknownCategory,
			Detail: fmt.Sprintf("quality grade %q not recognized. Available grades: %s", req.QualityGrade, strings.Join(grades.Labels(), ", ")),
		}
	}

	return req, nil
}

// asValidationError converts validator.ValidationErrors into the domain
// taxonomy, reporting the first failing field.
func asValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Field: "request", Kind: KindOutOfRange, Detail: err.Error()}
	}

	fe := verrs[0]
	switch fe.StructField() {
	case "Year":
		return &ValidationError{
			Field:  "year",
			Kind:   KindOutOfRange,
			Detail: "year must be between 2000 and 2030",
		}
	case "AreaHa":
		return &ValidationError{
			Field:  "area_ha",
			Kind:   KindOutOfRange,
			Detail: "area_ha must be positive and at most 1000 hectares",
		}
	default:
		return &ValidationError{
			Field:  jsonField(fe.StructField()),
			Kind:   KindInvalidEnum,
			Detail: fmt.Sprintf("%s is required", jsonField(fe.StructField())),
		}
	}
}

func jsonField(structField string) string {
	switch structField {
	case "State":
		return "state"
	case "Season":
		return "season"
	case "QualityGrade":
		return "quality_grade"
	default:
		return strings.ToLower(structField)
	}
}

// summarizeLabels joins up to max labels, appending a count of the rest.
// Keeps unknown-state error messages readable with 37 states.
func summarizeLabels(labels []string, max int) string {
	if len(labels) <= max {
		return strings.Join(labels, ", ")
	}
	return fmt.Sprintf("%s... (and %d more)", strings.Join(labels[:max], ", "), len(labels)-max)
}

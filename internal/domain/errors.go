package domain

import "fmt"

// ValidationKind classifies why a request field was rejected.
type ValidationKind string

const (
	// KindUnknownCategory means a state or grade label is not in the
	// encoder's training classes.
	KindUnknownCategory ValidationKind = "unknown_category"
	// KindInvalidEnum means a value is outside a fixed enumeration
	// (season other than wet/dry).
	KindInvalidEnum ValidationKind = "invalid_enum"
	// KindOutOfRange means a numeric value is outside its trained bounds.
	KindOutOfRange ValidationKind = "out_of_range"
)

// ValidationError describes a rejected request field. It is a user input
// error: the caller can fix the request and retry. It never reaches the
// feature encoder or the predictor.
type ValidationError struct {
	Field  string
	Kind   ValidationKind
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Detail)
}

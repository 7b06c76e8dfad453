package domain

import (
	"fmt"
	"slices"
)

// CategoryEncoder maps a fixed set of string labels to integer codes using
// scikit-learn LabelEncoder semantics: each label's code is its index in the
// sorted class list. Immutable after construction.
type CategoryEncoder struct {
	classes []string       // sorted
	codes   map[string]int // label -> index in classes
}

// NewCategoryEncoder builds an encoder from the class labels persisted in a
// model artifact. Labels are sorted and deduplicated; an empty set is an error
// because every lookup would fail.
func NewCategoryEncoder(classes []string) (*CategoryEncoder, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("category encoder: empty class list")
	}

	sorted := slices.Clone(classes)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	codes := make(map[string]int, len(sorted))
	for i, label := range sorted {
		codes[label] = i
	}

	return &CategoryEncoder{classes: sorted, codes: codes}, nil
}

// Code returns the integer code for a label. The lookup is total: unknown
// labels return ok=false rather than a default code.
func (e *CategoryEncoder) Code(label string) (int, bool) {
	code, ok := e.codes[label]
	return code, ok
}

// Contains reports whether the label was part of the training classes.
func (e *CategoryEncoder) Contains(label string) bool {
	_, ok := e.codes[label]
	return ok
}

// Labels returns the known labels in sorted order. The slice is a copy.
func (e *CategoryEncoder) Labels() []string {
	return slices.Clone(e.classes)
}

// Len returns the number of known labels.
func (e *CategoryEncoder) Len() int {
	return len(e.classes)
}

// Command validate performs integrity checks on a model artifact directory
// and, optionally, on a prediction fixture file produced by genmodel. It
// verifies artifact loadability, encoder/schema alignment, prediction
// determinism, and fixture parity against the live pipeline.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -model-dir artifacts \
//	  -fixtures data/mock/prediction_fixtures.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/mwaniasam/maize-yield-api/internal/domain"
	"github.com/mwaniasam/maize-yield-api/internal/model"
	"github.com/mwaniasam/maize-yield-api/internal/observability"
	"github.com/mwaniasam/maize-yield-api/internal/predict"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// fixture mirrors the shape genmodel writes.
type fixture struct {
	Request        domain.PredictionRequest `json:"request"`
	PredictedYield float64                  `json:"predicted_yield"`
}

func main() {
	modelDir := flag.String("model-dir", "", "directory containing model artifacts")
	fixturesPath := flag.String("fixtures", "", "optional path to prediction fixtures JSON")
	flag.Parse()

	if *modelDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*modelDir, *fixturesPath); code != 0 {
		os.Exit(code)
	}
}

func run(modelDir, fixturesPath string) int {
	fmt.Println("=== Maize Yield Model Integrity Validation ===")
	fmt.Println()

	artifacts, err := model.LoadArtifacts(modelDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load artifacts: %v\n", err)
		return 1
	}

	var fixtures []fixture
	if fixturesPath != "" {
		fixtures, err = loadFixtures(fixturesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load fixtures: %v\n", err)
			return 1
		}
	}

	phases := []*phase{
		validateEncoderAlignment(artifacts),
		validateSchemaCoverage(artifacts),
		validateDeterminism(artifacts),
		validateFixtureParity(artifacts, fixtures, fixturesPath != ""),
		validateBatchConsistency(artifacts),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Model: %s, %d trees, %d states, %d grades, %d fixtures\n",
		artifacts.Forest.Name(), artifacts.Forest.NumTrees(),
		artifacts.States.Len(), artifacts.Grades.Len(), len(fixtures))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Encoder Alignment ──
// Codes must be dense indexes into the sorted class list, matching the
// training-time label encoding.

func validateEncoderAlignment(artifacts *model.Artifacts) *phase {
	p := &phase{name: "Phase 1: Encoder Alignment"}

	checkEncoder(p, "state", artifacts.States)
	checkEncoder(p, "grade", artifacts.Grades)

	if artifacts.States.Len() < 2 {
		p.errorf("state encoder has only %d classes", artifacts.States.Len())
	}
	if artifacts.Grades.Len() < 2 {
		p.errorf("grade encoder has only %d classes", artifacts.Grades.Len())
	}
	return p
}

func checkEncoder(p *phase, name string, enc *domain.CategoryEncoder) {
	labels := enc.Labels()
	for i, label := range labels {
		code, ok := enc.Code(label)
		if !ok {
			p.errorf("%s encoder: label %q has no code", name, label)
			continue
		}
		if code != i {
			p.errorf("%s encoder: label %q has code %d, expected sorted index %d", name, label, code, i)
		}
		if i > 0 && labels[i-1] >= label {
			p.errorf("%s encoder: labels not strictly sorted at index %d (%q >= %q)", name, i, labels[i-1], label)
		}
	}
}

// ── Phase 2: Schema Coverage ──
// Every tree must only reference feature indexes the schema defines.

func validateSchemaCoverage(artifacts *model.Artifacts) *phase {
	p := &phase{name: "Phase 2: Schema Coverage"}

	names := artifacts.Schema.Names()
	if len(names) != artifacts.Schema.Len() {
		p.errorf("schema Names() length %d != Len() %d", len(names), artifacts.Schema.Len())
	}

	seen := map[string]bool{}
	for _, n := range names {
		if seen[n] {
			p.errorf("schema lists feature %q twice", n)
		}
		seen[n] = true
	}

	// Exercise the forest across the corners of the input space so every
	// routing path is reachable with an in-schema vector.
	grid := []domain.PredictionRequest{
		{State: artifacts.States.Labels()[0], Season: domain.SeasonWet, Year: 2000, AreaHa: 0.01, QualityGrade: artifacts.Grades.Labels()[0]},
		{State: artifacts.States.Labels()[artifacts.States.Len()-1], Season: domain.SeasonDry, Year: 2030, AreaHa: 1000, QualityGrade: artifacts.Grades.Labels()[artifacts.Grades.Len()-1]},
	}
	for _, req := range grid {
		if _, err := predictOne(artifacts, req); err != nil {
			p.errorf("corner request %+v: %v", req, err)
		}
	}
	return p
}

// ── Phase 3: Determinism ──
// The same request must yield the same prediction on repeated evaluation,
// and the season interaction feature must behave as encoded.

func validateDeterminism(artifacts *model.Artifacts) *phase {
	p := &phase{name: "Phase 3: Prediction Determinism"}

	req := domain.PredictionRequest{
		State:        artifacts.States.Labels()[0],
		Season:       domain.SeasonWet,
		Year:         2023,
		AreaHa:       5.0,
		QualityGrade: artifacts.Grades.Labels()[0],
	}

	first, err := predictOne(artifacts, req)
	if err != nil {
		p.errorf("predict: %v", err)
		return p
	}
	for i := range 10 {
		v, err := predictOne(artifacts, req)
		if err != nil {
			p.errorf("repeat %d: %v", i, err)
			continue
		}
		if v != first {
			p.errorf("repeat %d: prediction %g differs from first %g", i, v, first)
		}
	}

	// Dry-season vector must carry a zero interaction term.
	dry := req
	dry.Season = domain.SeasonDry
	vec, err := domain.EncodeFeatures(dry, artifacts.States, artifacts.Grades, artifacts.Schema)
	if err != nil {
		p.errorf("encode dry request: %v", err)
		return p
	}
	for i, name := range artifacts.Schema.Names() {
		switch name {
		case domain.FeatureIsWet, domain.FeatureInteraction:
			if vec[i] != 0 {
				p.errorf("dry request: feature %q is %g, expected 0", name, vec[i])
			}
		}
	}
	return p
}

// ── Phase 4: Fixture Parity ──
// Fixture predictions must match the live pipeline exactly.

func validateFixtureParity(artifacts *model.Artifacts, fixtures []fixture, enabled bool) *phase {
	p := &phase{name: "Phase 4: Fixture Parity"}
	if !enabled {
		fmt.Println("  Note: no fixtures file given, skipping parity checks")
		return p
	}
	if len(fixtures) == 0 {
		p.errorf("fixtures file is empty")
		return p
	}

	for i, f := range fixtures {
		got, err := predictOne(artifacts, f.Request)
		if err != nil {
			p.errorf("fixture %d (%s/%s): %v", i, f.Request.State, f.Request.Season, err)
			continue
		}
		if !floatEq(got, f.PredictedYield) {
			p.errorf("fixture %d (%s/%s): expected %g, got %g",
				i, f.Request.State, f.Request.Season, f.PredictedYield, got)
		}
	}
	return p
}

// ── Phase 5: Batch Consistency ──
// A batch prediction must equal the item-wise single predictions.

func validateBatchConsistency(artifacts *model.Artifacts) *phase {
	p := &phase{name: "Phase 5: Batch/Single Consistency"}

	svc := predict.NewService(
		artifacts.Forest,
		artifacts.States, artifacts.Grades, artifacts.Schema,
		artifacts.Forest.Name(),
		nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		observability.NewMetricsForTesting(),
		100,
	)

	states := artifacts.States.Labels()
	grades := artifacts.Grades.Labels()
	reqs := []domain.PredictionRequest{
		{State: states[0], Season: domain.SeasonWet, Year: 2023, AreaHa: 5.0, QualityGrade: grades[0]},
		{State: states[len(states)-1], Season: domain.SeasonDry, Year: 2010, AreaHa: 42.5, QualityGrade: grades[len(grades)-1]},
	}

	ctx := context.Background()
	batch, err := svc.PredictBatch(ctx, reqs)
	if err != nil {
		p.errorf("batch predict: %v", err)
		return p
	}
	if len(batch) != len(reqs) {
		p.errorf("batch returned %d results for %d requests", len(batch), len(reqs))
		return p
	}

	for i, req := range reqs {
		single, err := svc.Predict(ctx, req)
		if err != nil {
			p.errorf("item %d single predict: %v", i, err)
			continue
		}
		if !floatEq(batch[i].PredictedYield, single.PredictedYield) {
			p.errorf("item %d: batch yield %g != single yield %g", i, batch[i].PredictedYield, single.PredictedYield)
		}
		if batch[i].InputParameters != single.InputParameters {
			p.errorf("item %d: batch echoed %+v, single echoed %+v", i, batch[i].InputParameters, single.InputParameters)
		}
	}
	return p
}

// ── Helpers ──

// predictOne runs the full validate/encode/predict/round pipeline.
func predictOne(artifacts *model.Artifacts, req domain.PredictionRequest) (float64, error) {
	normalized, err := domain.ValidateRequest(req, artifacts.States, artifacts.Grades)
	if err != nil {
		return 0, err
	}
	vector, err := domain.EncodeFeatures(normalized, artifacts.States, artifacts.Grades, artifacts.Schema)
	if err != nil {
		return 0, err
	}
	raw, err := artifacts.Forest.Predict(vector)
	if err != nil {
		return 0, err
	}
	return math.Round(raw*100) / 100, nil
}

func loadFixtures(path string) ([]fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []fixture
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// Command genmodel generates a synthetic maize yield model artifact set plus
// prediction fixtures for the test suites. It builds the artifacts through
// the actual domain and model packages so the fixtures match real pipeline
// behavior.
//
// Usage:
//
//	go run ./cmd/genmodel \
//	  -out-dir artifacts \
//	  -fixtures-out data/mock/prediction_fixtures.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/mwaniasam/maize-yield-api/internal/domain"
	"github.com/mwaniasam/maize-yield-api/internal/model"
)

// nigerianStates lists the 36 states plus the FCT, the categorical set the
// synthetic model is "trained" on.
var nigerianStates = []string{
	"Abia", "Adamawa", "Akwa Ibom", "Anambra", "Bauchi", "Bayelsa", "Benue",
	"Borno", "Cross River", "Delta", "Ebonyi", "Edo", "Ekiti", "Enugu",
	"FCT", "Gombe", "Imo", "Jigawa", "Kaduna", "Kano", "Katsina", "Kebbi",
	"Kogi", "Kwara", "Lagos", "Nasarawa", "Niger", "Ogun", "Ondo", "Osun",
	"Oyo", "Plateau", "Rivers", "Sokoto", "Taraba", "Yobe", "Zamfara",
}

var qualityGrades = []string{"A", "B", "C"}

// featureNames is the training column order persisted to the schema artifact.
var featureNames = []string{
	domain.FeatureState, domain.FeatureIsWet, domain.FeatureYear,
	domain.FeatureAreaHa, domain.FeatureGrade, domain.FeatureInteraction,
}

const (
	numTrees = 25
	randSeed = 20231107 // fixed so regenerated artifacts are identical
)

// fixture pairs a request with the yield the generated model predicts for it.
type fixture struct {
	Request        domain.PredictionRequest `json:"request"`
	PredictedYield float64                  `json:"predicted_yield"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "", "output directory for model artifacts")
	fixturesOut := flag.String("fixtures-out", "", "output path for prediction fixtures JSON")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out-dir")
	}

	if err := writeArtifacts(*outDir); err != nil {
		return err
	}
	log.Printf("wrote artifacts: %s", *outDir)

	// Round-trip through the real loader to prove the artifacts are usable.
	artifacts, err := model.LoadArtifacts(*outDir)
	if err != nil {
		return fmt.Errorf("verify artifacts: %w", err)
	}
	log.Printf("verified: model=%s trees=%d states=%d grades=%d",
		artifacts.Forest.Name(), artifacts.Forest.NumTrees(),
		artifacts.States.Len(), artifacts.Grades.Len())

	fixtures, err := buildFixtures(artifacts)
	if err != nil {
		return err
	}

	if *fixturesOut != "" {
		if err := writeJSON(*fixturesOut, fixtures); err != nil {
			return fmt.Errorf("writing fixtures: %w", err)
		}
		log.Printf("wrote %d fixtures: %s", len(fixtures), *fixturesOut)
	}

	printStats(fixtures)
	return nil
}

func writeArtifacts(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	trees := buildForest()
	files := map[string]any{
		model.ModelFile:        map[string]any{"model_name": "Random Forest", "trees": trees},
		model.StateEncoderFile: map[string]any{"classes": nigerianStates},
		model.GradeEncoderFile: map[string]any{"classes": qualityGrades},
		model.FeatureNamesFile: featureNames,
	}

	for name, v := range files {
		if err := writeJSON(filepath.Join(dir, name), v); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}

// buildForest constructs a deterministic ensemble. Each tree routes on the
// season flag and then the grade code, with leaf yields around agronomically
// plausible values: wet season out-yields dry, grade A out-yields C. Per-tree
// jitter keeps the trees distinct so the ensemble average is smooth.
func buildForest() []model.Tree {
	rng := rand.New(rand.NewSource(randSeed))

	// Feature indexes follow featureNames order.
	const (
		idxIsWet = 1
		idxGrade = 4
	)

	gradeAdj := []float64{0.6, 0.2, -0.3} // A, B, C

	trees := make([]model.Tree, 0, numTrees)
	for range numTrees {
		leaf := func(base float64, grade int) model.TreeNode {
			jitter := (rng.Float64() - 0.5) * 0.4
			return model.TreeNode{IsLeaf: true, Value: base + gradeAdj[grade] + jitter}
		}

		gradeSplit := func(base float64, at int) []model.TreeNode {
			// Subtree rooted at index `at`: grade<=0.5 -> A, grade<=1.5 -> B, else C.
			return []model.TreeNode{
				{FeatureIdx: idxGrade, Threshold: 0.5, Left: at + 1, Right: at + 2},
				leaf(base, 0),
				{FeatureIdx: idxGrade, Threshold: 1.5, Left: at + 3, Right: at + 4},
				leaf(base, 1),
				leaf(base, 2),
			}
		}

		nodes := []model.TreeNode{
			{FeatureIdx: idxIsWet, Threshold: 0.5, Left: 1, Right: 6},
		}
		nodes = append(nodes, gradeSplit(1.8, 1)...) // dry branch at index 1
		nodes = append(nodes, gradeSplit(3.2, 6)...) // wet branch at index 6

		trees = append(trees, model.Tree{Nodes: nodes})
	}
	return trees
}

// buildFixtures runs a request grid through the real pipeline and records
// the predicted yields.
func buildFixtures(artifacts *model.Artifacts) ([]fixture, error) {
	requests := []domain.PredictionRequest{
		{State: "Kano", Season: "wet", Year: 2023, AreaHa: 5.0, QualityGrade: "A"},
		{State: "Kano", Season: "dry", Year: 2023, AreaHa: 5.0, QualityGrade: "A"},
		{State: "Abia", Season: "wet", Year: 2020, AreaHa: 12.5, QualityGrade: "B"},
		{State: "Lagos", Season: "dry", Year: 2015, AreaHa: 0.5, QualityGrade: "C"},
		{State: "Zamfara", Season: "wet", Year: 2030, AreaHa: 1000, QualityGrade: "C"},
		{State: "FCT", Season: "dry", Year: 2000, AreaHa: 250, QualityGrade: "B"},
	}

	fixtures := make([]fixture, 0, len(requests))
	for _, req := range requests {
		normalized, err := domain.ValidateRequest(req, artifacts.States, artifacts.Grades)
		if err != nil {
			return nil, fmt.Errorf("fixture request %+v: %w", req, err)
		}
		vector, err := domain.EncodeFeatures(normalized, artifacts.States, artifacts.Grades, artifacts.Schema)
		if err != nil {
			return nil, err
		}
		raw, err := artifacts.Forest.Predict(vector)
		if err != nil {
			return nil, err
		}
		fixtures = append(fixtures, fixture{
			Request:        normalized,
			PredictedYield: roundYield(raw),
		})
	}
	return fixtures, nil
}

func roundYield(v float64) float64 {
	return math.Round(v*100) / 100
}

func printStats(fixtures []fixture) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("States: %d, Grades: %d, Trees: %d\n", len(nigerianStates), len(qualityGrades), numTrees)
	for _, f := range fixtures {
		fmt.Printf("  %-10s %-4s %d grade=%s area=%-7g -> %g t/ha\n",
			f.Request.State, f.Request.Season, f.Request.Year,
			f.Request.QualityGrade, f.Request.AreaHa, f.PredictedYield)
	}
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

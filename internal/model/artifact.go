package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mwaniasam/maize-yield-api/internal/domain"
)

// Artifact file names inside the model directory. The set mirrors what the
// training job exports.
const (
	ModelFile        = "model.json"
	StateEncoderFile = "state_encoder.json"
	GradeEncoderFile = "grade_encoder.json"
	FeatureNamesFile = "feature_names.json"
)

// modelFile is the on-disk shape of model.json.
type modelFile struct {
	ModelName string `json:"model_name"`
	Trees     []Tree `json:"trees"`
}

// encoderFile is the on-disk shape of the label-encoder artifacts.
type encoderFile struct {
	Classes []string `json:"classes"`
}

// Artifacts bundles everything loaded from the model directory. Built once
// at startup and read-only afterwards.
type Artifacts struct {
	Forest *Forest
	States *domain.CategoryEncoder
	Grades *domain.CategoryEncoder
	Schema *domain.FeatureSchema
}

// LoadArtifacts reads the model, both category encoders, and the feature
// schema from dir. Any missing or unreadable file is fatal: the service must
// not start serving with a partial model.
func LoadArtifacts(dir string) (*Artifacts, error) {
	var mf modelFile
	if err := readJSON(filepath.Join(dir, ModelFile), &mf); err != nil {
		return nil, err
	}
	forest, err := NewForest(mf.ModelName, mf.Trees)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ModelFile, err)
	}

	states, err := loadEncoder(filepath.Join(dir, StateEncoderFile))
	if err != nil {
		return nil, err
	}
	grades, err := loadEncoder(filepath.Join(dir, GradeEncoderFile))
	if err != nil {
		return nil, err
	}

	var names []string
	if err := readJSON(filepath.Join(dir, FeatureNamesFile), &names); err != nil {
		return nil, err
	}
	schema, err := domain.NewFeatureSchema(names)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", FeatureNamesFile, err)
	}

	return &Artifacts{
		Forest: forest,
		States: states,
		Grades: grades,
		Schema: schema,
	}, nil
}

func loadEncoder(path string) (*domain.CategoryEncoder, error) {
	var ef encoderFile
	if err := readJSON(path, &ef); err != nil {
		return nil, err
	}
	enc, err := domain.NewCategoryEncoder(ef.Classes)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return enc, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read artifact: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse artifact %s: %w", filepath.Base(path), err)
	}
	return nil
}

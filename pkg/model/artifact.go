package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	TypeForest   = "forest"
	TypeLogistic = "logistic"
	TypeRemote   = "remote"
)

// Artifact is the on-disk description of a trained classifier.
type Artifact struct {
	Type     string   `json:"type" yaml:"type"`
	Features []string `json:"features" yaml:"features"`

	// forest
	Classes []int  `json:"classes,omitempty" yaml:"classes,omitempty"`
	Trees   []Tree `json:"trees,omitempty" yaml:"trees,omitempty"`

	// logistic
	Coefficients []float64 `json:"coefficients,omitempty" yaml:"coefficients,omitempty"`
	Intercept    float64   `json:"intercept,omitempty" yaml:"intercept,omitempty"`
	Threshold    float64   `json:"threshold,omitempty" yaml:"threshold,omitempty"`

	// remote
	Endpoint       string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
}

// decodeArtifact reads JSON or YAML into v depending on the file extension.
func decodeArtifact(path string, v any) error {
	if path == "" {
		return fmt.Errorf("artifact path required")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading artifact %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(b, v); err != nil {
			return fmt.Errorf("decoding json artifact %s: %w", path, err)
		}
		return nil
	}

	if err := yaml.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decoding yaml artifact %s: %w", path, err)
	}
	return nil
}

func validateFeatures(features []string) error {
	if len(features) == 0 {
		return fmt.Errorf("model declares no features")
	}
	seen := make(map[string]bool, len(features))
	for _, f := range features {
		if f == "" {
			return fmt.Errorf("model declares an empty feature name")
		}
		if seen[f] {
			return fmt.Errorf("model declares feature %s more than once", f)
		}
		seen[f] = true
	}
	return nil
}

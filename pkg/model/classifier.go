package model

import (
	"context"
	"fmt"
	"net/http"
)

// Classifier is a trained binary model. Predict returns one code per row,
// where 1 means fraud and 0 means legit. Rows are ordered as Features.
type Classifier interface {
	Features() []string
	Predict(ctx context.Context, rows [][]float64) ([]int, error)
}

// ClassifierOptions configures how a classifier artifact is turned into a
// Classifier. Only remote models use it.
type ClassifierOptions struct {
	Token  string
	Client *http.Client
}

// LoadClassifier reads a model artifact from path.
func LoadClassifier(ctx context.Context, path string, opt *ClassifierOptions) (Classifier, error) {
	var a Artifact
	if err := decodeArtifact(path, &a); err != nil {
		return nil, fmt.Errorf("reading model: %w", err)
	}
	return NewClassifier(ctx, &a, opt)
}

// NewClassifier builds a Classifier from a decoded artifact.
func NewClassifier(ctx context.Context, a *Artifact, opt *ClassifierOptions) (Classifier, error) {
	if a == nil {
		return nil, fmt.Errorf("model artifact required")
	}

	if err := validateFeatures(a.Features); err != nil {
		return nil, err
	}

	switch a.Type {
	case TypeForest:
		return newForest(a)
	case TypeLogistic:
		return newLogistic(a)
	case TypeRemote:
		if opt == nil {
			opt = &ClassifierOptions{}
		}
		return newRemote(ctx, a, opt)
	default:
		return nil, fmt.Errorf("unsupported model type: %q", a.Type)
	}
}

func checkWidth(rows [][]float64, width int) error {
	for i, r := range rows {
		if len(r) != width {
			return fmt.Errorf("row %d has %d values, model expects %d", i, len(r), width)
		}
	}
	return nil
}

package model

import (
	"context"
	"errors"
	"fmt"
)

const (
	CodeLegit = 0
	CodeFraud = 1
)

// ErrInvalidPrediction is returned when the model emits a code outside {0,1}.
var ErrInvalidPrediction = errors.New("invalid prediction")

// Verdict is the human label for a prediction code.
type Verdict string

const (
	VerdictFraud Verdict = "FRAUD"
	VerdictLegit Verdict = "LEGIT"
)

// VerdictFor maps a model output code to its label.
func VerdictFor(code int) (Verdict, error) {
	switch code {
	case CodeFraud:
		return VerdictFraud, nil
	case CodeLegit:
		return VerdictLegit, nil
	default:
		return "", fmt.Errorf("%w: code %d", ErrInvalidPrediction, code)
	}
}

// Predictor runs a classifier and labels its output.
type Predictor struct {
	classifier Classifier
}

// NewPredictor wraps the classifier.
func NewPredictor(c Classifier) *Predictor {
	return &Predictor{classifier: c}
}

// Classify predicts every row in one call. Any invalid code fails the
// whole set.
func (p *Predictor) Classify(ctx context.Context, rows [][]float64) ([]Verdict, error) {
	if len(rows) == 0 {
		return nil, errors.New("nothing to classify")
	}

	codes, err := p.classifier.Predict(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("predicting: %w", err)
	}

	if len(codes) != len(rows) {
		return nil, fmt.Errorf("%w: %d codes for %d rows", ErrInvalidPrediction, len(codes), len(rows))
	}

	out := make([]Verdict, len(codes))
	for i, c := range codes {
		v, err := VerdictFor(c)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

package model

import (
	"context"
	"fmt"
	"math"
	"slices"
)

const logisticThresholdDefault = 0.5

type logistic struct {
	features     []string
	coefficients []float64
	intercept    float64
	threshold    float64
}

func newLogistic(a *Artifact) (*logistic, error) {
	if len(a.Coefficients) != len(a.Features) {
		return nil, fmt.Errorf("logistic model has %d coefficients for %d features",
			len(a.Coefficients), len(a.Features))
	}

	th := a.Threshold
	if th == 0 {
		th = logisticThresholdDefault
	}
	if th <= 0 || th >= 1 {
		return nil, fmt.Errorf("logistic threshold must be in (0,1), got %v", th)
	}

	return &logistic{
		features:     slices.Clone(a.Features),
		coefficients: slices.Clone(a.Coefficients),
		intercept:    a.Intercept,
		threshold:    th,
	}, nil
}

func (l *logistic) Features() []string {
	return slices.Clone(l.features)
}

func (l *logistic) Predict(_ context.Context, rows [][]float64) ([]int, error) {
	if err := checkWidth(rows, len(l.features)); err != nil {
		return nil, err
	}

	out := make([]int, len(rows))
	for i, row := range rows {
		z := l.intercept
		for j, x := range row {
			z += l.coefficients[j] * x
		}
		if sigmoid(z) >= l.threshold {
			out[i] = 1
		}
	}
	return out, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

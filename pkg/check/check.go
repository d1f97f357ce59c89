package check

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mchmarny/fraudcheck/pkg/model"
	"github.com/mchmarny/fraudcheck/pkg/record"
)

// Service runs the assemble, predict and label steps for both entry paths.
type Service struct {
	assembler *record.Assembler
	predictor *model.Predictor
	encoders  model.EncoderSet
}

// New validates the store against the record layout.
func New(s *model.Store) (*Service, error) {
	a, err := record.NewAssembler(s)
	if err != nil {
		return nil, fmt.Errorf("model does not match record layout: %w", err)
	}
	return &Service{
		assembler: a,
		predictor: s.Predictor(),
		encoders:  s.Encoders(),
	}, nil
}

// Features returns the model column order.
func (s *Service) Features() []string {
	return s.assembler.Features()
}

// Categories returns the accepted values of every encoded column.
func (s *Service) Categories() map[string][]string {
	out := make(map[string][]string, len(s.encoders))
	for _, c := range s.encoders.Columns() {
		out[c] = s.encoders[c].Classes()
	}
	return out
}

// Single classifies one applicant.
func (s *Service) Single(ctx context.Context, r *record.Record) (model.Verdict, error) {
	if r == nil {
		return "", errors.New("record required")
	}

	vec, err := s.assembler.Vector(r)
	if err != nil {
		return "", err
	}

	out, err := s.predictor.Classify(ctx, [][]float64{vec})
	if err != nil {
		return "", err
	}

	return out[0], nil
}

// Batch classifies every row of the table and returns a copy of it with a
// Prediction column appended. Nothing is returned on any failure.
func (s *Service) Batch(ctx context.Context, t *record.Table) (*record.Table, error) {
	start := time.Now()

	m, err := s.assembler.Table(t)
	if err != nil {
		return nil, err
	}

	verdicts, err := s.predictor.Classify(ctx, m)
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(verdicts))
	fraud := 0
	for i, v := range verdicts {
		labels[i] = string(v)
		if v == model.VerdictFraud {
			fraud++
		}
	}

	slog.Debug("batch classified",
		"rows", len(labels),
		"fraud", fraud,
		"duration", time.Since(start).String())

	return t.WithColumn(record.ColPrediction, labels)
}

// IsInputError reports whether err was caused by the submitted data rather
// than by the model or the server.
func IsInputError(err error) bool {
	return errors.Is(err, record.ErrInvalidValue) ||
		errors.Is(err, record.ErrMissingColumn) ||
		errors.Is(err, model.ErrUnknownCategory)
}

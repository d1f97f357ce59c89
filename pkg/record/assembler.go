package record

import (
	"errors"
	"fmt"

	"github.com/mchmarny/fraudcheck/pkg/model"
)

// Assembler turns records into feature vectors in the classifier's column
// order, encoding categorical columns with the stored encoders.
type Assembler struct {
	features []string
	encoders model.EncoderSet
}

// NewAssembler checks that the loaded artifacts agree with the record
// layout: every model feature is a known column, every categorical feature
// has an encoder and every encoder belongs to a categorical column.
func NewAssembler(s *model.Store) (*Assembler, error) {
	if s == nil {
		return nil, errors.New("model store required")
	}

	features := s.Classifier().Features()
	encoders := s.Encoders()

	for _, f := range features {
		if !IsColumn(f) {
			return nil, fmt.Errorf("model feature %s is not a known column", f)
		}
		if IsCategorical(f) {
			if _, ok := encoders[f]; !ok {
				return nil, fmt.Errorf("no encoder for categorical feature %s", f)
			}
		}
	}

	for _, c := range encoders.Columns() {
		if !IsCategorical(c) {
			return nil, fmt.Errorf("encoder for %s does not match a categorical column", c)
		}
	}

	return &Assembler{
		features: features,
		encoders: encoders,
	}, nil
}

// Features returns the column order of assembled vectors.
func (a *Assembler) Features() []string {
	return a.features
}

// Vector assembles a single record.
func (a *Assembler) Vector(r *Record) ([]float64, error) {
	m, err := a.Matrix([]*Record{r})
	if err != nil {
		return nil, err
	}
	return m[0], nil
}

// Matrix assembles all records. Categorical columns are transformed as a
// whole so one unknown category fails the entire set.
func (a *Assembler) Matrix(records []*Record) ([][]float64, error) {
	if len(records) == 0 {
		return nil, errors.New("no records to assemble")
	}

	m := make([][]float64, len(records))
	for i := range m {
		m[i] = make([]float64, len(a.features))
	}

	for j, f := range a.features {
		if IsCategorical(f) {
			values := make([]string, len(records))
			for i, r := range records {
				values[i] = r.Categorical[f]
			}
			codes, err := a.encoders[f].Transform(values)
			if err != nil {
				return nil, fmt.Errorf("encoding %s: %w", f, err)
			}
			for i, c := range codes {
				m[i][j] = float64(c)
			}
			continue
		}

		for i, r := range records {
			v, ok := r.Numeric[f]
			if !ok {
				return nil, fmt.Errorf("%w: record %d has no %s", ErrInvalidValue, i+1, f)
			}
			m[i][j] = v
		}
	}

	return m, nil
}

// Table assembles an uploaded table.
func (a *Assembler) Table(t *Table) ([][]float64, error) {
	if t == nil {
		return nil, errors.New("table required")
	}
	records, err := t.Records()
	if err != nil {
		return nil, err
	}
	return a.Matrix(records)
}

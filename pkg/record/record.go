package record

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/mchmarny/fraudcheck/pkg/feature"
)

var (
	// ErrInvalidValue is returned for empty or unparsable field values.
	ErrInvalidValue = errors.New("invalid value")

	// ErrMissingColumn is returned when an uploaded table lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
)

// Record is one applicant laid out as model columns, before encoding.
type Record struct {
	Numeric     map[string]float64
	Categorical map[string]string
}

// lookup returns the raw value of a named input.
type lookup func(name string) string

// FromForm builds a single-applicant record from submitted form values.
// Income is normalized, age bucketed and name/email replaced by their
// similarity score.
func FromForm(values url.Values) (*Record, error) {
	return build(values.Get, true)
}

// FromMap is FromForm for callers holding plain key/value input.
func FromMap(m map[string]string) (*Record, error) {
	return build(func(k string) string { return m[k] }, true)
}

func build(get lookup, bucketAge bool) (*Record, error) {
	r := &Record{
		Numeric:     make(map[string]float64, len(Columns)),
		Categorical: make(map[string]string, len(categorical)),
	}

	for _, in := range Inputs {
		v := strings.TrimSpace(get(in.Name))
		switch in.Kind {
		case Numeric:
			f, err := parseNumber(in.Name, v)
			if err != nil {
				return nil, err
			}
			r.Numeric[in.Name] = f
		case Categorical:
			if v == "" {
				return nil, fmt.Errorf("%w: %s is empty", ErrInvalidValue, in.Name)
			}
			r.Categorical[in.Name] = v
		}
	}

	r.Numeric[ColIncome] = feature.NormalizeIncome(r.Numeric[ColIncome])
	if bucketAge {
		r.Numeric[ColCustomerAge] = feature.BucketAge(r.Numeric[ColCustomerAge])
	}

	sim, err := feature.NameEmailSimilarity(get(ColName), get(ColEmail))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidValue, ColEmail, err)
	}
	r.Numeric[ColNameEmailSimilarity] = sim

	return r, nil
}

func parseNumber(name, v string) (float64, error) {
	if v == "" {
		return 0, fmt.Errorf("%w: %s is empty", ErrInvalidValue, name)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s is not a number: %q", ErrInvalidValue, name, v)
	}
	return f, nil
}

package model

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

// ErrUnknownCategory is returned when a value is outside an encoder's vocabulary.
var ErrUnknownCategory = errors.New("unknown category")

// LabelEncoder maps a fixed vocabulary of categories to integer codes.
// The code of a category is its index in the sorted vocabulary.
type LabelEncoder struct {
	classes []string
	codes   map[string]int
}

// NewLabelEncoder creates an encoder for the given classes. Duplicate or
// empty class lists are rejected.
func NewLabelEncoder(classes []string) (*LabelEncoder, error) {
	if len(classes) == 0 {
		return nil, errors.New("encoder requires at least one class")
	}

	sorted := slices.Clone(classes)
	sort.Strings(sorted)

	codes := make(map[string]int, len(sorted))
	for i, c := range sorted {
		if _, ok := codes[c]; ok {
			return nil, fmt.Errorf("duplicate class %q", c)
		}
		codes[c] = i
	}

	return &LabelEncoder{
		classes: sorted,
		codes:   codes,
	}, nil
}

// Classes returns the sorted vocabulary.
func (e *LabelEncoder) Classes() []string {
	return slices.Clone(e.classes)
}

// Code returns the code for a single category.
func (e *LabelEncoder) Code(v string) (int, error) {
	c, ok := e.codes[v]
	if !ok {
		return 0, fmt.Errorf("%w: %q (known: %v)", ErrUnknownCategory, v, e.classes)
	}
	return c, nil
}

// Transform encodes every value, failing on the first unknown one.
func (e *LabelEncoder) Transform(values []string) ([]int, error) {
	out := make([]int, len(values))
	for i, v := range values {
		c, err := e.Code(v)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// EncoderSet holds one encoder per categorical column.
type EncoderSet map[string]*LabelEncoder

// Columns returns the encoded column names in sorted order.
func (s EncoderSet) Columns() []string {
	cols := make([]string, 0, len(s))
	for k := range s {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// Encode transforms a single value of the named column.
func (s EncoderSet) Encode(column, value string) (int, error) {
	e, ok := s[column]
	if !ok {
		return 0, fmt.Errorf("no encoder for column %s", column)
	}
	c, err := e.Code(value)
	if err != nil {
		return 0, fmt.Errorf("encoding %s: %w", column, err)
	}
	return c, nil
}

// LoadEncoders reads an encoder artifact: a map of column name to its classes.
func LoadEncoders(path string) (EncoderSet, error) {
	var raw map[string][]string
	if err := decodeArtifact(path, &raw); err != nil {
		return nil, fmt.Errorf("reading encoders: %w", err)
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("encoder artifact %s is empty", path)
	}

	set := make(EncoderSet, len(raw))
	for col, classes := range raw {
		e, err := NewLabelEncoder(classes)
		if err != nil {
			return nil, fmt.Errorf("encoder %s: %w", col, err)
		}
		set[col] = e
	}

	return set, nil
}

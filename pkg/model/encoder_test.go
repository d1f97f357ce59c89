package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelEncoder_SortedCodes(t *testing.T) {
	e, err := NewLabelEncoder([]string{"Other", "CB", "CA"})
	require.NoError(t, err)
	assert.Equal(t, []string{"CA", "CB", "Other"}, e.Classes())

	codes, err := e.Transform([]string{"CA", "Other", "CB", "CA"})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 1, 0}, codes)
}

func TestLabelEncoder_UnknownCategory(t *testing.T) {
	e, err := NewLabelEncoder([]string{"CA", "CB", "Other"})
	require.NoError(t, err)

	_, err = e.Code("ZZ")
	assert.ErrorIs(t, err, ErrUnknownCategory)

	codes, err := e.Transform([]string{"CA", "ZZ"})
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.Nil(t, codes)
}

func TestLabelEncoder_CaseSensitive(t *testing.T) {
	e, err := NewLabelEncoder([]string{"INTERNET", "TELEAPP"})
	require.NoError(t, err)
	_, err = e.Code("internet")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestNewLabelEncoder_Invalid(t *testing.T) {
	_, err := NewLabelEncoder(nil)
	assert.Error(t, err)

	_, err = NewLabelEncoder([]string{"a", "b", "a"})
	assert.Error(t, err)
}

func TestEncoderSet_Encode(t *testing.T) {
	set, err := LoadEncoders("testdata/encoders.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"device_os", "employment_status", "housing_status", "source"}, set.Columns())

	c, err := set.Encode("device_os", "windows")
	require.NoError(t, err)
	assert.Equal(t, 3, c)

	_, err = set.Encode("employment_status", "ZZ")
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = set.Encode("income", "1")
	assert.Error(t, err)
}

func TestLoadEncoders_Errors(t *testing.T) {
	_, err := LoadEncoders("")
	assert.Error(t, err)

	_, err = LoadEncoders("testdata/does-not-exist.yaml")
	assert.Error(t, err)

	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("{}\n"), 0600))
	_, err = LoadEncoders(empty)
	assert.Error(t, err)

	dup := filepath.Join(dir, "dup.json")
	require.NoError(t, os.WriteFile(dup, []byte(`{"source": ["INTERNET", "INTERNET"]}`), 0600))
	_, err = LoadEncoders(dup)
	assert.Error(t, err)
}

package check

import (
	"context"
	"net/url"
	"os"
	"testing"

	"github.com/mchmarny/fraudcheck/pkg/model"
	"github.com/mchmarny/fraudcheck/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClassifier struct {
	features []string
	codes    []int
}

func (f *fixedClassifier) Features() []string { return f.features }

func (f *fixedClassifier) Predict(_ context.Context, rows [][]float64) ([]int, error) {
	return f.codes[:len(rows)], nil
}

func newService(t *testing.T) *Service {
	t.Helper()
	s, err := model.Load(context.Background(), &model.Options{
		ModelPath:   "../model/testdata/model.yaml",
		EncoderPath: "../model/testdata/encoders.yaml",
	})
	require.NoError(t, err)

	svc, err := New(s)
	require.NoError(t, err)
	return svc
}

func serviceWithCodes(t *testing.T, codes ...int) *Service {
	t.Helper()
	e, err := model.LoadEncoders("../model/testdata/encoders.yaml")
	require.NoError(t, err)

	s, err := model.NewStore(&fixedClassifier{features: record.Columns, codes: codes}, e)
	require.NoError(t, err)

	svc, err := New(s)
	require.NoError(t, err)
	return svc
}

func form(name, email string) url.Values {
	v := url.Values{}
	for _, in := range record.Inputs {
		v.Set(in.Name, "0")
	}
	v.Set(record.ColName, name)
	v.Set(record.ColEmail, email)
	v.Set(record.ColEmploymentStatus, "CA")
	v.Set(record.ColHousingStatus, "BC")
	v.Set(record.ColSource, "INTERNET")
	v.Set(record.ColDeviceOS, "linux")
	return v
}

func readTable(t *testing.T) *record.Table {
	t.Helper()
	f, err := os.Open("../record/testdata/applicants.csv")
	require.NoError(t, err)
	defer f.Close()
	tbl, err := record.ReadTable(f)
	require.NoError(t, err)
	return tbl
}

func TestSingle(t *testing.T) {
	svc := newService(t)

	r, err := record.FromForm(form("John Smith", "john.smith@mail.com"))
	require.NoError(t, err)
	v, err := svc.Single(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, model.VerdictLegit, v)

	r, err = record.FromForm(form("Alice", "bob@mail.com"))
	require.NoError(t, err)
	v, err = svc.Single(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, model.VerdictFraud, v)
}

func TestSingle_CodeMapping(t *testing.T) {
	r, err := record.FromForm(form("John Smith", "john.smith@mail.com"))
	require.NoError(t, err)

	v, err := serviceWithCodes(t, 1).Single(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, model.VerdictFraud, v)

	v, err = serviceWithCodes(t, 0).Single(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, model.VerdictLegit, v)

	_, err = serviceWithCodes(t, 2).Single(context.Background(), r)
	assert.ErrorIs(t, err, model.ErrInvalidPrediction)
	assert.False(t, IsInputError(err))
}

func TestSingle_UnknownCategory(t *testing.T) {
	v := form("John Smith", "john.smith@mail.com")
	v.Set(record.ColEmploymentStatus, "ZZ")
	r, err := record.FromForm(v)
	require.NoError(t, err)

	_, err = newService(t).Single(context.Background(), r)
	assert.ErrorIs(t, err, model.ErrUnknownCategory)
	assert.True(t, IsInputError(err))

	_, err = newService(t).Single(context.Background(), nil)
	assert.Error(t, err)
}

func TestBatch(t *testing.T) {
	out, err := newService(t).Batch(context.Background(), readTable(t))
	require.NoError(t, err)

	col := out.Index(record.ColPrediction)
	require.Equal(t, 27, col)
	assert.Equal(t, "LEGIT", out.Rows[0][col])
	assert.Equal(t, "FRAUD", out.Rows[1][col])
	assert.Equal(t, "LEGIT", out.Rows[2][col])
	// raw values are shown, not the encoded ones
	assert.Equal(t, "John Smith", out.Rows[0][out.Index(record.ColName)])
}

func TestBatch_BadRowAbortsEverything(t *testing.T) {
	tbl := readTable(t)
	tbl.Rows[1][tbl.Index(record.ColVelocity24h)] = ""

	out, err := newService(t).Batch(context.Background(), tbl)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, record.ErrInvalidValue)
	assert.True(t, IsInputError(err))
	assert.Equal(t, -1, tbl.Index(record.ColPrediction))
}

func TestBatch_MissingColumn(t *testing.T) {
	tbl := readTable(t)
	tbl.Header[tbl.Index(record.ColEmail)] = "mail"

	out, err := newService(t).Batch(context.Background(), tbl)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, record.ErrMissingColumn)
}

func TestBatch_InvalidCodeAbortsEverything(t *testing.T) {
	out, err := serviceWithCodes(t, 0, 1, 5).Batch(context.Background(), readTable(t))
	assert.Nil(t, out)
	assert.ErrorIs(t, err, model.ErrInvalidPrediction)
}

func TestSchemaAccessors(t *testing.T) {
	svc := newService(t)
	assert.Equal(t, record.Columns, svc.Features())

	cats := svc.Categories()
	require.Len(t, cats, 4)
	assert.Equal(t, []string{"INTERNET", "TELEAPP"}, cats[record.ColSource])
	assert.Equal(t, []string{"linux", "macintosh", "other", "windows"}, cats[record.ColDeviceOS])
}

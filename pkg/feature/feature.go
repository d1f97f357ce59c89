package feature

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/adrg/strutil/metrics"
)

const (
	// IncomeCeiling is the income at which the normalized ratio saturates.
	IncomeCeiling = 150000.0

	ageBucketSize = 10.0
	nonAlphaRegex = "[^a-z]+"
)

var (
	// ErrMalformedEmail is returned when an email has no local part separator.
	ErrMalformedEmail = errors.New("malformed email")

	nonAlpha = regexp.MustCompile(nonAlphaRegex)

	// substitution counts as delete + insert, which yields the Indel distance
	indel = &metrics.Levenshtein{
		CaseSensitive: true,
		InsertCost:    1,
		DeleteCost:    1,
		ReplaceCost:   2,
	}
)

// NormalizeIncome returns income as a ratio of IncomeCeiling, capped at 1.
// Negative income is not clamped.
func NormalizeIncome(raw float64) float64 {
	return math.Min(raw/IncomeCeiling, 1)
}

// BucketAge floors age to its decade.
func BucketAge(raw float64) float64 {
	return math.Floor(raw/ageBucketSize) * ageBucketSize
}

// NameEmailSimilarity scores how closely the applicant name matches the
// local part of the email, in [0,1]. Both sides are lower-cased and reduced
// to letters before comparison.
func NameEmailSimilarity(name, email string) (float64, error) {
	local, _, ok := strings.Cut(email, "@")
	if !ok {
		return 0, fmt.Errorf("%w: %q has no @", ErrMalformedEmail, email)
	}

	return Ratio(clean(name), clean(local)), nil
}

// Ratio is the normalized Indel similarity of a and b:
// 1 - distance/(len(a)+len(b)). Two empty strings are identical.
func Ratio(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 1
	}

	d := indel.Distance(a, b)
	return 1 - float64(d)/float64(total)
}

func clean(s string) string {
	return nonAlpha.ReplaceAllString(strings.ToLower(s), "")
}

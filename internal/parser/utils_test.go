package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	t.Parallel()

	cases := map[string]float64{
		"1,234.5":   1234.5,
		" 12 ":      12,
		"45%":       45,
		"-3.5":      -3.5,
		"":          0,
		"abc":       0,
		"NaN":       0,
		"Inf":       0,
		"1,000,000": 1000000,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseNumber(in), "input %q", in)
	}
}

func TestSplitFields_TrimsEachField(t *testing.T) {
	t.Parallel()

	got := SplitFields(" a \t b\t\tc ")
	assert.Equal(t, []string{"a", "b", "", "c"}, got)
}

func TestContainsFold(t *testing.T) {
	t.Parallel()

	assert.True(t, ContainsFold("PHÒNG BAN\tX", "phòng ban"))
	assert.False(t, ContainsFold("Nhân viên", "phòng ban"))
}

package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"periodcheck/internal/model"
)

func TestParsePeriodFromName_Standard(t *testing.T) {
	t.Parallel()

	p, err := ParsePeriodFromName("202003-202005_foo.csv")
	require.NoError(t, err)
	if p.Start != 202003 || p.End != 202005 {
		t.Fatalf("unexpected period: %v~%v", p.Start, p.End)
	}
	assert.Equal(t, "2020-03~2020-05", p.Label())
}

func TestParsePeriodFromName_Malformed(t *testing.T) {
	t.Parallel()

	for _, name := range []string{
		"foo.csv",
		"202003_202005_foo.csv",
		"x202003-202005_foo.csv",
		"202013-202105_foo.csv",
		"202003-202005.csv",
	} {
		_, err := ParsePeriodFromName(name)
		if !errors.Is(err, ErrMalformedPeriodToken) {
			t.Fatalf("%s: want ErrMalformedPeriodToken got=%v", name, err)
		}
	}
}

func TestNormalizeColumnName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "year", NormalizeColumnName(" Year "))
	assert.Equal(t, "기준년도", NormalizeColumnName("기준 년도\n"))
	assert.Equal(t, "month", NormalizeColumnName("\ufeffMONTH"))
}

func TestDigitsOnly(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "20200115", DigitsOnly("2020-01-15"))
	assert.Equal(t, "2020", DigitsOnly("2020년"))
	assert.Equal(t, "", DigitsOnly("n/a"))
}

func TestCoerceInt(t *testing.T) {
	t.Parallel()

	cases := map[string]model.NullInt{
		"2020":   model.Int(2020),
		" 3 ":    model.Int(3),
		"3.0":    model.Int(3),
		"3.5":    {},
		"":       {},
		"2020년":  {},
		"NaN":    {},
		"1e12":   {},
		"-4":     model.Int(-4),
		"0":      model.Int(0),
		"12.000": model.Int(12),
	}
	for in, want := range cases {
		if got := CoerceInt(in); got != want {
			t.Fatalf("CoerceInt(%q) want=%v got=%v", in, want, got)
		}
	}
}

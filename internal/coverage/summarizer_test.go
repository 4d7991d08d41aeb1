package coverage

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"periodcheck/internal/model"
)

func TestFormatRanges_CrossesYearBoundary(t *testing.T) {
	t.Parallel()

	s := NewSummarizer(Options{Reference: model.Interval{Start: 202011, End: 202102}})
	obs := model.MonthSet{}
	obs.Add(202011)
	obs.Add(202102)

	res := s.Summarize(obs)
	assert.Equal(t, "2020-12~2021-01", res.MissingRanges)
	assert.Equal(t, []model.Month{202012, 202101}, res.Missing)
	assert.Equal(t, []model.Month{202011, 202102}, res.Present)
}

func TestFormatRanges_TruncatesAfterMaxSegments(t *testing.T) {
	t.Parallel()

	// 8 段互不相邻的缺失月份
	months := []model.Month{202001, 202003, 202005, 202007, 202009, 202011, 202101, 202103}
	got := FormatRanges(months, 6)

	parts := strings.Split(got, ", ")
	require.Len(t, parts, 7)
	assert.Equal(t, "2020-01", parts[0])
	assert.Equal(t, "2020-11", parts[5])
	assert.Equal(t, Ellipsis, parts[6])
}

func TestFormatRanges_ExactlyMaxSegmentsHasNoEllipsis(t *testing.T) {
	t.Parallel()

	got := FormatRanges([]model.Month{202001, 202002, 202004, 202006, 202008, 202010, 202012}, 6)
	assert.Equal(t, "2020-01~2020-02, 2020-04, 2020-06, 2020-08, 2020-10, 2020-12", got)
	assert.Empty(t, FormatRanges(nil, 6))
}

func TestSummarize_OrderIndependent(t *testing.T) {
	t.Parallel()

	s := NewSummarizer(DefaultOptions())
	months := []model.Month{202405, 201912, 202001, 202306, 202002, 203001, 202509}

	forward := model.MonthSet{}
	for _, m := range months {
		forward.Add(m)
	}
	backward := model.MonthSet{}
	for i := len(months) - 1; i >= 0; i-- {
		backward.Add(months[i])
	}

	a := s.Summarize(forward)
	b := s.Summarize(backward)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("result depends on insertion order (-a +b):\n%s", diff)
	}
	assert.Equal(t, []model.Month{201912, 203001}, a.Outside)
	assert.Len(t, a.Present, 5)
	assert.Len(t, a.Missing, 69-5)
}

func TestSummarize_EmptyObservationsMissEverything(t *testing.T) {
	t.Parallel()

	s := NewSummarizer(DefaultOptions())
	res := s.Missing()
	assert.Len(t, res.Missing, 69)
	assert.Empty(t, res.Present)
	assert.Equal(t, "2020-01~2025-09", res.MissingRanges)
}

func TestRuns(t *testing.T) {
	t.Parallel()

	runs := Runs([]model.Month{202012, 202101, 202103})
	want := []Run{{Start: 202012, End: 202101}, {Start: 202103, End: 202103}}
	if diff := cmp.Diff(want, runs); diff != "" {
		t.Fatalf("runs mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "2021-03", runs[1].Label())
}

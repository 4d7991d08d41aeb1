package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"periodcheck/internal/model"
)

var testReference = model.Interval{Start: 202001, End: 202012}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(filepath.Join(t.TempDir(), "nested", "periodcheck.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestRunLifecycle(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	run, err := st.CreateRun(model.RunSummarize, "/data/1", testReference, 3)
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)

	got, err := st.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunRunning, got.Status)
	assert.Nil(t, got.FinishedAt)
	assert.Equal(t, testReference, got.Reference)

	run.Processed, run.Skipped = 2, 1
	require.NoError(t, st.FinishRun(run, nil))

	got, err = st.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunFinished, got.Status)
	require.NotNil(t, got.FinishedAt)
	assert.Equal(t, 2, got.Processed)
	assert.Equal(t, 1, got.Skipped)
	assert.Equal(t, "/data/1", got.Root)
}

func TestFinishRun_RecordsFailure(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	run, err := st.CreateRun(model.RunNormalize, "/data", testReference, 0)
	require.NoError(t, err)
	require.NoError(t, st.FinishRun(run, errors.New("root missing")))

	got, err := st.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunFailed, got.Status)
	assert.Equal(t, "root missing", got.Error)
}

func TestGetRun_NotFound(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	_, err := st.GetRun("missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = st.LatestRun(model.RunCleanup)
	assert.True(t, errors.Is(err, ErrNotFound))

	err = st.FinishRun(&model.Run{ID: "missing"}, nil)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSummariesRoundTripInOrder(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	run, err := st.CreateRun(model.RunSummarize, "/data", testReference, 2)
	require.NoError(t, err)

	in := []model.FileSummary{
		{FileName: "b.csv", Folder: "1", DataRange: "2020-01~2020-10", PresentCount: 10, MissingCount: 2,
			MissingRanges: "2020-11~2020-12", Encoding: "utf-8", Missing: []model.Month{202011, 202012}},
		{FileName: "a.csv", Folder: "1", MissingCount: 12, MissingRanges: "2020-01~2020-12",
			Notes: "기간 정보 확인 불가", Encoding: "cp949", Missing: testReference.Months()},
	}
	require.NoError(t, st.SaveSummaries(run.ID, in))

	out, err := st.ListSummaries(run.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(in, out, cmpopts.IgnoreFields(model.FileSummary{}, "Missing")); diff != "" {
		t.Fatalf("summaries mismatch (-in +out):\n%s", diff)
	}

	gaps, err := st.ListMonthGaps(run.ID)
	require.NoError(t, err)
	require.Len(t, gaps, 12)
	assert.Equal(t, model.MonthGap{Month: 202001, Label: "2020-01", Files: 1}, gaps[0])
	assert.Equal(t, model.MonthGap{Month: 202012, Label: "2020-12", Files: 2}, gaps[11])
}

func TestListRuns_FilterAndLatest(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	first, err := st.CreateRun(model.RunSummarize, "/a", testReference, 0)
	require.NoError(t, err)
	_, err = st.CreateRun(model.RunNormalize, "/b", testReference, 0)
	require.NoError(t, err)
	last, err := st.CreateRun(model.RunSummarize, "/c", testReference, 0)
	require.NoError(t, err)

	all, err := st.ListRuns("", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	summaries, err := st.ListRuns(model.RunSummarize, 0)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, last.ID, summaries[0].ID)
	assert.Equal(t, first.ID, summaries[1].ID)

	latest, err := st.LatestRun(model.RunSummarize)
	require.NoError(t, err)
	assert.Equal(t, last.ID, latest.ID)
}

func TestFileErrors(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	run, err := st.CreateRun(model.RunNormalize, "/data", testReference, 1)
	require.NoError(t, err)
	require.NoError(t, st.SaveFileErrors(run.ID, nil))
	require.NoError(t, st.SaveFileErrors(run.ID, []model.FileError{{Path: "/data/1/x.csv", Kind: "encoding", Message: "boom"}}))

	errs, err := st.ListFileErrors(run.ID)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "encoding", errs[0].Kind)
}

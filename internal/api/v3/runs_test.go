package v3

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"periodcheck/internal/config"
	"periodcheck/internal/exporter"
	"periodcheck/internal/model"
	"periodcheck/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(filepath.Join(t.TempDir(), "periodcheck.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	h := NewHandler(st, config.DefaultConfig())
	r := gin.New()
	api := r.Group("/api")
	h.RegisterRoutes(api)
	return r, st
}

func seedSummaryRun(t *testing.T, st *store.Store) *model.Run {
	t.Helper()
	ref := model.Interval{Start: 202001, End: 202003}
	run, err := st.CreateRun(model.RunSummarize, "/data", ref, 2)
	require.NoError(t, err)
	require.NoError(t, st.SaveSummaries(run.ID, []model.FileSummary{
		{FileName: "a.csv", Folder: "data", DataRange: "2020-01~2020-01", PresentCount: 1, MissingCount: 2,
			MissingRanges: "2020-02~2020-03", Encoding: "utf-8", Missing: []model.Month{202002, 202003}},
		{FileName: "b.csv", Folder: "data", MissingCount: 3, MissingRanges: "2020-01~2020-03",
			Notes: "기간 정보 확인 불가", Encoding: "cp949", Missing: ref.Months()},
	}))
	run.Processed = 2
	require.NoError(t, st.FinishRun(run, nil))
	return run
}

func doGet(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetStatus(t *testing.T) {
	r, st := newTestRouter(t)

	w := doGet(t, r, "/api/status")
	require.Equal(t, http.StatusOK, w.Code)
	var empty StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &empty))
	assert.False(t, empty.Initialized)
	assert.Equal(t, 69, empty.Months)

	run := seedSummaryRun(t, st)
	w = doGet(t, r, "/api/status")
	var resp StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Initialized)
	assert.Equal(t, 1, resp.TotalRuns)
	require.NotNil(t, resp.LastRun)
	assert.Equal(t, run.ID, resp.LastRun.ID)
}

func TestListRuns(t *testing.T) {
	r, st := newTestRouter(t)
	seedSummaryRun(t, st)
	_, err := st.CreateRun(model.RunNormalize, "/data", model.Interval{Start: 202001, End: 202003}, 0)
	require.NoError(t, err)

	var resp struct {
		Runs  []model.Run `json:"runs"`
		Total int         `json:"total"`
	}
	w := doGet(t, r, "/api/runs?kind=summarize")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, model.RunSummarize, resp.Runs[0].Kind)

	assert.Equal(t, http.StatusBadRequest, doGet(t, r, "/api/runs?kind=bogus").Code)
	assert.Equal(t, http.StatusBadRequest, doGet(t, r, "/api/runs?limit=x").Code)
}

func TestRunDetailEndpoints(t *testing.T) {
	r, st := newTestRouter(t)
	run := seedSummaryRun(t, st)

	w := doGet(t, r, "/api/runs/"+run.ID)
	require.Equal(t, http.StatusOK, w.Code)
	var got model.Run
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, model.RunFinished, got.Status)

	var summaries struct {
		Summaries []model.FileSummary `json:"summaries"`
	}
	w = doGet(t, r, "/api/runs/"+run.ID+"/summaries")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summaries))
	require.Len(t, summaries.Summaries, 2)
	assert.Equal(t, "cp949", summaries.Summaries[1].Encoding)

	var months struct {
		Months []model.MonthGap `json:"months"`
	}
	w = doGet(t, r, "/api/runs/"+run.ID+"/months")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &months))
	require.Len(t, months.Months, 3)
	assert.Equal(t, 1, months.Months[0].Files)
	assert.Equal(t, 2, months.Months[2].Files)

	w = doGet(t, r, "/api/runs/"+run.ID+"/errors")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"runId":"`+run.ID+`","errors":[]}`, w.Body.String())

	assert.Equal(t, http.StatusNotFound, doGet(t, r, "/api/runs/unknown").Code)
	assert.Equal(t, http.StatusNotFound, doGet(t, r, "/api/runs/unknown/summaries").Code)
}

func TestExportWorkbook(t *testing.T) {
	r, st := newTestRouter(t)
	run := seedSummaryRun(t, st)

	w := doGet(t, r, "/api/runs/"+run.ID+"/export")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), `attachment; filename="summary-`))
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")), "body must be a complete zip archive")

	f, err := excelize.OpenReader(w.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(exporter.SheetSummary)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "b.csv", rows[1][0], "sorted by missing count")

	empty, err := st.CreateRun(model.RunNormalize, "/data", run.Reference, 0)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, doGet(t, r, "/api/runs/"+empty.ID+"/export").Code)
}

func TestBuildExportContentDisposition(t *testing.T) {
	t.Parallel()

	got := buildExportContentDisposition("기간누락_요약", "0123456789abcdef")
	want := "attachment; filename=\"summary-01234567.xlsx\"; filename*=UTF-8''%EA%B8%B0%EA%B0%84%EB%88%84%EB%9D%BD_%EC%9A%94%EC%95%BD-01234567.xlsx"
	if got != want {
		t.Fatalf("content-disposition mismatch:\n got: %s\nwant: %s", got, want)
	}
}

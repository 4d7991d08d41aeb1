package v3

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"periodcheck/internal/model"
	"periodcheck/internal/store"
)

// ListRuns 运行列表
// GET /api/runs?kind=summarize&limit=20
func (h *Handler) ListRuns(c *gin.Context) {
	kind := model.RunKind(c.Query("kind"))
	switch kind {
	case "", model.RunNormalize, model.RunSummarize, model.RunCleanup:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "未知的运行类型: " + string(kind)})
		return
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit 参数无效"})
			return
		}
		limit = n
	}

	runs, err := h.store.ListRuns(kind, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询运行记录失败"})
		return
	}
	if runs == nil {
		runs = []*model.Run{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs, "total": len(runs)})
}

// GetRun 运行详情
// GET /api/runs/:id
func (h *Handler) GetRun(c *gin.Context) {
	run, ok := h.loadRun(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, run)
}

// ListSummaries 运行的文件汇总
// GET /api/runs/:id/summaries
func (h *Handler) ListSummaries(c *gin.Context) {
	run, ok := h.loadRun(c)
	if !ok {
		return
	}
	summaries, err := h.store.ListSummaries(run.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询汇总失败"})
		return
	}
	if summaries == nil {
		summaries = []model.FileSummary{}
	}
	c.JSON(http.StatusOK, gin.H{"runId": run.ID, "summaries": summaries})
}

// ListFileErrors 运行中跳过的文件
// GET /api/runs/:id/errors
func (h *Handler) ListFileErrors(c *gin.Context) {
	run, ok := h.loadRun(c)
	if !ok {
		return
	}
	errs, err := h.store.ListFileErrors(run.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询错误记录失败"})
		return
	}
	if errs == nil {
		errs = []model.FileError{}
	}
	c.JSON(http.StatusOK, gin.H{"runId": run.ID, "errors": errs})
}

// ListMonthGaps 每个参考月份的缺失文件数
// GET /api/runs/:id/months
func (h *Handler) ListMonthGaps(c *gin.Context) {
	run, ok := h.loadRun(c)
	if !ok {
		return
	}
	gaps, err := h.store.ListMonthGaps(run.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询缺失月份失败"})
		return
	}
	if gaps == nil {
		gaps = []model.MonthGap{}
	}
	c.JSON(http.StatusOK, gin.H{"runId": run.ID, "reference": run.Reference, "months": gaps})
}

// loadRun 按路径参数加载运行记录，失败时已写入响应
func (h *Handler) loadRun(c *gin.Context) (*model.Run, bool) {
	run, err := h.store.GetRun(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "运行记录不存在"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询运行记录失败"})
		return nil, false
	}
	return run, true
}

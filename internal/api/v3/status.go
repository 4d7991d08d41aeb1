package v3

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"periodcheck/internal/model"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized bool           `json:"initialized"` // 是否已有运行记录
	Reference   model.Interval `json:"reference"`   // 当前参考区间
	Months      int            `json:"months"`      // 参考区间月数
	TotalRuns   int            `json:"totalRuns"`   // 运行总数
	LastRun     *model.Run     `json:"lastRun,omitempty"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	ref := h.cfg.ReferenceInterval()
	resp := StatusResponse{Reference: ref, Months: ref.Len()}

	runs, err := h.store.ListRuns("", 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询运行记录失败"})
		return
	}
	resp.TotalRuns = len(runs)
	resp.Initialized = len(runs) > 0
	if len(runs) > 0 {
		resp.LastRun = runs[0]
	}
	c.JSON(http.StatusOK, resp)
}

// ConfigResponse 配置响应（只读）
type ConfigResponse struct {
	Reference       model.Interval `json:"reference"`
	Candidates      []string       `json:"candidates"`
	Script          string         `json:"script"`
	NormalizePolicy string         `json:"normalizePolicy"`
	SummarizePolicy string         `json:"summarizePolicy"`
	CleanupPolicy   string         `json:"cleanupPolicy"`
	WindowStart     int            `json:"windowStart"`
	WindowEnd       int            `json:"windowEnd"`
	MaxSegments     int            `json:"maxSegments"`
	Indices         []int          `json:"indices"`
}

// GetConfig 获取当前生效的配置
// GET /api/config
func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, ConfigResponse{
		Reference:       h.cfg.ReferenceInterval(),
		Candidates:      h.cfg.Encoding.Candidates,
		Script:          h.cfg.Encoding.Script,
		NormalizePolicy: h.cfg.Encoding.NormalizePolicy,
		SummarizePolicy: h.cfg.Encoding.SummarizePolicy,
		CleanupPolicy:   h.cfg.Encoding.CleanupPolicy,
		WindowStart:     h.cfg.Observe.WindowStart,
		WindowEnd:       h.cfg.Observe.WindowEnd,
		MaxSegments:     h.cfg.Report.MaxSegments,
		Indices:         h.cfg.Layout.Indices,
	})
}

package v3

import (
	"github.com/gin-gonic/gin"

	"periodcheck/internal/config"
	"periodcheck/internal/store"
)

// Handler 运行历史只读 API
type Handler struct {
	store *store.Store
	cfg   *config.AppConfig
}

// NewHandler 创建 API 处理器
func NewHandler(store *store.Store, cfg *config.AppConfig) *Handler {
	return &Handler{store: store, cfg: cfg}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)
	router.GET("/config", h.GetConfig)

	// 运行历史
	router.GET("/runs", h.ListRuns)
	router.GET("/runs/:id", h.GetRun)
	router.GET("/runs/:id/summaries", h.ListSummaries)
	router.GET("/runs/:id/errors", h.ListFileErrors)
	router.GET("/runs/:id/months", h.ListMonthGaps)

	// 导出
	router.GET("/runs/:id/export", h.Export)
}

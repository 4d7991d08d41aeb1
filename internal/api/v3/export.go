package v3

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"periodcheck/internal/exporter"
)

// Export 导出汇总工作簿
// GET /api/runs/:id/export
func (h *Handler) Export(c *gin.Context) {
	run, ok := h.loadRun(c)
	if !ok {
		return
	}
	summaries, err := h.store.ListSummaries(run.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询汇总失败"})
		return
	}
	if len(summaries) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "该运行没有汇总结果"})
		return
	}

	file, err := exporter.SummaryWorkbook(run.Reference, summaries)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "导出失败: " + err.Error()})
		return
	}
	defer file.Close()

	// 先完整写入缓冲区，失败时尚未发送任何响应头
	buf, err := file.WriteToBuffer()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "写入文件失败: " + err.Error()})
		return
	}

	c.Header("Content-Disposition", buildExportContentDisposition(h.cfg.Report.BaseName, run.ID))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// buildExportContentDisposition ASCII 文件名 + RFC 5987 的 UTF-8 文件名
func buildExportContentDisposition(baseName, runID string) string {
	short := runID
	if len(short) > 8 {
		short = short[:8]
	}
	ascii := fmt.Sprintf("summary-%s.xlsx", short)
	utf := url.PathEscape(fmt.Sprintf("%s-%s.xlsx", baseName, short))
	return fmt.Sprintf("attachment; filename=\"%s\"; filename*=UTF-8''%s", ascii, utf)
}

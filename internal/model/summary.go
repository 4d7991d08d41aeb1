package model

// FileSummary 单个文件的期间覆盖汇总
type FileSummary struct {
	FileName      string `json:"fileName"`
	Folder        string `json:"folder"`
	DataRange     string `json:"dataRange"`
	PresentCount  int    `json:"presentCount"`
	MissingCount  int    `json:"missingCount"`
	MissingRanges string `json:"missingRanges"`
	Notes         string `json:"notes"`
	Encoding      string `json:"encoding"`
	// Missing 缺失月份明细，只入库，不写入 CSV
	Missing []Month `json:"-"`
}

// SummaryHeaders 汇总 CSV/XLSX 表头
var SummaryHeaders = []string{
	"file_name",
	"folder",
	"data_range",
	"present_count",
	"missing_count",
	"missing_ranges",
	"notes",
	"encoding",
}

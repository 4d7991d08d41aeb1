package exporter

// 导出阶段
const (
	StageCSV      = "csv"
	StageMarkdown = "markdown"
	StageXLSX     = "xlsx"
	StageDone     = "done"
)

// ProgressEvent 导出进度事件
type ProgressEvent struct {
	Percent int
	Stage   string
	Path    string
}

func reportProgress(progress func(ProgressEvent), percent int, stage, path string) {
	if progress == nil {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	progress(ProgressEvent{
		Percent: percent,
		Stage:   stage,
		Path:    path,
	})
}

package model

import "time"

// RunKind 批处理类型
type RunKind string

const (
	RunNormalize RunKind = "normalize"
	RunSummarize RunKind = "summarize"
	RunCleanup   RunKind = "cleanup"
)

// RunStatus 批处理状态
type RunStatus string

const (
	RunRunning  RunStatus = "running"
	RunFinished RunStatus = "finished"
	RunFailed   RunStatus = "failed"
)

// Run 一次批处理的记录
type Run struct {
	ID         string     `json:"id"`
	Kind       RunKind    `json:"kind"`
	Root       string     `json:"root"`
	Status     RunStatus  `json:"status"`
	Reference  Interval   `json:"reference"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	TotalFiles int        `json:"totalFiles"`
	Processed  int        `json:"processed"`
	Skipped    int        `json:"skipped"`
	Error      string     `json:"error,omitempty"`
}

// FileError 单个文件的处理失败（不中断批处理）
type FileError struct {
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// MonthGap 某个参考月份缺失的文件数
type MonthGap struct {
	Month Month  `json:"month"`
	Label string `json:"label"`
	Files int    `json:"files"`
}

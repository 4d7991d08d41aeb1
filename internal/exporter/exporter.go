package exporter

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"periodcheck/internal/model"
)

// Options 报告输出配置
type Options struct {
	Reference model.Interval
	BaseName  string
	XLSX      bool
}

// Paths 本次写出的报告文件
type Paths struct {
	CSV      string `json:"csv"`
	Markdown string `json:"markdown"`
	XLSX     string `json:"xlsx,omitempty"`
}

// Exporter 汇总报告导出器
type Exporter struct {
	opts Options
}

// NewExporter 创建导出器
func NewExporter(opts Options) *Exporter {
	if opts.BaseName == "" {
		opts.BaseName = "summary"
	}
	return &Exporter{opts: opts}
}

// Export 在 dir 下写出 CSV、Markdown，以及可选的 XLSX
func (e *Exporter) Export(dir string, summaries []model.FileSummary, progress func(ProgressEvent)) (Paths, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Paths{}, fmt.Errorf("failed to create output dir: %w", err)
	}
	paths := Paths{
		CSV:      filepath.Join(dir, e.opts.BaseName+".csv"),
		Markdown: filepath.Join(dir, e.opts.BaseName+".md"),
	}

	reportProgress(progress, 0, StageCSV, paths.CSV)
	if err := WriteSummaryCSV(paths.CSV, summaries); err != nil {
		return paths, err
	}

	reportProgress(progress, 40, StageMarkdown, paths.Markdown)
	if err := writeAtomic(paths.Markdown, func(w *bufio.Writer) error {
		_, err := w.WriteString(RenderMarkdown(e.opts.Reference, summaries))
		return err
	}); err != nil {
		return paths, err
	}

	if e.opts.XLSX {
		paths.XLSX = filepath.Join(dir, e.opts.BaseName+".xlsx")
		reportProgress(progress, 70, StageXLSX, paths.XLSX)
		f, err := SummaryWorkbook(e.opts.Reference, summaries)
		if err != nil {
			return paths, err
		}
		defer f.Close()
		if err := f.SaveAs(paths.XLSX); err != nil {
			return paths, fmt.Errorf("failed to save workbook: %w", err)
		}
	}

	reportProgress(progress, 100, StageDone, "")
	return paths, nil
}

// WriteSummaryCSV 按固定表头写出汇总 CSV（UTF-8 BOM）
func WriteSummaryCSV(path string, summaries []model.FileSummary) error {
	return writeAtomic(path, func(w *bufio.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(model.SummaryHeaders); err != nil {
			return err
		}
		for _, s := range summaries {
			if err := cw.Write(summaryRecord(s)); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

func summaryRecord(s model.FileSummary) []string {
	return []string{
		s.FileName,
		s.Folder,
		s.DataRange,
		strconv.Itoa(s.PresentCount),
		strconv.Itoa(s.MissingCount),
		s.MissingRanges,
		s.Notes,
		s.Encoding,
	}
}

// SortByMissing 按缺失月数降序，稳定排序，不修改入参
func SortByMissing(summaries []model.FileSummary) []model.FileSummary {
	out := append([]model.FileSummary(nil), summaries...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MissingCount > out[j].MissingCount
	})
	return out
}

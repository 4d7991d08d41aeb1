package importer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"periodcheck/internal/exporter"
	"periodcheck/internal/model"
	"periodcheck/internal/parser"
)

// 汇总备注
const (
	NoteNoPeriod  = "기간 정보 확인 불가"
	NoteReadError = "read_error:"
)

// Summarize 汇总每个文件的缺失月份，并在 outDir 写出报告
func (c *Coordinator) Summarize(ctx context.Context, root string, paths []string, outDir string, progress chan<- ProgressEvent) (*RunReport, error) {
	r, err := c.begin(model.RunSummarize, root, paths, progress)
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return c.finish(r, err)
		}
		summary, err := c.SummarizeFile(path)
		r.report.Summaries = append(r.report.Summaries, summary)
		if err != nil {
			c.skip(r, path, err)
			continue
		}
		r.report.Processed++
		c.sendProgress(progress, ProgressEvent{
			Type:      "file_done",
			Message:   summary.FileName,
			Data:      summary,
			Timestamp: time.Now(),
		})
	}

	outputs, err := c.exporter.Export(outDir, r.report.Summaries, func(ev exporter.ProgressEvent) {
		c.sendProgress(progress, ProgressEvent{
			Type:      "export",
			Message:   fmt.Sprintf("%s %d%%", ev.Stage, ev.Percent),
			Data:      ev,
			Timestamp: time.Now(),
		})
	})
	if err != nil {
		return c.finish(r, fmt.Errorf("failed to write reports: %w", err))
	}
	r.report.Outputs = &outputs
	return c.finish(r, nil)
}

// SummarizeFile 单个文件的覆盖汇总；读取失败时仍返回一条汇总（整段缺失）以及该错误
func (c *Coordinator) SummarizeFile(path string) (model.FileSummary, error) {
	summary := model.FileSummary{
		FileName: filepath.Base(path),
		Folder:   filepath.Base(filepath.Dir(path)),
	}

	table, enc, err := c.load(model.RunSummarize, path)
	if err != nil {
		res := c.summarizer.Missing()
		summary.MissingCount = len(res.Missing)
		summary.Missing = res.Missing
		summary.Notes = NoteReadError + err.Error()
		return summary, err
	}
	summary.Encoding = enc.Name

	cols := c.classifier.Classify(table)
	obs := c.extractor.Observations(table, cols)
	res := c.summarizer.Summarize(obs)

	summary.PresentCount = len(res.Present)
	summary.MissingCount = len(res.Missing)
	summary.MissingRanges = res.MissingRanges
	summary.Missing = res.Missing
	summary.DataRange = dataRange(obs, summary.FileName)

	var notes []string
	if len(obs) == 0 {
		notes = append(notes, NoteNoPeriod)
	}
	if len(res.Outside) > 0 {
		notes = append(notes, fmt.Sprintf("기준 외 %d개월 (예: %s)", len(res.Outside), res.Outside[0].Label()))
	}
	summary.Notes = strings.Join(notes, ", ")

	c.logger.Info("file summarized",
		zap.String("path", path),
		zap.String("encoding", summary.Encoding),
		zap.String("year", cols.Year),
		zap.String("month", cols.Month),
		zap.String("combined", cols.Combined),
		zap.Int("rows", table.Len()),
		zap.Int("present", summary.PresentCount),
		zap.Int("missing", summary.MissingCount),
	)
	return summary, nil
}

// dataRange 观测范围 min~max；没有观测时退回文件名中的期间
func dataRange(obs model.MonthSet, fileName string) string {
	if sorted := obs.Sorted(); len(sorted) > 0 {
		return sorted[0].Label() + "~" + sorted[len(sorted)-1].Label()
	}
	if p, err := parser.ParsePeriodFromName(fileName); err == nil {
		return p.Label()
	}
	return ""
}

package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"periodcheck/internal/charset"
	"periodcheck/internal/config"
	"periodcheck/internal/coverage"
	"periodcheck/internal/exporter"
	"periodcheck/internal/model"
	"periodcheck/internal/parser"
	"periodcheck/internal/store"
)

// Options 协调器的不可变配置，由 config.AppConfig 构建一次
type Options struct {
	NormalizeEncoding charset.Options
	SummarizeEncoding charset.Options
	CleanupEncoding   charset.Options
	Classifier        parser.ClassifierConfig
	Extractor         parser.ExtractorConfig
	Coverage          coverage.Options
	Report            exporter.Options
	CleanupKeywords   []string
	Delimiter         rune
}

// OptionsFromConfig 从应用配置构建协调器配置
func OptionsFromConfig(cfg *config.AppConfig) (Options, error) {
	delim, err := cfg.Delimiter()
	if err != nil {
		return Options{}, err
	}
	return Options{
		NormalizeEncoding: cfg.NormalizeEncoding(),
		SummarizeEncoding: cfg.SummarizeEncoding(),
		CleanupEncoding:   cfg.CleanupEncoding(),
		Classifier:        cfg.ClassifierConfig(),
		Extractor:         cfg.ExtractorConfig(),
		Coverage:          cfg.CoverageOptions(),
		Report: exporter.Options{
			Reference: cfg.ReferenceInterval(),
			BaseName:  cfg.Report.BaseName,
			XLSX:      cfg.Report.XLSX,
		},
		CleanupKeywords: cfg.Cleanup.DateKeywords,
		Delimiter:       delim,
	}, nil
}

// Coordinator 批处理协调器：逐个文件顺序处理，文件级错误只记录不中断
type Coordinator struct {
	logger     *zap.Logger
	store      *store.Store
	detectors  map[model.RunKind]*charset.Detector
	classifier *parser.Classifier
	extractor  *parser.Extractor
	summarizer *coverage.Summarizer
	exporter   *exporter.Exporter
	dropKeys   []string
	delimiter  rune
}

// NewCoordinator 创建协调器；st 为 nil 时不记录运行历史
func NewCoordinator(opts Options, st *store.Store, logger *zap.Logger) (*Coordinator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Coordinator{
		logger:     logger,
		store:      st,
		detectors:  map[model.RunKind]*charset.Detector{},
		classifier: parser.NewClassifier(opts.Classifier),
		extractor:  parser.NewExtractor(opts.Extractor),
		summarizer: coverage.NewSummarizer(opts.Coverage),
		exporter:   exporter.NewExporter(opts.Report),
		delimiter:  opts.Delimiter,
	}
	if c.delimiter == 0 {
		c.delimiter = ','
	}
	for _, kw := range opts.CleanupKeywords {
		c.dropKeys = append(c.dropKeys, parser.NormalizeColumnName(kw))
	}
	for kind, encOpts := range map[model.RunKind]charset.Options{
		model.RunNormalize: opts.NormalizeEncoding,
		model.RunSummarize: opts.SummarizeEncoding,
		model.RunCleanup:   opts.CleanupEncoding,
	} {
		if encOpts.Delimiter == 0 {
			encOpts.Delimiter = c.delimiter
		}
		det, err := charset.NewDetector(encOpts)
		if err != nil {
			return nil, fmt.Errorf("%s encoding: %w", kind, err)
		}
		c.detectors[kind] = det
	}
	return c, nil
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`      // start/file_done/file_skipped/export/done/error
	Message   string      `json:"message"`   // 事件消息
	Data      interface{} `json:"data"`      // 附加数据
	Timestamp time.Time   `json:"timestamp"` // 时间戳
}

// RunReport 一次批处理的结果
type RunReport struct {
	RunID      string              `json:"runId,omitempty"`
	Kind       model.RunKind       `json:"kind"`
	Root       string              `json:"root"`
	TotalFiles int                 `json:"totalFiles"`
	Processed  int                 `json:"processed"`
	Skipped    int                 `json:"skipped"`
	Files      []FileResult        `json:"files,omitempty"`
	Errors     []model.FileError   `json:"errors,omitempty"`
	Summaries  []model.FileSummary `json:"summaries,omitempty"`
	Outputs    *exporter.Paths     `json:"outputs,omitempty"`
	Duration   time.Duration       `json:"duration"`
}

// FileResult 单个文件的规范化/清理结果
type FileResult struct {
	Path     string             `json:"path"`
	Encoding string             `json:"encoding"`
	Columns  parser.DateColumns `json:"columns"`
	Rows     int                `json:"rows"`
	Resolved int                `json:"resolved"`
	Fallback bool               `json:"fallback"`
	Dropped  []string           `json:"dropped,omitempty"`
}

// run 批处理上下文
type run struct {
	report   *RunReport
	record   *model.Run
	progress chan<- ProgressEvent
	start    time.Time
}

func (c *Coordinator) begin(kind model.RunKind, root string, paths []string, progress chan<- ProgressEvent) (*run, error) {
	r := &run{
		report:   &RunReport{Kind: kind, Root: root, TotalFiles: len(paths)},
		progress: progress,
		start:    time.Now(),
	}
	if c.store != nil {
		rec, err := c.store.CreateRun(kind, root, c.summarizer.Reference(), len(paths))
		if err != nil {
			return nil, err
		}
		r.record = rec
		r.report.RunID = rec.ID
	}
	c.logger.Info("run started",
		zap.String("kind", string(kind)),
		zap.String("root", root),
		zap.Int("files", len(paths)),
		zap.String("run_id", r.report.RunID),
	)
	c.sendProgress(progress, ProgressEvent{
		Type:    "start",
		Message: fmt.Sprintf("%s: %d files", kind, len(paths)),
		Data: map[string]interface{}{
			"kind":        kind,
			"total_files": len(paths),
		},
		Timestamp: time.Now(),
	})
	return r, nil
}

// finish 写入运行记录并发送结束事件；runErr 非空时运行标记为失败
func (c *Coordinator) finish(r *run, runErr error) (*RunReport, error) {
	r.report.Duration = time.Since(r.start)

	if c.store != nil && r.record != nil {
		r.record.Processed = r.report.Processed
		r.record.Skipped = r.report.Skipped
		if err := c.store.SaveFileErrors(r.record.ID, r.report.Errors); err != nil && runErr == nil {
			runErr = err
		}
		if len(r.report.Summaries) > 0 {
			if err := c.store.SaveSummaries(r.record.ID, r.report.Summaries); err != nil && runErr == nil {
				runErr = err
			}
		}
		if err := c.store.FinishRun(r.record, runErr); err != nil {
			c.logger.Warn("failed to record run", zap.Error(err))
		}
	}

	if runErr != nil {
		c.logger.Error("run failed", zap.String("kind", string(r.report.Kind)), zap.Error(runErr))
		c.sendProgress(r.progress, ProgressEvent{Type: "error", Message: runErr.Error(), Timestamp: time.Now()})
		return r.report, runErr
	}

	c.logger.Info("run finished",
		zap.String("kind", string(r.report.Kind)),
		zap.Int("processed", r.report.Processed),
		zap.Int("skipped", r.report.Skipped),
		zap.Duration("duration", r.report.Duration),
	)
	c.sendProgress(r.progress, ProgressEvent{
		Type:      "done",
		Message:   fmt.Sprintf("processed %d, skipped %d", r.report.Processed, r.report.Skipped),
		Data:      r.report,
		Timestamp: time.Now(),
	})
	return r.report, nil
}

// skip 记录文件级错误
func (c *Coordinator) skip(r *run, path string, err error) {
	fe := model.FileError{Path: path, Kind: ErrorKind(err), Message: err.Error()}
	r.report.Errors = append(r.report.Errors, fe)
	r.report.Skipped++
	c.logger.Warn("file skipped", zap.String("path", path), zap.String("kind", fe.Kind), zap.Error(err))
	c.sendProgress(r.progress, ProgressEvent{
		Type:      "file_skipped",
		Message:   fmt.Sprintf("%s: %v", filepath.Base(path), err),
		Data:      fe,
		Timestamp: time.Now(),
	})
}

func (c *Coordinator) done(r *run, res FileResult) {
	r.report.Files = append(r.report.Files, res)
	r.report.Processed++
	c.sendProgress(r.progress, ProgressEvent{
		Type:      "file_done",
		Message:   filepath.Base(res.Path),
		Data:      res,
		Timestamp: time.Now(),
	})
}

// ErrorKind 文件级错误分类
func ErrorKind(err error) string {
	var readErr *parser.ReadError
	switch {
	case errors.Is(err, charset.ErrNoEncoding):
		return "encoding"
	case errors.As(err, &readErr):
		return "read"
	default:
		return "io"
	}
}

// load 读取并解码文件为表格
func (c *Coordinator) load(kind model.RunKind, path string) (*model.Table, charset.Encoding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, charset.Encoding{}, fmt.Errorf("failed to read file: %w", err)
	}
	text, enc, err := c.detectors[kind].Decode(data)
	if err != nil {
		return nil, enc, err
	}
	table, err := parser.ReadTable(text, c.delimiter)
	if err != nil {
		return nil, enc, err
	}
	return table, enc, nil
}

// sendProgress 发送进度事件
func (c *Coordinator) sendProgress(ch chan<- ProgressEvent, event ProgressEvent) {
	if ch == nil {
		return
	}
	select {
	case ch <- event:
	default:
		// 通道已满，丢弃事件
	}
}

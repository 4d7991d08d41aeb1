package importer

import (
	"context"
	"errors"
	"path/filepath"

	"go.uber.org/zap"

	"periodcheck/internal/exporter"
	"periodcheck/internal/model"
	"periodcheck/internal/parser"
)

// Normalize 逐个规范化文件：year, month 置前并以 UTF-8 BOM 原地重写
func (c *Coordinator) Normalize(ctx context.Context, root string, paths []string, progress chan<- ProgressEvent) (*RunReport, error) {
	r, err := c.begin(model.RunNormalize, root, paths, progress)
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return c.finish(r, err)
		}
		res, err := c.NormalizeFile(path)
		if err != nil {
			c.skip(r, path, err)
			continue
		}
		c.done(r, res)
	}
	return c.finish(r, nil)
}

// NormalizeFile 规范化单个文件
func (c *Coordinator) NormalizeFile(path string) (FileResult, error) {
	res := FileResult{Path: path}
	table, enc, err := c.load(model.RunNormalize, path)
	if err != nil {
		return res, err
	}
	res.Encoding = enc.Name
	res.Rows = table.Len()
	res.Columns = c.classifier.Classify(table)

	var fallback *model.Month
	period, err := parser.ParsePeriodFromName(filepath.Base(path))
	switch {
	case err == nil:
		fallback = &period.Start
	case errors.Is(err, parser.ErrMalformedPeriodToken):
		c.logger.Debug("no period in file name", zap.String("path", path))
	}

	periods := c.extractor.Extract(table, res.Columns, fallback)
	res.Resolved = periods.Resolved()
	res.Fallback = periods.Fallback

	if err := exporter.WriteTable(path, c.extractor.Normalize(table, periods), c.delimiter); err != nil {
		return res, err
	}

	c.logger.Info("file normalized",
		zap.String("path", path),
		zap.String("encoding", res.Encoding),
		zap.String("year", res.Columns.Year),
		zap.String("month", res.Columns.Month),
		zap.String("combined", res.Columns.Combined),
		zap.Int("rows", res.Rows),
		zap.Int("resolved", res.Resolved),
		zap.Bool("fallback", res.Fallback),
	)
	return res, nil
}

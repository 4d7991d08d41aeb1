package importer

import (
	"context"

	"go.uber.org/zap"

	"periodcheck/internal/exporter"
	"periodcheck/internal/model"
	"periodcheck/internal/parser"
)

// Cleanup 删除除 year/month 外所有名称含日期关键词的列，year, month 置前
func (c *Coordinator) Cleanup(ctx context.Context, root string, paths []string, progress chan<- ProgressEvent) (*RunReport, error) {
	r, err := c.begin(model.RunCleanup, root, paths, progress)
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return c.finish(r, err)
		}
		res, err := c.CleanupFile(path)
		if err != nil {
			c.skip(r, path, err)
			continue
		}
		c.done(r, res)
	}
	return c.finish(r, nil)
}

// CleanupFile 清理单个文件
func (c *Coordinator) CleanupFile(path string) (FileResult, error) {
	res := FileResult{Path: path}
	table, enc, err := c.load(model.RunCleanup, path)
	if err != nil {
		return res, err
	}
	res.Encoding = enc.Name
	res.Rows = table.Len()

	out, dropped := c.dropDateColumns(table)
	res.Dropped = dropped
	if err := exporter.WriteTable(path, out, c.delimiter); err != nil {
		return res, err
	}
	c.logger.Info("file cleaned",
		zap.String("path", path),
		zap.String("encoding", res.Encoding),
		zap.Strings("dropped", dropped),
		zap.Int("rows", res.Rows),
	)
	return res, nil
}

func (c *Coordinator) dropDateColumns(t *model.Table) (*model.Table, []string) {
	var (
		front, rest []model.Column
		dropped     []string
	)
	for _, name := range []string{model.ColumnYear, model.ColumnMonth} {
		if col, ok := t.Column(name); ok {
			front = append(front, col)
		}
	}
	for _, col := range t.Columns {
		if col.Name == model.ColumnYear || col.Name == model.ColumnMonth {
			continue
		}
		normalized := parser.NormalizeColumnName(col.Name)
		if normalized != model.ColumnYear && normalized != model.ColumnMonth && parser.ContainsAny(normalized, c.dropKeys) {
			dropped = append(dropped, col.Name)
			continue
		}
		rest = append(rest, col)
	}
	return &model.Table{Columns: append(front, rest...)}, dropped
}

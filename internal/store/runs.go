package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"periodcheck/internal/model"
)

// CreateRun 创建批处理记录，返回 run id
func (s *Store) CreateRun(kind model.RunKind, root string, ref model.Interval, totalFiles int) (*model.Run, error) {
	run := &model.Run{
		ID:         uuid.NewString(),
		Kind:       kind,
		Root:       root,
		Status:     model.RunRunning,
		Reference:  ref,
		StartedAt:  time.Now().UTC(),
		TotalFiles: totalFiles,
	}
	_, err := s.db.Exec(`
		INSERT INTO runs (id, kind, root, status, reference_start, reference_end, started_at, total_files)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, string(run.Kind), run.Root, string(run.Status), int(ref.Start), int(ref.End), run.StartedAt, totalFiles)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// FinishRun 写入计数与结束状态；runErr 非空时标记为失败
func (s *Store) FinishRun(run *model.Run, runErr error) error {
	now := time.Now().UTC()
	run.FinishedAt = &now
	run.Status = model.RunFinished
	if runErr != nil {
		run.Status = model.RunFailed
		run.Error = runErr.Error()
	}
	res, err := s.db.Exec(`
		UPDATE runs SET
			status = ?,
			finished_at = ?,
			total_files = ?,
			processed = ?,
			skipped = ?,
			error_message = ?
		WHERE id = ?
	`, string(run.Status), now, run.TotalFiles, run.Processed, run.Skipped, run.Error, run.ID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish run %s: %w", run.ID, ErrNotFound)
	}
	return nil
}

// SaveSummaries 在一个事务中写入整批汇总结果
func (s *Store) SaveSummaries(runID string, summaries []model.FileSummary) error {
	return s.withTx(func(tx *sql.Tx) error {
		insertSummary, err := tx.Prepare(`
			INSERT INTO file_summaries (run_id, seq, file_name, folder, data_range, present_count, missing_count, missing_ranges, notes, encoding)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare summary insert: %w", err)
		}
		defer insertSummary.Close()

		insertMonth, err := tx.Prepare(`INSERT INTO missing_months (run_id, summary_id, month) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare month insert: %w", err)
		}
		defer insertMonth.Close()

		for i, fs := range summaries {
			res, err := insertSummary.Exec(runID, i, fs.FileName, fs.Folder, fs.DataRange,
				fs.PresentCount, fs.MissingCount, fs.MissingRanges, fs.Notes, fs.Encoding)
			if err != nil {
				return fmt.Errorf("failed to insert summary %s: %w", fs.FileName, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to get summary id: %w", err)
			}
			for _, m := range fs.Missing {
				if _, err := insertMonth.Exec(runID, id, int(m)); err != nil {
					return fmt.Errorf("failed to insert missing month: %w", err)
				}
			}
		}
		return nil
	})
}

// SaveFileErrors 写入文件级错误
func (s *Store) SaveFileErrors(runID string, errs []model.FileError) error {
	if len(errs) == 0 {
		return nil
	}
	return s.withTx(func(tx *sql.Tx) error {
		for _, fe := range errs {
			if _, err := tx.Exec(`INSERT INTO file_errors (run_id, path, kind, message) VALUES (?, ?, ?, ?)`,
				runID, fe.Path, fe.Kind, fe.Message); err != nil {
				return fmt.Errorf("failed to insert file error: %w", err)
			}
		}
		return nil
	})
}

const runColumns = `id, kind, root, status, reference_start, reference_end, started_at, finished_at, total_files, processed, skipped, error_message`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.Run, error) {
	var (
		run      model.Run
		kind     string
		status   string
		refStart int
		refEnd   int
		finished sql.NullTime
	)
	if err := row.Scan(&run.ID, &kind, &run.Root, &status, &refStart, &refEnd, &run.StartedAt, &finished,
		&run.TotalFiles, &run.Processed, &run.Skipped, &run.Error); err != nil {
		return nil, err
	}
	run.Kind = model.RunKind(kind)
	run.Status = model.RunStatus(status)
	run.Reference = model.Interval{Start: model.Month(refStart), End: model.Month(refEnd)}
	if finished.Valid {
		t := finished.Time
		run.FinishedAt = &t
	}
	return &run, nil
}

// GetRun 按 id 查询
func (s *Store) GetRun(id string) (*model.Run, error) {
	run, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	return run, nil
}

// ListRuns 按开始时间倒序；kind 为空时不过滤，limit<=0 不限制
func (s *Store) ListRuns(kind model.RunKind, limit int) ([]*model.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY started_at DESC, rowid DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []*model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// LatestRun 最近一次指定类型的批处理
func (s *Store) LatestRun(kind model.RunKind) (*model.Run, error) {
	runs, err := s.ListRuns(kind, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("latest %s run: %w", kind, ErrNotFound)
	}
	return runs[0], nil
}

// ListSummaries 按写入顺序返回汇总结果
func (s *Store) ListSummaries(runID string) ([]model.FileSummary, error) {
	rows, err := s.db.Query(`
		SELECT file_name, folder, data_range, present_count, missing_count, missing_ranges, notes, encoding
		FROM file_summaries
		WHERE run_id = ?
		ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer rows.Close()

	var out []model.FileSummary
	for rows.Next() {
		var fs model.FileSummary
		if err := rows.Scan(&fs.FileName, &fs.Folder, &fs.DataRange, &fs.PresentCount, &fs.MissingCount,
			&fs.MissingRanges, &fs.Notes, &fs.Encoding); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		out = append(out, fs)
	}
	return out, rows.Err()
}

// ListFileErrors 批处理中的文件级错误
func (s *Store) ListFileErrors(runID string) ([]model.FileError, error) {
	rows, err := s.db.Query(`SELECT path, kind, message FROM file_errors WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query file errors: %w", err)
	}
	defer rows.Close()

	var out []model.FileError
	for rows.Next() {
		var fe model.FileError
		if err := rows.Scan(&fe.Path, &fe.Kind, &fe.Message); err != nil {
			return nil, fmt.Errorf("failed to scan file error: %w", err)
		}
		out = append(out, fe)
	}
	return out, rows.Err()
}

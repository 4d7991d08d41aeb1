package store

import (
	"fmt"

	"periodcheck/internal/model"
)

// ListMonthGaps 统计一次汇总中每个参考月份缺失的文件数（按年月升序，只含至少一个文件缺失的月份）
func (s *Store) ListMonthGaps(runID string) ([]model.MonthGap, error) {
	rows, err := s.db.Query(`
		SELECT month, COUNT(DISTINCT summary_id) AS files
		FROM missing_months
		WHERE run_id = ?
		GROUP BY month
		ORDER BY month
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query month gaps failed: %w", err)
	}
	defer rows.Close()

	var out []model.MonthGap
	for rows.Next() {
		var (
			month int
			it    model.MonthGap
		)
		if err := rows.Scan(&month, &it.Files); err != nil {
			return nil, fmt.Errorf("scan month gaps failed: %w", err)
		}
		it.Month = model.Month(month)
		it.Label = it.Month.Label()
		out = append(out, it)
	}
	return out, rows.Err()
}

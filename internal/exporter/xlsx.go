package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"periodcheck/internal/model"
)

// SheetSummary 汇总工作表名
const SheetSummary = "기간누락"

// SummaryWorkbook 生成汇总工作簿，行序与 Markdown 一致
func SummaryWorkbook(ref model.Interval, summaries []model.FileSummary) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	headers := append(append([]string(nil), MarkdownColumns...), "폴더", "인코딩")
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(SheetSummary, cell, h)
	}

	// 设置表头样式
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	f.SetRowStyle(SheetSummary, 1, 1, headerStyle)

	for i, s := range SortByMissing(summaries) {
		row := i + 2
		values := []interface{}{
			s.FileName, s.DataRange, s.PresentCount, s.MissingCount,
			s.MissingRanges, s.Notes, s.Folder, s.Encoding,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			if err := f.SetCellValue(SheetSummary, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write %s: %w", cell, err)
			}
		}
	}

	// 参考区间写在末尾一列之后，方便核对
	infoCell, _ := excelize.CoordinatesToCellName(len(headers)+2, 1)
	f.SetCellValue(SheetSummary, infoCell, fmt.Sprintf("기준 기간 %s (%d개월)", ref.Label(), ref.Len()))

	// 设置列宽
	f.SetColWidth(SheetSummary, "A", "A", 40)
	f.SetColWidth(SheetSummary, "B", "B", 20)
	f.SetColWidth(SheetSummary, "C", "D", 12)
	f.SetColWidth(SheetSummary, "E", "E", 50)
	f.SetColWidth(SheetSummary, "F", "F", 30)
	f.SetColWidth(SheetSummary, "G", "H", 14)
	return f, nil
}

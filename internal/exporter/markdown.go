package exporter

import (
	"fmt"
	"strings"

	"periodcheck/internal/model"
)

// MarkdownColumns Markdown/XLSX 报告列名
var MarkdownColumns = []string{"파일명", "데이터 범위", "확보 개월수", "누락 개월수", "주요 누락 구간", "비고"}

var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ")

// RenderMarkdown 渲染汇总报告：说明段落 + 按缺失月数降序的表格
func RenderMarkdown(ref model.Interval, summaries []model.FileSummary) string {
	var b strings.Builder
	total := ref.Len()

	fmt.Fprintf(&b, "# 기간 누락 점검 (%s)\n\n", ref.Label())
	fmt.Fprintf(&b, "- 기준 기간: %d년 %d월 ~ %d년 %d월 (총 %d개월)\n",
		ref.Start.Year(), ref.Start.MonthOfYear(), ref.End.Year(), ref.End.MonthOfYear(), total)
	fmt.Fprintf(&b, "- 분석 대상 파일 수: %d개\n", len(summaries))
	fmt.Fprintf(&b, "- `누락 개월수`가 %d이면 기준 기간 데이터를 포함하지 않는 파일입니다.\n\n", total)

	b.WriteString("| " + strings.Join(MarkdownColumns, " | ") + " |\n")
	b.WriteString("| --- | --- | ---: | ---: | --- | --- |\n")
	for _, s := range SortByMissing(summaries) {
		fmt.Fprintf(&b, "| %s | %s | %d | %d | %s | %s |\n",
			mdCell(s.FileName), mdCell(s.DataRange), s.PresentCount, s.MissingCount,
			mdCell(s.MissingRanges), mdCell(s.Notes))
	}
	return b.String()
}

// mdCell 空值显示为 -
func mdCell(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return cellEscaper.Replace(s)
}

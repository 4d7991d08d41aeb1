package coverage

import (
	"strings"

	"periodcheck/internal/model"
)

// DefaultMaxSegments 缺失区间最多展示的段数
const DefaultMaxSegments = 6

// Ellipsis 超出段数上限时追加的标记
const Ellipsis = "…"

// Options 覆盖率统计参数
type Options struct {
	Reference   model.Interval
	MaxSegments int
}

// DefaultOptions 默认参考区间 2020-01 ~ 2025-09
func DefaultOptions() Options {
	return Options{
		Reference:   model.Interval{Start: 202001, End: 202509},
		MaxSegments: DefaultMaxSegments,
	}
}

// Result 单个文件的覆盖情况
type Result struct {
	Present       []model.Month
	Outside       []model.Month
	Missing       []model.Month
	MissingRanges string
}

// Summarizer 参考区间覆盖统计
type Summarizer struct {
	opts      Options
	reference []model.Month
}

// NewSummarizer 创建统计器，参考区间月份只枚举一次
func NewSummarizer(opts Options) *Summarizer {
	if opts.MaxSegments <= 0 {
		opts.MaxSegments = DefaultMaxSegments
	}
	return &Summarizer{opts: opts, reference: opts.Reference.Months()}
}

// Reference 参考区间
func (s *Summarizer) Reference() model.Interval {
	return s.opts.Reference
}

// Summarize 结果与观测集合的遍历顺序无关
func (s *Summarizer) Summarize(obs model.MonthSet) Result {
	var res Result
	present := model.MonthSet{}
	for _, m := range obs.Sorted() {
		if s.opts.Reference.Contains(m) {
			res.Present = append(res.Present, m)
			present.Add(m)
		} else {
			res.Outside = append(res.Outside, m)
		}
	}
	for _, m := range s.reference {
		if _, ok := present[m]; !ok {
			res.Missing = append(res.Missing, m)
		}
	}
	res.MissingRanges = FormatRanges(res.Missing, s.opts.MaxSegments)
	return res
}

// Missing 读取失败的文件视为整段缺失
func (s *Summarizer) Missing() Result {
	return s.Summarize(model.MonthSet{})
}

// Run 连续月份段
type Run struct {
	Start, End model.Month
}

// Label 单月为 YYYY-MM，多月为 start~end
func (r Run) Label() string {
	if r.Start == r.End {
		return r.Start.Label()
	}
	return r.Start.Label() + "~" + r.End.Label()
}

// Runs 把已排序的月份切分为连续段，跨年按日历后继判断
func Runs(months []model.Month) []Run {
	var runs []Run
	for i, m := range months {
		if i > 0 && m == runs[len(runs)-1].End.Next() {
			runs[len(runs)-1].End = m
			continue
		}
		runs = append(runs, Run{Start: m, End: m})
	}
	return runs
}

// FormatRanges 如 "2020-01~2020-03, 2021-05"，超过 maxSegments 段时以 … 结尾
func FormatRanges(months []model.Month, maxSegments int) string {
	runs := Runs(months)
	labels := make([]string, 0, len(runs))
	for i, r := range runs {
		if maxSegments > 0 && i >= maxSegments {
			labels = append(labels, Ellipsis)
			break
		}
		labels = append(labels, r.Label())
	}
	return strings.Join(labels, ", ")
}

package parser

import (
	"strconv"
	"strings"

	"periodcheck/internal/model"
)

// ClassifierConfig 日期列识别参数（运行期固定，按值传入）
type ClassifierConfig struct {
	YearKeywords  []string
	YearSuffixes  []string
	MonthKeywords []string
	DateHints     []string

	YearMin, YearMax   int
	MonthMin, MonthMax int

	// ValueRatio 关键词列的取值合格率下限
	ValueRatio float64
	// CombinedRatio 合并日期列的长度/有效性合格率下限
	CombinedRatio     float64
	CombinedMinDigits int
	CombinedMaxDigits int
}

// DefaultClassifierConfig 默认识别参数
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		YearKeywords:      []string{"year", "년도", "연도"},
		YearSuffixes:      []string{"년도"},
		MonthKeywords:     []string{"month", "월", "기준월"},
		DateHints:         []string{"년", "월", "일", "date", "날짜", "기준", "period", "기간"},
		YearMin:           model.MinYear,
		YearMax:           model.MaxYear,
		MonthMin:          1,
		MonthMax:          12,
		ValueRatio:        0.8,
		CombinedRatio:     0.6,
		CombinedMinDigits: 6,
		CombinedMaxDigits: 8,
	}
}

// classifyStrategy 一条识别规则；返回 true 表示识别已完成，后续规则不再执行
type classifyStrategy struct {
	name  string
	apply func(t *model.Table, cols *DateColumns) (matched, done bool)
}

// Classifier 日期列识别器
type Classifier struct {
	cfg        ClassifierConfig
	yearKeys   map[string]struct{}
	monthKeys  map[string]struct{}
	hints      []string
	suffixes   []string
	strategies []classifyStrategy
}

// NewClassifier 创建识别器
func NewClassifier(cfg ClassifierConfig) *Classifier {
	c := &Classifier{
		cfg:       cfg,
		yearKeys:  toSet(cfg.YearKeywords),
		monthKeys: toSet(cfg.MonthKeywords),
	}
	for _, h := range cfg.DateHints {
		c.hints = append(c.hints, NormalizeColumnName(h))
	}
	for _, s := range cfg.YearSuffixes {
		c.suffixes = append(c.suffixes, NormalizeColumnName(s))
	}
	c.strategies = []classifyStrategy{
		{name: "canonical", apply: c.classifyCanonical},
		{name: "keyword", apply: c.classifyByKeyword},
		{name: "combined", apply: c.classifyCombined},
	}
	return c
}

// Classify 依次执行识别规则，命中即止
func (c *Classifier) Classify(t *model.Table) DateColumns {
	var cols DateColumns
	for _, s := range c.strategies {
		matched, done := s.apply(t, &cols)
		if matched {
			cols.Strategies = append(cols.Strategies, s.name)
		}
		if done {
			break
		}
	}
	return cols
}

// classifyCanonical 本工具自身的输出（表头以 year,month 开头）；取值仍需合格，
// 否则交给关键词规则
func (c *Classifier) classifyCanonical(t *model.Table, cols *DateColumns) (bool, bool) {
	if len(t.Columns) < 2 {
		return false, false
	}
	year, month := t.Columns[0], t.Columns[1]
	if year.Name != model.ColumnYear || month.Name != model.ColumnMonth {
		return false, false
	}
	if !c.canonicalValues(year.Values, c.cfg.YearMin, c.cfg.YearMax) ||
		!c.canonicalValues(month.Values, c.cfg.MonthMin, c.cfg.MonthMax) {
		return false, false
	}
	cols.Year = model.ColumnYear
	cols.Month = model.ColumnMonth
	return true, true
}

// classifyByKeyword 列名命中年/月关键词，且取值合格率达标
func (c *Classifier) classifyByKeyword(t *model.Table, cols *DateColumns) (bool, bool) {
	matched := false
	for _, col := range t.Columns {
		if cols.assigned(col.Name) {
			continue
		}
		normalized := NormalizeColumnName(col.Name)
		if cols.Year == "" && c.isYearName(normalized) {
			if c.inRangeRatio(col.Values, c.cfg.YearMin, c.cfg.YearMax) >= c.cfg.ValueRatio {
				cols.Year = col.Name
				matched = true
				continue
			}
		}
		if cols.Month == "" && c.isMonthName(normalized) {
			if c.inRangeRatio(col.Values, c.cfg.MonthMin, c.cfg.MonthMax) >= c.cfg.ValueRatio {
				cols.Month = col.Name
				matched = true
			}
		}
	}
	return matched, cols.Year != "" && cols.Month != ""
}

// classifyCombined 列名含日期提示词，且取值形如 YYYYMM / YYYYMMDD
func (c *Classifier) classifyCombined(t *model.Table, cols *DateColumns) (bool, bool) {
	for _, col := range t.Columns {
		if cols.assigned(col.Name) {
			continue
		}
		if !ContainsAny(NormalizeColumnName(col.Name), c.hints) {
			continue
		}
		if c.looksCombined(col.Values) {
			cols.Combined = col.Name
			return true, true
		}
	}
	return false, true
}

func (c *Classifier) isYearName(normalized string) bool {
	if _, ok := c.yearKeys[normalized]; ok {
		return true
	}
	for _, s := range c.suffixes {
		if s != "" && strings.HasSuffix(normalized, s) {
			return true
		}
	}
	return false
}

func (c *Classifier) isMonthName(normalized string) bool {
	_, ok := c.monthKeys[normalized]
	return ok
}

// canonicalValues 整列为空（全部行未解析）或合格率达标
func (c *Classifier) canonicalValues(values []string, lo, hi int) bool {
	for _, v := range values {
		if !IsBlank(v) {
			return c.inRangeRatio(values, lo, hi) >= c.cfg.ValueRatio
		}
	}
	return true
}

// inRangeRatio 非空单元格去掉非数字后落在 [lo, hi] 的比例
func (c *Classifier) inRangeRatio(values []string, lo, hi int) float64 {
	total, valid := 0, 0
	for _, v := range values {
		if IsBlank(v) {
			continue
		}
		total++
		if n, ok := digitsInt(v); ok && n >= lo && n <= hi {
			valid++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(valid) / float64(total)
}

// looksCombined 长度合格率与年月有效率均达标
func (c *Classifier) looksCombined(values []string) bool {
	total, qualifying, valid := 0, 0, 0
	for _, v := range values {
		if IsBlank(v) {
			continue
		}
		total++
		d := DigitsOnly(v)
		if len(d) < c.cfg.CombinedMinDigits || len(d) > c.cfg.CombinedMaxDigits {
			continue
		}
		qualifying++
		if len(d) < 6 {
			continue
		}
		if month, err := strconv.Atoi(d[4:6]); err == nil && month >= c.cfg.MonthMin && month <= c.cfg.MonthMax {
			valid++
		}
	}
	if total == 0 || qualifying == 0 {
		return false
	}
	return float64(qualifying)/float64(total) >= c.cfg.CombinedRatio &&
		float64(valid)/float64(qualifying) >= c.cfg.CombinedRatio
}

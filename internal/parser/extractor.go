package parser

import (
	"regexp"
	"strconv"

	"periodcheck/internal/model"
)

// 观测路径使用的宽松日期正则。
// 会把与日期无关的 6 位数字（如编号 202012）误判为年月：这是有意偏向召回率的取舍，不要收紧。
var observationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(20\d{2})[-./]?(0[1-9]|1[0-2])`),
	regexp.MustCompile(`(20\d{2})\D(1[0-2]|0?[1-9])`),
}

// ExtractorConfig 年月提取参数
type ExtractorConfig struct {
	YearMin, YearMax int
	// WindowStart/WindowEnd 观测路径的年份窗口
	WindowStart, WindowEnd int
}

// DefaultExtractorConfig 默认提取参数
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		YearMin:     model.MinYear,
		YearMax:     model.MaxYear,
		WindowStart: 2000,
		WindowEnd:   2030,
	}
}

// Periods 规范化路径的逐行年月
type Periods struct {
	Year    []model.NullInt
	Month   []model.NullInt
	Sources []string
	// Fallback 是否用到了文件名期间
	Fallback bool
}

// Resolved 年月均有效的行数
func (p Periods) Resolved() int {
	n := 0
	for i := range p.Year {
		if p.Year[i].Valid && p.Month[i].Valid {
			n++
		}
	}
	return n
}

// Extractor 年月提取器
type Extractor struct {
	cfg ExtractorConfig
}

// NewExtractor 创建提取器
func NewExtractor(cfg ExtractorConfig) *Extractor {
	return &Extractor{cfg: cfg}
}

// Extract 规范化路径：为每行给出 year/month，无法确定的行标记为缺失
func (e *Extractor) Extract(t *model.Table, cols DateColumns, fallback *model.Month) Periods {
	rows := t.Len()
	var p Periods
	var year, month []model.NullInt

	if col, ok := t.Column(cols.Year); ok && cols.Year != "" {
		year = coerceColumn(col.Values)
		p.Sources = append(p.Sources, col.Name)
	}
	if col, ok := t.Column(cols.Month); ok && cols.Month != "" {
		month = coerceColumn(col.Values)
		p.Sources = append(p.Sources, col.Name)
	}

	if (year == nil || month == nil) && cols.Combined != "" {
		if col, ok := t.Column(cols.Combined); ok {
			cy, cm := e.splitCombined(col.Values)
			p.Sources = append(p.Sources, col.Name)
			if year == nil {
				year = cy
			}
			if month == nil {
				month = cm
			}
		}
	}

	if year == nil {
		year = constantColumn(rows, fallback, model.Month.Year)
		p.Fallback = p.Fallback || fallback != nil
	}
	if month == nil {
		month = constantColumn(rows, fallback, model.Month.MonthOfYear)
		p.Fallback = p.Fallback || fallback != nil
	}

	p.Year = year
	p.Month = month
	return p
}

// Normalize 生成规范化表：year, month 在前，其余列保持原有相对顺序
func (e *Extractor) Normalize(t *model.Table, p Periods) *model.Table {
	out := &model.Table{Columns: make([]model.Column, 0, len(t.Columns)+2)}
	out.Columns = append(out.Columns,
		model.Column{Name: model.ColumnYear, Values: nullStrings(p.Year)},
		model.Column{Name: model.ColumnMonth, Values: nullStrings(p.Month)},
	)
	for _, col := range t.Columns {
		if col.Name == model.ColumnYear || col.Name == model.ColumnMonth {
			continue
		}
		out.Columns = append(out.Columns, col)
	}
	return out
}

// Observations 观测路径：年/月列逐行组合 ∪ 全表正则扫描，只保留窗口内年份
func (e *Extractor) Observations(t *model.Table, cols DateColumns) model.MonthSet {
	set := model.MonthSet{}

	yearCol, okY := t.Column(cols.Year)
	monthCol, okM := t.Column(cols.Month)
	if okY && okM && cols.Year != "" && cols.Month != "" {
		for i := range yearCol.Values {
			y := CoerceInt(yearCol.Values[i])
			m := CoerceInt(monthCol.Values[i])
			if y.Valid && m.Valid {
				e.addObservation(set, y.Int, m.Int)
			}
		}
	}

	for _, col := range t.Columns {
		for _, v := range col.Values {
			if IsBlank(v) {
				continue
			}
			for _, re := range observationPatterns {
				for _, match := range re.FindAllStringSubmatch(v, -1) {
					y, _ := strconv.Atoi(match[1])
					m, _ := strconv.Atoi(match[2])
					e.addObservation(set, y, m)
				}
			}
		}
	}
	return set
}

func (e *Extractor) addObservation(set model.MonthSet, year, month int) {
	if year < e.cfg.WindowStart || year > e.cfg.WindowEnd {
		return
	}
	if month < 1 || month > 12 {
		return
	}
	set.Add(model.NewMonth(year, month))
}

// splitCombined 取前 4 位为年、后 2 位为月；任一非法则两者都缺失
func (e *Extractor) splitCombined(values []string) ([]model.NullInt, []model.NullInt) {
	years := make([]model.NullInt, len(values))
	months := make([]model.NullInt, len(values))
	for i, v := range values {
		d := DigitsOnly(v)
		if len(d) < 6 {
			continue
		}
		y, _ := strconv.Atoi(d[:4])
		m, _ := strconv.Atoi(d[4:6])
		if y < e.cfg.YearMin || y > e.cfg.YearMax || m < 1 || m > 12 {
			continue
		}
		years[i] = model.Int(y)
		months[i] = model.Int(m)
	}
	return years, months
}

func coerceColumn(values []string) []model.NullInt {
	out := make([]model.NullInt, len(values))
	for i, v := range values {
		out[i] = CoerceInt(v)
	}
	return out
}

func constantColumn(rows int, fallback *model.Month, part func(model.Month) int) []model.NullInt {
	out := make([]model.NullInt, rows)
	if fallback == nil {
		return out
	}
	v := model.Int(part(*fallback))
	for i := range out {
		out[i] = v
	}
	return out
}

func nullStrings(values []model.NullInt) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}

package model

import (
	"fmt"
	"sort"
)

// 年月合法区间
const (
	MinYear = 1900
	MaxYear = 2100
)

// Month 编码年月：year*100 + month
type Month int

// NewMonth 由年、月构造编码年月
func NewMonth(year, month int) Month {
	return Month(year*100 + month)
}

// Year 年份
func (m Month) Year() int { return int(m) / 100 }

// MonthOfYear 月份 (1-12)
func (m Month) MonthOfYear() int { return int(m) % 100 }

// Valid 是否为合法年月 (1900-2100, 1-12)
func (m Month) Valid() bool {
	y, mo := m.Year(), m.MonthOfYear()
	return y >= MinYear && y <= MaxYear && mo >= 1 && mo <= 12
}

// Next 日历意义上的下一个月（12 月进位到次年 1 月）
func (m Month) Next() Month {
	if m.MonthOfYear() == 12 {
		return NewMonth(m.Year()+1, 1)
	}
	return m + 1
}

// Label 格式化为 YYYY-MM
func (m Month) Label() string {
	return fmt.Sprintf("%04d-%02d", m.Year(), m.MonthOfYear())
}

func (m Month) String() string { return m.Label() }

// Interval 闭区间 [Start, End]
type Interval struct {
	Start Month `json:"start"`
	End   Month `json:"end"`
}

// Contains 是否落在区间内
func (iv Interval) Contains(m Month) bool {
	return m >= iv.Start && m <= iv.End
}

// Months 按日历递增枚举区间内所有月份
func (iv Interval) Months() []Month {
	var out []Month
	if !iv.Start.Valid() || !iv.End.Valid() {
		return out
	}
	for m := iv.Start; m <= iv.End; m = m.Next() {
		out = append(out, m)
	}
	return out
}

// Len 区间内月份数
func (iv Interval) Len() int {
	if iv.Start > iv.End {
		return 0
	}
	return (iv.End.Year()-iv.Start.Year())*12 + iv.End.MonthOfYear() - iv.Start.MonthOfYear() + 1
}

// Label 形如 2020-01 ~ 2025-09
func (iv Interval) Label() string {
	return iv.Start.Label() + " ~ " + iv.End.Label()
}

// MonthSet 去重后的年月观测集合
type MonthSet map[Month]struct{}

// Add 加入观测
func (s MonthSet) Add(m Month) { s[m] = struct{}{} }

// Sorted 升序返回
func (s MonthSet) Sorted() []Month {
	out := make([]Month, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

package parser

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"periodcheck/internal/model"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	nonDigitRe   = regexp.MustCompile(`[^0-9]`)
	periodRe     = regexp.MustCompile(`^(\d{6})-(\d{6})_`)
)

// ErrMalformedPeriodToken 文件名不含 "YYYYMM-YYYYMM_" 期间前缀
var ErrMalformedPeriodToken = errors.New("file name has no YYYYMM-YYYYMM_ period prefix")

// Period 文件名中的期间
type Period struct {
	Start model.Month
	End   model.Month
}

// Label 形如 2020-03~2020-05
func (p Period) Label() string {
	return p.Start.Label() + "~" + p.End.Label()
}

// ParsePeriodFromName 从文件名前缀解析期间
// 支持格式: "202003-202005_foo.csv"
func ParsePeriodFromName(name string) (Period, error) {
	matches := periodRe.FindStringSubmatch(name)
	if len(matches) < 3 {
		return Period{}, ErrMalformedPeriodToken
	}
	start, _ := strconv.Atoi(matches[1])
	end, _ := strconv.Atoi(matches[2])
	p := Period{Start: model.Month(start), End: model.Month(end)}
	if !p.Start.Valid() || !p.End.Valid() {
		return Period{}, ErrMalformedPeriodToken
	}
	return p, nil
}

// NormalizeColumnName 规范化列名：去除所有空白并转小写
func NormalizeColumnName(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.ToLower(whitespaceRe.ReplaceAllString(name, ""))
}

// ContainsAny 检查字符串是否包含任意一个关键词
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// DigitsOnly 去掉所有非数字字符
func DigitsOnly(s string) string {
	return nonDigitRe.ReplaceAllString(s, "")
}

// IsBlank 空单元格
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// CoerceInt 严格转换整数；允许 "3"、" 3 "、"3.0"，其他一律视为缺失
func CoerceInt(s string) model.NullInt {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.NullInt{}
	}
	if v, err := strconv.Atoi(s); err == nil {
		return model.Int(v)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return model.NullInt{}
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return model.NullInt{}
	}
	return model.Int(int(f))
}

// digitsInt 去掉非数字后转整数
func digitsInt(s string) (int, bool) {
	d := DigitsOnly(s)
	if d == "" || len(d) > 9 {
		return 0, false
	}
	v, err := strconv.Atoi(d)
	if err != nil {
		return 0, false
	}
	return v, true
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[NormalizeColumnName(w)] = struct{}{}
	}
	return set
}

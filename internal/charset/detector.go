// Package charset 候选编码检测：在固定候选列表中为文件挑选能正确解码表头的编码。
package charset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// Policy 编码选择策略
type Policy string

const (
	// PolicyFirstSuccess 返回第一个能解析表头的候选
	PolicyFirstSuccess Policy = "first-success"
	// PolicyBestScore 对所有能解析的候选打分，取最高分
	PolicyBestScore Policy = "best-score"
)

// DefaultCandidates 默认候选编码（顺序即优先级）
var DefaultCandidates = []string{"utf-8-sig", "utf-8", "cp949", "euc-kr", "latin1"}

// ErrNoEncoding 所有候选编码都无法解析表头
var ErrNoEncoding = errors.New("no candidate encoding can decode the header")

// EncodingError 文件级编码错误
type EncodingError struct {
	Tried []string
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("failed to detect encoding (tried %s): %v", strings.Join(e.Tried, ", "), e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Encoding 一个候选编码
type Encoding struct {
	Name string

	enc     encoding.Encoding
	utf8    bool
	skipBOM bool
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// Lookup 按名称获取候选编码
func Lookup(name string) (Encoding, bool) {
	switch strings.ToLower(name) {
	case "utf-8-sig", "utf8-sig":
		return Encoding{Name: "utf-8-sig", utf8: true, skipBOM: true}, true
	case "utf-8", "utf8":
		return Encoding{Name: "utf-8", utf8: true}, true
	case "cp949", "uhc":
		// x/text 的 EUCKR 实现即 WHATWG euc-kr，覆盖 CP949 扩展区
		return Encoding{Name: "cp949", enc: korean.EUCKR}, true
	case "euc-kr", "euckr":
		return Encoding{Name: "euc-kr", enc: korean.EUCKR}, true
	case "latin1", "iso-8859-1":
		return Encoding{Name: "latin1", enc: charmap.ISO8859_1}, true
	}
	return Encoding{}, false
}

// Decode 解码整段字节；出现非法序列即失败
func (e Encoding) Decode(data []byte) (string, error) {
	if e.utf8 {
		if e.skipBOM {
			data = bytes.TrimPrefix(data, bom)
		}
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%s: invalid byte sequence", e.Name)
		}
		return string(data), nil
	}
	out, _, err := transform.Bytes(e.enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", e.Name, err)
	}
	// x/text 解码器遇到非法字节写入 U+FFFD 而不报错
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", fmt.Errorf("%s: invalid byte sequence", e.Name)
	}
	return string(out), nil
}

// Options 检测器配置
type Options struct {
	Candidates []string
	Policy     Policy
	// Script unicode.Scripts 中的文字名称，如 "Hangul"、"Han"
	Script    string
	Delimiter rune
}

// Detector 编码检测器
type Detector struct {
	candidates []Encoding
	policy     Policy
	script     *unicode.RangeTable
	delimiter  rune
}

// NewDetector 创建检测器
func NewDetector(opts Options) (*Detector, error) {
	names := opts.Candidates
	if len(names) == 0 {
		names = DefaultCandidates
	}
	d := &Detector{
		policy:    opts.Policy,
		delimiter: opts.Delimiter,
	}
	if d.policy == "" {
		d.policy = PolicyBestScore
	}
	if d.policy != PolicyBestScore && d.policy != PolicyFirstSuccess {
		return nil, fmt.Errorf("unknown encoding policy %q", opts.Policy)
	}
	if d.delimiter == 0 {
		d.delimiter = ','
	}
	for _, name := range names {
		enc, ok := Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unsupported encoding %q", name)
		}
		d.candidates = append(d.candidates, enc)
	}
	script := opts.Script
	if script == "" {
		script = "Hangul"
	}
	table, ok := unicode.Scripts[script]
	if !ok {
		return nil, fmt.Errorf("unknown unicode script %q", script)
	}
	d.script = table
	return d, nil
}

// Detect 返回表头排名第一的编码
func (d *Detector) Detect(data []byte) (Encoding, error) {
	ranked, err := d.rank(data)
	if err != nil {
		return Encoding{}, err
	}
	return ranked[0], nil
}

// Decode 按排名依次尝试解码全文，返回第一个整体解码成功的结果
func (d *Detector) Decode(data []byte) (string, Encoding, error) {
	ranked, err := d.rank(data)
	if err != nil {
		return "", Encoding{}, err
	}
	var lastErr error
	for _, enc := range ranked {
		text, err := enc.Decode(data)
		if err == nil {
			return text, enc, nil
		}
		lastErr = err
	}
	return "", Encoding{}, &EncodingError{Tried: rankedNames(ranked), Err: fmt.Errorf("%w: %v", ErrNoEncoding, lastErr)}
}

type scored struct {
	enc   Encoding
	score int
}

// rank 按策略给能解析表头的候选排序
func (d *Detector) rank(data []byte) ([]Encoding, error) {
	header := headerLine(data)

	var ok []scored
	var lastErr error
	for _, enc := range d.candidates {
		cells, err := d.parseHeader(enc, header)
		if err != nil {
			lastErr = err
			continue
		}
		ok = append(ok, scored{enc: enc, score: d.Score(strings.Join(cells, ""))})
	}
	if len(ok) == 0 {
		if lastErr == nil {
			lastErr = errors.New("no candidates configured")
		}
		return nil, &EncodingError{Tried: d.names(), Err: fmt.Errorf("%w: %v", ErrNoEncoding, lastErr)}
	}

	if d.policy == PolicyBestScore {
		// 同分时保留候选列表中靠前者
		sort.SliceStable(ok, func(i, j int) bool { return ok[i].score > ok[j].score })
	}

	out := make([]Encoding, len(ok))
	for i, s := range ok {
		out[i] = s.enc
	}
	return out, nil
}

// Score 目标文字每字 2 分，可打印 ASCII 每字 1 分
func (d *Detector) Score(text string) int {
	score := 0
	for _, r := range text {
		switch {
		case unicode.Is(d.script, r):
			score += 2
		case r >= 0x20 && r <= 0x7E:
			score++
		}
	}
	return score
}

func (d *Detector) parseHeader(enc Encoding, header []byte) ([]string, error) {
	text, err := enc.Decode(header)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = d.delimiter
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	cells, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: parse header: %w", enc.Name, err)
	}
	return cells, nil
}

func (d *Detector) names() []string {
	return rankedNames(d.candidates)
}

func rankedNames(encs []Encoding) []string {
	out := make([]string, len(encs))
	for i, e := range encs {
		out[i] = e.Name
	}
	return out
}

// headerLine 取第一行（不含换行符）；CP949/EUC-KR 的尾字节不会是 0x0A
func headerLine(data []byte) []byte {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		data = data[:i]
	}
	return bytes.TrimSuffix(data, []byte{'\r'})
}

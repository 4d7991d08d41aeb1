package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"periodcheck/internal/charset"
	"periodcheck/internal/coverage"
	"periodcheck/internal/model"
	"periodcheck/internal/parser"
)

// FileName 默认配置文件名
const FileName = "config.toml"

// EnvPrefix 环境变量前缀，例如 PERIODCHECK_DATA_DIR
const EnvPrefix = "periodcheck"

// envOverrides 可由环境变量覆盖的配置项
type envOverrides struct {
	DataDir   string `envconfig:"DATA_DIR"`
	Reference string `envconfig:"REFERENCE"`
}

// AppConfig 应用配置
type AppConfig struct {
	Reference ReferenceConfig `toml:"reference"`
	Encoding  EncodingConfig  `toml:"encoding"`
	Classify  ClassifyConfig  `toml:"classify"`
	Observe   ObserveConfig   `toml:"observe"`
	Report    ReportConfig    `toml:"report"`
	Cleanup   CleanupConfig   `toml:"cleanup"`
	Layout    LayoutConfig    `toml:"layout"`
	Data      DataConfig      `toml:"data"`
	Server    ServerConfig    `toml:"server"`
}

// ReferenceConfig 参考区间，YYYYMM
type ReferenceConfig struct {
	Start int `toml:"start"`
	End   int `toml:"end"`
}

// EncodingConfig 编码检测配置，策略按操作分别设置
type EncodingConfig struct {
	Candidates      []string `toml:"candidates"`
	Script          string   `toml:"script"`
	Delimiter       string   `toml:"delimiter"`
	NormalizePolicy string   `toml:"normalize_policy"`
	SummarizePolicy string   `toml:"summarize_policy"`
	CleanupPolicy   string   `toml:"cleanup_policy"`
}

// ClassifyConfig 日期列识别配置
type ClassifyConfig struct {
	YearKeywords      []string `toml:"year_keywords"`
	YearSuffixes      []string `toml:"year_suffixes"`
	MonthKeywords     []string `toml:"month_keywords"`
	DateHints         []string `toml:"date_hints"`
	YearMin           int      `toml:"year_min"`
	YearMax           int      `toml:"year_max"`
	ValueRatio        float64  `toml:"value_ratio"`
	CombinedRatio     float64  `toml:"combined_ratio"`
	CombinedMinDigits int      `toml:"combined_min_digits"`
	CombinedMaxDigits int      `toml:"combined_max_digits"`
}

// ObserveConfig 观测路径的年份窗口
type ObserveConfig struct {
	WindowStart int `toml:"window_start"`
	WindowEnd   int `toml:"window_end"`
}

// ReportConfig 汇总报告配置
type ReportConfig struct {
	MaxSegments int    `toml:"max_segments"`
	OutputDir   string `toml:"output_dir"`
	BaseName    string `toml:"base_name"`
	XLSX        bool   `toml:"xlsx"`
}

// CleanupConfig 清理时删除的日期列关键词
type CleanupConfig struct {
	DateKeywords []string `toml:"date_keywords"`
}

// LayoutConfig 目录布局配置
type LayoutConfig struct {
	Indices []int `toml:"indices"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
	DBFile  string `toml:"db_file"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	Found         bool
	PortSpecified bool
	// Keys 配置文件中显式设置的键，形如 "reference.start"
	Keys []string
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	cls := parser.DefaultClassifierConfig()
	ext := parser.DefaultExtractorConfig()
	return &AppConfig{
		Reference: ReferenceConfig{Start: 202001, End: 202509},
		Encoding: EncodingConfig{
			Candidates:      append([]string(nil), charset.DefaultCandidates...),
			Script:          "Hangul",
			Delimiter:       ",",
			NormalizePolicy: string(charset.PolicyBestScore),
			SummarizePolicy: string(charset.PolicyBestScore),
			CleanupPolicy:   string(charset.PolicyFirstSuccess),
		},
		Classify: ClassifyConfig{
			YearKeywords:      cls.YearKeywords,
			YearSuffixes:      cls.YearSuffixes,
			MonthKeywords:     cls.MonthKeywords,
			DateHints:         cls.DateHints,
			YearMin:           cls.YearMin,
			YearMax:           cls.YearMax,
			ValueRatio:        cls.ValueRatio,
			CombinedRatio:     cls.CombinedRatio,
			CombinedMinDigits: cls.CombinedMinDigits,
			CombinedMaxDigits: cls.CombinedMaxDigits,
		},
		Observe: ObserveConfig{WindowStart: ext.WindowStart, WindowEnd: ext.WindowEnd},
		Report: ReportConfig{
			MaxSegments: coverage.DefaultMaxSegments,
			OutputDir:   "result",
			BaseName:    "기간누락_요약",
			XLSX:        true,
		},
		Cleanup: CleanupConfig{
			DateKeywords: []string{"년", "월", "일", "date", "날짜", "일자", "기간", "기준", "period"},
		},
		Layout: LayoutConfig{Indices: []int{1, 2, 3, 4, 5, 6, 7}},
		Data:   DataConfig{DataDir: "data", DBFile: "periodcheck.db"},
		Server: ServerConfig{Port: 20262, DevMode: false},
	}
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// ResolvePath 未指定路径时使用可执行文件同目录下的 config.toml
func ResolvePath(path string) string {
	if path != "" {
		return path
	}
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, FileName)
}

// LoadConfigWithInfo 加载配置并返回元信息；文件不存在时使用默认配置
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: ResolvePath(path)}
	config := DefaultConfig()

	data, err := os.ReadFile(info.Path)
	switch {
	case err == nil:
		info.Found = true
		info.Keys = specifiedKeys(data)
		info.PortSpecified = info.has("server.port")
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("failed to parse %s: %w", info.Path, err)
		}
	case errors.Is(err, os.ErrNotExist) && path == "":
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, fmt.Errorf("failed to read config: %w", err)
	}

	// 环境变量覆盖
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, info, fmt.Errorf("failed to read environment: %w", err)
	}
	if env.DataDir != "" {
		config.Data.DataDir = env.DataDir
	}
	if env.Reference != "" {
		ref, err := parseReference(env.Reference)
		if err != nil {
			return nil, info, err
		}
		config.Reference = ref
	}

	if err := config.Validate(); err != nil {
		return nil, info, err
	}
	return config, info, nil
}

func (i LoadConfigInfo) has(key string) bool {
	for _, k := range i.Keys {
		if k == key {
			return true
		}
	}
	return false
}

func specifiedKeys(data []byte) []string {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil
	}
	var keys []string
	for section, v := range raw {
		table, ok := v.(map[string]any)
		if !ok {
			keys = append(keys, section)
			continue
		}
		for k := range table {
			keys = append(keys, section+"."+k)
		}
	}
	return keys
}

// parseReference 解析 "202001-202509" 形式的环境变量
func parseReference(v string) (ReferenceConfig, error) {
	start, end, ok := strings.Cut(strings.TrimSpace(v), "-")
	if !ok {
		return ReferenceConfig{}, fmt.Errorf("PERIODCHECK_REFERENCE must look like YYYYMM-YYYYMM, got %q", v)
	}
	s, err1 := strconv.Atoi(start)
	e, err2 := strconv.Atoi(end)
	if err1 != nil || err2 != nil {
		return ReferenceConfig{}, fmt.Errorf("PERIODCHECK_REFERENCE must look like YYYYMM-YYYYMM, got %q", v)
	}
	return ReferenceConfig{Start: s, End: e}, nil
}

// Validate 校验配置取值
func (c *AppConfig) Validate() error {
	ref := c.ReferenceInterval()
	if !ref.Start.Valid() || !ref.End.Valid() {
		return fmt.Errorf("reference: invalid month in %d..%d", c.Reference.Start, c.Reference.End)
	}
	if ref.Start > ref.End {
		return fmt.Errorf("reference: start %s is after end %s", ref.Start, ref.End)
	}
	if _, err := c.Delimiter(); err != nil {
		return err
	}
	for _, p := range []string{c.Encoding.NormalizePolicy, c.Encoding.SummarizePolicy, c.Encoding.CleanupPolicy} {
		if _, err := charset.NewDetector(c.encodingOptions(p)); err != nil {
			return fmt.Errorf("encoding: %w", err)
		}
	}
	for name, r := range map[string]float64{"value_ratio": c.Classify.ValueRatio, "combined_ratio": c.Classify.CombinedRatio} {
		if r <= 0 || r > 1 {
			return fmt.Errorf("classify.%s must be in (0,1], got %v", name, r)
		}
	}
	if c.Classify.CombinedMinDigits < 6 || c.Classify.CombinedMaxDigits < c.Classify.CombinedMinDigits {
		return fmt.Errorf("classify: combined digit bounds %d..%d are invalid", c.Classify.CombinedMinDigits, c.Classify.CombinedMaxDigits)
	}
	if c.Observe.WindowStart > c.Observe.WindowEnd {
		return fmt.Errorf("observe: window_start %d is after window_end %d", c.Observe.WindowStart, c.Observe.WindowEnd)
	}
	if c.Report.MaxSegments <= 0 {
		return fmt.Errorf("report.max_segments must be positive, got %d", c.Report.MaxSegments)
	}
	if c.Report.BaseName == "" {
		return errors.New("report.base_name must not be empty")
	}
	return nil
}

// ReferenceInterval 参考区间
func (c *AppConfig) ReferenceInterval() model.Interval {
	return model.Interval{Start: model.Month(c.Reference.Start), End: model.Month(c.Reference.End)}
}

// Delimiter 单字符分隔符
func (c *AppConfig) Delimiter() (rune, error) {
	if c.Encoding.Delimiter == "" {
		return ',', nil
	}
	r := []rune(c.Encoding.Delimiter)
	if len(r) != 1 {
		return 0, fmt.Errorf("encoding.delimiter must be a single character, got %q", c.Encoding.Delimiter)
	}
	return r[0], nil
}

func (c *AppConfig) encodingOptions(policy string) charset.Options {
	delim, _ := c.Delimiter()
	return charset.Options{
		Candidates: c.Encoding.Candidates,
		Policy:     charset.Policy(policy),
		Script:     c.Encoding.Script,
		Delimiter:  delim,
	}
}

// NormalizeEncoding 规范化操作的检测器配置
func (c *AppConfig) NormalizeEncoding() charset.Options {
	return c.encodingOptions(c.Encoding.NormalizePolicy)
}

// SummarizeEncoding 汇总操作的检测器配置
func (c *AppConfig) SummarizeEncoding() charset.Options {
	return c.encodingOptions(c.Encoding.SummarizePolicy)
}

// CleanupEncoding 清理操作的检测器配置
func (c *AppConfig) CleanupEncoding() charset.Options {
	return c.encodingOptions(c.Encoding.CleanupPolicy)
}

// ClassifierConfig 日期列识别参数
func (c *AppConfig) ClassifierConfig() parser.ClassifierConfig {
	cfg := parser.DefaultClassifierConfig()
	cfg.YearKeywords = c.Classify.YearKeywords
	cfg.YearSuffixes = c.Classify.YearSuffixes
	cfg.MonthKeywords = c.Classify.MonthKeywords
	cfg.DateHints = c.Classify.DateHints
	cfg.YearMin = c.Classify.YearMin
	cfg.YearMax = c.Classify.YearMax
	cfg.ValueRatio = c.Classify.ValueRatio
	cfg.CombinedRatio = c.Classify.CombinedRatio
	cfg.CombinedMinDigits = c.Classify.CombinedMinDigits
	cfg.CombinedMaxDigits = c.Classify.CombinedMaxDigits
	return cfg
}

// ExtractorConfig 年月提取参数
func (c *AppConfig) ExtractorConfig() parser.ExtractorConfig {
	return parser.ExtractorConfig{
		YearMin:     c.Classify.YearMin,
		YearMax:     c.Classify.YearMax,
		WindowStart: c.Observe.WindowStart,
		WindowEnd:   c.Observe.WindowEnd,
	}
}

// CoverageOptions 覆盖统计参数
func (c *AppConfig) CoverageOptions() coverage.Options {
	return coverage.Options{Reference: c.ReferenceInterval(), MaxSegments: c.Report.MaxSegments}
}

// EnsureDataDir 确保数据目录存在；相对路径以可执行文件目录为基准
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// DBPath 运行历史数据库路径
func DBPath(config *AppConfig) (string, error) {
	dataDir, err := EnsureDataDir(config)
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, config.Data.DBFile), nil
}

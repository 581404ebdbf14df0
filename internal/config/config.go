package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ailtstruongson-maker/reportbi/internal/parser"
)

// AppConfig 应用配置
type AppConfig struct {
	Server  ServerConfig  `toml:"server"`
	Data    DataConfig    `toml:"data"`
	Parsing ParsingConfig `toml:"parsing"`
	Targets TargetsConfig `toml:"targets"`
	Trend   TrendConfig   `toml:"trend"`
	Log     LogConfig     `toml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir    string `toml:"data_dir"`
	AutoBackup bool   `toml:"auto_backup"`
}

// ParsingConfig 粘贴文本中的固定标签
type ParsingConfig struct {
	AggregateLabels []string `toml:"aggregate_labels"`
	GroupPrefix     string   `toml:"group_prefix"`
	MemberSeparator string   `toml:"member_separator"`
	GroupKeyword    string   `toml:"group_keyword"`
}

// TargetsConfig 目标默认值（百分比）
type TargetsConfig struct {
	MultiplierPercent  float64 `toml:"multiplier_percent"`
	InstallmentPercent float64 `toml:"installment_percent"`
	ConversionPercent  float64 `toml:"conversion_percent"`
}

// TrendConfig 变化提示
type TrendConfig struct {
	ThresholdPercent float64 `toml:"threshold_percent"`
	Workers          int     `toml:"workers"`
}

// LogConfig 日志
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	PortSpecified bool
	Path          string
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	labels := parser.DefaultLabels()
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir:    "data",
			AutoBackup: true,
		},
		Parsing: ParsingConfig{
			AggregateLabels: labels.AggregateLabels,
			GroupPrefix:     labels.GroupPrefix,
			MemberSeparator: labels.MemberSeparator,
			GroupKeyword:    labels.GroupKeyword,
		},
		Targets: TargetsConfig{
			MultiplierPercent:  100,
			InstallmentPercent: 45,
			ConversionPercent:  40,
		},
		Trend: TrendConfig{
			ThresholdPercent: 10,
			Workers:          4,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Labels 转换为解析器标签
func (c ParsingConfig) Labels() parser.Labels {
	return parser.Labels{
		AggregateLabels: c.AggregateLabels,
		GroupPrefix:     c.GroupPrefix,
		MemberSeparator: c.MemberSeparator,
		GroupKeyword:    c.GroupKeyword,
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultPath 可执行文件同目录下的 config.toml
func DefaultPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo 加载配置并返回元信息；path 为空时使用 DefaultPath
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	if path == "" {
		path = DefaultPath()
	}
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, err
		}
	case os.IsNotExist(err):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, err
	}

	applyEnv(config, &info)
	if err := config.Validate(); err != nil {
		return nil, info, fmt.Errorf("%s: %w", path, err)
	}
	return config, info, nil
}

// Validate 检查取值范围
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if strings.TrimSpace(c.Data.DataDir) == "" {
		errs = append(errs, errors.New("data.data_dir is empty"))
	}
	for name, v := range map[string]float64{
		"targets.installment_percent": c.Targets.InstallmentPercent,
		"targets.conversion_percent":  c.Targets.ConversionPercent,
	} {
		if v < 0 || v > 100 {
			errs = append(errs, fmt.Errorf("%s %.2f not in [0, 100]", name, v))
		}
	}
	if c.Targets.MultiplierPercent < 0 {
		errs = append(errs, fmt.Errorf("targets.multiplier_percent %.2f is negative", c.Targets.MultiplierPercent))
	}
	if c.Trend.ThresholdPercent <= 0 {
		errs = append(errs, fmt.Errorf("trend.threshold_percent must be positive"))
	}
	if c.Trend.Workers < 0 {
		errs = append(errs, fmt.Errorf("trend.workers must not be negative"))
	}
	return errors.Join(errs...)
}

// applyEnv 环境变量覆盖
func applyEnv(config *AppConfig, info *LoadConfigInfo) {
	if v := os.Getenv("REPORTBI_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv("REPORTBI_LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
	if v := os.Getenv("REPORTBI_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			config.Server.Port = port
			info.PortSpecified = true
		}
	}
}

// LoadConfig 从 config.toml 加载配置
// 配置文件位于可执行文件同目录下
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo("")
	return config, err
}

// SaveConfig 保存配置
func SaveConfig(config *AppConfig, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResolveDataDir 数据目录；相对路径基于可执行文件所在目录
func ResolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, config.Data.DataDir)
}

// EnsureDataDir 确保数据目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// 创建子目录
	subdirs := []string{"exports", "backups"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}

// GetDataPath 获取数据文件路径
func GetDataPath(config *AppConfig, subdir, filename string) string {
	return filepath.Join(ResolveDataDir(config), subdir, filename)
}

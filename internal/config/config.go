package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/livp123/phaselog/internal/extractor"
	"github.com/livp123/phaselog/internal/report"
	"github.com/livp123/phaselog/internal/source"
	"github.com/livp123/phaselog/internal/utils/fileutil"
	"github.com/livp123/phaselog/internal/utils/logger"
	"github.com/livp123/phaselog/pkg/errors"
)

// Config is the top-level configuration file layout.
// Config 是配置文件的顶层结构。
type Config struct {
	Logging logger.LoggingConfig `yaml:"logging"`
	Extract ExtractConfig        `yaml:"extract"`
	Metrics MetricsConfig        `yaml:"metrics"`
}

// ExtractConfig holds defaults for the extract command.
// ExtractConfig 保存 extract 命令的默认值。
type ExtractConfig struct {
	LogPath string `yaml:"log_path"`
	// LogPath: 内核日志路径，"-" 表示 stdin
	OutputSuffix string `yaml:"output_suffix"`
	// OutputSuffix: 追加到输出名称后的扩展名
	StartPolicy string `yaml:"start_policy"`
	// StartPolicy: 重复 start 行的处理方式（first, repeat, strict）
	NameRule string `yaml:"name_rule"`
	// NameRule: 进程名截取规则（last-field, after-first-field）
}

// MetricsConfig controls the Prometheus textfile export.
// MetricsConfig 控制 Prometheus textfile 导出。
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
	// Textfile: 指标输出文件路径，为空则不导出
}

// DefaultConfig returns the configuration used when no file is present.
// DefaultConfig 返回未提供配置文件时使用的默认配置。
func DefaultConfig() *Config {
	return &Config{
		Logging: logger.LoggingConfig{
			Enabled:    false,
			Level:      DefaultLogLevel,
			MaxSize:    DefaultLogMaxSize,
			MaxBackups: DefaultLogMaxBackups,
			MaxAge:     DefaultLogMaxAge,
		},
		Extract: ExtractConfig{
			LogPath:      source.DefaultLogPath,
			OutputSuffix: report.DefaultSuffix,
			StartPolicy:  string(extractor.StartFirst),
			NameRule:     string(extractor.NameLastField),
		},
	}
}

// LoadConfig reads path on top of the defaults. A missing file yields
// ErrConfigNotFound.
// LoadConfig 在默认值基础上读取配置文件，文件不存在时返回 ErrConfigNotFound。
func LoadConfig(path string) (*Config, error) {
	safePath := filepath.Clean(path) // Sanitize path to prevent directory traversal
	data, err := os.ReadFile(safePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", errors.ErrConfigNotFound, safePath)
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrConfigInvalid, safePath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes cfg to path atomically.
// SaveConfig 以原子方式将配置写入 path。
func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return fileutil.AtomicWriteFile(filepath.Clean(path), data, 0644)
}

// Validate checks field values that yaml decoding cannot.
// Validate 检查 yaml 解码无法校验的字段值。
func (c *Config) Validate() error {
	if _, err := extractor.ParseStartPolicy(c.Extract.StartPolicy); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrConfigInvalid, err)
	}
	if _, err := extractor.ParseNameRule(c.Extract.NameRule); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrConfigInvalid, err)
	}
	if strings.TrimSpace(c.Extract.LogPath) == "" {
		return errors.NewConfigError("extract.log_path", c.Extract.LogPath)
	}
	if strings.ContainsRune(c.Extract.OutputSuffix, os.PathSeparator) {
		return errors.NewConfigError("extract.output_suffix", c.Extract.OutputSuffix)
	}
	if c.Logging.MaxSize < 0 || c.Logging.MaxBackups < 0 || c.Logging.MaxAge < 0 {
		return errors.NewConfigError("logging", "negative rotation limit")
	}
	if c.Logging.Enabled && c.Logging.Path == "" {
		return errors.NewConfigError("logging.path", "")
	}
	return nil
}

// ExtractOptions converts the extract section into extractor options.
// ExtractOptions 将 extract 配置转换为提取器选项。
func (c *Config) ExtractOptions() (extractor.Options, error) {
	policy, err := extractor.ParseStartPolicy(c.Extract.StartPolicy)
	if err != nil {
		return extractor.Options{}, err
	}
	rule, err := extractor.ParseNameRule(c.Extract.NameRule)
	if err != nil {
		return extractor.Options{}, err
	}
	return extractor.Options{StartPolicy: policy, NameRule: rule}, nil
}

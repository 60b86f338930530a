package config

import (
	"github.com/livp123/phaselog/internal/runtime"
)

/**
 * GetConfigPath resolves the configuration file path.
 * It prioritizes the CLI flag (runtime.ConfigPath) over the default.
 * GetConfigPath 解析配置文件路径。
 * 优先使用 CLI 标志 (runtime.ConfigPath)，其次是默认值。
 */
func GetConfigPath() string {
	if runtime.ConfigPath != "" {
		return runtime.ConfigPath
	}
	return DefaultConfigPath
}

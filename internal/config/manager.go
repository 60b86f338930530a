package config

import (
	stderrors "errors"
	"sync"

	"github.com/livp123/phaselog/pkg/errors"
)

// ConfigManager loads the configuration once and hands out copies.
// ConfigManager 加载一次配置并返回其副本。
type ConfigManager struct {
	configPath string
	mutex      sync.RWMutex
	config     *Config
	fromFile   bool
}

// NewConfigManager creates a new configuration manager instance
// NewConfigManager 创建新的配置管理器实例
func NewConfigManager(configPath string) *ConfigManager {
	if configPath == "" {
		configPath = GetConfigPath()
	}
	return &ConfigManager{configPath: configPath}
}

// LoadConfig loads the configuration file, falling back to defaults when
// the file does not exist. Any other error is returned.
// LoadConfig 加载配置文件，文件不存在时回退到默认值，其他错误直接返回。
func (cm *ConfigManager) LoadConfig() error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	cfg, err := LoadConfig(cm.configPath)
	switch {
	case err == nil:
		cm.config = cfg
		cm.fromFile = true
	case stderrors.Is(err, errors.ErrConfigNotFound):
		cm.config = DefaultConfig()
		cm.fromFile = false
	default:
		return err
	}
	return nil
}

// SaveConfig writes the loaded configuration to the manager's path, or the
// defaults when nothing has been loaded.
// SaveConfig 将已加载的配置写入管理器路径，未加载时写入默认配置。
func (cm *ConfigManager) SaveConfig() error {
	cm.mutex.RLock()
	cfg := cm.config
	cm.mutex.RUnlock()

	if cfg == nil {
		cfg = DefaultConfig()
	}
	return SaveConfig(cm.configPath, cfg)
}

// GetConfig returns a copy of the current configuration
// GetConfig 返回当前配置的副本
func (cm *ConfigManager) GetConfig() *Config {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	if cm.config == nil {
		return DefaultConfig()
	}
	cfgCopy := *cm.config
	return &cfgCopy
}

// FromFile reports whether the last load read an actual file.
func (cm *ConfigManager) FromFile() bool {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return cm.fromFile
}

// GetConfigPath returns the path this manager reads and writes.
func (cm *ConfigManager) GetConfigPath() string {
	return cm.configPath
}

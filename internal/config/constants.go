package config

const (
	// DefaultConfigPath is the standard location for the phaselog configuration file.
	// DefaultConfigPath 是 phaselog 配置文件的标准位置。
	DefaultConfigPath = "/etc/phaselog/config.yaml"

	// DefaultLogLevel is used when the config file does not set one.
	DefaultLogLevel = "info"

	// Log rotation defaults, only used when file logging is enabled.
	// 日志轮转默认值，仅在启用文件日志时使用。
	DefaultLogMaxSize    = 10
	DefaultLogMaxBackups = 3
	DefaultLogMaxAge     = 30
)

package commands

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/livp123/phaselog/internal/config"
	"github.com/livp123/phaselog/internal/runtime"
	"github.com/livp123/phaselog/internal/utils/logger"
	"github.com/livp123/phaselog/pkg/errors"
)

type configKey struct{}

// RootCmd is the command tree used by main.
var RootCmd = NewRootCmd()

// NewRootCmd builds a fresh command tree. Tests build their own so flag
// values do not leak between runs.
// NewRootCmd 构建新的命令树，测试中各自构建以避免标志值互相影响。
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "phaselog",
		Short: "Extract a process's phase tracking events from the kernel log",
		// Short: 从内核日志中提取进程的相位跟踪事件
		Long: `phaselog scans a kernel log for the lifecycle events of one tracked
process (start, tick, shift, end) and renders them into a report file.
phaselog 扫描内核日志中某个被跟踪进程的生命周期事件，并生成报告文件。`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setupCommand,
	}

	// Config file path
	// 配置文件路径
	root.PersistentFlags().StringVarP(&runtime.ConfigPath, "config", "c", "", fmt.Sprintf("Path to configuration file (default: %s)", config.DefaultConfigPath))
	root.PersistentFlags().StringVar(&runtime.LogLevel, "log-level", "", "Override logging level (debug, info, warn, error)")

	root.AddCommand(newExtractCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newVersionCmd())

	root.CompletionOptions.DisableDescriptions = true
	return root
}

// setupCommand loads the configuration, initializes logging and injects
// both into the command context.
// setupCommand 加载配置、初始化日志，并将二者注入命令上下文。
func setupCommand(cmd *cobra.Command, args []string) error {
	cm := config.NewConfigManager(runtime.ConfigPath)
	loadErr := cm.LoadConfig()
	cfg := cm.GetConfig()

	logCfg := cfg.Logging
	if runtime.LogLevel != "" {
		logCfg.Level = runtime.LogLevel
	}
	logger.Init(logCfg)
	log := logger.Get(nil)

	if loadErr != nil {
		// init and version must work with a broken config file
		// init 和 version 在配置文件损坏时也必须可用
		if cmd.Name() != "init" && cmd.Name() != "version" {
			return loadErr
		}
		log.Warnf("[WARN] Ignoring config %s: %v", cm.GetConfigPath(), loadErr)
	} else if cm.FromFile() {
		log.Debugf("Loaded config from %s", cm.GetConfigPath())
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithContext(ctx, log)
	ctx = context.WithValue(ctx, configKey{}, cfg)
	cmd.SetContext(ctx)
	return nil
}

// configFrom returns the configuration injected by setupCommand.
func configFrom(ctx context.Context) *config.Config {
	if ctx != nil {
		if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
			return cfg
		}
	}
	return config.DefaultConfig()
}

// Execute runs RootCmd and exits non-zero on failure.
func Execute() {
	err := RootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if stderrors.Is(err, errors.ErrConfigInvalid) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/livp123/phaselog/internal/config"
	"github.com/livp123/phaselog/internal/runtime"
	"github.com/livp123/phaselog/internal/utils/fileutil"
	"github.com/livp123/phaselog/internal/utils/logger"
	"github.com/livp123/phaselog/pkg/errors"
)

func newInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		// Short: 生成默认配置文件
		Long: `Write the default configuration to --config (default /etc/phaselog/config.yaml)`,
		// Long: 将默认配置写入 --config 指定的路径
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cm := config.NewConfigManager(runtime.ConfigPath)
			path := cm.GetConfigPath()
			if fileutil.Exists(path) && !force {
				return fmt.Errorf("%w: %s (use --force to overwrite)", errors.ErrAlreadyExists, path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return errors.NewWriteError(path, err)
			}
			if err := cm.SaveConfig(); err != nil {
				return errors.NewWriteError(path, err)
			}
			logger.Get(cmd.Context()).Infof("Configuration written to %s", path)
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration initialized: %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing configuration file")
	return cmd
}

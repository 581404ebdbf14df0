// Package main 是 reportbi 的命令行入口
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ailtstruongson-maker/reportbi/internal/config"
	"github.com/ailtstruongson-maker/reportbi/internal/logging"
)

// rootOptions 所有子命令共用的参数
type rootOptions struct {
	configPath string
	dataDir    string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:          "reportbi",
		Short:        "门店销售报表看板",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "配置文件路径 (默认: 可执行文件目录下的 config.toml)")
	rootCmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "数据目录 (覆盖配置文件)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "日志级别 (覆盖配置文件)")

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newParseCmd(opts))
	rootCmd.AddCommand(newRedistributeCmd())
	rootCmd.AddCommand(newImportCmd(opts))
	rootCmd.AddCommand(newExportCmd(opts))

	return rootCmd
}

// load 读取配置并应用命令行覆盖
func (o *rootOptions) load() (*config.AppConfig, config.LoadConfigInfo, error) {
	cfg, info, err := config.LoadConfigWithInfo(o.configPath)
	if err != nil {
		return nil, info, fmt.Errorf("加载配置失败: %w", err)
	}
	if o.dataDir != "" {
		cfg.Data.DataDir = o.dataDir
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, info, nil
}

func newLogger(cfg *config.AppConfig) (*zap.Logger, error) {
	log, err := logging.New(cfg.Log.Level, cfg.Server.DevMode)
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return log, nil
}

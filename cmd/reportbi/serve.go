package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ailtstruongson-maker/reportbi/internal/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		port      int
		devMode   bool
		noBrowser bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, info, err := root.load()
			if err != nil {
				return err
			}
			// config.toml 中显式配置的端口优先
			if port > 0 && !info.PortSpecified {
				cfg.Server.Port = port
			}
			if devMode {
				cfg.Server.DevMode = true
			}

			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "==========================================")
			fmt.Fprintln(out, "  ReportBI - 门店销售报表看板")
			fmt.Fprintln(out, "==========================================")

			srv, err := server.NewServer(cfg, log)
			if err != nil {
				return err
			}

			addr := fmt.Sprintf(":%d", cfg.Server.Port)
			url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Run(addr)
			}()

			if !cfg.Server.DevMode && !noBrowser {
				if err := openBrowser(url); err != nil {
					fmt.Fprintf(out, "无法自动打开浏览器，请手动访问: %s\n", url)
				}
			} else {
				fmt.Fprintf(out, "请访问 %s\n", url)
			}
			fmt.Fprintln(out, "按 Ctrl+C 停止服务...")

			var runErr error
			select {
			case runErr = <-errCh:
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn("shutdown failed", zap.Error(err))
			}
			return runErr
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "服务端口 (仅当 config.toml 未配置 port 时生效)")
	cmd.Flags().BoolVar(&devMode, "dev", false, "开发模式")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "启动后不打开浏览器")
	return cmd
}

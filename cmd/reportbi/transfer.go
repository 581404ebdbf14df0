package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ailtstruongson-maker/reportbi/internal/config"
	"github.com/ailtstruongson-maker/reportbi/internal/exporter"
	"github.com/ailtstruongson-maker/reportbi/internal/importer"
	"github.com/ailtstruongson-maker/reportbi/internal/model"
	"github.com/ailtstruongson-maker/reportbi/internal/server"
	"github.com/ailtstruongson-maker/reportbi/internal/service/board"
	"github.com/ailtstruongson-maker/reportbi/internal/store"
)

// localBoard 直接打开数据目录中的数据库，不经过 HTTP 服务
type localBoard struct {
	cfg   *config.AppConfig
	log   *zap.Logger
	store *store.Store
	board *board.Service
}

func openLocalBoard(root *rootOptions) (*localBoard, error) {
	cfg, _, err := root.load()
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("创建数据目录失败: %w", err)
	}
	st, err := store.New(filepath.Join(dataDir, "reportbi.db"))
	if err != nil {
		return nil, err
	}
	return &localBoard{
		cfg:   cfg,
		log:   log,
		store: st,
		board: board.New(st, log.Named("board"), server.BoardOptions(cfg)),
	}, nil
}

func (b *localBoard) Close() {
	if err := b.store.Close(); err != nil {
		b.log.Warn("close database failed", zap.Error(err))
	}
	_ = b.log.Sync()
}

func newImportCmd(root *rootOptions) *cobra.Command {
	var (
		outlet string
		sheet  string
		kind   string
	)
	cmd := &cobra.Command{
		Use:   "import <xlsx>",
		Short: "导入 xlsx，按工作表识别报表类型并保存",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k := model.ReportKind(kind)
			if k != "" && !k.Valid() {
				return fmt.Errorf("未知报表类型: %s", kind)
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			lb, err := openLocalBoard(root)
			if err != nil {
				return err
			}
			defer lb.Close()

			report, err := importer.NewCoordinator(lb.board, lb.store, lb.log.Named("import")).Run(cmd.Context(), importer.ImportOptions{
				Filename: filepath.Base(args[0]),
				Reader:   f,
				Outlet:   outlet,
				Sheet:    sheet,
				Kind:     k,
			})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SHEET\tKIND\tROWS\tSTATUS\tMESSAGE")
			for _, s := range report.Sheets {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.SheetName, s.Kind, humanize.Comma(int64(s.Rows)), s.Status, s.Message)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已导入 %d 个工作表，用时 %s\n", report.Imported, report.Duration.Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().StringVar(&outlet, "outlet", "", "门店名称")
	cmd.Flags().StringVar(&sheet, "sheet", "", "只导入该工作表")
	cmd.Flags().StringVar(&kind, "kind", "", "指定报表类型（只对单个工作表生效）")
	_ = cmd.MarkFlagRequired("outlet")
	return cmd
}

func newExportCmd(root *rootOptions) *cobra.Command {
	var (
		outlet string
		date   string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "导出门店目标工作簿",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day := time.Now()
			if date != "" {
				var err error
				if day, err = time.ParseInLocation("2006-01-02", date, time.Local); err != nil {
					return fmt.Errorf("--date 格式应为 YYYY-MM-DD: %w", err)
				}
			}

			lb, err := openLocalBoard(root)
			if err != nil {
				return err
			}
			defer lb.Close()

			data, err := exporter.Collect(cmd.Context(), lb.board, outlet, day)
			if err != nil {
				return err
			}
			file, err := exporter.NewExporter().Export(data, func(p exporter.ProgressEvent) {
				fmt.Fprintf(cmd.ErrOrStderr(), "[%3d%%] %s\n", p.Percent, p.Stage)
			})
			if err != nil {
				return err
			}
			defer file.Close()

			if output == "" {
				name := fmt.Sprintf("%s_%s.xlsx", safeFileName(data.Outlet), day.Format("2006-01-02"))
				output = config.GetDataPath(lb.cfg, "exports", name)
			}
			if err := file.SaveAs(output); err != nil {
				return fmt.Errorf("保存 %s 失败: %w", output, err)
			}
			info, err := os.Stat(output)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已导出 %s (%s)\n", output, humanize.Bytes(uint64(info.Size())))
			return nil
		},
	}
	cmd.Flags().StringVar(&outlet, "outlet", "", "门店名称")
	cmd.Flags().StringVar(&date, "date", "", "日期 YYYY-MM-DD，默认今天")
	cmd.Flags().StringVarP(&output, "output", "o", "", "输出文件 (默认: 数据目录 exports/)")
	_ = cmd.MarkFlagRequired("outlet")
	return cmd
}

var fileNameReplacer = strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")

func safeFileName(s string) string {
	return fileNameReplacer.Replace(strings.TrimSpace(s))
}


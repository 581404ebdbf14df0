package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
	"github.com/ailtstruongson-maker/reportbi/internal/parser"
)

func newParseCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "解析粘贴的报表文本（文件或 - 表示标准输入）",
	}
	cmd.AddCommand(newParseRevenueCmd(root))
	cmd.AddCommand(newParseCompetitionCmd(root))
	return cmd
}

func newParseRevenueCmd(root *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "revenue <file>",
		Short: "解析员工营收表",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := root.load()
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			records := parser.NewRevenueParser(cfg.Parsing.Labels()).Parse(text)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), records)
			}
			return printRevenue(cmd.OutOrStdout(), records)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "输出 JSON")
	return cmd
}

func newParseCompetitionCmd(root *rootOptions) *cobra.Command {
	var (
		revenuePath string
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "competition <file>",
		Short: "解析竞赛表；员工名单取自 --revenue 指定的营收表",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := root.load()
			if err != nil {
				return err
			}
			labels := cfg.Parsing.Labels()
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			var members map[string]string
			if revenuePath != "" {
				revenueText, err := readInput(cmd, revenuePath)
				if err != nil {
					return err
				}
				members = parser.MemberGroups(parser.NewRevenueParser(labels).Parse(revenueText))
			}
			data := parser.NewCompetitionParser(labels).Parse(text, members)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), data)
			}
			return printCompetition(cmd.OutOrStdout(), data)
		},
	}
	cmd.Flags().StringVar(&revenuePath, "revenue", "", "营收表文件")
	cmd.Flags().BoolVar(&asJSON, "json", false, "输出 JSON")
	return cmd
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("读取 %s 失败: %w", path, err)
	}
	return string(data), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRevenue(out io.Writer, records []model.RevenueRecord) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tNAME\tGROUP\tDTLK\tDTQĐ\tHQQĐ")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2f\n",
			r.Kind, r.DisplayName, r.GroupName,
			humanize.Commaf(r.CumulativeRevenue), humanize.Commaf(r.AdjustedRevenue), r.EfficiencyRatio)
	}
	return w.Flush()
}

func printCompetition(out io.Writer, data model.CompetitionData) error {
	if data.IsEmpty() {
		fmt.Fprintln(out, "没有可显示的竞赛数据")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, c := range model.Criteria {
		table := data[c]
		if len(table.Records) == 0 {
			continue
		}
		titles := make([]string, 0, len(table.Headers)+1)
		titles = append(titles, "["+string(c)+"]")
		for _, h := range table.Headers {
			titles = append(titles, h.DisplayTitle)
		}
		fmt.Fprintln(w, strings.Join(titles, "\t"))
		for _, r := range table.Records {
			cells := make([]string, 0, len(r.Values)+1)
			cells = append(cells, r.DisplayName)
			for _, v := range r.Values {
				if v == nil {
					cells = append(cells, "-")
					continue
				}
				cells = append(cells, humanize.Commaf(*v))
			}
			fmt.Fprintln(w, strings.Join(cells, "\t"))
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ailtstruongson-maker/reportbi/internal/service/target"
)

func newRedistributeCmd() *cobra.Command {
	var (
		pairs []string
		name  string
		value float64
	)
	cmd := &cobra.Command{
		Use:     "redistribute",
		Short:   "调整一个权重，其余按比例吸收，合计保持 100",
		Example: "  reportbi redistribute --weight A=50 --weight B=30 --weight C=20 --name A --value 70",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			weights, err := parseWeights(pairs)
			if err != nil {
				return err
			}
			if _, ok := weights[name]; !ok {
				return fmt.Errorf("未知名称: %q", name)
			}
			next := target.Redistribute(weights, name, value)

			names := next.Keys()
			sort.Strings(names)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBEFORE\tAFTER")
			for _, n := range names {
				fmt.Fprintf(w, "%s\t%.2f\t%.2f\n", n, weights[n], next[n])
			}
			fmt.Fprintf(w, "SUM\t%.2f\t%.2f\n", weights.Sum(), next.Sum())
			return w.Flush()
		},
	}
	cmd.Flags().StringArrayVar(&pairs, "weight", nil, "名称=权重，可重复")
	cmd.Flags().StringVar(&name, "name", "", "要调整的名称")
	cmd.Flags().Float64Var(&value, "value", 0, "新的权重")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

// parseWeights 解析 名称=权重；名称中可含 "="，以最后一个为准
func parseWeights(pairs []string) (target.WeightSet, error) {
	weights := make(target.WeightSet, len(pairs))
	for _, p := range pairs {
		i := strings.LastIndex(p, "=")
		if i <= 0 {
			return nil, fmt.Errorf("权重格式应为 名称=数值: %q", p)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(p[i+1:]), 64)
		if err != nil {
			return nil, fmt.Errorf("权重 %q 不是数字: %w", p, err)
		}
		weights[strings.TrimSpace(p[:i])] = v
	}
	if len(weights) == 0 {
		return nil, fmt.Errorf("至少需要一个 --weight")
	}
	return weights, nil
}

package parser

import (
	"sort"
	"strings"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
)

const industryHeaderLabel = "Nhóm ngành hàng"

// 完成率列，用于排序
var industryRankColumns = []string{"% HT Target Ngày (QĐ)", "% HT Target (QĐ)"}

// ParseIndustryTable 解析行业明细表
// 合计行单独返回；其余行按完成率降序，hidden 中的行业被过滤
func (l Labels) ParseIndustryTable(text string, hidden []string) model.IndustryTable {
	l = l.withDefaults()
	table := model.IndustryTable{Columns: []string{}, Rows: []model.IndustryRow{}}

	lines := nonBlankLines(text)
	start := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), industryHeaderLabel) {
			start = i
			break
		}
	}
	if start < 0 {
		return table
	}

	header := SplitFields(strings.TrimSpace(lines[start]))
	table.Columns = append(table.Columns, header[1:]...)

	skip := make(map[string]bool, len(hidden))
	for _, h := range hidden {
		skip[h] = true
	}

	for _, line := range lines[start+1:] {
		fields := SplitFields(line)
		name := fields[0]
		if name == "" {
			continue
		}
		row := model.IndustryRow{Name: name, Values: make(map[string]float64, len(table.Columns))}
		for i, col := range table.Columns {
			row.Values[col] = ParseNumber(field(fields, i+1))
		}
		if l.IsAggregate(name) {
			if table.Total == nil {
				table.Total = &row
			}
			continue
		}
		if skip[name] {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	for _, col := range industryRankColumns {
		if !containsString(table.Columns, col) {
			continue
		}
		sort.SliceStable(table.Rows, func(i, j int) bool {
			return table.Rows[i].Values[col] > table.Rows[j].Values[col]
		})
		break
	}
	return table
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

package parser

import (
	"strings"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
)

// targetLiteral 累计竞赛表中项目标记行的第三列
const targetLiteral = "Target"

// ParseTargetMarker 识别 "<项目>\t<口径>\tTarget" 标记行
func ParseTargetMarker(fields []string) (model.Program, bool) {
	if len(fields) <= 2 || fields[0] == "" || fields[2] != targetLiteral {
		return model.Program{}, false
	}
	criterion, ok := model.ParseCriterion(fields[1])
	if !ok {
		return model.Program{}, false
	}
	return model.Program{Name: fields[0], Criterion: criterion}, true
}

// ParsePrograms 累计竞赛表中的项目列表，按首次出现顺序去重
func ParsePrograms(text string) []model.Program {
	seen := make(map[string]bool)
	programs := make([]model.Program, 0)
	for _, line := range SplitLines(text) {
		fields := SplitFields(strings.TrimSpace(line))
		p, ok := ParseTargetMarker(fields)
		if !ok || seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		programs = append(programs, p)
	}
	return programs
}

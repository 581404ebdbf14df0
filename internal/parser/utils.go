package parser

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ParseNumber 解析 "1,234.5" / "45%" 形式的数字
// 无法解析时返回 0
func ParseNumber(s string) float64 {
	v, _ := parseNumber(s)
	return v
}

// ParseNumberStrict 同 ParseNumber，额外返回是否解析成功
func ParseNumberStrict(s string) (float64, bool) {
	return parseNumber(s)
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "%", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// NormalizeText 统一为 NFC，避免组合字符导致越南语标签匹配失败
func NormalizeText(text string) string {
	return norm.NFC.String(text)
}

// SplitLines 按行切分，去掉 Windows 换行的 \r
func SplitLines(text string) []string {
	text = NormalizeText(text)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	return lines
}

// SplitFields 按制表符切分并去除每个字段首尾空白
func SplitFields(line string) []string {
	parts := strings.Split(line, "\t")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// field 越界时返回空串
func field(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}

// ContainsFold 不区分大小写的包含判断
func ContainsFold(text, sub string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(sub))
}

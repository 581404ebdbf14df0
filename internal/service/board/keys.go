package board

import (
	"net/url"
	"strings"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
)

const (
	outletPrefix = "outlet/"
	globalPrefix = "global/"
)

// globalReports 区域级报表，所有门店共用
var globalReports = map[model.ReportKind]bool{
	model.ReportLuyKe:            true,
	model.ReportCompetitionLuyKe: true,
}

// IsGlobalReport 是否为区域级报表
func IsGlobalReport(kind model.ReportKind) bool {
	return globalReports[kind]
}

func outletKey(outlet string, parts ...string) string {
	return outletPrefix + url.PathEscape(outlet) + "/" + strings.Join(parts, "/")
}

func reportKey(outlet string, kind model.ReportKind) string {
	if IsGlobalReport(kind) {
		return globalPrefix + "report/" + string(kind)
	}
	return outletKey(outlet, "report", string(kind))
}

func revenueSettingsKey(outlet string) string { return outletKey(outlet, "targets", "revenue") }
func departmentWeightsKey(outlet string) string { return outletKey(outlet, "weights", "departments") }
func programSettingsKey(outlet string) string { return outletKey(outlet, "targets", "programs") }
func snapshotIndexKey(outlet string) string { return outletKey(outlet, "snapshots") }
func snapshotKey(outlet, id string) string { return outletKey(outlet, "snapshot", id) }
func versionsKey(outlet string) string { return outletKey(outlet, "versions") }
func bonusKey(outlet string) string { return outletKey(outlet, "bonus") }

// outletFromKey 从键中解析门店名
func outletFromKey(key string) (string, bool) {
	if !strings.HasPrefix(key, outletPrefix) {
		return "", false
	}
	rest := strings.TrimPrefix(key, outletPrefix)
	escaped, _, ok := strings.Cut(rest, "/")
	if !ok {
		return "", false
	}
	outlet, err := url.PathUnescape(escaped)
	if err != nil {
		return "", false
	}
	return outlet, true
}

package model

import (
	"encoding/json"
	"math"
	"time"
)

// Direction 变化方向
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// SnapshotComparison 与历史快照的对比
// 前值为 0 或缺失时 ChangePercent 为 +Inf，Unbounded 为 true
type SnapshotComparison struct {
	EntityName    string    `json:"entityName"`
	CurrentTotal  float64   `json:"currentTotal"`
	PreviousTotal float64   `json:"previousTotal"`
	ChangePercent float64   `json:"changePercent"`
	Direction     Direction `json:"direction"`
	Unbounded     bool      `json:"unbounded"`
}

// MarshalJSON Inf 无法编码为 JSON，输出 null
func (c SnapshotComparison) MarshalJSON() ([]byte, error) {
	type wire struct {
		EntityName    string    `json:"entityName"`
		CurrentTotal  float64   `json:"currentTotal"`
		PreviousTotal float64   `json:"previousTotal"`
		ChangePercent *float64  `json:"changePercent"`
		Direction     Direction `json:"direction"`
		Unbounded     bool      `json:"unbounded"`
	}
	w := wire{
		EntityName:    c.EntityName,
		CurrentTotal:  c.CurrentTotal,
		PreviousTotal: c.PreviousTotal,
		Direction:     c.Direction,
		Unbounded:     c.Unbounded,
	}
	if !math.IsInf(c.ChangePercent, 0) && !math.IsNaN(c.ChangePercent) {
		v := c.ChangePercent
		w.ChangePercent = &v
	}
	return json.Marshal(w)
}

// SnapshotMeta 快照索引信息
type SnapshotMeta struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

// SnapshotData 快照保存的原始粘贴文本
type SnapshotData struct {
	RevenueText     string `json:"revenueText"`
	CompetitionText string `json:"competitionText"`
}

// TrendPoint 趋势线上的一个点
type TrendPoint struct {
	Label string    `json:"label"`
	Date  time.Time `json:"date"`
	Total float64   `json:"total"`
}

// Version 竞赛项目的自选组合
type Version struct {
	Name             string   `json:"name"`
	SelectedPrograms []string `json:"selectedPrograms"`
}

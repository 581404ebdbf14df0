package target

import (
	"math"
	"sort"
)

// epsilon 其他成员权重之和不超过该值时视为全为 0
const epsilon = 0.01

// WeightSet 同级实体的百分比权重，合计恒为 100
type WeightSet map[string]float64

// EqualSplit 平均分配
func EqualSplit(names []string) WeightSet {
	w := make(WeightSet, len(names))
	if len(names) == 0 {
		return w
	}
	share := 100 / float64(len(names))
	for _, n := range names {
		w[n] = share
	}
	return w
}

// Reconcile 已保存的权重与当前实体集合一致时沿用，否则重新平均分配
func Reconcile(stored WeightSet, names []string) WeightSet {
	if len(stored) != len(names) || len(names) == 0 {
		return EqualSplit(names)
	}
	for _, n := range names {
		if _, ok := stored[n]; !ok {
			return EqualSplit(names)
		}
	}
	if total := stored.Sum(); total <= 0 || math.IsNaN(total) {
		return EqualSplit(names)
	}
	return stored.Clone()
}

// Sum 权重合计
func (w WeightSet) Sum() float64 {
	total := 0.0
	for _, k := range w.Keys() {
		total += w[k]
	}
	return total
}

// Clone 浅拷贝
func (w WeightSet) Clone() WeightSet {
	out := make(WeightSet, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// Keys 排序后的键
func (w WeightSet) Keys() []string {
	keys := make([]string, 0, len(w))
	for k := range w {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Redistribute 修改单个实体的权重，其余实体按原比例吸收差额，最后归一化到 100
// 返回新的权重集合，入参不被修改；未知实体原样返回
func Redistribute(w WeightSet, name string, newValue float64) WeightSet {
	out := w.Clone()
	oldValue, ok := w[name]
	if !ok || math.IsNaN(newValue) {
		return out
	}
	newValue = math.Max(0, math.Min(100, newValue))
	delta := newValue - oldValue
	out[name] = newValue

	others := make([]string, 0, len(w)-1)
	othersTotal := 0.0
	for _, k := range w.Keys() {
		if k == name {
			continue
		}
		others = append(others, k)
		othersTotal += w[k]
	}

	if othersTotal > epsilon {
		for _, k := range others {
			out[k] = math.Max(0, w[k]-delta*(w[k]/othersTotal))
		}
	} else if len(others) > 0 {
		share := -delta / float64(len(others))
		for _, k := range others {
			out[k] = math.Max(0, w[k]+share)
		}
	}

	return normalize(out)
}

// normalize 缩放到合计 100；合计为 0 时退回平均分配
func normalize(w WeightSet) WeightSet {
	total := w.Sum()
	if total <= 0 {
		return EqualSplit(w.Keys())
	}
	for k, v := range w {
		w[k] = v / total * 100
	}
	return w
}

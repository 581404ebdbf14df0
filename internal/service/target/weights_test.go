package target

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-6

func TestEqualSplit(t *testing.T) {
	t.Parallel()

	w := EqualSplit([]string{"a", "b", "c"})
	require.Len(t, w, 3)
	assert.InDelta(t, 100.0/3, w["a"], tolerance)
	assert.InDelta(t, 100.0, w.Sum(), tolerance)
	assert.Empty(t, EqualSplit(nil))
}

func TestReconcile(t *testing.T) {
	t.Parallel()

	stored := WeightSet{"a": 70, "b": 30}
	assert.Equal(t, stored, Reconcile(stored, []string{"b", "a"}))

	// 实体集合变化时重新平均分配
	got := Reconcile(stored, []string{"a", "c"})
	assert.Equal(t, WeightSet{"a": 50, "c": 50}, got)

	got = Reconcile(stored, []string{"a", "b", "c"})
	assert.InDelta(t, 100.0/3, got["c"], tolerance)

	assert.Equal(t, WeightSet{"x": 100}, Reconcile(nil, []string{"x"}))
}

func TestRedistribute_Proportional(t *testing.T) {
	t.Parallel()

	w := WeightSet{"a": 50, "b": 30, "c": 20}
	got := Redistribute(w, "a", 60)

	assert.InDelta(t, 60.0, got["a"], tolerance)
	// b、c 按 30:20 吸收 -10
	assert.InDelta(t, 24.0, got["b"], tolerance)
	assert.InDelta(t, 16.0, got["c"], tolerance)
	assert.InDelta(t, 100.0, got.Sum(), tolerance)

	// 入参不变
	assert.Equal(t, 50.0, w["a"])
}

func TestRedistribute_OthersAtZero(t *testing.T) {
	t.Parallel()

	w := WeightSet{"a": 100, "b": 0, "c": 0}
	got := Redistribute(w, "a", 40)
	assert.InDelta(t, 40.0, got["a"], tolerance)
	assert.InDelta(t, 30.0, got["b"], tolerance)
	assert.InDelta(t, 30.0, got["c"], tolerance)
}

func TestRedistribute_EdgeCases(t *testing.T) {
	t.Parallel()

	w := WeightSet{"a": 60, "b": 40}
	assert.Equal(t, w, Redistribute(w, "missing", 10))
	assert.Equal(t, w, Redistribute(w, "a", math.NaN()))

	got := Redistribute(w, "a", 150)
	assert.InDelta(t, 100.0, got["a"], tolerance)
	assert.InDelta(t, 0.0, got["b"], tolerance)

	single := Redistribute(WeightSet{"only": 100}, "only", 0)
	assert.InDelta(t, 100.0, single["only"], tolerance)

	single = Redistribute(WeightSet{"only": 100}, "only", 25)
	assert.InDelta(t, 100.0, single["only"], tolerance)
}

func TestRedistribute_SumInvariant(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	for size := 1; size <= 8; size++ {
		names := make([]string, size)
		for i := range names {
			names[i] = string(rune('a' + i))
		}
		w := EqualSplit(names)
		for step := 0; step < 200; step++ {
			name := names[rng.Intn(size)]
			value := rng.Float64()*120 - 10
			if step%17 == 0 {
				value = 0
			}
			w = Redistribute(w, name, value)
			if math.Abs(w.Sum()-100) > tolerance {
				t.Fatalf("size=%d step=%d sum=%v", size, step, w.Sum())
			}
			for k, v := range w {
				if v < 0 {
					t.Fatalf("negative weight %s=%v", k, v)
				}
			}
		}
	}
}

func TestRedistribute_MonotonicOnIncrease(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		w := WeightSet{"a": 0, "b": 0, "c": 0, "d": 0}
		for _, k := range w.Keys() {
			w[k] = rng.Float64()*10 + 0.5
		}
		w = normalize(w)

		before := w.Clone()
		target := before["a"] + rng.Float64()*(100-before["a"])
		after := Redistribute(w, "a", target)
		for _, k := range []string{"b", "c", "d"} {
			if after[k] > before[k]+tolerance {
				t.Fatalf("weight %s grew from %v to %v", k, before[k], after[k])
			}
		}
	}
}

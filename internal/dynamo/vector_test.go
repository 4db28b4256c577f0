package dynamo

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"
)

func TestVector_Arithmetic(t *testing.T) {
	a := New([3]float64{1, 2, 3})
	b := New([3]float64{4, 5, 6})

	if got := a.Add(b); got != New([3]float64{5, 7, 9}) {
		t.Errorf("Add failed: got %v", got)
	}
	if got := b.Sub(a); got != New([3]float64{3, 3, 3}) {
		t.Errorf("Sub failed: got %v", got)
	}
	if got := a.Scale(2); got != New([3]float64{2, 4, 6}) {
		t.Errorf("Scale failed: got %v", got)
	}
	if got := a.Neg(); got != New([3]float64{-1, -2, -3}) {
		t.Errorf("Neg failed: got %v", got)
	}

	if a != New([3]float64{1, 2, 3}) {
		t.Errorf("pure operations mutated their operand: %v", a)
	}
}

func TestVector_InPlace(t *testing.T) {
	v := New([2]float64{1, 1})
	v.AddAssign(New([2]float64{1, 2}))
	if v != New([2]float64{2, 3}) {
		t.Errorf("AddAssign: got %v", v)
	}
	v.SubAssign(New([2]float64{2, 2}))
	if v != New([2]float64{0, 1}) {
		t.Errorf("SubAssign: got %v", v)
	}
	v.ScaleAssign(-3)
	if v != New([2]float64{0, -3}) {
		t.Errorf("ScaleAssign: got %v", v)
	}
	v.AddScaled(New([2]float64{1, 1}), 0.5)
	if v != New([2]float64{0.5, -2.5}) {
		t.Errorf("AddScaled: got %v", v)
	}
}

func TestVector_Dist(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vec2
		expected float64
	}{
		{"identical", New([2]float64{1, 1}), New([2]float64{1, 1}), 0},
		{"axis", New([2]float64{0, -1}), New([2]float64{0, 1}), 2},
		{"pythagorean", New([2]float64{0, 0}), New([2]float64{3, 4}), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Dist(tt.b); math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("Dist(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
			if got := tt.b.Dist(tt.a); math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("Dist is not symmetric: %v", got)
			}
		})
	}
}

func TestVector_Norm(t *testing.T) {
	tests := []struct {
		v        Vec4
		expected float64
	}{
		{New([4]float64{1, 1, 1, 1}), 2},
		{New([4]float64{0, 0, 0, 0}), 0},
		{New([4]float64{0, 3, 0, 4}), 5},
	}

	for _, tt := range tests {
		if got := tt.v.Norm(); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Norm(%v) = %v, want %v", tt.v, got, tt.expected)
		}
	}
}

func TestVector_Normalize(t *testing.T) {
	v := New([2]float64{0, 2})
	if err := v.Normalize(); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if v != New([2]float64{0, 1}) {
		t.Errorf("expected (0, 1), got %v", v)
	}

	u, err := New([3]float64{3, 0, 4}).Normalized()
	if err != nil {
		t.Fatalf("Normalized failed: %v", err)
	}
	if math.Abs(u.Norm()-1) > 1e-12 {
		t.Errorf("expected unit length, got %v", u.Norm())
	}
}

func TestVector_NormalizeDegenerate(t *testing.T) {
	tests := []struct {
		name string
		v    Vec2
	}{
		{"zero", Zero[[2]float64]()},
		{"infinite", New([2]float64{math.Inf(1), 0})},
		{"nan", New([2]float64{math.NaN(), 1})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.v
			err := v.Normalize()
			if !errors.Is(err, ErrDegenerateVector) {
				t.Fatalf("expected ErrDegenerateVector, got %v", err)
			}
			if tt.name == "zero" && v != tt.v {
				t.Errorf("degenerate normalize modified receiver: %v", v)
			}
		})
	}
}

func TestFromSlice(t *testing.T) {
	v, err := FromSlice[[3]float64]([]float64{1, 2, 3})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	if v.Dim() != 3 || v.At(2) != 3 {
		t.Errorf("unexpected vector %v", v)
	}

	if _, err := FromSlice[[3]float64]([]float64{1, 2}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestVector_SliceIsCopy(t *testing.T) {
	v := New([2]float64{1, 2})
	s := v.Slice()
	s[0] = 99
	if v.At(0) != 1 {
		t.Error("Slice shares storage with the vector")
	}
}

func TestVector_IsFinite(t *testing.T) {
	if !New([2]float64{1, -1}).IsFinite() {
		t.Error("expected finite vector")
	}
	if New([2]float64{1, math.Inf(-1)}).IsFinite() {
		t.Error("expected non-finite vector")
	}
}

func TestVector_String(t *testing.T) {
	if got := New([2]float64{0, -1.5}).String(); got != "[0, -1.5]" {
		t.Errorf("String() = %q", got)
	}
}

func TestParallelFor(t *testing.T) {
	var sum atomic.Int64
	err := ParallelFor(100, 4, func(_, start, end int) error {
		for i := start; i < end; i++ {
			sum.Add(int64(i))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ParallelFor failed: %v", err)
	}
	if sum.Load() != 4950 {
		t.Errorf("expected 4950, got %d", sum.Load())
	}

	boom := errors.New("boom")
	err = ParallelFor(10, 3, func(w, _, _ int) error {
		if w == 1 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected chunk error, got %v", err)
	}
}

func TestWorkers(t *testing.T) {
	tests := []struct {
		requested, n, expected int
	}{
		{1, 10, 1},
		{4, 10, 4},
		{8, 3, 3},
		{4, 0, 1},
	}
	for _, tt := range tests {
		if got := Workers(tt.requested, tt.n); got != tt.expected {
			t.Errorf("Workers(%d, %d) = %d, want %d", tt.requested, tt.n, got, tt.expected)
		}
	}
	if got := Workers(0, 1000); got < 1 {
		t.Errorf("Workers(0, n) = %d", got)
	}
}

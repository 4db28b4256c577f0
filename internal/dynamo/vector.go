package dynamo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Array is the set of fixed-length component arrays a Vector can hold.
// The length of the array is the dimension of the vector.
type Array interface {
	~[1]float64 | ~[2]float64 | ~[3]float64 | ~[4]float64
}

// MaxDim is the largest dimension covered by Array.
const MaxDim = 4

// Vector is a fixed-dimension real vector. The dimension is carried by the
// type parameter, so vectors of different dimensions cannot be mixed.
// The zero value is the zero vector.
type Vector[A Array] struct {
	c A
}

type (
	Vec1 = Vector[[1]float64]
	Vec2 = Vector[[2]float64]
	Vec3 = Vector[[3]float64]
	Vec4 = Vector[[4]float64]
)

// New builds a vector from its components.
func New[A Array](c A) Vector[A] {
	return Vector[A]{c: c}
}

func Zero[A Array]() Vector[A] {
	return Vector[A]{}
}

// FromSlice copies s into a vector. It fails with ErrDimensionMismatch when
// len(s) differs from the dimension of A.
func FromSlice[A Array](s []float64) (Vector[A], error) {
	var v Vector[A]
	if len(s) != len(v.c) {
		return v, fmt.Errorf("%w: want %d components, got %d", ErrDimensionMismatch, len(v.c), len(s))
	}
	for i := range len(v.c) {
		v.c[i] = s[i]
	}
	return v, nil
}

func (v Vector[A]) Dim() int { return len(v.c) }

func (v Vector[A]) At(i int) float64 { return v.c[i] }

func (v Vector[A]) Components() A { return v.c }

// Slice returns a freshly allocated copy of the components.
func (v Vector[A]) Slice() []float64 {
	s := make([]float64, len(v.c))
	for i := range s {
		s[i] = v.c[i]
	}
	return s
}

func (v Vector[A]) Add(o Vector[A]) Vector[A] {
	v.AddAssign(o)
	return v
}

func (v Vector[A]) Sub(o Vector[A]) Vector[A] {
	v.SubAssign(o)
	return v
}

func (v Vector[A]) Scale(k float64) Vector[A] {
	v.ScaleAssign(k)
	return v
}

func (v Vector[A]) Neg() Vector[A] {
	return v.Scale(-1)
}

func (v *Vector[A]) AddAssign(o Vector[A]) {
	for i := range len(v.c) {
		v.c[i] += o.c[i]
	}
}

func (v *Vector[A]) SubAssign(o Vector[A]) {
	for i := range len(v.c) {
		v.c[i] -= o.c[i]
	}
}

func (v *Vector[A]) ScaleAssign(k float64) {
	for i := range len(v.c) {
		v.c[i] *= k
	}
}

// AddScaled adds o*k to v in place.
func (v *Vector[A]) AddScaled(o Vector[A], k float64) {
	for i := range len(v.c) {
		v.c[i] += o.c[i] * k
	}
}

func (v Vector[A]) Dot(o Vector[A]) float64 {
	sum := 0.0
	for i := range len(v.c) {
		sum += v.c[i] * o.c[i]
	}
	return sum
}

// Norm returns the Euclidean magnitude of v.
func (v Vector[A]) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Dist returns the Euclidean distance between v and o.
func (v Vector[A]) Dist(o Vector[A]) float64 {
	sum := 0.0
	for i := range len(v.c) {
		d := v.c[i] - o.c[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Normalize scales v to unit length in place. A vector with zero or
// non-finite magnitude has no direction: Normalize then returns
// ErrDegenerateVector and leaves v untouched.
func (v *Vector[A]) Normalize() error {
	n := v.Norm()
	if n == 0 || math.IsInf(n, 0) || math.IsNaN(n) {
		return ErrDegenerateVector
	}
	v.ScaleAssign(1.0 / n)
	return nil
}

func (v Vector[A]) Normalized() (Vector[A], error) {
	err := v.Normalize()
	return v, err
}

func (v Vector[A]) IsFinite() bool {
	for i := range len(v.c) {
		if math.IsNaN(v.c[i]) || math.IsInf(v.c[i], 0) {
			return false
		}
	}
	return true
}

func (v Vector[A]) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i := range len(v.c) {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatFloat(v.c[i], 'g', -1, 64))
	}
	b.WriteByte(']')
	return b.String()
}

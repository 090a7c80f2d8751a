package geometry

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Identity returns a fresh n x n identity matrix.
func Identity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// NewMatrix builds a rows x cols matrix from nested slices.
// Returns an error if the shape does not match exactly.
func NewMatrix(data [][]float64, rows, cols int) (*mat.Dense, error) {
	if len(data) != rows {
		return nil, fmt.Errorf("matrix must have %d rows, got %d", rows, len(data))
	}
	m := mat.NewDense(rows, cols, nil)
	for i, row := range data {
		if len(row) != cols {
			return nil, fmt.Errorf("matrix row %d must have %d columns, got %d", i, cols, len(row))
		}
		m.SetRow(i, row)
	}
	return m, nil
}

// HasShape reports whether m is exactly rows x cols.
func HasShape(m mat.Matrix, rows, cols int) bool {
	r, c := m.Dims()
	return r == rows && c == cols
}

// Compose returns the product a*b of homogeneous transforms.
// Applying the result to a point applies b first, then a.
func Compose(a, b mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.Mul(a, b)
	return &out
}

// TranslationFromMatrix extracts the translation column of a 4x4 transform.
func TranslationFromMatrix(m mat.Matrix) r3.Vector {
	return r3.Vector{X: m.At(0, 3), Y: m.At(1, 3), Z: m.At(2, 3)}
}

// RotateVector applies the upper-left 3x3 block of m to v.
func RotateVector(m mat.Matrix, v r3.Vector) r3.Vector {
	return r3.Vector{
		X: m.At(0, 0)*v.X + m.At(0, 1)*v.Y + m.At(0, 2)*v.Z,
		Y: m.At(1, 0)*v.X + m.At(1, 1)*v.Y + m.At(1, 2)*v.Z,
		Z: m.At(2, 0)*v.X + m.At(2, 1)*v.Y + m.At(2, 2)*v.Z,
	}
}

// InverseRotateVector applies the transpose of the 3x3 block of m to v,
// which is the inverse rotation when the block is orthonormal.
func InverseRotateVector(m mat.Matrix, v r3.Vector) r3.Vector {
	return r3.Vector{
		X: m.At(0, 0)*v.X + m.At(1, 0)*v.Y + m.At(2, 0)*v.Z,
		Y: m.At(0, 1)*v.X + m.At(1, 1)*v.Y + m.At(2, 1)*v.Z,
		Z: m.At(0, 2)*v.X + m.At(1, 2)*v.Y + m.At(2, 2)*v.Z,
	}
}

// TransformPoints applies a 4x4 homogeneous transform to points.
// With translate=false only the rotation block is applied (direction vectors).
// The input slice is left untouched.
func TransformPoints(points []r3.Vector, m mat.Matrix, translate bool) []r3.Vector {
	var t r3.Vector
	if translate {
		t = TranslationFromMatrix(m)
	}
	out := make([]r3.Vector, len(points))
	for i, p := range points {
		out[i] = RotateVector(m, p).Add(t)
	}
	return out
}

// Unitize returns the vectors scaled to unit length.
// Zero vectors stay zero.
func Unitize(vectors []r3.Vector) []r3.Vector {
	out := make([]r3.Vector, len(vectors))
	for i, v := range vectors {
		out[i] = v.Normalize()
	}
	return out
}

// AlignVectors returns the 4x4 rotation taking direction a onto direction b.
// Antiparallel inputs rotate by pi around an axis perpendicular to a, chosen
// from the basis vector a is least aligned with (ties prefer Z, then Y).
func AlignVectors(a, b r3.Vector) *mat.Dense {
	a = a.Normalize()
	b = b.Normalize()

	axis := a.Cross(b)
	sin := axis.Norm()
	cos := a.Dot(b)

	if sin < 1e-12 {
		if cos > 0 {
			return Identity(4)
		}
		axis = a.Cross(leastAlignedAxis(a))
		sin = 0
		cos = -1
	}
	return axisAngle(axis.Normalize(), sin, cos)
}

// leastAlignedAxis picks the basis vector with the smallest |component| of v.
func leastAlignedAxis(v r3.Vector) r3.Vector {
	best := r3.Vector{Z: 1}
	smallest := math.Abs(v.Z)
	if math.Abs(v.Y) < smallest {
		best, smallest = r3.Vector{Y: 1}, math.Abs(v.Y)
	}
	if math.Abs(v.X) < smallest {
		best = r3.Vector{X: 1}
	}
	return best
}

// axisAngle builds the Rodrigues rotation R = I + sin*K + (1-cos)*K^2
// for unit axis k, as a 4x4 homogeneous matrix.
func axisAngle(k r3.Vector, sin, cos float64) *mat.Dense {
	skew := mat.NewDense(3, 3, []float64{
		0, -k.Z, k.Y,
		k.Z, 0, -k.X,
		-k.Y, k.X, 0,
	})
	var sq mat.Dense
	sq.Mul(skew, skew)

	out := Identity(4)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.Set(i, j, out.At(i, j)+sin*skew.At(i, j)+(1-cos)*sq.At(i, j))
		}
	}
	return out
}

// BoundsCenter returns the midpoint of the axis-aligned bounding box of points.
// Callers must pass at least one point.
func BoundsCenter(points []r3.Vector) r3.Vector {
	lo, hi := Bounds(points)
	return lo.Add(hi.Sub(lo).Mul(0.5))
}

// Bounds returns the component-wise minimum and maximum of points.
func Bounds(points []r3.Vector) (lo, hi r3.Vector) {
	inf := math.Inf(1)
	lo = r3.Vector{X: inf, Y: inf, Z: inf}
	hi = r3.Vector{X: -inf, Y: -inf, Z: -inf}
	for _, p := range points {
		lo = r3.Vector{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = r3.Vector{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	return lo, hi
}

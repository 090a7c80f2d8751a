package camera

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/cjeanneret/pinhole/internal/logic/geometry"
)

// Extrinsics holds the 4x4 homogeneous transform from the world frame to
// the camera. An unset transform reads as identity.
type Extrinsics struct {
	transform *mat.Dense
}

// Transform returns a copy of the transform, identity if never set.
func (e *Extrinsics) Transform() *mat.Dense {
	if e.transform == nil {
		return geometry.Identity(4)
	}
	return mat.DenseCopyOf(e.transform)
}

// SetTransform stores a copy of m. A nil matrix is ignored.
func (e *Extrinsics) SetTransform(m mat.Matrix) error {
	if isNilMatrix(m) {
		return nil
	}
	if err := validateTransform(m); err != nil {
		return err
	}
	e.transform = mat.DenseCopyOf(m)
	return nil
}

// IsSet reports whether a transform was ever stored.
func (e *Extrinsics) IsSet() bool {
	return e.transform != nil
}

// Copy returns an independent copy.
func (e *Extrinsics) Copy() *Extrinsics {
	if e.transform == nil {
		return &Extrinsics{}
	}
	return &Extrinsics{transform: mat.DenseCopyOf(e.transform)}
}

func validateTransform(m mat.Matrix) error {
	if !geometry.HasShape(m, 4, 4) {
		r, c := m.Dims()
		return fmt.Errorf("%w: transform must be 4x4, got %dx%d", ErrValidation, r, c)
	}
	return nil
}

func isNilMatrix(m mat.Matrix) bool {
	if m == nil {
		return true
	}
	d, ok := m.(*mat.Dense)
	return ok && d == nil
}

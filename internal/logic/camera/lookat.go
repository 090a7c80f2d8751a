package camera

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/cjeanneret/pinhole/internal/debug"
	"github.com/cjeanneret/pinhole/internal/logic/geometry"
)

// LookAtOptions refines LookAt. Zero values use the defaults.
type LookAtOptions struct {
	Rotation mat.Matrix // initial 4x4 rotation, identity when nil
	Distance *float64   // distance from the center along the pose Z axis
	Center   *r3.Vector // world-space center of view, AABB center of the points when nil
}

// LookAt returns a 4x4 world pose that keeps points inside a frustum with the
// given fov (degrees), viewing down the pose's -Z axis.
//
// The pose keeps the orientation of opts.Rotation. Its position is the view
// center moved back along the pose Z axis by the smallest distance at which
// every point fits on both axes, unless opts.Distance is given.
func LookAt(points []r3.Vector, fov [2]float64, opts LookAtOptions) (*mat.Dense, error) {
	rotation := geometry.Identity(4)
	if !isNilMatrix(opts.Rotation) {
		if !geometry.HasShape(opts.Rotation, 4, 4) {
			r, c := opts.Rotation.Dims()
			return nil, fmt.Errorf("%w: rotation must be 4x4, got %dx%d", ErrValidation, r, c)
		}
		rotation = mat.DenseCopyOf(opts.Rotation)
	}
	if len(points) == 0 && (opts.Center == nil || opts.Distance == nil) {
		return nil, fmt.Errorf("%w: look-at needs points unless center and distance are both given", ErrValidation)
	}

	// points in the rotated frame
	local := make([]r3.Vector, len(points))
	for i, p := range points {
		local[i] = geometry.InverseRotateVector(rotation, p)
	}

	var center r3.Vector
	if opts.Center == nil {
		center = geometry.BoundsCenter(local)
	} else {
		center = geometry.InverseRotateVector(rotation, *opts.Center)
	}

	var distance float64
	if opts.Distance != nil {
		distance = *opts.Distance
	} else {
		tanHalf := [2]float64{
			math.Tan(radians(fov[0]) / 2.0),
			math.Tan(radians(fov[1]) / 2.0),
		}
		distance = math.Inf(-1)
		for _, p := range local {
			p = p.Sub(center)
			distance = max(distance,
				math.Abs(p.X)/tanHalf[0]+p.Z,
				math.Abs(p.Y)/tanHalf[1]+p.Z)
		}
	}

	axis := r3.Vector{X: rotation.At(0, 2), Y: rotation.At(1, 2), Z: rotation.At(2, 2)}
	position := geometry.RotateVector(rotation, center).Add(axis.Mul(distance))

	pose := rotation
	pose.Set(0, 3, position.X)
	pose.Set(1, 3, position.Y)
	pose.Set(2, 3, position.Z)

	debug.Verbose("look-at: %d points, fov %v, distance %g", len(points), fov, distance)
	debug.Matrix("look-at pose", pose)
	return pose, nil
}

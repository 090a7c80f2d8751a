package camera

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/cjeanneret/pinhole/internal/debug"
	"github.com/cjeanneret/pinhole/internal/logic/geometry"
)

// opticalFlip turns +X onto -X: a half turn about Y, diag(-1, 1, -1).
// Rays are built around +Z and the flip points them down the camera's -Z axis.
var opticalFlip = geometry.AlignVectors(r3.Vector{X: 1}, r3.Vector{X: -1})

// Rays holds one ray per pixel, column by column (index = col*height + row).
type Rays struct {
	Origins    []r3.Vector  // world-space origin, the camera position
	Directions []r3.Vector  // world-space unit directions
	Angles     [][2]float64 // per-pixel (x, y) angles in radians
}

// Len returns the number of rays.
func (r *Rays) Len() int {
	return len(r.Directions)
}

// GenerateRays returns one ray per pixel of c.
//
// Angles are sampled evenly across the field of view, shrunk by a factor of
// (resolution-2)/resolution so the outermost rays stay inside the nominal
// edge. This factor is a numeric convention kept for compatibility, not a
// property of the pinhole model.
//
// Resolution and fov must be strictly positive.
func GenerateRays(c *Camera) *Rays {
	res := c.Resolution()
	fov := c.Fov()

	var lo, hi [2]float64
	for i := range res {
		half := radians(fov[i] / 2.0)
		half *= float64(res[i]-2) / float64(res[i])
		lo[i], hi[i] = -half, half
	}
	angles := geometry.GridLinspace(lo, hi, res)

	directions := make([]r3.Vector, len(angles))
	for i, a := range angles {
		directions[i] = r3.Vector{X: math.Sin(a[0]), Y: math.Sin(a[1]), Z: 1}
	}
	directions = geometry.Unitize(directions)

	transform := geometry.Compose(c.Transform(), opticalFlip)
	directions = geometry.TransformPoints(directions, transform, false)

	origin := geometry.TranslationFromMatrix(transform)
	origins := make([]r3.Vector, len(directions))
	for i := range origins {
		origins[i] = origin
	}

	if debug.IsEnabled(debug.LevelTrace) && len(directions) > 0 {
		debug.Trace("rays: first %v last %v", directions[0], directions[len(directions)-1])
	}
	debug.Verbose("rays: %d for camera %q (%dx%d, fov %v)", len(directions), c.Name(), res[0], res[1], fov)
	return &Rays{
		Origins:    origins,
		Directions: directions,
		Angles:     angles,
	}
}

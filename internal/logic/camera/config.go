package camera

import (
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/cjeanneret/pinhole/internal/config"
	"github.com/cjeanneret/pinhole/internal/logic/geometry"
)

// NewFromConfig builds a camera from its YAML description and binds it to
// scene, which may be nil.
func NewFromConfig(cc config.CameraConfig, scene SceneGraph) (*Camera, error) {
	for _, f := range []struct {
		name string
		n    int
	}{
		{"resolution", len(cc.Resolution)},
		{"focal", len(cc.Focal)},
		{"fov", len(cc.Fov)},
	} {
		if f.n != 0 && f.n != 2 {
			return nil, fmt.Errorf("%w: %s must have 2 values, got %d", ErrValidation, f.name, f.n)
		}
	}

	var transform mat.Matrix
	if len(cc.Transform) > 0 {
		m, err := geometry.NewMatrix(cc.Transform, 4, 4)
		if err != nil {
			return nil, fmt.Errorf("%w: transform: %v", ErrValidation, err)
		}
		transform = m
	}

	return New(Config{
		Name:       cc.Name,
		Resolution: cc.ResolutionOrZero(),
		Focal:      cc.FocalOrZero(),
		Fov:        cc.FovOrZero(),
		Transform:  transform,
		Scene:      scene,
	})
}

// LookAtFromConfig solves the look-at block of a description. fallbackFov
// is used when the block has no fov of its own.
func LookAtFromConfig(lc config.LookAtConfig, fallbackFov [2]float64) (*mat.Dense, error) {
	points := make([]r3.Vector, len(lc.Points))
	for i, p := range lc.Points {
		v, err := vector3(p)
		if err != nil {
			return nil, fmt.Errorf("%w: look_at point %d: %v", ErrValidation, i, err)
		}
		points[i] = v
	}

	fov := fallbackFov
	switch len(lc.Fov) {
	case 0:
	case 2:
		fov = [2]float64{lc.Fov[0], lc.Fov[1]}
	default:
		return nil, fmt.Errorf("%w: look_at fov must have 2 values, got %d", ErrValidation, len(lc.Fov))
	}

	opts := LookAtOptions{Distance: lc.Distance}
	if len(lc.Rotation) > 0 {
		m, err := geometry.NewMatrix(lc.Rotation, 4, 4)
		if err != nil {
			return nil, fmt.Errorf("%w: look_at rotation: %v", ErrValidation, err)
		}
		opts.Rotation = m
	}
	if len(lc.Center) > 0 {
		c, err := vector3(lc.Center)
		if err != nil {
			return nil, fmt.Errorf("%w: look_at center: %v", ErrValidation, err)
		}
		opts.Center = &c
	}
	return LookAt(points, fov, opts)
}

func vector3(v []float64) (r3.Vector, error) {
	if len(v) != 3 {
		return r3.Vector{}, fmt.Errorf("want 3 coordinates, got %d", len(v))
	}
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}, nil
}

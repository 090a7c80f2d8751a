package camera

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cjeanneret/pinhole/internal/debug"
	"github.com/cjeanneret/pinhole/internal/logic/geometry"
)

// PixelsPerDegree is the resolution density used when only a field of view
// is known.
const PixelsPerDegree = 15.0

// KTolerance is the absolute tolerance on the fixed entries of K.
const KTolerance = 1e-8

// Authority names the quantity that was set explicitly.
// The other one is derived from it and the resolution.
type Authority int

const (
	FocalAuthority Authority = iota + 1
	FovAuthority
)

func (a Authority) String() string {
	switch a {
	case FocalAuthority:
		return "focal"
	case FovAuthority:
		return "fov"
	default:
		return fmt.Sprintf("Authority(%d)", int(a))
	}
}

// Intrinsics holds resolution, focal length and field of view of a pinhole
// camera. Focal length and field of view are mutually derivable: whichever
// was set last is authoritative and the other is computed on first read,
// then cached until the resolution or the authoritative value changes.
//
// Skew and off-center principal points are not modelled.
//
// Use NewIntrinsics; Focal, Fov and K panic on a zero Intrinsics.
type Intrinsics struct {
	resolution [2]int

	authority Authority
	value     [2]float64 // the authoritative quantity

	derived [2]float64
	cached  bool
}

// NewIntrinsics builds intrinsics from optional parameters; zero arrays mean
// "not given". At least one of focal and fov is required. When both are
// given fov wins. A missing resolution is derived from fov at
// PixelsPerDegree.
func NewIntrinsics(resolution [2]int, focal, fov [2]float64) (*Intrinsics, error) {
	hasFocal := focal != [2]float64{}
	hasFov := fov != [2]float64{}
	if !hasFocal && !hasFov {
		return nil, fmt.Errorf("%w: either focal length or fov required", ErrConstruction)
	}

	in := &Intrinsics{}
	if hasFocal {
		if err := in.SetFocal(focal[0], focal[1]); err != nil {
			return nil, err
		}
	}
	if hasFov {
		if err := in.SetFov(fov[0], fov[1]); err != nil {
			return nil, err
		}
	}

	if resolution == [2]int{} {
		if !hasFov {
			return nil, fmt.Errorf("%w: resolution required when only focal length is given", ErrConstruction)
		}
		resolution = [2]int{
			int(math.Round(fov[0] * PixelsPerDegree)),
			int(math.Round(fov[1] * PixelsPerDegree)),
		}
	}
	if err := in.SetResolution(resolution[0], resolution[1]); err != nil {
		return nil, err
	}
	return in, nil
}

// Resolution returns (width, height) in pixels.
func (in *Intrinsics) Resolution() [2]int {
	return in.resolution
}

// SetResolution sets the image size. The derived quantity is recomputed
// on its next read; the authoritative one is kept.
func (in *Intrinsics) SetResolution(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: resolution must be positive, got (%d, %d)", ErrValidation, width, height)
	}
	in.resolution = [2]int{width, height}
	in.cached = false
	debug.Live("intrinsics: resolution %v", in.resolution)
	return nil
}

// Authority reports which of focal and fov was set explicitly.
func (in *Intrinsics) Authority() Authority {
	return in.authority
}

// Focal returns the focal length in pixels along x and y.
func (in *Intrinsics) Focal() [2]float64 {
	switch in.authority {
	case FocalAuthority:
		return in.value
	case FovAuthority:
		return in.derive()
	default:
		panic(fmt.Sprintf("camera: intrinsics without authority %v", in.authority))
	}
}

// SetFocal makes the focal length (pixels) authoritative.
func (in *Intrinsics) SetFocal(fx, fy float64) error {
	if err := checkPositive("focal length", fx, fy); err != nil {
		return err
	}
	in.authority = FocalAuthority
	in.value = [2]float64{fx, fy}
	in.cached = false
	debug.Live("intrinsics: focal %v", in.value)
	return nil
}

// Fov returns the field of view in degrees along x and y.
func (in *Intrinsics) Fov() [2]float64 {
	switch in.authority {
	case FovAuthority:
		return in.value
	case FocalAuthority:
		return in.derive()
	default:
		panic(fmt.Sprintf("camera: intrinsics without authority %v", in.authority))
	}
}

// SetFov makes the field of view (degrees, in (0, 180)) authoritative.
func (in *Intrinsics) SetFov(x, y float64) error {
	if err := checkPositive("fov", x, y); err != nil {
		return err
	}
	if x >= 180 || y >= 180 {
		return fmt.Errorf("%w: fov must be below 180 degrees, got (%g, %g)", ErrValidation, x, y)
	}
	in.authority = FovAuthority
	in.value = [2]float64{x, y}
	in.cached = false
	debug.Live("intrinsics: fov %v", in.value)
	return nil
}

// derive returns the non-authoritative quantity, computing it once per
// invalidation so repeated reads are bit-identical.
func (in *Intrinsics) derive() [2]float64 {
	if in.cached {
		return in.derived
	}
	switch in.authority {
	case FocalAuthority:
		in.derived = FovFromFocal(in.resolution, in.value)
		debug.Trace("intrinsics: derived fov %v from focal %v at %v", in.derived, in.value, in.resolution)
	case FovAuthority:
		in.derived = FocalFromFov(in.resolution, in.value)
		debug.Trace("intrinsics: derived focal %v from fov %v at %v", in.derived, in.value, in.resolution)
	}
	in.cached = true
	return in.derived
}

// K returns the 3x3 intrinsic matrix
//
//	[fx  0 w/2]
//	[ 0 fy h/2]
//	[ 0  0   1]
func (in *Intrinsics) K() *mat.Dense {
	f := in.Focal()
	r := in.resolution
	return mat.NewDense(3, 3, []float64{
		f[0], 0, float64(r[0]) / 2,
		0, f[1], float64(r[1]) / 2,
		0, 0, 1,
	})
}

// SetK decomposes an intrinsic matrix into focal length and resolution.
// Skew and the bottom row must match their fixed values within KTolerance.
// The resolution is twice the principal point, truncated to integers.
func (in *Intrinsics) SetK(k mat.Matrix) error {
	if k == nil || !geometry.HasShape(k, 3, 3) {
		return fmt.Errorf("%w: K must be 3x3", ErrValidation)
	}
	fixed := []struct {
		i, j int
		want float64
	}{
		{0, 1, 0}, {1, 0, 0}, {2, 0, 0}, {2, 1, 0}, {2, 2, 1},
	}
	for _, e := range fixed {
		// NaN fails the comparison
		if !(math.Abs(k.At(e.i, e.j)-e.want) <= KTolerance) {
			return fmt.Errorf("%w: K[%d,%d] = %g, want %g (only focal length and principal point may be set)",
				ErrValidation, e.i, e.j, k.At(e.i, e.j), e.want)
		}
	}

	fx, fy := k.At(0, 0), k.At(1, 1)
	if err := checkPositive("focal length", fx, fy); err != nil {
		return err
	}
	if err := checkPositive("principal point", k.At(0, 2), k.At(1, 2)); err != nil {
		return err
	}
	width, height := int(k.At(0, 2)*2), int(k.At(1, 2)*2)
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: principal point must be positive, got (%g, %g)", ErrValidation, k.At(0, 2), k.At(1, 2))
	}

	if err := in.SetFocal(fx, fy); err != nil {
		return err
	}
	return in.SetResolution(width, height)
}

// Copy returns an independent copy.
func (in *Intrinsics) Copy() *Intrinsics {
	c := *in
	return &c
}

// FocalFromFov converts a field of view in degrees to a focal length in pixels:
// focal = resolution / (2 * tan(fov / 2)).
func FocalFromFov(resolution [2]int, fov [2]float64) [2]float64 {
	var focal [2]float64
	for i := range focal {
		focal[i] = float64(resolution[i]) / (2.0 * math.Tan(radians(fov[i])/2.0))
	}
	return focal
}

// FovFromFocal converts a focal length in pixels to a field of view in degrees:
// fov = 2 * atan((resolution / 2) / focal).
func FovFromFocal(resolution [2]int, focal [2]float64) [2]float64 {
	var fov [2]float64
	for i := range fov {
		fov[i] = 2.0 * degrees(math.Atan((float64(resolution[i])/2.0)/focal[i]))
	}
	return fov
}

func checkPositive(name string, x, y float64) error {
	for _, v := range [2]float64{x, y} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%w: %s must be finite and positive, got (%g, %g)", ErrValidation, name, x, y)
		}
	}
	return nil
}

func radians(deg float64) float64 { return deg * math.Pi / 180.0 }

func degrees(rad float64) float64 { return rad * 180.0 / math.Pi }

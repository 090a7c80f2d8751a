package camera

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/cjeanneret/pinhole/internal/debug"
)

// SceneGraph is the scene-graph collaborator a camera can be bound to.
// The camera records its transform under its name with Upsert;
// Lookup is for callers.
type SceneGraph interface {
	Upsert(name string, transform mat.Matrix) error
	Lookup(name string) (*mat.Dense, bool)
}

// Config holds the parameters for New. Zero values mean "not given".
type Config struct {
	Name       string     // generated when empty
	Resolution [2]int     // derived from Fov when zero
	Focal      [2]float64 // focal length in pixels
	Fov        [2]float64 // field of view in degrees; wins over Focal
	Transform  mat.Matrix // optional 4x4 world transform
	Scene      SceneGraph // optional
}

// Camera is a pinhole camera: intrinsics, a world pose and a name that
// identifies it in an optional scene graph.
//
// A Camera is not safe for concurrent use; callers must serialize access.
// Copies returned by Copy are independent.
type Camera struct {
	name       string
	intrinsics *Intrinsics
	extrinsics *Extrinsics
	scene      SceneGraph
}

// New builds a camera. It fails with ErrConstruction when neither focal
// length nor fov is given.
func New(cfg Config) (*Camera, error) {
	intrinsics, err := NewIntrinsics(cfg.Resolution, cfg.Focal, cfg.Fov)
	if err != nil {
		return nil, err
	}

	name := cfg.Name
	if name == "" {
		name = generateName()
	}

	c := &Camera{
		name:       name,
		intrinsics: intrinsics,
		extrinsics: &Extrinsics{},
		scene:      cfg.Scene,
	}
	if err := c.SetTransform(cfg.Transform); err != nil {
		return nil, err
	}
	return c, nil
}

// generateName returns "camera_" followed by six uppercase hex characters.
func generateName() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "camera_" + strings.ToUpper(id[:6])
}

// Name returns the node name of the camera.
func (c *Camera) Name() string { return c.name }

// Intrinsics returns the intrinsic parameters owned by the camera.
func (c *Camera) Intrinsics() *Intrinsics { return c.intrinsics }

func (c *Camera) Resolution() [2]int { return c.intrinsics.Resolution() }

func (c *Camera) SetResolution(width, height int) error {
	return c.intrinsics.SetResolution(width, height)
}

func (c *Camera) Focal() [2]float64 { return c.intrinsics.Focal() }

func (c *Camera) SetFocal(fx, fy float64) error { return c.intrinsics.SetFocal(fx, fy) }

func (c *Camera) Fov() [2]float64 { return c.intrinsics.Fov() }

func (c *Camera) SetFov(x, y float64) error { return c.intrinsics.SetFov(x, y) }

func (c *Camera) K() *mat.Dense { return c.intrinsics.K() }

func (c *Camera) SetK(k mat.Matrix) error { return c.intrinsics.SetK(k) }

// Transform returns the world transform, identity if never set.
func (c *Camera) Transform() *mat.Dense {
	return c.extrinsics.Transform()
}

// SetTransform stores the world transform and records it in the attached
// scene graph under the camera name. A nil matrix is ignored.
// If the scene graph rejects the update the camera is left unchanged.
func (c *Camera) SetTransform(m mat.Matrix) error {
	if isNilMatrix(m) {
		return nil
	}
	if err := validateTransform(m); err != nil {
		return err
	}
	if c.scene != nil {
		if err := c.scene.Upsert(c.name, m); err != nil {
			return fmt.Errorf("upsert scene node %q: %w", c.name, err)
		}
		debug.Upsert(c.name)
	}
	return c.extrinsics.SetTransform(m)
}

// Attach binds the camera to a scene graph. A transform that was already
// set is pushed to the graph immediately.
func (c *Camera) Attach(scene SceneGraph) error {
	if scene != nil && c.extrinsics.IsSet() {
		if err := scene.Upsert(c.name, c.extrinsics.Transform()); err != nil {
			return fmt.Errorf("attach camera %q: %w", c.name, err)
		}
		debug.Upsert(c.name)
	}
	c.scene = scene
	return nil
}

// Detach drops the scene graph association.
func (c *Camera) Detach() {
	c.scene = nil
}

// Scene returns the attached scene graph, or nil.
func (c *Camera) Scene() SceneGraph {
	return c.scene
}

// Copy returns a deep copy of the camera with the same name.
// The copy is not attached to any scene graph.
func (c *Camera) Copy() *Camera {
	return &Camera{
		name:       c.name,
		intrinsics: c.intrinsics.Copy(),
		extrinsics: c.extrinsics.Copy(),
	}
}

// ToRays returns one ray per pixel; see GenerateRays.
func (c *Camera) ToRays() *Rays {
	return GenerateRays(c)
}

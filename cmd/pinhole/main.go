package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"github.com/cjeanneret/pinhole/internal/config"
	"github.com/cjeanneret/pinhole/internal/debug"
	"github.com/cjeanneret/pinhole/internal/logic/camera"
	"github.com/cjeanneret/pinhole/internal/scene"
)

// maxResolution bounds the -width and -height overrides.
const maxResolution = 100000

// overrides holds CLI values that replace the camera description.
// Zero means "keep config".
type overrides struct {
	FovX, FovY    float64
	Width, Height int
}

// options is the parsed command line.
type options struct {
	ConfigPath string
	Overrides  overrides
	LookAt     bool
}

func main() {
	// CLI flags
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	fovX := flag.Float64("fov_x", 0, "override horizontal field of view in degrees (0-180, exclusive)")
	fovY := flag.Float64("fov_y", 0, "override vertical field of view in degrees (0-180, exclusive)")
	width := flag.Int("width", 0, "override image width in pixels")
	height := flag.Int("height", 0, "override image height in pixels")
	lookAt := flag.Bool("look_at", false, "frame the look_at points and use the result as camera transform")
	flag.Parse()

	opts := options{
		ConfigPath: *cfgPath,
		Overrides:  overrides{FovX: *fovX, FovY: *fovY, Width: *width, Height: *height},
		LookAt:     *lookAt,
	}
	if err := run(opts, os.Stdout); err != nil {
		debug.Error(err)
		log.Fatalf("pinhole: %v", err)
	}
}

// run loads the description, builds the camera and prints its report to w.
func run(opts options, w io.Writer) error {
	if err := config.ValidateConfigPath(opts.ConfigPath); err != nil {
		return fmt.Errorf("invalid config path: %w", err)
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config failed: %w", err)
	}

	// Validate CLI overrides (only non-zero values are applied)
	if err := validateCLIOverrides(opts.Overrides); err != nil {
		return fmt.Errorf("invalid CLI override: %w", err)
	}

	debug.Init(cfg.Defaults.DebugLevel)
	debug.Section("Initialization")
	debug.Value("Config path", opts.ConfigPath)
	debug.Value("Debug level", debug.Level())

	debug.Step(1, "Building camera")
	graph := scene.NewGraph()
	cam, err := camera.NewFromConfig(cfg.Camera, graph)
	if err != nil {
		return fmt.Errorf("init camera failed: %w", err)
	}
	debug.PrintStruct("Camera config", cfg.Camera)

	if err := applyOverrides(cam, opts.Overrides); err != nil {
		return fmt.Errorf("apply overrides: %w", err)
	}

	if opts.LookAt {
		debug.Step(2, "Solving look-at pose")
		if cfg.LookAt == nil {
			return errors.New("-look_at given but config has no look_at section")
		}
		pose, err := camera.LookAtFromConfig(*cfg.LookAt, cam.Fov())
		if err != nil {
			return fmt.Errorf("look at: %w", err)
		}
		if err := cam.SetTransform(pose); err != nil {
			return fmt.Errorf("set transform: %w", err)
		}
		debug.Matrix("Look-at pose", pose)
	}

	debug.Step(3, "Generating rays")
	debug.Summary("Camera " + cam.Name())
	debug.Info("resolution=%v fov=%v", cam.Resolution(), cam.Fov())
	report(w, cam, graph, cfg.Defaults.RayPreview)
	return nil
}

// validateCLIOverrides checks that non-zero CLI overrides are within valid ranges.
// Zero values are ignored (they mean "use config").
func validateCLIOverrides(o overrides) error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"fov_x", o.FovX}, {"fov_y", o.FovY}} {
		if f.v == 0 {
			continue
		}
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v <= 0 || f.v >= 180 {
			return fmt.Errorf("%s must be in (0, 180), got %g", f.name, f.v)
		}
	}
	for _, f := range []struct {
		name string
		v    int
	}{{"width", o.Width}, {"height", o.Height}} {
		if f.v == 0 {
			continue
		}
		if f.v < 1 || f.v > maxResolution {
			return fmt.Errorf("%s must be between 1 and %d, got %d", f.name, maxResolution, f.v)
		}
	}
	return nil
}

// applyOverrides sets the non-zero overrides on cam. A fov override makes
// fov authoritative, keeping the current value on the other axis.
func applyOverrides(cam *camera.Camera, o overrides) error {
	if o.Width > 0 || o.Height > 0 {
		res := cam.Resolution()
		if o.Width > 0 {
			res[0] = o.Width
		}
		if o.Height > 0 {
			res[1] = o.Height
		}
		if err := cam.SetResolution(res[0], res[1]); err != nil {
			return err
		}
		debug.Value("Resolution override", res)
	}
	if o.FovX > 0 || o.FovY > 0 {
		fov := cam.Fov()
		if o.FovX > 0 {
			fov[0] = o.FovX
		}
		if o.FovY > 0 {
			fov[1] = o.FovY
		}
		if err := cam.SetFov(fov[0], fov[1]); err != nil {
			return err
		}
		debug.Value("Fov override", fov)
	}
	return nil
}

// report prints the camera state and the first n rays.
func report(w io.Writer, cam *camera.Camera, graph *scene.Graph, n int) {
	res := cam.Resolution()
	focal := cam.Focal()
	fov := cam.Fov()

	fmt.Fprintf(w, "camera:     %s\n", cam.Name())
	fmt.Fprintf(w, "resolution: %d x %d\n", res[0], res[1])
	fmt.Fprintf(w, "focal:      %.4f, %.4f px\n", focal[0], focal[1])
	fmt.Fprintf(w, "fov:        %.4f, %.4f deg\n", fov[0], fov[1])
	fmt.Fprintf(w, "K:\n%v\n", mat.Formatted(cam.K(), mat.Prefix("  "), mat.Squeeze()))
	fmt.Fprintf(w, "transform:\n%v\n", mat.Formatted(cam.Transform(), mat.Prefix("  "), mat.Squeeze()))

	if _, ok := graph.Lookup(cam.Name()); ok {
		fmt.Fprintf(w, "scene:      %s registered (%d nodes)\n", cam.Name(), graph.Len())
	} else {
		fmt.Fprintf(w, "scene:      %s not registered\n", cam.Name())
	}

	rays := cam.ToRays()
	if n > rays.Len() {
		n = rays.Len()
	}
	fmt.Fprintf(w, "rays:       %d (showing %d)\n", rays.Len(), n)
	for i := 0; i < n; i++ {
		o, d := rays.Origins[i], rays.Directions[i]
		fmt.Fprintf(w, "  [%d] origin=(%.4f, %.4f, %.4f) dir=(%.4f, %.4f, %.4f)\n",
			i, o.X, o.Y, o.Z, d.X, d.Y, d.Z)
	}
}

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaxConfigFileBytes caps the size of a camera description file.
const MaxConfigFileBytes = 1 << 20

// DefaultRayPreview is the number of rays printed when unset.
const DefaultRayPreview = 4

// CameraConfig describes a pinhole camera.
// Either Focal or Fov must be set; when both are, Fov wins.
type CameraConfig struct {
	Name       string      `yaml:"name"`       // optional, generated when empty
	Resolution []int       `yaml:"resolution"` // (width, height) in pixels, optional
	Focal      []float64   `yaml:"focal"`      // focal length in pixels
	Fov        []float64   `yaml:"fov"`        // field of view in degrees
	Transform  [][]float64 `yaml:"transform"`  // optional 4x4 world transform, row-major
}

// LookAtConfig describes a point set to frame with a camera.
type LookAtConfig struct {
	Points   [][]float64 `yaml:"points"`
	Fov      []float64   `yaml:"fov"`      // optional, camera fov when empty
	Rotation [][]float64 `yaml:"rotation"` // optional 4x4 initial rotation
	Center   []float64   `yaml:"center"`   // optional
	Distance *float64    `yaml:"distance"` // optional
}

// DefaultsConfig contains generic parameters.
type DefaultsConfig struct {
	DebugLevel int `yaml:"debug_level"` // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
	RayPreview int `yaml:"ray_preview"` // number of rays printed by the CLI
}

// Config aggregates all application configuration.
type Config struct {
	Camera   CameraConfig   `yaml:"camera"`
	LookAt   *LookAtConfig  `yaml:"look_at,omitempty"` // optional
	Defaults DefaultsConfig `yaml:"defaults"`
}

// ValidateConfigPath checks that path names a .yaml file directly inside a
// "configs" directory and does not climb out of it with "..".
func ValidateConfigPath(path string) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return fmt.Errorf("config path %q must not contain '..'", path)
		}
	}
	clean := filepath.Clean(path)
	if filepath.Ext(clean) != ".yaml" {
		return fmt.Errorf("config path %q must have a .yaml extension", path)
	}
	abs, err := filepath.Abs(clean)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	if filepath.Base(filepath.Dir(abs)) != "configs" {
		return fmt.Errorf("config path %q must be inside a configs/ directory", path)
	}
	return nil
}

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxConfigFileBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if len(data) > MaxConfigFileBytes {
		return nil, fmt.Errorf("config file exceeds %d bytes", MaxConfigFileBytes)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Defaults.RayPreview <= 0 {
		cfg.Defaults.RayPreview = DefaultRayPreview
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	cam := c.Camera
	if len(cam.Focal) == 0 && len(cam.Fov) == 0 {
		return errors.New("camera.focal or camera.fov is required")
	}
	if n := len(cam.Resolution); n != 0 && n != 2 {
		return fmt.Errorf("camera.resolution must have 2 values, got %d", n)
	}
	if n := len(cam.Focal); n != 0 && n != 2 {
		return fmt.Errorf("camera.focal must have 2 values, got %d", n)
	}
	if n := len(cam.Fov); n != 0 && n != 2 {
		return fmt.Errorf("camera.fov must have 2 values, got %d", n)
	}
	if c.LookAt != nil {
		if len(c.LookAt.Points) == 0 {
			return errors.New("look_at.points must not be empty")
		}
		if n := len(c.LookAt.Fov); n != 0 && n != 2 {
			return fmt.Errorf("look_at.fov must have 2 values, got %d", n)
		}
	}
	if c.Defaults.DebugLevel < 0 || c.Defaults.DebugLevel > 4 {
		return fmt.Errorf("debug_level must be between 0 and 4, got %d", c.Defaults.DebugLevel)
	}
	return nil
}

// HasResolution reports whether the camera resolution was given.
func (c CameraConfig) HasResolution() bool {
	return len(c.Resolution) == 2
}

// FovOrZero returns the configured fov, or zeros when absent.
func (c CameraConfig) FovOrZero() [2]float64 {
	return pair(c.Fov)
}

// FocalOrZero returns the configured focal length, or zeros when absent.
func (c CameraConfig) FocalOrZero() [2]float64 {
	return pair(c.Focal)
}

// ResolutionOrZero returns the configured resolution, or zeros when absent.
func (c CameraConfig) ResolutionOrZero() [2]int {
	if len(c.Resolution) != 2 {
		return [2]int{}
	}
	return [2]int{c.Resolution[0], c.Resolution[1]}
}

func pair(v []float64) [2]float64 {
	if len(v) != 2 {
		return [2]float64{}
	}
	return [2]float64{v[0], v[1]}
}

package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cjeanneret/pinhole/internal/logic/camera"
	"github.com/cjeanneret/pinhole/internal/scene"
)

// ---------- validateCLIOverrides ----------

func TestValidateCLIOverrides_AllZero(t *testing.T) {
	if err := validateCLIOverrides(overrides{}); err != nil {
		t.Errorf("all zeros should be valid (use config), got: %v", err)
	}
}

func TestValidateCLIOverrides_Valid(t *testing.T) {
	cases := []struct {
		name string
		o    overrides
	}{
		{"small_fov", overrides{FovX: 0.001, FovY: 0.001}},
		{"large_fov", overrides{FovX: 179.9, FovY: 179.9}},
		{"min_resolution", overrides{Width: 1, Height: 1}},
		{"max_resolution", overrides{Width: maxResolution, Height: maxResolution}},
		{"mixed", overrides{FovX: 90, Height: 480}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := validateCLIOverrides(tc.o); err != nil {
				t.Errorf("expected valid, got: %v", err)
			}
		})
	}
}

func TestValidateCLIOverrides_OutOfRange(t *testing.T) {
	cases := []struct {
		name string
		o    overrides
	}{
		{"fov_x_180", overrides{FovX: 180}},
		{"fov_y_too_large", overrides{FovY: 200}},
		{"fov_x_negative", overrides{FovX: -1}},
		{"fov_x_NaN", overrides{FovX: math.NaN()}},
		{"fov_y_+Inf", overrides{FovY: math.Inf(1)}},
		{"fov_y_-Inf", overrides{FovY: math.Inf(-1)}},
		{"width_negative", overrides{Width: -1}},
		{"height_too_large", overrides{Height: maxResolution + 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := validateCLIOverrides(tc.o); err == nil {
				t.Error("expected error for out-of-range value, got nil")
			}
		})
	}
}

// ---------- applyOverrides ----------

func newTestCamera(t *testing.T) *camera.Camera {
	t.Helper()
	cam, err := camera.New(camera.Config{
		Name:       "test",
		Resolution: [2]int{320, 240},
		Focal:      [2]float64{200, 200},
	})
	if err != nil {
		t.Fatalf("camera.New: %v", err)
	}
	return cam
}

func TestApplyOverrides_ZeroLeavesUnchanged(t *testing.T) {
	cam := newTestCamera(t)
	if err := applyOverrides(cam, overrides{}); err != nil {
		t.Fatalf("applyOverrides: %v", err)
	}
	if cam.Resolution() != [2]int{320, 240} {
		t.Errorf("Resolution changed: %v", cam.Resolution())
	}
	if cam.Intrinsics().Authority() != camera.FocalAuthority {
		t.Errorf("authority changed to %v", cam.Intrinsics().Authority())
	}
}

func TestApplyOverrides_Partial(t *testing.T) {
	cam := newTestCamera(t)
	fovBefore := cam.Fov()

	if err := applyOverrides(cam, overrides{Width: 640, FovY: 30}); err != nil {
		t.Fatalf("applyOverrides: %v", err)
	}
	if got := cam.Resolution(); got != [2]int{640, 240} {
		t.Errorf("Resolution = %v, want [640 240]", got)
	}
	fov := cam.Fov()
	if fov[1] != 30 {
		t.Errorf("fov y = %v, want 30", fov[1])
	}
	// fov x is taken after the width change, so it is wider than before
	if fov[0] <= fovBefore[0] {
		t.Errorf("fov x = %v, want more than %v", fov[0], fovBefore[0])
	}
	if cam.Intrinsics().Authority() != camera.FovAuthority {
		t.Errorf("authority = %v, want fov", cam.Intrinsics().Authority())
	}
}

// ---------- run ----------

const testYAML = `
camera:
  name: front
  resolution: [30, 20]
  fov: [60, 40]
look_at:
  points:
    - [-1, -1, 0]
    - [1, -1, 0]
    - [1, 1, 0]
    - [-1, 1, 0]
defaults:
  ray_preview: 2
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "configs")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, "camera.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestRun_Report(t *testing.T) {
	path := writeTestConfig(t, testYAML)
	var buf bytes.Buffer
	if err := run(options{ConfigPath: path}, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"camera:     front",
		"resolution: 30 x 20",
		"fov:        60.0000, 40.0000 deg",
		"scene:      front not registered",
		"rays:       600 (showing 2)",
		"[1] origin=",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "[2] origin=") {
		t.Errorf("expected only 2 rays in preview:\n%s", out)
	}
}

func TestRun_OverridesAndLookAt(t *testing.T) {
	path := writeTestConfig(t, testYAML)
	var buf bytes.Buffer
	opts := options{
		ConfigPath: path,
		Overrides:  overrides{Width: 10, Height: 10},
		LookAt:     true,
	}
	if err := run(opts, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "resolution: 10 x 10") {
		t.Errorf("resolution override not applied:\n%s", out)
	}
	if !strings.Contains(out, "scene:      front registered (1 nodes)") {
		t.Errorf("look-at pose not pushed to scene:\n%s", out)
	}
}

func TestRun_Errors(t *testing.T) {
	noLookAt := writeTestConfig(t, "camera:\n  fov: [60, 40]\n")
	cases := []struct {
		name string
		opts options
	}{
		{"bad_path", options{ConfigPath: "../etc/camera.yaml"}},
		{"missing_file", options{ConfigPath: filepath.Join(t.TempDir(), "configs", "none.yaml")}},
		{"bad_override", options{ConfigPath: noLookAt, Overrides: overrides{FovX: 180}}},
		{"look_at_without_section", options{ConfigPath: noLookAt, LookAt: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := run(tc.opts, &bytes.Buffer{}); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

// ---------- report ----------

func TestReport_PreviewClamped(t *testing.T) {
	cam, err := camera.New(camera.Config{Name: "tiny", Resolution: [2]int{2, 1}, Fov: [2]float64{10, 10}})
	if err != nil {
		t.Fatalf("camera.New: %v", err)
	}
	var buf bytes.Buffer
	report(&buf, cam, scene.NewGraph(), 50)
	if !strings.Contains(buf.String(), "rays:       2 (showing 2)") {
		t.Errorf("preview not clamped:\n%s", buf.String())
	}
}

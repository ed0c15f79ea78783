package sim

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/muurk/scancam/internal/camera"
)

func TestNewDefaultProfile(t *testing.T) {
	dev, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil) error = %v", err)
	}

	if dev.Name() != "generic-rear" {
		t.Errorf("Name() = %q, want generic-rear", dev.Name())
	}

	p, err := dev.Parameters()
	if err != nil || p == nil {
		t.Fatalf("Parameters() = %v, %v", p, err)
	}
	if p.PreviewSize != (camera.Size{Width: 640, Height: 480}) {
		t.Errorf("PreviewSize = %v, want 640x480", p.PreviewSize)
	}
	if p.FlashMode != camera.FlashModeOff {
		t.Errorf("FlashMode = %q, want off", p.FlashMode)
	}
	if p.FocusMode != camera.FocusModeAuto {
		t.Errorf("FocusMode = %q, want auto", p.FocusMode)
	}

	sizes, err := dev.SupportedPreviewSizes()
	if err != nil {
		t.Fatalf("SupportedPreviewSizes() error = %v", err)
	}
	if len(sizes) != 12 {
		t.Errorf("SupportedPreviewSizes() returned %d sizes, want 12", len(sizes))
	}
}

func TestParametersReturnsCopy(t *testing.T) {
	dev, _ := New(nil)

	p, _ := dev.Parameters()
	p.FlashMode = camera.FlashModeTorch
	p.SupportedFlashModes[0] = "changed"

	again, _ := dev.Parameters()
	if again.FlashMode != camera.FlashModeOff || again.SupportedFlashModes[0] != camera.FlashModeOff {
		t.Error("mutating a snapshot should not change the device")
	}
}

func TestSetDisplayOrientation(t *testing.T) {
	dev, _ := New(nil)

	for _, deg := range []int{0, 90, 180, 270} {
		if err := dev.SetDisplayOrientation(deg); err != nil {
			t.Errorf("SetDisplayOrientation(%d) error = %v", deg, err)
		}
		if dev.Orientation() != deg {
			t.Errorf("Orientation() = %d, want %d", dev.Orientation(), deg)
		}
	}

	if err := dev.SetDisplayOrientation(45); err == nil {
		t.Error("SetDisplayOrientation(45) should fail")
	}
}

func TestSetParametersPreviewSize(t *testing.T) {
	profile := DefaultProfile()
	profile.Substitutions = map[string]string{"1280x720": "1280x960"}
	dev, err := New(profile)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		requested camera.Size
		want      camera.Size
	}{
		{camera.Size{Width: 800, Height: 480}, camera.Size{Width: 800, Height: 480}},
		{camera.Size{Width: 1280, Height: 720}, camera.Size{Width: 1280, Height: 960}},
		{camera.Size{Width: 1000, Height: 1000}, camera.Size{Width: 640, Height: 480}},
	}

	for _, tt := range tests {
		t.Run(tt.requested.String(), func(t *testing.T) {
			p, _ := dev.Parameters()
			p.PreviewSize = tt.requested
			if err := dev.SetParameters(p); err != nil {
				t.Fatalf("SetParameters() error = %v", err)
			}

			after, _ := dev.Parameters()
			if after.PreviewSize != tt.want {
				t.Errorf("PreviewSize = %v, want %v", after.PreviewSize, tt.want)
			}
		})
	}
}

func TestSetParametersRejectsUnsupported(t *testing.T) {
	profile := DefaultProfile()
	profile.VideoStabilization = false
	dev, _ := New(profile)

	tests := []struct {
		name   string
		mutate func(*camera.Parameters)
	}{
		{"flash mode", func(p *camera.Parameters) { p.FlashMode = "red-eye" }},
		{"focus mode", func(p *camera.Parameters) { p.FocusMode = camera.FocusModeEDOF }},
		{"scene mode", func(p *camera.Parameters) { p.SceneMode = "night" }},
		{"color effect", func(p *camera.Parameters) { p.ColorEffect = "sepia" }},
		{"exposure above max", func(p *camera.Parameters) { p.ExposureCompensation = 13 }},
		{"exposure below min", func(p *camera.Parameters) { p.ExposureCompensation = -13 }},
		{"stabilization", func(p *camera.Parameters) { p.VideoStabilization = true }},
		{"focus areas", func(p *camera.Parameters) { p.FocusAreas = make([]camera.Area, 2) }},
		{"metering areas", func(p *camera.Parameters) { p.MeteringAreas = make([]camera.Area, 2) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := dev.Parameters()
			tt.mutate(p)
			if err := dev.SetParameters(p); err == nil {
				t.Error("SetParameters() should reject the snapshot")
			}
		})
	}

	if err := dev.SetParameters(nil); err == nil {
		t.Error("SetParameters(nil) should fail")
	}
}

func TestFaultSwitches(t *testing.T) {
	dev, _ := New(nil)

	dev.SetParametersUnavailable(true)
	p, err := dev.Parameters()
	if p != nil || err != nil {
		t.Errorf("Parameters() = %v, %v, want nil, nil", p, err)
	}
	dev.SetParametersUnavailable(false)

	dev.SetFailCommit(true)
	p, _ = dev.Parameters()
	if err := dev.SetParameters(p); !errors.Is(err, ErrCommitFailed) {
		t.Errorf("SetParameters() error = %v, want ErrCommitFailed", err)
	}

	reads, writes := dev.Stats()
	if reads != 2 || writes != 1 {
		t.Errorf("Stats() = %d, %d, want 2, 1", reads, writes)
	}
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "front.yaml")
	content := `name: front
preview_sizes: ["1280x720", "640x480"]
default_preview_size: 640x480
substitutions:
  1280x720: 640x480
flash_modes: [off]
focus_modes: [fixed]
exposure:
  min: -2
  max: 2
  step: 0.5
parameters_unavailable: true
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	profile, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if profile.Name != "front" || len(profile.PreviewSizes) != 2 {
		t.Errorf("profile = %+v", profile)
	}

	dev, err := New(profile)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if p, _ := dev.Parameters(); p != nil {
		t.Error("parameters_unavailable should be honored")
	}
}

func TestProfileValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad preview size", "preview_sizes: [\"wide\"]\n"},
		{"bad default", "preview_sizes: [\"640x480\"]\ndefault_preview_size: big\n"},
		{"bad substitution", "substitutions:\n  640x480: tiny\n"},
		{"inverted exposure", "exposure:\n  min: 3\n  max: -3\n"},
		{"invalid yaml", "preview_sizes: [unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseProfile([]byte(tt.yaml)); err == nil {
				t.Error("ParseProfile() should fail")
			}
		})
	}

	if _, err := New(&Profile{PreviewSizes: []string{"nope"}}); err == nil {
		t.Error("New() should reject an invalid profile")
	}
}

func TestProfileMarshalRoundTrip(t *testing.T) {
	data, err := DefaultProfile().Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	profile, err := ParseProfile(data)
	if err != nil {
		t.Fatalf("ParseProfile() error = %v", err)
	}
	if profile.Name != "generic-rear" || profile.Exposure.Max != 12 {
		t.Errorf("profile = %+v", profile)
	}
}

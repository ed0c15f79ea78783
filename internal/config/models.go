package config

import (
	"fmt"
	"strings"

	"github.com/muurk/scancam/internal/camera"
)

// CurrentVersion is the settings file format version
const CurrentVersion = 1

// Settings represents the entire user configuration file.
type Settings struct {
	Version int           `yaml:"version"`
	Camera  *CameraPrefs  `yaml:"camera,omitempty"`
	Display *DisplayPrefs `yaml:"display,omitempty"`
	Device  *DevicePrefs  `yaml:"device,omitempty"`
}

// CameraPrefs holds the scanning preferences read when parameters are applied.
type CameraPrefs struct {
	FrontLightMode          string `yaml:"front_light_mode"`           // on, off or auto
	AutoFocus               bool   `yaml:"auto_focus"`                 // Use auto focus
	DisableContinuousFocus  bool   `yaml:"disable_continuous_focus"`   // Prefer one-shot auto focus
	InvertScan              bool   `yaml:"invert_scan"`                // Negative color effect for inverted codes
	DisableBarcodeSceneMode bool   `yaml:"disable_barcode_scene_mode"` // Skip the barcode scene mode
	DisableMetering         bool   `yaml:"disable_metering"`           // Skip stabilization, focus and metering areas
	SafeMode                bool   `yaml:"safe_mode"`                  // Apply the minimal configuration
	GateExposureInSafeMode  bool   `yaml:"gate_exposure_in_safe_mode"` // Skip exposure coupling in safe mode
}

// DisplayPrefs describes the viewfinder area.
type DisplayPrefs struct {
	Width              int `yaml:"width"`
	Height             int `yaml:"height"`
	ChromeHeightOffset int `yaml:"chrome_height_offset"` // Height reserved for UI chrome
}

// DevicePrefs selects the camera backend.
// Path wins over Profile; with neither set the built-in simulated camera is used.
type DevicePrefs struct {
	Path    string `yaml:"path,omitempty"`    // V4L2 node, e.g. /dev/video0
	Profile string `yaml:"profile,omitempty"` // Simulated device profile (YAML)
}

// DefaultCameraPrefs returns the scanning defaults
func DefaultCameraPrefs() *CameraPrefs {
	return &CameraPrefs{
		FrontLightMode:          camera.TorchAuto.String(),
		AutoFocus:               true,
		DisableContinuousFocus:  false,
		InvertScan:              false,
		DisableBarcodeSceneMode: true,
		DisableMetering:         true,
	}
}

// DefaultDisplayPrefs returns a 1080x1920 portrait display with no chrome
func DefaultDisplayPrefs() *DisplayPrefs {
	return &DisplayPrefs{
		Width:  1080,
		Height: 1920,
	}
}

// NewSettings creates Settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: CurrentVersion,
		Camera:  DefaultCameraPrefs(),
		Display: DefaultDisplayPrefs(),
		Device:  &DevicePrefs{},
	}
}

// ensureDefaults fills sections missing from a loaded file
func (s *Settings) ensureDefaults() {
	if s.Camera == nil {
		s.Camera = DefaultCameraPrefs()
	}
	if s.Display == nil {
		s.Display = DefaultDisplayPrefs()
	}
	if s.Device == nil {
		s.Device = &DevicePrefs{}
	}
}

// TorchPreference implements camera.TorchPreferenceSource.
func (s *Settings) TorchPreference() camera.TorchPreference {
	if s == nil || s.Camera == nil {
		return camera.TorchAuto
	}
	return camera.ParseTorchPreference(s.Camera.FrontLightMode)
}

// SetFrontLightMode validates and stores the front light mode.
func (s *Settings) SetFrontLightMode(mode string) error {
	normalized := strings.ToLower(strings.TrimSpace(mode))
	switch normalized {
	case "on", "off", "auto":
	default:
		return fmt.Errorf("invalid front light mode %q (expected on, off or auto)", mode)
	}
	s.ensureDefaults()
	s.Camera.FrontLightMode = normalized
	return nil
}

// FeatureTable derives the optional camera features from the preferences.
// Metering covers stabilization plus focus and metering areas.
func (s *Settings) FeatureTable() camera.FeatureTable {
	table := camera.DefaultFeatureTable()
	if s == nil || s.Camera == nil {
		return table
	}

	table[camera.FeatureInvertColor] = s.Camera.InvertScan
	table[camera.FeatureBarcodeSceneMode] = !s.Camera.DisableBarcodeSceneMode

	metering := !s.Camera.DisableMetering
	table[camera.FeatureVideoStabilization] = metering
	table[camera.FeatureFocusArea] = metering
	table[camera.FeatureMetering] = metering

	return table
}

// CameraOptions builds negotiation options from the preferences.
func (s *Settings) CameraOptions() *camera.Options {
	opts := camera.DefaultOptions()
	if s == nil || s.Camera == nil {
		return opts
	}
	opts.AutoFocus = s.Camera.AutoFocus
	opts.ContinuousFocus = !s.Camera.DisableContinuousFocus
	opts.Features = s.FeatureTable()
	opts.GateExposureInSafeMode = s.Camera.GateExposureInSafeMode
	return opts
}

// DisplaySize returns the configured display size.
func (s *Settings) DisplaySize() camera.Size {
	if s == nil || s.Display == nil {
		d := DefaultDisplayPrefs()
		return camera.Size{Width: d.Width, Height: d.Height}
	}
	return camera.Size{Width: s.Display.Width, Height: s.Display.Height}
}

// ChromeHeightOffset returns the height reserved for UI chrome.
func (s *Settings) ChromeHeightOffset() int {
	if s == nil || s.Display == nil {
		return 0
	}
	return s.Display.ChromeHeightOffset
}

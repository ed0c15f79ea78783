// Package sim provides a simulated camera for local development and tests.
//
// The simulated device behaves like a driver: it advertises a fixed set of
// modes, rejects values it does not support, and may substitute a different
// preview size than the one requested. Its behavior is described by a YAML
// Profile.
package sim

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/muurk/scancam/internal/camera"
)

// ErrCommitFailed is returned by SetParameters when the profile's fail_commit
// fault switch is set
var ErrCommitFailed = errors.New("simulated driver rejected parameters")

// Device simulates a camera driver
type Device struct {
	mu sync.Mutex

	profile       *Profile
	sizes         []camera.Size
	defaultSize   camera.Size
	substitutions map[camera.Size]camera.Size

	params      *camera.Parameters
	orientation int
	unavailable bool
	failCommit  bool

	reads  int
	writes int
}

var _ camera.Device = (*Device)(nil)

// New creates a simulated device. A nil profile uses DefaultProfile.
func New(profile *Profile) (*Device, error) {
	if profile == nil {
		profile = DefaultProfile()
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid device profile %q: %w", profile.Name, err)
	}

	sizes, _ := profile.previewSizes()
	subs, _ := profile.substitutions()

	var defaultSize camera.Size
	if profile.DefaultPreviewSize != "" {
		defaultSize, _ = camera.ParseSize(profile.DefaultPreviewSize)
	} else if len(sizes) > 0 {
		defaultSize = sizes[0]
	}

	d := &Device{
		profile:       profile,
		sizes:         sizes,
		defaultSize:   defaultSize,
		substitutions: subs,
		unavailable:   profile.ParametersUnavailable,
		failCommit:    profile.FailCommit,
	}
	d.params = d.initialParameters()

	return d, nil
}

func (d *Device) initialParameters() *camera.Parameters {
	p := &camera.Parameters{
		PreviewSize:                 d.defaultSize,
		SupportedPreviewSizes:       append([]camera.Size(nil), d.sizes...),
		SupportedFlashModes:         append([]string(nil), d.profile.FlashModes...),
		SupportedFocusModes:         append([]string(nil), d.profile.FocusModes...),
		SupportedSceneModes:         append([]string(nil), d.profile.SceneModes...),
		SupportedColorEffects:       append([]string(nil), d.profile.ColorEffects...),
		MinExposureCompensation:     d.profile.Exposure.Min,
		MaxExposureCompensation:     d.profile.Exposure.Max,
		ExposureCompensationStep:    d.profile.Exposure.Step,
		VideoStabilizationSupported: d.profile.VideoStabilization,
		MaxNumFocusAreas:            d.profile.MaxFocusAreas,
		MaxNumMeteringAreas:         d.profile.MaxMeteringAreas,
	}

	if slices.Contains(p.SupportedFlashModes, camera.FlashModeOff) {
		p.FlashMode = camera.FlashModeOff
	}
	if len(p.SupportedFocusModes) > 0 {
		p.FocusMode = p.SupportedFocusModes[0]
	}
	if slices.Contains(p.SupportedSceneModes, camera.SceneModeAuto) {
		p.SceneMode = camera.SceneModeAuto
	}
	if slices.Contains(p.SupportedColorEffects, camera.ColorEffectNone) {
		p.ColorEffect = camera.ColorEffectNone
	}

	return p
}

// Name returns the profile name
func (d *Device) Name() string {
	return d.profile.Name
}

// SetDisplayOrientation accepts 0, 90, 180 or 270 degrees
func (d *Device) SetDisplayOrientation(degrees int) error {
	switch degrees {
	case 0, 90, 180, 270:
	default:
		return fmt.Errorf("unsupported display orientation %d", degrees)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.orientation = degrees
	return nil
}

// Parameters returns a copy of the current settings, or nil when the
// parameters_unavailable fault is active
func (d *Device) Parameters() (*camera.Parameters, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.reads++
	if d.unavailable {
		return nil, nil
	}
	return d.params.Clone(), nil
}

// SetParameters validates and commits a snapshot.
// Unsupported modes are rejected. An unsupported preview size is replaced by
// the profile's substitution for it, or by the default preview size.
func (d *Device) SetParameters(p *camera.Parameters) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.writes++

	if p == nil {
		return errors.New("nil parameters")
	}
	if d.failCommit {
		return ErrCommitFailed
	}

	if err := checkMode("flash mode", p.FlashMode, d.params.SupportedFlashModes); err != nil {
		return err
	}
	if err := checkMode("focus mode", p.FocusMode, d.params.SupportedFocusModes); err != nil {
		return err
	}
	if err := checkMode("scene mode", p.SceneMode, d.params.SupportedSceneModes); err != nil {
		return err
	}
	if err := checkMode("color effect", p.ColorEffect, d.params.SupportedColorEffects); err != nil {
		return err
	}

	if p.ExposureCompensation < d.params.MinExposureCompensation ||
		p.ExposureCompensation > d.params.MaxExposureCompensation {
		return fmt.Errorf("exposure compensation %d outside [%d, %d]",
			p.ExposureCompensation, d.params.MinExposureCompensation, d.params.MaxExposureCompensation)
	}
	if p.VideoStabilization && !d.params.VideoStabilizationSupported {
		return errors.New("video stabilization not supported")
	}
	if len(p.FocusAreas) > d.params.MaxNumFocusAreas {
		return fmt.Errorf("%d focus areas exceed maximum %d", len(p.FocusAreas), d.params.MaxNumFocusAreas)
	}
	if len(p.MeteringAreas) > d.params.MaxNumMeteringAreas {
		return fmt.Errorf("%d metering areas exceed maximum %d", len(p.MeteringAreas), d.params.MaxNumMeteringAreas)
	}

	next := d.params.Clone()
	next.PreviewSize = d.acceptPreviewSize(p.PreviewSize)
	next.FlashMode = p.FlashMode
	next.FocusMode = p.FocusMode
	next.SceneMode = p.SceneMode
	next.ColorEffect = p.ColorEffect
	next.ExposureCompensation = p.ExposureCompensation
	next.VideoStabilization = p.VideoStabilization
	next.FocusAreas = append([]camera.Area(nil), p.FocusAreas...)
	next.MeteringAreas = append([]camera.Area(nil), p.MeteringAreas...)

	d.params = next
	return nil
}

func (d *Device) acceptPreviewSize(requested camera.Size) camera.Size {
	if sub, ok := d.substitutions[requested]; ok {
		return sub
	}
	if slices.Contains(d.sizes, requested) {
		return requested
	}
	return d.defaultSize
}

func checkMode(name, value string, supported []string) error {
	if value == "" || slices.Contains(supported, value) {
		return nil
	}
	return fmt.Errorf("unsupported %s %q", name, value)
}

// SupportedPreviewSizes returns the profile's preview sizes in profile order
func (d *Device) SupportedPreviewSizes() ([]camera.Size, error) {
	return append([]camera.Size(nil), d.sizes...), nil
}

// SetParametersUnavailable toggles the parameters_unavailable fault
func (d *Device) SetParametersUnavailable(unavailable bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.unavailable = unavailable
}

// SetFailCommit toggles the fail_commit fault
func (d *Device) SetFailCommit(fail bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failCommit = fail
}

// Orientation returns the last display orientation set
func (d *Device) Orientation() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.orientation
}

// Stats returns the number of parameter reads and writes
func (d *Device) Stats() (reads, writes int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reads, d.writes
}

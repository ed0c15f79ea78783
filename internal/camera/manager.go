package camera

import (
	"go.uber.org/zap"

	"github.com/muurk/scancam/internal/logging"
)

// Options configures how a ConfigurationManager negotiates with the device
type Options struct {
	// DisplayOrientation is the rotation set before reading parameters.
	// Default: 90
	DisplayOrientation int

	// AutoFocus and ContinuousFocus are passed to Capabilities.SetFocus.
	// Default: both true
	AutoFocus       bool
	ContinuousFocus bool

	// Features lists the optional features applied outside safe mode.
	// Default: all disabled
	Features FeatureTable

	// GateExposureInSafeMode skips the torch/exposure coupling in safe mode.
	// Default: false (exposure always follows the torch)
	GateExposureInSafeMode bool

	// Logger receives negotiation diagnostics.
	// Default: the package logger named "camera"
	Logger *zap.Logger
}

// DefaultOptions returns the options used when none are given
func DefaultOptions() *Options {
	return &Options{
		DisplayOrientation: DefaultDisplayOrientation,
		AutoFocus:          true,
		ContinuousFocus:    true,
		Features:           DefaultFeatureTable(),
	}
}

// ConfigurationResult reports the outcome of SetDesiredParameters
type ConfigurationResult struct {
	// Requested is the preview size written to the device
	Requested Size

	// Resolution is the preview size in effect after reconciliation
	Resolution Size

	// SafeMode records whether optional features were skipped
	SafeMode bool

	// TorchOn is the torch state derived from the preference
	TorchOn bool

	// AppliedFeatures lists the optional features the device accepted
	AppliedFeatures []Feature

	// Drift is true when the device substituted a different preview size
	Drift bool

	// Warnings holds recovered conditions (parameters unavailable, drift)
	Warnings []error
}

// ConfigurationManager reads, computes and applies the camera parameters for
// a capture session. It keeps the screen and preview resolutions between calls.
type ConfigurationManager struct {
	device Device
	caps   Capabilities
	prefs  TorchPreferenceSource
	opts   Options
	logger *zap.Logger

	screenResolution Size
	cameraResolution Size
	initialized      bool
}

// NewConfigurationManager creates a manager for an opened device.
// Pass nil opts to use DefaultOptions.
func NewConfigurationManager(device Device, caps Capabilities, prefs TorchPreferenceSource, opts *Options) *ConfigurationManager {
	if opts == nil {
		opts = DefaultOptions()
	}
	if prefs == nil {
		prefs = StaticTorchPreference(TorchAuto)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Named("camera")
	}

	resolved := *opts
	if resolved.Features == nil {
		resolved.Features = DefaultFeatureTable()
	}

	return &ConfigurationManager{
		device: device,
		caps:   caps,
		prefs:  prefs,
		opts:   resolved,
		logger: logger,
	}
}

// InitFromDevice reads, one time, the values needed for the session.
//
// It rotates the display, refreshes the driver's parameters with a read/write
// round-trip, derives the viewport from the display size minus heightOffset,
// and selects the preview size. The selection error is returned when no size
// is usable.
func (m *ConfigurationManager) InitFromDevice(display Size, heightOffset int) (Size, Size, error) {
	if err := m.device.SetDisplayOrientation(m.opts.DisplayOrientation); err != nil {
		return Size{}, Size{}, NewDeviceError("failed to set display orientation", err)
	}

	// Some drivers only report sizes relative to the new orientation after a round-trip
	params, err := m.device.Parameters()
	if err != nil || params == nil {
		m.logger.Warn("No camera parameters available during initialization, skipping refresh",
			zap.Error(err))
	} else {
		if err := m.device.SetParameters(params); err != nil {
			return Size{}, Size{}, NewDeviceError("failed to refresh camera parameters", err)
		}
		if _, err := m.device.Parameters(); err != nil {
			m.logger.Warn("Failed to re-read camera parameters after refresh", zap.Error(err))
		}
	}

	screen := Size{Width: display.Width, Height: display.Height - heightOffset}
	if !screen.Valid() {
		return Size{}, Size{}, NewInvalidViewportError(
			"display " + display.String() + " minus chrome height leaves no viewport")
	}
	m.logger.Info("Screen resolution", zap.Stringer("resolution", screen))

	sizes, err := m.device.SupportedPreviewSizes()
	if err != nil {
		return Size{}, Size{}, NewDeviceError("failed to query supported preview sizes", err)
	}

	best, err := SelectPreviewSize(sizes, screen.Height, screen.Width)
	if err != nil {
		m.logger.Error("No usable preview size", zap.Int("candidates", len(sizes)), zap.Error(err))
		return Size{}, Size{}, err
	}
	m.logger.Info("Camera resolution", zap.Stringer("resolution", best))

	m.screenResolution = screen
	m.cameraResolution = best
	m.initialized = true

	return screen, best, nil
}

// SetDesiredParameters applies the session configuration to the device.
//
// Missing parameters are tolerated: the call logs a warning and returns the
// previous resolution. After committing, the preview size is read back and the
// device's value is adopted if it differs. Each device call is made once.
func (m *ConfigurationManager) SetDesiredParameters(safeMode bool) (*ConfigurationResult, error) {
	if !m.initialized {
		return nil, NewNotInitializedError()
	}

	result := &ConfigurationResult{
		Requested:  m.cameraResolution,
		Resolution: m.cameraResolution,
		SafeMode:   safeMode,
	}

	params, err := m.device.Parameters()
	if err != nil || params == nil {
		m.logger.Warn("Device error: no camera parameters are available. Proceeding without configuration.",
			zap.Error(err))
		result.Warnings = append(result.Warnings,
			NewParametersUnavailableError("no camera parameters available", err))
		return result, nil
	}

	m.logger.Info("Initial camera parameters", zap.String("parameters", params.Flatten()))

	if safeMode {
		m.logger.Warn("In camera config safe mode -- most settings will not be honored")
	}

	result.TorchOn = m.initializeTorch(params, safeMode)

	m.caps.SetFocus(params, FocusRequest{
		AutoFocus:       m.opts.AutoFocus,
		ContinuousFocus: m.opts.ContinuousFocus,
	}, safeMode)

	if !safeMode {
		result.AppliedFeatures = m.applyFeatures(params)
	}

	params.PreviewSize = m.cameraResolution

	m.logger.Info("Final camera parameters", zap.String("parameters", params.Flatten()))

	if err := m.device.SetParameters(params); err != nil {
		return result, NewDeviceError("failed to commit camera parameters", err)
	}

	m.reconcile(result)

	return result, nil
}

// reconcile adopts the preview size the device actually uses
func (m *ConfigurationManager) reconcile(result *ConfigurationResult) {
	after, err := m.device.Parameters()
	if err != nil || after == nil {
		m.logger.Warn("Could not read back camera parameters after commit", zap.Error(err))
		return
	}

	actual := after.PreviewSize
	if actual.IsZero() || actual == m.cameraResolution {
		return
	}

	m.logger.Warn("Camera said it supported preview size, but after setting it, preview size differs",
		zap.Stringer("requested", m.cameraResolution),
		zap.Stringer("actual", actual),
	)

	result.Warnings = append(result.Warnings, NewResolutionDriftError(m.cameraResolution, actual))
	result.Drift = true
	result.Resolution = actual
	m.cameraResolution = actual
}

// applyFeatures evaluates the feature table in a fixed order
func (m *ConfigurationManager) applyFeatures(params *Parameters) []Feature {
	var applied []Feature
	for _, f := range m.opts.Features.Enabled() {
		if m.caps.ApplyFeature(params, f) {
			applied = append(applied, f)
		} else {
			m.logger.Info("Optional feature not supported by device", zap.String("feature", string(f)))
		}
	}
	return applied
}

// CameraResolution returns the preview size in effect
func (m *ConfigurationManager) CameraResolution() Size {
	return m.cameraResolution
}

// ScreenResolution returns the viewport computed by InitFromDevice
func (m *ConfigurationManager) ScreenResolution() Size {
	return m.screenResolution
}

// Initialized reports whether InitFromDevice has succeeded
func (m *ConfigurationManager) Initialized() bool {
	return m.initialized
}

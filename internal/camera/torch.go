package camera

import (
	"go.uber.org/zap"
)

// DesiredTorchState maps the persisted preference to a torch state.
// Only TorchOn turns the torch on.
func DesiredTorchState(pref TorchPreference) bool {
	return pref == TorchOn
}

// IsTorchMode reports whether a flash mode keeps the light on
func IsTorchMode(flashMode string) bool {
	return flashMode == FlashModeOn || flashMode == FlashModeTorch
}

// TorchState reads the flash mode from the device.
// It returns false when the device has no parameters.
func (m *ConfigurationManager) TorchState() bool {
	params, err := m.device.Parameters()
	if err != nil || params == nil {
		return false
	}
	return IsTorchMode(params.FlashMode)
}

// SetTorch switches the torch for the rest of the session, independent of the
// persisted preference.
func (m *ConfigurationManager) SetTorch(on bool) error {
	params, err := m.device.Parameters()
	if err != nil || params == nil {
		m.logger.Warn("No camera parameters available, torch unchanged",
			zap.Bool("requested", on), zap.Error(err))
		return nil
	}

	m.doSetTorch(params, on, false)

	if err := m.device.SetParameters(params); err != nil {
		return NewDeviceError("failed to commit torch setting", err)
	}
	return nil
}

// initializeTorch applies the persisted preference. It runs in safe mode too.
func (m *ConfigurationManager) initializeTorch(params *Parameters, safeMode bool) bool {
	pref := m.prefs.TorchPreference()
	on := DesiredTorchState(pref)
	m.logger.Debug("Initializing torch from preference",
		zap.Stringer("preference", pref), zap.Bool("on", on))
	m.doSetTorch(params, on, safeMode)
	return on
}

func (m *ConfigurationManager) doSetTorch(params *Parameters, on bool, safeMode bool) {
	m.caps.SetTorch(params, on)

	if safeMode && m.opts.GateExposureInSafeMode {
		m.logger.Debug("Exposure compensation skipped in safe mode")
		return
	}
	m.caps.SetBestExposure(params, on)
}

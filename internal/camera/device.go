package camera

// Device is the driver-side view of an opened camera.
// Every call blocks until the driver answers. Implementations are owned by a
// single capture session; the negotiation code never opens or closes them.
type Device interface {
	// SetDisplayOrientation rotates the preview by degrees (0, 90, 180 or 270)
	SetDisplayOrientation(degrees int) error

	// Parameters returns a fresh snapshot of the current settings.
	// A nil snapshot means the driver has no parameters to offer.
	Parameters() (*Parameters, error)

	// SetParameters commits a snapshot. The driver may adjust values it
	// cannot honor; read the parameters back to see what was accepted.
	SetParameters(p *Parameters) error

	// SupportedPreviewSizes lists the preview sizes advertised by the driver
	SupportedPreviewSizes() ([]Size, error)
}

// FocusRequest carries the focus toggles passed to Capabilities.SetFocus
type FocusRequest struct {
	AutoFocus       bool
	ContinuousFocus bool
}

// Capabilities mutates a parameter snapshot to request hardware features.
// Implementations decide what a given device supports; unsupported requests
// are left out of the snapshot rather than reported as errors.
type Capabilities interface {
	// SetFocus picks a focus mode. Implementations honor safeMode themselves.
	SetFocus(p *Parameters, req FocusRequest, safeMode bool)

	// SetTorch switches the torch on or off
	SetTorch(p *Parameters, on bool)

	// SetBestExposure sets exposure compensation for the given torch state
	SetBestExposure(p *Parameters, torchOn bool)

	// ApplyFeature enables an optional feature and reports whether it was applied
	ApplyFeature(p *Parameters, f Feature) bool
}

// TorchPreferenceSource provides the persisted front light preference
type TorchPreferenceSource interface {
	TorchPreference() TorchPreference
}

// StaticTorchPreference is a TorchPreferenceSource that always returns itself.
type StaticTorchPreference TorchPreference

// TorchPreference implements TorchPreferenceSource
func (s StaticTorchPreference) TorchPreference() TorchPreference {
	return TorchPreference(s)
}

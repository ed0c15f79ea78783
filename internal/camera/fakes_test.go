package camera

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// fakeDevice records every call made by the manager
type fakeDevice struct {
	params      *Parameters
	sizes       []Size
	unavailable bool

	orientationErr error
	sizesErr       error
	commitErr      error

	// substitute maps a requested preview size to the one the driver keeps
	substitute map[Size]Size

	orientation int
	reads       int
	writes      int
	sizeQueries int
	committed   []*Parameters
}

func newFakeDevice() *fakeDevice {
	supported := []Size{
		{Width: 1280, Height: 720},
		{Width: 640, Height: 480},
		{Width: 352, Height: 288},
	}
	return &fakeDevice{
		params: &Parameters{
			PreviewSize:              Size{Width: 352, Height: 288},
			SupportedPreviewSizes:    supported,
			FlashMode:                FlashModeOff,
			SupportedFlashModes:      []string{FlashModeOff, FlashModeTorch},
			FocusMode:                FocusModeAuto,
			SupportedFocusModes:      []string{FocusModeAuto, FocusModeContinuousPicture},
			MinExposureCompensation:  -6,
			MaxExposureCompensation:  6,
			ExposureCompensationStep: 0.5,
		},
		sizes: supported,
	}
}

func (d *fakeDevice) SetDisplayOrientation(degrees int) error {
	if d.orientationErr != nil {
		return d.orientationErr
	}
	d.orientation = degrees
	return nil
}

func (d *fakeDevice) Parameters() (*Parameters, error) {
	d.reads++
	if d.unavailable {
		return nil, nil
	}
	return d.params.Clone(), nil
}

func (d *fakeDevice) SetParameters(p *Parameters) error {
	d.writes++
	if d.commitErr != nil {
		return d.commitErr
	}
	next := p.Clone()
	if sub, ok := d.substitute[next.PreviewSize]; ok {
		next.PreviewSize = sub
	}
	d.params = next
	d.committed = append(d.committed, p.Clone())
	return nil
}

func (d *fakeDevice) SupportedPreviewSizes() ([]Size, error) {
	d.sizeQueries++
	if d.sizesErr != nil {
		return nil, d.sizesErr
	}
	return append([]Size(nil), d.sizes...), nil
}

// fakeCaps records capability requests in call order
type fakeCaps struct {
	calls     []string
	supported map[Feature]bool

	focusSafeMode []bool
	torchOn       []bool
	exposureOn    []bool
}

func (c *fakeCaps) SetFocus(p *Parameters, req FocusRequest, safeMode bool) {
	c.calls = append(c.calls, "focus")
	c.focusSafeMode = append(c.focusSafeMode, safeMode)
	if req.AutoFocus && req.ContinuousFocus && !safeMode {
		p.FocusMode = FocusModeContinuousPicture
	}
}

func (c *fakeCaps) SetTorch(p *Parameters, on bool) {
	c.calls = append(c.calls, "torch")
	c.torchOn = append(c.torchOn, on)
	if on {
		p.FlashMode = FlashModeTorch
	} else {
		p.FlashMode = FlashModeOff
	}
}

func (c *fakeCaps) SetBestExposure(p *Parameters, torchOn bool) {
	c.calls = append(c.calls, "exposure")
	c.exposureOn = append(c.exposureOn, torchOn)
	if torchOn {
		p.ExposureCompensation = 0
	} else {
		p.ExposureCompensation = 3
	}
}

func (c *fakeCaps) ApplyFeature(p *Parameters, f Feature) bool {
	c.calls = append(c.calls, string(f))
	return c.supported[f]
}

func (c *fakeCaps) count(name string) int {
	n := 0
	for _, call := range c.calls {
		if call == name {
			n++
		}
	}
	return n
}

// newObservedManager returns a manager whose logger records warnings and above
func newObservedManager(dev Device, caps Capabilities, prefs TorchPreferenceSource, opts *Options) (*ConfigurationManager, *observer.ObservedLogs) {
	core, logs := observer.New(zap.WarnLevel)
	if opts == nil {
		opts = DefaultOptions()
	}
	opts.Logger = zap.New(core)
	return NewConfigurationManager(dev, caps, prefs, opts), logs
}

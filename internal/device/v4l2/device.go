//go:build linux

// Package v4l2 adapts a Video4Linux2 capture device to camera.Device.
//
// Frame sizes come from the driver's frame-size enumeration for the chosen
// pixel format. Preview size changes go through the format negotiation ioctl,
// and the size the driver answers with becomes the device's preview size, so
// a driver that rounds the request shows up as resolution drift.
//
// Torch, focus, exposure, color effect, stabilization and rotation map to the
// standard V4L2 controls when the driver exposes them. Missing controls are
// reported as unsupported modes.
package v4l2

import (
	"errors"
	"fmt"
	"sort"

	"github.com/blackjack/webcam"
	"go.uber.org/zap"

	"github.com/muurk/scancam/internal/camera"
	"github.com/muurk/scancam/internal/logging"
)

// Standard control IDs (linux/v4l2-controls.h)
const (
	cidColorFX            webcam.ControlID = 0x0098091f
	cidRotate             webcam.ControlID = 0x00980922
	cidFocusAuto          webcam.ControlID = 0x009a090c
	cidAutoExposureBias   webcam.ControlID = 0x009a0913
	cidImageStabilization webcam.ControlID = 0x009a0916
	cidFlashLEDMode       webcam.ControlID = 0x009c0901
)

// Control values
const (
	flashLEDModeNone  = 0
	flashLEDModeFlash = 1
	flashLEDModeTorch = 2

	colorFXNone     = 0
	colorFXNegative = 3
)

// DefaultExposureStep is the EV assumed per auto exposure bias menu entry
const DefaultExposureStep = 1.0 / 3.0

var (
	pixelFormatMJPEG = fourcc('M', 'J', 'P', 'G')
	pixelFormatYUYV  = fourcc('Y', 'U', 'Y', 'V')
)

// driver is the subset of *webcam.Webcam used by Device
type driver interface {
	GetSupportedFormats() map[webcam.PixelFormat]string
	GetSupportedFrameSizes(f webcam.PixelFormat) []webcam.FrameSize
	SetImageFormat(f webcam.PixelFormat, width, height uint32) (webcam.PixelFormat, uint32, uint32, error)
	GetControls() map[webcam.ControlID]webcam.Control
	GetControl(id webcam.ControlID) (int32, error)
	SetControl(id webcam.ControlID, value int32) error
	Close() error
}

// Options configures a V4L2 device
type Options struct {
	// ExposureStep is the EV per auto exposure bias step.
	// Default: 1/3
	ExposureStep float64

	// Logger receives driver diagnostics.
	// Default: the package logger named "v4l2"
	Logger *zap.Logger
}

// Device is a camera.Device backed by a V4L2 node such as /dev/video0
type Device struct {
	drv      driver
	path     string
	format   webcam.PixelFormat
	sizes    []camera.Size
	controls map[webcam.ControlID]webcam.Control
	opts     Options
	logger   *zap.Logger

	current camera.Size
}

var _ camera.Device = (*Device)(nil)

// Open opens a V4L2 device node. Pass nil opts for defaults.
func Open(path string, opts *Options) (*Device, error) {
	cam, err := webcam.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	dev, err := newDevice(cam, path, opts)
	if err != nil {
		_ = cam.Close()
		return nil, err
	}
	return dev, nil
}

func newDevice(drv driver, path string, opts *Options) (*Device, error) {
	resolved := Options{ExposureStep: DefaultExposureStep}
	if opts != nil {
		resolved = *opts
		if resolved.ExposureStep <= 0 {
			resolved.ExposureStep = DefaultExposureStep
		}
	}
	logger := resolved.Logger
	if logger == nil {
		logger = logging.Named("v4l2")
	}

	formats := drv.GetSupportedFormats()
	format, ok := chooseFormat(formats)
	if !ok {
		return nil, fmt.Errorf("%s reports no pixel formats", path)
	}

	sizes := expandFrameSizes(drv.GetSupportedFrameSizes(format))
	controls := drv.GetControls()

	logger.Info("Opened V4L2 device",
		zap.String("path", path),
		zap.String("format", formats[format]),
		zap.Int("frame_sizes", len(sizes)),
		zap.Int("controls", len(controls)),
	)

	return &Device{
		drv:      drv,
		path:     path,
		format:   format,
		sizes:    sizes,
		controls: controls,
		opts:     resolved,
		logger:   logger,
	}, nil
}

// Close releases the device node
func (d *Device) Close() error {
	return d.drv.Close()
}

// Path returns the device node path
func (d *Device) Path() string {
	return d.path
}

// SetDisplayOrientation uses the rotate control when the driver has one.
// Drivers without it keep their native orientation.
func (d *Device) SetDisplayOrientation(degrees int) error {
	if !d.hasControl(cidRotate) {
		d.logger.Debug("Driver has no rotate control, orientation unchanged", zap.Int("degrees", degrees))
		return nil
	}
	if err := d.drv.SetControl(cidRotate, int32(degrees)); err != nil {
		return fmt.Errorf("failed to rotate to %d degrees: %w", degrees, err)
	}
	return nil
}

// SupportedPreviewSizes returns the enumerated frame sizes, largest first
func (d *Device) SupportedPreviewSizes() ([]camera.Size, error) {
	return append([]camera.Size(nil), d.sizes...), nil
}

// Parameters builds a snapshot from the negotiated format and the controls
func (d *Device) Parameters() (*camera.Parameters, error) {
	p := &camera.Parameters{
		PreviewSize:           d.current,
		SupportedPreviewSizes: append([]camera.Size(nil), d.sizes...),
	}

	if ctrl, ok := d.controls[cidFlashLEDMode]; ok {
		p.SupportedFlashModes = []string{camera.FlashModeOff}
		if ctrl.Max >= flashLEDModeFlash {
			p.SupportedFlashModes = append(p.SupportedFlashModes, camera.FlashModeOn)
		}
		if ctrl.Max >= flashLEDModeTorch {
			p.SupportedFlashModes = append(p.SupportedFlashModes, camera.FlashModeTorch)
		}
		v, err := d.drv.GetControl(cidFlashLEDMode)
		if err != nil {
			return nil, fmt.Errorf("failed to read flash LED mode: %w", err)
		}
		p.FlashMode = flashModeFromLED(v)
	}

	if d.hasControl(cidFocusAuto) {
		p.SupportedFocusModes = []string{camera.FocusModeFixed, camera.FocusModeContinuousPicture}
		v, err := d.drv.GetControl(cidFocusAuto)
		if err != nil {
			return nil, fmt.Errorf("failed to read auto focus: %w", err)
		}
		p.FocusMode = camera.FocusModeFixed
		if v != 0 {
			p.FocusMode = camera.FocusModeContinuousPicture
		}
	}

	if ctrl, ok := d.controls[cidAutoExposureBias]; ok {
		center := exposureCenter(ctrl)
		v, err := d.drv.GetControl(cidAutoExposureBias)
		if err != nil {
			return nil, fmt.Errorf("failed to read exposure bias: %w", err)
		}
		p.MinExposureCompensation = int(ctrl.Min - center)
		p.MaxExposureCompensation = int(ctrl.Max - center)
		p.ExposureCompensation = int(v - center)
		p.ExposureCompensationStep = d.opts.ExposureStep
	}

	if d.hasControl(cidColorFX) {
		p.SupportedColorEffects = []string{camera.ColorEffectNone, camera.ColorEffectNegative}
		v, err := d.drv.GetControl(cidColorFX)
		if err != nil {
			return nil, fmt.Errorf("failed to read color effect: %w", err)
		}
		p.ColorEffect = camera.ColorEffectNone
		if v == colorFXNegative {
			p.ColorEffect = camera.ColorEffectNegative
		}
	}

	if d.hasControl(cidImageStabilization) {
		p.VideoStabilizationSupported = true
		v, err := d.drv.GetControl(cidImageStabilization)
		if err != nil {
			return nil, fmt.Errorf("failed to read image stabilization: %w", err)
		}
		p.VideoStabilization = v != 0
	}

	return p, nil
}

// SetParameters negotiates the preview size and writes the controls.
// The first failing call aborts the commit.
func (d *Device) SetParameters(p *camera.Parameters) error {
	if p == nil {
		return errors.New("nil parameters")
	}

	if p.PreviewSize.Valid() && p.PreviewSize != d.current {
		_, w, h, err := d.drv.SetImageFormat(d.format, uint32(p.PreviewSize.Width), uint32(p.PreviewSize.Height))
		if err != nil {
			return fmt.Errorf("failed to set image format %s: %w", p.PreviewSize, err)
		}
		d.current = camera.Size{Width: int(w), Height: int(h)}
		if d.current != p.PreviewSize {
			d.logger.Debug("Driver adjusted image format",
				zap.Stringer("requested", p.PreviewSize),
				zap.Stringer("actual", d.current))
		}
	}

	if d.hasControl(cidFlashLEDMode) && p.FlashMode != "" {
		if err := d.setControl(cidFlashLEDMode, ledFromFlashMode(p.FlashMode)); err != nil {
			return err
		}
	}

	if d.hasControl(cidFocusAuto) && p.FocusMode != "" {
		var v int32
		switch p.FocusMode {
		case camera.FocusModeContinuousPicture, camera.FocusModeContinuousVideo, camera.FocusModeAuto:
			v = 1
		}
		if err := d.setControl(cidFocusAuto, v); err != nil {
			return err
		}
	}

	if ctrl, ok := d.controls[cidAutoExposureBias]; ok {
		index := int32(p.ExposureCompensation) + exposureCenter(ctrl)
		if index < ctrl.Min || index > ctrl.Max {
			return fmt.Errorf("exposure compensation %d outside driver range", p.ExposureCompensation)
		}
		if err := d.setControl(cidAutoExposureBias, index); err != nil {
			return err
		}
	}

	if d.hasControl(cidColorFX) && p.ColorEffect != "" {
		v := int32(colorFXNone)
		if p.ColorEffect == camera.ColorEffectNegative {
			v = colorFXNegative
		}
		if err := d.setControl(cidColorFX, v); err != nil {
			return err
		}
	}

	if d.hasControl(cidImageStabilization) {
		var v int32
		if p.VideoStabilization {
			v = 1
		}
		if err := d.setControl(cidImageStabilization, v); err != nil {
			return err
		}
	}

	return nil
}

func (d *Device) hasControl(id webcam.ControlID) bool {
	_, ok := d.controls[id]
	return ok
}

func (d *Device) setControl(id webcam.ControlID, value int32) error {
	if err := d.drv.SetControl(id, value); err != nil {
		return fmt.Errorf("failed to set control %q to %d: %w", d.controls[id].Name, value, err)
	}
	return nil
}

func flashModeFromLED(v int32) string {
	switch v {
	case flashLEDModeTorch:
		return camera.FlashModeTorch
	case flashLEDModeFlash:
		return camera.FlashModeOn
	default:
		return camera.FlashModeOff
	}
}

func ledFromFlashMode(mode string) int32 {
	switch mode {
	case camera.FlashModeTorch:
		return flashLEDModeTorch
	case camera.FlashModeOn:
		return flashLEDModeFlash
	default:
		return flashLEDModeNone
	}
}

// exposureCenter is the menu index treated as 0 EV
func exposureCenter(ctrl webcam.Control) int32 {
	return (ctrl.Min + ctrl.Max) / 2
}

func fourcc(a, b, c, d byte) webcam.PixelFormat {
	return webcam.PixelFormat(uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24)
}

// chooseFormat prefers MJPEG, then YUYV, then the lowest format code
func chooseFormat(formats map[webcam.PixelFormat]string) (webcam.PixelFormat, bool) {
	if len(formats) == 0 {
		return 0, false
	}
	for _, preferred := range []webcam.PixelFormat{pixelFormatMJPEG, pixelFormatYUYV} {
		if _, ok := formats[preferred]; ok {
			return preferred, true
		}
	}

	codes := make([]webcam.PixelFormat, 0, len(formats))
	for f := range formats {
		codes = append(codes, f)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes[0], true
}

// commonSizes are offered from stepwise ranges in addition to the bounds
var commonSizes = []camera.Size{
	{Width: 1920, Height: 1080}, {Width: 1280, Height: 960}, {Width: 1280, Height: 720},
	{Width: 1024, Height: 768}, {Width: 800, Height: 600}, {Width: 640, Height: 480},
	{Width: 352, Height: 288}, {Width: 320, Height: 240}, {Width: 176, Height: 144},
}

// expandFrameSizes turns the driver's enumeration into concrete sizes.
// Discrete entries are taken as is; stepwise and continuous ranges contribute
// their bounds and the common sizes that fall on the step grid.
func expandFrameSizes(frameSizes []webcam.FrameSize) []camera.Size {
	seen := make(map[camera.Size]bool)
	var sizes []camera.Size

	add := func(s camera.Size) {
		if s.Valid() && !seen[s] {
			seen[s] = true
			sizes = append(sizes, s)
		}
	}

	for _, fs := range frameSizes {
		if fs.StepWidth == 0 || fs.StepHeight == 0 || (fs.MinWidth == fs.MaxWidth && fs.MinHeight == fs.MaxHeight) {
			add(camera.Size{Width: int(fs.MaxWidth), Height: int(fs.MaxHeight)})
			continue
		}

		add(camera.Size{Width: int(fs.MaxWidth), Height: int(fs.MaxHeight)})
		for _, c := range commonSizes {
			if onGrid(uint32(c.Width), fs.MinWidth, fs.MaxWidth, fs.StepWidth) &&
				onGrid(uint32(c.Height), fs.MinHeight, fs.MaxHeight, fs.StepHeight) {
				add(c)
			}
		}
		add(camera.Size{Width: int(fs.MinWidth), Height: int(fs.MinHeight)})
	}

	return camera.SortByArea(sizes)
}

func onGrid(v, lo, hi, step uint32) bool {
	return v >= lo && v <= hi && (v-lo)%step == 0
}

// Package capability implements camera.Capabilities for devices that expose
// their supported modes through the parameter snapshot.
//
// Each setter checks the modes the device advertises and only writes values
// the device claims to support. Requests for unsupported features are logged
// and otherwise ignored.
package capability

import (
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/muurk/scancam/internal/camera"
	"github.com/muurk/scancam/internal/logging"
)

const (
	// MinExposureCompensation is the target EV with the torch on
	MinExposureCompensation = 0.0
	// MaxExposureCompensation is the target EV with the torch off
	MaxExposureCompensation = 1.5

	// AreaPer1000 is the half-width of the centered focus/metering area,
	// in the driver's -1000..1000 coordinate space
	AreaPer1000 = 400
)

// Setter applies capability requests to a parameter snapshot
type Setter struct {
	logger *zap.Logger
}

var _ camera.Capabilities = (*Setter)(nil)

// NewSetter creates a Setter. A nil logger uses the package logger.
func NewSetter(logger *zap.Logger) *Setter {
	if logger == nil {
		logger = logging.Named("capability")
	}
	return &Setter{logger: logger}
}

// SetFocus picks the best supported focus mode.
//
// With auto focus requested, continuous modes are preferred unless continuous
// focus is disabled or safeMode is set. Outside safe mode, macro and EDOF are
// fallbacks when nothing else matches.
func (s *Setter) SetFocus(p *camera.Parameters, req camera.FocusRequest, safeMode bool) {
	supported := p.SupportedFocusModes
	var mode string

	if req.AutoFocus {
		if safeMode || !req.ContinuousFocus {
			mode = s.findSettableValue("focus mode", supported, camera.FocusModeAuto)
		} else {
			mode = s.findSettableValue("focus mode", supported,
				camera.FocusModeContinuousPicture,
				camera.FocusModeContinuousVideo,
				camera.FocusModeAuto)
		}
	}

	// Maybe selected auto-focus but not available, so fall through here
	if !safeMode && mode == "" {
		mode = s.findSettableValue("focus mode", supported,
			camera.FocusModeMacro,
			camera.FocusModeEDOF)
	}

	if mode == "" {
		return
	}
	if mode == p.FocusMode {
		s.logger.Info("Focus mode already set", zap.String("mode", mode))
		return
	}
	p.FocusMode = mode
}

// SetTorch requests torch (or plain "on") flash mode, or "off"
func (s *Setter) SetTorch(p *camera.Parameters, on bool) {
	supported := p.SupportedFlashModes
	var mode string

	if on {
		mode = s.findSettableValue("flash mode", supported, camera.FlashModeTorch, camera.FlashModeOn)
	} else {
		mode = s.findSettableValue("flash mode", supported, camera.FlashModeOff)
	}

	if mode == "" {
		return
	}
	if mode == p.FlashMode {
		s.logger.Info("Flash mode already set", zap.String("mode", mode))
		return
	}
	s.logger.Info("Setting flash mode", zap.String("mode", mode))
	p.FlashMode = mode
}

// SetBestExposure lowers exposure compensation when the torch lights the scene
// and raises it otherwise, within the device's compensation range.
func (s *Setter) SetBestExposure(p *camera.Parameters, torchOn bool) {
	minExposure := p.MinExposureCompensation
	maxExposure := p.MaxExposureCompensation
	step := p.ExposureCompensationStep

	if (minExposure == 0 && maxExposure == 0) || step <= 0 {
		s.logger.Info("Camera does not support exposure compensation")
		return
	}

	target := MaxExposureCompensation
	if torchOn {
		target = MinExposureCompensation
	}

	steps := int(math.Round(target / step))
	actual := step * float64(steps)
	steps = max(min(steps, maxExposure), minExposure)

	if p.ExposureCompensation == steps {
		s.logger.Info("Exposure compensation already set",
			zap.Int("steps", steps), zap.Float64("ev", actual))
		return
	}

	s.logger.Info("Setting exposure compensation",
		zap.Int("steps", steps), zap.Float64("ev", actual))
	p.ExposureCompensation = steps
}

// ApplyFeature enables one optional feature
func (s *Setter) ApplyFeature(p *camera.Parameters, f camera.Feature) bool {
	switch f {
	case camera.FeatureInvertColor:
		return s.setInvertColor(p)
	case camera.FeatureBarcodeSceneMode:
		return s.setBarcodeSceneMode(p)
	case camera.FeatureVideoStabilization:
		return s.setVideoStabilization(p)
	case camera.FeatureFocusArea:
		return s.setFocusArea(p)
	case camera.FeatureMetering:
		return s.setMetering(p)
	default:
		s.logger.Warn("Unknown camera feature", zap.String("feature", string(f)))
		return false
	}
}

func (s *Setter) setInvertColor(p *camera.Parameters) bool {
	if p.ColorEffect == camera.ColorEffectNegative {
		s.logger.Info("Negative effect already set")
		return true
	}
	mode := s.findSettableValue("color effect", p.SupportedColorEffects, camera.ColorEffectNegative)
	if mode == "" {
		return false
	}
	p.ColorEffect = mode
	return true
}

func (s *Setter) setBarcodeSceneMode(p *camera.Parameters) bool {
	if p.SceneMode == camera.SceneModeBarcode {
		s.logger.Info("Barcode scene mode already set")
		return true
	}
	mode := s.findSettableValue("scene mode", p.SupportedSceneModes, camera.SceneModeBarcode)
	if mode == "" {
		return false
	}
	p.SceneMode = mode
	return true
}

func (s *Setter) setVideoStabilization(p *camera.Parameters) bool {
	if !p.VideoStabilizationSupported {
		s.logger.Info("This device does not support video stabilization")
		return false
	}
	if p.VideoStabilization {
		s.logger.Info("Video stabilization already enabled")
		return true
	}
	s.logger.Info("Enabling video stabilization")
	p.VideoStabilization = true
	return true
}

func (s *Setter) setFocusArea(p *camera.Parameters) bool {
	if p.MaxNumFocusAreas <= 0 {
		s.logger.Info("Device does not support focus areas")
		return false
	}
	middle := MiddleArea(AreaPer1000)
	s.logger.Info("Setting focus area", zap.Stringer("area", middle))
	p.FocusAreas = []camera.Area{middle}
	return true
}

func (s *Setter) setMetering(p *camera.Parameters) bool {
	if p.MaxNumMeteringAreas <= 0 {
		s.logger.Info("Device does not support metering areas")
		return false
	}
	middle := MiddleArea(AreaPer1000)
	s.logger.Info("Setting metering area", zap.Stringer("area", middle))
	p.MeteringAreas = []camera.Area{middle}
	return true
}

// MiddleArea returns a centered square area with weight 1
func MiddleArea(areaPer1000 int) camera.Area {
	return camera.Area{
		Left:   -areaPer1000,
		Top:    -areaPer1000,
		Right:  areaPer1000,
		Bottom: areaPer1000,
		Weight: 1,
	}
}

// findSettableValue returns the first desired value the device supports
func (s *Setter) findSettableValue(name string, supported []string, desired ...string) string {
	s.logger.Debug("Requesting value",
		zap.String("setting", name),
		zap.Strings("desired", desired),
		zap.Strings("supported", supported))

	for _, value := range desired {
		if slices.Contains(supported, value) {
			s.logger.Debug("Can set value", zap.String("setting", name), zap.String("value", value))
			return value
		}
	}

	s.logger.Debug("No supported values match", zap.String("setting", name))
	return ""
}

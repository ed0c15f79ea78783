package camera

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Flash modes reported and accepted by devices
const (
	FlashModeOff   = "off"
	FlashModeOn    = "on"
	FlashModeAuto  = "auto"
	FlashModeTorch = "torch"
)

// Focus modes reported and accepted by devices
const (
	FocusModeAuto              = "auto"
	FocusModeContinuousPicture = "continuous-picture"
	FocusModeContinuousVideo   = "continuous-video"
	FocusModeMacro             = "macro"
	FocusModeEDOF              = "edof"
	FocusModeFixed             = "fixed"
	FocusModeInfinity          = "infinity"
)

// Scene modes and color effects used by the optional features
const (
	SceneModeAuto    = "auto"
	SceneModeBarcode = "barcode"

	ColorEffectNone     = "none"
	ColorEffectNegative = "negative"
)

// DefaultDisplayOrientation is the rotation applied before reading parameters.
// Sensors report landscape sizes while the viewfinder is portrait.
const DefaultDisplayOrientation = 90

// Size is a width/height pair in pixels.
// It is used for the viewport, for device-advertised frame sizes and for the
// chosen preview resolution.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Area returns the number of pixels covered by the size.
func (s Size) Area() int {
	return s.Width * s.Height
}

// AspectRatio returns width divided by height, or 0 for a degenerate size.
func (s Size) AspectRatio() float64 {
	if s.Height == 0 {
		return 0
	}
	return float64(s.Width) / float64(s.Height)
}

// IsZero reports whether both dimensions are zero.
func (s Size) IsZero() bool {
	return s.Width == 0 && s.Height == 0
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Rotate swaps width and height.
func (s Size) Rotate() Size {
	return Size{Width: s.Height, Height: s.Width}
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// ParseSize parses a "WIDTHxHEIGHT" string such as "1280x720".
func ParseSize(s string) (Size, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != 2 {
		return Size{}, fmt.Errorf("invalid size %q (expected WIDTHxHEIGHT)", s)
	}

	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Size{}, fmt.Errorf("invalid width in size %q: %w", s, err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Size{}, fmt.Errorf("invalid height in size %q: %w", s, err)
	}

	if w <= 0 || h <= 0 {
		return Size{}, fmt.Errorf("invalid size %q (dimensions must be positive)", s)
	}

	return Size{Width: w, Height: h}, nil
}

// ParseSizeList parses a comma separated list of sizes ("1280x720,640x480").
// Empty entries are skipped.
func ParseSizeList(s string) ([]Size, error) {
	var sizes []Size
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		size, err := ParseSize(part)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, size)
	}
	return sizes, nil
}

// Area is a focus or metering rectangle in the driver's -1000..1000 coordinate
// space, with a relative weight.
type Area struct {
	Left   int `json:"left" yaml:"left"`
	Top    int `json:"top" yaml:"top"`
	Right  int `json:"right" yaml:"right"`
	Bottom int `json:"bottom" yaml:"bottom"`
	Weight int `json:"weight" yaml:"weight"`
}

func (a Area) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d,%d)", a.Left, a.Top, a.Right, a.Bottom, a.Weight)
}

// Parameters is a snapshot of the device's hardware settings.
//
// A snapshot is read from the device, modified, and written back. Callers must
// not keep a snapshot across calls; the device is the owner of the values.
type Parameters struct {
	PreviewSize           Size
	SupportedPreviewSizes []Size

	FlashMode           string
	SupportedFlashModes []string

	FocusMode           string
	SupportedFocusModes []string

	SceneMode           string
	SupportedSceneModes []string

	ColorEffect           string
	SupportedColorEffects []string

	// Exposure compensation is expressed in steps of ExposureCompensationStep EV.
	// A zero Min and Max means compensation is unsupported.
	ExposureCompensation     int
	MinExposureCompensation  int
	MaxExposureCompensation  int
	ExposureCompensationStep float64

	VideoStabilization          bool
	VideoStabilizationSupported bool

	MaxNumFocusAreas    int
	FocusAreas          []Area
	MaxNumMeteringAreas int
	MeteringAreas       []Area
}

// Clone returns a deep copy of the parameters.
func (p *Parameters) Clone() *Parameters {
	if p == nil {
		return nil
	}
	c := *p
	c.SupportedPreviewSizes = append([]Size(nil), p.SupportedPreviewSizes...)
	c.SupportedFlashModes = append([]string(nil), p.SupportedFlashModes...)
	c.SupportedFocusModes = append([]string(nil), p.SupportedFocusModes...)
	c.SupportedSceneModes = append([]string(nil), p.SupportedSceneModes...)
	c.SupportedColorEffects = append([]string(nil), p.SupportedColorEffects...)
	c.FocusAreas = append([]Area(nil), p.FocusAreas...)
	c.MeteringAreas = append([]Area(nil), p.MeteringAreas...)
	return &c
}

// Flatten renders the parameters as a "key=value;" string with sorted keys.
// The output is meant for diagnostics.
func (p *Parameters) Flatten() string {
	if p == nil {
		return ""
	}

	values := map[string]string{
		"preview-size":                  p.PreviewSize.String(),
		"preview-size-values":           joinSizes(p.SupportedPreviewSizes),
		"flash-mode":                    p.FlashMode,
		"flash-mode-values":             strings.Join(p.SupportedFlashModes, ","),
		"focus-mode":                    p.FocusMode,
		"focus-mode-values":             strings.Join(p.SupportedFocusModes, ","),
		"scene-mode":                    p.SceneMode,
		"scene-mode-values":             strings.Join(p.SupportedSceneModes, ","),
		"effect":                        p.ColorEffect,
		"effect-values":                 strings.Join(p.SupportedColorEffects, ","),
		"exposure-compensation":         strconv.Itoa(p.ExposureCompensation),
		"min-exposure-compensation":     strconv.Itoa(p.MinExposureCompensation),
		"max-exposure-compensation":     strconv.Itoa(p.MaxExposureCompensation),
		"exposure-compensation-step":    strconv.FormatFloat(p.ExposureCompensationStep, 'g', -1, 64),
		"video-stabilization":           strconv.FormatBool(p.VideoStabilization),
		"video-stabilization-supported": strconv.FormatBool(p.VideoStabilizationSupported),
		"max-num-focus-areas":           strconv.Itoa(p.MaxNumFocusAreas),
		"focus-areas":                   joinAreas(p.FocusAreas),
		"max-num-metering-areas":        strconv.Itoa(p.MaxNumMeteringAreas),
		"metering-areas":                joinAreas(p.MeteringAreas),
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(values[k])
		b.WriteByte(';')
	}
	return b.String()
}

func joinSizes(sizes []Size) string {
	parts := make([]string, len(sizes))
	for i, s := range sizes {
		parts[i] = s.String()
	}
	return strings.Join(parts, ",")
}

func joinAreas(areas []Area) string {
	parts := make([]string, len(areas))
	for i, a := range areas {
		parts[i] = a.String()
	}
	return strings.Join(parts, ",")
}

// TorchPreference is the persisted front light setting.
type TorchPreference int

const (
	// TorchAuto is the default; it leaves the torch off at configuration time
	TorchAuto TorchPreference = iota
	// TorchOn turns the torch on whenever parameters are applied
	TorchOn
	// TorchOff keeps the torch off
	TorchOff
)

func (t TorchPreference) String() string {
	switch t {
	case TorchAuto:
		return "auto"
	case TorchOn:
		return "on"
	case TorchOff:
		return "off"
	default:
		return fmt.Sprintf("TorchPreference(%d)", t)
	}
}

// ParseTorchPreference maps "on", "off" and "auto" (case-insensitive) to a
// TorchPreference. Anything else, including the empty string, is TorchAuto.
func ParseTorchPreference(s string) TorchPreference {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on":
		return TorchOn
	case "off":
		return TorchOff
	default:
		return TorchAuto
	}
}

// Feature names an optional device feature applied outside safe mode.
type Feature string

const (
	FeatureInvertColor        Feature = "invert-color"
	FeatureBarcodeSceneMode   Feature = "barcode-scene-mode"
	FeatureVideoStabilization Feature = "video-stabilization"
	FeatureFocusArea          Feature = "focus-area"
	FeatureMetering           Feature = "metering"
)

// featureOrder is the order in which enabled features are applied.
var featureOrder = []Feature{
	FeatureInvertColor,
	FeatureBarcodeSceneMode,
	FeatureVideoStabilization,
	FeatureFocusArea,
	FeatureMetering,
}

// Features returns every known feature in application order.
func Features() []Feature {
	return append([]Feature(nil), featureOrder...)
}

// FeatureTable maps optional features to whether they should be applied.
// Features missing from the table are disabled.
type FeatureTable map[Feature]bool

// DefaultFeatureTable returns a table with every feature disabled.
func DefaultFeatureTable() FeatureTable {
	table := make(FeatureTable, len(featureOrder))
	for _, f := range featureOrder {
		table[f] = false
	}
	return table
}

// Enabled returns the enabled features in application order.
func (t FeatureTable) Enabled() []Feature {
	var enabled []Feature
	for _, f := range featureOrder {
		if t[f] {
			enabled = append(enabled, f)
		}
	}
	return enabled
}

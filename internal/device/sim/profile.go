package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/muurk/scancam/internal/camera"
)

// Profile describes the behavior of a simulated camera.
// Sizes are written as "WIDTHxHEIGHT" strings.
type Profile struct {
	Name string `yaml:"name"`

	PreviewSizes       []string `yaml:"preview_sizes"`
	DefaultPreviewSize string   `yaml:"default_preview_size,omitempty"`

	// Substitutions maps a requested preview size to the size the driver
	// actually uses, emulating drivers that silently pick another size
	Substitutions map[string]string `yaml:"substitutions,omitempty"`

	FlashModes   []string `yaml:"flash_modes,omitempty"`
	FocusModes   []string `yaml:"focus_modes,omitempty"`
	SceneModes   []string `yaml:"scene_modes,omitempty"`
	ColorEffects []string `yaml:"color_effects,omitempty"`

	Exposure ExposureRange `yaml:"exposure"`

	VideoStabilization bool `yaml:"video_stabilization"`
	MaxFocusAreas      int  `yaml:"max_focus_areas"`
	MaxMeteringAreas   int  `yaml:"max_metering_areas"`

	// Fault switches
	ParametersUnavailable bool `yaml:"parameters_unavailable"`
	FailCommit            bool `yaml:"fail_commit"`
}

// ExposureRange is the exposure compensation range in steps
type ExposureRange struct {
	Min  int     `yaml:"min"`
	Max  int     `yaml:"max"`
	Step float64 `yaml:"step"`
}

// DefaultProfile returns a typical phone rear camera
func DefaultProfile() *Profile {
	return &Profile{
		Name: "generic-rear",
		PreviewSizes: []string{
			"1920x1080", "1440x1080", "1280x960", "1280x720",
			"960x720", "864x480", "800x480", "720x480",
			"640x480", "352x288", "320x240", "176x144",
		},
		DefaultPreviewSize: "640x480",
		FlashModes:         []string{camera.FlashModeOff, camera.FlashModeAuto, camera.FlashModeOn, camera.FlashModeTorch},
		FocusModes: []string{
			camera.FocusModeAuto, camera.FocusModeInfinity, camera.FocusModeMacro,
			camera.FocusModeContinuousVideo, camera.FocusModeContinuousPicture,
		},
		SceneModes:   []string{camera.SceneModeAuto, camera.SceneModeBarcode},
		ColorEffects: []string{camera.ColorEffectNone, camera.ColorEffectNegative},
		Exposure: ExposureRange{
			Min:  -12,
			Max:  12,
			Step: 1.0 / 6.0,
		},
		VideoStabilization: true,
		MaxFocusAreas:      1,
		MaxMeteringAreas:   1,
	}
}

// ParseProfile parses a YAML profile
func ParseProfile(data []byte) (*Profile, error) {
	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse device profile: %w", err)
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &profile, nil
}

// LoadProfile reads and parses a YAML profile file
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read device profile: %w", err)
	}
	return ParseProfile(data)
}

// Validate checks that every size in the profile parses
func (p *Profile) Validate() error {
	if _, err := p.previewSizes(); err != nil {
		return err
	}
	if p.DefaultPreviewSize != "" {
		if _, err := camera.ParseSize(p.DefaultPreviewSize); err != nil {
			return fmt.Errorf("default_preview_size: %w", err)
		}
	}
	if _, err := p.substitutions(); err != nil {
		return err
	}
	if p.Exposure.Min > p.Exposure.Max {
		return fmt.Errorf("exposure min %d is greater than max %d", p.Exposure.Min, p.Exposure.Max)
	}
	return nil
}

func (p *Profile) previewSizes() ([]camera.Size, error) {
	sizes := make([]camera.Size, 0, len(p.PreviewSizes))
	for _, s := range p.PreviewSizes {
		size, err := camera.ParseSize(s)
		if err != nil {
			return nil, fmt.Errorf("preview_sizes: %w", err)
		}
		sizes = append(sizes, size)
	}
	return sizes, nil
}

func (p *Profile) substitutions() (map[camera.Size]camera.Size, error) {
	subs := make(map[camera.Size]camera.Size, len(p.Substitutions))
	for from, to := range p.Substitutions {
		fromSize, err := camera.ParseSize(from)
		if err != nil {
			return nil, fmt.Errorf("substitutions: %w", err)
		}
		toSize, err := camera.ParseSize(to)
		if err != nil {
			return nil, fmt.Errorf("substitutions: %w", err)
		}
		subs[fromSize] = toSize
	}
	return subs, nil
}

// Marshal renders the profile as YAML
func (p *Profile) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal device profile: %w", err)
	}
	return data, nil
}

package camera

import (
	"strings"
	"testing"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		input   string
		want    Size
		wantErr bool
	}{
		{"1280x720", Size{Width: 1280, Height: 720}, false},
		{" 640X480 ", Size{Width: 640, Height: 480}, false},
		{"640 x 480", Size{Width: 640, Height: 480}, false},
		{"640", Size{}, true},
		{"640x", Size{}, true},
		{"ax480", Size{}, true},
		{"0x480", Size{}, true},
		{"640x480x3", Size{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSizeList(t *testing.T) {
	got, err := ParseSizeList("1280x720, 640x480,,352x288")
	if err != nil {
		t.Fatalf("ParseSizeList() error = %v", err)
	}
	if len(got) != 3 || got[2] != (Size{Width: 352, Height: 288}) {
		t.Errorf("ParseSizeList() = %v", got)
	}

	if _, err := ParseSizeList("1280x720,bogus"); err == nil {
		t.Error("ParseSizeList() should fail on a bad entry")
	}
}

func TestSizeHelpers(t *testing.T) {
	s := Size{Width: 1280, Height: 720}

	if s.Area() != 921600 {
		t.Errorf("Area() = %d", s.Area())
	}
	if s.Rotate() != (Size{Width: 720, Height: 1280}) {
		t.Errorf("Rotate() = %v", s.Rotate())
	}
	if s.String() != "1280x720" {
		t.Errorf("String() = %q", s.String())
	}
	if (Size{Width: 10}).AspectRatio() != 0 {
		t.Error("AspectRatio() of a zero height size should be 0")
	}
	if !(Size{}).IsZero() || (Size{}).Valid() {
		t.Error("zero size should be IsZero and not Valid")
	}
}

func TestParametersClone(t *testing.T) {
	p := &Parameters{
		SupportedFlashModes: []string{FlashModeOff, FlashModeTorch},
		FocusAreas:          []Area{{Left: -10, Top: -10, Right: 10, Bottom: 10, Weight: 1}},
	}

	c := p.Clone()
	c.SupportedFlashModes[0] = "changed"
	c.FocusAreas[0].Weight = 5

	if p.SupportedFlashModes[0] != FlashModeOff || p.FocusAreas[0].Weight != 1 {
		t.Error("Clone() should not share slices with the original")
	}

	var nilParams *Parameters
	if nilParams.Clone() != nil {
		t.Error("Clone() of nil should be nil")
	}
}

func TestParametersFlatten(t *testing.T) {
	p := &Parameters{
		PreviewSize:           Size{Width: 640, Height: 480},
		SupportedPreviewSizes: []Size{{Width: 1280, Height: 720}, {Width: 640, Height: 480}},
		FlashMode:             FlashModeTorch,
		ExposureCompensation:  -2,
	}

	flat := p.Flatten()

	for _, want := range []string{
		"preview-size=640x480;",
		"preview-size-values=1280x720,640x480;",
		"flash-mode=torch;",
		"exposure-compensation=-2;",
	} {
		if !strings.Contains(flat, want) {
			t.Errorf("Flatten() missing %q in %q", want, flat)
		}
	}

	if !strings.HasPrefix(flat, "effect=") {
		t.Errorf("Flatten() keys should be sorted, got %q", flat)
	}
	if p.Flatten() != flat {
		t.Error("Flatten() should be deterministic")
	}
}

func TestParseTorchPreference(t *testing.T) {
	tests := []struct {
		input string
		want  TorchPreference
	}{
		{"on", TorchOn},
		{"ON", TorchOn},
		{"off", TorchOff},
		{"auto", TorchAuto},
		{"", TorchAuto},
		{"sometimes", TorchAuto},
	}

	for _, tt := range tests {
		if got := ParseTorchPreference(tt.input); got != tt.want {
			t.Errorf("ParseTorchPreference(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFeatureTableEnabledOrder(t *testing.T) {
	table := FeatureTable{
		FeatureMetering:    true,
		FeatureInvertColor: true,
		FeatureFocusArea:   false,
	}

	got := table.Enabled()
	want := []Feature{FeatureInvertColor, FeatureMetering}
	if len(got) != len(want) {
		t.Fatalf("Enabled() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Enabled()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if len(DefaultFeatureTable().Enabled()) != 0 {
		t.Error("DefaultFeatureTable() should enable nothing")
	}
	if len(Features()) != 5 {
		t.Errorf("Features() = %v, want five features", Features())
	}
}

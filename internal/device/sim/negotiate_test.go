package sim_test

import (
	"testing"

	"go.uber.org/zap"

	"github.com/muurk/scancam/internal/camera"
	"github.com/muurk/scancam/internal/capability"
	"github.com/muurk/scancam/internal/device/sim"
)

func negotiate(t *testing.T, profile *sim.Profile, pref camera.TorchPreference, opts *camera.Options, safeMode bool) (*sim.Device, *camera.ConfigurationResult) {
	t.Helper()

	dev, err := sim.New(profile)
	if err != nil {
		t.Fatalf("sim.New() error = %v", err)
	}
	if opts == nil {
		opts = camera.DefaultOptions()
	}
	opts.Logger = zap.NewNop()

	mgr := camera.NewConfigurationManager(dev, capability.NewSetter(zap.NewNop()), camera.StaticTorchPreference(pref), opts)
	if _, _, err := mgr.InitFromDevice(camera.Size{Width: 1080, Height: 1920}, 0); err != nil {
		t.Fatalf("InitFromDevice() error = %v", err)
	}

	result, err := mgr.SetDesiredParameters(safeMode)
	if err != nil {
		t.Fatalf("SetDesiredParameters() error = %v", err)
	}
	return dev, result
}

func TestNegotiateDefaultProfile(t *testing.T) {
	dev, result := negotiate(t, nil, camera.TorchAuto, nil, false)

	want := camera.Size{Width: 1440, Height: 1080}
	if result.Resolution != want || result.Drift {
		t.Errorf("result = %+v, want %v without drift", result, want)
	}
	if dev.Orientation() != 90 {
		t.Errorf("Orientation() = %d, want 90", dev.Orientation())
	}

	p, _ := dev.Parameters()
	if p.PreviewSize != want {
		t.Errorf("PreviewSize = %v, want %v", p.PreviewSize, want)
	}
	if p.FocusMode != camera.FocusModeContinuousPicture {
		t.Errorf("FocusMode = %q, want continuous-picture", p.FocusMode)
	}
	if p.FlashMode != camera.FlashModeOff {
		t.Errorf("FlashMode = %q, want off", p.FlashMode)
	}
	// 1.5 EV at 1/6 EV per step
	if p.ExposureCompensation != 9 {
		t.Errorf("ExposureCompensation = %d, want 9", p.ExposureCompensation)
	}
}

func TestNegotiateTorchOnWithFeatures(t *testing.T) {
	opts := camera.DefaultOptions()
	for _, f := range camera.Features() {
		opts.Features[f] = true
	}

	dev, result := negotiate(t, nil, camera.TorchOn, opts, false)

	if !result.TorchOn || len(result.AppliedFeatures) != len(camera.Features()) {
		t.Errorf("result = %+v, want torch on with every feature", result)
	}

	p, _ := dev.Parameters()
	if p.FlashMode != camera.FlashModeTorch || p.ExposureCompensation != 0 {
		t.Errorf("flash=%q exposure=%d, want torch and 0", p.FlashMode, p.ExposureCompensation)
	}
	if p.ColorEffect != camera.ColorEffectNegative || p.SceneMode != camera.SceneModeBarcode {
		t.Errorf("effect=%q scene=%q, want negative and barcode", p.ColorEffect, p.SceneMode)
	}
	if len(p.FocusAreas) != 1 || len(p.MeteringAreas) != 1 || !p.VideoStabilization {
		t.Error("metering features should be committed")
	}
}

func TestNegotiateSafeModeSkipsFeatures(t *testing.T) {
	opts := camera.DefaultOptions()
	opts.Features[camera.FeatureInvertColor] = true

	dev, result := negotiate(t, nil, camera.TorchOn, opts, true)

	if len(result.AppliedFeatures) != 0 {
		t.Errorf("AppliedFeatures = %v, want none in safe mode", result.AppliedFeatures)
	}

	p, _ := dev.Parameters()
	if p.ColorEffect != camera.ColorEffectNone {
		t.Errorf("ColorEffect = %q, want none", p.ColorEffect)
	}
	if p.FlashMode != camera.FlashModeTorch {
		t.Errorf("FlashMode = %q, torch should be honored in safe mode", p.FlashMode)
	}
	if p.FocusMode != camera.FocusModeAuto {
		t.Errorf("FocusMode = %q, want auto in safe mode", p.FocusMode)
	}
}

func TestNegotiateDrift(t *testing.T) {
	profile := sim.DefaultProfile()
	profile.Substitutions = map[string]string{"1440x1080": "1280x720"}

	_, result := negotiate(t, profile, camera.TorchAuto, nil, false)

	if !result.Drift || result.Resolution != (camera.Size{Width: 1280, Height: 720}) {
		t.Errorf("result = %+v, want drift to 1280x720", result)
	}
	if len(result.Warnings) != 1 || !camera.IsResolutionDrift(result.Warnings[0]) {
		t.Errorf("Warnings = %v", result.Warnings)
	}
}

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/muurk/scancam/internal/camera"
)

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS == "linux" {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	}

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	if !strings.Contains(configDir, "scancam") {
		t.Errorf("GetConfigDir() = %v, should contain 'scancam'", configDir)
	}

	t.Logf("Config directory: %s", configDir)
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv(PathEnvVar, "")

	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestGetConfigPathOverride(t *testing.T) {
	want := filepath.Join(t.TempDir(), "custom.yaml")
	t.Setenv(PathEnvVar, want)

	got, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if got != want {
		t.Errorf("GetConfigPath() = %v, want %v", got, want)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	settings, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if settings.Version != CurrentVersion {
		t.Errorf("Version = %v, want %v", settings.Version, CurrentVersion)
	}
	if settings.TorchPreference() != camera.TorchAuto {
		t.Errorf("TorchPreference() = %v, want auto", settings.TorchPreference())
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	settings := NewSettings()
	if err := settings.SetFrontLightMode("on"); err != nil {
		t.Fatalf("SetFrontLightMode() error = %v", err)
	}
	settings.Camera.InvertScan = true
	settings.Display.ChromeHeightOffset = 120
	settings.Device.Path = "/dev/video0"

	if err := settings.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not remain after save")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "# scancam configuration file") {
		t.Error("saved file should start with the header comment")
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if loaded.TorchPreference() != camera.TorchOn {
		t.Errorf("TorchPreference() = %v, want on", loaded.TorchPreference())
	}
	if !loaded.Camera.InvertScan {
		t.Error("InvertScan should survive a round trip")
	}
	if loaded.ChromeHeightOffset() != 120 {
		t.Errorf("ChromeHeightOffset() = %v, want 120", loaded.ChromeHeightOffset())
	}
	if loaded.Device.Path != "/dev/video0" {
		t.Errorf("Device.Path = %v, want /dev/video0", loaded.Device.Path)
	}
}

func TestLoadFromPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "version: 1\ncamera:\n  front_light_mode: off\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	settings, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if settings.TorchPreference() != camera.TorchOff {
		t.Errorf("TorchPreference() = %v, want off", settings.TorchPreference())
	}
	if settings.Display == nil || settings.Device == nil {
		t.Fatal("missing sections should be filled with defaults")
	}
	if got := settings.DisplaySize(); got != (camera.Size{Width: 1080, Height: 1920}) {
		t.Errorf("DisplaySize() = %v, want 1080x1920", got)
	}
}

func TestLoadFromRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 7\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() should reject an unsupported version")
	}
}

func TestLoadFromInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("camera: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() should fail on invalid YAML")
	}
}

func TestSaveUsesOverridePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	t.Setenv(PathEnvVar, path)

	if err := NewSettings().Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Version != CurrentVersion {
		t.Errorf("Version = %v, want %v", loaded.Version, CurrentVersion)
	}
}

func BenchmarkGetConfigDir(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = GetConfigDir()
	}
}

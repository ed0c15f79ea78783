package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/muurk/scancam/internal/camera"
	"github.com/muurk/scancam/internal/capability"
	"github.com/muurk/scancam/internal/config"
	"github.com/muurk/scancam/internal/device/sim"
	"github.com/muurk/scancam/internal/logging"
	"github.com/muurk/scancam/internal/ui"
)

// Device selection flags, shared by negotiate and torch
var (
	devicePath  string
	profilePath string
)

// negotiate flags
var (
	displayFlag  string
	chromeOffset int
	safeMode     bool
)

// select flags
var (
	sizesFlag    string
	viewportFlag string
)

func init() {
	for _, cmd := range []*cobra.Command{negotiateCmd, torchCmd} {
		cmd.PersistentFlags().StringVar(&devicePath, "device", "", "V4L2 device node, e.g. /dev/video0 (Linux only)")
		cmd.PersistentFlags().StringVar(&profilePath, "profile", "", "Simulated device profile (YAML)")
	}

	negotiateCmd.Flags().StringVar(&displayFlag, "display", "", "Display size WIDTHxHEIGHT (default from settings)")
	negotiateCmd.Flags().IntVar(&chromeOffset, "chrome-offset", -1, "Height reserved for UI chrome (default from settings)")
	negotiateCmd.Flags().BoolVar(&safeMode, "safe-mode", false, "Apply the minimal configuration only")

	selectCmd.Flags().StringVar(&sizesFlag, "sizes", "", "Comma separated preview sizes, e.g. 1280x720,640x480 (required)")
	selectCmd.Flags().StringVar(&viewportFlag, "viewport", "", "Portrait viewport WIDTHxHEIGHT (required)")
	_ = selectCmd.MarkFlagRequired("sizes")
	_ = selectCmd.MarkFlagRequired("viewport")

	torchCmd.AddCommand(torchOnCmd, torchOffCmd, torchStatusCmd)
	prefsCmd.AddCommand(prefsShowCmd, prefsSetLightCmd, prefsPathCmd)

	rootCmd.AddCommand(negotiateCmd, selectCmd, torchCmd, prefsCmd)
}

// negotiateCmd runs a full negotiation against a device
var negotiateCmd = &cobra.Command{
	Use:   "negotiate",
	Short: "Negotiate and apply a preview configuration",
	Long: `Negotiate a preview configuration with a camera and apply it.

This command will:
  1. Rotate the display and refresh the device parameters
  2. Select a preview size for the viewport (display minus chrome height)
  3. Apply torch, exposure and focus, plus optional features unless in safe mode
  4. Read the parameters back and adopt the preview size the device uses

Without --device or --profile the device from the settings file is used,
falling back to a built-in simulated camera.`,
	Example: `  # Negotiate with the built-in simulated camera
  scancam negotiate

  # A simulated camera that substitutes preview sizes
  scancam negotiate --profile drifting.yaml --display 720x1280

  # A real camera, minimal configuration
  scancam negotiate --device /dev/video0 --safe-mode`,
	RunE: runNegotiate,
}

func runNegotiate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	display, offset, err := resolveDisplay(settings, displayFlag, chromeOffset)
	if err != nil {
		return err
	}
	safe := safeMode || settings.Camera.SafeMode

	dev, name, closeDevice, err := openDevice(settings)
	if err != nil {
		return err
	}
	defer closeDevice()

	fmt.Fprintln(out, ui.NewHeader("Camera negotiation", cmd.CommandPath()).
		AddParam("Device", name).
		AddParam("Display", display.String()).
		AddParam("Chrome offset", strconv.Itoa(offset)).
		AddParam("Front light", settings.TorchPreference().String()).
		AddParam("Safe mode", strconv.FormatBool(safe)).
		Render())

	mgr := camera.NewConfigurationManager(dev, capability.NewSetter(nil), settings, settings.CameraOptions())

	screen, _, err := mgr.InitFromDevice(display, offset)
	if err != nil {
		fmt.Fprintln(out, ui.FailureResult("Preview size selection failed", err).Render())
		return fmt.Errorf("negotiation failed: %w", err)
	}

	result, err := mgr.SetDesiredParameters(safe)
	if err != nil {
		fmt.Fprintln(out, ui.FailureResult("Applying camera parameters failed", err).Render())
		return fmt.Errorf("negotiation failed: %w", err)
	}

	fmt.Fprintln(out, ui.NegotiationResult(screen, result).Render())
	return nil
}

// selectCmd runs the preview size selection on its own
var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Pick a preview size for a viewport without a device",
	Long: `Run the preview size selection on a list of sizes.

Sizes are sensor (landscape) sizes; the viewport is the portrait area the
preview is shown in. The first size, largest area first, whose aspect ratio
is below the viewport's sensor-orientation ratio is chosen. Otherwise the
largest size that fits within the viewport is chosen.`,
	Example: `  scancam select --sizes 1280x720,640x480,352x288 --viewport 480x800`,
	RunE:    runSelect,
}

func runSelect(cmd *cobra.Command, args []string) error {
	sizes, err := camera.ParseSizeList(sizesFlag)
	if err != nil {
		return err
	}
	viewport, err := camera.ParseSize(viewportFlag)
	if err != nil {
		return err
	}

	best, err := camera.SelectPreviewSize(sizes, viewport.Height, viewport.Width)
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), ui.FailureResult("No preview size", err).Render())
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), ui.NewSuccessResult("Preview size selected").
		AddDetail("Viewport", viewport.String()).
		AddDetail("Candidates", strconv.Itoa(len(sizes))).
		AddDetail("Preview size", best.String()).
		Render())
	return nil
}

// torchCmd groups the torch subcommands
var torchCmd = &cobra.Command{
	Use:   "torch",
	Short: "Switch or query the torch",
	Long: `Switch the torch for the current session or query its state.

Switching the torch does not change the front light preference; use
'scancam prefs set-light' for that.`,
}

var torchOnCmd = &cobra.Command{
	Use:   "on",
	Short: "Turn the torch on",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTorch(cmd, true)
	},
}

var torchOffCmd = &cobra.Command{
	Use:   "off",
	Short: "Turn the torch off",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTorch(cmd, false)
	},
}

var torchStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the torch is lit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		dev, name, closeDevice, err := openDevice(settings)
		if err != nil {
			return err
		}
		defer closeDevice()

		mgr := camera.NewConfigurationManager(dev, capability.NewSetter(nil), settings, settings.CameraOptions())
		printTorch(cmd.OutOrStdout(), name, mgr.TorchState(), settings.TorchPreference())
		return nil
	},
}

func runTorch(cmd *cobra.Command, on bool) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	dev, name, closeDevice, err := openDevice(settings)
	if err != nil {
		return err
	}
	defer closeDevice()

	mgr := camera.NewConfigurationManager(dev, capability.NewSetter(nil), settings, settings.CameraOptions())
	if err := mgr.SetTorch(on); err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), ui.FailureResult("Torch not switched", err).Render())
		return err
	}

	printTorch(cmd.OutOrStdout(), name, mgr.TorchState(), settings.TorchPreference())
	return nil
}

func printTorch(out io.Writer, device string, lit bool, pref camera.TorchPreference) {
	state := "off"
	if lit {
		state = "on"
	}
	fmt.Fprintln(out, ui.NewSuccessResult("Torch "+state).
		AddDetail("Device", device).
		AddDetail("Torch", state).
		AddDetail("Front light", pref.String()).
		Render())
}

// prefsCmd groups the settings subcommands
var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change scanning preferences",
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(settings)
		if err != nil {
			return fmt.Errorf("failed to marshal settings: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var prefsSetLightCmd = &cobra.Command{
	Use:       "set-light on|off|auto",
	Short:     "Set the front light mode",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off", "auto"},
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		if err := settings.SetFrontLightMode(args[0]); err != nil {
			return err
		}

		path, err := settingsPath()
		if err != nil {
			return err
		}
		if err := settings.SaveTo(path); err != nil {
			return err
		}

		logging.Info("Front light mode saved", zap.String("mode", settings.Camera.FrontLightMode), zap.String("path", path))
		fmt.Fprintln(cmd.OutOrStdout(), ui.NewSuccessResult("Front light mode saved").
			AddDetail("Front light", settings.Camera.FrontLightMode).
			AddDetail("Settings", path).
			Render())
		return nil
	},
}

var prefsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := settingsPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func settingsPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

func loadSettings() (*config.Settings, error) {
	path, err := settingsPath()
	if err != nil {
		return nil, err
	}
	return config.LoadFrom(path)
}

// resolveDisplay applies the command line overrides to the configured display
func resolveDisplay(settings *config.Settings, display string, offset int) (camera.Size, int, error) {
	size := settings.DisplaySize()
	if display != "" {
		parsed, err := camera.ParseSize(display)
		if err != nil {
			return camera.Size{}, 0, fmt.Errorf("invalid --display: %w", err)
		}
		size = parsed
	}

	if offset < 0 {
		offset = settings.ChromeHeightOffset()
	}
	return size, offset, nil
}

// openDevice picks the device from the flags, then the settings file, then
// falls back to the default simulated camera. The returned function closes it.
func openDevice(settings *config.Settings) (camera.Device, string, func(), error) {
	path := devicePath
	profile := profilePath
	if path == "" && profile == "" && settings.Device != nil {
		path = settings.Device.Path
		profile = settings.Device.Profile
	}

	if path != "" && profile != "" {
		return nil, "", nil, errors.New("--device and --profile are mutually exclusive")
	}

	if path != "" {
		dev, closeFn, err := openV4L2(path)
		if err != nil {
			return nil, "", nil, err
		}
		return dev, path, func() {
			if err := closeFn(); err != nil {
				logging.Warn("Failed to close device", zap.String("path", path), zap.Error(err))
			}
		}, nil
	}

	var p *sim.Profile
	if profile != "" {
		loaded, err := sim.LoadProfile(profile)
		if err != nil {
			return nil, "", nil, err
		}
		p = loaded
	}

	dev, err := sim.New(p)
	if err != nil {
		return nil, "", nil, err
	}
	name := "simulated"
	if dev.Name() != "" {
		name += " (" + dev.Name() + ")"
	}
	return dev, name, func() {}, nil
}

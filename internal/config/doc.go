// Package config provides user settings for scancam.
//
// Settings live in a YAML file that follows OS conventions for its location
// (see GetConfigDir) and can be moved with the SCANCAM_CONFIG environment
// variable. The file holds the scanning preferences that drive camera
// negotiation: the front light mode, focus preferences, the optional feature
// switches, the display geometry and the device to open.
//
// Settings implements camera.TorchPreferenceSource, so a loaded file can be
// handed directly to the configuration manager:
//
//	settings, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	mgr := camera.NewConfigurationManager(dev, caps, settings, settings.CameraOptions())
//
// Saving writes a temporary file and renames it over the original.
package config

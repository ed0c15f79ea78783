// Package camera negotiates an operating configuration for an imaging sensor.
//
// The package selects a preview resolution from the sizes a device advertises,
// applies it together with focus, torch and exposure settings, and reconciles
// the result against what the device actually accepted. Feature toggles are
// delegated to a Capabilities implementation so that device-specific support
// stays outside this package.
//
// # Negotiation Flow
//
// A capture session drives the manager in one direction:
//  1. InitFromDevice rotates the display, refreshes the driver's parameters
//     and selects the preview size that best fits the viewport
//  2. SetDesiredParameters applies torch, focus and optional features, writes
//     the preview size and commits the parameters
//  3. The committed parameters are read back; if the driver substituted a
//     different preview size, the manager adopts it and reports the drift
//
// # Usage Example
//
//	mgr := camera.NewConfigurationManager(dev, capability.NewSetter(logger), settings, nil)
//
//	screen, preview, err := mgr.InitFromDevice(camera.Size{Width: 1080, Height: 1920}, 120)
//	if err != nil {
//	    log.Fatal(err) // no usable preview size
//	}
//
//	result, err := mgr.SetDesiredParameters(false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if result.Drift {
//	    log.Printf("device chose %s instead of %s", result.Resolution, result.Requested)
//	}
//
// # Torch
//
// The torch follows the persisted front light preference when parameters are
// applied and can be overridden for the rest of the session with SetTorch.
// Exposure compensation is coupled to the torch state: with the light on the
// target compensation is lowered.
//
// # Error Handling
//
// Only conditions that leave the session without a usable configuration are
// returned as errors (see CameraError and IsFatal). Missing parameters and
// resolution drift are recovered in place, logged at warning level, and listed
// in ConfigurationResult.Warnings.
//
// # Thread Safety
//
// ConfigurationManager is not safe for concurrent use. The device handle is an
// exclusive resource and callers must serialize access to it, typically from a
// single capture goroutine.
package camera

package camera

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the category of a negotiation condition
type ErrorType int

const (
	// ErrTypeNoCompatibleSize indicates that no advertised frame size can be used
	ErrTypeNoCompatibleSize ErrorType = iota
	// ErrTypeParametersUnavailable indicates the device returned no parameter snapshot
	ErrTypeParametersUnavailable
	// ErrTypeResolutionDrift indicates the device accepted a different preview size
	ErrTypeResolutionDrift
	// ErrTypeInvalidViewport indicates the viewport has no usable area
	ErrTypeInvalidViewport
	// ErrTypeNotInitialized indicates parameters were applied before InitFromDevice
	ErrTypeNotInitialized
	// ErrTypeDevice indicates a device call failed (orientation, size query, commit)
	ErrTypeDevice
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNoCompatibleSize:
		return "No Compatible Size"
	case ErrTypeParametersUnavailable:
		return "Parameters Unavailable"
	case ErrTypeResolutionDrift:
		return "Resolution Drift"
	case ErrTypeInvalidViewport:
		return "Invalid Viewport"
	case ErrTypeNotInitialized:
		return "Not Initialized"
	case ErrTypeDevice:
		return "Device Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// CameraError describes a negotiation failure or a recovered condition
type CameraError struct {
	Type      ErrorType // Category of error
	Message   string    // Human-readable error message
	Err       error     // Underlying error (if any)
	Requested Size      // Requested preview size (drift only)
	Actual    Size      // Size the device actually uses (drift only)
}

// Error implements the error interface
func (e *CameraError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *CameraError) Unwrap() error {
	return e.Err
}

// NewNoCompatibleSizeError creates the error returned when selection fails
func NewNoCompatibleSizeError(message string) *CameraError {
	return &CameraError{
		Type:    ErrTypeNoCompatibleSize,
		Message: message,
	}
}

// NewParametersUnavailableError creates the condition for a missing parameter snapshot
func NewParametersUnavailableError(message string, err error) *CameraError {
	return &CameraError{
		Type:    ErrTypeParametersUnavailable,
		Message: message,
		Err:     err,
	}
}

// NewResolutionDriftError creates the condition for a substituted preview size
func NewResolutionDriftError(requested, actual Size) *CameraError {
	return &CameraError{
		Type:      ErrTypeResolutionDrift,
		Message:   fmt.Sprintf("requested preview size %s, device uses %s", requested, actual),
		Requested: requested,
		Actual:    actual,
	}
}

// NewInvalidViewportError creates a viewport validation error
func NewInvalidViewportError(message string) *CameraError {
	return &CameraError{
		Type:    ErrTypeInvalidViewport,
		Message: message,
	}
}

// NewNotInitializedError creates the error for applying parameters too early
func NewNotInitializedError() *CameraError {
	return &CameraError{
		Type:    ErrTypeNotInitialized,
		Message: "InitFromDevice must be called before applying parameters",
	}
}

// NewDeviceError wraps a failed device call
func NewDeviceError(message string, err error) *CameraError {
	return &CameraError{
		Type:    ErrTypeDevice,
		Message: message,
		Err:     err,
	}
}

func errorType(err error) (ErrorType, bool) {
	var camErr *CameraError
	if errors.As(err, &camErr) {
		return camErr.Type, true
	}
	return 0, false
}

func hasType(err error, t ErrorType) bool {
	et, ok := errorType(err)
	return ok && et == t
}

// IsNoCompatibleSize checks if an error reports a failed size selection
func IsNoCompatibleSize(err error) bool {
	return hasType(err, ErrTypeNoCompatibleSize)
}

// IsParametersUnavailable checks if an error reports a missing parameter snapshot
func IsParametersUnavailable(err error) bool {
	return hasType(err, ErrTypeParametersUnavailable)
}

// IsResolutionDrift checks if an error reports a substituted preview size
func IsResolutionDrift(err error) bool {
	return hasType(err, ErrTypeResolutionDrift)
}

// IsDeviceError checks if an error reports a failed device call
func IsDeviceError(err error) bool {
	return hasType(err, ErrTypeDevice)
}

// IsFatal checks if an error leaves the session without a usable configuration.
// Missing parameters and resolution drift are recovered in place and are not fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	et, ok := errorType(err)
	if !ok {
		return true
	}
	return et != ErrTypeParametersUnavailable && et != ErrTypeResolutionDrift
}

// GetTroubleshootingHint returns user-friendly troubleshooting advice for an error
func GetTroubleshootingHint(err error) string {
	et, ok := errorType(err)
	if !ok {
		return "An unexpected error occurred. Please try again."
	}

	switch et {
	case ErrTypeNoCompatibleSize:
		return strings.Join([]string{
			"The camera does not offer a usable preview size.",
			"Troubleshooting:",
			"  • Check that the device reports at least one preview size",
			"  • Reduce the reserved chrome height so the viewport is larger",
			"  • Try a different capture format or device profile",
		}, "\n")

	case ErrTypeParametersUnavailable:
		return strings.Join([]string{
			"The camera did not return its parameters.",
			"Configuration was skipped; the preview keeps its previous settings.",
			"Troubleshooting:",
			"  • Re-open the camera and try again",
			"  • Check whether another process holds the device",
		}, "\n")

	case ErrTypeResolutionDrift:
		return "The camera chose a different preview size than requested. The actual size is used."

	case ErrTypeInvalidViewport:
		return strings.Join([]string{
			"The viewport has no usable area.",
			"Troubleshooting:",
			"  • Check the display size",
			"  • The chrome height offset must be smaller than the display height",
		}, "\n")

	case ErrTypeNotInitialized:
		return "Initialize the session from the device before applying parameters."

	case ErrTypeDevice:
		return strings.Join([]string{
			"The camera rejected a request.",
			"Troubleshooting:",
			"  • Retry in safe mode to skip optional features",
			"  • Check that the device is still connected",
			"  • Inspect the debug log (SCANCAM_LOG_LEVEL=debug) for the rejected parameters",
		}, "\n")

	default:
		return "An error occurred. Please check the error message for details."
	}
}

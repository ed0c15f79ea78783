package ui

import (
	"strings"

	"github.com/muurk/scancam/internal/camera"
)

// NegotiationResult builds the result box for a completed negotiation.
// Recovered conditions turn the box into a warning.
func NegotiationResult(screen camera.Size, result *camera.ConfigurationResult) *Result {
	r := NewSuccessResult("Camera configured")
	if len(result.Warnings) > 0 {
		r = NewWarningResult("Camera configured with warnings")
	}

	r.AddDetail("Viewport", screen.String())
	r.AddDetail("Preview size", result.Resolution.String())
	if result.Drift {
		r.AddDetail("Requested size", result.Requested.String())
	}
	r.AddDetail("Torch", onOff(result.TorchOn))
	r.AddDetail("Safe mode", onOff(result.SafeMode))
	r.AddDetail("Features", featureList(result))

	for _, w := range result.Warnings {
		r.AddNote(w.Error())
	}
	return r
}

// FailureResult builds the result box for a failed command, with the
// troubleshooting hint for camera errors
func FailureResult(title string, err error) *Result {
	return NewFailureResult(title, err, HintLines(camera.GetTroubleshootingHint(err)))
}

// HintLines splits a troubleshooting hint into lines, dropping the
// "Troubleshooting:" heading the box already shows
func HintLines(hint string) []string {
	var lines []string
	for _, line := range strings.Split(hint, "\n") {
		if strings.TrimSpace(line) == "" || strings.TrimSpace(line) == "Troubleshooting:" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func featureList(result *camera.ConfigurationResult) string {
	if result.SafeMode {
		return "skipped (safe mode)"
	}
	if len(result.AppliedFeatures) == 0 {
		return "none"
	}
	names := make([]string, len(result.AppliedFeatures))
	for i, f := range result.AppliedFeatures {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

package camera

import (
	"cmp"
	"fmt"
	"slices"
)

// SelectPreviewSize picks the preview size for a portrait viewport.
//
// Sensors report landscape sizes, so the viewport is compared in sensor
// orientation: its height is the target width and its width the target height.
// Candidates are ordered by area, largest first (stable for equal areas).
//
// The first candidate whose aspect ratio is below the target ratio wins. This
// is a first-match rule, not a closest-ratio search. If no candidate qualifies,
// the first candidate that fits within the target bounds is returned. If that
// also fails, a NoCompatibleSize error is returned.
func SelectPreviewSize(sizes []Size, viewportHeight, viewportWidth int) (Size, error) {
	target := Size{Width: viewportHeight, Height: viewportWidth}
	if !target.Valid() {
		return Size{}, NewInvalidViewportError(fmt.Sprintf("viewport %dx%d has no area", viewportWidth, viewportHeight))
	}

	candidates := SortByArea(sizes)
	if len(candidates) == 0 {
		return Size{}, NewNoCompatibleSizeError("device reports no preview sizes")
	}

	targetRatio := target.AspectRatio()

	for _, size := range candidates {
		if targetRatio > size.AspectRatio() {
			return size, nil
		}
	}

	// No aspect ratio match; fall back to the largest size that fits
	for _, size := range candidates {
		if size.Width <= target.Width && size.Height <= target.Height {
			return size, nil
		}
	}

	return Size{}, NewNoCompatibleSizeError(fmt.Sprintf(
		"none of %d preview sizes matches the %s viewport ratio or fits within it",
		len(candidates), target.Rotate()))
}

// SortByArea returns a copy of sizes ordered by area, largest first.
// Sizes with a non-positive dimension are dropped. Equal areas keep their
// original order.
func SortByArea(sizes []Size) []Size {
	sorted := make([]Size, 0, len(sizes))
	for _, s := range sizes {
		if s.Valid() {
			sorted = append(sorted, s)
		}
	}

	slices.SortStableFunc(sorted, func(a, b Size) int {
		return cmp.Compare(b.Area(), a.Area())
	})

	return sorted
}

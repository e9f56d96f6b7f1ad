// Package geometry computes derived sizes for composited outputs.
package geometry

import (
	"image"
	"math"
)

// FallbackLogoScale is used when the configured logo sizing cannot fit.
const FallbackLogoScale = 0.2

// IconPadding is the transparent border around square legacy launcher icons.
const IconPadding = 8

// IconCornerRadius is the corner radius of the optional rounded legacy icon mask.
const IconCornerRadius = 4

// AdaptiveInset is the inset applied to both adaptive icon layers.
const AdaptiveInset = "16.7%"

// Overlay is the resolved logo width for one canvas.
type Overlay struct {
	Width int
	// Degraded is set when neither the explicit width nor the scale fit the
	// canvas and FallbackLogoScale was used instead.
	Degraded bool
}

// OverlayWidth resolves the logo width for a canvasW x canvasH canvas.
// targetWidth <= 0 means no explicit override.
func OverlayWidth(canvasW, canvasH int, scale float64, targetWidth int) Overlay {
	scaled := floorScale(canvasW, scale)
	w := scaled
	if targetWidth > 0 {
		w = targetWidth
	}
	if fits(w, canvasW, canvasH) {
		return Overlay{Width: w}
	}
	if fits(scaled, canvasW, canvasH) {
		return Overlay{Width: scaled}
	}
	return Overlay{Width: floorScale(canvasW, FallbackLogoScale), Degraded: true}
}

func fits(w, canvasW, canvasH int) bool { return w <= canvasW && w <= canvasH }

func floorScale(n int, scale float64) int { return int(math.Floor(float64(n) * scale)) }

// PaddedSize returns the inner size of a width x height icon padded by pad on
// every side, clamped at zero.
func PaddedSize(width, height, pad int) (int, int) {
	return max(0, width-2*pad), max(0, height-2*pad)
}

// CenterOffset returns the top-left point that centres an inner rectangle on
// an outer one.  Odd remainders round toward the top-left.
func CenterOffset(outerW, outerH, innerW, innerH int) image.Point {
	return image.Pt((outerW-innerW)/2, (outerH-innerH)/2)
}

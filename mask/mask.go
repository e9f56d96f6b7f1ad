// Package mask renders the SVG shapes used to clip launcher icons into alpha
// masks.  Opaque mask pixels keep the underlying image; transparent ones drop it.
package mask

import (
	"fmt"
	"image"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// CircleSVG returns an SVG document with a white circle inscribed in a
// width x height box, radius half the width.
func CircleSVG(width, height int) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
		`<circle cx="%g" cy="%g" r="%g" fill="#ffffff"/></svg>`,
		width, height, width, height, float64(width)/2, float64(height)/2, float64(width)/2)
}

// RoundedRectSVG returns an SVG document with a white width x height rectangle
// whose corners have the given radius.
func RoundedRectSVG(width, height, radius int) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
		`<rect x="0" y="0" width="%d" height="%d" rx="%d" ry="%d" fill="#ffffff"/></svg>`,
		width, height, width, height, width, height, radius, radius)
}

// Circle rasterises CircleSVG.
func Circle(width, height int) (*image.RGBA, error) {
	return Rasterize(CircleSVG(width, height), width, height)
}

// RoundedRect rasterises RoundedRectSVG.
func RoundedRect(width, height, radius int) (*image.RGBA, error) {
	return Rasterize(RoundedRectSVG(width, height, radius), width, height)
}

// Rasterize draws an SVG document onto a transparent width x height image.
func Rasterize(svg string, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("mask: invalid size %dx%d", width, height)
	}
	icon, err := oksvg.ReadIconStream(strings.NewReader(svg))
	if err != nil {
		return nil, fmt.Errorf("mask: parse svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1.0)
	return rgba, nil
}

// Package native implements core.Raster in pure Go on top of image.Image.
package native

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"

	"github.com/Skryldev/asset-generator/core"
	apperrors "github.com/Skryldev/asset-generator/errors"
	"github.com/Skryldev/asset-generator/geometry"
	"github.com/Skryldev/asset-generator/utils"
)

// Raster is the CGO-free raster backend.  It is stateless and safe for
// concurrent use.
type Raster struct {
	// Filter is the resampling kernel.  Defaults to Lanczos.
	Filter imaging.ResampleFilter
}

// New returns a Raster using the Lanczos kernel.
func New() *Raster { return &Raster{Filter: imaging.Lanczos} }

func (r *Raster) Canvas(width, height int, fill color.Color) (*core.ImageData, error) {
	if width <= 0 || height <= 0 {
		return nil, invalid("native.canvas", width, height)
	}
	return wrap(imaging.New(width, height, fill)), nil
}

func (r *Raster) Resize(img *core.ImageData, width, height int) (*core.ImageData, error) {
	src, err := pixels("native.resize", img)
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	dstW, dstH := utils.ScaleDimensions(b.Dx(), b.Dy(), width, height)
	if dstW <= 0 || dstH <= 0 {
		return nil, invalid("native.resize", dstW, dstH)
	}
	if dstW == b.Dx() && dstH == b.Dy() {
		return img, nil // nothing to do
	}
	return wrap(imaging.Resize(src, dstW, dstH, r.filter())), nil
}

func (r *Raster) Fill(img *core.ImageData, width, height int) (*core.ImageData, error) {
	src, err := pixels("native.fill", img)
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, invalid("native.fill", width, height)
	}
	b := src.Bounds()
	if width == b.Dx() && height == b.Dy() {
		return img, nil
	}
	return wrap(imaging.Fill(src, width, height, imaging.Center, r.filter())), nil
}

func (r *Raster) Extend(img *core.ImageData, pad core.Insets, fill color.Color) (*core.ImageData, error) {
	src, err := pixels("native.extend", img)
	if err != nil {
		return nil, err
	}
	if pad.Top < 0 || pad.Right < 0 || pad.Bottom < 0 || pad.Left < 0 {
		return nil, apperrors.New(apperrors.CategoryPipeline, "native.extend",
			fmt.Errorf("%w: negative padding %+v", apperrors.ErrInvalidDimensions, pad))
	}
	b := src.Bounds()
	canvas := imaging.New(b.Dx()+pad.Left+pad.Right, b.Dy()+pad.Top+pad.Bottom, fill)
	return wrap(imaging.Paste(canvas, src, image.Pt(pad.Left, pad.Top))), nil
}

// Mask keeps src scaled by the mask's alpha: drawing src onto a transparent
// destination with the Src op and a mask is exactly the dest-in blend.
func (r *Raster) Mask(img *core.ImageData, m image.Image) (*core.ImageData, error) {
	src, err := pixels("native.mask", img)
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.DrawMask(dst, dst.Bounds(), src, b.Min, m, m.Bounds().Min, xdraw.Src)
	return wrap(dst), nil
}

func (r *Raster) Composite(base, overlay *core.ImageData) (*core.ImageData, error) {
	bg, err := pixels("native.composite", base)
	if err != nil {
		return nil, err
	}
	fg, err := pixels("native.composite", overlay)
	if err != nil {
		return nil, err
	}
	bb, fb := bg.Bounds(), fg.Bounds()
	pos := geometry.CenterOffset(bb.Dx(), bb.Dy(), fb.Dx(), fb.Dy()).Add(bb.Min)
	return wrap(imaging.Overlay(bg, fg, pos, 1.0)), nil
}

func (r *Raster) filter() imaging.ResampleFilter {
	if r.Filter.Support == 0 && r.Filter.Kernel == nil {
		return imaging.Lanczos
	}
	return r.Filter
}

func pixels(op string, img *core.ImageData) (image.Image, error) {
	if img == nil || img.Image == nil {
		return nil, apperrors.New(apperrors.CategoryPipeline, op, apperrors.ErrEmptyInput)
	}
	src, ok := img.Image.(image.Image)
	if !ok {
		return nil, apperrors.New(apperrors.CategoryPipeline, op,
			fmt.Errorf("%w: got %T", apperrors.ErrBackendMismatch, img.Image))
	}
	return src, nil
}

func wrap(img image.Image) *core.ImageData {
	b := img.Bounds()
	return &core.ImageData{
		Image:  img,
		Format: core.FormatUnknown,
		Meta: core.Metadata{
			Width:    b.Dx(),
			Height:   b.Dy(),
			HasAlpha: true,
		},
	}
}

func invalid(op string, w, h int) error {
	return apperrors.New(apperrors.CategoryPipeline, op,
		fmt.Errorf("%w: %dx%d", apperrors.ErrInvalidDimensions, w, h))
}

var _ core.Raster = (*Raster)(nil)

//go:build vips

package vips

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"
	"runtime"

	govips "github.com/davidbyttow/govips/v2/vips"
	"github.com/disintegration/imaging"

	"github.com/Skryldev/asset-generator/core"
	apperrors "github.com/Skryldev/asset-generator/errors"
	"github.com/Skryldev/asset-generator/geometry"
	"github.com/Skryldev/asset-generator/utils"
)

// libvips operations mutate the ref they are called on, so every method
// works on a copy and leaves its inputs untouched.

func (b *Backend) Canvas(width, height int, fill color.Color) (*core.ImageData, error) {
	if width <= 0 || height <= 0 {
		return nil, invalid("vips.canvas", width, height)
	}
	ref, err := fromImage(imaging.New(width, height, fill))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, "vips.canvas", err)
	}
	return wrap(ref), nil
}

func (b *Backend) Resize(img *core.ImageData, width, height int) (*core.ImageData, error) {
	vi, err := handle("vips.resize", img)
	if err != nil {
		return nil, err
	}
	srcW, srcH := vi.Width(), vi.Height()
	dstW, dstH := utils.ScaleDimensions(srcW, srcH, width, height)
	if dstW <= 0 || dstH <= 0 {
		return nil, invalid("vips.resize", dstW, dstH)
	}
	if dstW == srcW && dstH == srcH {
		return img, nil
	}
	ref, err := clone(vi.ref)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, "vips.resize", err)
	}
	hs := float64(dstW) / float64(srcW)
	vs := float64(dstH) / float64(srcH)
	if err := ref.ResizeWithVScale(hs, vs, govips.KernelLanczos3); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, "vips.resize", err)
	}
	return wrap(ref), nil
}

// Fill scales by the larger of the two axis ratios, then extracts the
// centred width x height window.
func (b *Backend) Fill(img *core.ImageData, width, height int) (*core.ImageData, error) {
	vi, err := handle("vips.fill", img)
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, invalid("vips.fill", width, height)
	}
	srcW, srcH := vi.Width(), vi.Height()
	if width == srcW && height == srcH {
		return img, nil
	}
	ref, err := clone(vi.ref)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, "vips.fill", err)
	}
	scale := math.Max(float64(width)/float64(srcW), float64(height)/float64(srcH))
	if err := ref.Resize(scale, govips.KernelLanczos3); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, "vips.fill", err)
	}
	// Rounding inside libvips can leave an axis one pixel short.
	if ref.Width() < width || ref.Height() < height {
		hs := float64(max(width, ref.Width())) / float64(ref.Width())
		vs := float64(max(height, ref.Height())) / float64(ref.Height())
		if err := ref.ResizeWithVScale(hs, vs, govips.KernelLanczos3); err != nil {
			return nil, apperrors.Wrap(apperrors.CategoryPipeline, "vips.fill", err)
		}
	}
	left := (ref.Width() - width) / 2
	top := (ref.Height() - height) / 2
	if err := ref.ExtractArea(left, top, width, height); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, "vips.fill", err)
	}
	return wrap(ref), nil
}

func (b *Backend) Extend(img *core.ImageData, pad core.Insets, fill color.Color) (*core.ImageData, error) {
	vi, err := handle("vips.extend", img)
	if err != nil {
		return nil, err
	}
	if pad.Top < 0 || pad.Right < 0 || pad.Bottom < 0 || pad.Left < 0 {
		return nil, apperrors.New(apperrors.CategoryPipeline, "vips.extend",
			fmt.Errorf("%w: negative padding %+v", apperrors.ErrInvalidDimensions, pad))
	}
	ref, err := withAlpha(vi.ref)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, "vips.extend", err)
	}
	c := color.NRGBAModel.Convert(fill).(color.NRGBA)
	w := ref.Width() + pad.Left + pad.Right
	h := ref.Height() + pad.Top + pad.Bottom
	bg := &govips.ColorRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
	if err := ref.EmbedBackgroundRGBA(pad.Left, pad.Top, w, h, bg); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, "vips.extend", err)
	}
	return wrap(ref), nil
}

// Mask applies m with the dest-in blend.
func (b *Backend) Mask(img *core.ImageData, m image.Image) (*core.ImageData, error) {
	vi, err := handle("vips.mask", img)
	if err != nil {
		return nil, err
	}
	mref, err := fromImage(m)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, "vips.mask", err)
	}
	ref, err := withAlpha(vi.ref)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, "vips.mask", err)
	}
	if err := ref.Composite(mref, govips.BlendModeDestIn, 0, 0); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, "vips.mask", err)
	}
	return wrap(ref), nil
}

func (b *Backend) Composite(base, overlay *core.ImageData) (*core.ImageData, error) {
	bg, err := handle("vips.composite", base)
	if err != nil {
		return nil, err
	}
	fg, err := handle("vips.composite", overlay)
	if err != nil {
		return nil, err
	}
	ref, err := withAlpha(bg.ref)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, "vips.composite", err)
	}
	pos := geometry.CenterOffset(bg.Width(), bg.Height(), fg.Width(), fg.Height())
	if err := ref.Composite(fg.ref, govips.BlendModeOver, pos.X, pos.Y); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, "vips.composite", err)
	}
	return wrap(ref), nil
}

// fromImage hands a Go image to libvips through a lossless PNG buffer.
func fromImage(img image.Image) (*govips.ImageRef, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return load(buf.Bytes())
}

func clone(ref *govips.ImageRef) (*govips.ImageRef, error) {
	cp, err := ref.Copy()
	if err != nil {
		return nil, err
	}
	runtime.SetFinalizer(cp, func(r *govips.ImageRef) { r.Close() })
	return cp, nil
}

// withAlpha returns a copy of ref guaranteed to carry an alpha band.
func withAlpha(ref *govips.ImageRef) (*govips.ImageRef, error) {
	cp, err := clone(ref)
	if err != nil {
		return nil, err
	}
	if !cp.HasAlpha() {
		if err := cp.AddAlpha(); err != nil {
			return nil, err
		}
	}
	return cp, nil
}

func invalid(op string, w, h int) error {
	return apperrors.New(apperrors.CategoryPipeline, op,
		fmt.Errorf("%w: %dx%d", apperrors.ErrInvalidDimensions, w, h))
}

var _ core.Raster = (*Backend)(nil)

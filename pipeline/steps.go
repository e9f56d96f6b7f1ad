// Package pipeline provides the built-in raster steps.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/Skryldev/asset-generator/core"
	apperrors "github.com/Skryldev/asset-generator/errors"
)

// ── Resize ────────────────────────────────────────────────────────────────────

// ResizeStep resizes the image to the given dimensions, preserving aspect ratio
// when one axis is 0.
type ResizeStep struct {
	Raster        core.Raster
	Width, Height int
}

func (s *ResizeStep) Name() string { return "resize" }

func (s *ResizeStep) Execute(ctx context.Context, img *core.ImageData) (*core.ImageData, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, s.Name(), err)
	}
	if img == nil || img.Image == nil {
		return nil, apperrors.New(apperrors.CategoryPipeline, s.Name(), apperrors.ErrEmptyInput)
	}
	if s.Width < 0 || s.Height < 0 || (s.Width == 0 && s.Height == 0) {
		return nil, apperrors.New(apperrors.CategoryPipeline, s.Name(),
			fmt.Errorf("%w: %dx%d", apperrors.ErrInvalidDimensions, s.Width, s.Height))
	}
	return s.Raster.Resize(img, s.Width, s.Height)
}

// ── Fill ──────────────────────────────────────────────────────────────────────

// FillStep scales the image to cover Width x Height, then centre-crops the
// overflow.  The result is exactly Width x Height.
type FillStep struct {
	Raster        core.Raster
	Width, Height int
}

func (s *FillStep) Name() string { return "fill" }

func (s *FillStep) Execute(ctx context.Context, img *core.ImageData) (*core.ImageData, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, s.Name(), err)
	}
	if img == nil || img.Image == nil {
		return nil, apperrors.New(apperrors.CategoryPipeline, s.Name(), apperrors.ErrEmptyInput)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, apperrors.New(apperrors.CategoryPipeline, s.Name(),
			fmt.Errorf("%w: %dx%d", apperrors.ErrInvalidDimensions, s.Width, s.Height))
	}
	return s.Raster.Fill(img, s.Width, s.Height)
}

// ── Extend ────────────────────────────────────────────────────────────────────

// ExtendStep pads the image outward on each side.
type ExtendStep struct {
	Raster core.Raster
	Pad    core.Insets
	Fill   color.Color
}

func (s *ExtendStep) Name() string { return "extend" }

func (s *ExtendStep) Execute(ctx context.Context, img *core.ImageData) (*core.ImageData, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, s.Name(), err)
	}
	fill := s.Fill
	if fill == nil {
		fill = color.Transparent
	}
	return s.Raster.Extend(img, s.Pad, fill)
}

// ── Mask ──────────────────────────────────────────────────────────────────────

// MaskStep clips the image to the opaque area of Mask (dest-in).
type MaskStep struct {
	Raster core.Raster
	Mask   image.Image
}

func (s *MaskStep) Name() string { return "mask" }

func (s *MaskStep) Execute(ctx context.Context, img *core.ImageData) (*core.ImageData, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, s.Name(), err)
	}
	if s.Mask == nil {
		return nil, apperrors.New(apperrors.CategoryPipeline, s.Name(), apperrors.ErrEmptyInput)
	}
	mb := s.Mask.Bounds()
	if mb.Dx() != img.Meta.Width || mb.Dy() != img.Meta.Height {
		return nil, apperrors.New(apperrors.CategoryPipeline, s.Name(),
			fmt.Errorf("%w: mask %dx%d on image %dx%d", apperrors.ErrInvalidDimensions,
				mb.Dx(), mb.Dy(), img.Meta.Width, img.Meta.Height))
	}
	return s.Raster.Mask(img, s.Mask)
}

// ── Canvas ────────────────────────────────────────────────────────────────────

// CanvasStep discards its input and yields a solid canvas.
type CanvasStep struct {
	Raster        core.Raster
	Width, Height int
	Fill          color.Color
}

func (s *CanvasStep) Name() string { return "canvas" }

func (s *CanvasStep) Execute(ctx context.Context, _ *core.ImageData) (*core.ImageData, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, s.Name(), err)
	}
	return s.Raster.Canvas(s.Width, s.Height, s.Fill)
}

// ── Overlay ───────────────────────────────────────────────────────────────────

// OverlayStep centres the current image on a new solid canvas.
type OverlayStep struct {
	Raster        core.Raster
	Width, Height int
	Fill          color.Color
}

func (s *OverlayStep) Name() string { return "overlay" }

func (s *OverlayStep) Execute(ctx context.Context, img *core.ImageData) (*core.ImageData, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, s.Name(), err)
	}
	canvas, err := s.Raster.Canvas(s.Width, s.Height, s.Fill)
	if err != nil {
		return nil, err
	}
	return s.Raster.Composite(canvas, img)
}

// ── Encode ────────────────────────────────────────────────────────────────────

// EncodeStep serialises the image using the registry's encoder for Format.
type EncodeStep struct {
	Registry core.Registry
	Format   core.Format
	Options  core.EncodeOptions
}

func (s *EncodeStep) Name() string { return "encode" }

func (s *EncodeStep) Execute(ctx context.Context, img *core.ImageData) (*core.ImageData, error) {
	format := s.Format
	if format == "" {
		format = core.FormatPNG
	}
	enc, ok := s.Registry.EncoderFor(format)
	if !ok {
		return nil, apperrors.New(apperrors.CategoryEncode, s.Name(),
			fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, format))
	}

	data, err := enc.Encode(ctx, img, s.Options)
	if err != nil {
		return nil, err
	}

	out := *img
	out.Data = data
	out.Format = format
	out.Meta.Format = format
	out.Meta.SizeBytes = int64(len(data))
	return &out, nil
}

// compile-time interface checks
var (
	_ core.Step = (*ResizeStep)(nil)
	_ core.Step = (*FillStep)(nil)
	_ core.Step = (*ExtendStep)(nil)
	_ core.Step = (*MaskStep)(nil)
	_ core.Step = (*CanvasStep)(nil)
	_ core.Step = (*OverlayStep)(nil)
	_ core.Step = (*EncodeStep)(nil)
)

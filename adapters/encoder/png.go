// Package encoder provides output encoders for the native backend.
package encoder

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/Skryldev/asset-generator/core"
	apperrors "github.com/Skryldev/asset-generator/errors"
)

// PNG encodes images to PNG format.  Output is deterministic for identical
// pixels, so regenerating an unchanged source rewrites identical bytes.
type PNG struct{}

func NewPNG() *PNG { return &PNG{} }

func (p *PNG) CanEncode(format core.Format) bool { return format == core.FormatPNG }

func (p *PNG) Encode(ctx context.Context, img *core.ImageData, opts core.EncodeOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "png.encode", err)
	}
	if img == nil || img.Image == nil {
		return nil, apperrors.New(apperrors.CategoryEncode, "png.encode", apperrors.ErrEmptyInput)
	}
	src, ok := img.Image.(image.Image)
	if !ok {
		return nil, apperrors.New(apperrors.CategoryEncode, "png.encode",
			fmt.Errorf("%w: got %T", apperrors.ErrBackendMismatch, img.Image))
	}

	enc := &png.Encoder{CompressionLevel: png.DefaultCompression}
	if opts.BestCompression {
		enc.CompressionLevel = png.BestCompression
	}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, src); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "png.encode", err)
	}
	return buf.Bytes(), nil
}

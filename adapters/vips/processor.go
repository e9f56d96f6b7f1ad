//go:build vips

package vips

import (
	"context"
	"fmt"
	"io"
	"runtime"

	govips "github.com/davidbyttow/govips/v2/vips"

	"github.com/Skryldev/asset-generator/core"
	apperrors "github.com/Skryldev/asset-generator/errors"
	"github.com/Skryldev/asset-generator/utils"
)

// BackendConfig configures the libvips backend.
type BackendConfig struct {
	MaxCacheSize int
	MaxWorkers   int
	ReportLeaks  bool
	// Compression is the PNG zlib level, 0-9.  Defaults to 6.
	Compression int
}

// Backend is a unified libvips-powered Decoder, Encoder and Raster.
// Safe for concurrent use across goroutines.
type Backend struct {
	cfg BackendConfig
}

// NewBackend initialises libvips and returns a ready Backend.
// Call Shutdown() when the process exits.
func NewBackend(cfg BackendConfig) *Backend {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.NumCPU()
	}
	if cfg.Compression <= 0 || cfg.Compression > 9 {
		cfg.Compression = 6
	}
	govips.LoggingSettings(nil, govips.LogLevelWarning)
	govips.Startup(&govips.Config{
		ConcurrencyLevel: cfg.MaxWorkers,
		MaxCacheSize:     cfg.MaxCacheSize,
		ReportLeaks:      cfg.ReportLeaks,
	})
	return &Backend{cfg: cfg}
}

// Shutdown releases all libvips resources. Call once at process exit.
func (b *Backend) Shutdown() {
	govips.Shutdown()
}

// ─── Decoder ──────────────────────────────────────────────────────────────────

func (b *Backend) CanDecode(f core.Format) bool {
	switch f {
	case core.FormatJPEG, core.FormatPNG, core.FormatWebP, core.FormatUnknown:
		return true
	}
	return false
}

func (b *Backend) Decode(ctx context.Context, r io.Reader) (*core.ImageData, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "vips.decode", err)
	}

	raw, err := utils.ReadAll(ctx, r, 32*1024)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "vips.decode.drain", err)
	}
	if len(raw) == 0 {
		return nil, apperrors.New(apperrors.CategoryDecode, "vips.decode", apperrors.ErrEmptyInput)
	}

	ref, err := load(raw)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "vips.decode", err)
	}
	img := wrap(ref)
	img.Data = raw
	img.Format = vipsFormatToCore(ref.Format())
	img.Meta.Format = img.Format
	img.Meta.SizeBytes = int64(len(raw))
	return img, nil
}

// ─── Encoder ──────────────────────────────────────────────────────────────────

func (b *Backend) CanEncode(f core.Format) bool { return f == core.FormatPNG }

// Encode exports img as PNG with metadata stripped so identical pixels give
// identical bytes.
func (b *Backend) Encode(ctx context.Context, img *core.ImageData, opts core.EncodeOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "vips.encode", err)
	}
	vi, err := handle("vips.encode", img)
	if err != nil {
		return nil, err
	}

	ep := govips.NewPngExportParams()
	ep.StripMetadata = true
	ep.Compression = b.cfg.Compression
	if opts.BestCompression {
		ep.Compression = 9
	}
	data, _, err := vi.ref.ExportPng(ep)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "vips.encode.png", err)
	}
	return data, nil
}

// ─── VipsImage ────────────────────────────────────────────────────────────────

// VipsImage wraps a *govips.ImageRef for storage in core.ImageData.Image.
type VipsImage struct {
	ref *govips.ImageRef
}

func (v *VipsImage) Width() int            { return v.ref.Width() }
func (v *VipsImage) Height() int           { return v.ref.Height() }
func (v *VipsImage) Ref() *govips.ImageRef { return v.ref }

// ─── RegisterVipsBackend ──────────────────────────────────────────────────────

// RegisterVipsBackend replaces the pure-Go codecs with libvips.  Images it
// decodes can only be handled by the same Backend used as the Raster.
func RegisterVipsBackend(reg core.Registry, b *Backend) {
	for _, f := range []core.Format{core.FormatJPEG, core.FormatPNG, core.FormatWebP, core.FormatUnknown} {
		reg.RegisterDecoder(f, b)
	}
	reg.RegisterEncoder(core.FormatPNG, b)
}

// ─── helpers ──────────────────────────────────────────────────────────────────

// load decodes buf into a ref that closes itself once unreachable.
func load(buf []byte) (*govips.ImageRef, error) {
	ref, err := govips.NewImageFromBuffer(buf)
	if err != nil {
		return nil, err
	}
	runtime.SetFinalizer(ref, func(r *govips.ImageRef) { r.Close() })
	return ref, nil
}

func wrap(ref *govips.ImageRef) *core.ImageData {
	return &core.ImageData{
		Image:  &VipsImage{ref: ref},
		Format: core.FormatUnknown,
		Meta: core.Metadata{
			Width:    ref.Width(),
			Height:   ref.Height(),
			HasAlpha: ref.HasAlpha(),
		},
	}
}

func handle(op string, img *core.ImageData) (*VipsImage, error) {
	if img == nil || img.Image == nil {
		return nil, apperrors.New(apperrors.CategoryPipeline, op, apperrors.ErrEmptyInput)
	}
	vi, ok := img.Image.(*VipsImage)
	if !ok || vi == nil {
		return nil, apperrors.New(apperrors.CategoryPipeline, op,
			fmt.Errorf("%w: got %T", apperrors.ErrBackendMismatch, img.Image))
	}
	return vi, nil
}

func vipsFormatToCore(f govips.ImageType) core.Format {
	switch f {
	case govips.ImageTypeJPEG:
		return core.FormatJPEG
	case govips.ImageTypePNG:
		return core.FormatPNG
	case govips.ImageTypeWEBP:
		return core.FormatWebP
	default:
		return core.FormatUnknown
	}
}

// compile-time interface checks
var _ core.Decoder = (*Backend)(nil)
var _ core.Encoder = (*Backend)(nil)

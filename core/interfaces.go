package core

import (
	"context"
	"image"
	"image/color"
	"io"
	"time"
)

// Decoder converts raw bytes into an in-memory ImageData.
// Implementations live in adapters/decoder/ and adapters/vips/.
type Decoder interface {
	// Decode reads from r and returns a decoded ImageData.
	Decode(ctx context.Context, r io.Reader) (*ImageData, error)
	// CanDecode reports whether this decoder handles the given format hint.
	CanDecode(format Format) bool
}

// Encoder serialises an ImageData to bytes in a target format.
type Encoder interface {
	Encode(ctx context.Context, img *ImageData, opts EncodeOptions) ([]byte, error)
	CanEncode(format Format) bool
}

// EncodeOptions carries format-specific encoding parameters.
type EncodeOptions struct {
	BestCompression bool
}

// Registry maps Format values to Decoder/Encoder implementations.
type Registry interface {
	DecoderFor(format Format) (Decoder, bool)
	EncoderFor(format Format) (Encoder, bool)
	RegisterDecoder(format Format, d Decoder)
	RegisterEncoder(format Format, e Encoder)
}

// Insets are per-side pixel amounts.
type Insets struct {
	Top, Right, Bottom, Left int
}

// Uniform returns equal insets on all four sides.
func Uniform(n int) Insets { return Insets{Top: n, Right: n, Bottom: n, Left: n} }

// Raster performs the pixel operations the generators need.  Operations never
// mutate their inputs; they only accept images produced by the decoder
// registered alongside them (or by an earlier Raster call).
type Raster interface {
	// Canvas creates a solid width x height image.
	Canvas(width, height int, fill color.Color) (*ImageData, error)
	// Resize scales img to width x height; a zero axis preserves aspect ratio.
	Resize(img *ImageData, width, height int) (*ImageData, error)
	// Fill scales img to cover width x height and crops the overflow evenly
	// from both sides.
	Fill(img *ImageData, width, height int) (*ImageData, error)
	// Extend pads img outward, filling the new area.
	Extend(img *ImageData, pad Insets, fill color.Color) (*ImageData, error)
	// Mask keeps img only where mask is opaque (dest-in blend).
	Mask(img *ImageData, mask image.Image) (*ImageData, error)
	// Composite draws overlay centred on base (source-over blend).
	Composite(base, overlay *ImageData) (*ImageData, error)
}

// Filesystem is the slice of file operations the output writer needs.
type Filesystem interface {
	Exists(ctx context.Context, path string) (bool, error)
	// EnsureDir creates dir and its parents; an existing directory is success.
	EnsureDir(ctx context.Context, dir string) error
	WriteFile(ctx context.Context, path string, data []byte) error
}

// Manifest mutates a platform's declarative application descriptor.
type Manifest interface {
	// SetAttrs sets attributes on the element found at elemPath.
	SetAttrs(elemPath string, attrs map[string]string) error
}

// Project is the target project descriptor.  Generators only read paths and
// call Manifest/Commit; the caller owns its lifecycle.
type Project interface {
	// PlatformRoot returns the root directory of a platform project, or "".
	PlatformRoot(p Platform) string
	// Flavor returns the build flavor, or "" to use the configured default.
	Flavor() string
	// Manifest returns the platform manifest accessor, or nil when absent.
	Manifest(p Platform) Manifest
	// Commit persists pending manifest mutations.
	Commit(ctx context.Context) error
}

// Generator produces the outputs of one platform from one source asset.
type Generator interface {
	Platform() Platform
	Generate(ctx context.Context, asset *SourceAsset, project Project) ([]*OutputRecord, error)
}

// MetricsCollector receives performance observations from the pipeline.
type MetricsCollector interface {
	RecordProcessingTime(stepName string, d interface{ Seconds() float64 })
	RecordThroughput(bytes int64)
	RecordError(stepName string, category string)
}

// Logger is a minimal structured logging interface.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}

// Step is the fundamental pipeline building block.  Each Step transforms an
// *ImageData value and must be safe for concurrent use across goroutines.
type Step interface {
	Name() string
	Execute(ctx context.Context, img *ImageData) (*ImageData, error)
}

// Hook is an optional observer invoked around pipeline steps.
type Hook interface {
	BeforeStep(ctx context.Context, stepName string, img *ImageData)
	AfterStep(ctx context.Context, stepName string, img *ImageData, d time.Duration, err error)
}

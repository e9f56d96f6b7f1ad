package errors

import (
	"errors"
	"fmt"
)

// Category classifies error types for targeted handling and reporting.
type Category string

const (
	CategoryDecode   Category = "decode"
	CategoryEncode   Category = "encode"
	CategoryPipeline Category = "pipeline"
	CategoryStorage  Category = "storage"
	CategoryConfig   Category = "config"
	CategoryManifest Category = "manifest"
	CategoryInput    Category = "input"
)

// ProcessingError is the structured error type used throughout the module.
type ProcessingError struct {
	Category Category
	Op       string // operation name
	Err      error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Category, e.Op, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// New creates a ProcessingError.
func New(category Category, op string, err error) *ProcessingError {
	return &ProcessingError{Category: category, Op: op, Err: err}
}

// Wrap wraps an existing error with context.  A nil err yields nil.
func Wrap(category Category, op string, err error) error {
	if err == nil {
		return nil
	}
	return New(category, op, err)
}

// Configuration reports a project that cannot serve the requested platform.
func Configuration(op string, err error) *ProcessingError {
	return New(CategoryConfig, op, err)
}

// PipelineUnavailable reports a source asset without a decoded image handle.
func PipelineUnavailable(op string) *ProcessingError {
	return New(CategoryPipeline, op, ErrPipelineUnavailable)
}

// IsCategory reports whether err belongs to the given category.
func IsCategory(err error, cat Category) bool {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Category == cat
	}
	return false
}

// IsConfiguration reports whether err is a configuration failure.
func IsConfiguration(err error) bool { return IsCategory(err, CategoryConfig) }

// IsPipelineUnavailable reports whether err was caused by a missing image handle.
func IsPipelineUnavailable(err error) bool { return errors.Is(err, ErrPipelineUnavailable) }

// Sentinel errors for common failure modes.
var (
	ErrUnsupportedFormat   = errors.New("unsupported image format")
	ErrInvalidDimensions   = errors.New("invalid dimensions")
	ErrEmptyInput          = errors.New("empty input")
	ErrInputTooLarge       = errors.New("input exceeds size limit")
	ErrNoPlatformRoot      = errors.New("no platform root configured")
	ErrPipelineUnavailable = errors.New("image pipeline not created")
	ErrElementNotFound     = errors.New("manifest element not found")
	ErrBackendMismatch     = errors.New("image was decoded by a different backend")
	ErrBackendUnavailable  = errors.New("raster backend not compiled in")
)

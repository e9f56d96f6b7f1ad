package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	apperrors "github.com/Skryldev/asset-generator/errors"
	"github.com/Skryldev/asset-generator/utils"
)

// OpenOptions controls how OpenSource reads a file.
type OpenOptions struct {
	MaxBytes  int64 // 0 = no limit
	ChunkSize int
}

// OpenSource reads and decodes the image at path, sniffing its format, and
// returns an immutable SourceAsset carrying the decoded handle.
func OpenSource(ctx context.Context, reg Registry, kind Kind, platform Platform, path string, opts OpenOptions) (*SourceAsset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryInput, "source.open", err)
	}
	defer f.Close()

	raw, err := utils.ReadAll(ctx, &utils.LimitedReader{R: f, Max: opts.MaxBytes}, opts.ChunkSize)
	if err != nil {
		if errors.Is(err, utils.ErrLimitExceeded) {
			err = fmt.Errorf("%w: %s is larger than %d bytes", apperrors.ErrInputTooLarge, path, opts.MaxBytes)
		}
		return nil, apperrors.Wrap(apperrors.CategoryInput, "source.read", err)
	}
	if len(raw) == 0 {
		return nil, apperrors.New(apperrors.CategoryInput, "source.read", apperrors.ErrEmptyInput)
	}

	format := Format(utils.DetectFormat(raw))
	if format == FormatUnknown {
		format = Format(utils.FormatFromExt(path))
	}
	dec, ok := reg.DecoderFor(format)
	if !ok {
		return nil, apperrors.New(apperrors.CategoryDecode, "source.decode",
			fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, format))
	}
	img, err := dec.Decode(ctx, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	img.Data = raw
	return NewSourceAsset(kind, platform, path, img), nil
}

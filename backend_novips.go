//go:build !vips

package assetgen

import (
	"fmt"

	apperrors "github.com/Skryldev/asset-generator/errors"
)

func useVips(*Generator) error {
	return apperrors.Configuration("assetgen.new",
		fmt.Errorf("%w: rebuild with -tags vips to use the vips backend", apperrors.ErrBackendUnavailable))
}

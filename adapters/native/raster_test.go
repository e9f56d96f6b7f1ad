package native_test

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/Skryldev/asset-generator/adapters/native"
	"github.com/Skryldev/asset-generator/core"
	apperrors "github.com/Skryldev/asset-generator/errors"
	"github.com/Skryldev/asset-generator/mask"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

func at(t *testing.T, img *core.ImageData, x, y int) color.NRGBA {
	t.Helper()
	return color.NRGBAModel.Convert(img.Image.(image.Image).At(x, y)).(color.NRGBA)
}

func TestCanvas(t *testing.T) {
	r := native.New()
	img, err := r.Canvas(10, 6, red)
	if err != nil {
		t.Fatal(err)
	}
	if img.Meta.Width != 10 || img.Meta.Height != 6 {
		t.Errorf("size: %dx%d", img.Meta.Width, img.Meta.Height)
	}
	if got := at(t, img, 9, 5); got != red {
		t.Errorf("pixel: %v", got)
	}
	if _, err := r.Canvas(0, 6, red); !errorsIsInvalid(err) {
		t.Errorf("expected invalid dimensions, got %v", err)
	}
}

func TestResize(t *testing.T) {
	r := native.New()
	src, _ := r.Canvas(200, 100, red)

	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"exact", 50, 50, 50, 50},
		{"width only", 100, 0, 100, 50},
		{"height only", 0, 20, 40, 20},
		{"identity", 200, 100, 200, 100},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := r.Resize(src, tc.w, tc.h)
			if err != nil {
				t.Fatal(err)
			}
			if out.Meta.Width != tc.wantW || out.Meta.Height != tc.wantH {
				t.Errorf("got %dx%d, want %dx%d", out.Meta.Width, out.Meta.Height, tc.wantW, tc.wantH)
			}
		})
	}
}

func TestFill_CropsInsteadOfStretching(t *testing.T) {
	r := native.New()
	base, _ := r.Canvas(200, 100, white)
	band, _ := r.Canvas(140, 100, red)
	src, err := r.Composite(base, band)
	if err != nil {
		t.Fatal(err)
	}

	out, err := r.Fill(src, 50, 50)
	if err != nil {
		t.Fatal(err)
	}
	if out.Meta.Width != 50 || out.Meta.Height != 50 {
		t.Fatalf("size: %dx%d", out.Meta.Width, out.Meta.Height)
	}
	// Only the centred 100x100 window survives, and it is all band.
	for _, x := range []int{1, 25, 48} {
		if got := at(t, out, x, 25); got != red {
			t.Errorf("(%d,25) = %v, want red", x, got)
		}
	}

	if same, _ := r.Fill(src, 200, 100); same != src {
		t.Error("identity fill allocated a new image")
	}
	if _, err := r.Fill(src, 0, 50); !errorsIsInvalid(err) {
		t.Errorf("expected invalid dimensions, got %v", err)
	}
}

func TestExtend(t *testing.T) {
	r := native.New()
	src, _ := r.Canvas(4, 4, red)
	out, err := r.Extend(src, core.Insets{Top: 1, Right: 2, Bottom: 3, Left: 4}, color.Transparent)
	if err != nil {
		t.Fatal(err)
	}
	if out.Meta.Width != 10 || out.Meta.Height != 8 {
		t.Fatalf("size: %dx%d", out.Meta.Width, out.Meta.Height)
	}
	if got := at(t, out, 0, 0); got.A != 0 {
		t.Errorf("padding not transparent: %v", got)
	}
	if got := at(t, out, 4, 1); got != red {
		t.Errorf("source not at (left, top): %v", got)
	}
	if _, err := r.Extend(src, core.Uniform(-1), color.Transparent); !errorsIsInvalid(err) {
		t.Errorf("expected invalid dimensions, got %v", err)
	}
}

func TestMask_Circle(t *testing.T) {
	r := native.New()
	src, _ := r.Canvas(64, 64, red)
	m, err := mask.Circle(64, 64)
	if err != nil {
		t.Fatal(err)
	}
	out, err := r.Mask(src, m)
	if err != nil {
		t.Fatal(err)
	}
	if got := at(t, out, 0, 0); got.A != 0 {
		t.Errorf("corner alpha: %d", got.A)
	}
	if got := at(t, out, 32, 32); got != red {
		t.Errorf("centre: %v", got)
	}
}

func TestComposite_Centres(t *testing.T) {
	r := native.New()
	base, _ := r.Canvas(10, 10, white)
	fg, _ := r.Canvas(4, 2, red)
	out, err := r.Composite(base, fg)
	if err != nil {
		t.Fatal(err)
	}
	if got := at(t, out, 3, 4); got != red {
		t.Errorf("(3,4) = %v, want overlay", got)
	}
	if got := at(t, out, 2, 4); got != white {
		t.Errorf("(2,4) = %v, want base", got)
	}
	if got := at(t, out, 3, 3); got != white {
		t.Errorf("(3,3) = %v, want base", got)
	}
}

func TestBackendMismatch(t *testing.T) {
	r := native.New()
	foreign := &core.ImageData{Image: "not an image"}
	if _, err := r.Resize(foreign, 10, 10); !errorsIsMismatch(err) {
		t.Errorf("expected backend mismatch, got %v", err)
	}
	if _, err := r.Resize(nil, 10, 10); !errorsIsEmpty(err) {
		t.Errorf("expected empty input, got %v", err)
	}
}

func errorsIsInvalid(err error) bool {
	return apperrors.IsCategory(err, apperrors.CategoryPipeline) && errors.Is(err, apperrors.ErrInvalidDimensions)
}

func errorsIsMismatch(err error) bool { return errors.Is(err, apperrors.ErrBackendMismatch) }

func errorsIsEmpty(err error) bool { return errors.Is(err, apperrors.ErrEmptyInput) }

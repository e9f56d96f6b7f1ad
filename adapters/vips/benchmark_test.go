//go:build vips

package vips_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/Skryldev/asset-generator/adapters/decoder"
	"github.com/Skryldev/asset-generator/adapters/encoder"
	"github.com/Skryldev/asset-generator/adapters/native"
	"github.com/Skryldev/asset-generator/adapters/vips"
	"github.com/Skryldev/asset-generator/core"
	"github.com/Skryldev/asset-generator/mask"
	"github.com/Skryldev/asset-generator/pipeline"
)

func makePNG(b *testing.B, w, h int) []byte {
	b.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		b.Fatal(err)
	}
	return buf.Bytes()
}

func nativeSetup(b *testing.B) (core.Registry, core.Raster) {
	b.Helper()
	reg := core.NewRegistry()
	reg.RegisterDecoder(core.FormatPNG, decoder.NewPNG())
	reg.RegisterEncoder(core.FormatPNG, encoder.NewPNG())
	return reg, native.New()
}

func vipsSetup(b *testing.B) (core.Registry, core.Raster, *vips.Backend) {
	b.Helper()
	backend := vips.NewBackend(vips.BackendConfig{})
	reg := core.NewRegistry()
	vips.RegisterVipsBackend(reg, backend)
	return reg, backend, backend
}

func decode(b *testing.B, reg core.Registry, raw []byte) *core.ImageData {
	b.Helper()
	dec, ok := reg.DecoderFor(core.FormatPNG)
	if !ok {
		b.Fatal("no png decoder")
	}
	img, err := dec.Decode(context.Background(), bytes.NewReader(raw))
	if err != nil {
		b.Fatal(err)
	}
	return img
}

// roundIcon is the xxxhdpi round launcher icon render.
func roundIcon(b *testing.B, reg core.Registry, r core.Raster) *pipeline.Pipeline {
	b.Helper()
	m, err := mask.Circle(192, 192)
	if err != nil {
		b.Fatal(err)
	}
	return pipeline.New(
		&pipeline.FillStep{Raster: r, Width: 192, Height: 192},
		&pipeline.MaskStep{Raster: r, Mask: m},
		&pipeline.EncodeStep{Registry: reg},
	)
}

// splash is the xxxhdpi landscape splash overlay render.
func splash(reg core.Registry, r core.Raster) *pipeline.Pipeline {
	return pipeline.New(
		&pipeline.ResizeStep{Raster: r, Width: 384},
		&pipeline.OverlayStep{Raster: r, Width: 1920, Height: 1280, Fill: color.White},
		&pipeline.EncodeStep{Registry: reg},
	)
}

func run(b *testing.B, p *pipeline.Pipeline, src *core.ImageData) {
	b.Helper()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := p.Run(context.Background(), src); err != nil {
			b.Fatal(err)
		}
	}
}

// ─── Round icon ───────────────────────────────────────────────────────────────

func BenchmarkRoundIcon_Native_1024(b *testing.B) {
	reg, r := nativeSetup(b)
	src := decode(b, reg, makePNG(b, 1024, 1024))
	run(b, roundIcon(b, reg, r), src)
}

func BenchmarkRoundIcon_Vips_1024(b *testing.B) {
	reg, r, backend := vipsSetup(b)
	defer backend.Shutdown()
	src := decode(b, reg, makePNG(b, 1024, 1024))
	run(b, roundIcon(b, reg, r), src)
}

// ─── Splash overlay ───────────────────────────────────────────────────────────

func BenchmarkSplash_Native_1024(b *testing.B) {
	reg, r := nativeSetup(b)
	src := decode(b, reg, makePNG(b, 1024, 1024))
	run(b, splash(reg, r), src)
}

func BenchmarkSplash_Vips_1024(b *testing.B) {
	reg, r, backend := vipsSetup(b)
	defer backend.Shutdown()
	src := decode(b, reg, makePNG(b, 1024, 1024))
	run(b, splash(reg, r), src)
}

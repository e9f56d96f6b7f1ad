// Package assetgen generates launcher icons, adaptive icons, banners and splash
// screens for a mobile project from a handful of source images.
//
//	gen, err := assetgen.New(assetgen.DefaultConfig())
//	defer gen.Close()
//	logo, err := gen.OpenSource(ctx, core.KindLogo, core.PlatformAny, "assets/logo.png")
//	proj, err := project.Open(".")
//	records, err := gen.Generate(ctx, logo, proj)
package assetgen

import (
	"context"
	"fmt"

	"github.com/Skryldev/asset-generator/adapters/decoder"
	"github.com/Skryldev/asset-generator/adapters/encoder"
	"github.com/Skryldev/asset-generator/adapters/native"
	"github.com/Skryldev/asset-generator/adapters/storage"
	"github.com/Skryldev/asset-generator/android"
	"github.com/Skryldev/asset-generator/config"
	"github.com/Skryldev/asset-generator/core"
	apperrors "github.com/Skryldev/asset-generator/errors"
	"github.com/Skryldev/asset-generator/hooks"
)

// DefaultConfig returns the documented default options.
func DefaultConfig() config.Config { return config.Default() }

// Generator is the primary entry point.  It is safe for concurrent use.
type Generator struct {
	cfg       config.Config
	registry  *core.DefaultRegistry
	raster    core.Raster
	fs        core.Filesystem
	logger    core.Logger
	metrics   *hooks.InMemoryMetrics
	hooks     []core.Hook
	platforms []core.Generator
	release   func()
}

// Option customises New.
type Option func(*Generator)

// WithLogger attaches a structured logger.
func WithLogger(l core.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithHook registers an observer for render step events.
func WithHook(h core.Hook) Option {
	return func(g *Generator) { g.hooks = append(g.hooks, h) }
}

// WithFilesystem replaces the local filesystem output writes go through.
func WithFilesystem(fs core.Filesystem) Option {
	return func(g *Generator) { g.fs = fs }
}

// New validates cfg and wires codecs, the raster backend it selects, the
// output filesystem and every platform generator.
func New(cfg config.Config, opts ...Option) (*Generator, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryConfig, "assetgen.new", err)
	}
	g := &Generator{
		cfg:      cfg,
		registry: core.NewRegistry(),
		fs:       storage.NewLocal(0),
		logger:   core.NopLogger{},
		metrics:  hooks.NewInMemoryMetrics(),
	}
	for _, o := range opts {
		o(g)
	}

	switch cfg.Backend {
	case config.BackendVips:
		if err := useVips(g); err != nil {
			return nil, err
		}
	default:
		g.registry.RegisterDecoder(core.FormatJPEG, decoder.NewJPEG())
		g.registry.RegisterDecoder(core.FormatPNG, decoder.NewPNG())
		g.registry.RegisterDecoder(core.FormatWebP, decoder.NewWebP())
		g.registry.RegisterEncoder(core.FormatPNG, encoder.NewPNG())
		g.raster = native.New()
	}

	renderHooks := append([]core.Hook{
		hooks.NewLoggingHook(g.logger),
		hooks.NewMetricsHook(g.metrics),
	}, g.hooks...)
	gen, err := android.New(cfg, g.registry, g.raster, g.fs,
		android.WithLogger(g.logger),
		android.WithHooks(renderHooks...),
	)
	if err != nil {
		g.Close()
		return nil, err
	}
	g.platforms = append(g.platforms, gen)
	g.logger.Debug("assetgen.ready", "backend", string(cfg.Backend), "platforms", len(g.platforms))
	return g, nil
}

// Config returns the options the Generator was built with.
func (g *Generator) Config() config.Config { return g.cfg }

// Registry exposes the codec registry, e.g. to register extra decoders.
func (g *Generator) Registry() core.Registry { return g.registry }

// OpenSource decodes the image at path with the Generator's codecs.
func (g *Generator) OpenSource(ctx context.Context, kind core.Kind, platform core.Platform, path string) (*core.SourceAsset, error) {
	return core.OpenSource(ctx, g.registry, kind, platform, path, core.OpenOptions{MaxBytes: g.cfg.MaxImageBytes})
}

// Generate renders asset for every platform it targets.  An asset for
// PlatformAny goes to each platform the project has a root for; a project
// with none of them is a configuration error.
func (g *Generator) Generate(ctx context.Context, asset *core.SourceAsset, project core.Project) ([]*core.OutputRecord, error) {
	var targets []core.Generator
	for _, p := range g.platforms {
		switch {
		case asset.Platform == p.Platform():
			targets = append(targets, p)
		case asset.Platform == core.PlatformAny && project.PlatformRoot(p.Platform()) != "":
			targets = append(targets, p)
		}
	}
	if len(targets) == 0 {
		if asset.Platform != core.PlatformAny && !g.serves(asset.Platform) {
			return nil, nil
		}
		return nil, apperrors.Configuration("assetgen.generate",
			fmt.Errorf("%w: no platform project found for %s", apperrors.ErrNoPlatformRoot, asset))
	}

	var out []*core.OutputRecord
	for _, p := range targets {
		recs, err := p.Generate(ctx, asset, project)
		if err != nil {
			g.logger.Error("assetgen.generate", "platform", string(p.Platform()), "asset", asset.String(), "error", err.Error())
			return nil, err
		}
		g.logger.Info("assetgen.generated", "platform", string(p.Platform()), "kind", string(asset.Kind), "records", len(recs))
		out = append(out, recs...)
	}
	return out, nil
}

// GenerateAll runs Generate for each asset in order and concatenates the
// records.  Later assets overwrite files written by earlier ones.
func (g *Generator) GenerateAll(ctx context.Context, assets []*core.SourceAsset, project core.Project) ([]*core.OutputRecord, error) {
	var out []*core.OutputRecord
	for _, a := range assets {
		recs, err := g.Generate(ctx, a, project)
		if err != nil {
			return out, err
		}
		out = append(out, recs...)
	}
	return out, nil
}

func (g *Generator) serves(p core.Platform) bool {
	for _, gen := range g.platforms {
		if gen.Platform() == p {
			return true
		}
	}
	return false
}

// Metrics returns a snapshot of render step timings and output volume.
func (g *Generator) Metrics() hooks.MetricsSnapshot { return g.metrics.Snapshot() }

// Close releases backend resources.  The Generator must not be used after.
func (g *Generator) Close() {
	if g.release != nil {
		g.release()
		g.release = nil
	}
}

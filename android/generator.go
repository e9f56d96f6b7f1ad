// Package android generates launcher icons, adaptive icon layers, banners and
// splash screens into an Android project's resource tree.
package android

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/Skryldev/asset-generator/config"
	"github.com/Skryldev/asset-generator/core"
	apperrors "github.com/Skryldev/asset-generator/errors"
)

const defaultFlavor = "main"

// Generator serves core.PlatformAndroid.  It holds no per-call state and is
// safe for concurrent use.
type Generator struct {
	cfg      config.Config
	palette  config.Palette
	registry core.Registry
	raster   core.Raster
	fs       core.Filesystem
	logger   core.Logger
	hooks    []core.Hook
}

// Option customises a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for warnings and progress.
func WithLogger(l core.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithHooks attaches observers to every render pipeline.
func WithHooks(h ...core.Hook) Option {
	return func(g *Generator) { g.hooks = append(g.hooks, h...) }
}

// New validates cfg, resolves its colours once, and returns a Generator
// rendering with raster, encoding through registry and writing through fs.
func New(cfg config.Config, registry core.Registry, raster core.Raster, fs core.Filesystem, opts ...Option) (*Generator, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryConfig, "android.new", err)
	}
	palette, err := config.Resolve(cfg)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryConfig, "android.new", err)
	}
	g := &Generator{
		cfg:      cfg,
		palette:  palette,
		registry: registry,
		raster:   raster,
		fs:       fs,
		logger:   core.NopLogger{},
	}
	for _, o := range opts {
		o(g)
	}
	return g, nil
}

func (g *Generator) Platform() core.Platform { return core.PlatformAndroid }

// Generate renders every output the asset's kind calls for.  Assets aimed at
// another platform, and kinds Android has no use for, yield no records.
func (g *Generator) Generate(ctx context.Context, asset *core.SourceAsset, project core.Project) ([]*core.OutputRecord, error) {
	if project.PlatformRoot(core.PlatformAndroid) == "" {
		return nil, apperrors.Configuration("android.generate",
			fmt.Errorf("%w: no android project found", apperrors.ErrNoPlatformRoot))
	}
	if asset.Platform != core.PlatformAny && asset.Platform != core.PlatformAndroid {
		return nil, nil
	}

	switch asset.Kind {
	case core.KindLogo, core.KindLogoDark:
		return g.generateFromLogo(ctx, asset, project)
	case core.KindIcon:
		return g.generateLegacyIcons(ctx, asset, project)
	case core.KindIconForeground:
		return g.generateAdaptiveLayer(ctx, asset, project, layerForeground)
	case core.KindIconBackground:
		return g.generateAdaptiveLayer(ctx, asset, project, layerBackground)
	case core.KindBanner:
		return g.generateDirect(ctx, asset, project, core.KindBanner, bannerFile)
	case core.KindSplash:
		return g.generateDirect(ctx, asset, project, core.KindSplash, splashFile)
	case core.KindSplashDark:
		return g.generateDirect(ctx, asset, project, core.KindSplashDark, splashFile)
	default:
		return nil, nil
	}
}

// ResPath returns <android-root>/app/src/<flavor>/res for project.
func (g *Generator) ResPath(project core.Project) string {
	return filepath.Join(project.PlatformRoot(core.PlatformAndroid), "app", "src", g.flavor(project), "res")
}

func (g *Generator) flavor(project core.Project) string {
	if f := project.Flavor(); f != "" {
		return f
	}
	if g.cfg.AndroidFlavor != "" {
		return g.cfg.AndroidFlavor
	}
	return defaultFlavor
}

func pipelineOf(op string, asset *core.SourceAsset) (*core.ImageData, error) {
	pipe := asset.Pipeline()
	if pipe == nil || pipe.Image == nil {
		return nil, apperrors.PipelineUnavailable(op)
	}
	return pipe, nil
}

// concurrently runs fn for i in [0, n) and returns the records in index
// order.  The first error cancels the remaining work and is returned.
func (g *Generator) concurrently(ctx context.Context, n int, fn func(ctx context.Context, i int) (*core.OutputRecord, error)) ([]*core.OutputRecord, error) {
	out := make([]*core.OutputRecord, n)
	eg, egctx := errgroup.WithContext(ctx)
	if g.cfg.Concurrency > 0 {
		eg.SetLimit(g.cfg.Concurrency)
	}
	for i := 0; i < n; i++ {
		i := i
		eg.Go(func() error {
			rec, err := fn(egctx, i)
			if err != nil {
				return err
			}
			out[i] = rec
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

var _ core.Generator = (*Generator)(nil)

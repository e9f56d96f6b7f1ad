package android

import (
	"context"
	"fmt"
	"image/color"
	"path"

	"github.com/Skryldev/asset-generator/catalog"
	"github.com/Skryldev/asset-generator/core"
	"github.com/Skryldev/asset-generator/geometry"
	"github.com/Skryldev/asset-generator/pipeline"
	"github.com/Skryldev/asset-generator/utils"
)

// generateFromLogo fans one logo out into every output it can stand in for.
// Stages run in order and append; templates within a stage run concurrently.
//
//  1. adaptive icon layers (primary logo only)
//  2. legacy icons, banners and light splashes (primary logo only)
//  3. dark splashes, from either logo
func (g *Generator) generateFromLogo(ctx context.Context, asset *core.SourceAsset, project core.Project) ([]*core.OutputRecord, error) {
	src, err := pipelineOf("android.logo", asset)
	if err != nil {
		return nil, err
	}
	primary := asset.Kind == core.KindLogo

	var out []*core.OutputRecord
	if primary {
		adaptive, err := g.adaptiveFromLogo(ctx, src, asset, project)
		if err != nil {
			return nil, err
		}
		out = append(out, adaptive...)

		icons, err := g.generateLegacyIcons(ctx, asset, project)
		if err != nil {
			return nil, err
		}
		out = append(out, icons...)

		banners, err := g.overlayAll(ctx, src, asset, project, core.KindBanner, g.palette.SplashBackground, bannerFile)
		if err != nil {
			return nil, err
		}
		out = append(out, banners...)

		splashes, err := g.overlayAll(ctx, src, asset, project, core.KindSplash, g.palette.SplashBackground, splashFile)
		if err != nil {
			return nil, err
		}
		out = append(out, splashes...)
	}

	dark, err := g.overlayAll(ctx, src, asset, project, core.KindSplashDark, g.palette.SplashBackgroundDark, splashFile)
	if err != nil {
		return nil, err
	}
	return append(out, dark...), nil
}

// adaptiveFromLogo renders the logo as the foreground layer and a solid
// iconBackgroundColor canvas, sized like the logo, as the background layer.
func (g *Generator) adaptiveFromLogo(ctx context.Context, src *core.ImageData, asset *core.SourceAsset, project core.Project) ([]*core.OutputRecord, error) {
	templates := catalog.AndroidOf(core.KindAdaptiveIcon)
	fg, err := g.concurrently(ctx, len(templates), func(ctx context.Context, i int) (*core.OutputRecord, error) {
		return g.adaptiveLayer(ctx, src, templates[i], asset, project, layerForeground)
	})
	if err != nil {
		return nil, err
	}
	canvas := &pipeline.CanvasStep{Raster: g.raster, Width: asset.Width, Height: asset.Height, Fill: g.palette.IconBackground}
	bg, err := g.concurrently(ctx, len(templates), func(ctx context.Context, i int) (*core.OutputRecord, error) {
		return g.adaptiveLayer(ctx, src, templates[i], asset, project, layerBackground, canvas)
	})
	if err != nil {
		return nil, err
	}
	return append(fg, bg...), nil
}

// overlayAll centres the logo on a bg canvas for every template of kind.
func (g *Generator) overlayAll(ctx context.Context, src *core.ImageData, asset *core.SourceAsset, project core.Project, kind core.Kind, bg color.Color, file string) ([]*core.OutputRecord, error) {
	templates := catalog.AndroidOf(kind)
	return g.concurrently(ctx, len(templates), func(ctx context.Context, i int) (*core.OutputRecord, error) {
		return g.overlay(ctx, src, templates[i], asset, project, bg, file)
	})
}

func (g *Generator) overlay(ctx context.Context, src *core.ImageData, tpl core.OutputTemplate, asset *core.SourceAsset, project core.Project, bg color.Color, file string) (*core.OutputRecord, error) {
	o := geometry.OverlayWidth(tpl.Width, tpl.Height, g.cfg.LogoSplashScale, g.cfg.LogoSplashTargetWidth)
	if o.Degraded {
		g.logger.Warn("Logo dimensions exceed dimensions of splash "+sizeOf(tpl)+", using default logo size",
			"template", tpl.String(), "width", o.Width)
	}
	fit := &pipeline.ResizeStep{Raster: g.raster, Width: o.Width}
	if _, h := utils.ScaleDimensions(asset.Width, asset.Height, o.Width, 0); h > tpl.Height {
		g.logger.Warn("Logo height exceeds splash "+sizeOf(tpl)+", scaling logo to splash height",
			"template", tpl.String(), "height", h)
		fit = &pipeline.ResizeStep{Raster: g.raster, Height: tpl.Height}
	}
	rec := core.NewOutputRecord(tpl, asset, project)
	err := g.emit(ctx, rec, path.Join(tpl.DrawableDir(), file), src,
		fit,
		&pipeline.OverlayStep{Raster: g.raster, Width: tpl.Width, Height: tpl.Height, Fill: bg},
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func sizeOf(t core.OutputTemplate) string { return fmt.Sprintf("%dx%d", t.Width, t.Height) }

// generateDirect fills every template of kind with a pre-rendered banner or
// splash, cropping whatever overflows the template's aspect ratio.
func (g *Generator) generateDirect(ctx context.Context, asset *core.SourceAsset, project core.Project, kind core.Kind, file string) ([]*core.OutputRecord, error) {
	src, err := pipelineOf("android."+string(kind), asset)
	if err != nil {
		return nil, err
	}
	templates := catalog.AndroidOf(kind)
	return g.concurrently(ctx, len(templates), func(ctx context.Context, i int) (*core.OutputRecord, error) {
		tpl := templates[i]
		rec := core.NewOutputRecord(tpl, asset, project)
		err := g.emit(ctx, rec, path.Join(tpl.DrawableDir(), file), src,
			&pipeline.FillStep{Raster: g.raster, Width: tpl.Width, Height: tpl.Height})
		if err != nil {
			return nil, err
		}
		return rec, nil
	})
}

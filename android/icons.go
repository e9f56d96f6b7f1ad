package android

import (
	"context"
	"image/color"
	"path"

	"github.com/Skryldev/asset-generator/catalog"
	"github.com/Skryldev/asset-generator/core"
	"github.com/Skryldev/asset-generator/geometry"
	"github.com/Skryldev/asset-generator/mask"
	"github.com/Skryldev/asset-generator/pipeline"
)

// layer names one half of an adaptive icon.
type layer string

const (
	layerForeground layer = "foreground"
	layerBackground layer = "background"
)

// resource is the mipmap resource name of the layer.
func (l layer) resource() string { return "ic_launcher_" + string(l) }

func (l layer) file() string { return l.resource() + ".png" }

// generateLegacyIcons writes a square and a round launcher icon for every
// icon density, then points the manifest at them.
func (g *Generator) generateLegacyIcons(ctx context.Context, asset *core.SourceAsset, project core.Project) ([]*core.OutputRecord, error) {
	src, err := pipelineOf("android.icon", asset)
	if err != nil {
		return nil, err
	}
	templates := catalog.AndroidOf(core.KindIcon)
	n := len(templates)
	recs, err := g.concurrently(ctx, 2*n, func(ctx context.Context, i int) (*core.OutputRecord, error) {
		if i < n {
			return g.squareIcon(ctx, src, templates[i], asset, project)
		}
		return g.roundIcon(ctx, src, templates[i-n], asset, project)
	})
	if err != nil {
		return nil, err
	}
	if err := g.updateManifest(ctx, project); err != nil {
		return nil, err
	}
	return recs, nil
}

// squareIcon shrinks the source by geometry.IconPadding on every side and
// pads it back out with transparency, leaving the template size unchanged.
func (g *Generator) squareIcon(ctx context.Context, src *core.ImageData, tpl core.OutputTemplate, asset *core.SourceAsset, project core.Project) (*core.OutputRecord, error) {
	steps := []core.Step{&pipeline.FillStep{Raster: g.raster, Width: tpl.Width, Height: tpl.Height}}
	if g.cfg.RoundedLegacyIcons {
		m, err := mask.RoundedRect(tpl.Width, tpl.Height, geometry.IconCornerRadius)
		if err != nil {
			return nil, err
		}
		steps = append(steps, &pipeline.MaskStep{Raster: g.raster, Mask: m})
	}
	iw, ih := geometry.PaddedSize(tpl.Width, tpl.Height, geometry.IconPadding)
	steps = append(steps,
		&pipeline.ResizeStep{Raster: g.raster, Width: iw, Height: ih},
		&pipeline.ExtendStep{Raster: g.raster, Pad: core.Uniform(geometry.IconPadding), Fill: color.Transparent},
	)

	rec := core.NewOutputRecord(tpl, asset, project)
	if err := g.emit(ctx, rec, path.Join(tpl.MipmapDir(), launcherFile), src, steps...); err != nil {
		return nil, err
	}
	return rec, nil
}

// roundIcon clips the filled source to a circle of radius width/2.
func (g *Generator) roundIcon(ctx context.Context, src *core.ImageData, tpl core.OutputTemplate, asset *core.SourceAsset, project core.Project) (*core.OutputRecord, error) {
	m, err := mask.Circle(tpl.Width, tpl.Height)
	if err != nil {
		return nil, err
	}
	rec := core.NewOutputRecord(tpl, asset, project)
	err = g.emit(ctx, rec, path.Join(tpl.MipmapDir(), launcherRoundFile), src,
		&pipeline.FillStep{Raster: g.raster, Width: tpl.Width, Height: tpl.Height},
		&pipeline.MaskStep{Raster: g.raster, Mask: m},
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// generateAdaptiveLayer writes one pre-isolated adaptive layer at every icon
// density along with the shared descriptors.
func (g *Generator) generateAdaptiveLayer(ctx context.Context, asset *core.SourceAsset, project core.Project, l layer) ([]*core.OutputRecord, error) {
	src, err := pipelineOf("android.adaptive."+string(l), asset)
	if err != nil {
		return nil, err
	}
	templates := catalog.AndroidOf(core.KindIcon)
	return g.concurrently(ctx, len(templates), func(ctx context.Context, i int) (*core.OutputRecord, error) {
		return g.adaptiveLayer(ctx, src, templates[i], asset, project, l)
	})
}

func (g *Generator) adaptiveLayer(ctx context.Context, src *core.ImageData, tpl core.OutputTemplate, asset *core.SourceAsset, project core.Project, l layer, pre ...core.Step) (*core.OutputRecord, error) {
	rec := core.NewOutputRecord(tpl, asset, project)
	steps := append(append([]core.Step(nil), pre...),
		&pipeline.FillStep{Raster: g.raster, Width: tpl.Width, Height: tpl.Height})
	if err := g.emit(ctx, rec, path.Join(tpl.MipmapDir(), l.file()), src, steps...); err != nil {
		return nil, err
	}
	if err := g.writeDescriptors(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

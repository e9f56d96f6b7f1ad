package android

import (
	"context"
	"path"
	"path/filepath"

	"github.com/beevik/etree"

	"github.com/Skryldev/asset-generator/core"
	"github.com/Skryldev/asset-generator/geometry"
	"github.com/Skryldev/asset-generator/pipeline"
)

const (
	bannerFile = "banner.png"
	splashFile = "splash.png"

	launcherFile      = "ic_launcher.png"
	launcherRoundFile = "ic_launcher_round.png"

	anyDpiDir = "mipmap-anydpi-v26"
)

// render runs steps on src, encodes the result as PNG and returns it.
func (g *Generator) render(ctx context.Context, src *core.ImageData, steps ...core.Step) (*core.ImageData, error) {
	p := pipeline.New(steps...).
		Use(&pipeline.EncodeStep{Registry: g.registry, Format: core.FormatPNG}).
		AddHook(g.hooks...)
	out, _, err := p.Run(ctx, src)
	return out, err
}

// emit renders src and writes it to rel under the project's res directory,
// adding the file to rec.
func (g *Generator) emit(ctx context.Context, rec *core.OutputRecord, rel string, src *core.ImageData, steps ...core.Step) error {
	img, err := g.render(ctx, src, steps...)
	if err != nil {
		return err
	}
	dest, err := g.write(ctx, rec.Project, rel, img.Data)
	if err != nil {
		return err
	}
	rec.Add(rel, dest, core.OutputInfo{
		Format: core.FormatPNG,
		Width:  img.Meta.Width,
		Height: img.Meta.Height,
		Size:   img.Meta.SizeBytes,
	})
	g.logger.Debug("android.write", "file", rel, "width", img.Meta.Width, "height", img.Meta.Height)
	return nil
}

// write stores data at the slash-separated rel path below the res directory,
// creating the parent directory when it is missing, and returns the absolute
// path.
func (g *Generator) write(ctx context.Context, project core.Project, rel string, data []byte) (string, error) {
	dest := filepath.Join(g.ResPath(project), filepath.FromSlash(rel))
	dir := filepath.Dir(dest)
	ok, err := g.fs.Exists(ctx, dir)
	if err != nil {
		return "", err
	}
	if !ok {
		if err := g.fs.EnsureDir(ctx, dir); err != nil {
			return "", err
		}
	}
	if err := g.fs.WriteFile(ctx, dest, data); err != nil {
		return "", err
	}
	return dest, nil
}

// writeDescriptors writes both adaptive icon descriptors and adds them to rec.
// Every adaptive layer render rewrites them with identical content.
func (g *Generator) writeDescriptors(ctx context.Context, rec *core.OutputRecord) error {
	doc, err := AdaptiveIconXML()
	if err != nil {
		return err
	}
	for _, name := range []string{"ic_launcher.xml", "ic_launcher_round.xml"} {
		rel := path.Join(anyDpiDir, name)
		dest, err := g.write(ctx, rec.Project, rel, doc)
		if err != nil {
			return err
		}
		rec.Add(rel, dest, core.OutputInfo{Format: core.FormatXML, Size: int64(len(doc))})
	}
	return nil
}

// AdaptiveIconXML renders the adaptive-icon descriptor referencing the
// background and foreground mipmaps, each inset by geometry.AdaptiveInset.
func AdaptiveIconXML() ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	root := doc.CreateElement("adaptive-icon")
	root.CreateAttr("xmlns:android", "http://schemas.android.com/apk/res/android")
	for _, layer := range []layer{layerBackground, layerForeground} {
		inset := root.CreateElement(string(layer)).CreateElement("inset")
		inset.CreateAttr("android:drawable", "@mipmap/"+layer.resource())
		inset.CreateAttr("android:inset", geometry.AdaptiveInset)
	}
	doc.Indent(4)
	return doc.WriteToBytes()
}

package assetgen_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	assetgen "github.com/Skryldev/asset-generator"
	"github.com/Skryldev/asset-generator/android"
	"github.com/Skryldev/asset-generator/config"
	"github.com/Skryldev/asset-generator/core"
	apperrors "github.com/Skryldev/asset-generator/errors"
	"github.com/Skryldev/asset-generator/project"
)

// ── Test helpers ──────────────────────────────────────────────────────────────

var logoBlue = color.NRGBA{R: 30, G: 60, B: 200, A: 255}

const manifestXML = `<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.example.app">
    <application android:label="@string/app_name">
    </application>
</manifest>
`

func writeSolidPNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write test png: %v", err)
	}
}

// newProject lays out <dir>/android with an optional main manifest.
func newProject(t *testing.T, withManifest bool) (string, *project.Project) {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "android", "app", "src", "main")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}
	if withManifest {
		if err := os.WriteFile(filepath.Join(src, "AndroidManifest.xml"), []byte(manifestXML), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	p, err := project.Open(dir)
	if err != nil {
		t.Fatalf("project.Open: %v", err)
	}
	return dir, p
}

func newGen(t *testing.T, cfg config.Config) *assetgen.Generator {
	t.Helper()
	g, err := assetgen.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(g.Close)
	return g
}

func openLogo(t *testing.T, g *assetgen.Generator, kind core.Kind) *core.SourceAsset {
	t.Helper()
	path := filepath.Join(t.TempDir(), string(kind)+".png")
	writeSolidPNG(t, path, 1024, 1024, logoBlue)
	a, err := g.OpenSource(context.Background(), kind, core.PlatformAny, path)
	if err != nil {
		t.Fatalf("OpenSource: %v", err)
	}
	return a
}

func resDir(dir string) string {
	return filepath.Join(dir, "android", "app", "src", "main", "res")
}

func readPNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

func nrgba(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func countKind(recs []*core.OutputRecord, k core.Kind) int {
	n := 0
	for _, r := range recs {
		if r.Template.Kind == k {
			n++
		}
	}
	return n
}

// snapshot maps every file under root to its contents.
func snapshot(t *testing.T, root string) map[string][]byte {
	t.Helper()
	out := make(map[string][]byte)
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[path] = data
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
	return out
}

// ── End-to-end ────────────────────────────────────────────────────────────────

func TestGenerate_Logo_EndToEnd(t *testing.T) {
	dir, proj := newProject(t, true)
	g := newGen(t, assetgen.DefaultConfig())
	logo := openLogo(t, g, core.KindLogo)

	recs, err := g.Generate(context.Background(), logo, proj)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := map[core.Kind]int{
		core.KindAdaptiveIcon: 12, // foreground + background per density
		core.KindIcon:         12, // square + round per density
		core.KindBanner:       1,
		core.KindSplash:       13,
		core.KindSplashDark:   13,
	}
	total := 0
	for k, n := range want {
		if got := countKind(recs, k); got != n {
			t.Errorf("%s records: got %d, want %d", k, got, n)
		}
		total += n
	}
	if len(recs) != total {
		t.Errorf("records: got %d, want %d", len(recs), total)
	}

	res := resDir(dir)
	for _, rel := range []string{
		"mipmap-mdpi/ic_launcher.png",
		"mipmap-xxxhdpi/ic_launcher_round.png",
		"mipmap-xxxhdpi/ic_launcher_foreground.png",
		"mipmap-ldpi/ic_launcher_background.png",
		"mipmap-anydpi-v26/ic_launcher.xml",
		"mipmap-anydpi-v26/ic_launcher_round.xml",
		"drawable-xhdpi/banner.png",
		"drawable/splash.png",
		"drawable-port-xxhdpi/splash.png",
		"drawable-night/splash.png",
		"drawable-land-night-hdpi/splash.png",
	} {
		if _, err := os.Stat(filepath.Join(res, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}

	fg := readPNG(t, filepath.Join(res, "mipmap-xxxhdpi", "ic_launcher_foreground.png"))
	if b := fg.Bounds(); b.Dx() != 432 || b.Dy() != 432 {
		t.Errorf("xxxhdpi foreground: %dx%d, want 432x432", b.Dx(), b.Dy())
	}
	bg := readPNG(t, filepath.Join(res, "mipmap-xxxhdpi", "ic_launcher_background.png"))
	if got := nrgba(bg, 10, 10); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("adaptive background pixel: got %v, want white", got)
	}

	p2, err := project.Open(dir)
	if err != nil {
		t.Fatalf("reopen project: %v", err)
	}
	m := p2.AndroidManifest()
	if m == nil {
		t.Fatal("manifest not found after generation")
	}
	for k, v := range android.LauncherAttrs {
		if got, ok := m.Attr(android.ApplicationElement, k); !ok || got != v {
			t.Errorf("manifest %s: got %q (%v), want %q", k, got, ok, v)
		}
	}
	if got, _ := m.Attr(android.ApplicationElement, "android:label"); got != "@string/app_name" {
		t.Errorf("existing attribute lost: android:label = %q", got)
	}
}

func TestGenerate_RecordKeysMatch(t *testing.T) {
	_, proj := newProject(t, false)
	g := newGen(t, assetgen.DefaultConfig())
	recs, err := g.Generate(context.Background(), openLogo(t, g, core.KindLogo), proj)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, r := range recs {
		if len(r.Paths) == 0 {
			t.Errorf("%s: empty record", r.Template)
		}
		if len(r.Paths) != len(r.Info) {
			t.Errorf("%s: %d paths, %d infos", r.Template, len(r.Paths), len(r.Info))
		}
		for k := range r.Paths {
			if _, ok := r.Info[k]; !ok {
				t.Errorf("%s: path key %q has no info", r.Template, k)
			}
		}
		for k, info := range r.Info {
			if info.Size <= 0 {
				t.Errorf("%s: %s size %d", r.Template, k, info.Size)
			}
			if info.Format == core.FormatPNG && (info.Width <= 0 || info.Height <= 0) {
				t.Errorf("%s: %s dimensions %dx%d", r.Template, k, info.Width, info.Height)
			}
		}
	}
}

func TestGenerate_DarkSplashFromLightLogo(t *testing.T) {
	dir, proj := newProject(t, false)
	g := newGen(t, assetgen.DefaultConfig())
	recs, err := g.Generate(context.Background(), openLogo(t, g, core.KindLogo), proj)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if n := countKind(recs, core.KindSplashDark); n != 13 {
		t.Fatalf("dark splash records: got %d, want 13", n)
	}
	img := readPNG(t, filepath.Join(resDir(dir), "drawable-night", "splash.png"))
	if got := nrgba(img, 0, 0); got != (color.NRGBA{R: 0x11, G: 0x11, B: 0x11, A: 255}) {
		t.Errorf("dark splash background: got %v, want #111111", got)
	}
}

func TestGenerate_LogoDark_OnlyDarkSplashes(t *testing.T) {
	dir, proj := newProject(t, true)
	g := newGen(t, assetgen.DefaultConfig())
	recs, err := g.Generate(context.Background(), openLogo(t, g, core.KindLogoDark), proj)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(recs) != 13 {
		t.Errorf("records: got %d, want 13", len(recs))
	}
	for _, r := range recs {
		if r.Template.Kind != core.KindSplashDark {
			t.Errorf("unexpected %s record", r.Template.Kind)
		}
	}
	if _, err := os.Stat(filepath.Join(resDir(dir), "mipmap-anydpi-v26")); !os.IsNotExist(err) {
		t.Errorf("adaptive icon descriptors written for a dark logo: %v", err)
	}
	p2, _ := project.Open(dir)
	if _, ok := p2.AndroidManifest().Attr(android.ApplicationElement, "android:icon"); ok {
		t.Error("dark logo must not update the manifest")
	}
}

func TestGenerate_IconPixels(t *testing.T) {
	dir, proj := newProject(t, false)
	g := newGen(t, assetgen.DefaultConfig())
	path := filepath.Join(t.TempDir(), "icon-only.png")
	writeSolidPNG(t, path, 512, 512, logoBlue)
	icon, err := g.OpenSource(context.Background(), core.KindIcon, core.PlatformAndroid, path)
	if err != nil {
		t.Fatalf("OpenSource: %v", err)
	}
	recs, err := g.Generate(context.Background(), icon, proj)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(recs) != 12 {
		t.Errorf("records: got %d, want 12", len(recs))
	}

	square := readPNG(t, filepath.Join(resDir(dir), "mipmap-xxxhdpi", "ic_launcher.png"))
	if b := square.Bounds(); b.Dx() != 192 || b.Dy() != 192 {
		t.Fatalf("square icon: %dx%d, want 192x192", b.Dx(), b.Dy())
	}
	for _, tc := range []struct {
		x, y  int
		alpha uint8
	}{
		{0, 0, 0}, {7, 96, 0}, {96, 7, 0}, {184, 96, 0}, {96, 184, 0},
		{8, 8, 255}, {96, 96, 255}, {183, 183, 255},
	} {
		if got := nrgba(square, tc.x, tc.y).A; got != tc.alpha {
			t.Errorf("square (%d,%d) alpha: got %d, want %d", tc.x, tc.y, got, tc.alpha)
		}
	}

	round := readPNG(t, filepath.Join(resDir(dir), "mipmap-xxxhdpi", "ic_launcher_round.png"))
	const r = 96.0
	b := round.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dx, dy := float64(x)+0.5-r, float64(y)+0.5-r
			d2 := dx*dx + dy*dy
			a := nrgba(round, x, y).A
			switch {
			case d2 > (r+1)*(r+1) && a != 0:
				t.Fatalf("round (%d,%d) outside radius has alpha %d", x, y, a)
			case d2 < (r-1)*(r-1) && a != 255:
				t.Fatalf("round (%d,%d) inside radius has alpha %d", x, y, a)
			}
		}
	}
}

func TestGenerate_OverlayTargetWidth(t *testing.T) {
	dir, proj := newProject(t, false)
	cfg := assetgen.DefaultConfig()
	cfg.LogoSplashTargetWidth = 100
	g := newGen(t, cfg)
	if _, err := g.Generate(context.Background(), openLogo(t, g, core.KindLogo), proj); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// 480x320 default splash; the 100px logo sits at (190,110).
	img := readPNG(t, filepath.Join(resDir(dir), "drawable", "splash.png"))
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	for _, tc := range []struct {
		x, y int
		want color.NRGBA
	}{
		{189, 160, white},
		{190, 160, logoBlue},
		{289, 160, logoBlue},
		{290, 160, white},
		{240, 109, white},
		{240, 110, logoBlue},
		{240, 209, logoBlue},
		{240, 210, white},
	} {
		if got := nrgba(img, tc.x, tc.y); got != tc.want {
			t.Errorf("splash (%d,%d): got %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	dir, proj := newProject(t, true)
	g := newGen(t, assetgen.DefaultConfig())
	logo := openLogo(t, g, core.KindLogo)

	if _, err := g.Generate(context.Background(), logo, proj); err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	first := snapshot(t, filepath.Join(dir, "android"))
	if _, err := g.Generate(context.Background(), logo, proj); err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	second := snapshot(t, filepath.Join(dir, "android"))

	if len(first) != len(second) {
		t.Fatalf("file count changed: %d -> %d", len(first), len(second))
	}
	var changed []string
	for path, data := range first {
		if !bytes.Equal(data, second[path]) {
			changed = append(changed, strings.TrimPrefix(path, dir))
		}
	}
	sort.Strings(changed)
	if len(changed) > 0 {
		t.Errorf("files differ between runs: %v", changed)
	}
}

func TestGenerate_DirectSplash(t *testing.T) {
	dir, proj := newProject(t, false)
	g := newGen(t, assetgen.DefaultConfig())
	path := filepath.Join(t.TempDir(), "splash-dark.png")
	writeSolidPNG(t, path, 2732, 2732, color.NRGBA{R: 10, G: 10, B: 10, A: 255})
	a, err := g.OpenSource(context.Background(), core.KindSplashDark, core.PlatformAny, path)
	if err != nil {
		t.Fatalf("OpenSource: %v", err)
	}
	recs, err := g.Generate(context.Background(), a, proj)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(recs) != 13 {
		t.Errorf("records: got %d, want 13", len(recs))
	}
	img := readPNG(t, filepath.Join(resDir(dir), "drawable-port-night-xxxhdpi", "splash.png"))
	if b := img.Bounds(); b.Dx() != 1280 || b.Dy() != 1920 {
		t.Errorf("port xxxhdpi splash: %dx%d, want 1280x1920", b.Dx(), b.Dy())
	}
	if _, err := os.Stat(filepath.Join(resDir(dir), "drawable", "splash.png")); !os.IsNotExist(err) {
		t.Error("dark source wrote a light splash")
	}
}

// ── Error handling ────────────────────────────────────────────────────────────

func TestGenerate_NoAndroidRoot(t *testing.T) {
	proj, err := project.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	g := newGen(t, assetgen.DefaultConfig())
	_, err = g.Generate(context.Background(), openLogo(t, g, core.KindLogo), proj)
	if !apperrors.IsConfiguration(err) || !errors.Is(err, apperrors.ErrNoPlatformRoot) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestGenerate_OtherPlatformIsNoop(t *testing.T) {
	dir, proj := newProject(t, false)
	g := newGen(t, assetgen.DefaultConfig())
	path := filepath.Join(t.TempDir(), "icon.png")
	writeSolidPNG(t, path, 64, 64, logoBlue)
	a, err := g.OpenSource(context.Background(), core.KindIcon, core.PlatformIOS, path)
	if err != nil {
		t.Fatal(err)
	}
	recs, err := g.Generate(context.Background(), a, proj)
	if err != nil || len(recs) != 0 {
		t.Errorf("ios asset: got %d records, err %v", len(recs), err)
	}
	if _, err := os.Stat(resDir(dir)); !os.IsNotExist(err) {
		t.Error("ios asset wrote android resources")
	}
}

func TestGenerate_PipelineUnavailable(t *testing.T) {
	_, proj := newProject(t, false)
	g := newGen(t, assetgen.DefaultConfig())
	a := core.NewSourceAsset(core.KindLogo, core.PlatformAny, "logo.png", nil)
	_, err := g.Generate(context.Background(), a, proj)
	if !apperrors.IsPipelineUnavailable(err) {
		t.Errorf("expected pipeline unavailable, got %v", err)
	}
}

func TestOpenSource_TooLarge(t *testing.T) {
	cfg := assetgen.DefaultConfig()
	cfg.MaxImageBytes = 32
	g := newGen(t, cfg)
	path := filepath.Join(t.TempDir(), "logo.png")
	writeSolidPNG(t, path, 256, 256, logoBlue)
	if _, err := g.OpenSource(context.Background(), core.KindLogo, core.PlatformAny, path); !errors.Is(err, apperrors.ErrInputTooLarge) {
		t.Errorf("expected ErrInputTooLarge, got %v", err)
	}
}

// ── Concurrency ───────────────────────────────────────────────────────────────

func TestGenerate_ConcurrentSafety(t *testing.T) {
	_, proj := newProject(t, true)
	cfg := assetgen.DefaultConfig()
	cfg.Concurrency = 4
	g := newGen(t, cfg)
	logo := openLogo(t, g, core.KindLogo)

	const goroutines = 4
	var wg sync.WaitGroup
	errs := make([]error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, errs[idx] = g.Generate(context.Background(), logo, proj)
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Errorf("goroutine %d: %v", i, err)
		}
	}

	snap := g.Metrics()
	if snap.StepCalls["encode"] == 0 || snap.TotalThroughputB == 0 {
		t.Errorf("metrics not recorded: %+v", snap)
	}
}

// Command assetgen renders Android launcher icons, adaptive icons, banners and
// splash screens from the source images in a project's assets directory.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	assetgen "github.com/Skryldev/asset-generator"
	"github.com/Skryldev/asset-generator/adapters/storage"
	"github.com/Skryldev/asset-generator/config"
	"github.com/Skryldev/asset-generator/core"
	"github.com/Skryldev/asset-generator/hooks"
	"github.com/Skryldev/asset-generator/project"
)

type options struct {
	projectDir string
	assetsDir  string
	androidDir string
	configPath string
	flavor     string
	backend    string
	watch      bool
	json       bool
	verbose    bool
}

func main() {
	var o options
	flag.StringVar(&o.projectDir, "project", ".", "project directory")
	flag.StringVar(&o.assetsDir, "assets", "assets", "source image directory, relative to -project")
	flag.StringVar(&o.androidDir, "android", "", "android project root (default <project>/android)")
	flag.StringVar(&o.configPath, "config", "", "YAML options file")
	flag.StringVar(&o.flavor, "flavor", "", "android build flavor (overrides androidFlavor)")
	flag.StringVar(&o.backend, "backend", "", "raster backend: native or vips (vips needs -tags vips)")
	flag.BoolVar(&o.watch, "watch", false, "regenerate when source images change")
	flag.BoolVar(&o.json, "json", false, "print generated outputs as JSON")
	flag.BoolVar(&o.verbose, "v", false, "verbose logging and step metrics")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "assetgen:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o options, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(o)
	if err != nil {
		return err
	}
	logger := hooks.NewTextLogger(stderr, cfg.LogLevel)

	gen, err := assetgen.New(cfg, assetgen.WithLogger(logger))
	if err != nil {
		return err
	}
	defer gen.Close()

	assetsDir := o.assetsDir
	if !filepath.IsAbs(assetsDir) {
		assetsDir = filepath.Join(o.projectDir, assetsDir)
	}

	once := func(ctx context.Context) error {
		start := time.Now()
		recs, err := generate(ctx, gen, o, cfg, assetsDir)
		if err != nil {
			return err
		}
		if o.json {
			return writeJSON(stdout, recs)
		}
		writeSummary(stdout, recs, time.Since(start))
		if o.verbose {
			writeMetrics(stdout, gen.Metrics())
		}
		return nil
	}

	if err := once(ctx); err != nil {
		return err
	}
	if !o.watch {
		return nil
	}
	logger.Info("watch.start", "assets", assetsDir)
	return watch(ctx, assetsDir, logger, once)
}

func loadConfig(o options) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, err
		}
	}
	if o.flavor != "" {
		cfg.AndroidFlavor = o.flavor
	}
	if o.backend != "" {
		cfg.Backend = config.Backend(o.backend)
	}
	if o.verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, config.Validate(cfg)
}

// generate opens the project afresh so manifest edits made between watch runs
// are picked up, then renders every discovered source in order.
func generate(ctx context.Context, gen *assetgen.Generator, o options, cfg config.Config, assetsDir string) ([]*core.OutputRecord, error) {
	opts := []project.Option{
		project.WithFlavor(cfg.AndroidFlavor),
		project.WithFilesystem(storage.NewLocal(0)),
	}
	if o.androidDir != "" {
		opts = append(opts, project.WithAndroid(o.androidDir))
	}
	proj, err := project.Open(o.projectDir, opts...)
	if err != nil {
		return nil, err
	}

	sources := discover(assetsDir)
	if len(sources) == 0 {
		return nil, fmt.Errorf("no source images found in %s", assetsDir)
	}
	assets := make([]*core.SourceAsset, 0, len(sources))
	for _, s := range sources {
		a, err := gen.OpenSource(ctx, s.Kind, s.Platform, s.Path)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return gen.GenerateAll(ctx, assets, proj)
}

type jsonFile struct {
	Path string `json:"path"`
	core.OutputInfo
}

type jsonRecord struct {
	Source   string              `json:"source"`
	Kind     core.Kind           `json:"kind"`
	Template core.Kind           `json:"template"`
	Density  string              `json:"density,omitempty"`
	Width    int                 `json:"width"`
	Height   int                 `json:"height"`
	Files    map[string]jsonFile `json:"files"`
}

func writeJSON(w io.Writer, recs []*core.OutputRecord) error {
	out := make([]jsonRecord, 0, len(recs))
	for _, r := range recs {
		jr := jsonRecord{
			Source:   r.Asset.Path,
			Kind:     r.Asset.Kind,
			Template: r.Template.Kind,
			Density:  r.Template.Density,
			Width:    r.Template.Width,
			Height:   r.Template.Height,
			Files:    make(map[string]jsonFile, len(r.Paths)),
		}
		for _, k := range r.Keys() {
			jr.Files[k] = jsonFile{Path: r.Paths[k], OutputInfo: r.Info[k]}
		}
		out = append(out, jr)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeSummary(w io.Writer, recs []*core.OutputRecord, elapsed time.Duration) {
	files := make(map[string]bool)
	var bytes int64
	for _, r := range recs {
		for _, k := range r.Keys() {
			if !files[r.Paths[k]] {
				files[r.Paths[k]] = true
				bytes += r.Info[k].Size
			}
		}
	}
	fmt.Fprintf(w, "Generated %d outputs (%d files, %d bytes) in %s\n",
		len(recs), len(files), bytes, elapsed.Round(time.Millisecond))
}

func writeMetrics(w io.Writer, snap hooks.MetricsSnapshot) {
	for _, step := range snap.Steps() {
		fmt.Fprintf(w, "  %-8s calls=%-5d errors=%-3d total=%s\n",
			step, snap.StepCalls[step], snap.StepErrors[step], snap.StepDurations[step].Round(time.Millisecond))
	}
}

// Package catalog holds the static output templates each platform requires.
package catalog

import "github.com/Skryldev/asset-generator/core"

// Android display-density buckets.
const (
	Ldpi    = "ldpi"
	Mdpi    = "mdpi"
	Hdpi    = "hdpi"
	Xhdpi   = "xhdpi"
	Xxhdpi  = "xxhdpi"
	Xxxhdpi = "xxxhdpi"
)

var densities = []string{Ldpi, Mdpi, Hdpi, Xhdpi, Xxhdpi, Xxxhdpi}

// Launcher icon edge per density; adaptive layers are 2.25x these.
var iconSizes = map[string]int{
	Ldpi: 36, Mdpi: 48, Hdpi: 72, Xhdpi: 96, Xxhdpi: 144, Xxxhdpi: 192,
}

// Landscape splash sizes per density; portrait swaps the axes.
var splashSizes = map[string][2]int{
	Ldpi:    {320, 240},
	Mdpi:    {480, 320},
	Hdpi:    {800, 480},
	Xhdpi:   {1280, 720},
	Xxhdpi:  {1600, 960},
	Xxxhdpi: {1920, 1280},
}

var android = buildAndroid()

func buildAndroid() []core.OutputTemplate {
	var out []core.OutputTemplate
	for _, d := range densities {
		s := iconSizes[d]
		out = append(out, core.OutputTemplate{Kind: core.KindIcon, Width: s, Height: s, Density: d})
	}
	for _, d := range densities {
		s := iconSizes[d] * 9 / 4
		out = append(out, core.OutputTemplate{Kind: core.KindAdaptiveIcon, Width: s, Height: s, Density: d})
	}

	out = append(out, core.OutputTemplate{Kind: core.KindBanner, Width: 320, Height: 180, Density: Xhdpi})

	for _, v := range []struct {
		kind  core.Kind
		night string
	}{
		{core.KindSplash, ""},
		{core.KindSplashDark, "night"},
	} {
		def := core.OutputTemplate{Kind: v.kind, Width: 480, Height: 320, Density: v.night}
		out = append(out, def)
		for _, d := range densities {
			land := splashSizes[d]
			out = append(out,
				core.OutputTemplate{Kind: v.kind, Width: land[0], Height: land[1], Density: qualifier("land", v.night, d)},
				core.OutputTemplate{Kind: v.kind, Width: land[1], Height: land[0], Density: qualifier("port", v.night, d)},
			)
		}
	}
	return out
}

func qualifier(orientation, night, density string) string {
	if night == "" {
		return orientation + "-" + density
	}
	return orientation + "-" + night + "-" + density
}

// Android returns every Android template.  The slice is a copy.
func Android() []core.OutputTemplate {
	out := make([]core.OutputTemplate, len(android))
	copy(out, android)
	return out
}

// AndroidOf returns the Android templates of one kind in catalog order.
func AndroidOf(kind core.Kind) []core.OutputTemplate {
	var out []core.OutputTemplate
	for _, t := range android {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

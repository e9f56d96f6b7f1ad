package main

import (
	"os"
	"path/filepath"

	"github.com/Skryldev/asset-generator/core"
)

// sourceNames maps source file base names to asset kinds.  Logos come first
// so that explicit sources processed later overwrite logo-derived outputs.
var sourceNames = []struct {
	name string
	kind core.Kind
}{
	{"logo", core.KindLogo},
	{"logo-dark", core.KindLogoDark},
	{"icon-only", core.KindIcon},
	{"icon-foreground", core.KindIconForeground},
	{"icon-background", core.KindIconBackground},
	{"banner", core.KindBanner},
	{"splash", core.KindSplash},
	{"splash-dark", core.KindSplashDark},
}

var sourceExts = []string{".png", ".jpg", ".jpeg", ".webp"}

type source struct {
	Kind     core.Kind
	Platform core.Platform
	Path     string
}

// discover lists the sources under dir.  Files in dir apply to every
// platform; files in dir/android override them for Android only.
func discover(dir string) []source {
	var out []source
	for _, scope := range []struct {
		dir      string
		platform core.Platform
	}{
		{dir, core.PlatformAny},
		{filepath.Join(dir, string(core.PlatformAndroid)), core.PlatformAndroid},
	} {
		for _, s := range sourceNames {
			if path := find(scope.dir, s.name); path != "" {
				out = append(out, source{Kind: s.kind, Platform: scope.platform, Path: path})
			}
		}
	}
	return out
}

func find(dir, name string) string {
	for _, ext := range sourceExts {
		path := filepath.Join(dir, name+ext)
		if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

// isSource reports whether path has a recognised source name and extension.
func isSource(path string) bool {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := base[:len(base)-len(ext)]
	known := false
	for _, e := range sourceExts {
		if e == ext {
			known = true
		}
	}
	if !known {
		return false
	}
	for _, s := range sourceNames {
		if s.name == stem {
			return true
		}
	}
	return false
}

package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// Backend selects the raster implementation.
type Backend string

const (
	BackendNative Backend = "native"
	BackendVips   Backend = "vips"
)

// Config is the top-level configuration struct.  Generation options mirror the
// keys accepted in the YAML config file; Default fills every field, so a file
// only needs the keys it overrides.
type Config struct {
	// Adaptive icon background canvas colours.
	IconBackgroundColor     string `yaml:"iconBackgroundColor"`
	IconBackgroundColorDark string `yaml:"iconBackgroundColorDark"`

	// Canvas fill for logo-derived banners and splashes.
	SplashBackgroundColor     string `yaml:"splashBackgroundColor"`
	SplashBackgroundColorDark string `yaml:"splashBackgroundColorDark"`

	// Logo width on splashes as a fraction of the splash width.
	LogoSplashScale float64 `yaml:"logoSplashScale"`
	// Absolute logo width override; 0 means unset.
	LogoSplashTargetWidth int `yaml:"logoSplashTargetWidth"`

	// Build flavor directory under app/src; a project flavor takes precedence.
	AndroidFlavor string `yaml:"androidFlavor"`

	// Apply the rounded-rect mask to square legacy icons instead of leaving
	// them as transparent-padded squares.
	RoundedLegacyIcons bool `yaml:"roundedLegacyIcons"`

	// Runtime.
	Backend       Backend `yaml:"backend"`
	Concurrency   int     `yaml:"concurrency"`   // max concurrent renders per stage; 0 = unbounded
	MaxImageBytes int64   `yaml:"maxImageBytes"` // 0 = no limit
	LogLevel      string  `yaml:"logLevel"`      // "debug", "info", "warn", "error"
}

// Default returns a Config populated with the documented defaults.
func Default() Config {
	return Config{
		IconBackgroundColor:       "#ffffff",
		IconBackgroundColorDark:   "#111111",
		SplashBackgroundColor:     "#ffffff",
		SplashBackgroundColorDark: "#111111",
		LogoSplashScale:           0.2,
		AndroidFlavor:             "main",
		Backend:                   BackendNative,
		LogLevel:                  "info",
	}
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate returns an error if the configuration is inconsistent.
func Validate(c Config) error {
	if c.LogoSplashScale <= 0 {
		return errors.New("config: logoSplashScale must be positive")
	}
	if c.LogoSplashTargetWidth < 0 {
		return errors.New("config: logoSplashTargetWidth must not be negative")
	}
	if c.Concurrency < 0 {
		return errors.New("config: concurrency must not be negative")
	}
	if strings.ContainsAny(c.AndroidFlavor, `/\`) {
		return fmt.Errorf("config: androidFlavor %q must be a single directory name", c.AndroidFlavor)
	}
	switch c.Backend {
	case BackendNative, BackendVips:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	if _, err := Resolve(c); err != nil {
		return err
	}
	return nil
}

// Palette holds the configured colours parsed once.
type Palette struct {
	IconBackground       color.NRGBA
	IconBackgroundDark   color.NRGBA
	SplashBackground     color.NRGBA
	SplashBackgroundDark color.NRGBA
}

// Resolve parses every colour option.
func Resolve(c Config) (Palette, error) {
	var p Palette
	fields := []struct {
		name string
		in   string
		out  *color.NRGBA
	}{
		{"iconBackgroundColor", c.IconBackgroundColor, &p.IconBackground},
		{"iconBackgroundColorDark", c.IconBackgroundColorDark, &p.IconBackgroundDark},
		{"splashBackgroundColor", c.SplashBackgroundColor, &p.SplashBackground},
		{"splashBackgroundColorDark", c.SplashBackgroundColorDark, &p.SplashBackgroundDark},
	}
	for _, f := range fields {
		col, err := ParseColor(f.in)
		if err != nil {
			return p, fmt.Errorf("config: %s: %w", f.name, err)
		}
		*f.out = col
	}
	return p, nil
}

// ParseColor accepts #rgb, #rrggbb, #rrggbbaa and SVG colour names.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if named, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: named.R, G: named.G, B: named.B, A: named.A}, nil
	}
	alpha := uint8(0xff)
	if len(s) == 9 && s[0] == '#' {
		var a uint8
		if _, err := fmt.Sscanf(s[7:], "%02x", &a); err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
		}
		alpha = a
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

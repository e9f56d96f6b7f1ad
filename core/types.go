package core

import (
	"fmt"
	"path"
	"sort"
)

// Format identifies an image codec.
type Format string

const (
	FormatJPEG    Format = "jpeg"
	FormatPNG     Format = "png"
	FormatWebP    Format = "webp"
	FormatXML     Format = "xml"
	FormatUnknown Format = "unknown"
)

// Kind tags both source assets and output templates.
type Kind string

const (
	KindIcon           Kind = "icon"
	KindLogo           Kind = "logo"
	KindLogoDark       Kind = "logo-dark"
	KindIconForeground Kind = "icon-foreground"
	KindIconBackground Kind = "icon-background"
	KindBanner         Kind = "banner"
	KindSplash         Kind = "splash"
	KindSplashDark     Kind = "splash-dark"

	// KindAdaptiveIcon only appears on output templates.
	KindAdaptiveIcon Kind = "adaptive-icon"
)

var sourceKinds = []Kind{
	KindIcon, KindLogo, KindLogoDark, KindIconForeground,
	KindIconBackground, KindBanner, KindSplash, KindSplashDark,
}

// SourceKinds lists every kind a source asset may declare.
func SourceKinds() []Kind {
	out := make([]Kind, len(sourceKinds))
	copy(out, sourceKinds)
	return out
}

// Valid reports whether k is a source kind.
func (k Kind) Valid() bool {
	for _, sk := range sourceKinds {
		if sk == k {
			return true
		}
	}
	return false
}

// ParseKind maps a source kind name to a Kind.
func ParseKind(s string) (Kind, error) {
	if k := Kind(s); k.Valid() {
		return k, nil
	}
	return "", fmt.Errorf("unknown asset kind %q", s)
}

// Platform identifies a target platform.
type Platform string

const (
	PlatformAny     Platform = "any"
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
	PlatformPWA     Platform = "pwa"
)

// ParsePlatform maps a platform name to a Platform.
func ParsePlatform(s string) (Platform, error) {
	switch p := Platform(s); p {
	case PlatformAny, PlatformAndroid, PlatformIOS, PlatformPWA:
		return p, nil
	}
	return "", fmt.Errorf("unknown platform %q", s)
}

// Metadata holds image information.
type Metadata struct {
	Width     int
	Height    int
	Format    Format
	HasAlpha  bool
	SizeBytes int64
}

// ImageData is the in-memory representation passed through a pipeline.
// Data holds encoded bytes; Image holds the decoded pixel buffer.
type ImageData struct {
	// Encoded bytes: the raw source on decode, the output after an encode step.
	Data   []byte
	Format Format

	// Decoded pixel buffer.  The concrete type belongs to the backend that
	// decoded it: image.Image for the native backend, *vips.Image for libvips.
	Image interface{}

	Meta Metadata
}

// SourceAsset is one input image.  It is immutable once constructed and may
// be shared by concurrent renders.
type SourceAsset struct {
	Kind     Kind
	Platform Platform
	Path     string
	Width    int
	Height   int

	image *ImageData
}

// NewSourceAsset wraps an already decoded image.  img may be nil, in which
// case Pipeline reports no handle.
func NewSourceAsset(kind Kind, platform Platform, path string, img *ImageData) *SourceAsset {
	a := &SourceAsset{Kind: kind, Platform: platform, Path: path, image: img}
	if img != nil {
		a.Width, a.Height = img.Meta.Width, img.Meta.Height
	}
	return a
}

// Pipeline returns the decoded image handle, or nil when none was opened.
func (a *SourceAsset) Pipeline() *ImageData { return a.image }

func (a *SourceAsset) String() string {
	return fmt.Sprintf("%s/%s (%s %dx%d)", a.Platform, a.Kind, a.Path, a.Width, a.Height)
}

// OutputTemplate is one catalog entry: a required output and its geometry.
type OutputTemplate struct {
	Kind    Kind
	Width   int
	Height  int
	Density string // empty for the density-less default bucket
}

// DrawableDir returns the drawable bucket for this template.
func (t OutputTemplate) DrawableDir() string {
	if t.Density == "" {
		return "drawable"
	}
	return "drawable-" + t.Density
}

// MipmapDir returns the mipmap bucket for this template.
func (t OutputTemplate) MipmapDir() string { return "mipmap-" + t.Density }

func (t OutputTemplate) String() string {
	if t.Density == "" {
		return fmt.Sprintf("%s %dx%d", t.Kind, t.Width, t.Height)
	}
	return fmt.Sprintf("%s %dx%d (%s)", t.Kind, t.Width, t.Height, t.Density)
}

// OutputInfo is what the encode step reports for one written file.
type OutputInfo struct {
	Format Format `json:"format"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Size   int64  `json:"size"`
}

// OutputRecord describes the files produced from one template and one source.
// Paths and Info are keyed by the resource-relative slash path of each file.
type OutputRecord struct {
	Template OutputTemplate
	Asset    *SourceAsset
	Project  Project
	Paths    map[string]string
	Info     map[string]OutputInfo
}

// NewOutputRecord starts an empty record.
func NewOutputRecord(tpl OutputTemplate, asset *SourceAsset, project Project) *OutputRecord {
	return &OutputRecord{
		Template: tpl,
		Asset:    asset,
		Project:  project,
		Paths:    make(map[string]string),
		Info:     make(map[string]OutputInfo),
	}
}

// Add records one written file under its relative key.
func (r *OutputRecord) Add(rel, dest string, info OutputInfo) {
	key := path.Clean(rel)
	r.Paths[key] = dest
	r.Info[key] = info
}

// Keys returns the record's relative keys in sorted order.
func (r *OutputRecord) Keys() []string {
	keys := make([]string, 0, len(r.Paths))
	for k := range r.Paths {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

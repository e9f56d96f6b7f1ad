// Package project describes the mobile project assets are generated into.
package project

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/Skryldev/asset-generator/core"
	apperrors "github.com/Skryldev/asset-generator/errors"
)

const (
	defaultAndroidDir = "android"
	defaultFlavor     = "main"
	manifestFile      = "AndroidManifest.xml"
)

// Project is a core.Project backed by a directory on disk.
type Project struct {
	dir    string
	roots  map[core.Platform]string
	flavor string

	mu       sync.Mutex
	manifest *AndroidManifest
	fs       core.Filesystem
}

// Option configures Open.
type Option func(*Project)

// WithAndroid sets the Android project root explicitly.  Relative paths are
// resolved against the project directory.
func WithAndroid(root string) Option {
	return func(p *Project) { p.roots[core.PlatformAndroid] = p.resolve(root) }
}

// WithFlavor sets the build flavor whose resources are written.
func WithFlavor(flavor string) Option {
	return func(p *Project) { p.flavor = flavor }
}

// WithFilesystem routes manifest writes through fs.
func WithFilesystem(fs core.Filesystem) Option {
	return func(p *Project) { p.fs = fs }
}

// Open describes the project rooted at dir.  Without WithAndroid the Android
// root is dir/android when that directory exists.  An AndroidManifest.xml in
// the flavor's source set, or else in main, is loaded eagerly.
func Open(dir string, opts ...Option) (*Project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryConfig, "project.open", err)
	}
	p := &Project{dir: abs, roots: make(map[core.Platform]string)}
	if isDir(filepath.Join(abs, defaultAndroidDir)) {
		p.roots[core.PlatformAndroid] = filepath.Join(abs, defaultAndroidDir)
	}
	for _, o := range opts {
		o(p)
	}

	if root := p.roots[core.PlatformAndroid]; root != "" {
		for _, flavor := range p.manifestFlavors() {
			path := filepath.Join(root, "app", "src", flavor, manifestFile)
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				continue
			}
			m, err := LoadAndroidManifest(path)
			if err != nil {
				return nil, err
			}
			p.manifest = m
			break
		}
	}
	return p, nil
}

func (p *Project) manifestFlavors() []string {
	if p.flavor == "" || p.flavor == defaultFlavor {
		return []string{defaultFlavor}
	}
	return []string{p.flavor, defaultFlavor}
}

// Dir returns the absolute project directory.
func (p *Project) Dir() string { return p.dir }

func (p *Project) PlatformRoot(pl core.Platform) string { return p.roots[pl] }

func (p *Project) Flavor() string { return p.flavor }

// Manifest returns the Android manifest, or nil when the project has none.
func (p *Project) Manifest(pl core.Platform) core.Manifest {
	if pl != core.PlatformAndroid || p.manifest == nil {
		return nil
	}
	return p.manifest
}

// AndroidManifest returns the loaded manifest for inspection, or nil.
func (p *Project) AndroidManifest() *AndroidManifest { return p.manifest }

// Commit writes the manifest back to disk if it changed since the last commit.
func (p *Project) Commit(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	m := p.manifest
	if m == nil || !m.Dirty() {
		return nil
	}
	data, err := m.Bytes()
	if err != nil {
		return apperrors.Wrap(apperrors.CategoryManifest, "project.commit", err)
	}
	if p.fs != nil {
		err = p.fs.WriteFile(ctx, m.Path(), data)
	} else if err = ctx.Err(); err == nil {
		err = os.WriteFile(m.Path(), data, 0o644)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.CategoryManifest, "project.commit", err)
	}
	m.markClean()
	return nil
}

func (p *Project) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.dir, path)
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

var _ core.Project = (*Project)(nil)

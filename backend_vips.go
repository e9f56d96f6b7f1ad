//go:build vips

package assetgen

import "github.com/Skryldev/asset-generator/adapters/vips"

// useVips starts libvips and routes decoding, encoding and raster work
// through it.
func useVips(g *Generator) error {
	b := vips.NewBackend(vips.BackendConfig{MaxWorkers: g.cfg.Concurrency})
	vips.RegisterVipsBackend(g.registry, b)
	g.raster = b
	g.release = b.Shutdown
	return nil
}

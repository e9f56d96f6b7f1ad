package android

import (
	"context"

	"github.com/Skryldev/asset-generator/core"
	apperrors "github.com/Skryldev/asset-generator/errors"
)

// ApplicationElement is the manifest element carrying the launcher attributes.
const ApplicationElement = "manifest/application"

// LauncherAttrs are set on ApplicationElement after legacy icons are written.
var LauncherAttrs = map[string]string{
	"android:icon":      "@mipmap/ic_launcher",
	"android:banner":    "@drawable/banner",
	"android:roundIcon": "@mipmap/ic_launcher_round",
}

// updateManifest points the application at the generated launcher resources
// and commits.  A project without a manifest is left untouched.
func (g *Generator) updateManifest(ctx context.Context, project core.Project) error {
	m := project.Manifest(core.PlatformAndroid)
	if m == nil {
		g.logger.Debug("android.manifest.skip", "reason", "no manifest")
		return nil
	}
	if err := m.SetAttrs(ApplicationElement, LauncherAttrs); err != nil {
		return apperrors.Wrap(apperrors.CategoryManifest, "android.manifest.set", err)
	}
	if err := project.Commit(ctx); err != nil {
		return apperrors.Wrap(apperrors.CategoryManifest, "android.manifest.commit", err)
	}
	g.logger.Info("android.manifest.updated", "element", ApplicationElement)
	return nil
}

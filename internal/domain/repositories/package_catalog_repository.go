package repositories

import (
	"context"

	"github.com/rios0rios0/bumpsync/internal/domain/entities"
)

// PackageCatalogRepository abstracts a package-manager workspace layout
// (npm/yarn workspaces, pnpm workspaces, ...).
type PackageCatalogRepository interface {
	// Name returns the catalog identifier (e.g. "npm", "pnpm").
	Name() string

	// Detect returns true if the repository uses this workspace layout.
	Detect(repoDir string) bool

	// Discover reads the root manifest and every workspace member.
	Discover(ctx context.Context, repoDir string) ([]*entities.PackageInfo, error)

	// WriteManifest persists pkg.Manifest to pkg.ManifestPath.
	WriteManifest(ctx context.Context, pkg *entities.PackageInfo) error
}

package npm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/bumpsync/internal/domain/entities"
	"github.com/rios0rios0/bumpsync/internal/domain/repositories"
)

const catalogName = "npm"

// NpmCatalogRepository implements repositories.PackageCatalogRepository for
// npm and yarn workspaces declared in the root package.json.
type NpmCatalogRepository struct{}

// NewNpmCatalogRepository creates a new npm workspace catalog.
func NewNpmCatalogRepository() repositories.PackageCatalogRepository {
	return &NpmCatalogRepository{}
}

func (r *NpmCatalogRepository) Name() string { return catalogName }

// Detect returns true if the directory has a package.json.
func (r *NpmCatalogRepository) Detect(repoDir string) bool {
	info, err := os.Stat(filepath.Join(repoDir, ManifestFileName))
	return err == nil && !info.IsDir()
}

// Discover reads the "workspaces" field of the root manifest, which is
// either a list of globs or an object with a "packages" list.
func (r *NpmCatalogRepository) Discover(
	ctx context.Context,
	repoDir string,
) ([]*entities.PackageInfo, error) {
	root, err := readRoot(repoDir)
	if err != nil {
		return nil, err
	}

	patterns, err := workspacePatterns(root.Manifest)
	if err != nil {
		return nil, fmt.Errorf("invalid workspaces in %s: %w", root.ManifestPath, err)
	}
	logger.Debugf("[npm] Workspace patterns: %v", patterns)

	return DiscoverWorkspace(ctx, repoDir, patterns)
}

// WriteManifest persists pkg.Manifest to pkg.ManifestPath.
func (r *NpmCatalogRepository) WriteManifest(ctx context.Context, pkg *entities.PackageInfo) error {
	return WriteManifestFile(ctx, pkg)
}

func workspacePatterns(manifest *entities.Manifest) ([]string, error) {
	raw, ok := manifest.Field("workspaces")
	if !ok {
		return nil, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var object struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(raw, &object); err != nil {
		return nil, err
	}
	return object.Packages, nil
}

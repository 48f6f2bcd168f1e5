package pnpm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/bumpsync/internal/domain/entities"
	"github.com/rios0rios0/bumpsync/internal/domain/repositories"
	"github.com/rios0rios0/bumpsync/internal/infrastructure/repositories/npm"
)

const (
	catalogName       = "pnpm"
	workspaceFileName = "pnpm-workspace.yaml"
)

type workspaceFile struct {
	Packages []string `yaml:"packages"`
}

// PnpmCatalogRepository implements repositories.PackageCatalogRepository for
// pnpm workspaces declared in pnpm-workspace.yaml.
type PnpmCatalogRepository struct{}

// NewPnpmCatalogRepository creates a new pnpm workspace catalog.
func NewPnpmCatalogRepository() repositories.PackageCatalogRepository {
	return &PnpmCatalogRepository{}
}

func (r *PnpmCatalogRepository) Name() string { return catalogName }

// Detect returns true if the directory has a pnpm-workspace.yaml.
func (r *PnpmCatalogRepository) Detect(repoDir string) bool {
	info, err := os.Stat(filepath.Join(repoDir, workspaceFileName))
	return err == nil && !info.IsDir()
}

func (r *PnpmCatalogRepository) Discover(
	ctx context.Context,
	repoDir string,
) ([]*entities.PackageInfo, error) {
	path := filepath.Join(repoDir, workspaceFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var workspace workspaceFile
	if err = yaml.Unmarshal(data, &workspace); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	logger.Debugf("[pnpm] Workspace patterns: %v", workspace.Packages)

	return npm.DiscoverWorkspace(ctx, repoDir, workspace.Packages)
}

func (r *PnpmCatalogRepository) WriteManifest(ctx context.Context, pkg *entities.PackageInfo) error {
	return npm.WriteManifestFile(ctx, pkg)
}

//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/bumpsync/internal/domain/entities"
	"github.com/rios0rios0/bumpsync/internal/domain/repositories"
)

// SpyPackageCatalogRepository implements repositories.PackageCatalogRepository as a configurable spy.
type SpyPackageCatalogRepository struct {
	// --- identity ---
	CatalogName string

	// --- Detect ---
	DetectResult bool

	// --- Discover ---
	Packages    []*entities.PackageInfo
	DiscoverErr error

	// --- WriteManifest ---
	WriteErr error
	mu       sync.Mutex
	Written  []string // package names, in call order
}

var _ repositories.PackageCatalogRepository = (*SpyPackageCatalogRepository)(nil)

func (s *SpyPackageCatalogRepository) Name() string { return s.CatalogName }

func (s *SpyPackageCatalogRepository) Detect(_ string) bool { return s.DetectResult }

func (s *SpyPackageCatalogRepository) Discover(
	_ context.Context,
	_ string,
) ([]*entities.PackageInfo, error) {
	return s.Packages, s.DiscoverErr
}

func (s *SpyPackageCatalogRepository) WriteManifest(_ context.Context, pkg *entities.PackageInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.Written = append(s.Written, pkg.Name)
	return nil
}

// WrittenNames returns a copy of the written package names.
func (s *SpyPackageCatalogRepository) WrittenNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.Written...)
}

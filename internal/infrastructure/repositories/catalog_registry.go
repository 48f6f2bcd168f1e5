package repositories

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	domainRepos "github.com/rios0rios0/bumpsync/internal/domain/repositories"
)

// CatalogRegistry manages all registered workspace catalog implementations.
// Detection follows registration order, so more specific layouts must be
// registered first.
type CatalogRegistry struct {
	catalogs *orderedmap.OrderedMap[string, domainRepos.PackageCatalogRepository]
}

// NewCatalogRegistry creates an empty catalog registry.
func NewCatalogRegistry() *CatalogRegistry {
	return &CatalogRegistry{
		catalogs: orderedmap.New[string, domainRepos.PackageCatalogRepository](),
	}
}

// Register adds a catalog under its name.
func (r *CatalogRegistry) Register(c domainRepos.PackageCatalogRepository) {
	r.catalogs.Set(c.Name(), c)
}

// Get returns the catalog with the given name, or nil if not registered.
func (r *CatalogRegistry) Get(name string) domainRepos.PackageCatalogRepository {
	catalog, _ := r.catalogs.Get(name)
	return catalog
}

// All returns every registered catalog in registration order.
func (r *CatalogRegistry) All() []domainRepos.PackageCatalogRepository {
	result := make([]domainRepos.PackageCatalogRepository, 0, r.catalogs.Len())
	for pair := r.catalogs.Oldest(); pair != nil; pair = pair.Next() {
		result = append(result, pair.Value)
	}
	return result
}

// Names returns the registered catalog names in registration order.
func (r *CatalogRegistry) Names() []string {
	names := make([]string, 0, r.catalogs.Len())
	for pair := r.catalogs.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Detect returns the first catalog recognizing repoDir.
func (r *CatalogRegistry) Detect(repoDir string) (domainRepos.PackageCatalogRepository, error) {
	for pair := r.catalogs.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Detect(repoDir) {
			return pair.Value, nil
		}
	}
	return nil, fmt.Errorf("no supported workspace found in %s (tried %v)", repoDir, r.Names())
}

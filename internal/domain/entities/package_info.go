package entities

import (
	"errors"
	"fmt"
)

// ErrMissingPackage is returned when a bump refers to a package the catalog does not hold.
var ErrMissingPackage = errors.New("package not found in catalog")

// ErrNoRootManifest is returned when the repository root has no package.json.
var ErrNoRootManifest = errors.New("no package.json at repository root")

// PackageInfo is one discovered package. It is always handled by pointer:
// the synchronization engine mutates Version and Manifest in place and every
// holder observes the change.
type PackageInfo struct {
	Name         string
	Version      string
	Manifest     *Manifest
	Path         string // absolute package directory
	ManifestPath string // absolute path of package.json
	IsRoot       bool   // monorepo root pseudo-package
	IsPrivate    bool
	FilesChanged []string // attached after discovery, relative to the repository root
}

// ApplyVersion sets the package version and mirrors it into the manifest.
func (p *PackageInfo) ApplyVersion(version string) {
	p.Version = version
	if p.Manifest != nil {
		p.Manifest.SetVersion(version)
	}
}

// Catalog indexes every package of a repository by name. It is the single
// owner of the PackageInfo records for one invocation.
type Catalog struct {
	byName map[string]*PackageInfo
	order  []string
}

// NewCatalog builds a catalog, rejecting duplicate names.
func NewCatalog(packages []*PackageInfo) (*Catalog, error) {
	catalog := &Catalog{
		byName: make(map[string]*PackageInfo, len(packages)),
		order:  make([]string, 0, len(packages)),
	}
	for _, pkg := range packages {
		if existing, ok := catalog.byName[pkg.Name]; ok {
			return nil, fmt.Errorf(
				"duplicate package name %q at %s and %s",
				pkg.Name, existing.Path, pkg.Path,
			)
		}
		catalog.byName[pkg.Name] = pkg
		catalog.order = append(catalog.order, pkg.Name)
	}
	return catalog, nil
}

// Get returns the package with the given name, or nil.
func (c *Catalog) Get(name string) *PackageInfo {
	return c.byName[name]
}

// MustGet returns the package with the given name or ErrMissingPackage.
func (c *Catalog) MustGet(name string) (*PackageInfo, error) {
	pkg, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingPackage, name)
	}
	return pkg, nil
}

// Has reports whether name is a local package.
func (c *Catalog) Has(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// All returns the packages in discovery order.
func (c *Catalog) All() []*PackageInfo {
	packages := make([]*PackageInfo, 0, len(c.order))
	for _, name := range c.order {
		packages = append(packages, c.byName[name])
	}
	return packages
}

// Len returns the number of packages.
func (c *Catalog) Len() int { return len(c.order) }

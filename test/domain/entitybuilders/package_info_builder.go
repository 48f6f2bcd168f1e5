//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"path/filepath"

	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/bumpsync/internal/domain/entities"
)

type dependencyDecl struct {
	kind         entities.DependencyKind
	name         string
	versionRange string
}

// PackageInfoBuilder helps create test packages with a fluent interface.
type PackageInfoBuilder struct {
	*testkit.BaseBuilder
	name      string
	version   string
	root      string
	isPrivate bool
	deps      []dependencyDecl
}

// NewPackageInfoBuilder creates a new package builder with sensible defaults.
func NewPackageInfoBuilder() *PackageInfoBuilder {
	return &PackageInfoBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "test-package",
		version:     "1.0.0",
		root:        "/repo/packages",
	}
}

// WithName sets the package name.
func (b *PackageInfoBuilder) WithName(name string) *PackageInfoBuilder {
	b.name = name
	return b
}

// WithVersion sets the package version.
func (b *PackageInfoBuilder) WithVersion(version string) *PackageInfoBuilder {
	b.version = version
	return b
}

// WithRoot sets the directory the package lives under.
func (b *PackageInfoBuilder) WithRoot(root string) *PackageInfoBuilder {
	b.root = root
	return b
}

// WithPrivate marks the package as private.
func (b *PackageInfoBuilder) WithPrivate(isPrivate bool) *PackageInfoBuilder {
	b.isPrivate = isPrivate
	return b
}

// WithDependency declares a runtime dependency.
func (b *PackageInfoBuilder) WithDependency(name, versionRange string) *PackageInfoBuilder {
	return b.WithDependencyOfKind(entities.KindDependencies, name, versionRange)
}

// WithDevDependency declares a development dependency.
func (b *PackageInfoBuilder) WithDevDependency(name, versionRange string) *PackageInfoBuilder {
	return b.WithDependencyOfKind(entities.KindDevDependencies, name, versionRange)
}

// WithDependencyOfKind declares a dependency under the given manifest field.
func (b *PackageInfoBuilder) WithDependencyOfKind(
	kind entities.DependencyKind,
	name, versionRange string,
) *PackageInfoBuilder {
	b.deps = append(b.deps, dependencyDecl{kind: kind, name: name, versionRange: versionRange})
	return b
}

// Build creates the package (satisfies testkit.Builder interface).
func (b *PackageInfoBuilder) Build() interface{} {
	return b.BuildPackageInfo()
}

// BuildPackageInfo creates the package with a concrete return type.
func (b *PackageInfoBuilder) BuildPackageInfo() *entities.PackageInfo {
	manifest := entities.NewManifest(b.name, b.version)
	for _, dep := range b.deps {
		manifest.SetDependencyRange(dep.kind, dep.name, dep.versionRange)
	}
	dir := filepath.Join(b.root, b.name)
	return &entities.PackageInfo{
		Name:         b.name,
		Version:      b.version,
		Manifest:     manifest,
		Path:         dir,
		ManifestPath: filepath.Join(dir, "package.json"),
		IsPrivate:    b.isPrivate,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *PackageInfoBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "test-package"
	b.version = "1.0.0"
	b.root = "/repo/packages"
	b.isPrivate = false
	b.deps = nil
	return b
}

// Clone creates a deep copy of the PackageInfoBuilder.
func (b *PackageInfoBuilder) Clone() testkit.Builder {
	return &PackageInfoBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		version:     b.version,
		root:        b.root,
		isPrivate:   b.isPrivate,
		deps:        append([]dependencyDecl(nil), b.deps...),
	}
}

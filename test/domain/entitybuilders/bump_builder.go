//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/bumpsync/internal/domain/entities"
)

// BumpBuilder helps create seed bump recommendations with a fluent interface.
type BumpBuilder struct {
	*testkit.BaseBuilder
	pkg      *entities.PackageInfo
	from     *string
	to       string
	bumpType entities.BumpType
	parents  []*entities.BumpRecommendation
}

// NewBumpBuilder creates a new bump builder: a seeded PATCH 1.0.0 -> 1.0.1.
func NewBumpBuilder() *BumpBuilder {
	return &BumpBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		from:        entities.StringPtr("1.0.0"),
		to:          "1.0.1",
		bumpType:    entities.BumpPatch,
	}
}

// WithPackage sets the bumped package.
func (b *BumpBuilder) WithPackage(pkg *entities.PackageInfo) *BumpBuilder {
	b.pkg = pkg
	return b
}

// WithFrom sets the starting version.
func (b *BumpBuilder) WithFrom(from string) *BumpBuilder {
	b.from = entities.StringPtr(from)
	return b
}

// WithoutFrom marks the bump as a first release.
func (b *BumpBuilder) WithoutFrom() *BumpBuilder {
	b.from = nil
	return b
}

// WithTo sets the target version.
func (b *BumpBuilder) WithTo(to string) *BumpBuilder {
	b.to = to
	return b
}

// WithType sets the bump type.
func (b *BumpBuilder) WithType(bumpType entities.BumpType) *BumpBuilder {
	b.bumpType = bumpType
	return b
}

// WithParent adds a parent bump, making the bump a propagated one.
func (b *BumpBuilder) WithParent(parent *entities.BumpRecommendation) *BumpBuilder {
	b.parents = append(b.parents, parent)
	return b
}

// Build creates the bump (satisfies testkit.Builder interface).
func (b *BumpBuilder) Build() interface{} {
	return b.BuildBump()
}

// BuildBump creates the bump with a concrete return type.
func (b *BumpBuilder) BuildBump() *entities.BumpRecommendation {
	bump := &entities.BumpRecommendation{
		Package: b.pkg,
		From:    b.from,
		To:      b.to,
		Type:    b.bumpType,
		Seeded:  len(b.parents) == 0,
	}
	for _, parent := range b.parents {
		bump.AddParent(parent)
	}
	return bump
}

// Reset clears the builder state, allowing it to be reused.
func (b *BumpBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.pkg = nil
	b.from = entities.StringPtr("1.0.0")
	b.to = "1.0.1"
	b.bumpType = entities.BumpPatch
	b.parents = nil
	return b
}

// Clone creates a deep copy of the BumpBuilder.
func (b *BumpBuilder) Clone() testkit.Builder {
	return &BumpBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		pkg:         b.pkg,
		from:        b.from,
		to:          b.to,
		bumpType:    b.bumpType,
		parents:     append([]*entities.BumpRecommendation(nil), b.parents...),
	}
}

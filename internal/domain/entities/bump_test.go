//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/bumpsync/internal/domain/entities"
	"github.com/rios0rios0/bumpsync/test/domain/entitybuilders"
)

func TestMergeBumpTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing entities.BumpType
		incoming entities.BumpType
		expected entities.BumpType
	}{
		{"should let major win over minor", entities.BumpMinor, entities.BumpMajor, entities.BumpMajor},
		{"should keep major over patch", entities.BumpMajor, entities.BumpPatch, entities.BumpMajor},
		{"should let minor win over patch", entities.BumpPatch, entities.BumpMinor, entities.BumpMinor},
		{"should keep an exact release", entities.BumpExact, entities.BumpMajor, entities.BumpExact},
		{"should keep a prerelease", entities.BumpPrerelease, entities.BumpMinor, entities.BumpPrerelease},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// when
			result := entities.MergeBumpTypes(tt.existing, tt.incoming)

			// then
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestBumpTypePropagated(t *testing.T) {
	t.Parallel()

	t.Run("should pass ordinary types through and turn special ones into patches", func(t *testing.T) {
		t.Parallel()

		// when / then
		assert.Equal(t, entities.BumpMajor, entities.BumpMajor.Propagated())
		assert.Equal(t, entities.BumpMinor, entities.BumpMinor.Propagated())
		assert.Equal(t, entities.BumpPatch, entities.BumpFirst.Propagated())
		assert.Equal(t, entities.BumpPatch, entities.BumpExact.Propagated())
		assert.Equal(t, entities.BumpPatch, entities.BumpPrerelease.Propagated())
		assert.Equal(t, "PRERELEASE", entities.BumpPrerelease.String())
	})
}

func TestBumpRecommendation(t *testing.T) {
	t.Parallel()

	t.Run("should flag a bump that changes nothing as invalid", func(t *testing.T) {
		t.Parallel()

		// given
		pkg := entitybuilders.NewPackageInfoBuilder().BuildPackageInfo()

		// when
		noop := entitybuilders.NewBumpBuilder().WithPackage(pkg).WithFrom("1.0.0").WithTo("1.0.0").BuildBump()
		first := entitybuilders.NewBumpBuilder().WithPackage(pkg).WithoutFrom().WithTo("1.0.0").BuildBump()

		// then
		assert.False(t, noop.IsValid())
		assert.True(t, first.IsValid())
		assert.Equal(t, "none", first.FromString())
	})

	t.Run("should collect every seeded ancestor as a root cause", func(t *testing.T) {
		t.Parallel()

		// given
		a := entitybuilders.NewBumpBuilder().
			WithPackage(entitybuilders.NewPackageInfoBuilder().WithName("a").BuildPackageInfo()).BuildBump()
		z := entitybuilders.NewBumpBuilder().
			WithPackage(entitybuilders.NewPackageInfoBuilder().WithName("z").BuildPackageInfo()).BuildBump()
		middle := entitybuilders.NewBumpBuilder().
			WithPackage(entitybuilders.NewPackageInfoBuilder().WithName("m").BuildPackageInfo()).
			WithParent(z).WithParent(a).BuildBump()
		leaf := entitybuilders.NewBumpBuilder().
			WithPackage(entitybuilders.NewPackageInfoBuilder().WithName("leaf").BuildPackageInfo()).
			WithParent(middle).WithParent(a).BuildBump()

		// when
		causes := leaf.RootCauses()

		// then
		assert.Equal(t, []string{"a", "z"}, causes)
	})

	t.Run("should ignore duplicate parents", func(t *testing.T) {
		t.Parallel()

		// given
		parent := entitybuilders.NewBumpBuilder().BuildBump()
		child := entitybuilders.NewBumpBuilder().WithParent(parent).BuildBump()

		// when
		child.AddParent(parent)

		// then
		assert.Len(t, child.ParentBumps, 1)
	})
}

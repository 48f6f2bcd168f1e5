//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/bumpsync/internal/domain/entities"
	"github.com/rios0rios0/bumpsync/test/domain/entitybuilders"
)

func TestNewCatalog(t *testing.T) {
	t.Parallel()

	t.Run("should index packages and keep discovery order", func(t *testing.T) {
		t.Parallel()

		// given
		b := entitybuilders.NewPackageInfoBuilder().WithName("b").BuildPackageInfo()
		a := entitybuilders.NewPackageInfoBuilder().WithName("a").BuildPackageInfo()

		// when
		catalog, err := entities.NewCatalog([]*entities.PackageInfo{b, a})

		// then
		require.NoError(t, err)
		assert.Equal(t, 2, catalog.Len())
		assert.Same(t, a, catalog.Get("a"))
		assert.True(t, catalog.Has("b"))
		assert.False(t, catalog.Has("c"))
		assert.Equal(t, []*entities.PackageInfo{b, a}, catalog.All())
	})

	t.Run("should reject duplicate names naming both paths", func(t *testing.T) {
		t.Parallel()

		// given
		first := entitybuilders.NewPackageInfoBuilder().WithName("a").WithRoot("/repo/apps").BuildPackageInfo()
		second := entitybuilders.NewPackageInfoBuilder().WithName("a").WithRoot("/repo/libs").BuildPackageInfo()

		// when
		_, err := entities.NewCatalog([]*entities.PackageInfo{first, second})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "/repo/apps/a")
		assert.Contains(t, err.Error(), "/repo/libs/a")
	})

	t.Run("should return ErrMissingPackage for unknown names", func(t *testing.T) {
		t.Parallel()

		// given
		catalog, err := entities.NewCatalog(nil)
		require.NoError(t, err)

		// when
		_, err = catalog.MustGet("ghost")

		// then
		require.ErrorIs(t, err, entities.ErrMissingPackage)
	})
}

func TestPackageInfoApplyVersion(t *testing.T) {
	t.Parallel()

	t.Run("should mirror the version into the manifest", func(t *testing.T) {
		t.Parallel()

		// given
		pkg := entitybuilders.NewPackageInfoBuilder().WithVersion("1.0.0").BuildPackageInfo()

		// when
		pkg.ApplyVersion("2.0.0")

		// then
		assert.Equal(t, "2.0.0", pkg.Version)
		assert.Equal(t, "2.0.0", pkg.Manifest.Version())
	})
}

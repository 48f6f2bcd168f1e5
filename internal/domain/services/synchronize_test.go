//go:build unit

package services_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/bumpsync/internal/domain/entities"
	"github.com/rios0rios0/bumpsync/internal/domain/services"
	"github.com/rios0rios0/bumpsync/test/domain/entitybuilders"
)

func newSynchronizer() *services.Synchronizer {
	return services.NewSynchronizer(services.NewRecommender())
}

func bumpsByName(bumps []*entities.BumpRecommendation) map[string]*entities.BumpRecommendation {
	result := make(map[string]*entities.BumpRecommendation, len(bumps))
	for _, bump := range bumps {
		result[bump.Name()] = bump
	}
	return result
}

func dependencyRange(t *testing.T, pkg *entities.PackageInfo, name string) string {
	t.Helper()
	value, ok := pkg.Manifest.DependencyRange(entities.KindDependencies, name)
	require.True(t, ok, "%s does not depend on %s", pkg.Name, name)
	return value
}

func TestSynchronizerSynchronize(t *testing.T) {
	t.Parallel()

	t.Run("should ripple a patch through every dependent", func(t *testing.T) {
		t.Parallel()

		// given
		d := entitybuilders.NewPackageInfoBuilder().WithName("d").BuildPackageInfo()
		a := entitybuilders.NewPackageInfoBuilder().WithName("a").WithDependency("d", "^1.0.0").BuildPackageInfo()
		b := entitybuilders.NewPackageInfoBuilder().WithName("b").WithDependency("d", "^1.0.0").BuildPackageInfo()
		c := entitybuilders.NewPackageInfoBuilder().WithName("c").
			WithDependency("a", "^1.0.0").
			WithDependency("b", "^1.0.0").
			BuildPackageInfo()
		catalog := newCatalog(t, a, b, c, d)
		seed := entitybuilders.NewBumpBuilder().WithPackage(d).BuildBump()

		// when
		result, err := newSynchronizer().Synchronize([]*entities.BumpRecommendation{seed}, catalog, services.SyncPolicy{})

		// then
		require.NoError(t, err)
		require.Len(t, result.Bumps, 4)
		assert.Equal(t, "d", result.Bumps[0].Name())
		for _, bump := range result.Bumps {
			assert.Equal(t, "1.0.0", bump.FromString(), bump.Name())
			assert.Equal(t, "1.0.1", bump.To, bump.Name())
			assert.Equal(t, entities.BumpPatch, bump.Type, bump.Name())
		}
		assert.Equal(t, "^1.0.1", dependencyRange(t, a, "d"))
		assert.Equal(t, "^1.0.1", dependencyRange(t, b, "d"))
		assert.Equal(t, "^1.0.1", dependencyRange(t, c, "a"))
		assert.Equal(t, "^1.0.1", dependencyRange(t, c, "b"))
		assert.Equal(t, "1.0.1", c.Version)
		assert.Equal(t, "1.0.1", c.Manifest.Version())
		assert.Len(t, result.Packages, 4)
	})

	t.Run("should only reach optional dependents when enabled", func(t *testing.T) {
		t.Parallel()

		// given
		build := func() (*entities.Catalog, *entities.BumpRecommendation) {
			d := entitybuilders.NewPackageInfoBuilder().WithName("d").BuildPackageInfo()
			o := entitybuilders.NewPackageInfoBuilder().WithName("o").
				WithDependencyOfKind(entities.KindOptionalDependencies, "d", "^1.0.0").
				BuildPackageInfo()
			return newCatalog(t, o, d), entitybuilders.NewBumpBuilder().WithPackage(d).BuildBump()
		}
		defaultCatalog, defaultSeed := build()
		optionalCatalog, optionalSeed := build()

		// when
		without, errWithout := newSynchronizer().Synchronize(
			[]*entities.BumpRecommendation{defaultSeed}, defaultCatalog, services.SyncPolicy{})
		with, errWith := newSynchronizer().Synchronize(
			[]*entities.BumpRecommendation{optionalSeed}, optionalCatalog, services.SyncPolicy{UpdateOptional: true})

		// then
		require.NoError(t, errWithout)
		require.NoError(t, errWith)
		assert.Len(t, without.Bumps, 1)
		require.Len(t, with.Bumps, 2)
		assert.Equal(t, "o", with.Bumps[1].Name())
	})

	t.Run("should keep the most disruptive type across propagation paths", func(t *testing.T) {
		t.Parallel()

		// given
		x := entitybuilders.NewPackageInfoBuilder().WithName("x").BuildPackageInfo()
		y := entitybuilders.NewPackageInfoBuilder().WithName("y").BuildPackageInfo()
		p := entitybuilders.NewPackageInfoBuilder().WithName("p").
			WithDependency("x", "^1.0.0").
			WithDependency("y", "^1.0.0").
			BuildPackageInfo()
		catalog := newCatalog(t, p, x, y)
		seeds := []*entities.BumpRecommendation{
			entitybuilders.NewBumpBuilder().WithPackage(x).WithType(entities.BumpMinor).WithTo("1.1.0").BuildBump(),
			entitybuilders.NewBumpBuilder().WithPackage(y).WithType(entities.BumpMajor).WithTo("2.0.0").BuildBump(),
		}

		// when
		result, err := newSynchronizer().Synchronize(seeds, catalog, services.SyncPolicy{})

		// then
		require.NoError(t, err)
		bumps := bumpsByName(result.Bumps)
		require.Contains(t, bumps, "p")
		assert.Equal(t, entities.BumpMajor, bumps["p"].Type)
		assert.Equal(t, "2.0.0", bumps["p"].To)
		assert.Equal(t, "2.0.0", p.Version)
		assert.Len(t, bumps["p"].ParentBumps, 2)
		assert.Equal(t, "^1.1.0", dependencyRange(t, p, "x"))
		assert.Equal(t, "^2.0.0", dependencyRange(t, p, "y"))
	})

	t.Run("should reach a fixed point when run again without seeds", func(t *testing.T) {
		t.Parallel()

		// given
		d := entitybuilders.NewPackageInfoBuilder().WithName("d").BuildPackageInfo()
		a := entitybuilders.NewPackageInfoBuilder().WithName("a").WithDependency("d", "~1.0.0").BuildPackageInfo()
		catalog := newCatalog(t, a, d)
		synchronizer := newSynchronizer()
		seed := entitybuilders.NewBumpBuilder().WithPackage(d).WithType(entities.BumpMinor).WithTo("1.1.0").BuildBump()
		_, err := synchronizer.Synchronize([]*entities.BumpRecommendation{seed}, catalog, services.SyncPolicy{})
		require.NoError(t, err)
		firstManifest, err := a.Manifest.Bytes()
		require.NoError(t, err)

		// when
		result, err := synchronizer.Synchronize(nil, catalog, services.SyncPolicy{})

		// then
		require.NoError(t, err)
		assert.Empty(t, result.Bumps)
		secondManifest, err := a.Manifest.Bytes()
		require.NoError(t, err)
		assert.Equal(t, string(firstManifest), string(secondManifest))
		assert.Equal(t, "1.1.0", d.Version)
		assert.Equal(t, "1.1.0", a.Version)
		assert.Equal(t, "~1.1.0", dependencyRange(t, a, "d"))
	})

	t.Run("should write exact ranges when saving exact", func(t *testing.T) {
		t.Parallel()

		// given
		d := entitybuilders.NewPackageInfoBuilder().WithName("d").BuildPackageInfo()
		a := entitybuilders.NewPackageInfoBuilder().WithName("a").WithDevDependency("d", "^1.0.0").BuildPackageInfo()
		catalog := newCatalog(t, a, d)
		seed := entitybuilders.NewBumpBuilder().WithPackage(d).BuildBump()

		// when
		_, err := newSynchronizer().Synchronize(
			[]*entities.BumpRecommendation{seed}, catalog, services.SyncPolicy{SaveExact: true},
		)

		// then
		require.NoError(t, err)
		value, ok := a.Manifest.DependencyRange(entities.KindDevDependencies, "d")
		require.True(t, ok)
		assert.Equal(t, "1.0.1", value)
	})

	t.Run("should not apply a literal release to propagated bumps", func(t *testing.T) {
		t.Parallel()

		// given
		d := entitybuilders.NewPackageInfoBuilder().WithName("d").BuildPackageInfo()
		a := entitybuilders.NewPackageInfoBuilder().WithName("a").WithDependency("d", "^1.0.0").BuildPackageInfo()
		catalog := newCatalog(t, a, d)
		seed, err := services.NewRecommender().Recommend(services.RecommendInput{
			Package: d, From: entities.StringPtr("1.0.0"), Type: entities.BumpPatch, ReleaseAs: "3.0.0",
		})
		require.NoError(t, err)

		// when
		result, err := newSynchronizer().Synchronize(
			[]*entities.BumpRecommendation{seed}, catalog, services.SyncPolicy{ReleaseAs: "3.0.0"},
		)

		// then
		require.NoError(t, err)
		bumps := bumpsByName(result.Bumps)
		assert.Equal(t, "3.0.0", bumps["d"].To)
		assert.Equal(t, entities.BumpPatch, bumps["a"].Type)
		assert.Equal(t, "1.0.1", bumps["a"].To)
		assert.Equal(t, "^3.0.0", dependencyRange(t, a, "d"))
	})

	t.Run("should not ripple a bump that changes nothing", func(t *testing.T) {
		t.Parallel()

		// given
		d := entitybuilders.NewPackageInfoBuilder().WithName("d").BuildPackageInfo()
		a := entitybuilders.NewPackageInfoBuilder().WithName("a").WithDependency("d", "^1.0.0").BuildPackageInfo()
		catalog := newCatalog(t, a, d)
		seed := entitybuilders.NewBumpBuilder().WithPackage(d).WithTo("1.0.0").BuildBump()

		// when
		result, err := newSynchronizer().Synchronize([]*entities.BumpRecommendation{seed}, catalog, services.SyncPolicy{})

		// then
		require.NoError(t, err)
		require.Len(t, result.Bumps, 1)
		assert.False(t, result.Bumps[0].IsValid())
		assert.Equal(t, "^1.0.0", dependencyRange(t, a, "d"))
	})

	t.Run("should name the package and field of an unparseable range", func(t *testing.T) {
		t.Parallel()

		// given
		d := entitybuilders.NewPackageInfoBuilder().WithName("d").BuildPackageInfo()
		a := entitybuilders.NewPackageInfoBuilder().WithName("a").WithDependency("d", "github:org/d").BuildPackageInfo()
		catalog := newCatalog(t, a, d)
		seed := entitybuilders.NewBumpBuilder().WithPackage(d).BuildBump()

		// when
		_, err := newSynchronizer().Synchronize([]*entities.BumpRecommendation{seed}, catalog, services.SyncPolicy{})

		// then
		var rangeErr *entities.RangeError
		require.True(t, errors.As(err, &rangeErr))
		assert.Equal(t, "a", rangeErr.Package)
		assert.Equal(t, entities.KindDependencies, rangeErr.Field)
		assert.Equal(t, "d", rangeErr.Dependency)
	})

	t.Run("should fail when a seed refers to an unknown package", func(t *testing.T) {
		t.Parallel()

		// given
		d := entitybuilders.NewPackageInfoBuilder().WithName("d").BuildPackageInfo()
		ghost := entitybuilders.NewPackageInfoBuilder().WithName("ghost").BuildPackageInfo()
		catalog := newCatalog(t, d)
		seed := entitybuilders.NewBumpBuilder().WithPackage(ghost).BuildBump()

		// when
		_, err := newSynchronizer().Synchronize([]*entities.BumpRecommendation{seed}, catalog, services.SyncPolicy{})

		// then
		require.ErrorIs(t, err, entities.ErrMissingPackage)
	})

	t.Run("should fail on a cyclic catalog before touching any package", func(t *testing.T) {
		t.Parallel()

		// given
		a := entitybuilders.NewPackageInfoBuilder().WithName("a").WithDependency("b", "^1.0.0").BuildPackageInfo()
		b := entitybuilders.NewPackageInfoBuilder().WithName("b").WithDependency("a", "^1.0.0").BuildPackageInfo()
		catalog := newCatalog(t, a, b)
		seed := entitybuilders.NewBumpBuilder().WithPackage(a).BuildBump()

		// when
		_, err := newSynchronizer().Synchronize([]*entities.BumpRecommendation{seed}, catalog, services.SyncPolicy{})

		// then
		var cycleErr *entities.CycleError
		require.True(t, errors.As(err, &cycleErr))
		assert.Equal(t, "1.0.0", a.Version)
	})

	t.Run("should propagate a first release as a patch", func(t *testing.T) {
		t.Parallel()

		// given
		d := entitybuilders.NewPackageInfoBuilder().WithName("d").WithVersion("0.1.0").BuildPackageInfo()
		a := entitybuilders.NewPackageInfoBuilder().WithName("a").WithDependency("d", "^0.0.1").BuildPackageInfo()
		catalog := newCatalog(t, a, d)
		seed := entitybuilders.NewBumpBuilder().WithPackage(d).WithoutFrom().
			WithType(entities.BumpFirst).WithTo("0.1.0").BuildBump()

		// when
		result, err := newSynchronizer().Synchronize([]*entities.BumpRecommendation{seed}, catalog, services.SyncPolicy{})

		// then
		require.NoError(t, err)
		bumps := bumpsByName(result.Bumps)
		assert.Equal(t, entities.BumpPatch, bumps["a"].Type)
		assert.Equal(t, "1.0.1", bumps["a"].To)
		assert.Equal(t, "^0.1.0", dependencyRange(t, a, "d"))
	})
}

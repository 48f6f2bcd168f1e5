package services

import (
	"fmt"
	"strings"

	"github.com/rios0rios0/bumpsync/internal/domain/entities"
)

// RecommendInput gathers everything that decides the next version of a package.
type RecommendInput struct {
	Package *entities.PackageInfo
	// From is the last released version; nil when the package was never released.
	From *string
	// Type is the commit-derived bump type.
	Type entities.BumpType
	// Parent is the bump that caused this one through propagation.
	Parent *entities.BumpRecommendation
	// ReleaseAs is auto/empty, major, minor, patch, alpha, beta or a literal version.
	ReleaseAs    string
	PrereleaseID string
	Uniqify      bool
	ShortSHA     string
	HasPriorTag  bool
	// Base overrides the version that is incremented; defaults to Package.Version.
	Base string
}

// Recommender computes bump recommendations.
type Recommender struct{}

// NewRecommender creates a Recommender.
func NewRecommender() *Recommender {
	return &Recommender{}
}

// Recommend resolves the bump type and target version of one package.
//
// Resolution order:
//  1. a literal version in ReleaseAs yields EXACT with that version verbatim;
//  2. alpha/beta yields PRERELEASE, labelled with the preset unless PrereleaseID is set;
//  3. major/minor/patch force that type;
//  4. otherwise the commit-derived Type is used;
//  5. an explicit PrereleaseID always makes the bump a PRERELEASE.
func (r *Recommender) Recommend(in RecommendInput) (*entities.BumpRecommendation, error) {
	if in.Package == nil {
		return nil, fmt.Errorf("%w: recommendation without package", entities.ErrMissingPackage)
	}

	current := in.Package.Version
	base := in.Base
	if base == "" {
		base = current
	}

	bump := &entities.BumpRecommendation{
		Package: in.Package,
		Seeded:  in.Parent == nil,
	}
	if in.Parent != nil {
		bump.AddParent(in.Parent)
	}

	if entities.IsExactRelease(in.ReleaseAs) {
		bump.Type = entities.BumpExact
		bump.From = entities.StringPtr(base)
		bump.To = strings.TrimPrefix(in.ReleaseAs, "v")
		return bump, nil
	}

	bumpType, prereleaseID, explicit := resolvePreset(in.Type, in.ReleaseAs, in.PrereleaseID)
	bump.Type = bumpType

	from := in.From
	if bumpType == entities.BumpPrerelease || explicit || in.HasPriorTag {
		from = entities.StringPtr(base)
	}
	bump.From = from

	// A first release ships the declared version unchanged.
	if from == nil || bumpType == entities.BumpFirst {
		bump.To = current
		return bump, nil
	}

	to, err := IncrementVersion(base, bumpType, prereleaseID)
	if err != nil {
		return nil, fmt.Errorf("package %q: %w", in.Package.Name, err)
	}
	if in.Uniqify && in.ShortSHA != "" {
		to = uniqify(to, in.ShortSHA)
	}
	bump.To = to
	return bump, nil
}

// resolvePreset applies the non-exact presets and the explicit prerelease id.
// explicit reports whether the preset overrode the commit-derived type.
func resolvePreset(
	commitType entities.BumpType,
	preset, prereleaseID string,
) (entities.BumpType, string, bool) {
	bumpType := commitType
	explicit := false

	switch {
	case entities.IsPrereleasePreset(preset):
		bumpType = entities.BumpPrerelease
		if prereleaseID == "" {
			prereleaseID = preset
		}
		explicit = true
	case preset == entities.ReleaseMajor:
		bumpType, explicit = entities.BumpMajor, true
	case preset == entities.ReleaseMinor:
		bumpType, explicit = entities.BumpMinor, true
	case preset == entities.ReleasePatch:
		bumpType, explicit = entities.BumpPatch, true
	}

	if prereleaseID != "" {
		bumpType = entities.BumpPrerelease
	}
	return bumpType, prereleaseID, explicit
}

// uniqify suffixes version with the commit SHA. Prerelease versions take a
// "g<sha>" identifier, which is never numeric, so it neither breaks semver
// (leading zeros) nor gets taken for the prerelease counter. Stable versions
// carry the SHA as build metadata.
func uniqify(version, sha string) string {
	if strings.Contains(version, "-") {
		return version + "." + commitIDPrefix + sha
	}
	return version + "+" + sha
}

package entities

import "sort"

// BumpType is the category of a version change.
type BumpType int

const (
	BumpPatch BumpType = iota
	BumpMinor
	BumpMajor
	// BumpFirst marks the first release of a package: no increment, the
	// declared manifest version is released as-is.
	BumpFirst
	BumpPrerelease
	// BumpExact is an explicit version override.
	BumpExact
)

var bumpTypeNames = map[BumpType]string{ //nolint:gochecknoglobals // lookup table
	BumpPatch:      "PATCH",
	BumpMinor:      "MINOR",
	BumpMajor:      "MAJOR",
	BumpFirst:      "FIRST",
	BumpPrerelease: "PRERELEASE",
	BumpExact:      "EXACT",
}

func (t BumpType) String() string {
	if name, ok := bumpTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsOrdinary reports whether the type takes part in severity comparisons.
// FIRST, PRERELEASE and EXACT are handled by explicit override rules instead.
func (t BumpType) IsOrdinary() bool {
	return t == BumpPatch || t == BumpMinor || t == BumpMajor
}

// Propagated returns the type a dependent receives when this type ripples to it.
func (t BumpType) Propagated() BumpType {
	if t.IsOrdinary() {
		return t
	}
	return BumpPatch
}

// MergeBumpTypes combines the type already recorded for a package with one
// arriving from another propagation path. Special types already recorded are
// kept; otherwise the more disruptive ordinary type wins.
func MergeBumpTypes(existing, incoming BumpType) BumpType {
	if !existing.IsOrdinary() || !incoming.IsOrdinary() {
		return existing
	}
	if incoming > existing {
		return incoming
	}
	return existing
}

// BumpRecommendation is a proposed version change for one package.
type BumpRecommendation struct {
	Package *PackageInfo
	// From is nil when the package was never released before.
	From *string
	To   string
	Type BumpType
	// ParentBumps are the bumps that caused this one through propagation.
	ParentBumps []*BumpRecommendation
	// Seeded is set when the bump comes from commits or an explicit override.
	// A seeded bump may still gain parents when a dependency is bumped too.
	Seeded bool
}

// Name returns the name of the bumped package.
func (b *BumpRecommendation) Name() string { return b.Package.Name }

// IsValid reports whether the bump changes anything.
func (b *BumpRecommendation) IsValid() bool {
	return b.From == nil || *b.From != b.To
}

// IsPropagated reports whether the bump exists only because of its parents.
func (b *BumpRecommendation) IsPropagated() bool { return !b.Seeded }

// FromString returns the previous version, or "none" for a first release.
func (b *BumpRecommendation) FromString() string {
	if b.From == nil {
		return "none"
	}
	return *b.From
}

// AddParent records parent as a cause of this bump, ignoring duplicates.
func (b *BumpRecommendation) AddParent(parent *BumpRecommendation) {
	for _, existing := range b.ParentBumps {
		if existing == parent {
			return
		}
	}
	b.ParentBumps = append(b.ParentBumps, parent)
}

// RootCauses walks ParentBumps transitively and returns the sorted names of
// the seeded bumps this bump descends from.
func (b *BumpRecommendation) RootCauses() []string {
	seen := make(map[*BumpRecommendation]bool)
	names := make(map[string]bool)

	var walk func(*BumpRecommendation)
	walk = func(current *BumpRecommendation) {
		for _, parent := range current.ParentBumps {
			if seen[parent] {
				continue
			}
			seen[parent] = true
			if parent.Seeded {
				names[parent.Name()] = true
			}
			walk(parent)
		}
	}
	walk(b)

	result := make([]string, 0, len(names))
	for name := range names {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// StringPtr is a helper for optional version fields.
func StringPtr(value string) *string { return &value }

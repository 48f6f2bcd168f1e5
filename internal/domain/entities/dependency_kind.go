package entities

// DependencyKind names the manifest field a dependency edge was found under.
type DependencyKind string

const (
	// KindSelf tags a graph root: the package itself rather than an edge.
	KindSelf                 DependencyKind = "self"
	KindDependencies         DependencyKind = "dependencies"
	KindDevDependencies      DependencyKind = "devDependencies"
	KindPeerDependencies     DependencyKind = "peerDependencies"
	KindOptionalDependencies DependencyKind = "optionalDependencies"
)

// ManifestDependencyKinds lists every dependency field a manifest can carry,
// in the order they are written back to disk.
func ManifestDependencyKinds() []DependencyKind {
	return []DependencyKind{
		KindDependencies,
		KindDevDependencies,
		KindPeerDependencies,
		KindOptionalDependencies,
	}
}

// EnabledDependencyKinds returns the fields that take part in propagation.
// Regular and dev dependencies are always followed; peer and optional
// dependencies only when requested.
func EnabledDependencyKinds(updatePeer, updateOptional bool) []DependencyKind {
	kinds := []DependencyKind{KindDependencies, KindDevDependencies}
	if updatePeer {
		kinds = append(kinds, KindPeerDependencies)
	}
	if updateOptional {
		kinds = append(kinds, KindOptionalDependencies)
	}
	return kinds
}

package entities

import (
	"fmt"
	"strings"
)

// DependencyGraphNode wraps a package reached through a given manifest field.
// Children are the package's local dependencies; subtrees of a package are
// shared between every node that reaches it.
type DependencyGraphNode struct {
	Package *PackageInfo
	DepType DependencyKind
	Deps    []*DependencyGraphNode
}

// Name returns the name of the wrapped package.
func (n *DependencyGraphNode) Name() string { return n.Package.Name }

// CycleError reports a local dependency cycle, listing the package names in
// traversal order with the repeated package at both ends.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Path, " -> "))
}

// RangeError reports a dependency range the engine cannot rewrite.
type RangeError struct {
	Package    string
	Field      DependencyKind
	Dependency string
	Range      string
	Err        error
}

func (e *RangeError) Error() string {
	return fmt.Sprintf(
		"cannot rewrite range %q of %q in %s.%s: %v",
		e.Range, e.Dependency, e.Package, e.Field, e.Err,
	)
}

func (e *RangeError) Unwrap() error { return e.Err }

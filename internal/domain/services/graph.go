package services

import (
	"fmt"
	"strings"

	"github.com/rios0rios0/bumpsync/internal/domain/entities"
)

// GraphOptions selects the optional dependency fields that count as edges.
type GraphOptions struct {
	UpdatePeer     bool
	UpdateOptional bool
}

func (o GraphOptions) kinds() []entities.DependencyKind {
	return entities.EnabledDependencyKinds(o.UpdatePeer, o.UpdateOptional)
}

// BuildDependencyGraph returns one root node per package, in catalog order,
// each carrying the resolved subtree of its local dependencies. A local
// dependency cycle (including a package depending on itself) fails with
// *entities.CycleError.
func BuildDependencyGraph(
	catalog *entities.Catalog,
	opts GraphOptions,
) ([]*entities.DependencyGraphNode, error) {
	builder := &graphBuilder{
		catalog: catalog,
		kinds:   opts.kinds(),
		visited: make(map[string][]*entities.DependencyGraphNode),
		onStack: make(map[string]bool),
	}

	roots := make([]*entities.DependencyGraphNode, 0, catalog.Len())
	for _, pkg := range catalog.All() {
		deps, err := builder.expand(pkg)
		if err != nil {
			return nil, err
		}
		roots = append(roots, &entities.DependencyGraphNode{
			Package: pkg,
			DepType: entities.KindSelf,
			Deps:    deps,
		})
	}
	return roots, nil
}

type graphBuilder struct {
	catalog *entities.Catalog
	kinds   []entities.DependencyKind
	// visited holds the children of fully expanded packages.
	visited map[string][]*entities.DependencyGraphNode
	// stack is the active DFS path; onStack indexes it.
	stack   []string
	onStack map[string]bool
}

func (b *graphBuilder) expand(pkg *entities.PackageInfo) ([]*entities.DependencyGraphNode, error) {
	if deps, ok := b.visited[pkg.Name]; ok {
		return deps, nil
	}
	if b.onStack[pkg.Name] {
		return nil, b.cycleFrom(pkg.Name)
	}

	b.stack = append(b.stack, pkg.Name)
	b.onStack[pkg.Name] = true
	defer func() {
		b.stack = b.stack[:len(b.stack)-1]
		delete(b.onStack, pkg.Name)
	}()

	var deps []*entities.DependencyGraphNode
	seen := make(map[string]bool)
	for _, kind := range b.kinds {
		for _, name := range localDependencyNames(b.catalog, pkg, kind) {
			if seen[name] {
				continue
			}
			seen[name] = true

			dep := b.catalog.Get(name)
			children, err := b.expand(dep)
			if err != nil {
				return nil, err
			}
			deps = append(deps, &entities.DependencyGraphNode{
				Package: dep,
				DepType: kind,
				Deps:    children,
			})
		}
	}

	b.visited[pkg.Name] = deps
	return deps, nil
}

func (b *graphBuilder) cycleFrom(name string) *entities.CycleError {
	start := 0
	for i, entry := range b.stack {
		if entry == name {
			start = i
			break
		}
	}
	path := append([]string{}, b.stack[start:]...)
	return &entities.CycleError{Path: append(path, name)}
}

// localDependencyNames returns the names declared under kind that are
// packages of this repository.
func localDependencyNames(
	catalog *entities.Catalog,
	pkg *entities.PackageInfo,
	kind entities.DependencyKind,
) []string {
	if pkg.Manifest == nil {
		return nil
	}
	var names []string
	for _, name := range pkg.Manifest.DependencyNames(kind) {
		if catalog.Has(name) {
			names = append(names, name)
		}
	}
	return names
}

// DependentsIndex inverts the edges of a built graph: it maps every package
// name to the packages that depend on it directly, in catalog order.
func DependentsIndex(roots []*entities.DependencyGraphNode) map[string][]*entities.PackageInfo {
	index := make(map[string][]*entities.PackageInfo)
	for _, root := range roots {
		for _, dep := range root.Deps {
			index[dep.Name()] = append(index[dep.Name()], root.Package)
		}
	}
	return index
}

// RenderGraph prints the graph as an indented tree. Subtrees already printed
// are abbreviated with "(see above)".
func RenderGraph(roots []*entities.DependencyGraphNode) string {
	var sb strings.Builder
	printed := make(map[string]bool)

	var walk func(node *entities.DependencyGraphNode, depth int)
	walk = func(node *entities.DependencyGraphNode, depth int) {
		indent := strings.Repeat("  ", depth)
		label := fmt.Sprintf("%s%s@%s", indent, node.Name(), node.Package.Version)
		if node.DepType != entities.KindSelf {
			label += fmt.Sprintf(" (%s)", node.DepType)
		}
		if depth > 0 && printed[node.Name()] && len(node.Deps) > 0 {
			sb.WriteString(label + " (see above)\n")
			return
		}
		sb.WriteString(label + "\n")
		printed[node.Name()] = true
		for _, child := range node.Deps {
			walk(child, depth+1)
		}
	}

	for _, root := range roots {
		walk(root, 0)
	}
	return sb.String()
}

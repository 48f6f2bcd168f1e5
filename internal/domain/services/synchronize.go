package services

import (
	"fmt"
	"sync"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/bumpsync/internal/domain/entities"
)

// SyncPolicy controls how bumps ripple through the dependency graph.
type SyncPolicy struct {
	UpdatePeer     bool
	UpdateOptional bool
	SaveExact      bool
	ReleaseAs      string
	PrereleaseID   string
	Uniqify        bool
	ShortSHA       string
}

func (p SyncPolicy) graphOptions() GraphOptions {
	return GraphOptions{UpdatePeer: p.UpdatePeer, UpdateOptional: p.UpdateOptional}
}

// exactRanges reports whether rewritten ranges drop their operator.
func (p SyncPolicy) exactRanges() bool {
	return p.SaveExact || entities.IsPrereleasePreset(p.ReleaseAs)
}

// propagatedPreset is the preset applied to bumps created by propagation.
// A literal version only ever applies to the packages it was requested for.
func (p SyncPolicy) propagatedPreset() string {
	if entities.IsExactRelease(p.ReleaseAs) {
		return ""
	}
	return p.ReleaseAs
}

// SyncResult is the outcome of one synchronization.
type SyncResult struct {
	// Bumps holds one bump per affected package, seeds first, in discovery order.
	Bumps []*entities.BumpRecommendation
	// Packages is the whole catalog, with versions and ranges updated in place.
	Packages []*entities.PackageInfo
}

// Synchronizer propagates bumps to dependents until nothing changes.
// Calls are serialized: one synchronization owns the catalog until it returns.
type Synchronizer struct {
	mu          sync.Mutex
	recommender *Recommender
}

// NewSynchronizer creates a Synchronizer backed by recommender.
func NewSynchronizer(recommender *Recommender) *Synchronizer {
	return &Synchronizer{recommender: recommender}
}

// Synchronize applies seeds to the catalog and propagates them through the
// local dependency graph. Package versions, manifest versions and dependents'
// ranges are rewritten in place. Any error aborts the whole run; callers must
// not persist the catalog in that case.
func (s *Synchronizer) Synchronize(
	seeds []*entities.BumpRecommendation,
	catalog *entities.Catalog,
	policy SyncPolicy,
) (*SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roots, err := BuildDependencyGraph(catalog, policy.graphOptions())
	if err != nil {
		return nil, err
	}

	state := &syncState{
		recommender: s.recommender,
		catalog:     catalog,
		policy:      policy,
		dependents:  DependentsIndex(roots),
		bumps:       make(map[string]*entities.BumpRecommendation),
		applied:     make(map[string]bool),
		queued:      make(map[string]bool),
	}

	for _, seed := range seeds {
		if err := state.seed(seed); err != nil {
			return nil, err
		}
	}

	for len(state.queue) > 0 {
		name := state.queue[0]
		state.queue = state.queue[1:]
		delete(state.queued, name)

		if err := state.process(name); err != nil {
			return nil, err
		}
	}

	result := &SyncResult{
		Bumps:    make([]*entities.BumpRecommendation, 0, len(state.order)),
		Packages: catalog.All(),
	}
	for _, name := range state.order {
		result.Bumps = append(result.Bumps, state.bumps[name])
	}
	return result, nil
}

// syncState is the worklist of one synchronization.
type syncState struct {
	recommender *Recommender
	catalog     *entities.Catalog
	policy      SyncPolicy
	dependents  map[string][]*entities.PackageInfo // reverse edges of the graph

	bumps   map[string]*entities.BumpRecommendation
	order   []string
	applied map[string]bool // packages whose version was already written
	queue   []string
	queued  map[string]bool
}

func (s *syncState) enqueue(name string) {
	if s.queued[name] {
		return
	}
	s.queued[name] = true
	s.queue = append(s.queue, name)
}

func (s *syncState) record(bump *entities.BumpRecommendation) {
	s.bumps[bump.Name()] = bump
	s.order = append(s.order, bump.Name())
	s.enqueue(bump.Name())
}

func (s *syncState) seed(seed *entities.BumpRecommendation) error {
	if seed.Package == nil {
		return fmt.Errorf("%w: seed bump without package", entities.ErrMissingPackage)
	}
	pkg, err := s.catalog.MustGet(seed.Name())
	if err != nil {
		return err
	}
	if pkg != seed.Package {
		return fmt.Errorf("seed bump for %q does not reference the catalog package", seed.Name())
	}

	existing, ok := s.bumps[seed.Name()]
	if !ok {
		s.record(seed)
		return nil
	}
	return s.merge(existing, seed.Type)
}

// process applies the bump of name and ripples it to every dependent.
func (s *syncState) process(name string) error {
	bump := s.bumps[name]
	pkg, err := s.catalog.MustGet(name)
	if err != nil {
		return err
	}

	s.applyVersion(bump, pkg)
	if !bump.IsValid() {
		return nil
	}

	for _, dependent := range s.dependents[name] {
		if rangeErr := s.rewriteRanges(dependent, pkg); rangeErr != nil {
			return rangeErr
		}
		if propagateErr := s.propagate(dependent, bump); propagateErr != nil {
			return propagateErr
		}
	}
	return nil
}

// applyVersion writes the bump's target into the package. When an earlier
// pass already changed the package, the two versions are reconciled first.
func (s *syncState) applyVersion(bump *entities.BumpRecommendation, pkg *entities.PackageInfo) {
	target := bump.To
	if s.applied[pkg.Name] {
		target = ResolveVersionConflict(pkg.Version, bump.To)
	}
	s.applied[pkg.Name] = true

	if pkg.Version != target {
		logger.Debugf("[sync] %s: %s -> %s (%s)", pkg.Name, pkg.Version, target, bump.Type)
	}
	pkg.ApplyVersion(target)
	bump.To = target
}

func (s *syncState) rewriteRanges(dependent, dependency *entities.PackageInfo) error {
	for _, kind := range s.policy.graphOptions().kinds() {
		current, ok := dependent.Manifest.DependencyRange(kind, dependency.Name)
		if !ok {
			continue
		}
		rewritten, err := RewriteRange(current, dependency.Version, s.policy.exactRanges())
		if err != nil {
			return &entities.RangeError{
				Package:    dependent.Name,
				Field:      kind,
				Dependency: dependency.Name,
				Range:      current,
				Err:        err,
			}
		}
		if rewritten != current {
			logger.Debugf(
				"[sync] %s.%s[%s]: %s -> %s",
				dependent.Name, kind, dependency.Name, current, rewritten,
			)
			dependent.Manifest.SetDependencyRange(kind, dependency.Name, rewritten)
		}
	}
	return nil
}

// propagate gives dependent a bump caused by parent, or folds parent into
// the bump it already has.
func (s *syncState) propagate(dependent *entities.PackageInfo, parent *entities.BumpRecommendation) error {
	incoming := parent.Type.Propagated()

	if existing, ok := s.bumps[dependent.Name]; ok {
		existing.AddParent(parent)
		return s.merge(existing, incoming)
	}

	bump, err := s.recommender.Recommend(RecommendInput{
		Package:      dependent,
		From:         entities.StringPtr(dependent.Version),
		Type:         incoming,
		Parent:       parent,
		ReleaseAs:    s.policy.propagatedPreset(),
		PrereleaseID: s.policy.PrereleaseID,
		Uniqify:      s.policy.Uniqify,
		ShortSHA:     s.policy.ShortSHA,
	})
	if err != nil {
		return err
	}
	s.record(bump)
	return nil
}

// merge raises the type of an existing bump. When the type changes the
// target is recomputed from the bump's starting version and the package is
// processed again so its own dependents see the new version.
func (s *syncState) merge(existing *entities.BumpRecommendation, incoming entities.BumpType) error {
	merged := entities.MergeBumpTypes(existing.Type, incoming)
	if merged == existing.Type || existing.From == nil {
		return nil
	}

	retargeted, err := s.recommender.Recommend(RecommendInput{
		Package:      existing.Package,
		From:         existing.From,
		Type:         merged,
		ReleaseAs:    s.policy.propagatedPreset(),
		PrereleaseID: s.policy.PrereleaseID,
		Uniqify:      s.policy.Uniqify,
		ShortSHA:     s.policy.ShortSHA,
		Base:         *existing.From,
	})
	if err != nil {
		return err
	}

	logger.Debugf(
		"[sync] %s: bump raised %s -> %s (%s)",
		existing.Name(), existing.Type, retargeted.Type, retargeted.To,
	)
	existing.Type = retargeted.Type
	existing.To = retargeted.To
	s.enqueue(existing.Name())
	return nil
}

package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/bumpsync/internal/domain/entities"
	"github.com/rios0rios0/bumpsync/internal/domain/repositories"
	"github.com/rios0rios0/bumpsync/internal/domain/services"
	infraRepos "github.com/rios0rios0/bumpsync/internal/infrastructure/repositories"
)

// ReleasePlanner computes, without writing anything, the bumps a release of
// a repository would apply.
type ReleasePlanner struct {
	catalogs     *infraRepos.CatalogRegistry
	openGit      repositories.GitRepositoryFactory
	classifier   repositories.CommitClassifierRepository
	recommender  *services.Recommender
	synchronizer *services.Synchronizer
}

// NewReleasePlanner creates a ReleasePlanner.
func NewReleasePlanner(
	catalogs *infraRepos.CatalogRegistry,
	openGit repositories.GitRepositoryFactory,
	classifier repositories.CommitClassifierRepository,
	recommender *services.Recommender,
	synchronizer *services.Synchronizer,
) *ReleasePlanner {
	return &ReleasePlanner{
		catalogs:     catalogs,
		openGit:      openGit,
		classifier:   classifier,
		recommender:  recommender,
		synchronizer: synchronizer,
	}
}

// releasePlan is the synchronized, not yet persisted, state of one release.
type releasePlan struct {
	workspace repositories.PackageCatalogRepository
	git       repositories.GitRepository
	catalog   *entities.Catalog
	commits   map[string][]entities.ConventionalCommit
	result    *services.SyncResult
}

// releases returns the bumps that actually change a version.
func (p *releasePlan) releases() []*entities.BumpRecommendation {
	var valid []*entities.BumpRecommendation
	for _, bump := range p.result.Bumps {
		if bump.IsValid() {
			valid = append(valid, bump)
		}
	}
	return valid
}

// section renders the changelog section of bump.
func (p *releasePlan) section(bump *entities.BumpRecommendation, date time.Time) string {
	return services.RenderChangelog(bump, p.commits[bump.Name()], date)
}

// openWorkspace detects the workspace layout of repoDir and builds the
// catalog of its versioned packages. The monorepo root pseudo-package is
// left out: it carries no releasable version.
func (p *ReleasePlanner) openWorkspace(
	ctx context.Context,
	repoDir string,
) (repositories.PackageCatalogRepository, *entities.Catalog, error) {
	workspace, err := p.catalogs.Detect(repoDir)
	if err != nil {
		return nil, nil, err
	}
	logger.Infof("[catalog] Detected %s workspace in %s", workspace.Name(), repoDir)

	discovered, err := workspace.Discover(ctx, repoDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to discover packages: %w", err)
	}

	members := make([]*entities.PackageInfo, 0, len(discovered))
	for _, pkg := range discovered {
		if !pkg.IsRoot {
			members = append(members, pkg)
		}
	}

	catalog, err := entities.NewCatalog(members)
	if err != nil {
		return nil, nil, err
	}
	logger.Infof("[catalog] Found %d packages", catalog.Len())
	return workspace, catalog, nil
}

// plan seeds a bump for every package with releasable commits and
// synchronizes the catalog.
func (p *ReleasePlanner) plan(
	ctx context.Context,
	settings *entities.Settings,
	repoDir string,
) (*releasePlan, error) {
	absDir, err := filepath.Abs(repoDir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	workspace, catalog, err := p.openWorkspace(ctx, absDir)
	if err != nil {
		return nil, err
	}

	for _, name := range settings.Force {
		if _, mustErr := catalog.MustGet(name); mustErr != nil {
			return nil, fmt.Errorf("cannot force release: %w", mustErr)
		}
	}

	git, err := p.openGit(absDir)
	if err != nil {
		return nil, err
	}

	policy := services.SyncPolicy{
		UpdatePeer:     settings.UpdatePeer,
		UpdateOptional: settings.UpdateOptional,
		SaveExact:      settings.SaveExact,
		ReleaseAs:      settings.ReleaseAs,
		PrereleaseID:   settings.PrereleaseID,
		Uniqify:        settings.Uniqify,
	}
	if settings.Uniqify {
		if policy.ShortSHA, err = git.ShortSHA(ctx); err != nil {
			return nil, err
		}
	}

	plan := &releasePlan{
		workspace: workspace,
		git:       git,
		catalog:   catalog,
		commits:   make(map[string][]entities.ConventionalCommit, catalog.Len()),
	}

	var seeds []*entities.BumpRecommendation
	for _, pkg := range catalog.All() {
		seed, seedErr := p.seed(ctx, git, plan, pkg, settings, policy.ShortSHA)
		if seedErr != nil {
			return nil, seedErr
		}
		if seed != nil {
			seeds = append(seeds, seed)
		}
	}
	logger.Infof("[bump] %d packages changed since their last release", len(seeds))

	if plan.result, err = p.synchronizer.Synchronize(seeds, catalog, policy); err != nil {
		return nil, err
	}
	return plan, nil
}

// seed inspects the history of pkg since its last tag and returns the bump
// it needs, or nil when it has nothing to release.
func (p *ReleasePlanner) seed(
	ctx context.Context,
	git repositories.GitRepository,
	plan *releasePlan,
	pkg *entities.PackageInfo,
	settings *entities.Settings,
	shortSHA string,
) (*entities.BumpRecommendation, error) {
	tag, err := git.LatestTag(ctx, pkg.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to read tags of %s: %w", pkg.Name, err)
	}

	var since string
	var from *string
	if tag != nil {
		since = tag.SHA
		from = entities.StringPtr(tag.Version)
	}

	raw, err := git.CommitsSince(ctx, since, pkg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read history of %s: %w", pkg.Name, err)
	}
	commits := make([]entities.ConventionalCommit, 0, len(raw))
	for _, commit := range raw {
		classified := p.classifier.Classify(commit)
		classified.Package = pkg
		commits = append(commits, classified)
	}
	plan.commits[pkg.Name] = commits

	if pkg.FilesChanged, err = git.FilesChangedSince(ctx, since, pkg.Path); err != nil {
		return nil, fmt.Errorf("failed to diff %s: %w", pkg.Name, err)
	}

	bumpType, ok := services.SeedBumpType(commits, tag != nil)
	if !ok && slices.Contains(settings.Force, pkg.Name) {
		bumpType, ok = entities.BumpPatch, true
	}
	if !ok {
		logger.Debugf("[bump] %s: no changes since %s", pkg.Name, tag.Name)
		return nil, nil
	}

	return p.recommender.Recommend(services.RecommendInput{
		Package:      pkg,
		From:         from,
		Type:         bumpType,
		ReleaseAs:    settings.ReleaseAs,
		PrereleaseID: settings.PrereleaseID,
		Uniqify:      settings.Uniqify,
		ShortSHA:     shortSHA,
		HasPriorTag:  tag != nil,
	})
}

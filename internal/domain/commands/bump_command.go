package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/bumpsync/internal/domain/entities"
	"github.com/rios0rios0/bumpsync/internal/domain/repositories"
)

// Bump is the interface for the bump command.
type Bump interface {
	Execute(ctx context.Context, settings *entities.Settings, opts BumpOptions) error
}

// BumpOptions holds runtime options for a single bump.
type BumpOptions struct {
	RepoDir string
	DryRun  bool
}

// BumpCommand orchestrates a release:
// discover packages -> seed bumps from history -> synchronize -> write -> commit/tag.
type BumpCommand struct {
	planner    *ReleasePlanner
	changelogs repositories.ChangelogRepository
	now        func() time.Time
}

// NewBumpCommand creates a new BumpCommand.
func NewBumpCommand(planner *ReleasePlanner, changelogs repositories.ChangelogRepository) *BumpCommand {
	return &BumpCommand{
		planner:    planner,
		changelogs: changelogs,
		now:        time.Now,
	}
}

// Execute plans the release and, unless in dry-run mode, persists it. Nothing
// is written when planning fails.
func (it *BumpCommand) Execute(ctx context.Context, settings *entities.Settings, opts BumpOptions) error {
	plan, err := it.planner.plan(ctx, settings, opts.RepoDir)
	if err != nil {
		return err
	}

	if len(plan.result.Bumps) == 0 {
		logger.Info("[bump] Nothing to release")
		return nil
	}

	for _, bump := range plan.result.Bumps {
		if !bump.IsValid() {
			logger.Warnf("[bump] %s: version %s is unchanged, no release", bump.Name(), bump.To)
			continue
		}
		logger.Infof("[bump] %s: %s -> %s (%s)", bump.Name(), bump.FromString(), bump.To, bump.Type)
	}

	if opts.DryRun {
		logger.Info("[bump] Dry run: no files were written")
		return nil
	}

	written, err := it.write(ctx, plan, settings)
	if err != nil {
		return err
	}
	logger.Infof("[bump] Wrote %d files", len(written))

	if !settings.Commit {
		return nil
	}
	if _, err = plan.git.CommitFiles(ctx, written, settings.CommitMessage); err != nil {
		return err
	}

	if settings.Tag {
		return it.tag(ctx, plan)
	}
	return nil
}

// write persists manifests and changelog sections concurrently and returns
// the sorted list of written paths.
func (it *BumpCommand) write(
	ctx context.Context,
	plan *releasePlan,
	settings *entities.Settings,
) ([]string, error) {
	var (
		mu      sync.Mutex
		written []string
	)
	record := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		written = append(written, path)
	}

	date := it.now()
	g, gctx := errgroup.WithContext(ctx)
	for _, bump := range plan.result.Bumps {
		pkg := bump.Package
		g.Go(func() error {
			if err := plan.workspace.WriteManifest(gctx, pkg); err != nil {
				return err
			}
			record(pkg.ManifestPath)
			return nil
		})

		if !settings.Changelog || !bump.IsValid() {
			continue
		}
		section := plan.section(bump, date)
		g.Go(func() error {
			path := filepath.Join(pkg.Path, settings.ChangelogFile)
			content, err := it.changelogs.Read(gctx, path)
			if err != nil {
				return err
			}
			if err = it.changelogs.Write(gctx, path, entities.InsertReleaseSection(content, section)); err != nil {
				return err
			}
			record(path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to write release files: %w", err)
	}
	sort.Strings(written)
	return written, nil
}

// tag creates one "<name>@<version>" tag per released public package.
func (it *BumpCommand) tag(ctx context.Context, plan *releasePlan) error {
	for _, bump := range plan.releases() {
		if bump.Package.IsPrivate {
			logger.Debugf("[bump] %s is private, not tagging", bump.Name())
			continue
		}
		if err := plan.git.CreateTag(ctx, fmt.Sprintf("%s@%s", bump.Name(), bump.To)); err != nil {
			return err
		}
	}
	return nil
}

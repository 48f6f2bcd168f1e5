//go:build unit

package commands_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/bumpsync/internal/domain/commands"
	"github.com/rios0rios0/bumpsync/internal/domain/entities"
	"github.com/rios0rios0/bumpsync/internal/domain/services"
	infraRepos "github.com/rios0rios0/bumpsync/internal/infrastructure/repositories"
	"github.com/rios0rios0/bumpsync/internal/infrastructure/repositories/conventional"
	"github.com/rios0rios0/bumpsync/test/domain/entitybuilders"
	"github.com/rios0rios0/bumpsync/test/infrastructure/repositorydoubles"
)

const repoDir = "/repo"

//nolint:gochecknoglobals // fixed clock for changelog dates
var releaseDate = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

// workspace is a core <- app, core <- tool monorepo where only core has new commits.
type workspace struct {
	core, app, tool *entities.PackageInfo
	catalog         *repositorydoubles.SpyPackageCatalogRepository
	git             *repositorydoubles.StubGitRepository
	changelogs      *repositorydoubles.SpyChangelogRepository
}

func newWorkspace() *workspace {
	root := entitybuilders.NewPackageInfoBuilder().WithName("mono").WithRoot("/").BuildPackageInfo()
	root.IsRoot = true
	core := entitybuilders.NewPackageInfoBuilder().WithName("core").BuildPackageInfo()
	app := entitybuilders.NewPackageInfoBuilder().WithName("app").WithVersion("2.0.0").
		WithDependency("core", "^1.0.0").
		BuildPackageInfo()
	tool := entitybuilders.NewPackageInfoBuilder().WithName("tool").WithVersion("0.1.0").
		WithPrivate(true).
		WithDevDependency("core", "~1.0.0").
		BuildPackageInfo()

	return &workspace{
		core: core,
		app:  app,
		tool: tool,
		catalog: &repositorydoubles.SpyPackageCatalogRepository{
			CatalogName:  "spy",
			DetectResult: true,
			Packages:     []*entities.PackageInfo{root, core, app, tool},
		},
		git: &repositorydoubles.StubGitRepository{
			Tags: map[string]*entities.Tag{
				"core": {Name: "core@1.0.0", Version: "1.0.0", SHA: "c0ffee"},
				"app":  {Name: "app@2.0.0", Version: "2.0.0", SHA: "c0ffee"},
				"tool": {Name: "tool@0.1.0", Version: "0.1.0", SHA: "c0ffee"},
			},
			Commits: map[string][]entities.GitCommit{
				core.Path: {{SHA: "1234567890abcdef", Message: "feat(api): add client"}},
			},
			Files: map[string][]string{
				core.Path: {"packages/core/index.js"},
			},
			SHA: "abc1234",
		},
		changelogs: &repositorydoubles.SpyChangelogRepository{},
	}
}

func (w *workspace) planner() *commands.ReleasePlanner {
	registry := infraRepos.NewCatalogRegistry()
	registry.Register(w.catalog)
	recommender := services.NewRecommender()
	return commands.NewReleasePlanner(
		registry,
		w.git.Factory(),
		conventional.NewConventionalClassifierRepository(),
		recommender,
		services.NewSynchronizer(recommender),
	)
}

func (w *workspace) bumpCommand() *commands.BumpCommand {
	return commands.NewBumpCommand(w.planner(), w.changelogs).WithClock(func() time.Time { return releaseDate })
}

func TestBumpCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should write manifests and changelogs of every bumped package", func(t *testing.T) {
		t.Parallel()

		// given
		w := newWorkspace()
		settings := entities.DefaultSettings()

		// when
		err := w.bumpCommand().Execute(context.Background(), settings, commands.BumpOptions{RepoDir: repoDir})

		// then
		require.NoError(t, err)
		assert.Equal(t, "1.1.0", w.core.Version)
		assert.Equal(t, "2.1.0", w.app.Version)
		assert.Equal(t, "0.2.0", w.tool.Version)
		assert.Equal(t, "2.1.0", w.app.Manifest.Version())

		appRange, _ := w.app.Manifest.DependencyRange(entities.KindDependencies, "core")
		assert.Equal(t, "^1.1.0", appRange)
		toolRange, _ := w.tool.Manifest.DependencyRange(entities.KindDevDependencies, "core")
		assert.Equal(t, "~1.1.0", toolRange)

		assert.ElementsMatch(t, []string{"core", "app", "tool"}, w.catalog.WrittenNames())

		coreLog, ok := w.changelogs.Content("/repo/packages/core/CHANGELOG.md")
		require.True(t, ok)
		assert.Contains(t, coreLog, "# Changelog")
		assert.Contains(t, coreLog, "## 1.1.0 (2026-10-19)")
		assert.Contains(t, coreLog, "- **api:** add client (1234567)")

		appLog, ok := w.changelogs.Content("/repo/packages/app/CHANGELOG.md")
		require.True(t, ok)
		assert.Contains(t, appLog, "- bumped because of changes in core")

		assert.Empty(t, w.git.CommitMessages)
		assert.Empty(t, w.git.CreatedTags)
		assert.Equal(t, "c0ffee", w.git.SinceCalls[w.core.Path])
	})

	t.Run("should prepend to an existing changelog", func(t *testing.T) {
		t.Parallel()

		// given
		w := newWorkspace()
		w.changelogs.Contents = map[string]string{
			"/repo/packages/core/CHANGELOG.md": "# Changelog\n\n## 1.0.0 (2026-01-01)\n\n- initial\n",
		}

		// when
		err := w.bumpCommand().Execute(context.Background(), entities.DefaultSettings(), commands.BumpOptions{RepoDir: repoDir})

		// then
		require.NoError(t, err)
		coreLog, _ := w.changelogs.Content("/repo/packages/core/CHANGELOG.md")
		assert.Less(t, strings.Index(coreLog, "## 1.1.0"), strings.Index(coreLog, "## 1.0.0"))
	})

	t.Run("should skip changelogs when disabled", func(t *testing.T) {
		t.Parallel()

		// given
		w := newWorkspace()
		settings := entities.DefaultSettings()
		settings.Changelog = false

		// when
		err := w.bumpCommand().Execute(context.Background(), settings, commands.BumpOptions{RepoDir: repoDir})

		// then
		require.NoError(t, err)
		assert.Len(t, w.catalog.WrittenNames(), 3)
		assert.Empty(t, w.changelogs.Contents)
	})

	t.Run("should write nothing in dry-run mode", func(t *testing.T) {
		t.Parallel()

		// given
		w := newWorkspace()
		settings := entities.DefaultSettings()
		settings.Commit = true
		settings.Tag = true

		// when
		err := w.bumpCommand().Execute(
			context.Background(),
			settings,
			commands.BumpOptions{RepoDir: repoDir, DryRun: true},
		)

		// then
		require.NoError(t, err)
		assert.Empty(t, w.catalog.WrittenNames())
		assert.Empty(t, w.changelogs.Contents)
		assert.Empty(t, w.git.CommitMessages)
		assert.Empty(t, w.git.CreatedTags)
	})

	t.Run("should commit written files and tag public packages", func(t *testing.T) {
		t.Parallel()

		// given
		w := newWorkspace()
		settings := entities.DefaultSettings()
		settings.Commit = true
		settings.Tag = true

		// when
		err := w.bumpCommand().Execute(context.Background(), settings, commands.BumpOptions{RepoDir: repoDir})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"chore(release): publish"}, w.git.CommitMessages)
		assert.Equal(t, []string{
			"/repo/packages/app/CHANGELOG.md",
			"/repo/packages/app/package.json",
			"/repo/packages/core/CHANGELOG.md",
			"/repo/packages/core/package.json",
			"/repo/packages/tool/CHANGELOG.md",
			"/repo/packages/tool/package.json",
		}, w.git.CommittedPaths)
		assert.Equal(t, []string{"core@1.1.0", "app@2.1.0"}, w.git.CreatedTags)
	})

	t.Run("should not tag when the commit fails", func(t *testing.T) {
		t.Parallel()

		// given
		w := newWorkspace()
		w.git.CommitErr = errors.New("index locked")
		settings := entities.DefaultSettings()
		settings.Commit = true
		settings.Tag = true

		// when
		err := w.bumpCommand().Execute(context.Background(), settings, commands.BumpOptions{RepoDir: repoDir})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "index locked")
		assert.Empty(t, w.git.CreatedTags)
	})

	t.Run("should release a forced package without commits", func(t *testing.T) {
		t.Parallel()

		// given
		w := newWorkspace()
		w.git.Commits = nil
		settings := entities.DefaultSettings()
		settings.Force = []string{"app"}

		// when
		err := w.bumpCommand().Execute(context.Background(), settings, commands.BumpOptions{RepoDir: repoDir})

		// then
		require.NoError(t, err)
		assert.Equal(t, "2.0.1", w.app.Version)
		assert.Equal(t, "1.0.0", w.core.Version)
		assert.Equal(t, []string{"app"}, w.catalog.WrittenNames())
	})

	t.Run("should reject forcing an unknown package", func(t *testing.T) {
		t.Parallel()

		// given
		w := newWorkspace()
		settings := entities.DefaultSettings()
		settings.Force = []string{"ghost"}

		// when
		err := w.bumpCommand().Execute(context.Background(), settings, commands.BumpOptions{RepoDir: repoDir})

		// then
		require.ErrorIs(t, err, entities.ErrMissingPackage)
		assert.Empty(t, w.catalog.WrittenNames())
	})

	t.Run("should release an untagged package with its declared version", func(t *testing.T) {
		t.Parallel()

		// given
		w := newWorkspace()
		delete(w.git.Tags, "tool")

		// when
		err := w.bumpCommand().Execute(context.Background(), entities.DefaultSettings(), commands.BumpOptions{RepoDir: repoDir})

		// then
		require.NoError(t, err)
		assert.Empty(t, w.git.SinceCalls[w.tool.Path])
		toolLog, ok := w.changelogs.Content("/repo/packages/tool/CHANGELOG.md")
		require.True(t, ok)
		assert.Contains(t, toolLog, "- first release")
	})

	t.Run("should do nothing when no package changed", func(t *testing.T) {
		t.Parallel()

		// given
		w := newWorkspace()
		w.git.Commits = nil

		// when
		err := w.bumpCommand().Execute(context.Background(), entities.DefaultSettings(), commands.BumpOptions{RepoDir: repoDir})

		// then
		require.NoError(t, err)
		assert.Empty(t, w.catalog.WrittenNames())
	})

	t.Run("should write nothing when the graph has a cycle", func(t *testing.T) {
		t.Parallel()

		// given
		w := newWorkspace()
		w.core.Manifest.SetDependencyRange(entities.KindDependencies, "app", "^2.0.0")

		// when
		err := w.bumpCommand().Execute(context.Background(), entities.DefaultSettings(), commands.BumpOptions{RepoDir: repoDir})

		// then
		var cycleErr *entities.CycleError
		require.ErrorAs(t, err, &cycleErr)
		assert.Empty(t, w.catalog.WrittenNames())
		assert.Empty(t, w.changelogs.Contents)
	})

	t.Run("should fail when no workspace is detected", func(t *testing.T) {
		t.Parallel()

		// given
		w := newWorkspace()
		w.catalog.DetectResult = false

		// when
		err := w.bumpCommand().Execute(context.Background(), entities.DefaultSettings(), commands.BumpOptions{RepoDir: repoDir})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no supported workspace")
	})

	t.Run("should report manifest write failures", func(t *testing.T) {
		t.Parallel()

		// given
		w := newWorkspace()
		w.catalog.WriteErr = errors.New("disk full")

		// when
		err := w.bumpCommand().Execute(context.Background(), entities.DefaultSettings(), commands.BumpOptions{RepoDir: repoDir})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})
}

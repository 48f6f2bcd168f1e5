package repositories

import (
	"go.uber.org/dig"

	domainRepos "github.com/rios0rios0/bumpsync/internal/domain/repositories"
	changelogRepo "github.com/rios0rios0/bumpsync/internal/infrastructure/repositories/changelog"
	ccRepo "github.com/rios0rios0/bumpsync/internal/infrastructure/repositories/conventional"
	gitRepo "github.com/rios0rios0/bumpsync/internal/infrastructure/repositories/git"
	npmRepo "github.com/rios0rios0/bumpsync/internal/infrastructure/repositories/npm"
	pnpmRepo "github.com/rios0rios0/bumpsync/internal/infrastructure/repositories/pnpm"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// pnpm must come first: every pnpm workspace also has a package.json
	if err := container.Provide(func() *CatalogRegistry {
		reg := NewCatalogRegistry()
		reg.Register(pnpmRepo.NewPnpmCatalogRepository())
		reg.Register(npmRepo.NewNpmCatalogRepository())
		return reg
	}); err != nil {
		return err
	}

	if err := container.Provide(func() domainRepos.GitRepositoryFactory {
		return gitRepo.NewGitRepository
	}); err != nil {
		return err
	}

	if err := container.Provide(ccRepo.NewConventionalClassifierRepository); err != nil {
		return err
	}

	if err := container.Provide(changelogRepo.NewFileChangelogRepository); err != nil {
		return err
	}

	return nil
}

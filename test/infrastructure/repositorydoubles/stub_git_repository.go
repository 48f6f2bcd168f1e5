//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/bumpsync/internal/domain/entities"
	"github.com/rios0rios0/bumpsync/internal/domain/repositories"
)

// StubGitRepository implements repositories.GitRepository with canned
// history. Commits and files are keyed by path scope.
type StubGitRepository struct {
	// --- LatestTag ---
	Tags   map[string]*entities.Tag // package name -> latest tag
	TagErr error

	// --- CommitsSince / FilesChangedSince ---
	Commits    map[string][]entities.GitCommit
	Files      map[string][]string
	HistoryErr error
	// spy: since SHAs requested per scope
	SinceCalls map[string]string

	// --- ShortSHA ---
	SHA string

	// --- CommitFiles ---
	CommitErr      error
	CommittedPaths []string
	CommitMessages []string

	// --- CreateTag ---
	CreateTagErr error
	CreatedTags  []string
}

var _ repositories.GitRepository = (*StubGitRepository)(nil)

// Factory returns a GitRepositoryFactory always yielding s.
func (s *StubGitRepository) Factory() repositories.GitRepositoryFactory {
	return func(_ string) (repositories.GitRepository, error) { return s, nil }
}

func (s *StubGitRepository) LatestTag(_ context.Context, packageName string) (*entities.Tag, error) {
	if s.TagErr != nil {
		return nil, s.TagErr
	}
	return s.Tags[packageName], nil
}

func (s *StubGitRepository) CommitsSince(
	_ context.Context,
	sinceSHA, pathScope string,
) ([]entities.GitCommit, error) {
	if s.SinceCalls == nil {
		s.SinceCalls = make(map[string]string)
	}
	s.SinceCalls[pathScope] = sinceSHA
	return s.Commits[pathScope], s.HistoryErr
}

func (s *StubGitRepository) FilesChangedSince(
	_ context.Context,
	_, pathScope string,
) ([]string, error) {
	return s.Files[pathScope], s.HistoryErr
}

func (s *StubGitRepository) ShortSHA(_ context.Context) (string, error) { return s.SHA, nil }

func (s *StubGitRepository) CommitFiles(_ context.Context, paths []string, message string) (string, error) {
	if s.CommitErr != nil {
		return "", s.CommitErr
	}
	s.CommittedPaths = append(s.CommittedPaths, paths...)
	s.CommitMessages = append(s.CommitMessages, message)
	return "0123456789abcdef0123456789abcdef01234567", nil
}

func (s *StubGitRepository) CreateTag(_ context.Context, name string) error {
	if s.CreateTagErr != nil {
		return s.CreateTagErr
	}
	s.CreatedTags = append(s.CreatedTags, name)
	return nil
}

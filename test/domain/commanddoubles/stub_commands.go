//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/bumpsync/internal/domain/commands"
	"github.com/rios0rios0/bumpsync/internal/domain/entities"
)

// StubBumpCommand is a stub implementation of commands.Bump.
type StubBumpCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	LastSettings     *entities.Settings
	LastOpts         commands.BumpOptions
}

var _ commands.Bump = (*StubBumpCommand)(nil)

func (s *StubBumpCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.BumpOptions,
) error {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	return s.ExecuteErr
}

// StubGraphCommand is a stub implementation of commands.Graph.
type StubGraphCommand struct {
	Tree         string
	ExecuteErr   error
	LastSettings *entities.Settings
	LastOpts     commands.GraphOptions
}

var _ commands.Graph = (*StubGraphCommand)(nil)

func (s *StubGraphCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.GraphOptions,
) (string, error) {
	s.LastSettings = settings
	s.LastOpts = opts
	return s.Tree, s.ExecuteErr
}

// StubChangelogCommand is a stub implementation of commands.Changelog.
type StubChangelogCommand struct {
	Notes        []commands.ReleaseNote
	ExecuteErr   error
	LastSettings *entities.Settings
}

var _ commands.Changelog = (*StubChangelogCommand)(nil)

func (s *StubChangelogCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	_ commands.ChangelogOptions,
) ([]commands.ReleaseNote, error) {
	s.LastSettings = settings
	return s.Notes, s.ExecuteErr
}

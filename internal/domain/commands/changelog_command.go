package commands

import (
	"context"
	"time"

	"github.com/rios0rios0/bumpsync/internal/domain/entities"
)

// Changelog is the interface for the changelog command.
type Changelog interface {
	Execute(ctx context.Context, settings *entities.Settings, opts ChangelogOptions) ([]ReleaseNote, error)
}

// ChangelogOptions holds runtime options for the changelog preview.
type ChangelogOptions struct {
	RepoDir string
}

// ReleaseNote is the changelog section one package would receive.
type ReleaseNote struct {
	Package string
	Version string
	Section string
}

// ChangelogCommand previews the changelog sections of the next release.
type ChangelogCommand struct {
	planner *ReleasePlanner
	now     func() time.Time
}

// NewChangelogCommand creates a new ChangelogCommand.
func NewChangelogCommand(planner *ReleasePlanner) *ChangelogCommand {
	return &ChangelogCommand{planner: planner, now: time.Now}
}

// Execute plans the release and returns one note per released package, in
// the order bumps were produced. Nothing is written.
func (it *ChangelogCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts ChangelogOptions,
) ([]ReleaseNote, error) {
	plan, err := it.planner.plan(ctx, settings, opts.RepoDir)
	if err != nil {
		return nil, err
	}

	date := it.now()
	var notes []ReleaseNote
	for _, bump := range plan.releases() {
		notes = append(notes, ReleaseNote{
			Package: bump.Name(),
			Version: bump.To,
			Section: plan.section(bump, date),
		})
	}
	return notes, nil
}

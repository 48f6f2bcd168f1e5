package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rios0rios0/bumpsync/internal/domain/entities"
	"github.com/rios0rios0/bumpsync/internal/domain/services"
)

// Graph is the interface for the graph command.
type Graph interface {
	Execute(ctx context.Context, settings *entities.Settings, opts GraphOptions) (string, error)
}

// GraphOptions holds runtime options for the graph command.
type GraphOptions struct {
	RepoDir string
}

// GraphCommand renders the local dependency graph of a repository.
type GraphCommand struct {
	planner *ReleasePlanner
}

// NewGraphCommand creates a new GraphCommand.
func NewGraphCommand(planner *ReleasePlanner) *GraphCommand {
	return &GraphCommand{planner: planner}
}

// Execute returns the rendered tree, or a *entities.CycleError when the
// graph has a cycle.
func (it *GraphCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts GraphOptions,
) (string, error) {
	repoDir, err := filepath.Abs(opts.RepoDir)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	_, catalog, err := it.planner.openWorkspace(ctx, repoDir)
	if err != nil {
		return "", err
	}

	roots, err := services.BuildDependencyGraph(catalog, services.GraphOptions{
		UpdatePeer:     settings.UpdatePeer,
		UpdateOptional: settings.UpdateOptional,
	})
	if err != nil {
		return "", err
	}
	return services.RenderGraph(roots), nil
}

package controllers

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/bumpsync/internal/domain/commands"
	"github.com/rios0rios0/bumpsync/internal/domain/entities"
)

// GraphController handles the "graph" subcommand.
type GraphController struct {
	command commands.Graph
}

// NewGraphController creates a new GraphController.
func NewGraphController(command commands.Graph) *GraphController {
	return &GraphController{command: command}
}

// GetBind returns the Cobra command metadata for the graph controller.
func (it *GraphController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "graph [path]",
		Short: "Print the local dependency graph",
		Long:  `Print the tree of local packages and the local packages they depend on. Fails on cycles.`,
	}
}

// Execute prints the dependency tree to the command output.
func (it *GraphController) Execute(cmd *cobra.Command, args []string) error {
	applyVerbose(cmd)
	repoDir := repoDirFromArgs(args)

	settings, err := loadSettings(cmd, repoDir)
	if err != nil {
		return err
	}

	tree, err := it.command.Execute(cmd.Context(), settings, commands.GraphOptions{RepoDir: repoDir})
	if err != nil {
		logger.Errorf("Graph failed: %v", err)
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), tree)
	return err
}

// AddFlags adds the graph-specific flags to the given Cobra command.
func (it *GraphController) AddFlags(cmd *cobra.Command) {
	addGraphFlags(cmd)
}

package controllers

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/bumpsync/internal/domain/commands"
	"github.com/rios0rios0/bumpsync/internal/domain/entities"
)

// ChangelogController handles the "changelog" subcommand.
type ChangelogController struct {
	command commands.Changelog
}

// NewChangelogController creates a new ChangelogController.
func NewChangelogController(command commands.Changelog) *ChangelogController {
	return &ChangelogController{command: command}
}

// GetBind returns the Cobra command metadata for the changelog controller.
func (it *ChangelogController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "changelog [path]",
		Short: "Preview the changelog of the next release",
		Long: `Print the changelog section every package would receive from the next
bump, without writing anything.`,
	}
}

// Execute prints one section per released package.
func (it *ChangelogController) Execute(cmd *cobra.Command, args []string) error {
	applyVerbose(cmd)
	repoDir := repoDirFromArgs(args)

	settings, err := loadSettings(cmd, repoDir)
	if err != nil {
		return err
	}

	notes, err := it.command.Execute(cmd.Context(), settings, commands.ChangelogOptions{RepoDir: repoDir})
	if err != nil {
		logger.Errorf("Changelog failed: %v", err)
		return err
	}

	out := cmd.OutOrStdout()
	for _, note := range notes {
		if _, err = fmt.Fprintf(out, "# %s\n\n%s\n", note.Package, note.Section); err != nil {
			return err
		}
	}
	return nil
}

// AddFlags adds the changelog-specific flags to the given Cobra command.
func (it *ChangelogController) AddFlags(cmd *cobra.Command) {
	addPlanFlags(cmd)
}

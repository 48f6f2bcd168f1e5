package controllers

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/bumpsync/internal/domain/commands"
	"github.com/rios0rios0/bumpsync/internal/domain/entities"
)

// BumpController handles the "bump" subcommand.
type BumpController struct {
	command commands.Bump
}

// NewBumpController creates a new BumpController.
func NewBumpController(command commands.Bump) *BumpController {
	return &BumpController{command: command}
}

// GetBind returns the Cobra command metadata for the bump controller.
func (it *BumpController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "bump [path]",
		Short: "Bump package versions from the git history",
		Long: `Inspect the git history of every package since its last release tag,
recommend a version bump from the Conventional Commits found, propagate the
bumps to every local dependent and write the manifests and changelogs.

Nothing is written when any package fails to synchronize.`,
	}
}

// Execute runs the release.
func (it *BumpController) Execute(cmd *cobra.Command, args []string) error {
	applyVerbose(cmd)
	repoDir := repoDirFromArgs(args)

	settings, err := loadSettings(cmd, repoDir)
	if err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool(flagDryRun)
	if err = it.command.Execute(cmd.Context(), settings, commands.BumpOptions{
		RepoDir: repoDir,
		DryRun:  dryRun,
	}); err != nil {
		logger.Errorf("Bump failed: %v", err)
		return err
	}
	return nil
}

// AddFlags adds the bump-specific flags to the given Cobra command.
func (it *BumpController) AddFlags(cmd *cobra.Command) {
	addPlanFlags(cmd)
	cmd.Flags().Bool(flagNoChangelog, false, "Do not write changelog files")
	cmd.Flags().Bool(flagCommit, false, "Commit the written files")
	cmd.Flags().Bool(flagTag, false, "Tag every released public package (requires --commit)")
}

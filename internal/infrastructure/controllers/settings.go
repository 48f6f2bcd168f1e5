package controllers

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/bumpsync/internal/domain/entities"
)

const (
	flagConfig         = "config"
	flagDryRun         = "dry-run"
	flagVerbose        = "verbose"
	flagReleaseAs      = "release-as"
	flagPrereleaseID   = "prerelease-id"
	flagUpdatePeer     = "update-peer"
	flagUpdateOptional = "update-optional"
	flagSaveExact      = "save-exact"
	flagUniqify        = "uniqify"
	flagForce          = "force"
	flagNoChangelog    = "no-changelog"
	flagCommit         = "commit"
	flagTag            = "tag"
)

// repoDirFromArgs returns the positional path argument, defaulting to ".".
func repoDirFromArgs(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// applyVerbose raises the log level when --verbose is set.
func applyVerbose(cmd *cobra.Command) {
	if verbose, _ := cmd.Flags().GetBool(flagVerbose); verbose {
		logger.SetLevel(logger.DebugLevel)
	}
}

// loadSettings reads the configuration file (explicit, auto-detected or
// defaults) and applies every flag the user set explicitly on top of it.
func loadSettings(cmd *cobra.Command, repoDir string) (*entities.Settings, error) {
	settings := entities.DefaultSettings()

	cfgPath, _ := cmd.Flags().GetString(flagConfig)
	if cfgPath == "" {
		if found, err := entities.FindConfigFile(repoDir); err == nil {
			cfgPath = found
		} else {
			logger.Debugf("No config file found, using defaults: %v", err)
		}
	}

	if cfgPath != "" {
		logger.Infof("Using config file: %s", cfgPath)
		loaded, err := entities.NewSettings(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		settings = loaded
	}

	applyFlagOverrides(cmd, settings)
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func applyFlagOverrides(cmd *cobra.Command, settings *entities.Settings) {
	flags := cmd.Flags()

	if flags.Changed(flagReleaseAs) {
		settings.ReleaseAs, _ = flags.GetString(flagReleaseAs)
	}
	if flags.Changed(flagPrereleaseID) {
		settings.PrereleaseID, _ = flags.GetString(flagPrereleaseID)
	}
	if flags.Changed(flagUpdatePeer) {
		settings.UpdatePeer, _ = flags.GetBool(flagUpdatePeer)
	}
	if flags.Changed(flagUpdateOptional) {
		settings.UpdateOptional, _ = flags.GetBool(flagUpdateOptional)
	}
	if flags.Changed(flagSaveExact) {
		settings.SaveExact, _ = flags.GetBool(flagSaveExact)
	}
	if flags.Changed(flagUniqify) {
		settings.Uniqify, _ = flags.GetBool(flagUniqify)
	}
	if flags.Changed(flagForce) {
		settings.Force, _ = flags.GetStringSlice(flagForce)
	}
	if flags.Changed(flagNoChangelog) {
		noChangelog, _ := flags.GetBool(flagNoChangelog)
		settings.Changelog = !noChangelog
	}
	if flags.Changed(flagCommit) {
		settings.Commit, _ = flags.GetBool(flagCommit)
	}
	if flags.Changed(flagTag) {
		settings.Tag, _ = flags.GetBool(flagTag)
	}
}

// addGraphFlags adds the flags that select which dependency kinds link packages.
func addGraphFlags(cmd *cobra.Command) {
	cmd.Flags().Bool(flagUpdatePeer, false, "Follow and rewrite peerDependencies")
	cmd.Flags().Bool(flagUpdateOptional, false, "Follow and rewrite optionalDependencies")
}

// addPlanFlags adds the flags that shape the computed versions.
func addPlanFlags(cmd *cobra.Command) {
	addGraphFlags(cmd)
	cmd.Flags().String(flagReleaseAs, entities.ReleaseAuto,
		"Release preset (auto, major, minor, patch, alpha, beta) or an exact version")
	cmd.Flags().String(flagPrereleaseID, "", "Prerelease identifier (e.g. rc)")
	cmd.Flags().Bool(flagSaveExact, false, "Write exact versions instead of ranges")
	cmd.Flags().Bool(flagUniqify, false, "Suffix versions with the short commit SHA")
	cmd.Flags().StringSlice(flagForce, nil, "Release this package even without changes (repeatable)")
}

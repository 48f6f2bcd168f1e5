package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	defaultChangelogFile = "CHANGELOG.md"
	defaultCommitMessage = "chore(release): publish"
)

// Settings is the top-level configuration for bumpsync. Every field can be
// overridden from the command line.
type Settings struct {
	ReleaseAs      string   `yaml:"release_as"`
	PrereleaseID   string   `yaml:"prerelease_id"`
	UpdatePeer     bool     `yaml:"update_peer"`
	UpdateOptional bool     `yaml:"update_optional"`
	SaveExact      bool     `yaml:"save_exact"`
	Uniqify        bool     `yaml:"uniqify"`
	Force          []string `yaml:"force"`
	Changelog      bool     `yaml:"changelog"`
	ChangelogFile  string   `yaml:"changelog_file"`
	Commit         bool     `yaml:"commit"`
	CommitMessage  string   `yaml:"commit_message"`
	Tag            bool     `yaml:"tag"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`) //nolint:gochecknoglobals // compiled once

// DefaultSettings returns the settings used when no config file exists.
func DefaultSettings() *Settings {
	return &Settings{
		ReleaseAs:     ReleaseAuto,
		Changelog:     true,
		ChangelogFile: defaultChangelogFile,
		CommitMessage: defaultCommitMessage,
	}
}

// NewSettings reads and validates a configuration file on top of the defaults.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	settings := DefaultSettings()
	if unmarshalErr := yaml.Unmarshal(data, settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings.CommitMessage = expandEnv(settings.CommitMessage)
	if settings.ChangelogFile == "" {
		settings.ChangelogFile = defaultChangelogFile
	}
	if settings.CommitMessage == "" {
		settings.CommitMessage = defaultCommitMessage
	}

	if validateErr := settings.Validate(); validateErr != nil {
		return nil, validateErr
	}
	return settings, nil
}

// Validate checks for inconsistent values.
func (s *Settings) Validate() error {
	if err := ValidateReleasePreset(s.ReleaseAs); err != nil {
		return err
	}
	if s.Tag && !s.Commit {
		return errors.New("tag requires commit to be enabled")
	}
	return nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile(repoDir string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		repoDir,
		filepath.Join(repoDir, ".config"),
		filepath.Join(repoDir, "configs"),
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".bumpsync.yaml",
		".bumpsync.yml",
		"bumpsync.yaml",
		"bumpsync.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// expandEnv replaces ${ENV_VAR} references with their values.
func expandEnv(raw string) string {
	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
}

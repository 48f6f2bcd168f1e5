package entities

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Release presets accepted by --release-as besides a literal version.
const (
	ReleaseAuto  = "auto"
	ReleaseMajor = "major"
	ReleaseMinor = "minor"
	ReleasePatch = "patch"
	ReleaseAlpha = "alpha"
	ReleaseBeta  = "beta"
)

// IsExactRelease reports whether preset is a literal semantic version.
func IsExactRelease(preset string) bool {
	if preset == "" {
		return false
	}
	_, err := semver.StrictNewVersion(strings.TrimPrefix(preset, "v"))
	return err == nil
}

// IsPrereleasePreset reports whether preset names a prerelease stream.
func IsPrereleasePreset(preset string) bool {
	return preset == ReleaseAlpha || preset == ReleaseBeta
}

// IsNamedPreset reports whether preset forces a major, minor or patch bump.
func IsNamedPreset(preset string) bool {
	return preset == ReleaseMajor || preset == ReleaseMinor || preset == ReleasePatch
}

// ValidateReleasePreset rejects anything that is neither a preset nor a version.
func ValidateReleasePreset(preset string) error {
	switch {
	case preset == "", preset == ReleaseAuto:
		return nil
	case IsPrereleasePreset(preset), IsNamedPreset(preset), IsExactRelease(preset):
		return nil
	default:
		return fmt.Errorf(
			"invalid release preset %q: expected auto, major, minor, patch, alpha, beta or a version",
			preset,
		)
	}
}

package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/rios0rios0/bumpsync/internal/domain/entities"
)

// IncrementVersion applies a bump to version following npm's semver.inc rules.
// prereleaseID labels prerelease increments; it is ignored for other types.
func IncrementVersion(version string, bumpType entities.BumpType, prereleaseID string) (string, error) {
	v, err := semver.StrictNewVersion(version)
	if err != nil {
		return "", fmt.Errorf("invalid version %q: %w", version, err)
	}

	major, minor, patch := v.Major(), v.Minor(), v.Patch()
	pre := v.Prerelease()

	switch bumpType {
	case entities.BumpMajor:
		if pre == "" || minor != 0 || patch != 0 {
			major++
		}
		return semver.New(major, 0, 0, "", "").String(), nil
	case entities.BumpMinor:
		if pre == "" || patch != 0 {
			minor++
		}
		return semver.New(major, minor, 0, "", "").String(), nil
	case entities.BumpPatch:
		if pre == "" {
			patch++
		}
		return semver.New(major, minor, patch, "", "").String(), nil
	case entities.BumpPrerelease:
		if pre == "" {
			return semver.New(major, minor, patch+1, firstPrerelease(prereleaseID), "").String(), nil
		}
		return semver.New(major, minor, patch, nextPrerelease(pre, prereleaseID), "").String(), nil
	case entities.BumpFirst, entities.BumpExact:
		return version, nil
	default:
		return "", fmt.Errorf("unknown bump type %d", bumpType)
	}
}

func firstPrerelease(id string) string {
	if id == "" {
		return "0"
	}
	return id + ".0"
}

// nextPrerelease increments the last numeric identifier of pre, or starts a
// new ".0" series when the label changes or no numeric identifier exists.
func nextPrerelease(pre, id string) string {
	parts := dropCommitIDs(strings.Split(pre, "."))
	pre = strings.Join(parts, ".")
	if id != "" && parts[0] != id {
		return firstPrerelease(id)
	}
	for i := len(parts) - 1; i >= 0; i-- {
		if n, err := strconv.ParseUint(parts[i], 10, 64); err == nil {
			parts[i] = strconv.FormatUint(n+1, 10)
			return strings.Join(parts, ".")
		}
	}
	return pre + ".0"
}

const commitIDPrefix = "g"

// dropCommitIDs removes the "g<sha>" identifiers added by uniqify, so a new
// increment does not carry the SHA of an earlier release.
func dropCommitIDs(parts []string) []string {
	kept := parts[:0:0]
	for _, part := range parts {
		if !isCommitID(part) {
			kept = append(kept, part)
		}
	}
	if len(kept) == 0 {
		return parts
	}
	return kept
}

func isCommitID(part string) bool {
	const minLen = 1 + 7
	if len(part) < minLen || !strings.HasPrefix(part, commitIDPrefix) {
		return false
	}
	for _, r := range part[len(commitIDPrefix):] {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}

// ReleaseChannel returns the first prerelease identifier of version
// ("1.2.0-beta.3" -> "beta"), or an empty string for stable versions.
// Labels are compared whole, so "beta" and "betamax" are different channels.
func ReleaseChannel(version string) string {
	v, err := semver.NewVersion(version)
	if err != nil {
		return ""
	}
	pre := v.Prerelease()
	if pre == "" {
		return ""
	}
	label, _, _ := strings.Cut(pre, ".")
	return label
}

// ResolveVersionConflict picks between a version already applied during this
// synchronization and a newly proposed one. A proposal on another release
// channel always wins; on the same channel the greater version is kept.
func ResolveVersionConflict(applied, proposed string) string {
	if ReleaseChannel(applied) != ReleaseChannel(proposed) {
		return proposed
	}
	av, err := semver.NewVersion(applied)
	if err != nil {
		return proposed
	}
	pv, err := semver.NewVersion(proposed)
	if err != nil {
		return proposed
	}
	if av.GreaterThan(pv) {
		return applied
	}
	return proposed
}

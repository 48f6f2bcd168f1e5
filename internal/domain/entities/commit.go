package entities

import "time"

// GitCommit is a raw commit as returned by the git provider.
type GitCommit struct {
	SHA     string
	Author  string
	Date    time.Time
	Message string
}

// ShortSHA returns the abbreviated commit hash.
func (c GitCommit) ShortSHA() string {
	const shortLen = 7
	if len(c.SHA) <= shortLen {
		return c.SHA
	}
	return c.SHA[:shortLen]
}

// Commit types with a meaning for version bumps and changelog grouping.
const (
	CommitTypeFeat  = "feat"
	CommitTypeFix   = "fix"
	CommitTypeMerge = "merge"
)

// ConventionalCommit is a commit classified under the Conventional Commits convention.
type ConventionalCommit struct {
	GitCommit
	Type     string // "feat", "fix", ...; empty when the header does not conform
	Scope    string
	Subject  string
	Header   string
	Body     string
	Breaking bool
	// Package is the package whose history the commit was collected for.
	Package *PackageInfo
}

// Tag is a release tag of a package.
type Tag struct {
	Name    string // "<package>@<version>"
	Version string
	SHA     string
}

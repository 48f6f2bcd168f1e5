package services

import "github.com/rios0rios0/bumpsync/internal/domain/entities"

// BumpTypeForCommit maps one classified commit to a bump type:
// breaking => MAJOR, feat => MINOR, anything else => PATCH.
func BumpTypeForCommit(commit entities.ConventionalCommit) entities.BumpType {
	switch {
	case commit.Breaking:
		return entities.BumpMajor
	case commit.Type == entities.CommitTypeFeat:
		return entities.BumpMinor
	default:
		return entities.BumpPatch
	}
}

// SeedBumpType returns the bump type a package receives from its commits
// since the last release, and whether it should be bumped at all.
// A package that was never released always gets a FIRST bump.
func SeedBumpType(commits []entities.ConventionalCommit, hasPriorTag bool) (entities.BumpType, bool) {
	if !hasPriorTag {
		return entities.BumpFirst, true
	}

	found := false
	result := entities.BumpPatch
	for _, commit := range commits {
		if commit.Type == entities.CommitTypeMerge {
			continue
		}
		found = true
		result = entities.MergeBumpTypes(result, BumpTypeForCommit(commit))
	}
	return result, found
}

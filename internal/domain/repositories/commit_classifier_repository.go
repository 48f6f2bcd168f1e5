package repositories

import "github.com/rios0rios0/bumpsync/internal/domain/entities"

// CommitClassifierRepository turns raw commits into conventional commits.
type CommitClassifierRepository interface {
	Classify(commit entities.GitCommit) entities.ConventionalCommit
}

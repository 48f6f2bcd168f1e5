package conventional

import (
	"regexp"
	"strings"

	"github.com/rios0rios0/bumpsync/internal/domain/entities"
	"github.com/rios0rios0/bumpsync/internal/domain/repositories"
)

//nolint:gochecknoglobals // compiled once
var (
	headerPattern  = regexp.MustCompile(`^(\w+)(?:\(([^)]*)\))?(!)?:\s+(.+)$`)
	breakingFooter = regexp.MustCompile(`(?m)^BREAKING[ -]CHANGE:\s*\S`)
)

const mergePrefix = "Merge "

// ConventionalClassifierRepository parses commit messages following the
// Conventional Commits format. Messages that do not follow it are kept with
// an empty type and the whole header as subject.
type ConventionalClassifierRepository struct{}

// NewConventionalClassifierRepository creates a new classifier.
func NewConventionalClassifierRepository() repositories.CommitClassifierRepository {
	return &ConventionalClassifierRepository{}
}

func (r *ConventionalClassifierRepository) Classify(commit entities.GitCommit) entities.ConventionalCommit {
	header, body, _ := strings.Cut(strings.TrimSpace(commit.Message), "\n")
	header = strings.TrimSpace(header)
	body = strings.TrimSpace(body)

	result := entities.ConventionalCommit{
		GitCommit: commit,
		Header:    header,
		Subject:   header,
		Body:      body,
	}

	if strings.HasPrefix(header, mergePrefix) {
		result.Type = entities.CommitTypeMerge
		return result
	}

	if match := headerPattern.FindStringSubmatch(header); match != nil {
		result.Type = strings.ToLower(match[1])
		result.Scope = strings.TrimSpace(match[2])
		result.Breaking = match[3] == "!"
		result.Subject = strings.TrimSpace(match[4])
	}

	if breakingFooter.MatchString(body) {
		result.Breaking = true
	}
	return result
}

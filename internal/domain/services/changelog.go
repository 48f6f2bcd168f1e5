package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/rios0rios0/bumpsync/internal/domain/entities"
)

const changelogDateLayout = "2006-01-02"

type changelogGroup struct {
	title   string
	matches func(entities.ConventionalCommit) bool
}

//nolint:gochecknoglobals // rendering order of the sections
var changelogGroups = []changelogGroup{
	{"BREAKING CHANGES", func(c entities.ConventionalCommit) bool { return c.Breaking }},
	{"Features", func(c entities.ConventionalCommit) bool {
		return !c.Breaking && c.Type == entities.CommitTypeFeat
	}},
	{"Bug Fixes", func(c entities.ConventionalCommit) bool {
		return !c.Breaking && c.Type == entities.CommitTypeFix
	}},
	{"Other Changes", func(c entities.ConventionalCommit) bool {
		return !c.Breaking && c.Type != entities.CommitTypeFeat && c.Type != entities.CommitTypeFix
	}},
}

// RenderChangelog renders the release section of one bump. Commits are
// grouped by kind; a bump caused by other packages also lists the packages
// whose changes it ultimately descends from.
func RenderChangelog(
	bump *entities.BumpRecommendation,
	commits []entities.ConventionalCommit,
	date time.Time,
) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s (%s)\n", bump.To, date.Format(changelogDateLayout))

	for _, group := range changelogGroups {
		var lines []string
		for _, commit := range commits {
			if commit.Type == entities.CommitTypeMerge || !group.matches(commit) {
				continue
			}
			lines = append(lines, formatCommitLine(commit))
		}
		writeSection(&sb, group.title, lines)
	}

	if causes := bump.RootCauses(); len(causes) > 0 {
		writeSection(&sb, "Dependencies", []string{
			"- bumped because of changes in " + strings.Join(causes, ", "),
		})
	}

	if bump.From == nil {
		writeSection(&sb, "Notes", []string{"- first release"})
	}
	return sb.String()
}

func writeSection(sb *strings.Builder, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n### %s\n\n", title)
	for _, line := range lines {
		sb.WriteString(line + "\n")
	}
}

func formatCommitLine(commit entities.ConventionalCommit) string {
	subject := commit.Subject
	if subject == "" {
		subject = commit.Header
	}
	if commit.Scope != "" {
		subject = fmt.Sprintf("**%s:** %s", commit.Scope, subject)
	}
	return fmt.Sprintf("- %s (%s)", subject, commit.ShortSHA())
}

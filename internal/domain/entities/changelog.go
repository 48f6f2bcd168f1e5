package entities

import "strings"

const (
	changelogTitle    = "# Changelog"
	unreleasedHeading = "## [Unreleased]"
	h2Prefix          = "## "
)

// InsertReleaseSection places a rendered release section into changelog
// content, newest release first.
//
// Behaviour:
//   - Empty content gets a "# Changelog" title followed by the section.
//   - The section goes right above the most recent release heading ("## ..."),
//     which keeps it below the title and below any "## [Unreleased]" block.
//   - Without any release heading the section is appended at the end.
func InsertReleaseSection(content, section string) string {
	section = strings.TrimRight(section, "\n")
	if strings.TrimSpace(content) == "" {
		return changelogTitle + "\n\n" + section + "\n"
	}

	lines := strings.Split(content, "\n")
	block := append(strings.Split(section, "\n"), "")

	releaseIdx := findReleaseIndex(lines)
	if releaseIdx < 0 {
		trimmed := strings.TrimRight(content, "\n")
		return trimmed + "\n\n" + section + "\n"
	}

	return strings.Join(insertLines(lines, releaseIdx, block), "\n")
}

// findReleaseIndex returns the line index of the first "## " heading that is
// not the Unreleased heading, or -1 if there is none.
func findReleaseIndex(lines []string) int {
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, h2Prefix) && trimmed != unreleasedHeading {
			return i
		}
	}
	return -1
}

// insertLines inserts extra lines into slice at the given index.
func insertLines(lines []string, at int, extra []string) []string {
	result := make([]string, 0, len(lines)+len(extra))
	result = append(result, lines[:at]...)
	result = append(result, extra...)
	result = append(result, lines[at:]...)
	return result
}

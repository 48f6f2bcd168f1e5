package services

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const (
	workspaceProtocol = "workspace:"
	defaultOperator   = "^"
)

// preservedOperators are kept when a range is rewritten; longest first.
var preservedOperators = []string{">=", "^", "~"} //nolint:gochecknoglobals // lookup table

// RewriteRange points an existing dependency range at version. The range
// operator is preserved when it is ^, ~ or >=, otherwise ^ is used; exact
// drops the operator altogether. The workspace: protocol prefix survives and
// the dynamic forms workspace:*, workspace:^ and workspace:~ are left alone.
// Ranges that are not semver constraints (file:, git URLs, tags) are rejected.
func RewriteRange(current, version string, exact bool) (string, error) {
	if rest, ok := strings.CutPrefix(current, workspaceProtocol); ok {
		if rest == "*" || rest == "^" || rest == "~" {
			return current, nil
		}
		rewritten, err := RewriteRange(rest, version, exact)
		if err != nil {
			return "", err
		}
		return workspaceProtocol + rewritten, nil
	}

	if _, err := semver.NewConstraint(current); err != nil {
		return "", fmt.Errorf("not a semver range: %w", err)
	}

	if exact {
		return version, nil
	}
	trimmed := strings.TrimSpace(current)
	for _, op := range preservedOperators {
		if strings.HasPrefix(trimmed, op) {
			return op + version, nil
		}
	}
	return defaultOperator + version, nil
}

package repositories

import "context"

// ChangelogRepository reads and writes changelog files.
type ChangelogRepository interface {
	// Read returns the file content, or an empty string when it does not exist.
	Read(ctx context.Context, path string) (string, error)
	Write(ctx context.Context, path, content string) error
}

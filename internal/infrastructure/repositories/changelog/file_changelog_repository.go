package changelog

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rios0rios0/bumpsync/internal/domain/repositories"
)

const changelogFileMode = 0o644

// FileChangelogRepository stores changelogs on the local file system.
type FileChangelogRepository struct{}

// NewFileChangelogRepository creates a new file-backed changelog store.
func NewFileChangelogRepository() repositories.ChangelogRepository {
	return &FileChangelogRepository{}
}

func (r *FileChangelogRepository) Read(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func (r *FileChangelogRepository) Write(ctx context.Context, path, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), changelogFileMode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

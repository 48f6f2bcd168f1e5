//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/bumpsync/internal/domain/repositories"
)

// SpyChangelogRepository implements repositories.ChangelogRepository in memory.
type SpyChangelogRepository struct {
	mu       sync.Mutex
	Contents map[string]string // path -> content
	ReadErr  error
	WriteErr error
}

var _ repositories.ChangelogRepository = (*SpyChangelogRepository)(nil)

func (s *SpyChangelogRepository) Read(_ context.Context, path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return "", s.ReadErr
	}
	return s.Contents[path], nil
}

func (s *SpyChangelogRepository) Write(_ context.Context, path, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.WriteErr != nil {
		return s.WriteErr
	}
	if s.Contents == nil {
		s.Contents = make(map[string]string)
	}
	s.Contents[path] = content
	return nil
}

// Content returns the stored content of path.
func (s *SpyChangelogRepository) Content(path string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.Contents[path]
	return content, ok
}

package npm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/bumpsync/internal/domain/entities"
)

const (
	// ManifestFileName is the package manifest every workspace member carries.
	ManifestFileName = "package.json"
	manifestFileMode = 0o644
	nodeModulesDir   = "node_modules"
)

// ReadPackage loads the manifest in dir into a PackageInfo.
func ReadPackage(dir string) (*entities.PackageInfo, error) {
	manifestPath := filepath.Join(dir, ManifestFileName)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", manifestPath, err)
	}

	manifest, err := entities.ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", manifestPath, err)
	}

	return &entities.PackageInfo{
		Name:         manifest.Name(),
		Version:      manifest.Version(),
		Manifest:     manifest,
		Path:         dir,
		ManifestPath: manifestPath,
		IsPrivate:    manifest.Private(),
	}, nil
}

// DiscoverWorkspace reads the root manifest of repoDir and every member
// matched by patterns. Patterns starting with "!" exclude directories.
// Without patterns the root is returned as a single regular package.
func DiscoverWorkspace(
	ctx context.Context,
	repoDir string,
	patterns []string,
) ([]*entities.PackageInfo, error) {
	root, err := readRoot(repoDir)
	if err != nil {
		return nil, err
	}

	if len(patterns) == 0 {
		if root.Name == "" {
			return nil, fmt.Errorf("package at %s has no name", repoDir)
		}
		return []*entities.PackageInfo{root}, nil
	}

	root.IsRoot = true
	if root.Name == "" {
		root.Name = filepath.Base(repoDir)
	}

	dirs, err := expandPatterns(ctx, repoDir, patterns)
	if err != nil {
		return nil, err
	}

	packages := []*entities.PackageInfo{root}
	for _, dir := range dirs {
		pkg, readErr := ReadPackage(dir)
		if readErr != nil {
			return nil, readErr
		}
		if pkg.Name == "" {
			return nil, fmt.Errorf("package at %s has no name", dir)
		}
		packages = append(packages, pkg)
	}

	logger.Debugf("[workspace] Discovered %d packages under %s", len(packages), repoDir)
	return packages, nil
}

func readRoot(repoDir string) (*entities.PackageInfo, error) {
	info, err := os.Stat(filepath.Join(repoDir, ManifestFileName))
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", entities.ErrNoRootManifest, repoDir)
	}
	return ReadPackage(repoDir)
}

// expandPatterns resolves workspace globs into sorted member directories.
func expandPatterns(ctx context.Context, repoDir string, patterns []string) ([]string, error) {
	included := make(map[string]bool)
	excluded := make(map[string]bool)

	for _, pattern := range patterns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		target := included
		if strings.HasPrefix(pattern, "!") {
			target = excluded
			pattern = strings.TrimPrefix(pattern, "!")
		}
		pattern = strings.TrimSuffix(strings.TrimPrefix(pattern, "./"), "/")

		matches, err := doublestar.Glob(filepath.Join(repoDir, filepath.FromSlash(pattern)))
		if err != nil {
			return nil, fmt.Errorf("invalid workspace pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			if isMemberDir(repoDir, match) {
				target[filepath.Clean(match)] = true
			}
		}
	}

	dirs := make([]string, 0, len(included))
	for dir := range included {
		if !excluded[dir] {
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

func isMemberDir(repoDir, dir string) bool {
	if filepath.Clean(dir) == filepath.Clean(repoDir) {
		return false
	}
	rel, err := filepath.Rel(repoDir, dir)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == nodeModulesDir {
			return false
		}
	}
	info, err := os.Stat(filepath.Join(dir, ManifestFileName))
	return err == nil && !info.IsDir()
}

// WriteManifestFile persists the manifest of pkg, keeping the file mode.
func WriteManifestFile(ctx context.Context, pkg *entities.PackageInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := pkg.Manifest.Bytes()
	if err != nil {
		return fmt.Errorf("failed to encode manifest of %s: %w", pkg.Name, err)
	}

	mode := os.FileMode(manifestFileMode)
	if info, statErr := os.Stat(pkg.ManifestPath); statErr == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(statErr, os.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", pkg.ManifestPath, statErr)
	}

	if err = os.WriteFile(pkg.ManifestPath, data, mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", pkg.ManifestPath, err)
	}
	logger.Debugf("[workspace] Wrote %s", pkg.ManifestPath)
	return nil
}

package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/mod/semver"

	"github.com/rios0rios0/bumpsync/internal/domain/entities"
	"github.com/rios0rios0/bumpsync/internal/domain/repositories"
)

const (
	shortSHALength = 7
	botName        = "bumpsync[bot]"
	botEmail       = "bumpsync[bot]@users.noreply.github.com"
)

// GitRepository implements repositories.GitRepository on top of go-git.
// Tag listings are memoized for the lifetime of the instance, so one
// instance should be created per invocation.
type GitRepository struct {
	repo *gogit.Repository
	root string

	mu   sync.Mutex
	tags map[string][]entities.Tag // package name -> release tags
}

var _ repositories.GitRepository = (*GitRepository)(nil)

// NewGitRepository opens the working tree containing repoDir.
func NewGitRepository(repoDir string) (repositories.GitRepository, error) {
	repo, err := gogit.PlainOpenWithOptions(repoDir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", repoDir, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open worktree: %w", err)
	}

	root, err := canonicalPath(worktree.Filesystem.Root())
	if err != nil {
		return nil, err
	}
	return &GitRepository{repo: repo, root: root}, nil
}

// LatestTag returns the highest "<package>@<version>" tag.
func (r *GitRepository) LatestTag(ctx context.Context, packageName string) (*entities.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tags, err := r.loadTags()
	if err != nil {
		return nil, err
	}

	var latest *entities.Tag
	for i := range tags[packageName] {
		tag := tags[packageName][i]
		if latest == nil || semver.Compare("v"+tag.Version, "v"+latest.Version) > 0 {
			latest = &tag
		}
	}
	return latest, nil
}

func (r *GitRepository) loadTags() (map[string][]entities.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tags != nil {
		return r.tags, nil
	}

	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	tags := make(map[string][]entities.Tag)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		packageName, version, ok := splitReleaseTag(name)
		if !ok {
			return nil
		}
		hash, peelErr := r.tagCommit(ref)
		if peelErr != nil {
			logger.Warnf("[git] Failed to resolve tag %q: %v", name, peelErr)
			return nil
		}
		tags[packageName] = append(tags[packageName], entities.Tag{
			Name:    name,
			Version: version,
			SHA:     hash.String(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read tags: %w", err)
	}

	logger.Debugf("[git] Loaded release tags for %d packages", len(tags))
	r.tags = tags
	return tags, nil
}

// tagCommit returns the commit a tag points to. Annotated tags are peeled;
// lightweight tags reference the commit directly.
func (r *GitRepository) tagCommit(ref *plumbing.Reference) (plumbing.Hash, error) {
	tag, err := r.repo.TagObject(ref.Hash())
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return ref.Hash(), nil
	}
	if err != nil {
		return plumbing.ZeroHash, err
	}
	commit, err := tag.Commit()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return commit.Hash, nil
}

// splitReleaseTag parses "<package>@<version>"; scoped names keep their leading "@".
func splitReleaseTag(name string) (string, string, bool) {
	idx := strings.LastIndex(name, "@")
	if idx <= 0 {
		return "", "", false
	}
	packageName, version := name[:idx], name[idx+1:]
	if !semver.IsValid("v" + version) {
		return "", "", false
	}
	return packageName, version, true
}

// CommitsSince lists the commits touching pathScope that are not reachable
// from sinceSHA.
func (r *GitRepository) CommitsSince(
	ctx context.Context,
	sinceSHA, pathScope string,
) ([]entities.GitCommit, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	excluded, err := r.ancestors(ctx, sinceSHA)
	if err != nil {
		return nil, err
	}

	scope, err := r.relative(pathScope)
	if err != nil {
		return nil, err
	}

	opts := &gogit.LogOptions{From: head.Hash()}
	if scope != "" {
		opts.PathFilter = func(path string) bool { return inScope(path, scope) }
	}

	iter, err := r.repo.Log(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}
	defer iter.Close()

	var commits []entities.GitCommit
	err = iter.ForEach(func(commit *object.Commit) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if excluded[commit.Hash] {
			return nil
		}
		commits = append(commits, entities.GitCommit{
			SHA:     commit.Hash.String(),
			Author:  commit.Author.Name,
			Date:    commit.Author.When,
			Message: commit.Message,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk log: %w", err)
	}
	return commits, nil
}

// ancestors returns every commit reachable from sha, sha included.
func (r *GitRepository) ancestors(ctx context.Context, sha string) (map[plumbing.Hash]bool, error) {
	excluded := make(map[plumbing.Hash]bool)
	if sha == "" {
		return excluded, nil
	}

	iter, err := r.repo.Log(&gogit.LogOptions{From: plumbing.NewHash(sha)})
	if err != nil {
		return nil, fmt.Errorf("failed to read log from %s: %w", sha, err)
	}
	defer iter.Close()

	err = iter.ForEach(func(commit *object.Commit) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		excluded[commit.Hash] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk log from %s: %w", sha, err)
	}
	return excluded, nil
}

// FilesChangedSince diffs the tree of sinceSHA against HEAD.
func (r *GitRepository) FilesChangedSince(
	ctx context.Context,
	sinceSHA, pathScope string,
) ([]string, error) {
	headTree, err := r.headTree()
	if err != nil {
		return nil, err
	}

	var baseTree *object.Tree
	if sinceSHA != "" {
		baseCommit, commitErr := r.repo.CommitObject(plumbing.NewHash(sinceSHA))
		if commitErr != nil {
			return nil, fmt.Errorf("failed to read commit %s: %w", sinceSHA, commitErr)
		}
		if baseTree, err = baseCommit.Tree(); err != nil {
			return nil, fmt.Errorf("failed to read tree of %s: %w", sinceSHA, err)
		}
	}

	scope, err := r.relative(pathScope)
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTreeWithOptions(ctx, baseTree, headTree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to diff trees: %w", err)
	}

	var files []string
	for _, change := range changes {
		name := change.To.Name
		if name == "" {
			name = change.From.Name
		}
		if scope == "" || inScope(name, scope) {
			files = append(files, name)
		}
	}
	sort.Strings(files)
	return files, nil
}

func (r *GitRepository) headTree() (*object.Tree, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD commit: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD tree: %w", err)
	}
	return tree, nil
}

// ShortSHA returns the abbreviated hash of HEAD.
func (r *GitRepository) ShortSHA(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return head.Hash().String()[:shortSHALength], nil
}

// CommitFiles stages paths and creates a commit, falling back to a bot
// identity when no user is configured.
func (r *GitRepository) CommitFiles(ctx context.Context, paths []string, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	worktree, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to open worktree: %w", err)
	}

	for _, path := range paths {
		rel, relErr := r.relative(path)
		if relErr != nil {
			return "", relErr
		}
		if _, addErr := worktree.Add(rel); addErr != nil {
			return "", fmt.Errorf("failed to stage %s: %w", rel, addErr)
		}
	}

	hash, err := worktree.Commit(message, &gogit.CommitOptions{Author: r.signature()})
	if err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	logger.Infof("[git] Created commit %s", hash.String()[:shortSHALength])
	return hash.String(), nil
}

func (r *GitRepository) signature() *object.Signature {
	name, email := botName, botEmail
	if cfg, err := r.repo.ConfigScoped(config.GlobalScope); err == nil {
		if cfg.User.Name != "" {
			name = cfg.User.Name
		}
		if cfg.User.Email != "" {
			email = cfg.User.Email
		}
	}
	return &object.Signature{Name: name, Email: email, When: time.Now()}
}

// CreateTag creates a lightweight tag on HEAD.
func (r *GitRepository) CreateTag(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	if _, err = r.repo.CreateTag(name, head.Hash(), nil); err != nil {
		if errors.Is(err, gogit.ErrTagExists) {
			return fmt.Errorf("tag %q already exists: %w", name, err)
		}
		return fmt.Errorf("failed to create tag %q: %w", name, err)
	}

	r.mu.Lock()
	r.tags = nil
	r.mu.Unlock()

	logger.Infof("[git] Created tag %s", name)
	return nil
}

// relative converts an absolute path into a slash-separated path relative
// to the working tree root; the root itself maps to "".
func (r *GitRepository) relative(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	canonical, err := canonicalPath(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(r.root, canonical)
	if err != nil {
		return "", fmt.Errorf("path %s is outside the repository: %w", path, err)
	}
	if strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("path %s is outside the repository %s", path, r.root)
	}
	if rel == "." {
		return "", nil
	}
	return filepath.ToSlash(rel), nil
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %s: %w", path, err)
	}
	if resolved, evalErr := filepath.EvalSymlinks(abs); evalErr == nil {
		return resolved, nil
	}
	return abs, nil
}

func inScope(path, scope string) bool {
	return path == scope || strings.HasPrefix(path, scope+"/")
}

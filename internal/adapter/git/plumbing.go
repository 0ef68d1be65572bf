package git

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	goGit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Client exposes the git plumbing primitives the resolvers depend on.
// Local ref inspection goes through go-git; fetches and merge-base shell
// out to the git binary, which is the only implementation of shallow
// fetches into arbitrary local ref names.
type Client struct {
	repoDir string
}

// NewClient constructs a plumbing client for the provided repository
// directory.
func NewClient(repoDir string) *Client {
	return &Client{repoDir: repoDir}
}

func (c *Client) open() (*goGit.Repository, error) {
	repo, err := goGit.PlainOpenWithOptions(c.repoDir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repo: %w", err)
	}
	return repo, nil
}

// FetchFromURL performs a shallow fetch of the given refspecs from url.
// Refspecs take the "remote:local" form so callers control the local ref
// name. Fails on unreachable URLs and unknown remote refs.
func (c *Client) FetchFromURL(ctx context.Context, url string, refspecs []string, depth int) error {
	args := []string{"fetch", "--no-tags", "--depth", strconv.Itoa(depth), url}
	args = append(args, refspecs...)
	if _, err := runGitCommand(ctx, c.repoDir, args...); err != nil {
		return err
	}
	return nil
}

// RefExistsAny reports whether rev resolves to a commit locally, accepting
// any revision kind: branch, tag, SHA, or rev expression.
func (c *Client) RefExistsAny(ctx context.Context, rev string) bool {
	repo, err := c.open()
	if err != nil {
		return false
	}
	candidates := []string{
		rev,
		fmt.Sprintf("refs/heads/%s", rev),
		fmt.Sprintf("refs/tags/%s", rev),
		fmt.Sprintf("refs/remotes/origin/%s", rev),
	}
	for _, candidate := range candidates {
		if _, err := repo.ResolveRevision(plumbing.Revision(candidate)); err == nil {
			return true
		}
	}
	return false
}

// MergeBase returns the most recent common ancestor of a and b, or an
// error when none exists in the locally available history.
func (c *Client) MergeBase(ctx context.Context, a, b string) (string, error) {
	out, err := runGitCommand(ctx, c.repoDir, "merge-base", a, b)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// DeleteRefs removes the given fully qualified refs. Deletion is per-ref
// best-effort: a missing ref is not an error and one failure never blocks
// the rest. Errors are discarded by contract.
func (c *Client) DeleteRefs(ctx context.Context, refs []string) {
	repo, err := c.open()
	if err != nil {
		return
	}
	for _, ref := range refs {
		_ = repo.Storer.RemoveReference(plumbing.ReferenceName(ref))
	}
}

// Remotes lists the configured remote names with "origin" sorted first so
// default-branch discovery is deterministic.
func (c *Client) Remotes(ctx context.Context) ([]string, error) {
	repo, err := c.open()
	if err != nil {
		return nil, err
	}
	remotes, err := repo.Remotes()
	if err != nil {
		return nil, fmt.Errorf("list remotes: %w", err)
	}
	names := make([]string, 0, len(remotes))
	for _, r := range remotes {
		names = append(names, r.Config().Name)
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i] == "origin" {
			return true
		}
		if names[j] == "origin" {
			return false
		}
		return names[i] < names[j]
	})
	return names, nil
}

// RemoteHeadRef returns the remote's symbolic HEAD target as a local
// tracking ref, e.g. "refs/remotes/origin/main". No network traffic; the
// symref is only present when the remote was cloned or explicitly set.
func (c *Client) RemoteHeadRef(ctx context.Context, remote string) (string, error) {
	out, err := runGitCommand(ctx, c.repoDir, "symbolic-ref", fmt.Sprintf("refs/remotes/%s/HEAD", remote))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// IsWorktreeClean reports whether the working tree has no uncommitted
// changes.
func (c *Client) IsWorktreeClean(ctx context.Context) (bool, error) {
	out, err := runGitCommand(ctx, c.repoDir, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) == "", nil
}

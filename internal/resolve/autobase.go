package resolve

import (
	"context"
	"fmt"

	"github.com/diffx-dev/diffx/internal/domain"
)

// conventionalBranches are the default-branch names probed, in order, when
// no remote advertises a symbolic HEAD.
var conventionalBranches = []string{"main", "master", "develop", "trunk"}

// ResolveAutoBase discovers a default branch and diffs from its merge base
// with HEAD. Used when the caller supplies no explicit target and the
// worktree is clean. Discovery order: each remote's symbolic HEAD (origin
// first), then conventional names per remote, then conventional local
// branches.
func (r *Resolver) ResolveAutoBase(ctx context.Context) (domain.ResolvedRefs, error) {
	defaultBranch := r.discoverDefaultBranch(ctx)
	if defaultBranch == "" {
		return domain.ResolvedRefs{}, domain.NewInvalidInput(
			"no default branch found; pass an explicit range such as %q", "main..HEAD")
	}

	base, err := r.plumbing.MergeBase(ctx, defaultBranch, "HEAD")
	if err != nil {
		return domain.ResolvedRefs{}, domain.NewInvalidInput(
			"no merge base between %s and HEAD; pass an explicit range such as %q",
			defaultBranch, defaultBranch+"..HEAD")
	}
	r.log.Debug().Str("default_branch", defaultBranch).Str("base", base).Msg("auto-base resolved")
	return domain.ResolvedRefs{Left: base, Right: "HEAD"}, nil
}

func (r *Resolver) discoverDefaultBranch(ctx context.Context) string {
	remotes, err := r.plumbing.Remotes(ctx)
	if err != nil {
		remotes = nil
	}

	for _, remote := range remotes {
		head, err := r.plumbing.RemoteHeadRef(ctx, remote)
		if err != nil || head == "" {
			continue
		}
		if r.plumbing.RefExistsAny(ctx, head) {
			return head
		}
	}

	for _, remote := range remotes {
		for _, name := range conventionalBranches {
			ref := fmt.Sprintf("refs/remotes/%s/%s", remote, name)
			if r.plumbing.RefExistsAny(ctx, ref) {
				return ref
			}
		}
	}

	for _, name := range conventionalBranches {
		if r.plumbing.RefExistsAny(ctx, "refs/heads/"+name) {
			return name
		}
	}
	return ""
}

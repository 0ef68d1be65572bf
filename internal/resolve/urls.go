package resolve

import (
	"context"
	"fmt"
	"regexp"

	"github.com/diffx-dev/diffx/internal/domain"
)

var hexShaRe = regexp.MustCompile(`^[0-9a-fA-F]{7,40}$`)

// resolveCommitURL fetches a single commit deep enough to keep its parent
// and diffs commit^ against the commit.
func (r *Resolver) resolveCommitURL(ctx context.Context, rr domain.RefRange) (domain.ResolvedRefs, error) {
	url := fmt.Sprintf("https://github.com/%s.git", rr.OwnerRepo)
	prefix, err := r.allocPrefix()
	if err != nil {
		return domain.ResolvedRefs{}, err
	}
	local := prefix + "/commit/" + rr.CommitSHA
	r.log.Debug().Str("url", url).Str("sha", rr.CommitSHA).Msg("fetching commit")
	if err := r.plumbing.FetchFromURL(ctx, url, []string{rr.CommitSHA + ":" + local}, r.fetchDepth); err != nil {
		return domain.ResolvedRefs{}, domain.NewGitError(err, "fetch commit %s from %s", rr.CommitSHA, url)
	}
	return domain.ResolvedRefs{
		Left:    local + "^",
		Right:   local,
		Cleanup: r.cleanupFor(local),
	}, nil
}

// resolvePRChanges fetches the two caller-supplied SHAs verbatim. No
// merge-base computation: the changes URL already names the exact
// endpoints the host rendered.
func (r *Resolver) resolvePRChanges(ctx context.Context, rr domain.RefRange) (domain.ResolvedRefs, error) {
	url := fmt.Sprintf("https://github.com/%s.git", rr.OwnerRepo)
	prefix, err := r.allocPrefix()
	if err != nil {
		return domain.ResolvedRefs{}, err
	}
	leftLocal := prefix + "/changes/" + rr.LeftCommitSHA
	rightLocal := prefix + "/changes/" + rr.RightCommitSHA

	if err := r.plumbing.FetchFromURL(ctx, url, []string{rr.LeftCommitSHA + ":" + leftLocal}, r.fetchDepth); err != nil {
		return domain.ResolvedRefs{}, domain.NewGitError(err, "fetch commit %s from %s", rr.LeftCommitSHA, url)
	}
	if err := r.plumbing.FetchFromURL(ctx, url, []string{rr.RightCommitSHA + ":" + rightLocal}, r.fetchDepth); err != nil {
		r.plumbing.DeleteRefs(ctx, []string{leftLocal})
		return domain.ResolvedRefs{}, domain.NewGitError(err, "fetch commit %s from %s", rr.RightCommitSHA, url)
	}
	return domain.ResolvedRefs{
		Left:    leftLocal,
		Right:   rightLocal,
		Cleanup: r.cleanupFor(leftLocal, rightLocal),
	}, nil
}

// fetchCompareRef fetches one compare endpoint. Hex tokens are fetched as
// SHAs; anything else tries refs/heads/<ref> then refs/tags/<ref>,
// stopping at the first refspec the remote accepts. The winning refspec is
// returned so the deepening retry can re-fetch the same thing.
func (r *Resolver) fetchCompareRef(ctx context.Context, url, ref, local string) (string, error) {
	var candidates []string
	if hexShaRe.MatchString(ref) {
		candidates = []string{ref + ":" + local}
	} else {
		candidates = []string{
			"refs/heads/" + ref + ":" + local,
			"refs/tags/" + ref + ":" + local,
		}
	}
	var lastErr error
	for _, spec := range candidates {
		if err := r.plumbing.FetchFromURL(ctx, url, []string{spec}, r.fetchDepth); err != nil {
			lastErr = err
			continue
		}
		return spec, nil
	}
	return "", domain.NewGitError(lastErr, "fetch %q from %s", ref, url)
}

// resolveCompareURL reproduces GitHub's three-dot compare view: the left
// endpoint is the merge base, not the left ref itself. The right side may
// live in a fork. A missing merge base triggers exactly one deepening
// re-fetch of both winning refspecs before giving up.
func (r *Resolver) resolveCompareURL(ctx context.Context, rr domain.RefRange) (domain.ResolvedRefs, error) {
	leftURL := fmt.Sprintf("https://github.com/%s.git", rr.OwnerRepo)
	rightRepo := rr.RightOwnerRepo
	if rightRepo == "" {
		rightRepo = rr.OwnerRepo
	}
	rightURL := fmt.Sprintf("https://github.com/%s.git", rightRepo)

	prefix, err := r.allocPrefix()
	if err != nil {
		return domain.ResolvedRefs{}, err
	}
	leftLocal := prefix + "/compare/left"
	rightLocal := prefix + "/compare/right"

	leftSpec, err := r.fetchCompareRef(ctx, leftURL, rr.LeftRef, leftLocal)
	if err != nil {
		return domain.ResolvedRefs{}, err
	}
	rightSpec, err := r.fetchCompareRef(ctx, rightURL, rr.RightRef, rightLocal)
	if err != nil {
		r.plumbing.DeleteRefs(ctx, []string{leftLocal})
		return domain.ResolvedRefs{}, err
	}

	base, err := r.plumbing.MergeBase(ctx, leftLocal, rightLocal)
	if err != nil {
		r.log.Debug().Int("depth", r.deepenDepth).Msg("merge base missing, deepening fetch")
		if derr := r.plumbing.FetchFromURL(ctx, leftURL, []string{leftSpec}, r.deepenDepth); derr != nil {
			r.plumbing.DeleteRefs(ctx, []string{leftLocal, rightLocal})
			return domain.ResolvedRefs{}, domain.NewGitError(derr, "deepen fetch %q from %s", rr.LeftRef, leftURL)
		}
		if derr := r.plumbing.FetchFromURL(ctx, rightURL, []string{rightSpec}, r.deepenDepth); derr != nil {
			r.plumbing.DeleteRefs(ctx, []string{leftLocal, rightLocal})
			return domain.ResolvedRefs{}, domain.NewGitError(derr, "deepen fetch %q from %s", rr.RightRef, rightURL)
		}
		base, err = r.plumbing.MergeBase(ctx, leftLocal, rightLocal)
		if err != nil {
			r.plumbing.DeleteRefs(ctx, []string{leftLocal, rightLocal})
			return domain.ResolvedRefs{}, domain.NewGitError(err,
				"no merge base between %q and %q within depth %d; unshallow the fetch manually to compare older history",
				rr.LeftRef, rr.RightRef, r.deepenDepth)
		}
	}

	return domain.ResolvedRefs{
		Left:    base,
		Right:   rightLocal,
		Cleanup: r.cleanupFor(leftLocal, rightLocal),
	}, nil
}

package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/diffx-dev/diffx/internal/domain"
)

// fetchPullRefs fetches a pull/merge request's head and merge refs into
// localBase, mirroring the remote ref path, and returns the local names.
// Depth 2 retains the merge commit's parents so merge^1 stays resolvable.
func (r *Resolver) fetchPullRefs(ctx context.Context, url, remoteBase, localBase string) (head, merge string, err error) {
	remoteHead := remoteBase + "/head"
	remoteMerge := remoteBase + "/merge"
	head = localBase + strings.TrimPrefix(remoteHead, "refs")
	merge = localBase + strings.TrimPrefix(remoteMerge, "refs")
	refspecs := []string{
		remoteHead + ":" + head,
		remoteMerge + ":" + merge,
	}
	r.log.Debug().Str("url", url).Strs("refspecs", refspecs).Msg("fetching pull request refs")
	if err := r.plumbing.FetchFromURL(ctx, url, refspecs, r.fetchDepth); err != nil {
		return "", "", domain.NewGitError(err, "fetch %s from %s", remoteBase, url)
	}
	return head, merge, nil
}

// resolvePullRequest handles pr-ref and github-url targets. The endpoints
// reproduce the host's "changes" view: merge^1 is the base as of the last
// merge-ref computation, which can differ from the branch's current tip.
func (r *Resolver) resolvePullRequest(ctx context.Context, rr domain.RefRange) (domain.ResolvedRefs, error) {
	url := fmt.Sprintf("https://github.com/%s.git", rr.OwnerRepo)
	prefix, err := r.allocPrefix()
	if err != nil {
		return domain.ResolvedRefs{}, err
	}
	remoteBase := fmt.Sprintf("refs/pull/%d", rr.PRNumber)
	head, merge, err := r.fetchPullRefs(ctx, url, remoteBase, prefix)
	if err != nil {
		return domain.ResolvedRefs{}, err
	}
	return domain.ResolvedRefs{
		Left:    merge + "^1",
		Right:   merge,
		Cleanup: r.cleanupFor(head, merge),
	}, nil
}

// resolveMergeRequest is the GitLab counterpart of resolvePullRequest.
func (r *Resolver) resolveMergeRequest(ctx context.Context, rr domain.RefRange) (domain.ResolvedRefs, error) {
	url := fmt.Sprintf("https://gitlab.com/%s.git", rr.OwnerRepo)
	prefix, err := r.allocPrefix()
	if err != nil {
		return domain.ResolvedRefs{}, err
	}
	remoteBase := fmt.Sprintf("refs/merge-requests/%d", rr.PRNumber)
	head, merge, err := r.fetchPullRefs(ctx, url, remoteBase, prefix)
	if err != nil {
		return domain.ResolvedRefs{}, err
	}
	return domain.ResolvedRefs{
		Left:    merge + "^1",
		Right:   merge,
		Cleanup: r.cleanupFor(head, merge),
	}, nil
}

// resolvePRRange diffs the head refs of two pull requests directly. Each
// side fetches independently under its own sub-prefix so same-numbered PRs
// from different repositories cannot collide.
func (r *Resolver) resolvePRRange(ctx context.Context, rr domain.RefRange) (domain.ResolvedRefs, error) {
	prefix, err := r.allocPrefix()
	if err != nil {
		return domain.ResolvedRefs{}, err
	}

	var heads [2]string
	var temps []string
	sides := []struct {
		label string
		pr    domain.PRSpec
	}{
		{"left", rr.LeftPR},
		{"right", rr.RightPR},
	}
	for i, side := range sides {
		url := fmt.Sprintf("https://github.com/%s.git", side.pr.OwnerRepo)
		remoteBase := fmt.Sprintf("refs/pull/%d", side.pr.Number)
		head, merge, err := r.fetchPullRefs(ctx, url, remoteBase, prefix+"/"+side.label)
		if err != nil {
			if len(temps) > 0 {
				r.plumbing.DeleteRefs(ctx, temps)
			}
			return domain.ResolvedRefs{}, err
		}
		heads[i] = head
		temps = append(temps, head, merge)
	}

	return domain.ResolvedRefs{
		Left:    heads[0],
		Right:   heads[1],
		Cleanup: r.cleanupFor(temps...),
	}, nil
}

// Package resolve turns a parsed domain.RefRange into two locally diffable
// revisions. Remote variants stage fetched commits under a unique temp ref
// prefix and hand back a cleanup that deletes exactly the refs they
// created. Resolution is fail-fast: the only retry anywhere is the single
// merge-base deepening step in compare-URL resolution.
package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/diffx-dev/diffx/internal/domain"
	"github.com/diffx-dev/diffx/internal/tmpref"
)

const (
	// rangeFetchDepth is enough for ranges whose endpoints are diffed
	// directly without ancestry walks.
	rangeFetchDepth = 1

	// DefaultFetchDepth keeps a fetched commit's parents available, which
	// PR merge refs and commit URLs need.
	DefaultFetchDepth = 2

	// DeepenFetchDepth is the one-shot deepening applied when a merge base
	// is missing from shallow history. The value is heuristic: histories
	// that diverged more than this many commits ago can still fail.
	DeepenFetchDepth = 200
)

// Plumbing is the git client contract the resolvers consume.
type Plumbing interface {
	// FetchFromURL fetches refspecs from url at the given depth.
	FetchFromURL(ctx context.Context, url string, refspecs []string, depth int) error
	// RefExistsAny probes whether rev resolves locally, any ref kind.
	RefExistsAny(ctx context.Context, rev string) bool
	// MergeBase returns the common ancestor of a and b, erroring when the
	// available history has none.
	MergeBase(ctx context.Context, a, b string) (string, error)
	// DeleteRefs removes refs best-effort and never fails.
	DeleteRefs(ctx context.Context, refs []string)
	// Remotes lists remote names, "origin" first.
	Remotes(ctx context.Context) ([]string, error)
	// RemoteHeadRef returns a remote's symbolic HEAD as a tracking ref.
	RemoteHeadRef(ctx context.Context, remote string) (string, error)
}

// Options tunes a Resolver. Zero values select the defaults.
type Options struct {
	Logger      *zerolog.Logger
	FetchDepth  int
	DeepenDepth int
}

type resolveFunc func(ctx context.Context, rr domain.RefRange) (domain.ResolvedRefs, error)

// Resolver dispatches each RefRange variant to its resolution strategy.
type Resolver struct {
	plumbing    Plumbing
	alloc       *tmpref.Allocator
	log         zerolog.Logger
	fetchDepth  int
	deepenDepth int
	handlers    map[domain.RangeKind]resolveFunc
}

// New constructs a Resolver around the given plumbing client and temp ref
// allocator.
func New(p Plumbing, alloc *tmpref.Allocator, opts Options) *Resolver {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	r := &Resolver{
		plumbing:    p,
		alloc:       alloc,
		log:         log,
		fetchDepth:  opts.FetchDepth,
		deepenDepth: opts.DeepenDepth,
	}
	if r.fetchDepth <= 0 {
		r.fetchDepth = DefaultFetchDepth
	}
	if r.deepenDepth <= 0 {
		r.deepenDepth = DeepenFetchDepth
	}
	r.handlers = map[domain.RangeKind]resolveFunc{
		domain.RangeLocal:            r.resolveLocal,
		domain.RangeRemote:           r.resolveRemote,
		domain.RangeGitURL:           r.resolveGitURL,
		domain.RangePRRef:            r.resolvePullRequest,
		domain.RangeGitHubURL:        r.resolvePullRequest,
		domain.RangePRRange:          r.resolvePRRange,
		domain.RangeGitHubCommitURL:  r.resolveCommitURL,
		domain.RangeGitHubPRChanges:  r.resolvePRChanges,
		domain.RangeGitHubCompareURL: r.resolveCompareURL,
		domain.RangeGitLabMRRef:      r.resolveMergeRequest,
	}
	return r
}

// Resolve is the single dispatch site mapping a RefRange tag to its
// resolver.
func (r *Resolver) Resolve(ctx context.Context, rr domain.RefRange) (domain.ResolvedRefs, error) {
	handler, ok := r.handlers[rr.Kind]
	if !ok {
		return domain.ResolvedRefs{}, domain.NewInvalidInput("unknown range kind %q", rr.Kind)
	}
	return handler(ctx, rr)
}

// cleanupFor builds the idempotent cleanup deleting exactly the named temp
// refs. The second call is a no-op, deletion failures are discarded by the
// plumbing contract and nothing ever panics through it.
func (r *Resolver) cleanupFor(refs ...string) domain.CleanupFunc {
	done := false
	return func(ctx context.Context) {
		defer func() { _ = recover() }()
		if done {
			return
		}
		done = true
		r.log.Debug().Strs("refs", refs).Msg("deleting temp refs")
		r.plumbing.DeleteRefs(ctx, refs)
	}
}

func (r *Resolver) allocPrefix() (string, error) {
	prefix, err := r.alloc.Prefix()
	if err != nil {
		return "", domain.NewGitError(err, "allocate temp ref namespace")
	}
	return prefix, nil
}

// stripLocalPrefix drops an explicit refs/heads/ or refs/tags/ qualifier.
func stripLocalPrefix(rev string) string {
	for _, prefix := range []string{"refs/heads/", "refs/tags/"} {
		if rest, ok := strings.CutPrefix(rev, prefix); ok {
			return rest
		}
	}
	return rev
}

// resolveLocal checks both sides exist as any local revision kind. No
// network, no temp refs, no cleanup.
func (r *Resolver) resolveLocal(ctx context.Context, rr domain.RefRange) (domain.ResolvedRefs, error) {
	left := stripLocalPrefix(rr.Left)
	right := stripLocalPrefix(rr.Right)
	if !r.plumbing.RefExistsAny(ctx, left) {
		return domain.ResolvedRefs{}, domain.NewInvalidInput("left revision %q not found in this repository", left)
	}
	if !r.plumbing.RefExistsAny(ctx, right) {
		return domain.ResolvedRefs{}, domain.NewInvalidInput("right revision %q not found in this repository", right)
	}
	return domain.ResolvedRefs{Left: left, Right: right}, nil
}

// resolveRemote fetches both sides of owner/repo@left..right from the
// canonical HTTPS URL in one shallow call.
func (r *Resolver) resolveRemote(ctx context.Context, rr domain.RefRange) (domain.ResolvedRefs, error) {
	if rr.RightOwnerRepo != "" && rr.RightOwnerRepo != rr.OwnerRepo {
		return domain.ResolvedRefs{}, domain.NewInvalidInput(
			"remote range must use the same owner/repo on both sides, got %q and %q",
			rr.OwnerRepo, rr.RightOwnerRepo)
	}
	url := fmt.Sprintf("https://%s/%s.git", rr.Host, rr.OwnerRepo)
	prefix, err := r.allocPrefix()
	if err != nil {
		return domain.ResolvedRefs{}, err
	}
	leftRef := prefix + "/left"
	rightRef := prefix + "/right"
	refspecs := []string{
		rr.Left + ":" + leftRef,
		rr.Right + ":" + rightRef,
	}
	r.log.Debug().Str("url", url).Strs("refspecs", refspecs).Msg("fetching remote range")
	if err := r.plumbing.FetchFromURL(ctx, url, refspecs, rangeFetchDepth); err != nil {
		return domain.ResolvedRefs{}, domain.NewGitError(err, "fetch %s..%s from %s", rr.Left, rr.Right, url)
	}
	return domain.ResolvedRefs{
		Left:    leftRef,
		Right:   rightRef,
		Cleanup: r.cleanupFor(leftRef, rightRef),
	}, nil
}

// resolveGitURL handles arbitrary clone URLs. Sides sharing one URL are
// fetched in a single network call.
func (r *Resolver) resolveGitURL(ctx context.Context, rr domain.RefRange) (domain.ResolvedRefs, error) {
	prefix, err := r.allocPrefix()
	if err != nil {
		return domain.ResolvedRefs{}, err
	}
	leftRef := prefix + "/left"
	rightRef := prefix + "/right"

	if rr.LeftGitURL == rr.RightGitURL {
		refspecs := []string{rr.Left + ":" + leftRef, rr.Right + ":" + rightRef}
		r.log.Debug().Str("url", rr.LeftGitURL).Strs("refspecs", refspecs).Msg("fetching git url range")
		if err := r.plumbing.FetchFromURL(ctx, rr.LeftGitURL, refspecs, rangeFetchDepth); err != nil {
			return domain.ResolvedRefs{}, domain.NewGitError(err, "fetch %s..%s from %s", rr.Left, rr.Right, rr.LeftGitURL)
		}
	} else {
		if err := r.plumbing.FetchFromURL(ctx, rr.LeftGitURL, []string{rr.Left + ":" + leftRef}, rangeFetchDepth); err != nil {
			return domain.ResolvedRefs{}, domain.NewGitError(err, "fetch %s from %s", rr.Left, rr.LeftGitURL)
		}
		if err := r.plumbing.FetchFromURL(ctx, rr.RightGitURL, []string{rr.Right + ":" + rightRef}, rangeFetchDepth); err != nil {
			r.plumbing.DeleteRefs(ctx, []string{leftRef})
			return domain.ResolvedRefs{}, domain.NewGitError(err, "fetch %s from %s", rr.Right, rr.RightGitURL)
		}
	}
	return domain.ResolvedRefs{
		Left:    leftRef,
		Right:   rightRef,
		Cleanup: r.cleanupFor(leftRef, rightRef),
	}, nil
}

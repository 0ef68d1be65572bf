// Package target orchestrates one diff target from raw string to rendered
// diff text: parse, resolve, verify, diff, and always release temporary
// refs afterwards.
package target

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/diffx-dev/diffx/internal/domain"
)

// RangeResolver turns a parsed RefRange into two diffable revisions.
type RangeResolver interface {
	Resolve(ctx context.Context, rr domain.RefRange) (domain.ResolvedRefs, error)
	ResolveAutoBase(ctx context.Context) (domain.ResolvedRefs, error)
}

// Differ renders diff text for two resolved revisions.
type Differ interface {
	Diff(ctx context.Context, left, right string, opts domain.DiffOptions) (string, error)
	DiffWorktree(ctx context.Context, opts domain.DiffOptions) (string, error)
}

// Prober answers local repository state questions.
type Prober interface {
	RefExistsAny(ctx context.Context, rev string) bool
	IsWorktreeClean(ctx context.Context) (bool, error)
}

// ParseFunc matches rangeparse.Parse.
type ParseFunc func(target string) (domain.RefRange, error)

// Service wires the parse→resolve→diff pipeline.
type Service struct {
	parse    ParseFunc
	resolver RangeResolver
	differ   Differ
	prober   Prober
	log      zerolog.Logger
}

// NewService constructs the orchestrator.
func NewService(parse ParseFunc, resolver RangeResolver, differ Differ, prober Prober, log zerolog.Logger) *Service {
	return &Service{parse: parse, resolver: resolver, differ: differ, prober: prober, log: log}
}

// Show resolves rawTarget and returns the rendered diff. An empty target
// picks the default behavior: a worktree diff when there are uncommitted
// changes, otherwise an auto-base diff against the default branch.
//
// When resolution staged temporary refs, their cleanup runs exactly once
// before Show returns, on the success and the failure path alike.
func (s *Service) Show(ctx context.Context, rawTarget string, opts domain.DiffOptions) (string, error) {
	if strings.TrimSpace(rawTarget) == "" {
		return s.showDefault(ctx, opts)
	}

	rr, err := s.parse(rawTarget)
	if err != nil {
		return "", err
	}
	s.log.Debug().Str("target", rawTarget).Str("kind", string(rr.Kind)).Msg("parsed diff target")

	refs, err := s.resolver.Resolve(ctx, rr)
	if err != nil {
		return "", err
	}
	if refs.Cleanup != nil {
		defer refs.Cleanup(ctx)
	}

	if err := s.verify(ctx, refs); err != nil {
		return "", err
	}
	return s.diff(ctx, refs, opts)
}

func (s *Service) showDefault(ctx context.Context, opts domain.DiffOptions) (string, error) {
	clean, err := s.prober.IsWorktreeClean(ctx)
	if err != nil {
		return "", domain.NewGitError(err, "inspect worktree state")
	}
	if !clean {
		s.log.Debug().Msg("worktree dirty, diffing against HEAD")
		out, err := s.differ.DiffWorktree(ctx, opts)
		if err != nil {
			return "", domain.NewGitError(err, "diff working tree")
		}
		return out, nil
	}

	refs, err := s.resolver.ResolveAutoBase(ctx)
	if err != nil {
		return "", err
	}
	if refs.Cleanup != nil {
		defer refs.Cleanup(ctx)
	}
	if err := s.verify(ctx, refs); err != nil {
		return "", err
	}
	return s.diff(ctx, refs, opts)
}

func (s *Service) diff(ctx context.Context, refs domain.ResolvedRefs, opts domain.DiffOptions) (string, error) {
	out, err := s.differ.Diff(ctx, refs.Left, refs.Right, opts)
	if err != nil {
		return "", domain.NewGitError(err, "diff %s against %s", refs.Left, refs.Right)
	}
	return out, nil
}

// verify enforces the ResolvedRefs invariant: both endpoints must resolve
// to commits before they are handed to the diff engine.
func (s *Service) verify(ctx context.Context, refs domain.ResolvedRefs) error {
	for _, rev := range []string{refs.Left, refs.Right} {
		if !s.prober.RefExistsAny(ctx, rev) {
			return domain.NewGitError(nil, "resolved revision %q does not exist locally", rev)
		}
	}
	return nil
}

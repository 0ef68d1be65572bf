package domain

import "context"

// CleanupFunc releases the temporary refs a resolver created. It is
// idempotent, never returns an error and never panics; deletion failures
// are discarded because stale temp refs are harmless clutter.
type CleanupFunc func(ctx context.Context)

// ResolvedRefs is a pair of revisions ready to hand to the diff engine.
// Both Left and Right must independently resolve to commits before use.
// When Cleanup is non-nil the consumer must invoke it exactly once after
// diff generation, on both the success and the failure path.
type ResolvedRefs struct {
	Left    string
	Right   string
	Cleanup CleanupFunc
}

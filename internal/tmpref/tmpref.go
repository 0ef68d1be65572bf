// Package tmpref generates collision-resistant temporary ref namespaces.
// Refs created under a prefix never overlap caller-visible branches or tags
// and are scoped to a single invocation: the resolver that allocates a
// prefix owns every ref beneath it and deletes them in its cleanup.
package tmpref

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"time"
)

// Namespace is the root all temporary refs live under.
const Namespace = "refs/diffx/tmp"

// Allocator produces unique ref prefixes. The clock and entropy source are
// explicit inputs so allocation is deterministic under test; New wires the
// real ones.
type Allocator struct {
	Now  func() time.Time
	Rand io.Reader
}

// New returns an Allocator backed by the system clock and crypto/rand.
func New() *Allocator {
	return &Allocator{Now: time.Now, Rand: rand.Reader}
}

// Prefix returns a fresh "refs/diffx/tmp/<base36-time>-<16-hex-random>"
// namespace. Concurrent invocations against the same repository rely
// entirely on this uniqueness; there is no other coordination.
func (a *Allocator) Prefix() (string, error) {
	buf := make([]byte, 8)
	if _, err := io.ReadFull(a.Rand, buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	stamp := strconv.FormatInt(a.Now().Unix(), 36)
	return fmt.Sprintf("%s/%s-%s", Namespace, stamp, hex.EncodeToString(buf)), nil
}

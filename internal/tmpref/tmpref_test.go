package tmpref_test

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/diffx-dev/diffx/internal/tmpref"
)

func fixedAllocator(unix int64, entropy []byte) *tmpref.Allocator {
	return &tmpref.Allocator{
		Now:  func() time.Time { return time.Unix(unix, 0) },
		Rand: bytes.NewReader(entropy),
	}
}

func TestPrefix_DeterministicUnderFixedInputs(t *testing.T) {
	entropy := []byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x11, 0x22, 0x33}
	a := fixedAllocator(1700000000, entropy)

	got, err := a.Prefix()
	if err != nil {
		t.Fatalf("Prefix() error = %v", err)
	}
	want := "refs/diffx/tmp/" + strconv.FormatInt(1700000000, 36) + "-deadbeef00112233"
	if got != want {
		t.Errorf("Prefix() = %q, want %q", got, want)
	}
}

func TestPrefix_Shape(t *testing.T) {
	a := tmpref.New()
	got, err := a.Prefix()
	if err != nil {
		t.Fatalf("Prefix() error = %v", err)
	}
	shape := regexp.MustCompile(`^refs/diffx/tmp/[0-9a-z]+-[0-9a-f]{16}$`)
	if !shape.MatchString(got) {
		t.Errorf("Prefix() = %q does not match namespace shape", got)
	}
	if !strings.HasPrefix(got, tmpref.Namespace+"/") {
		t.Errorf("Prefix() = %q escapes %s", got, tmpref.Namespace)
	}
}

func TestPrefix_UniqueAcrossCalls(t *testing.T) {
	a := tmpref.New()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		p, err := a.Prefix()
		if err != nil {
			t.Fatalf("Prefix() error = %v", err)
		}
		if seen[p] {
			t.Fatalf("duplicate prefix %q", p)
		}
		seen[p] = true
	}
}

func TestPrefix_ExhaustedEntropyFails(t *testing.T) {
	a := fixedAllocator(1, []byte{0x01})
	if _, err := a.Prefix(); err == nil {
		t.Fatal("expected error from short entropy source")
	}
}

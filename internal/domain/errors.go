package domain

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes a resolution failure.
type ErrorKind int

const (
	// KindInvalidInput marks deterministic, caller-fixable failures:
	// unparseable targets, nonexistent local refs, malformed owner/repo.
	KindInvalidInput ErrorKind = iota

	// KindGit marks environment-dependent failures: unreachable remotes,
	// unknown remote refs, missing merge bases.
	KindGit
)

// String returns a human-readable description of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindGit:
		return "git error"
	default:
		return "unknown error"
	}
}

// Error is the typed failure surfaced by the parser and resolvers.
// Callers discriminate on Kind, never on message text.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying plumbing error, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements error equality for errors.Is, matching on Kind only.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidInput = &Error{Kind: KindInvalidInput}
	ErrGit          = &Error{Kind: KindGit}
)

// NewInvalidInput creates an InvalidInput error.
func NewInvalidInput(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// NewGitError creates a GitError wrapping the underlying plumbing failure.
// The cause's message is preserved verbatim for operator diagnosis.
func NewGitError(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindGit, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// IsInvalidInput reports whether err is an InvalidInput error.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsGitError reports whether err is a GitError.
func IsGitError(err error) bool {
	return errors.Is(err, ErrGit)
}

package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/diffx-dev/diffx/internal/domain"
)

// Engine produces diff text between two resolved revisions. It is the
// downstream consumer of a resolver's output and knows nothing about how
// the revisions were obtained.
type Engine struct {
	repoDir string
}

// NewEngine constructs a diff engine for the provided repository directory.
func NewEngine(repoDir string) *Engine {
	return &Engine{repoDir: repoDir}
}

func diffArgs(opts domain.DiffOptions) []string {
	args := []string{"diff"}
	if opts.Stat {
		args = append(args, "--stat")
	}
	if opts.NameOnly {
		args = append(args, "--name-only")
	}
	if opts.Unified >= 0 {
		args = append(args, "-U"+strconv.Itoa(opts.Unified))
	}
	if opts.Color {
		args = append(args, "--color=always")
	}
	return args
}

// Diff runs git diff between left and right and returns the output text.
func (e *Engine) Diff(ctx context.Context, left, right string, opts domain.DiffOptions) (string, error) {
	args := append(diffArgs(opts), left, right)
	return runGitCommand(ctx, e.repoDir, args...)
}

// DiffWorktree diffs the working tree against HEAD, staging untracked
// files as intent-to-add so they appear in the output.
func (e *Engine) DiffWorktree(ctx context.Context, opts domain.DiffOptions) (string, error) {
	if _, err := runGitCommand(ctx, e.repoDir, "add", "--intent-to-add", "--all"); err != nil {
		return "", err
	}
	args := append(diffArgs(opts), "HEAD")
	return runGitCommand(ctx, e.repoDir, args...)
}

func runGitCommand(ctx context.Context, repoDir string, args ...string) (string, error) {
	fullArgs := append([]string{"-C", repoDir}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("git %v: %w", args, ctx.Err())
		}
		if stderr.Len() > 0 {
			err = fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("git %v: %w", args, err)
	}
	return stdout.String(), nil
}

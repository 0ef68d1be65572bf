package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/diffx-dev/diffx/internal/domain"
)

// ErrVersionRequested indicates the user requested the CLI version and no further work should be done.
var ErrVersionRequested = errors.New("version requested")

// DiffShower defines the dependency required to render a diff target.
type DiffShower interface {
	Show(ctx context.Context, target string, opts domain.DiffOptions) (string, error)
}

// Arguments encapsulates IO writers injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	Shower       DiffShower
	Args         Arguments
	DefaultColor string // "auto", "always" or "never", from config
	Version      string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	var stat bool
	var nameOnly bool
	var unified int
	var noColor bool
	var showVersion bool

	root := &cobra.Command{
		Use:   "diffx [target]",
		Short: "Show a diff for branches, pull requests and forge URLs",
		Long: "diffx resolves a single diff target into two revisions and prints\n" +
			"their diff. Targets range from plain local ranges (main..feature)\n" +
			"over remote shorthands (github:owner/repo/a..b) to full pull request,\n" +
			"commit and compare URLs. With no target, diffx shows uncommitted\n" +
			"changes or, on a clean worktree, the diff against the default branch.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
				return ErrVersionRequested
			}

			target := ""
			if len(args) > 0 {
				target = args[0]
			}

			opts := domain.DiffOptions{
				Stat:     stat,
				NameOnly: nameOnly,
				Unified:  unified,
				Color:    resolveColor(deps.DefaultColor, noColor),
			}

			out, err := deps.Shower.Show(cmd.Context(), target, opts)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	root.Flags().BoolVar(&stat, "stat", false, "Show a diffstat instead of the patch")
	root.Flags().BoolVar(&nameOnly, "name-only", false, "Show only the names of changed files")
	root.Flags().IntVarP(&unified, "unified", "U", -1, "Number of context lines (-1 uses the git default)")
	root.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	root.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")

	return root
}

// resolveColor maps the configured color mode and the --no-color flag
// onto the boolean the diff engine expects. In auto mode color follows
// whether stdout is a terminal.
func resolveColor(mode string, noColor bool) bool {
	if noColor {
		return false
	}
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return isOutputTerminal()
	}
}

// ExitCode maps an execution error to the process exit status. Malformed
// targets exit 2 so scripts can tell them apart from git failures.
func ExitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, ErrVersionRequested):
		return 0
	case domain.IsInvalidInput(err):
		return 2
	default:
		return 1
	}
}

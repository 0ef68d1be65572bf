package cli

import (
	"os"

	"golang.org/x/term"
)

// isOutputTerminal reports whether stdout is a TTY. Color defaults to on
// only when a user is looking at the output directly, never when the diff
// is piped or redirected.
func isOutputTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

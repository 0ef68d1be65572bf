// Package rangeparse turns a free-form diff target string into a typed
// domain.RefRange. Each grammar has its own matcher; matchers are pure,
// all-or-nothing, and are tried in a fixed precedence order because the
// surface syntaxes overlap (a PR range also contains "..").
package rangeparse

import (
	"strings"

	"github.com/diffx-dev/diffx/internal/domain"
)

type matchFunc func(string) (domain.RefRange, bool)

type matcher struct {
	name  string
	match matchFunc
}

// matchers is the precedence order. First success wins, so the position of
// an entry is load-bearing: anything that can embed another grammar's
// syntax must come before it. Adding a format means deciding where it
// slots into this list, not just appending.
var matchers = []matcher{
	{"pr-range", matchPRRange},
	{"git-url-range", matchGitURLRange},
	{"github-compare-url", matchGitHubCompareURL},
	{"github-pr-changes-url", matchGitHubPRChangesURL},
	{"github-pr-url", matchGitHubPRURL},
	{"github-commit-url", matchGitHubCommitURL},
	{"github-shorthand-range", matchGitHubShorthand},
	{"gitlab-shorthand-range", matchGitLabShorthand},
	{"github-pr-ref", matchGitHubPRRef},
	{"gitlab-mr-ref", matchGitLabMRRef},
	{"remote-range", matchRemoteRange},
	{"local-range", matchLocalRange},
}

// SupportedFormats enumerates the accepted target grammars, one example per
// line. Rendered into the InvalidInput error when nothing matches.
var SupportedFormats = []string{
	"main..feature                                   local ref range",
	"owner/repo@v1.0..v2.0                           remote ref range",
	"owner/repo@v1.0..owner/repo@v2.0                remote ref range, full form",
	"github:owner/repo@main..dev                     GitHub shorthand range",
	"gitlab:owner/repo@main..dev                     GitLab shorthand range",
	"github:owner/repo#123                           GitHub pull request",
	"gitlab:owner/repo!123                           GitLab merge request",
	"https://github.com/owner/repo/pull/123          pull request URL",
	"https://github.com/o/r/pull/1..github:o/r#2     pull request range",
	"https://github.com/owner/repo/commit/<sha>      commit URL",
	"https://github.com/o/r/pull/1/changes/a..b      PR changes URL",
	"https://github.com/o/r/compare/main...dev       compare URL",
	"git@host:path.git@main..dev                     git URL range",
}

// Parse matches target against the grammar list and returns the first hit.
// Unmatched input is always an InvalidInput error listing every supported
// format; no string falls through ambiguously.
func Parse(target string) (domain.RefRange, error) {
	trimmed := strings.TrimSpace(target)
	if trimmed == "" {
		return domain.RefRange{}, domain.NewInvalidInput("empty diff target")
	}
	for _, m := range matchers {
		if rr, ok := m.match(trimmed); ok {
			return rr, nil
		}
	}
	return domain.RefRange{}, domain.NewInvalidInput(
		"unrecognized diff target %q\n\nsupported formats:\n  %s",
		target, strings.Join(SupportedFormats, "\n  "))
}

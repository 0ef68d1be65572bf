package rangeparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/diffx-dev/diffx/internal/domain"
)

var (
	prURLRe      = regexp.MustCompile(`^https://github\.com/([\w.-]+)/([\w.-]+)/pull/(\d+)(?:/.*)?$`)
	prRefRe      = regexp.MustCompile(`^github:([\w.-]+/[\w.-]+)#(\d+)$`)
	mrRefRe      = regexp.MustCompile(`^gitlab:([\w.-]+/[\w.-]+)!(\d+)$`)
	commitURLRe  = regexp.MustCompile(`^https://github\.com/([\w.-]+)/([\w.-]+)/commit/([0-9a-fA-F]{7,40})$`)
	changesURLRe = regexp.MustCompile(`^https://github\.com/([\w.-]+)/([\w.-]+)/pull/(\d+)/changes/([0-9a-fA-F]{7,40})\.\.([0-9a-fA-F]{7,40})$`)
	compareURLRe = regexp.MustCompile(`^https://github\.com/([\w.-]+)/([\w.-]+)/compare/(.+)\.\.\.(.+)$`)
	ownerRepoRe  = regexp.MustCompile(`^[\w.-]+/[\w.-]+$`)
	scpURLRe     = regexp.MustCompile(`^[^@/]+@[^:/]+:.+$`)
)

// isGitURL reports whether s looks like a clone URL: either a scheme URL
// (https://, ssh://, git://) or a scp-style user@host:path.
func isGitURL(s string) bool {
	return strings.Contains(s, "://") || scpURLRe.MatchString(s)
}

// splitRange splits s at the first ".." into two non-empty halves.
func splitRange(s string) (left, right string, ok bool) {
	idx := strings.Index(s, "..")
	if idx <= 0 || idx+2 >= len(s) {
		return "", "", false
	}
	return s[:idx], s[idx+2:], true
}

// parsePRSide accepts a GitHub PR URL or a github:owner/repo#N ref.
func parsePRSide(s string) (domain.PRSpec, bool) {
	if m := prURLRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[3])
		if err != nil {
			return domain.PRSpec{}, false
		}
		return domain.PRSpec{OwnerRepo: m[1] + "/" + m[2], Number: n}, true
	}
	if m := prRefRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return domain.PRSpec{}, false
		}
		return domain.PRSpec{OwnerRepo: m[1], Number: n}, true
	}
	return domain.PRSpec{}, false
}

// matchPRRange recognizes "X..Y" where both sides are PR URLs or PR refs.
func matchPRRange(s string) (domain.RefRange, bool) {
	left, right, ok := splitRange(s)
	if !ok {
		return domain.RefRange{}, false
	}
	leftPR, ok := parsePRSide(left)
	if !ok {
		return domain.RefRange{}, false
	}
	rightPR, ok := parsePRSide(right)
	if !ok {
		return domain.RefRange{}, false
	}
	return domain.RefRange{
		Kind:    domain.RangePRRange,
		LeftPR:  leftPR,
		RightPR: rightPR,
	}, true
}

// matchGitURLRange recognizes "<url>@left..right" and
// "<url>@left..<url>@right". The ref separator is the last "@" because
// scp-style URLs carry their own "@".
func matchGitURLRange(s string) (domain.RefRange, bool) {
	left, right, ok := splitRange(s)
	if !ok {
		return domain.RefRange{}, false
	}
	leftURL, leftRef, ok := splitURLRef(left)
	if !ok {
		return domain.RefRange{}, false
	}
	rightURL, rightRef, ok := splitURLRef(right)
	if !ok {
		// Short form: the right side is a bare ref against the left URL.
		if right == "" || strings.Contains(right, "@") {
			return domain.RefRange{}, false
		}
		rightURL, rightRef = leftURL, right
	}
	return domain.RefRange{
		Kind:        domain.RangeGitURL,
		Left:        leftRef,
		Right:       rightRef,
		LeftGitURL:  leftURL,
		RightGitURL: rightURL,
	}, true
}

func splitURLRef(s string) (url, ref string, ok bool) {
	idx := strings.LastIndex(s, "@")
	if idx <= 0 || idx+1 >= len(s) {
		return "", "", false
	}
	url, ref = s[:idx], s[idx+1:]
	if !isGitURL(url) {
		return "", "", false
	}
	return url, ref, true
}

// matchGitHubCompareURL recognizes ".../compare/left...right" with the
// three-dot separator. The right side may name a fork as "owner:repo:ref"
// or "owner:repo/ref".
func matchGitHubCompareURL(s string) (domain.RefRange, bool) {
	m := compareURLRe.FindStringSubmatch(s)
	if m == nil {
		return domain.RefRange{}, false
	}
	rr := domain.RefRange{
		Kind:      domain.RangeGitHubCompareURL,
		OwnerRepo: m[1] + "/" + m[2],
		LeftRef:   m[3],
	}
	right := m[4]
	if strings.Contains(right, ":") {
		owner, rest, _ := strings.Cut(right, ":")
		var repo, ref string
		if strings.Contains(rest, ":") {
			repo, ref, _ = strings.Cut(rest, ":")
		} else if strings.Contains(rest, "/") {
			repo, ref, _ = strings.Cut(rest, "/")
		} else {
			return domain.RefRange{}, false
		}
		if owner == "" || repo == "" || ref == "" {
			return domain.RefRange{}, false
		}
		rr.RightOwnerRepo = owner + "/" + repo
		rr.RightRef = ref
		return rr, true
	}
	rr.RightRef = right
	return rr, true
}

// matchGitHubPRChangesURL recognizes ".../pull/N/changes/sha..sha".
func matchGitHubPRChangesURL(s string) (domain.RefRange, bool) {
	m := changesURLRe.FindStringSubmatch(s)
	if m == nil {
		return domain.RefRange{}, false
	}
	n, err := strconv.Atoi(m[3])
	if err != nil {
		return domain.RefRange{}, false
	}
	return domain.RefRange{
		Kind:           domain.RangeGitHubPRChanges,
		OwnerRepo:      m[1] + "/" + m[2],
		PRNumber:       n,
		LeftCommitSHA:  m[4],
		RightCommitSHA: m[5],
	}, true
}

// matchGitHubPRURL recognizes ".../pull/N" with an optional trailing path
// such as /files or /commits.
func matchGitHubPRURL(s string) (domain.RefRange, bool) {
	m := prURLRe.FindStringSubmatch(s)
	if m == nil {
		return domain.RefRange{}, false
	}
	n, err := strconv.Atoi(m[3])
	if err != nil {
		return domain.RefRange{}, false
	}
	return domain.RefRange{
		Kind:      domain.RangeGitHubURL,
		OwnerRepo: m[1] + "/" + m[2],
		PRNumber:  n,
	}, true
}

// matchGitHubCommitURL recognizes ".../commit/<hex sha>".
func matchGitHubCommitURL(s string) (domain.RefRange, bool) {
	m := commitURLRe.FindStringSubmatch(s)
	if m == nil {
		return domain.RefRange{}, false
	}
	return domain.RefRange{
		Kind:      domain.RangeGitHubCommitURL,
		OwnerRepo: m[1] + "/" + m[2],
		CommitSHA: m[3],
	}, true
}

// matchGitHubShorthand recognizes "github:owner/repo@left..right".
func matchGitHubShorthand(s string) (domain.RefRange, bool) {
	return matchForgeShorthand(s, "github:", "github.com")
}

// matchGitLabShorthand recognizes "gitlab:owner/repo@left..right".
func matchGitLabShorthand(s string) (domain.RefRange, bool) {
	return matchForgeShorthand(s, "gitlab:", "gitlab.com")
}

func matchForgeShorthand(s, prefix, host string) (domain.RefRange, bool) {
	rest, ok := strings.CutPrefix(s, prefix)
	if !ok {
		return domain.RefRange{}, false
	}
	slug, refs, ok := strings.Cut(rest, "@")
	if !ok || !ownerRepoRe.MatchString(slug) {
		return domain.RefRange{}, false
	}
	left, right, ok := splitRange(refs)
	if !ok {
		return domain.RefRange{}, false
	}
	return domain.RefRange{
		Kind:      domain.RangeRemote,
		Host:      host,
		OwnerRepo: slug,
		Left:      left,
		Right:     right,
	}, true
}

// matchGitHubPRRef recognizes "github:owner/repo#N".
func matchGitHubPRRef(s string) (domain.RefRange, bool) {
	m := prRefRe.FindStringSubmatch(s)
	if m == nil {
		return domain.RefRange{}, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return domain.RefRange{}, false
	}
	return domain.RefRange{
		Kind:      domain.RangePRRef,
		OwnerRepo: m[1],
		PRNumber:  n,
	}, true
}

// matchGitLabMRRef recognizes "gitlab:owner/repo!N".
func matchGitLabMRRef(s string) (domain.RefRange, bool) {
	m := mrRefRe.FindStringSubmatch(s)
	if m == nil {
		return domain.RefRange{}, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return domain.RefRange{}, false
	}
	return domain.RefRange{
		Kind:      domain.RangeGitLabMRRef,
		OwnerRepo: m[1],
		PRNumber:  n,
	}, true
}

// matchRemoteRange recognizes "owner/repo@left..right" and the full form
// "owner/repo@left..owner/repo@right". A mismatched right-side slug still
// matches; the resolver rejects it so the user sees a shape error instead
// of a local-ref lookup failure.
func matchRemoteRange(s string) (domain.RefRange, bool) {
	left, right, ok := splitRange(s)
	if !ok {
		return domain.RefRange{}, false
	}
	slug, leftRef, ok := strings.Cut(left, "@")
	if !ok || leftRef == "" || !ownerRepoRe.MatchString(slug) {
		return domain.RefRange{}, false
	}
	rr := domain.RefRange{
		Kind:      domain.RangeRemote,
		Host:      "github.com",
		OwnerRepo: slug,
		Left:      leftRef,
	}
	if rightSlug, rightRef, hasAt := strings.Cut(right, "@"); hasAt && ownerRepoRe.MatchString(rightSlug) {
		if rightRef == "" {
			return domain.RefRange{}, false
		}
		rr.RightOwnerRepo = rightSlug
		rr.Right = rightRef
		return rr, true
	}
	if right == "" || strings.Contains(right, "@") {
		return domain.RefRange{}, false
	}
	rr.Right = right
	return rr, true
}

// matchLocalRange recognizes "left..right" over local revisions.
func matchLocalRange(s string) (domain.RefRange, bool) {
	left, right, ok := splitRange(s)
	if !ok {
		return domain.RefRange{}, false
	}
	if strings.HasPrefix(right, ".") {
		// Three or more dots are not a local range.
		return domain.RefRange{}, false
	}
	return domain.RefRange{
		Kind:  domain.RangeLocal,
		Left:  left,
		Right: right,
	}, true
}

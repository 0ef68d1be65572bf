package domain

// RangeKind tags the active variant of a RefRange.
type RangeKind string

const (
	RangeLocal            RangeKind = "local-range"
	RangeRemote           RangeKind = "remote-range"
	RangePRRef            RangeKind = "pr-ref"
	RangeGitHubURL        RangeKind = "github-url"
	RangePRRange          RangeKind = "pr-range"
	RangeGitURL           RangeKind = "git-url-range"
	RangeGitHubCommitURL  RangeKind = "github-commit-url"
	RangeGitHubPRChanges  RangeKind = "github-pr-changes-url"
	RangeGitHubCompareURL RangeKind = "github-compare-url"
	RangeGitLabMRRef      RangeKind = "gitlab-mr-ref"
)

// PRSpec identifies one pull request endpoint of a pr-range.
type PRSpec struct {
	OwnerRepo string
	Number    int
}

// RefRange is the parsed form of a diff target. Exactly one variant is
// active, indicated by Kind; fields belonging to other variants stay zero.
// A RefRange is built once by rangeparse.Parse, is immutable, and is
// consumed exactly once by the resolver dispatch.
type RefRange struct {
	Kind RangeKind

	// Left and Right hold revision expressions for the variants that carry
	// them directly (local, remote, git-url, shorthand ranges).
	Left  string
	Right string

	// Host is the forge hostname for remote ranges ("github.com" unless the
	// target used gitlab: shorthand).
	Host string

	// OwnerRepo is the "owner/repo" slug for forge-addressed variants.
	OwnerRepo string

	// PRNumber is the pull/merge request number for pr-ref, github-url and
	// gitlab-mr-ref targets.
	PRNumber int

	// LeftPR and RightPR are the endpoints of a pr-range.
	LeftPR  PRSpec
	RightPR PRSpec

	// LeftGitURL and RightGitURL are the clone URLs of a git-url-range.
	LeftGitURL  string
	RightGitURL string

	// CommitSHA is the single commit of a github-commit-url.
	CommitSHA string

	// LeftCommitSHA and RightCommitSHA are the explicit endpoints of a
	// github-pr-changes-url.
	LeftCommitSHA  string
	RightCommitSHA string

	// LeftRef and RightRef are the compare-URL endpoints. RightOwnerRepo is
	// set only for cross-fork compares, where the right ref lives in a
	// different repository than OwnerRepo.
	LeftRef        string
	RightRef       string
	RightOwnerRepo string
}

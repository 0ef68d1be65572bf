package rangeparse_test

import (
	"strings"
	"testing"

	"github.com/diffx-dev/diffx/internal/domain"
	"github.com/diffx-dev/diffx/internal/rangeparse"
)

func TestParse_LocalRange(t *testing.T) {
	rr, err := rangeparse.Parse("main..feature/login")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if rr.Kind != domain.RangeLocal {
		t.Fatalf("expected local-range, got %s", rr.Kind)
	}
	if rr.Left != "main" || rr.Right != "feature/login" {
		t.Errorf("unexpected endpoints %q..%q", rr.Left, rr.Right)
	}
}

func TestParse_RemoteRange(t *testing.T) {
	rr, err := rangeparse.Parse("owner/repo@v1.0..v2.0")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if rr.Kind != domain.RangeRemote {
		t.Fatalf("expected remote-range, got %s", rr.Kind)
	}
	if rr.OwnerRepo != "owner/repo" {
		t.Errorf("OwnerRepo = %q", rr.OwnerRepo)
	}
	if rr.Host != "github.com" {
		t.Errorf("Host = %q", rr.Host)
	}
	if rr.Left != "v1.0" || rr.Right != "v2.0" {
		t.Errorf("unexpected endpoints %q..%q", rr.Left, rr.Right)
	}
}

func TestParse_RemoteRangeFullForm(t *testing.T) {
	rr, err := rangeparse.Parse("owner/repo@v1.0..owner/repo@v2.0")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if rr.Kind != domain.RangeRemote {
		t.Fatalf("expected remote-range, got %s", rr.Kind)
	}
	if rr.RightOwnerRepo != "owner/repo" {
		t.Errorf("RightOwnerRepo = %q", rr.RightOwnerRepo)
	}
	if rr.Left != "v1.0" || rr.Right != "v2.0" {
		t.Errorf("unexpected endpoints %q..%q", rr.Left, rr.Right)
	}
}

func TestParse_RemoteRangeMismatchedSlugStillParses(t *testing.T) {
	// Shape validation happens in the resolver so the user gets a clear
	// owner/repo mismatch error rather than a local ref lookup failure.
	rr, err := rangeparse.Parse("owner/repo@v1..other/fork@v2")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if rr.Kind != domain.RangeRemote {
		t.Fatalf("expected remote-range, got %s", rr.Kind)
	}
	if rr.OwnerRepo != "owner/repo" || rr.RightOwnerRepo != "other/fork" {
		t.Errorf("slugs = %q / %q", rr.OwnerRepo, rr.RightOwnerRepo)
	}
}

func TestParse_ForgeShorthandRanges(t *testing.T) {
	tests := []struct {
		input string
		host  string
	}{
		{"github:owner/repo@main..dev", "github.com"},
		{"gitlab:owner/repo@main..dev", "gitlab.com"},
	}
	for _, tc := range tests {
		rr, err := rangeparse.Parse(tc.input)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tc.input, err)
		}
		if rr.Kind != domain.RangeRemote {
			t.Errorf("Parse(%q) kind = %s", tc.input, rr.Kind)
		}
		if rr.Host != tc.host {
			t.Errorf("Parse(%q) host = %q, want %q", tc.input, rr.Host, tc.host)
		}
		if rr.OwnerRepo != "owner/repo" || rr.Left != "main" || rr.Right != "dev" {
			t.Errorf("Parse(%q) = %+v", tc.input, rr)
		}
	}
}

func TestParse_PRRef(t *testing.T) {
	rr, err := rangeparse.Parse("github:owner/repo#123")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if rr.Kind != domain.RangePRRef {
		t.Fatalf("expected pr-ref, got %s", rr.Kind)
	}
	if rr.OwnerRepo != "owner/repo" || rr.PRNumber != 123 {
		t.Errorf("got %+v", rr)
	}
}

func TestParse_MRRef(t *testing.T) {
	rr, err := rangeparse.Parse("gitlab:owner/repo!45")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if rr.Kind != domain.RangeGitLabMRRef {
		t.Fatalf("expected gitlab-mr-ref, got %s", rr.Kind)
	}
	if rr.OwnerRepo != "owner/repo" || rr.PRNumber != 45 {
		t.Errorf("got %+v", rr)
	}
}

func TestParse_GitHubPRURL(t *testing.T) {
	for _, input := range []string{
		"https://github.com/owner/repo/pull/7",
		"https://github.com/owner/repo/pull/7/files",
		"https://github.com/owner/repo/pull/7/commits/abc",
	} {
		rr, err := rangeparse.Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", input, err)
		}
		if rr.Kind != domain.RangeGitHubURL {
			t.Errorf("Parse(%q) kind = %s", input, rr.Kind)
		}
		if rr.OwnerRepo != "owner/repo" || rr.PRNumber != 7 {
			t.Errorf("Parse(%q) = %+v", input, rr)
		}
	}
}

func TestParse_GitHubCommitURL(t *testing.T) {
	rr, err := rangeparse.Parse("https://github.com/owner/repo/commit/a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if rr.Kind != domain.RangeGitHubCommitURL {
		t.Fatalf("expected github-commit-url, got %s", rr.Kind)
	}
	if rr.CommitSHA != "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2" {
		t.Errorf("CommitSHA = %q", rr.CommitSHA)
	}
}

func TestParse_GitHubPRChangesURL(t *testing.T) {
	rr, err := rangeparse.Parse("https://github.com/owner/repo/pull/9/changes/abc1234..def5678")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if rr.Kind != domain.RangeGitHubPRChanges {
		t.Fatalf("expected github-pr-changes-url, got %s", rr.Kind)
	}
	if rr.PRNumber != 9 || rr.LeftCommitSHA != "abc1234" || rr.RightCommitSHA != "def5678" {
		t.Errorf("got %+v", rr)
	}
}

func TestParse_GitHubCompareURL(t *testing.T) {
	rr, err := rangeparse.Parse("https://github.com/owner/repo/compare/main...release/v2")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if rr.Kind != domain.RangeGitHubCompareURL {
		t.Fatalf("expected github-compare-url, got %s", rr.Kind)
	}
	if rr.LeftRef != "main" || rr.RightRef != "release/v2" || rr.RightOwnerRepo != "" {
		t.Errorf("got %+v", rr)
	}
}

func TestParse_GitHubCompareURLCrossFork(t *testing.T) {
	tests := []struct {
		input string
	}{
		{"https://github.com/o/r/compare/main...other:fork:feature"},
		{"https://github.com/o/r/compare/main...other:fork/feature"},
	}
	for _, tc := range tests {
		rr, err := rangeparse.Parse(tc.input)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tc.input, err)
		}
		if rr.RightOwnerRepo != "other/fork" {
			t.Errorf("Parse(%q) RightOwnerRepo = %q", tc.input, rr.RightOwnerRepo)
		}
		if rr.RightRef != "feature" {
			t.Errorf("Parse(%q) RightRef = %q", tc.input, rr.RightRef)
		}
		if rr.OwnerRepo != "o/r" || rr.LeftRef != "main" {
			t.Errorf("Parse(%q) = %+v", tc.input, rr)
		}
	}
}

func TestParse_GitURLRange(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		leftURL  string
		rightURL string
		left     string
		right    string
	}{
		{
			name:     "https short form",
			input:    "https://example.com/team/app.git@v1..v2",
			leftURL:  "https://example.com/team/app.git",
			rightURL: "https://example.com/team/app.git",
			left:     "v1",
			right:    "v2",
		},
		{
			name:     "scp short form",
			input:    "git@example.com:team/app.git@main..dev",
			leftURL:  "git@example.com:team/app.git",
			rightURL: "git@example.com:team/app.git",
			left:     "main",
			right:    "dev",
		},
		{
			name:     "full form distinct urls",
			input:    "https://a.example/x.git@main..https://b.example/y.git@main",
			leftURL:  "https://a.example/x.git",
			rightURL: "https://b.example/y.git",
			left:     "main",
			right:    "main",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr, err := rangeparse.Parse(tc.input)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if rr.Kind != domain.RangeGitURL {
				t.Fatalf("kind = %s", rr.Kind)
			}
			if rr.LeftGitURL != tc.leftURL || rr.RightGitURL != tc.rightURL {
				t.Errorf("urls = %q / %q", rr.LeftGitURL, rr.RightGitURL)
			}
			if rr.Left != tc.left || rr.Right != tc.right {
				t.Errorf("refs = %q..%q", rr.Left, rr.Right)
			}
		})
	}
}

func TestParse_PRRangePrecedence(t *testing.T) {
	// Contains ".." but must never fall through to remote-range or
	// local-range.
	rr, err := rangeparse.Parse("https://github.com/o/r/pull/1..https://github.com/o/r/pull/2")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if rr.Kind != domain.RangePRRange {
		t.Fatalf("expected pr-range, got %s", rr.Kind)
	}
	if rr.LeftPR.Number != 1 || rr.RightPR.Number != 2 {
		t.Errorf("got %+v", rr)
	}
}

func TestParse_PRRangeMixedSides(t *testing.T) {
	rr, err := rangeparse.Parse("github:o/r#3..https://github.com/o/r/pull/4")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if rr.Kind != domain.RangePRRange {
		t.Fatalf("expected pr-range, got %s", rr.Kind)
	}
	if rr.LeftPR != (domain.PRSpec{OwnerRepo: "o/r", Number: 3}) {
		t.Errorf("LeftPR = %+v", rr.LeftPR)
	}
	if rr.RightPR != (domain.PRSpec{OwnerRepo: "o/r", Number: 4}) {
		t.Errorf("RightPR = %+v", rr.RightPR)
	}
}

func TestParse_ChangesURLNotSwallowedByPRRange(t *testing.T) {
	rr, err := rangeparse.Parse("https://github.com/o/r/pull/5/changes/abc1234..def5678")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if rr.Kind != domain.RangeGitHubPRChanges {
		t.Fatalf("expected github-pr-changes-url, got %s", rr.Kind)
	}
}

func TestParse_CompareURLNotSplitAtThreeDots(t *testing.T) {
	rr, err := rangeparse.Parse("https://github.com/o/r/compare/main...dev")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if rr.Kind != domain.RangeGitHubCompareURL {
		t.Fatalf("expected github-compare-url, got %s", rr.Kind)
	}
}

func TestParse_Rejections(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"main",
		"main...dev",
		"..right",
		"left..",
		"github:owner/repo#notanumber",
		"https://github.com/owner/repo",
		"https://github.com/owner/repo/pulls/7",
		"owner/repo@..",
	}
	for _, input := range inputs {
		_, err := rangeparse.Parse(input)
		if err == nil {
			t.Errorf("Parse(%q) expected error, got none", input)
			continue
		}
		if !domain.IsInvalidInput(err) {
			t.Errorf("Parse(%q) error kind = %v, want InvalidInput", input, err)
		}
	}
}

func TestParse_ErrorEnumeratesFormats(t *testing.T) {
	_, err := rangeparse.Parse("???")
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, format := range rangeparse.SupportedFormats {
		if !strings.Contains(msg, format) {
			t.Errorf("error message missing format line %q", format)
		}
	}
	if !strings.Contains(msg, "???") {
		t.Errorf("error message should name the original input")
	}
}

package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestShortUsesLinkedVersion(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "v1.2.3"
	if got := Short(); got != "v1.2.3" {
		t.Fatalf("Short() = %q, want v1.2.3", got)
	}
}

func TestInfo(t *testing.T) {
	origV, origC, origB := Version, CommitSHA, BuildTime
	t.Cleanup(func() { Version, CommitSHA, BuildTime = origV, origC, origB })

	Version, CommitSHA, BuildTime = "v0.1.0", "abc1234", "2025-06-01T00:00:00Z"

	info := Info()
	for _, want := range []string{"v0.1.0", "abc1234", "2025-06-01T00:00:00Z", runtime.Version()} {
		if !strings.Contains(info, want) {
			t.Errorf("Info() missing %q:\n%s", want, info)
		}
	}
}

package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	Version, Commit, Date = "v1.2.3", "abc", "2026-01-01"
	defer func() { Version, Commit, Date = "dev", "none", "unknown" }()

	if got := String(); got != "version: v1.2.3\ncommit: abc\nbuilt: 2026-01-01" {
		t.Errorf("String() = %q", got)
	}
	if got := Template(); !strings.HasPrefix(got, "{{.Name}} version v1.2.3\n") {
		t.Errorf("Template() = %q", got)
	}
}

func TestResolveKeepsLdflags(t *testing.T) {
	Version, Commit = "v9.9.9", "fixed"
	defer func() { Version, Commit, Date = "dev", "none", "unknown" }()

	Resolve()
	if Version != "v9.9.9" || Commit != "fixed" {
		t.Errorf("Resolve overwrote ldflags values: %s %s", Version, Commit)
	}
}

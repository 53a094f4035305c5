package version

import (
	"runtime/debug"
	"strings"
	"testing"
	"time"
)

func saveAndRestore() func() {
	origVersion, origCommit, origBranch, origBuildTime, origGoVersion :=
		Version, GitCommit, GitBranch, BuildTime, GoVersion
	return func() {
		Version = origVersion
		GitCommit = origCommit
		GitBranch = origBranch
		BuildTime = origBuildTime
		GoVersion = origGoVersion
	}
}

func TestGetDefaults(t *testing.T) {
	defer saveAndRestore()()
	Version = "dev"
	GitCommit = ""
	BuildTime = ""

	info := Get()
	if info.Version != "dev" {
		t.Errorf("expected version 'dev', got %q", info.Version)
	}
	if info.IsRelease {
		t.Error("dev should not be a release")
	}
}

func TestGetWithLdflags(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.2.0"
	BuildTime = "2026-01-15T10:30:00Z"
	GitCommit = "abc1234"
	GoVersion = "go1.26.0"

	info := Get()
	if !info.IsRelease {
		t.Error("1.2.0 should be a release")
	}
	if info.GitCommit != "abc1234" || info.GoVersion != "go1.26.0" {
		t.Errorf("ldflags values should win, got %+v", info)
	}
	if info.BuildDate.Year() != 2026 {
		t.Errorf("expected build year 2026, got %d", info.BuildDate.Year())
	}
}

func TestDirtyVersionIsNotRelease(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.0.0-dirty"
	if Get().IsRelease {
		t.Error("dirty version should not be a release")
	}
}

func TestApplyBuildSettings(t *testing.T) {
	info := Info{Version: "dev"}
	applyBuildSettings(&info, &debug.BuildInfo{
		GoVersion: "go1.26.0",
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "vcs.time", Value: "2026-03-01T08:00:00Z"},
		},
	})
	if info.GitCommit != "0123456" {
		t.Errorf("expected short commit, got %q", info.GitCommit)
	}
	if !info.IsDirty {
		t.Error("expected dirty flag")
	}
	if info.GoVersion != "go1.26.0" {
		t.Errorf("expected go version from build info, got %q", info.GoVersion)
	}
	if !info.BuildDate.Equal(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected build date %v", info.BuildDate)
	}
}

func TestShort(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "dev"}, "dev"},
		{Info{Version: "1.0.0", GitCommit: "abc1234"}, "1.0.0-abc1234"},
		{Info{Version: "1.0.0", GitCommit: "abc1234", IsDirty: true}, "1.0.0-abc1234-dirty"},
	}
	for _, tc := range tests {
		if got := tc.info.Short(); got != tc.want {
			t.Errorf("Short() = %q, want %q", got, tc.want)
		}
	}
}

func TestString(t *testing.T) {
	info := Info{
		Version:   "1.0.0",
		GitCommit: "abc1234",
		GitBranch: "main",
		GoVersion: "go1.26.0",
		BuildDate: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
	}
	s := info.String()
	if !strings.HasPrefix(s, "fmtool 1.0.0-abc1234") {
		t.Errorf("unexpected prefix: %q", s)
	}
	if strings.Contains(s, "main") {
		t.Errorf("main branch should not appear, got %q", s)
	}
	if !strings.Contains(s, "built 2026-01-15T10:30:00Z") {
		t.Errorf("expected build date, got %q", s)
	}

	info.GitBranch = "feature/layers"
	if !strings.Contains(info.String(), "feature/layers") {
		t.Errorf("expected feature branch, got %q", info.String())
	}
}

func TestFields(t *testing.T) {
	f := Info{Version: "1.0.0", GitCommit: "abc"}.Fields()
	if f["version"] != "1.0.0" || f["git_commit"] != "abc" {
		t.Errorf("unexpected fields: %v", f)
	}
}

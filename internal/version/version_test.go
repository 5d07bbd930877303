package version

import (
	"runtime/debug"
	"testing"
)

func TestResolveFromBuildInfo(t *testing.T) {
	orig := readBuildInfo
	t.Cleanup(func() { readBuildInfo = orig })
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			Main: debug.Module{Version: "v1.2.3"},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef0123"},
				{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			},
		}, true
	}

	info := Resolve()
	if info.Version != "v1.2.3" {
		t.Fatalf("version: got %q want v1.2.3", info.Version)
	}
	if info.BuildTime != "2026-01-02T03:04:05Z" {
		t.Fatalf("build time: got %q", info.BuildTime)
	}
	if got := String(); got != "v1.2.3 (0123456789ab)" {
		t.Fatalf("string: got %q", got)
	}
}

func TestResolveFallsBackToBuildTime(t *testing.T) {
	orig := readBuildInfo
	t.Cleanup(func() { readBuildInfo = orig })
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			Main:     debug.Module{Version: "(devel)"},
			Settings: []debug.BuildSetting{{Key: "vcs.time", Value: "2026-05-06T00:00:00Z"}},
		}, true
	}

	info := Resolve()
	if info.Version != "2026-05-06T00:00:00Z" {
		t.Fatalf("version: got %q", info.Version)
	}
	if info.Commit != "" {
		t.Fatalf("commit: got %q want empty", info.Commit)
	}
}

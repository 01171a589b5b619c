package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBuildVars(t *testing.T, v, b, c string) {
	t.Helper()
	origV, origB, origC, origRead := Version, BuildTime, Commit, readBuildInfo
	t.Cleanup(func() {
		Version, BuildTime, Commit, readBuildInfo = origV, origB, origC, origRead
	})
	Version, BuildTime, Commit = v, b, c
}

func stubBuildInfo(settings ...debug.BuildSetting) {
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Settings: settings}, true
	}
}

func TestGet_LdflagsWin(t *testing.T) {
	setBuildVars(t, "1.2.3", "2026-01-02T00:00:00Z", "deadbeef")
	stubBuildInfo(
		debug.BuildSetting{Key: "vcs.revision", Value: "0123456789abcdef0123"},
		debug.BuildSetting{Key: "vcs.time", Value: "2020-01-01T00:00:00Z"},
	)

	info := Get()
	require.Equal(t, "1.2.3", info.Version)
	require.Equal(t, "2026-01-02T00:00:00Z", info.BuildTime)
	require.Equal(t, "deadbeef", info.Commit)
	require.NotEmpty(t, info.GoVersion)
	require.NotEmpty(t, info.OS)
	require.NotEmpty(t, info.Arch)

	assert.Equal(t, "1.2.3", Short())
	assert.Contains(t, info.String(), "reposync 1.2.3 (commit: deadbeef, built: 2026-01-02T00:00:00Z")
	assert.Contains(t, Full(), "reposync 1.2.3")
}

func TestGet_FallsBackToVCSStamp(t *testing.T) {
	setBuildVars(t, "dev", "unknown", "unknown")
	stubBuildInfo(
		debug.BuildSetting{Key: "vcs.revision", Value: "0123456789abcdef0123"},
		debug.BuildSetting{Key: "vcs.time", Value: "2026-05-06T07:08:09Z"},
		debug.BuildSetting{Key: "vcs.modified", Value: "true"},
	)

	info := Get()
	assert.Equal(t, "0123456789ab", info.Commit)
	assert.Equal(t, "2026-05-06T07:08:09Z", info.BuildTime)
	assert.True(t, info.Dirty)
	assert.Contains(t, info.String(), "commit: 0123456789ab-dirty")
}

func TestGet_NoBuildInfo(t *testing.T) {
	setBuildVars(t, "dev", "unknown", "unknown")
	readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }

	info := Get()
	assert.Equal(t, "unknown", info.Commit)
	assert.False(t, info.Dirty)
}

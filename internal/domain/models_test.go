package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepoName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"git@host:org/repo.git", "repo"},
		{"git@github.com:chimbosonic/hackers.chimbosonic.com.git", "hackers.chimbosonic.com"},
		{"https://github.com/chimbosonic/cli-kneeboard.git", "cli-kneeboard"},
		{"https://github.com/chimbosonic/cli-kneeboard", "cli-kneeboard"},
		{"git@host:org/repo.git.git", "repo.git"},
		{"repo.git", "repo"},
		{"git@host:repo", "git@host:repo"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, RepoName(tt.url))
		})
	}
}

func TestRepoName_Deterministic(t *testing.T) {
	urls := []string{
		"git@host:org/repo.git",
		"git@host:org/repo.git.git",
		"https://example.com/a/b/c",
	}
	for _, u := range urls {
		first := RepoName(u)
		assert.Equal(t, first, RepoName(u))
		// a derived name has no "/" left, so deriving again only strips .git
		assert.NotContains(t, first, "/")
	}
}

func TestNewDescriptor(t *testing.T) {
	d := NewDescriptor("git@github.com:org/tool.git", "https://github.com/org/tool.git", "")

	assert.Equal(t, "tool", d.Name)
	assert.Equal(t, TransportSSH, d.Transport)
	assert.Equal(t, "git@github.com:org/tool.git", d.URL())
}

func TestDescriptor_URL(t *testing.T) {
	t.Run("https selected", func(t *testing.T) {
		d := NewDescriptor("git@github.com:org/tool.git", "https://github.com/org/tool.git", TransportHTTPS)
		assert.Equal(t, "https://github.com/org/tool.git", d.URL())
	})

	t.Run("https without https url falls back to ssh", func(t *testing.T) {
		d := NewDescriptor("git@github.com:org/tool.git", "", TransportHTTPS)
		assert.Equal(t, "git@github.com:org/tool.git", d.URL())
	})
}

func TestParseTransport(t *testing.T) {
	tr, err := ParseTransport("")
	require.NoError(t, err)
	assert.Equal(t, TransportSSH, tr)

	tr, err = ParseTransport("HTTPS")
	require.NoError(t, err)
	assert.Equal(t, TransportHTTPS, tr)

	_, err = ParseTransport("ftp")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestReport_FailedResults(t *testing.T) {
	report := &Report{
		Results: []JobResult{
			{Job: Job{Path: "a"}},
			{Job: Job{Path: "b"}, Err: errors.New("boom")},
			{Job: Job{Path: "c"}},
		},
	}

	failed := report.FailedResults()
	require.Len(t, failed, 1)
	assert.Equal(t, "b", failed[0].Job.Path)
}

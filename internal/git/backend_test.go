package git

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/reposync/internal/domain"
	"github.com/quantmind-br/reposync/internal/mocks"
)

// fakeGit writes a shell script that records its arguments and exits with code
func fakeGit(t *testing.T, code int) (bin, argsFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake git requires a POSIX shell")
	}

	dir := t.TempDir()
	argsFile = filepath.Join(dir, "args")
	bin = filepath.Join(dir, "git")
	script := "#!/bin/sh\necho \"$@\" >> " + argsFile + "\necho out-line\necho err-line >&2\nexit " + strconv.Itoa(code) + "\n"
	require.NoError(t, os.WriteFile(bin, []byte(script), 0755))
	return bin, argsFile
}

func readArgs(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestNewExecBackend_Defaults(t *testing.T) {
	b := NewExecBackend(ExecBackendOptions{})
	assert.Equal(t, DefaultGitBinary, b.gitPath)
	assert.Equal(t, os.Stdout, b.stdout)
	assert.Equal(t, os.Stderr, b.stderr)
}

func TestExecBackend_Clone(t *testing.T) {
	bin, argsFile := fakeGit(t, 0)
	var stdout, stderr bytes.Buffer
	b := NewExecBackend(ExecBackendOptions{GitPath: bin, Stdout: &stdout, Stderr: &stderr})

	err := b.Clone(context.Background(), "git@host:org/repo.git", "repo")
	require.NoError(t, err)

	assert.Equal(t, []string{"clone git@host:org/repo.git repo"}, readArgs(t, argsFile))
	assert.Contains(t, stdout.String(), "out-line")
	assert.Contains(t, stderr.String(), "err-line")
}

func TestExecBackend_Fetch(t *testing.T) {
	bin, argsFile := fakeGit(t, 0)
	b := NewExecBackend(ExecBackendOptions{GitPath: bin, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})

	require.NoError(t, b.Fetch(context.Background(), "repo"))
	assert.Equal(t, []string{"-C repo fetch --all"}, readArgs(t, argsFile))
}

func TestExecBackend_NonZeroExit(t *testing.T) {
	bin, _ := fakeGit(t, 3)
	b := NewExecBackend(ExecBackendOptions{GitPath: bin, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})

	err := b.Fetch(context.Background(), "repo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 3")
}

func TestExecBackend_MissingBinary(t *testing.T) {
	b := NewExecBackend(ExecBackendOptions{
		GitPath: filepath.Join(t.TempDir(), "no-such-git"),
		Stdout:  &bytes.Buffer{},
		Stderr:  &bytes.Buffer{},
	})

	err := b.Clone(context.Background(), "git@host:org/repo.git", "repo")
	assert.Error(t, err)
}

func TestGoGitBackend_Clone(t *testing.T) {
	t.Run("passes url and path to client", func(t *testing.T) {
		client := new(mocks.MockGitClient)
		client.On("PlainCloneContext", mock.Anything, "repo", false, mock.MatchedBy(func(o *git.CloneOptions) bool {
			return o.URL == "https://host/org/repo.git"
		})).Return(&git.Repository{}, nil)

		b := NewGoGitBackend(GoGitBackendOptions{Client: client})
		require.NoError(t, b.Clone(context.Background(), "https://host/org/repo.git", "repo"))
		client.AssertExpectations(t)
	})

	t.Run("wraps client error", func(t *testing.T) {
		client := new(mocks.MockGitClient)
		client.On("PlainCloneContext", mock.Anything, "repo", false, mock.Anything).
			Return(nil, errors.New("authentication required"))

		b := NewGoGitBackend(GoGitBackendOptions{Client: client})
		err := b.Clone(context.Background(), "git@host:org/repo.git", "repo")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "authentication required")
	})
}

func TestGoGitBackend_Fetch(t *testing.T) {
	t.Run("missing working copy", func(t *testing.T) {
		b := NewGoGitBackend(GoGitBackendOptions{})
		err := b.Fetch(context.Background(), filepath.Join(t.TempDir(), "missing"))
		assert.ErrorIs(t, err, git.ErrRepositoryNotExists)
	})

	t.Run("repository without remotes", func(t *testing.T) {
		dir := t.TempDir()
		_, err := git.PlainInit(dir, false)
		require.NoError(t, err)

		b := NewGoGitBackend(GoGitBackendOptions{})
		assert.NoError(t, b.Fetch(context.Background(), dir))
	})

	t.Run("unreachable remote", func(t *testing.T) {
		dir := t.TempDir()
		repo, err := git.PlainInit(dir, false)
		require.NoError(t, err)
		_, err = repo.CreateRemote(&config.RemoteConfig{
			Name: "origin",
			URLs: []string{filepath.Join(t.TempDir(), "gone")},
		})
		require.NoError(t, err)

		b := NewGoGitBackend(GoGitBackendOptions{})
		err = b.Fetch(context.Background(), dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "origin")
	})
}

func TestBackendsImplementInterface(t *testing.T) {
	var _ domain.Backend = NewExecBackend(ExecBackendOptions{})
	var _ domain.Backend = NewGoGitBackend(GoGitBackendOptions{})
	var _ Client = NewClient()
}

package git

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/quantmind-br/reposync/internal/domain"
	"github.com/quantmind-br/reposync/internal/utils"
)

// Ensure ExecBackend implements domain.Backend
var _ domain.Backend = (*ExecBackend)(nil)

// DefaultGitBinary is the git executable looked up on PATH
const DefaultGitBinary = "git"

// ExecBackend clones and fetches by running the git command line client.
// Output of the subprocess is streamed to Stdout/Stderr unchanged.
type ExecBackend struct {
	gitPath string
	stdout  io.Writer
	stderr  io.Writer
	logger  *utils.Logger
}

// ExecBackendOptions configures an ExecBackend
type ExecBackendOptions struct {
	GitPath string
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *utils.Logger
}

// NewExecBackend creates a backend that shells out to git
func NewExecBackend(opts ExecBackendOptions) *ExecBackend {
	b := &ExecBackend{
		gitPath: opts.GitPath,
		stdout:  opts.Stdout,
		stderr:  opts.Stderr,
		logger:  opts.Logger,
	}
	if b.gitPath == "" {
		b.gitPath = DefaultGitBinary
	}
	if b.stdout == nil {
		b.stdout = os.Stdout
	}
	if b.stderr == nil {
		b.stderr = os.Stderr
	}
	if b.logger == nil {
		b.logger = utils.NewNopLogger()
	}
	return b
}

// Clone runs `git clone <url> <path>`
func (b *ExecBackend) Clone(ctx context.Context, url, path string) error {
	return b.run(ctx, "clone", url, path)
}

// Fetch runs `git -C <path> fetch --all`
func (b *ExecBackend) Fetch(ctx context.Context, path string) error {
	return b.run(ctx, "-C", path, "fetch", "--all")
}

func (b *ExecBackend) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, b.gitPath, args...)
	cmd.Stdout = b.stdout
	cmd.Stderr = b.stderr

	b.logger.Debug().Strs("args", args).Msg("Running git")

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v: %w", b.gitPath, args, err)
	}
	return nil
}

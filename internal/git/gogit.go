package git

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-git/go-git/v5"

	"github.com/quantmind-br/reposync/internal/domain"
	"github.com/quantmind-br/reposync/internal/utils"
)

// Ensure GoGitBackend implements domain.Backend
var _ domain.Backend = (*GoGitBackend)(nil)

// GoGitBackend clones and fetches in-process with go-git
type GoGitBackend struct {
	client   Client
	progress io.Writer
	logger   *utils.Logger
}

// GoGitBackendOptions configures a GoGitBackend
type GoGitBackendOptions struct {
	Client   Client
	Progress io.Writer
	Logger   *utils.Logger
}

// NewGoGitBackend creates a go-git backed Backend
func NewGoGitBackend(opts GoGitBackendOptions) *GoGitBackend {
	b := &GoGitBackend{
		client:   opts.Client,
		progress: opts.Progress,
		logger:   opts.Logger,
	}
	if b.client == nil {
		b.client = NewClient()
	}
	if b.logger == nil {
		b.logger = utils.NewNopLogger()
	}
	return b
}

// Clone clones url into path
func (b *GoGitBackend) Clone(ctx context.Context, url, path string) error {
	_, err := b.client.PlainCloneContext(ctx, path, false, &git.CloneOptions{
		URL:      url,
		Progress: b.progress,
	})
	if err != nil {
		return fmt.Errorf("clone %s: %w", url, err)
	}
	return nil
}

// Fetch fetches every configured remote of the working copy at path.
// A remote that is already up to date is not an error.
func (b *GoGitBackend) Fetch(ctx context.Context, path string) error {
	repo, err := b.client.PlainOpen(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	remotes, err := repo.Remotes()
	if err != nil {
		return fmt.Errorf("list remotes of %s: %w", path, err)
	}

	var errs []error
	for _, remote := range remotes {
		name := remote.Config().Name
		b.logger.Debug().Str("path", path).Str("remote", name).Msg("Fetching remote")

		err := remote.FetchContext(ctx, &git.FetchOptions{
			RemoteName: name,
			Progress:   b.progress,
		})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			errs = append(errs, fmt.Errorf("fetch %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

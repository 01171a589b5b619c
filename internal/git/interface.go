package git

import (
	"context"

	"github.com/go-git/go-git/v5"
)

// Client defines the go-git operations used by GoGitBackend
type Client interface {
	PlainCloneContext(ctx context.Context, path string, isBare bool, o *git.CloneOptions) (*git.Repository, error)
	PlainOpen(path string) (*git.Repository, error)
}

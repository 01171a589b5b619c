package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/quantmind-br/reposync/internal/domain"
	"github.com/quantmind-br/reposync/internal/utils"
)

// Ensure GHSource implements domain.Source
var _ domain.Source = (*GHSource)(nil)

// DefaultGHBinary is the GitHub CLI executable looked up on PATH
const DefaultGHBinary = "gh"

// Runner executes a command and returns its standard output
type Runner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct{}

// Output runs name with args. On a non-zero exit the captured stderr is
// folded into the returned error.
func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return out, fmt.Errorf("%w: %s", err, msg)
			}
		}
		return out, err
	}
	return out, nil
}

// GHSource lists the repositories of a GitHub owner with the gh CLI
type GHSource struct {
	org    string
	limit  int
	binary string
	runner Runner
	logger *utils.Logger
}

// GHSourceOptions configures a GHSource
type GHSourceOptions struct {
	Org    string
	Limit  int
	Binary string
	Runner Runner
	Logger *utils.Logger
}

// NewGHSource creates a GHSource
func NewGHSource(opts GHSourceOptions) *GHSource {
	s := &GHSource{
		org:    opts.Org,
		limit:  opts.Limit,
		binary: opts.Binary,
		runner: opts.Runner,
		logger: opts.Logger,
	}
	if s.binary == "" {
		s.binary = DefaultGHBinary
	}
	if s.runner == nil {
		s.runner = ExecRunner{}
	}
	if s.limit < 1 {
		s.limit = 1000
	}
	if s.logger == nil {
		s.logger = utils.NewNopLogger()
	}
	return s
}

// Name returns the source name
func (s *GHSource) Name() string {
	return "gh"
}

// Args returns the arguments passed to the gh binary
func (s *GHSource) Args() []string {
	return []string{"repo", "list", s.org, "--json", FieldSSHURL + "," + FieldURL, "-L", strconv.Itoa(s.limit)}
}

// List runs gh once and parses its output
func (s *GHSource) List(ctx context.Context, transport domain.Transport) ([]domain.Descriptor, error) {
	args := s.Args()
	command := s.binary + " " + strings.Join(args, " ")

	s.logger.Debug().Str("command", command).Msg("Listing repositories")

	out, err := s.runner.Output(ctx, s.binary, args...)
	if err != nil {
		return nil, domain.NewSourceError(command, err)
	}

	descriptors, err := ParseListing(out, transport)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", command, err)
	}

	s.logger.Debug().Int("count", len(descriptors)).Str("org", s.org).Msg("Listed repositories")
	return descriptors, nil
}

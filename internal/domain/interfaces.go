package domain

import "context"

// Source supplies the raw list of repository descriptors for a batch
type Source interface {
	// Name returns a short identifier used in logs
	Name() string
	// List retrieves every descriptor, using transport for URL selection
	List(ctx context.Context, transport Transport) ([]Descriptor, error)
}

// Backend performs the actual transfer for a job
type Backend interface {
	// Clone creates a new working copy of url at path
	Clone(ctx context.Context, url, path string) error
	// Fetch refreshes all remote-tracking references of the working copy at path
	Fetch(ctx context.Context, path string) error
}

// Recorder persists the outcome of finished jobs
type Recorder interface {
	Record(ctx context.Context, batchID string, result JobResult) error
	Close() error
}

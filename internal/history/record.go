package history

import (
	"time"

	"github.com/quantmind-br/reposync/internal/domain"
)

// KeyPrefix namespaces repository records in the store
const KeyPrefix = "repo:"

// Record is the last known outcome of syncing one repository
type Record struct {
	Name       string        `json:"name"`
	Action     domain.Action `json:"action"`
	URL        string        `json:"url"`
	OK         bool          `json:"ok"`
	Error      string        `json:"error,omitempty"`
	BatchID    string        `json:"batch_id"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"duration"`
}

// NewRecord converts a job result into a Record
func NewRecord(batchID string, result domain.JobResult, finishedAt time.Time) Record {
	rec := Record{
		Name:       result.Job.Name(),
		Action:     result.Job.Action,
		URL:        result.Job.Descriptor.URL(),
		OK:         result.OK(),
		BatchID:    batchID,
		FinishedAt: finishedAt,
		Duration:   result.Duration,
	}
	if result.Err != nil {
		rec.Error = result.Err.Error()
	}
	return rec
}

// Key returns the store key for a repository name
func Key(name string) string {
	return KeyPrefix + name
}

// Options contains history store options
type Options struct {
	Directory string
	InMemory  bool
	Logger    bool
}

package domain

import (
	"strings"
	"time"
)

// Transport selects which URL of a repository is used for cloning
type Transport string

const (
	TransportSSH   Transport = "ssh"
	TransportHTTPS Transport = "https"
)

// ParseTransport converts a flag or config value into a Transport
func ParseTransport(s string) (Transport, error) {
	switch Transport(strings.ToLower(strings.TrimSpace(s))) {
	case "", TransportSSH:
		return TransportSSH, nil
	case TransportHTTPS:
		return TransportHTTPS, nil
	default:
		return "", NewConfigError("transport", "must be ssh or https, got "+s)
	}
}

// Action is what a job does to its working copy
type Action string

const (
	ActionClone Action = "clone"
	ActionFetch Action = "fetch"
)

// Descriptor identifies one remote repository.
// Descriptors are built once per batch and passed by value afterwards.
type Descriptor struct {
	Name      string    `json:"name" yaml:"name"`
	SSHURL    string    `json:"ssh_url" yaml:"ssh_url"`
	HTTPSURL  string    `json:"https_url,omitempty" yaml:"https_url,omitempty"`
	Transport Transport `json:"transport" yaml:"transport"`
}

// NewDescriptor builds a descriptor, deriving its name from the SSH URL.
// httpsURL may be empty.
func NewDescriptor(sshURL, httpsURL string, transport Transport) Descriptor {
	if transport == "" {
		transport = TransportSSH
	}
	return Descriptor{
		Name:      RepoName(sshURL),
		SSHURL:    sshURL,
		HTTPSURL:  httpsURL,
		Transport: transport,
	}
}

// URL returns the clone URL for the descriptor's transport.
// Falls back to the SSH URL when no HTTPS URL is known.
func (d Descriptor) URL() string {
	if d.Transport == TransportHTTPS && d.HTTPSURL != "" {
		return d.HTTPSURL
	}
	return d.SSHURL
}

// RepoName returns the final "/"-delimited segment of url with a single
// trailing ".git" removed.
func RepoName(url string) string {
	name := url
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	return strings.TrimSuffix(name, ".git")
}

// Job binds a descriptor to its local path and resolved action
type Job struct {
	Descriptor Descriptor
	Path       string
	Action     Action
}

// Name returns the repository name of the job
func (j Job) Name() string {
	return j.Descriptor.Name
}

// JobResult is the outcome of a single executed job
type JobResult struct {
	Job      Job
	Err      error
	Duration time.Duration
}

// OK reports whether the job succeeded
func (r JobResult) OK() bool {
	return r.Err == nil
}

// Report summarizes a finished batch
type Report struct {
	BatchID   string
	Total     int
	Completed int
	Succeeded int
	Failed    int
	DryRun    bool
	Duration  time.Duration
	// Selected holds the descriptors that survived filtering
	Selected []Descriptor
	Results  []JobResult
}

// FailedResults returns the results of jobs that did not succeed
func (r *Report) FailedResults() []JobResult {
	var failed []JobResult
	for _, res := range r.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}

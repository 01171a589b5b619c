package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrSourceFailed indicates the repository listing could not be retrieved
	ErrSourceFailed = errors.New("repository source failed")

	// ErrMalformedListing indicates the listing payload has the wrong shape
	ErrMalformedListing = errors.New("malformed repository listing")

	// ErrInvalidConfig indicates a configuration value was rejected
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrJobFailed indicates a clone or fetch did not succeed
	ErrJobFailed = errors.New("job failed")
)

// SourceError is returned when the listing collaborator cannot be run or
// exits with a non-zero status
type SourceError struct {
	Command string
	Err     error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %q failed: %v", e.Command, e.Err)
}

func (e *SourceError) Unwrap() []error {
	return []error{ErrSourceFailed, e.Err}
}

// NewSourceError creates a new SourceError
func NewSourceError(command string, err error) *SourceError {
	return &SourceError{Command: command, Err: err}
}

// ParseError is returned when the listing payload is not a JSON array of
// objects carrying the required fields. Index is -1 when the payload as a
// whole could not be decoded.
type ParseError struct {
	Index int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("parse error: %v", e.Err)
	}
	return fmt.Sprintf("parse error at entry %d, field %s: %v", e.Index, e.Field, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrMalformedListing, e.Err}
}

// NewParseError creates a new ParseError
func NewParseError(index int, field string, err error) *ParseError {
	return &ParseError{Index: index, Field: field, Err: err}
}

// ConfigError represents a rejected configuration value
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// NewConfigError creates a new ConfigError
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// JobError wraps the failure of one clone or fetch
type JobError struct {
	Repo   string
	Action Action
	Err    error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Action, e.Repo, e.Err)
}

func (e *JobError) Unwrap() []error {
	return []error{ErrJobFailed, e.Err}
}

// NewJobError creates a new JobError
func NewJobError(repo string, action Action, err error) *JobError {
	return &JobError{Repo: repo, Action: action, Err: err}
}

// IsFatal reports whether err must abort a batch before dispatch
func IsFatal(err error) bool {
	return errors.Is(err, ErrSourceFailed) ||
		errors.Is(err, ErrMalformedListing) ||
		errors.Is(err, ErrInvalidConfig)
}

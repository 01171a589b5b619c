package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/quantmind-br/reposync/internal/domain"
)

// Listing field names, as emitted by `gh repo list --json`
const (
	FieldSSHURL = "sshUrl"
	FieldURL    = "url"
)

var (
	errNotArray     = errors.New("listing must be an array of objects")
	errMissingField = errors.New("required field missing or empty")
	errNotString    = errors.New("field must be a string")
	errBadName      = errors.New("url does not name a repository")
)

// ParseListing decodes a JSON listing into descriptors
func ParseListing(data []byte, transport domain.Transport) ([]domain.Descriptor, error) {
	var entries *[]map[string]any
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, domain.NewParseError(-1, "", err)
	}
	if entries == nil {
		return nil, domain.NewParseError(-1, "", errNotArray)
	}
	return descriptorsFromEntries(*entries, transport)
}

func descriptorsFromEntries(entries []map[string]any, transport domain.Transport) ([]domain.Descriptor, error) {
	descriptors := make([]domain.Descriptor, 0, len(entries))
	for i, entry := range entries {
		if entry == nil {
			return nil, domain.NewParseError(i, FieldSSHURL, errNotArray)
		}

		sshURL, err := stringField(entry, FieldSSHURL, true)
		if err != nil {
			return nil, domain.NewParseError(i, FieldSSHURL, err)
		}
		if !usableName(domain.RepoName(sshURL)) {
			return nil, domain.NewParseError(i, FieldSSHURL, fmt.Errorf("%w: %q", errBadName, sshURL))
		}
		webURL, err := stringField(entry, FieldURL, false)
		if err != nil {
			return nil, domain.NewParseError(i, FieldURL, err)
		}

		descriptors = append(descriptors, domain.NewDescriptor(sshURL, HTTPSCloneURL(webURL), transport))
	}
	return descriptors, nil
}

// usableName reports whether name can serve as a directory of its own
// under the sync directory.
func usableName(name string) bool {
	switch name {
	case "", ".", "..":
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

func stringField(entry map[string]any, field string, required bool) (string, error) {
	raw, ok := entry[field]
	if !ok || raw == nil {
		if required {
			return "", errMissingField
		}
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w, got %T", errNotString, raw)
	}
	if required && strings.TrimSpace(s) == "" {
		return "", errMissingField
	}
	return s, nil
}

// HTTPSCloneURL turns a repository web URL into its HTTPS clone URL
func HTTPSCloneURL(webURL string) string {
	webURL = strings.TrimSpace(webURL)
	if webURL == "" {
		return ""
	}
	webURL = strings.TrimSuffix(webURL, "/")
	if strings.HasSuffix(webURL, ".git") {
		return webURL
	}
	return webURL + ".git"
}

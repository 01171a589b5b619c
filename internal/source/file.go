package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/quantmind-br/reposync/internal/domain"
)

// Ensure FileSource implements domain.Source
var _ domain.Source = (*FileSource)(nil)

// ErrUnsupportedExt indicates a listing file with an unknown extension
var ErrUnsupportedExt = errors.New("unsupported listing file extension (use .json, .yaml, or .yml)")

// FileSource reads a saved listing from disk
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name returns the source name
func (s *FileSource) Name() string {
	return "file"
}

// List reads and parses the listing file. Read failures are source errors;
// shape violations are parse errors.
func (s *FileSource) List(ctx context.Context, transport domain.Transport) ([]domain.Descriptor, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, domain.NewSourceError("read "+s.path, err)
	}

	descriptors, err := ParseListingFile(data, filepath.Ext(s.path), transport)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return descriptors, nil
}

// ParseListingFile parses listing bytes according to the file extension
func ParseListingFile(data []byte, ext string, transport domain.Transport) ([]domain.Descriptor, error) {
	switch strings.ToLower(ext) {
	case ".json":
		return ParseListing(data, transport)
	case ".yaml", ".yml":
		var entries *[]map[string]any
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, domain.NewParseError(-1, "", err)
		}
		if entries == nil {
			return nil, domain.NewParseError(-1, "", errNotArray)
		}
		return descriptorsFromEntries(*entries, transport)
	default:
		return nil, domain.NewConfigError("source.file", fmt.Sprintf("%v: %s", ErrUnsupportedExt, ext))
	}
}

package storage

import (
	"errors"
	"fmt"

	"github.com/revelaction/mindmap/graph"
	sent "github.com/revelaction/mindmap/sentence"
)

// ErrNotFound is returned when a key or graph name is not stored.
var ErrNotFound = errors.New("not found")

// DocReader defines read operations for annotated document storage
type DocReader interface {
	// Read returns the doc stored under key
	Read(key string) (sent.Doc, error)

	// List returns the metadata (Title holds the key) of all documents.
	// Content (Tokens) is not loaded.
	List() ([]sent.Doc, error)
}

// DocWriter defines write operations for document storage
type DocWriter interface {
	// Write persists a document under key, replacing any previous one
	Write(key string, doc sent.Doc) error
}

// DocRepository combines read and write operations
type DocRepository interface {
	DocReader
	DocWriter
}

// GraphReader defines read operations for graph storage
type GraphReader interface {
	// ReadGraph returns the graph stored under name
	ReadGraph(name string) (*graph.Graph, error)

	// ListGraphs returns the stored graph names, sorted alphabetically.
	ListGraphs() ([]string, error)
}

// GraphWriter defines write operations for graph storage
type GraphWriter interface {
	// WriteGraph persists g under name, replacing any previous one
	WriteGraph(name string, g *graph.Graph) error
}

// GraphRepository combines read and write operations
type GraphRepository interface {
	GraphReader
	GraphWriter
}

// Repository is a store for both docs and graphs.
type Repository interface {
	DocRepository
	GraphRepository
	Close() error
}

// ErrInvalidName is returned for keys or graph names that can not be used as
// file names.
var ErrInvalidName = errors.New("invalid name")

// ValidateName accepts names made of letters, digits, '.', '_' and '-' that do
// not start with a dot.
func ValidateName(name string) error {
	if name == "" || name[0] == '.' || len(name) > 200 {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '_', r == '-':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}

	return nil
}

package filesystem

import (
	"path/filepath"

	"github.com/revelaction/mindmap/storage"
)

const (
	DocDir   = "docs"
	GraphDir = "graphs"
)

// Store is a directory holding a docs/ and a graphs/ subdirectory.
type Store struct {
	*DocStore
	*GraphStore
}

var _ storage.Repository = (*Store)(nil)

func NewStore(root string) (*Store, error) {
	ds, err := NewDocStore(filepath.Join(root, DocDir))
	if err != nil {
		return nil, err
	}

	gs, err := NewGraphStore(filepath.Join(root, GraphDir))
	if err != nil {
		return nil, err
	}

	return &Store{DocStore: ds, GraphStore: gs}, nil
}

func (s *Store) Close() error {
	return nil
}

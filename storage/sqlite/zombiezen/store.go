package zombiezen

import (
	"github.com/revelaction/mindmap/storage"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Store keeps docs and graphs in one SQLite database.
type Store struct {
	*DocStore
	*GraphStore

	pool *sqlitex.Pool
}

var _ storage.Repository = (*Store)(nil)

// Open opens (or creates) the database at dbPath and its tables.
func Open(dbPath string) (*Store, error) {
	pool, err := NewPool(dbPath)
	if err != nil {
		return nil, err
	}

	if err := CreateSchemas(pool, DocsSchema, GraphsSchema); err != nil {
		pool.Close()
		return nil, err
	}

	return &Store{
		DocStore:   NewDocStore(pool),
		GraphStore: NewGraphStore(pool),
		pool:       pool,
	}, nil
}

func (s *Store) Close() error {
	return s.pool.Close()
}

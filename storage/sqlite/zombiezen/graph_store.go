package zombiezen

import (
	"context"
	"fmt"

	"github.com/revelaction/mindmap/graph"
	"github.com/revelaction/mindmap/storage"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

type GraphStore struct {
	pool *sqlitex.Pool
}

var _ storage.GraphRepository = (*GraphStore)(nil)

func NewGraphStore(pool *sqlitex.Pool) *GraphStore {
	return &GraphStore{pool: pool}
}

func (h *GraphStore) ListGraphs() ([]string, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	names := []string{}
	err = sqlitex.Execute(conn, "SELECT name FROM graphs ORDER BY name", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			names = append(names, stmt.ColumnText(0))
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return names, nil
}

func (h *GraphStore) ReadGraph(name string) (*graph.Graph, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	var data string
	found := false
	err = sqlitex.Execute(conn, "SELECT data FROM graphs WHERE name = ?", &sqlitex.ExecOptions{
		Args: []interface{}{name},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			data = stmt.ColumnText(0)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: graph %s", storage.ErrNotFound, name)
	}

	g, err := graph.Unmarshal([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("graph %s: %w", name, err)
	}

	return g, nil
}

func (h *GraphStore) WriteGraph(name string, g *graph.Graph) (err error) {
	if err := storage.ValidateName(name); err != nil {
		return err
	}

	data, err := graph.Marshal(g)
	if err != nil {
		return err
	}

	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	defer sqlitex.Save(conn)(&err)

	err = sqlitex.Execute(conn, `INSERT INTO graphs (name, num_nodes, num_edges, data) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET num_nodes = excluded.num_nodes, num_edges = excluded.num_edges,
		data = excluded.data, updated_at = CURRENT_TIMESTAMP`, &sqlitex.ExecOptions{
		Args: []interface{}{name, g.NumNodes(), g.NumEdges(), string(data)},
	})
	if err != nil {
		return fmt.Errorf("failed to insert graph: %w", err)
	}

	return nil
}

package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/revelaction/mindmap/graph"
	"github.com/revelaction/mindmap/storage"
)

// GraphStore keeps one portable JSON file per graph.
type GraphStore struct {
	root string
}

var _ storage.GraphRepository = (*GraphStore)(nil)

func NewGraphStore(root string) (*GraphStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create graph directory: %w", err)
	}

	return &GraphStore{root: root}, nil
}

func (gs *GraphStore) ListGraphs() ([]string, error) {
	return jsonNames(gs.root)
}

func (gs *GraphStore) ReadGraph(name string) (*graph.Graph, error) {
	if err := storage.ValidateName(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(gs.root, name+".json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: graph %s", storage.ErrNotFound, name)
		}
		return nil, err
	}

	g, err := graph.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("graph %s: %w", name, err)
	}

	return g, nil
}

func (gs *GraphStore) WriteGraph(name string, g *graph.Graph) error {
	if err := storage.ValidateName(name); err != nil {
		return err
	}

	data, err := graph.Marshal(g)
	if err != nil {
		return err
	}

	return writeFile(filepath.Join(gs.root, name+".json"), data)
}

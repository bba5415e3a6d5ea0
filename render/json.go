package render

import (
	"encoding/json"
	"io"

	"github.com/revelaction/mindmap/graph"
)

// JSON writes g in the portable format.
func JSON(w io.Writer, g *graph.Graph) error {
	data, err := graph.Marshal(g)
	if err != nil {
		return err
	}

	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// Cytoscape writes the Cytoscape.js element list of g.
func Cytoscape(w io.Writer, g *graph.Graph) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(graph.ToCytoscape(g))
}

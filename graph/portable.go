package graph

import (
	"encoding/json"
	"fmt"
)

// Portable is the flat, serializable projection of a Graph used by export,
// import and the HTTP API.
type Portable struct {
	Nodes []PortableNode `json:"nodes"`
	Edges []PortableEdge `json:"edges"`
}

type PortableNode struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Role    Role   `json:"role"`
	Tooltip string `json:"tooltip"`
}

type PortableEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// ToPortable flattens g. Nodes and edges keep the graph insertion order; the
// slices are never nil so an empty graph encodes as empty JSON arrays.
func ToPortable(g *Graph) Portable {
	p := Portable{
		Nodes: make([]PortableNode, 0, g.NumNodes()),
		Edges: make([]PortableEdge, 0, g.NumEdges()),
	}

	for _, n := range g.Nodes() {
		p.Nodes = append(p.Nodes, PortableNode(n))
	}

	for _, e := range g.Edges() {
		p.Edges = append(p.Edges, PortableEdge(e))
	}

	return p
}

// FromPortable rebuilds a Graph. Duplicated nodes or edges collapse with the
// last one winning. Nodes with an empty id or unknown role, self-loops and
// edges to unknown nodes are rejected.
func FromPortable(p Portable) (*Graph, error) {
	g := New()
	for i, n := range p.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node %d: empty id", i)
		}

		if !n.Role.Valid() {
			return nil, fmt.Errorf("node %q: unknown role %q", n.ID, n.Role)
		}

		g.SetNode(Node(n))
	}

	for i, e := range p.Edges {
		if e.Source == e.Target {
			return nil, fmt.Errorf("edge %d: self-loop on %q", i, e.Source)
		}

		if _, ok := g.Node(e.Source); !ok {
			return nil, fmt.Errorf("edge %d: unknown source node %q", i, e.Source)
		}

		if _, ok := g.Node(e.Target); !ok {
			return nil, fmt.Errorf("edge %d: unknown target node %q", i, e.Target)
		}

		g.SetEdge(Edge(e))
	}

	return g, nil
}

// Marshal encodes g in the portable JSON format.
func Marshal(g *Graph) ([]byte, error) {
	return json.MarshalIndent(ToPortable(g), "", "  ")
}

// Unmarshal decodes a graph in the portable JSON format.
func Unmarshal(data []byte) (*Graph, error) {
	var p Portable
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding portable graph: %w", err)
	}

	return FromPortable(p)
}

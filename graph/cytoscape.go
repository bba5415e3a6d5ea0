package graph

import (
	"encoding/json"
	"fmt"
)

// CytoscapeElements represents the Cytoscape.js data format.
type CytoscapeElements struct {
	Nodes []CytoscapeNode `json:"nodes"`
	Edges []CytoscapeEdge `json:"edges"`
}

// CytoscapeNode represents a node in Cytoscape.js format.
type CytoscapeNode struct {
	Data PortableNode `json:"data"`
}

// CytoscapeEdge represents an edge in Cytoscape.js format.
type CytoscapeEdge struct {
	Data CytoscapeEdgeData `json:"data"`
}

// CytoscapeEdgeData contains the edge data fields.
type CytoscapeEdgeData struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// ToCytoscape converts g to the Cytoscape.js element list.
func ToCytoscape(g *Graph) CytoscapeElements {
	elements := CytoscapeElements{
		Nodes: make([]CytoscapeNode, 0, g.NumNodes()),
		Edges: make([]CytoscapeEdge, 0, g.NumEdges()),
	}

	taken := make(map[string]bool, g.NumNodes())
	for _, n := range g.Nodes() {
		elements.Nodes = append(elements.Nodes, CytoscapeNode{Data: PortableNode(n)})
		taken[n.ID] = true
	}

	for i, e := range g.Edges() {
		elements.Edges = append(elements.Edges, CytoscapeEdge{
			Data: CytoscapeEdgeData{
				ID:     edgeID(i, taken),
				Source: e.Source,
				Target: e.Target,
				Label:  e.Label,
			},
		})
	}

	return elements
}

// ToCytoscapeJSON converts g to Cytoscape.js JSON format.
func ToCytoscapeJSON(g *Graph) (string, error) {
	jsonBytes, err := json.Marshal(ToCytoscape(g))
	if err != nil {
		return "", fmt.Errorf("marshaling Cytoscape elements to JSON: %w", err)
	}
	return string(jsonBytes), nil
}

// edgeID returns "e<i>", prefixed with underscores until it differs from
// every node id. Cytoscape ids are shared by nodes and edges.
func edgeID(i int, taken map[string]bool) string {
	id := fmt.Sprintf("e%d", i)
	for taken[id] {
		id = "_" + id
	}
	taken[id] = true
	return id
}

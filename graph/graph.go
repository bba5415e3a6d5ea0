// Package graph contains the mind map graph: text nodes with a role and
// directed head -> dependent edges labeled with a dependency relation.
package graph

import "fmt"

// Role is the rendering class of a node.
type Role string

const (
	RoleRoot Role = "root"
	RoleVerb Role = "verb"
	RoleAdj  Role = "adj"
	RoleNoun Role = "noun"
)

// Roles returns all valid roles.
func Roles() []Role {
	return []Role{RoleRoot, RoleVerb, RoleAdj, RoleNoun}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleRoot, RoleVerb, RoleAdj, RoleNoun:
		return true
	}
	return false
}

// Tooltip returns the human readable description of the role.
func (r Role) Tooltip() string {
	return string(r)
}

// Node is a word or phrase of the mind map. ID is the surface text.
type Node struct {
	ID      string
	Label   string
	Role    Role
	Tooltip string
}

// Edge connects a head node to a dependent node.
type Edge struct {
	Source string
	Target string
	Label  string
}

type edgeKey struct {
	source, target string
}

// Graph is a simple directed graph. Nodes are unique by ID and edges by the
// ordered (Source, Target) pair; setting an existing node or edge overwrites
// its attributes. Nodes and edges keep their first insertion order.
//
// A Graph is not safe for concurrent mutation.
type Graph struct {
	nodes     map[string]Node
	nodeOrder []string

	edges     map[edgeKey]Edge
	edgeOrder []edgeKey
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes: map[string]Node{},
		edges: map[edgeKey]Edge{},
	}
}

// SetNode inserts the node or overwrites the attributes of the node with the
// same ID (last write wins). An empty Label defaults to the ID.
func (g *Graph) SetNode(n Node) {
	if n.Label == "" {
		n.Label = n.ID
	}

	if _, ok := g.nodes[n.ID]; !ok {
		g.nodeOrder = append(g.nodeOrder, n.ID)
	}

	g.nodes[n.ID] = n
}

// SetEdge inserts the edge or overwrites the label of the edge between the
// same ordered pair. Self-loops are refused, as are edges whose endpoints are
// not nodes of the graph. It returns whether the edge was stored.
func (g *Graph) SetEdge(e Edge) bool {
	if e.Source == e.Target {
		return false
	}

	if _, ok := g.nodes[e.Source]; !ok {
		return false
	}

	if _, ok := g.nodes[e.Target]; !ok {
		return false
	}

	k := edgeKey{e.Source, e.Target}
	if _, ok := g.edges[k]; !ok {
		g.edgeOrder = append(g.edgeOrder, k)
	}

	g.edges[k] = e
	return true
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Edge returns the edge from source to target.
func (g *Graph) Edge(source, target string) (Edge, bool) {
	e, ok := g.edges[edgeKey{source, target}]
	return e, ok
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		nodes = append(nodes, g.nodes[id])
	}

	return nodes
}

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, len(g.edgeOrder))
	for _, k := range g.edgeOrder {
		edges = append(edges, g.edges[k])
	}

	return edges
}

// Successors returns the targets of the edges leaving id, in edge insertion
// order.
func (g *Graph) Successors(id string) []string {
	var out []string
	for _, k := range g.edgeOrder {
		if k.source == id {
			out = append(out, k.target)
		}
	}

	return out
}

// InDegree returns the number of edges entering id.
func (g *Graph) InDegree(id string) int {
	n := 0
	for _, k := range g.edgeOrder {
		if k.target == id {
			n++
		}
	}

	return n
}

func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

func (g *Graph) NumEdges() int {
	return len(g.edges)
}

// IsEmpty returns true if the graph has no nodes.
func (g *Graph) IsEmpty() bool {
	return len(g.nodes) == 0
}

// Equal reports whether both graphs have the same node set, edge set and
// attributes. Insertion order is ignored.
func (g *Graph) Equal(other *Graph) bool {
	if g == nil || other == nil {
		return g == other
	}

	if len(g.nodes) != len(other.nodes) || len(g.edges) != len(other.edges) {
		return false
	}

	for id, n := range g.nodes {
		if o, ok := other.nodes[id]; !ok || o != n {
			return false
		}
	}

	for k, e := range g.edges {
		if o, ok := other.edges[k]; !ok || o != e {
			return false
		}
	}

	return true
}

// Validate checks the graph invariants: non empty ids, known roles and no
// self-loops.
func (g *Graph) Validate() error {
	for _, n := range g.Nodes() {
		if n.ID == "" {
			return fmt.Errorf("node with empty id")
		}

		if !n.Role.Valid() {
			return fmt.Errorf("node %q has unknown role %q", n.ID, n.Role)
		}
	}

	for _, e := range g.Edges() {
		if e.Source == e.Target {
			return fmt.Errorf("self-loop on node %q", e.Source)
		}
	}

	return nil
}

package graph

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func sample() *Graph {
	g := New()
	g.SetNode(Node{ID: "chased", Role: RoleRoot, Tooltip: "root"})
	g.SetNode(Node{ID: "cat", Role: RoleNoun, Tooltip: "noun"})
	g.SetNode(Node{ID: "mouse", Role: RoleNoun, Tooltip: "noun"})
	g.SetEdge(Edge{Source: "chased", Target: "cat", Label: "nsubj"})
	g.SetEdge(Edge{Source: "chased", Target: "mouse", Label: "dobj"})
	return g
}

func TestSetNodeLastWriteWins(t *testing.T) {
	g := New()
	g.SetNode(Node{ID: "fast", Role: RoleNoun, Tooltip: "noun"})
	g.SetNode(Node{ID: "other", Role: RoleNoun, Tooltip: "noun"})
	g.SetNode(Node{ID: "fast", Role: RoleAdj, Tooltip: "adj"})

	if g.NumNodes() != 2 {
		t.Fatalf("expected 2 nodes, got %d", g.NumNodes())
	}

	n, _ := g.Node("fast")
	if n.Role != RoleAdj {
		t.Errorf("expected role adj, got %q", n.Role)
	}

	if n.Label != "fast" {
		t.Errorf("expected label to default to id, got %q", n.Label)
	}

	// overwrite keeps the first insertion position
	if g.Nodes()[0].ID != "fast" {
		t.Errorf("expected fast first, got %q", g.Nodes()[0].ID)
	}
}

func TestSetEdge(t *testing.T) {
	g := sample()

	if g.SetEdge(Edge{Source: "cat", Target: "cat", Label: "x"}) {
		t.Errorf("self-loop must be refused")
	}

	if g.SetEdge(Edge{Source: "cat", Target: "dog", Label: "x"}) {
		t.Errorf("edge to unknown node must be refused")
	}

	if !g.SetEdge(Edge{Source: "chased", Target: "cat", Label: "obj"}) {
		t.Errorf("overwrite must be accepted")
	}

	if g.NumEdges() != 2 {
		t.Fatalf("expected 2 edges, got %d", g.NumEdges())
	}

	e, _ := g.Edge("chased", "cat")
	if e.Label != "obj" {
		t.Errorf("expected overwritten label obj, got %q", e.Label)
	}

	// the reverse pair is a different edge
	if !g.SetEdge(Edge{Source: "cat", Target: "chased", Label: "rev"}) {
		t.Errorf("reverse edge must be accepted")
	}

	if g.NumEdges() != 3 {
		t.Errorf("expected 3 edges, got %d", g.NumEdges())
	}
}

func TestSuccessorsAndInDegree(t *testing.T) {
	g := sample()

	if diff := cmp.Diff([]string{"cat", "mouse"}, g.Successors("chased")); diff != "" {
		t.Errorf("successors mismatch (-want +got):\n%s", diff)
	}

	if g.InDegree("chased") != 0 || g.InDegree("cat") != 1 {
		t.Errorf("unexpected in degrees")
	}
}

func TestEqualIgnoresOrder(t *testing.T) {
	a := sample()

	b := New()
	b.SetNode(Node{ID: "mouse", Role: RoleNoun, Tooltip: "noun"})
	b.SetNode(Node{ID: "cat", Role: RoleNoun, Tooltip: "noun"})
	b.SetNode(Node{ID: "chased", Role: RoleRoot, Tooltip: "root"})
	b.SetEdge(Edge{Source: "chased", Target: "mouse", Label: "dobj"})
	b.SetEdge(Edge{Source: "chased", Target: "cat", Label: "nsubj"})

	if !a.Equal(b) {
		t.Fatalf("graphs should be equal")
	}

	b.SetNode(Node{ID: "cat", Role: RoleVerb, Tooltip: "verb"})
	if a.Equal(b) {
		t.Errorf("graphs with different attributes should differ")
	}
}

func TestPortableRoundTrip(t *testing.T) {
	g := sample()

	data, err := Marshal(g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !g.Equal(got) {
		t.Errorf("round trip lost data:\n%s", data)
	}

	// portable projections match ignoring order
	opts := []cmp.Option{
		cmpopts.SortSlices(func(a, b PortableNode) bool { return a.ID < b.ID }),
		cmpopts.SortSlices(func(a, b PortableEdge) bool { return a.Source+a.Target < b.Source+b.Target }),
	}
	if diff := cmp.Diff(ToPortable(g), ToPortable(got), opts...); diff != "" {
		t.Errorf("portable mismatch (-want +got):\n%s", diff)
	}
}

func TestPortableEmpty(t *testing.T) {
	data, err := json.Marshal(ToPortable(New()))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if string(data) != `{"nodes":[],"edges":[]}` {
		t.Errorf("unexpected empty encoding %s", data)
	}
}

func TestFromPortableErrors(t *testing.T) {
	tests := []struct {
		name string
		p    Portable
		want string
	}{
		{
			name: "empty id",
			p:    Portable{Nodes: []PortableNode{{ID: "", Role: RoleNoun}}},
			want: "empty id",
		},
		{
			name: "unknown role",
			p:    Portable{Nodes: []PortableNode{{ID: "x", Role: "adverb"}}},
			want: "unknown role",
		},
		{
			name: "self-loop",
			p: Portable{
				Nodes: []PortableNode{{ID: "x", Role: RoleNoun}},
				Edges: []PortableEdge{{Source: "x", Target: "x"}},
			},
			want: "self-loop",
		},
		{
			name: "unknown target",
			p: Portable{
				Nodes: []PortableNode{{ID: "x", Role: RoleNoun}},
				Edges: []PortableEdge{{Source: "x", Target: "y"}},
			},
			want: "unknown target",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromPortable(tt.p)
			if err == nil {
				t.Fatalf("expected error")
			}

			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestUnmarshalInvalidJSON(t *testing.T) {
	if _, err := Unmarshal([]byte("{")); err == nil {
		t.Errorf("expected decoding error")
	}
}

func TestToCytoscapeJSON(t *testing.T) {
	s, err := ToCytoscapeJSON(sample())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var elements CytoscapeElements
	if err := json.Unmarshal([]byte(s), &elements); err != nil {
		t.Fatalf("invalid json: %v", err)
	}

	if len(elements.Nodes) != 3 || len(elements.Edges) != 2 {
		t.Fatalf("expected 3 nodes and 2 edges, got %d and %d", len(elements.Nodes), len(elements.Edges))
	}

	if elements.Edges[0].Data.ID != "e0" || elements.Edges[0].Data.Source != "chased" {
		t.Errorf("unexpected edge id %q", elements.Edges[0].Data.ID)
	}

	if elements.Nodes[0].Data.Role != RoleRoot {
		t.Errorf("expected root role on first node, got %q", elements.Nodes[0].Data.Role)
	}
}

func TestValidate(t *testing.T) {
	if err := sample().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g := New()
	g.SetNode(Node{ID: "x", Role: "bogus"})
	if err := g.Validate(); err == nil {
		t.Errorf("expected role error")
	}
}

func TestToCytoscapeUniqueIDs(t *testing.T) {
	g := New()
	g.SetNode(Node{ID: "a->b", Role: RoleRoot})
	g.SetNode(Node{ID: "c", Role: RoleNoun})
	g.SetNode(Node{ID: "a", Role: RoleNoun})
	g.SetNode(Node{ID: "b->c", Role: RoleNoun})
	g.SetNode(Node{ID: "e1", Role: RoleNoun})
	g.SetEdge(Edge{Source: "a->b", Target: "c", Label: "dobj"})
	g.SetEdge(Edge{Source: "a", Target: "b->c", Label: "dobj"})

	elements := ToCytoscape(g)

	seen := map[string]bool{}
	for _, n := range elements.Nodes {
		seen[n.Data.ID] = true
	}

	for _, e := range elements.Edges {
		if seen[e.Data.ID] {
			t.Errorf("duplicate element id %q", e.Data.ID)
		}
		seen[e.Data.ID] = true
	}

	if elements.Edges[1].Data.ID != "_e1" {
		t.Errorf("expected edge id to avoid node e1, got %q", elements.Edges[1].Data.ID)
	}
}

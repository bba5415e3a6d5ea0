package search

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/revelaction/mindmap/graph"
	"github.com/revelaction/mindmap/storage/filesystem"
)

func store(t *testing.T) *filesystem.GraphStore {
	t.Helper()

	gs, err := filesystem.NewGraphStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	cat := graph.New()
	cat.SetNode(graph.Node{ID: "chased", Role: graph.RoleRoot})
	cat.SetNode(graph.Node{ID: "cat", Role: graph.RoleNoun})
	cat.SetNode(graph.Node{ID: "mouse", Role: graph.RoleNoun})
	cat.SetEdge(graph.Edge{Source: "chased", Target: "cat", Label: "nsubj"})
	cat.SetEdge(graph.Edge{Source: "chased", Target: "mouse", Label: "dobj"})

	app := graph.New()
	app.SetNode(graph.Node{ID: "Build A Delivery App", Role: graph.RoleRoot})
	app.SetNode(graph.Node{ID: "Delivery App", Role: graph.RoleNoun})
	app.SetNode(graph.Node{ID: "Catalog", Role: graph.RoleNoun})
	app.SetEdge(graph.Edge{Source: "Build A Delivery App", Target: "Delivery App", Label: "dobj"})

	if err := gs.WriteGraph("cat", cat); err != nil {
		t.Fatal(err)
	}
	if err := gs.WriteGraph("app", app); err != nil {
		t.Fatal(err)
	}

	return gs
}

func collect(t *testing.T, s *Search, terms ...string) []string {
	t.Helper()

	var got []string
	err := s.Nodes(terms, func(m Match) error {
		got = append(got, m.Graph+":"+m.Node.ID)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return got
}

func TestNodes(t *testing.T) {
	s := New(store(t))

	want := []string{"app:Catalog", "cat:cat"}
	if diff := cmp.Diff(want, collect(t, s, "CAT")); diff != "" {
		t.Errorf("matches mismatch (-want +got):\n%s", diff)
	}

	want = []string{"app:Build A Delivery App", "app:Delivery App"}
	if diff := cmp.Diff(want, collect(t, s, "delivery", "app")); diff != "" {
		t.Errorf("matches mismatch (-want +got):\n%s", diff)
	}
}

func TestNodesRoleAndLimit(t *testing.T) {
	s := New(store(t)).WithRole(graph.RoleRoot)
	if diff := cmp.Diff([]string{"app:Build A Delivery App"}, collect(t, s, "app")); diff != "" {
		t.Errorf("matches mismatch (-want +got):\n%s", diff)
	}

	s = New(store(t)).WithLimit(1)
	if got := collect(t, s, "a"); len(got) != 1 {
		t.Errorf("expected 1 match, got %v", got)
	}
}

func TestNeighbors(t *testing.T) {
	var got []string
	New(store(t)).Nodes([]string{"mouse"}, func(m Match) error {
		got = m.Neighbors
		return nil
	})

	if diff := cmp.Diff([]string{"chased"}, got); diff != "" {
		t.Errorf("neighbors mismatch (-want +got):\n%s", diff)
	}
}

func TestNodesErrors(t *testing.T) {
	s := New(store(t))

	if err := s.Nodes(nil, func(Match) error { return nil }); err == nil {
		t.Errorf("expected error without terms")
	}

	if err := s.WithRole("adverb").Nodes([]string{"x"}, func(Match) error { return nil }); err == nil {
		t.Errorf("expected unknown role error")
	}

	stop := errors.New("stop")
	err := New(store(t)).Nodes([]string{"a"}, func(Match) error { return stop })
	if !errors.Is(err, stop) {
		t.Errorf("expected callback error, got %v", err)
	}
}

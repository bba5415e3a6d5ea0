package stat

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/revelaction/mindmap/graph"
	sent "github.com/revelaction/mindmap/sentence"
	"github.com/revelaction/mindmap/sentence/sentencetest"
)

func TestAggregate(t *testing.T) {
	h := NewHandler()
	h.Aggregate(sentencetest.TwoSentences())
	h.Aggregate(sentencetest.CatChasedMouse())

	s := h.Get()
	if s.NumDocs != 2 || s.NumSentences != 3 || s.NumTokens != 13 {
		t.Errorf("unexpected stats %+v", s)
	}

	if s.TokensPerSentenceMean != 4 {
		t.Errorf("expected mean 4, got %d", s.TokensPerSentenceMean)
	}

	if s.TokensPerSentenceDis[6] != 1 {
		t.Errorf("expected one sentence of 6 tokens, got %v", s.TokensPerSentenceDis)
	}
}

func TestAggregateEmptyDoc(t *testing.T) {
	h := NewHandler()
	h.Aggregate(sent.Doc{})

	if s := h.Get(); s.NumDocs != 1 || s.TokensPerSentenceMean != 0 {
		t.Errorf("unexpected stats %+v", s)
	}
}

func TestGraph(t *testing.T) {
	g := graph.New()
	g.SetNode(graph.Node{ID: "chased", Role: graph.RoleRoot})
	g.SetNode(graph.Node{ID: "cat", Role: graph.RoleNoun})
	g.SetNode(graph.Node{ID: "mouse", Role: graph.RoleNoun})
	g.SetNode(graph.Node{ID: "big", Role: graph.RoleAdj})
	g.SetEdge(graph.Edge{Source: "chased", Target: "cat", Label: "nsubj"})
	g.SetEdge(graph.Edge{Source: "chased", Target: "mouse", Label: "dobj"})
	g.SetEdge(graph.Edge{Source: "mouse", Target: "big", Label: "amod"})

	want := GraphStats{
		NumNodes:  4,
		NumEdges:  3,
		Roles:     map[graph.Role]int{graph.RoleRoot: 1, graph.RoleNoun: 2, graph.RoleAdj: 1},
		Labels:    map[string]int{"nsubj": 1, "dobj": 1, "amod": 1},
		Roots:     []string{"chased"},
		MaxDegree: 2,
		Hub:       "chased",
	}

	if diff := cmp.Diff(want, Graph(g)); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestSorted(t *testing.T) {
	got := Sorted(map[string]int{"b": 2, "a": 2, "c": 5})
	want := []Count{{"c", 5}, {"a", 2}, {"b", 2}}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sorted mismatch (-want +got):\n%s", diff)
	}
}

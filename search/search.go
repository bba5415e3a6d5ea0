package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/revelaction/mindmap/graph"
	"github.com/revelaction/mindmap/storage"
)

// Match is a node of a stored graph matching the search terms.
type Match struct {
	Graph string     `json:"graph"`
	Node  graph.Node `json:"node"`

	// Neighbors are the ids of the nodes connected to Node, both ways.
	Neighbors []string `json:"neighbors"`
}

// Search finds nodes of the stored graphs whose text contains all the terms,
// ignoring case.
type Search struct {
	repo  storage.GraphReader
	role  graph.Role
	limit int
}

// New creates a new Search over the graphs of repo.
func New(repo storage.GraphReader) *Search {
	return &Search{repo: repo}
}

// WithRole restricts the matches to nodes of role.
func (s *Search) WithRole(role graph.Role) *Search {
	s.role = role
	return s
}

// WithLimit stops after n matches. Zero means no limit.
func (s *Search) WithLimit(n int) *Search {
	s.limit = n
	return s
}

// Nodes calls onMatch for every matching node, graph by graph in name order
// and node by node in insertion order. Returning an error from onMatch stops
// the search with that error.
func (s *Search) Nodes(terms []string, onMatch func(Match) error) error {
	if len(terms) == 0 {
		return errors.New("no search terms")
	}

	if s.role != "" && !s.role.Valid() {
		return fmt.Errorf("unknown role %q", s.role)
	}

	lower := make([]string, len(terms))
	for i, t := range terms {
		lower[i] = strings.ToLower(t)
	}

	names, err := s.repo.ListGraphs()
	if err != nil {
		return err
	}

	found := 0
	for _, name := range names {
		g, err := s.repo.ReadGraph(name)
		if err != nil {
			return fmt.Errorf("graph %s: %w", name, err)
		}

		for _, n := range g.Nodes() {
			if s.role != "" && n.Role != s.role {
				continue
			}

			if !containsAll(strings.ToLower(n.ID), lower) {
				continue
			}

			if err := onMatch(Match{Graph: name, Node: n, Neighbors: neighbors(g, n.ID)}); err != nil {
				return err
			}

			found++
			if s.limit > 0 && found >= s.limit {
				return nil
			}
		}
	}

	return nil
}

func containsAll(text string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(text, t) {
			return false
		}
	}
	return true
}

func neighbors(g *graph.Graph, id string) []string {
	out := []string{}
	for _, e := range g.Edges() {
		switch id {
		case e.Source:
			out = append(out, e.Target)
		case e.Target:
			out = append(out, e.Source)
		}
	}
	return out
}

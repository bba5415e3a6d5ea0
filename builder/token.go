package builder

import (
	"github.com/revelaction/mindmap/graph"
	sent "github.com/revelaction/mindmap/sentence"
)

// admitFunc decides whether a token becomes a node on its own.
type admitFunc func(t sent.Token) bool

func admitContent(t sent.Token) bool {
	return t.IsAlpha && !t.IsStop
}

func admitAlpha(t sent.Token) bool {
	return t.IsAlpha
}

// role classifies a token. ROOT takes precedence over the part of speech.
func role(t sent.Token) graph.Role {
	switch {
	case t.Dep == sent.DepRoot:
		return graph.RoleRoot
	case t.Pos == sent.PosVerb:
		return graph.RoleVerb
	case t.Pos == sent.PosAdj:
		return graph.RoleAdj
	default:
		return graph.RoleNoun
	}
}

func node(t sent.Token) graph.Node {
	r := role(t)
	return graph.Node{ID: t.Text, Label: t.Text, Role: r, Tooltip: r.Tooltip()}
}

// tokens builds the head -> dependent graph of the admitted tokens. Sentences
// and tokens are visited in surface order: a word seen several times keeps
// the role of its last visit.
//
// Heads only need to be alphabetic; a stop word governing an admitted token
// is added as well so the tree stays connected.
func tokens(doc sent.Doc, admit admitFunc) *graph.Graph {
	g := graph.New()
	for _, s := range doc.Sentences() {
		for _, t := range s {
			if !admit(t) {
				continue
			}

			g.SetNode(node(t))

			head, ok := s.HeadOf(t)
			if !ok || !head.IsAlpha {
				continue
			}

			g.SetNode(node(head))

			// same text, same node: no self-loop
			if head.Text == t.Text {
				continue
			}

			g.SetEdge(graph.Edge{Source: head.Text, Target: t.Text, Label: t.Dep})
		}
	}

	return g
}

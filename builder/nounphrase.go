package builder

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/revelaction/mindmap/graph"
	sent "github.com/revelaction/mindmap/sentence"
)

// npDeps are the dependency labels of a token heading a noun phrase.
var npDeps = map[string]bool{
	"nsubj":     true,
	"nsubjpass": true,
	"dobj":      true,
	"obj":       true,
	"iobj":      true,
	"dative":    true,
	"pobj":      true,
	"pcomp":     true,
	"attr":      true,
	"appos":     true,
	"oprd":      true,
	"ROOT":      true,
}

var nominal = map[string]bool{
	sent.PosNoun:  true,
	sent.PosPropn: true,
	sent.PosPron:  true,
}

// chunk is a noun phrase: the tokens [start, end] of a sentence, head being
// the last one.
type chunk struct {
	start int
	head  sent.Token
}

// chunks returns the noun phrases of s in surface order. Phrases never
// overlap: a phrase starting inside the previous one is skipped.
func chunks(s sent.Sentence) []chunk {
	var out []chunk
	prevEnd := -1
	for _, t := range s {
		if !nominal[t.Pos] {
			continue
		}

		left := s.LeftEdge(t)
		if left <= prevEnd {
			continue
		}

		switch {
		case npDeps[t.Dep]:
		case t.Dep == sent.DepConj:
			// walk up the conjunction chain to the first conjunct
			head := t
			for head.Dep == sent.DepConj {
				h, ok := s.HeadOf(head)
				if !ok || h.Index >= head.Index {
					break
				}
				head = h
			}

			if !npDeps[head.Dep] {
				continue
			}
		default:
			continue
		}

		prevEnd = t.Index
		out = append(out, chunk{start: left, head: t})
	}

	return out
}

// phrase returns the words of the chunk without determiners and punctuation,
// and whether any of them is a content word.
func phrase(s sent.Sentence, c chunk) (string, bool) {
	var words []string
	content := false
	for _, t := range s[c.start : c.head.Index+1] {
		if t.Dep == sent.DepDet || t.Dep == sent.DepPunct {
			continue
		}

		if !t.IsStop {
			content = true
		}
		words = append(words, t.Text)
	}

	return strings.Join(words, " "), content
}

// normalize collapses white space, trims the final punctuation and title
// cases every word.
func normalize(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	text = strings.TrimRight(text, ".!?;: ")
	return cases.Title(language.English).String(text)
}

// nounPhrases builds a star graph: a root node with the normalized text and
// one node per distinct noun phrase.
func nounPhrases(doc sent.Doc) *graph.Graph {
	g := graph.New()

	text := doc.Text
	if text == "" {
		text = surface(doc)
	}

	rootID := normalize(text)
	if rootID == "" {
		return g
	}

	g.SetNode(graph.Node{ID: rootID, Role: graph.RoleRoot, Tooltip: graph.RoleRoot.Tooltip()})

	for _, s := range doc.Sentences() {
		for _, c := range chunks(s) {
			words, content := phrase(s, c)
			if !content {
				continue
			}

			id := normalize(words)
			if id == "" || id == rootID {
				continue
			}

			g.SetNode(graph.Node{ID: id, Role: graph.RoleNoun, Tooltip: graph.RoleNoun.Tooltip()})
			g.SetEdge(graph.Edge{Source: rootID, Target: id, Label: c.head.Dep})
		}
	}

	return g
}

// surface joins the token texts of the doc.
func surface(doc sent.Doc) string {
	var words []string
	for _, tokens := range doc.Tokens {
		for _, t := range tokens {
			words = append(words, t.Text)
		}
	}

	return strings.Join(words, " ")
}

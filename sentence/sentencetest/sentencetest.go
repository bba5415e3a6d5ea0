// Package sentencetest provides annotated documents for tests, as a spacy
// en_core_web_sm pipeline would produce them.
package sentencetest

import (
	sent "github.com/revelaction/mindmap/sentence"
)

// T builds a token. Index, Head and the text derived flags are set by Doc.
type T struct {
	Text string
	Pos  string
	Dep  string
	Head int
	Stop bool
}

// Doc builds a single sentence doc from the token specs, filling Index, Id,
// Idx, IsAlpha and Lemma.
func Doc(text string, sentences ...[]T) sent.Doc {
	doc := sent.Doc{Text: text}
	id := 0
	idx := 0
	for si, specs := range sentences {
		tokens := make([]sent.Token, 0, len(specs))
		for i, s := range specs {
			tokens = append(tokens, sent.Token{
				Id:         id,
				Head:       s.Head,
				SentenceId: si,
				Pos:        s.Pos,
				Dep:        s.Dep,
				Idx:        idx,
				Text:       s.Text,
				Lemma:      s.Text,
				Index:      i,
				IsAlpha:    isAlpha(s.Text),
				IsStop:     s.Stop,
			})
			id++
			idx += len([]rune(s.Text)) + 1
		}
		doc.Tokens = append(doc.Tokens, tokens)
	}

	return doc
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

// CatChasedMouse is the parse of "The cat chased the mouse."
func CatChasedMouse() sent.Doc {
	return Doc("The cat chased the mouse.", []T{
		{Text: "The", Pos: sent.PosDet, Dep: "det", Head: 1, Stop: true},
		{Text: "cat", Pos: sent.PosNoun, Dep: "nsubj", Head: 2},
		{Text: "chased", Pos: sent.PosVerb, Dep: sent.DepRoot, Head: 2},
		{Text: "the", Pos: sent.PosDet, Dep: "det", Head: 4, Stop: true},
		{Text: "mouse", Pos: sent.PosNoun, Dep: "dobj", Head: 2},
		{Text: ".", Pos: sent.PosPunct, Dep: sent.DepPunct, Head: 2},
	})
}

// DeliveryApp is the parse of "Build a delivery app with tracking and payment"
func DeliveryApp() sent.Doc {
	return Doc("Build a delivery app with tracking and payment", []T{
		{Text: "Build", Pos: sent.PosVerb, Dep: sent.DepRoot, Head: 0},
		{Text: "a", Pos: sent.PosDet, Dep: "det", Head: 3, Stop: true},
		{Text: "delivery", Pos: sent.PosNoun, Dep: "compound", Head: 3},
		{Text: "app", Pos: sent.PosNoun, Dep: "dobj", Head: 0},
		{Text: "with", Pos: "ADP", Dep: "prep", Head: 3, Stop: true},
		{Text: "tracking", Pos: sent.PosNoun, Dep: "pobj", Head: 4},
		{Text: "and", Pos: "CCONJ", Dep: "cc", Head: 5, Stop: true},
		{Text: "payment", Pos: sent.PosNoun, Dep: "conj", Head: 5},
	})
}

// TwoSentences is the parse of "Dogs bark. Big dogs run."; the word "dogs"
// is a noun in both sentences while "Dogs" and "dogs" differ in case.
func TwoSentences() sent.Doc {
	return Doc("Dogs bark. Big dogs run.",
		[]T{
			{Text: "Dogs", Pos: sent.PosNoun, Dep: "nsubj", Head: 1},
			{Text: "bark", Pos: sent.PosVerb, Dep: sent.DepRoot, Head: 1},
			{Text: ".", Pos: sent.PosPunct, Dep: sent.DepPunct, Head: 1},
		},
		[]T{
			{Text: "Big", Pos: sent.PosAdj, Dep: "amod", Head: 1},
			{Text: "dogs", Pos: sent.PosNoun, Dep: "nsubj", Head: 2},
			{Text: "run", Pos: sent.PosVerb, Dep: sent.DepRoot, Head: 2},
			{Text: ".", Pos: sent.PosPunct, Dep: sent.DepPunct, Head: 2},
		},
	)
}

// RepeatedWord is the parse of "Dogs run fast. Bikes are fast.": "fast" is an
// adverb in the first sentence and an adjective in the second one. The root
// "are" of the second sentence is a stop word.
func RepeatedWord() sent.Doc {
	return Doc("Dogs run fast. Bikes are fast.",
		[]T{
			{Text: "Dogs", Pos: sent.PosNoun, Dep: "nsubj", Head: 1},
			{Text: "run", Pos: sent.PosVerb, Dep: sent.DepRoot, Head: 1},
			{Text: "fast", Pos: "ADV", Dep: "advmod", Head: 1},
			{Text: ".", Pos: sent.PosPunct, Dep: sent.DepPunct, Head: 1},
		},
		[]T{
			{Text: "Bikes", Pos: sent.PosNoun, Dep: "nsubj", Head: 1},
			{Text: "are", Pos: "AUX", Dep: sent.DepRoot, Head: 1, Stop: true},
			{Text: "fast", Pos: sent.PosAdj, Dep: "acomp", Head: 1},
			{Text: ".", Pos: sent.PosPunct, Dep: sent.DepPunct, Head: 1},
		},
	)
}

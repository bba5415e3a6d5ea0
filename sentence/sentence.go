package sentence

import "fmt"

// Coarse part of speech tags (Universal Dependencies, as emitted by spacy).
const (
	PosVerb  = "VERB"
	PosAdj   = "ADJ"
	PosNoun  = "NOUN"
	PosPropn = "PROPN"
	PosPron  = "PRON"
	PosDet   = "DET"
	PosPunct = "PUNCT"
)

// Dependency labels with a special meaning for the graph builders.
const (
	DepRoot  = "ROOT"
	DepPunct = "punct"
	DepDet   = "det"
	DepConj  = "conj"
)

// Doc is an annotated text: an ordered list of sentences, each one an ordered
// list of tokens.
type Doc struct {
	Id int `json:"id,omitempty"`

	Title string `json:"title,omitempty"`

	Labels []string `json:"labels,omitempty"`

	// Text is the raw text the tokens were produced from
	Text   string    `json:"text,omitempty"`
	Tokens [][]Token `json:"tokens"`
}

// Library is a collection of Doc
type Library []Doc

// Sentence is a slice of the tokens of one sentence, in surface order.
type Sentence []Token

// Token represents a word of the sentence, with POS and metadata.
type Token struct {
	Id         int    `json:"id"`
	Head       int    `json:"head"`
	SentenceId int    `json:"sent"`
	Pos        string `json:"pos"`
	Dep        string `json:"dep"`

	// A string containing detailed POS data
	Tag string `json:"tag"`

	// the index of the start character of the token in the original doc
	Idx int `json:"idx"`

	// The unmodified word
	Text string `json:"text"`

	// The lemma of the word
	Lemma string `json:"lemma"`

	// The index of the word in the sentence, starting at 0. Head points to
	// this index of the governor token.
	Index int `json:"index"`

	// IsAlpha is true if the word consists only of alphabetic characters
	IsAlpha bool `json:"is_alpha"`

	// IsStop is true for function words (the, of, and, ...)
	IsStop bool `json:"is_stop"`
}

// IsRoot reports whether the token is its own head.
func (t Token) IsRoot() bool {
	return t.Head == t.Index
}

// HeadOf returns the governor of t. It returns false if t is its own head or
// the head index is not part of the sentence.
func (s Sentence) HeadOf(t Token) (Token, bool) {
	if t.IsRoot() {
		return Token{}, false
	}

	if t.Head < 0 || t.Head >= len(s) {
		return Token{}, false
	}

	return s[t.Head], true
}

// Children returns the tokens whose head is t, in surface order.
func (s Sentence) Children(t Token) []Token {
	var children []Token
	for _, c := range s {
		if c.Index != t.Index && c.Head == t.Index {
			children = append(children, c)
		}
	}

	return children
}

// LeftEdge returns the index of the leftmost token of the subtree of t.
func (s Sentence) LeftEdge(t Token) int {
	left := t.Index
	// a dependency tree of n tokens has depth < n, the visited set guards
	// against cyclic heads coming from a broken annotation.
	visited := map[int]bool{t.Index: true}
	stack := []Token{t}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, c := range s.Children(cur) {
			if visited[c.Index] {
				continue
			}
			visited[c.Index] = true

			if c.Index < left {
				left = c.Index
			}
			stack = append(stack, c)
		}
	}

	return left
}

// Sentences returns the token slices of the doc as Sentence values.
func (d Doc) Sentences() []Sentence {
	sentences := make([]Sentence, 0, len(d.Tokens))
	for _, tokens := range d.Tokens {
		sentences = append(sentences, Sentence(tokens))
	}

	return sentences
}

// NumTokens returns the number of tokens over all sentences.
func (d Doc) NumTokens() int {
	n := 0
	for _, tokens := range d.Tokens {
		n += len(tokens)
	}

	return n
}

// IsEmpty is true when the doc has no tokens.
func (d Doc) IsEmpty() bool {
	return d.NumTokens() == 0
}

// Validate checks that every token index matches its position and every head
// points inside its sentence.
func (d Doc) Validate() error {
	for i, tokens := range d.Tokens {
		for j, t := range tokens {
			if t.Index != j {
				return fmt.Errorf("sentence %d: token %q has index %d, expected %d", i, t.Text, t.Index, j)
			}

			if t.Head < 0 || t.Head >= len(tokens) {
				return fmt.Errorf("sentence %d: token %q has dangling head %d", i, t.Text, t.Head)
			}
		}
	}

	return nil
}

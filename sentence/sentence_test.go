package sentence_test

import (
	"strings"
	"testing"

	sent "github.com/revelaction/mindmap/sentence"
	"github.com/revelaction/mindmap/sentence/sentencetest"
)

func TestHeadOf(t *testing.T) {
	doc := sentencetest.CatChasedMouse()
	s := doc.Sentences()[0]

	head, ok := s.HeadOf(s[1])
	if !ok {
		t.Fatalf("expected head for %q", s[1].Text)
	}

	if head.Text != "chased" {
		t.Errorf("expected head chased, got %q", head.Text)
	}

	if _, ok := s.HeadOf(s[2]); ok {
		t.Errorf("root token must not have a head")
	}
}

func TestHeadOfOutOfRange(t *testing.T) {
	s := sent.Sentence{{Text: "x", Index: 0, Head: 7}}
	if _, ok := s.HeadOf(s[0]); ok {
		t.Errorf("expected no head for dangling index")
	}
}

func TestLeftEdge(t *testing.T) {
	s := sentencetest.DeliveryApp().Sentences()[0]

	// app <- a, delivery, with <- tracking <- and, payment
	if got := s.LeftEdge(s[3]); got != 1 {
		t.Errorf("expected left edge 1 for app, got %d", got)
	}

	if got := s.LeftEdge(s[5]); got != 5 {
		t.Errorf("expected left edge 5 for tracking, got %d", got)
	}
}

func TestLeftEdgeCycle(t *testing.T) {
	// broken annotation: 0 -> 1 -> 0
	s := sent.Sentence{
		{Text: "a", Index: 0, Head: 1},
		{Text: "b", Index: 1, Head: 0},
	}

	if got := s.LeftEdge(s[1]); got != 0 {
		t.Errorf("expected left edge 0, got %d", got)
	}
}

func TestNumTokens(t *testing.T) {
	doc := sentencetest.TwoSentences()
	if n := doc.NumTokens(); n != 7 {
		t.Errorf("expected 7 tokens, got %d", n)
	}

	if doc.IsEmpty() {
		t.Errorf("doc should not be empty")
	}

	if !(sent.Doc{}).IsEmpty() {
		t.Errorf("zero doc should be empty")
	}
}

func TestValidate(t *testing.T) {
	if err := sentencetest.DeliveryApp().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := sentencetest.CatChasedMouse()
	doc.Tokens[0][4].Head = 9
	err := doc.Validate()
	if err == nil {
		t.Fatalf("expected dangling head error")
	}

	if !strings.Contains(err.Error(), "dangling head 9") {
		t.Errorf("unexpected error message: %v", err)
	}
}

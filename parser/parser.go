// Package parser defines the linguistic annotation collaborator: something
// that turns raw text into sentences of tokens with part of speech,
// dependency label and head.
package parser

import (
	"context"

	sent "github.com/revelaction/mindmap/sentence"
)

// Parser annotates text. Implementations are initialized once by the host
// and must be safe for concurrent use; for a given text they must return the
// same Doc every time.
type Parser interface {
	Parse(ctx context.Context, text string) (sent.Doc, error)
}

// Func adapts an ordinary function to the Parser interface.
type Func func(ctx context.Context, text string) (sent.Doc, error)

func (f Func) Parse(ctx context.Context, text string) (sent.Doc, error) {
	return f(ctx, text)
}

// Static is a Parser backed by a fixed set of annotated docs, keyed by text.
// It is useful for fixtures and for replaying stored corpora.
type Static map[string]sent.Doc

func (s Static) Parse(ctx context.Context, text string) (sent.Doc, error) {
	doc, ok := s[text]
	if !ok {
		return sent.Doc{}, &UnknownTextError{Text: text}
	}

	return doc, nil
}

// UnknownTextError is returned by Static for texts it has no annotation for.
type UnknownTextError struct {
	Text string
}

func (e *UnknownTextError) Error() string {
	return "no annotation for text " + quote(e.Text)
}

func quote(s string) string {
	const max = 40
	r := []rune(s)
	if len(r) > max {
		return `"` + string(r[:max]) + `..."`
	}
	return `"` + s + `"`
}

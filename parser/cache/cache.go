// Package cache memoizes a Parser in a document repository. Annotation is
// deterministic for a given text, so a stored doc stays valid forever.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/revelaction/mindmap/parser"
	sent "github.com/revelaction/mindmap/sentence"
	"github.com/revelaction/mindmap/storage"
)

// Parser looks text up in the repository before calling the wrapped parser.
type Parser struct {
	next parser.Parser
	repo storage.DocRepository
}

var _ parser.Parser = (*Parser)(nil)

func New(next parser.Parser, repo storage.DocRepository) *Parser {
	return &Parser{next: next, repo: repo}
}

// Key returns the storage key of text.
func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func (p *Parser) Parse(ctx context.Context, text string) (sent.Doc, error) {
	key := Key(text)

	doc, err := p.repo.Read(key)
	if err == nil {
		return doc, nil
	}

	if !errors.Is(err, storage.ErrNotFound) {
		return sent.Doc{}, fmt.Errorf("reading parse cache: %w", err)
	}

	doc, err = p.next.Parse(ctx, text)
	if err != nil {
		return sent.Doc{}, err
	}

	if doc.Text == "" {
		doc.Text = text
	}

	if err := p.repo.Write(key, doc); err != nil {
		return sent.Doc{}, fmt.Errorf("writing parse cache: %w", err)
	}

	doc.Title = key
	return doc, nil
}

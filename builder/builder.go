// Package builder converts annotated text into a mind map graph.
package builder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/revelaction/mindmap/graph"
	"github.com/revelaction/mindmap/parser"
	sent "github.com/revelaction/mindmap/sentence"
)

// Mode selects the extraction strategy.
type Mode string

const (
	// ModeTokenRole creates one node per content word, classified by role,
	// connected to its syntactic head.
	ModeTokenRole Mode = "token-role"

	// ModeNounPhrase creates one node per noun phrase, all attached to a
	// synthetic root holding the whole text.
	ModeNounPhrase Mode = "noun-phrase"

	// ModeDependency keeps every alphabetic token, stop words included, and
	// mirrors the dependency tree.
	ModeDependency Mode = "dependency"
)

const DefaultMode = ModeTokenRole

// ErrUnsupportedMode is returned for unknown extraction modes.
var ErrUnsupportedMode = errors.New("unsupported mode")

// SupportedModes returns the valid modes, the default first.
func SupportedModes() []Mode {
	return []Mode{ModeTokenRole, ModeNounPhrase, ModeDependency}
}

// ParseMode validates s. The empty string selects DefaultMode.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return DefaultMode, nil
	}

	for _, m := range SupportedModes() {
		if string(m) == s {
			return m, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupportedMode, s)
}

// ParseError wraps a failure of the annotation collaborator. No partial graph
// accompanies it.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse failure: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Builder turns text into graphs. It holds no mutable state and can be
// shared by concurrent callers as long as its Parser can.
type Builder struct {
	parser parser.Parser
	mode   Mode
}

// New returns a Builder using p for annotation and mode as default strategy.
func New(p parser.Parser, mode Mode) (*Builder, error) {
	if p == nil {
		return nil, errors.New("nil parser")
	}

	m, err := ParseMode(string(mode))
	if err != nil {
		return nil, err
	}

	return &Builder{parser: p, mode: m}, nil
}

// Mode returns the default mode of the builder.
func (b *Builder) Mode() Mode {
	return b.mode
}

// Build annotates text and builds its graph with the default mode.
func (b *Builder) Build(ctx context.Context, text string) (*graph.Graph, error) {
	return b.BuildMode(ctx, text, b.mode)
}

// BuildMode annotates text and builds its graph with the given mode. Blank
// text yields an empty graph and the parser is not called.
func (b *Builder) BuildMode(ctx context.Context, text string, mode Mode) (*graph.Graph, error) {
	m, err := ParseMode(string(mode))
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		return graph.New(), nil
	}

	doc, err := b.parser.Parse(ctx, text)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	if doc.Text == "" {
		doc.Text = text
	}

	return FromDoc(doc, m)
}

// FromDoc builds the graph of an already annotated doc. A doc whose token
// indices or heads do not fit its sentences is a *ParseError.
func FromDoc(doc sent.Doc, mode Mode) (*graph.Graph, error) {
	m, err := ParseMode(string(mode))
	if err != nil {
		return nil, err
	}

	if err := doc.Validate(); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("invalid annotation: %w", err)}
	}

	switch m {
	case ModeNounPhrase:
		return nounPhrases(doc), nil
	case ModeDependency:
		return tokens(doc, admitAlpha), nil
	default:
		return tokens(doc, admitContent), nil
	}
}

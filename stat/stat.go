package stat

import (
	"sort"

	"github.com/revelaction/mindmap/graph"
	sent "github.com/revelaction/mindmap/sentence"
)

type Handler struct {
	stats Stats
}

type Stats struct {
	NumDocs               int            `json:"num_docs"`
	NumSentences          int            `json:"num_sentences"`
	NumTokens             int            `json:"num_tokens"`
	TokensPerSentenceMean int            `json:"tokens_per_sentence_mean"`
	TokensPerSentenceDis  map[int]int    `json:"tokens_per_sentence_dis"`
	POS                   map[string]int `json:"pos"`
}

func (h *Handler) Get() Stats {
	return h.stats
}

func NewHandler() *Handler {
	stats := Stats{TokensPerSentenceDis: map[int]int{}, POS: map[string]int{}}
	return &Handler{
		stats: stats,
	}
}

// Aggregate adds the sentences of doc to the stats. It can be called for
// several docs.
func (h *Handler) Aggregate(doc sent.Doc) {
	h.stats.NumDocs++
	h.stats.NumSentences += len(doc.Tokens)
	//
	for _, tokens := range doc.Tokens {
		h.stats.NumTokens += len(tokens)
		h.stats.TokensPerSentenceDis[len(tokens)]++
		for _, t := range tokens {
			h.stats.POS[t.Pos]++
		}
	}

	if h.stats.NumSentences > 0 {
		h.stats.TokensPerSentenceMean = h.stats.NumTokens / h.stats.NumSentences
	}
}

// GraphStats describes a mind map graph.
type GraphStats struct {
	NumNodes  int                `json:"num_nodes"`
	NumEdges  int                `json:"num_edges"`
	Roles     map[graph.Role]int `json:"roles"`
	Labels    map[string]int     `json:"labels"`
	Roots     []string           `json:"roots"`
	MaxDegree int                `json:"max_out_degree"`
	Hub       string             `json:"hub,omitempty"`
}

// Graph returns the stats of g. Roots are the nodes without incoming edges,
// Hub the first node with the most outgoing edges.
func Graph(g *graph.Graph) GraphStats {
	s := GraphStats{
		NumNodes: g.NumNodes(),
		NumEdges: g.NumEdges(),
		Roles:    map[graph.Role]int{},
		Labels:   map[string]int{},
		Roots:    []string{},
	}

	for _, n := range g.Nodes() {
		s.Roles[n.Role]++

		if g.InDegree(n.ID) == 0 {
			s.Roots = append(s.Roots, n.ID)
		}

		if d := len(g.Successors(n.ID)); d > s.MaxDegree {
			s.MaxDegree = d
			s.Hub = n.ID
		}
	}

	for _, e := range g.Edges() {
		s.Labels[e.Label]++
	}

	return s
}

// Count is a key with its number of occurrences.
type Count struct {
	Key   string
	Count int
}

// Sorted returns the entries of m by descending count, then key.
func Sorted(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Key: k, Count: v})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})

	return out
}

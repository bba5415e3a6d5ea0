package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/revelaction/mindmap/graph"
)

const (
	FormatTree      = "tree"
	FormatJSON      = "json"
	FormatCytoscape = "cytoscape"
	FormatHTML      = "html"

	DefaultFormat = FormatTree
)

var (
	Black   = "\033[1;30m"
	Red     = "\033[1;31m"
	Green   = "\033[1;32m"
	Yellow  = "\033[0;33m"
	Purple  = "\033[1;34m"
	Magenta = "\033[1;35m"
	Teal    = "\033[1;36m"
	Gray    = "\033[0;37m"
	White   = "\033[1;37m"
	Off     = "\033[0m"
	//Yellow256  = "\033[1;38;5;202m"
	Yellow256 = "\033[1;38;5;130m"
	Grey256   = "\033[1;38;5;145m"
	Green256  = "\033[1;38;5;70m"
	ClearLine = "\033[K"
)

var roleColor = map[graph.Role]string{
	graph.RoleRoot: Yellow256,
	graph.RoleVerb: Green256,
	graph.RoleAdj:  Magenta,
	graph.RoleNoun: Teal,
}

func SupportedFormats() []string {
	return []string{FormatTree, FormatJSON, FormatCytoscape, FormatHTML}
}

// ValidFormat reports whether format is one of SupportedFormats.
func ValidFormat(format string) bool {
	for _, f := range SupportedFormats() {
		if f == format {
			return true
		}
	}

	return false
}

type Renderer struct {
	HasColor bool

	// HasPrefix prints the role and edge label in front of each node of the
	// tree.
	HasPrefix bool

	// Format determines the output
	//
	// tree: indented terminal tree, one per root node
	// json: portable format
	// cytoscape: Cytoscape.js element list
	// html: self contained Cytoscape.js page
	Format string

	HTML HTMLOptions
}

func NewRenderer() *Renderer {
	return &Renderer{Format: DefaultFormat, HTML: DefaultHTMLOptions()}
}

// Render writes g to w in the current format.
func (r *Renderer) Render(w io.Writer, g *graph.Graph) error {
	switch r.Format {
	case FormatTree, "":
		_, err := io.WriteString(w, r.Tree(g))
		return err
	case FormatJSON:
		return JSON(w, g)
	case FormatCytoscape:
		return Cytoscape(w, g)
	case FormatHTML:
		page, err := GenerateHTML(g, r.HTML)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, page)
		return err
	default:
		return fmt.Errorf("unsupported format %q: must be one of %s", r.Format, strings.Join(SupportedFormats(), ", "))
	}
}

// Tree renders every node reachable from a node without incoming edges. Nodes
// only reachable through a cycle are rendered afterwards, each node at most
// once.
func (r *Renderer) Tree(g *graph.Graph) string {
	var str strings.Builder
	seen := map[string]bool{}

	for _, n := range g.Nodes() {
		if g.InDegree(n.ID) == 0 {
			r.tree(&str, g, n, "", 0, seen)
		}
	}

	for _, n := range g.Nodes() {
		if !seen[n.ID] {
			r.tree(&str, g, n, "", 0, seen)
		}
	}

	return str.String()
}

func (r *Renderer) tree(str *strings.Builder, g *graph.Graph, n graph.Node, label string, depth int, seen map[string]bool) {
	seen[n.ID] = true

	str.WriteString(strings.Repeat("  ", depth))
	if depth > 0 {
		str.WriteString("└─ ")
	}

	if r.HasPrefix {
		prefix := string(n.Role)
		if label != "" {
			prefix = label + " " + prefix
		}
		str.WriteString(r.color(Grey256, fmt.Sprintf("[%s] ", prefix)))
	}

	str.WriteString(r.color(roleColor[n.Role], n.Label))
	str.WriteString("\n")

	for _, id := range g.Successors(n.ID) {
		if seen[id] {
			continue
		}

		child, _ := g.Node(id)
		e, _ := g.Edge(n.ID, id)
		r.tree(str, g, child, e.Label, depth+1, seen)
	}
}

func (r *Renderer) color(c, s string) string {
	if !r.HasColor || c == "" {
		return s
	}

	return c + s + Off
}

// NextFormat sets the Renderer Format option to a different one, following
// the SupportedFormats() order.
func (r *Renderer) NextFormat() {

	supported := SupportedFormats()
	for i, format := range supported {
		if format == r.Format {
			switch i {
			case len(supported) - 1:
				r.Format = supported[0]
			default:
				r.Format = supported[i+1]
			}

			return
		}
	}

	r.Format = DefaultFormat
}

func (r *Renderer) NextPrefix() {

	// toggle
	r.HasPrefix = !r.HasPrefix
}

// Legend returns the role names colored like the tree nodes.
func (r *Renderer) Legend() string {
	roles := graph.Roles()
	parts := make([]string, 0, len(roles))
	for _, role := range roles {
		parts = append(parts, r.color(roleColor[role], string(role)))
	}

	return strings.Join(parts, " ")
}

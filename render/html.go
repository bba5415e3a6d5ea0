package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/revelaction/mindmap/graph"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("mindmap").Parse(htmlTemplate))
}

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Layout string // "breadthfirst", "circle", "grid" or "cose"
	Theme  string // "dark" or "light"
	Title  string
}

// DefaultHTMLOptions returns default HTML generation options.
func DefaultHTMLOptions() HTMLOptions {
	return HTMLOptions{
		Layout: "breadthfirst",
		Theme:  "dark",
		Title:  "Mind Map",
	}
}

// ValidLayouts lists the supported layout algorithm names.
var ValidLayouts = []string{"breadthfirst", "circle", "grid", "cose"}

type theme struct {
	Background string
	Text       string
}

var themes = map[string]theme{
	"dark":  {Background: "#111111", Text: "white"},
	"light": {Background: "#FFFFFF", Text: "black"},
}

// GenerateHTML generates a self-contained HTML page for the mind map.
func GenerateHTML(g *graph.Graph, opts HTMLOptions) (string, error) {
	if g == nil {
		return "", fmt.Errorf("graph cannot be nil")
	}

	if err := validateLayout(opts.Layout); err != nil {
		return "", err
	}

	if opts.Layout == "" {
		opts.Layout = "breadthfirst"
	}

	if opts.Theme == "" {
		opts.Theme = "dark"
	}

	th, ok := themes[opts.Theme]
	if !ok {
		return "", fmt.Errorf("invalid theme %q: must be dark or light", opts.Theme)
	}

	if opts.Title == "" {
		opts.Title = "Mind Map"
	}

	graphJSON, err := graph.ToCytoscapeJSON(g)
	if err != nil {
		return "", err
	}

	data := templateData{
		Title:     opts.Title,
		GraphJSON: template.JS(graphJSON),
		Layout:    opts.Layout,
		Theme:     th,
		Empty:     g.IsEmpty(),
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func validateLayout(layout string) error {
	if layout == "" {
		return nil
	}

	for _, l := range ValidLayouts {
		if l == layout {
			return nil
		}
	}

	return fmt.Errorf("invalid layout %q: must be breadthfirst, circle, grid, or cose", layout)
}

type templateData struct {
	Title     string
	GraphJSON template.JS
	Layout    string
	Theme     theme
	Empty     bool
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <script src="https://unpkg.com/cytoscape@3/dist/cytoscape.min.js"></script>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 0;
      background: {{.Theme.Background}};
      color: {{.Theme.Text}};
    }
    #cy {
      width: 100%;
      height: 100vh;
    }
    .empty-state {
      text-align: center;
      padding-top: 40vh;
    }
    #tooltip {
      position: absolute;
      display: none;
      background: white;
      color: #333;
      border: 1px solid #ccc;
      border-radius: 4px;
      padding: 6px 10px;
      font-size: 12px;
      pointer-events: none;
    }
  </style>
</head>
<body>
{{if .Empty}}
  <div class="empty-state">
    <h2>Empty mind map</h2>
    <p>The text had no words to map.</p>
  </div>
{{else}}
  <div id="cy"></div>
  <div id="tooltip"></div>
  <script>
    (function() {
      const graphData = {{.GraphJSON}};

      const cy = cytoscape({
        container: document.getElementById('cy'),
        elements: graphData,
        style: [
          {
            selector: 'node',
            style: {
              'label': 'data(label)',
              'color': '{{.Theme.Text}}',
              'background-color': '#0074D9',
              'text-outline-color': '#0074D9',
              'text-outline-width': 2,
              'font-size': 16
            }
          },
          {
            selector: 'node[role="root"]',
            style: {
              'background-color': '#E8923A',
              'text-outline-color': '#E8923A',
              'shape': 'round-rectangle',
              'font-weight': 'bold'
            }
          },
          {
            selector: 'node[role="verb"]',
            style: {
              'background-color': '#27AE60',
              'text-outline-color': '#27AE60'
            }
          },
          {
            selector: 'node[role="adj"]',
            style: {
              'background-color': '#9B59B6',
              'text-outline-color': '#9B59B6',
              'shape': 'diamond'
            }
          },
          {
            selector: 'edge',
            style: {
              'line-color': 'gray',
              'target-arrow-color': 'gray',
              'target-arrow-shape': 'triangle',
              'curve-style': 'bezier',
              'width': 2
            }
          }
        ],
        layout: {
          name: "{{.Layout}}",
          animate: false
        }
      });

      const tooltip = document.getElementById('tooltip');

      cy.on('mouseover', 'node, edge', function(evt) {
        const d = evt.target.data();
        tooltip.textContent = d.tooltip || d.label || '';
        if (!tooltip.textContent) {
          return;
        }
        const pos = evt.renderedPosition || evt.position;
        tooltip.style.left = (pos.x + 15) + 'px';
        tooltip.style.top = (pos.y + 15) + 'px';
        tooltip.style.display = 'block';
      });

      cy.on('mouseout', 'node, edge', function() {
        tooltip.style.display = 'none';
      });
    })();
  </script>
{{end}}
</body>
</html>`

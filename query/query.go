// Package query runs the interactive prompt: every line is turned into a mind
// map and rendered.
package query

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/c-bata/go-prompt"

	"github.com/revelaction/mindmap/builder"
	"github.com/revelaction/mindmap/graph"
	"github.com/revelaction/mindmap/render"
	"github.com/revelaction/mindmap/storage"
)

const (
	completionThreshold = 2

	// commandPrefix is the Character in the prompt that prefixes the
	// commands
	commandPrefix = ":"
)

var commands = []prompt.Suggest{
	{Text: ":mode", Description: "set the extraction mode"},
	{Text: ":format", Description: "set the output format"},
	{Text: ":save", Description: "store the last graph under a name"},
	{Text: ":help", Description: "show the commands"},
}

type Handler struct {
	Builder  *builder.Builder
	Renderer *render.Renderer

	// Graphs stores graphs with :save. Optional.
	Graphs storage.GraphWriter

	Out  io.Writer
	Mode builder.Mode

	last *graph.Graph
}

func NewHandler(b *builder.Builder, r *render.Renderer, out io.Writer) *Handler {
	return &Handler{
		Builder:  b,
		Renderer: r,
		Out:      out,
		Mode:     b.Mode(),
	}
}

func (h *Handler) Run(ctx context.Context) error {

	fmt.Fprintln(h.Out, "🔑 Ctrl+X: next Mode, Ctrl+F: next Format, Ctrl+T: toggle prefix, 🔧 quit")

	// initialize prompt history
	history := []string{}

	for {

		in := prompt.Input("      🧠 ", h.completer,
			prompt.OptionTitle("mindmap"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionMaxSuggestion(12),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionHistory(history),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlF,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextFormat()
					fmt.Fprintln(h.Out, "Format set to: "+h.Renderer.Format)
				}}),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlX,
				Fn: func(buf *prompt.Buffer) {
					h.NextMode()
					fmt.Fprintln(h.Out, "Mode set to: "+string(h.Mode))
				}}),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlT,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextPrefix()
					fmt.Fprintln(h.Out, "Prefix set to "+fmt.Sprintf("%t", h.Renderer.HasPrefix))
				}}),
		)

		if strings.TrimSpace(in) == "quit" {
			return nil
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		history = append(history, in)
		if err := h.Eval(ctx, in); err != nil {
			fmt.Fprintf(h.Out, "Error: %v\n", err)
		}
	}
}

// Eval runs a command line or builds and renders the graph of the text.
func (h *Handler) Eval(ctx context.Context, in string) error {
	in = strings.TrimSpace(in)
	if in == "" {
		return nil
	}

	if strings.HasPrefix(in, commandPrefix) {
		return h.command(strings.Fields(in))
	}

	g, err := h.Builder.BuildMode(ctx, in, h.Mode)
	if err != nil {
		return err
	}

	h.last = g
	if g.IsEmpty() {
		fmt.Fprintln(h.Out, "(empty)")
		return nil
	}

	return h.Renderer.Render(h.Out, g)
}

func (h *Handler) command(fields []string) error {
	switch fields[0] {
	case ":mode":
		if len(fields) < 2 {
			fmt.Fprintln(h.Out, "Mode: "+string(h.Mode))
			return nil
		}

		m, err := builder.ParseMode(fields[1])
		if err != nil {
			return err
		}
		h.Mode = m
		fmt.Fprintln(h.Out, "Mode set to: "+string(h.Mode))

	case ":format":
		if len(fields) < 2 {
			fmt.Fprintln(h.Out, "Format: "+h.Renderer.Format)
			return nil
		}

		if !render.ValidFormat(fields[1]) {
			return fmt.Errorf("unsupported format %q: must be one of %s", fields[1], strings.Join(render.SupportedFormats(), ", "))
		}
		h.Renderer.Format = fields[1]
		fmt.Fprintln(h.Out, "Format set to: "+h.Renderer.Format)

	case ":save":
		if len(fields) < 2 {
			return fmt.Errorf(":save needs a name")
		}

		if h.Graphs == nil {
			return fmt.Errorf("no repository configured")
		}

		if h.last == nil {
			return fmt.Errorf("no graph built yet")
		}

		if err := h.Graphs.WriteGraph(fields[1], h.last); err != nil {
			return err
		}
		fmt.Fprintln(h.Out, "Saved "+fields[1])

	case ":help":
		for _, c := range commands {
			fmt.Fprintf(h.Out, "%-8s %s\n", c.Text, c.Description)
		}
		fmt.Fprintln(h.Out, "quit     leave")

	default:
		return fmt.Errorf("unknown command %s", fields[0])
	}

	return nil
}

// NextMode sets the Mode to the next one, following the SupportedModes()
// order.
func (h *Handler) NextMode() {
	supported := builder.SupportedModes()
	for i, m := range supported {
		if m == h.Mode {
			h.Mode = supported[(i+1)%len(supported)]
			return
		}
	}

	h.Mode = builder.DefaultMode
}

func (h *Handler) completer(in prompt.Document) []prompt.Suggest {
	s := []prompt.Suggest{}
	befCursor := in.TextBeforeCursor()

	// Only one character in line
	if "" == befCursor {
		return s
	}

	if strings.HasPrefix(befCursor, commandPrefix) {
		return h.completeCommand(strings.Fields(befCursor), strings.HasSuffix(befCursor, " "))
	}

	word := in.GetWordBeforeCursor()
	if len([]rune(word)) < completionThreshold {
		return s
	}

	return h.completeNode(word)
}

func (h *Handler) completeCommand(fields []string, trailingSpace bool) []prompt.Suggest {
	if len(fields) == 1 && !trailingSpace {
		return prompt.FilterHasPrefix(commands, fields[0], false)
	}

	var options []string
	switch fields[0] {
	case ":mode":
		for _, m := range builder.SupportedModes() {
			options = append(options, string(m))
		}
	case ":format":
		options = render.SupportedFormats()
	}

	prefix := ""
	if !trailingSpace && len(fields) > 1 {
		prefix = fields[len(fields)-1]
	}

	s := []prompt.Suggest{}
	for _, o := range options {
		if strings.HasPrefix(o, prefix) {
			s = append(s, prompt.Suggest{Text: o})
		}
	}

	return s
}

// completeNode suggests the words of the previous graph.
func (h *Handler) completeNode(word string) []prompt.Suggest {
	s := []prompt.Suggest{}
	if h.last == nil {
		return s
	}

	for _, n := range h.last.Nodes() {
		if strings.HasPrefix(strings.ToLower(n.ID), strings.ToLower(word)) && n.ID != word {
			s = append(s, prompt.Suggest{Text: n.ID, Description: string(n.Role)})
		}
	}

	sort.Slice(s, func(i, j int) bool { return s[i].Text < s[j].Text })
	return s
}

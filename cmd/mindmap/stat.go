package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/mindmap/builder"
	"github.com/revelaction/mindmap/graph"
	"github.com/revelaction/mindmap/stat"
)

func statCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "stat",
		Usage:     "show statistics of a text annotation and its mind map, or of a stored graph",
		ArgsUsage: "[text...]",
		Flags: []cli.Flag{
			modeFlag,
			fileFlag,
			&cli.StringFlag{Name: "graph", Usage: "stored graph name"},
			&cli.BoolFlag{Name: "json", Usage: "print JSON"},
		},
		Action: func(c *cli.Context) error {
			e, err := loadEnv(c)
			if err != nil {
				return err
			}
			defer e.Close()

			if name := c.String("graph"); name != "" {
				repo, err := e.requireRepo()
				if err != nil {
					return err
				}

				g, err := repo.ReadGraph(name)
				if err != nil {
					return fmt.Errorf("graph %s: %w", name, err)
				}

				return printGraphStats(ui, stat.Graph(g), c.Bool("json"))
			}

			text, err := inputText(c, ui)
			if err != nil {
				return err
			}

			mode := c.String("mode")
			if mode == "" {
				mode = e.cfg.Mode
			}

			m, err := builder.ParseMode(mode)
			if err != nil {
				return err
			}

			p, closer, err := newParser(c.Context, e.cfg, e.logger)
			if err != nil {
				return err
			}
			e.closers = append(e.closers, closer)

			doc, err := p.Parse(c.Context, text)
			if err != nil {
				return &builder.ParseError{Err: err}
			}

			g, err := builder.FromDoc(doc, m)
			if err != nil {
				return err
			}

			hdl := stat.NewHandler()
			hdl.Aggregate(doc)
			stats := hdl.Get()

			if c.Bool("json") {
				return writeJSON(ui, map[string]any{"doc": stats, "graph": stat.Graph(g)})
			}

			fmt.Fprintf(ui.Out, "Num sentences %d, num tokens %d, num tokens per sentence %d\n", stats.NumSentences, stats.NumTokens, stats.TokensPerSentenceMean)
			for _, pc := range stat.Sorted(stats.POS) {
				fmt.Fprintf(ui.Out, "  %-6s %d\n", pc.Key, pc.Count)
			}

			return printGraphStats(ui, stat.Graph(g), false)
		},
	}
}

func printGraphStats(ui UI, s stat.GraphStats, asJSON bool) error {
	if asJSON {
		return writeJSON(ui, s)
	}

	fmt.Fprintf(ui.Out, "Num nodes %d, num edges %d\n", s.NumNodes, s.NumEdges)
	for _, role := range graph.Roles() {
		fmt.Fprintf(ui.Out, "  %-6s %d\n", role, s.Roles[role])
	}

	for _, lc := range stat.Sorted(s.Labels) {
		fmt.Fprintf(ui.Out, "  %-10s %d\n", lc.Key, lc.Count)
	}

	if s.Hub != "" {
		fmt.Fprintf(ui.Out, "Hub %s (%d edges)\n", s.Hub, s.MaxDegree)
	}

	return nil
}

func writeJSON(ui UI, v any) error {
	if ui.Out == nil {
		return errors.New("no output")
	}

	enc := json.NewEncoder(ui.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

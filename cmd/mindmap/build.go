package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/mindmap/builder"
	"github.com/revelaction/mindmap/graph"
	"github.com/revelaction/mindmap/reader"
	"github.com/revelaction/mindmap/render"
)

var modeFlag = &cli.StringFlag{
	Name:    "mode",
	Aliases: []string{"m"},
	Usage:   "extraction mode: token-role, noun-phrase or dependency",
}

func renderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "format",
			Value: render.DefaultFormat,
			Usage: "output format: tree, json, cytoscape or html",
		},
		&cli.StringFlag{
			Name:  "layout",
			Value: "breadthfirst",
			Usage: "html layout: breadthfirst, circle, grid or cose",
		},
		&cli.StringFlag{
			Name:  "theme",
			Value: "dark",
			Usage: "html theme: dark or light",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "do not color the tree",
		},
		&cli.BoolFlag{
			Name:  "prefix",
			Usage: "print role and relation in front of the tree nodes",
		},
	}
}

func newRenderer(c *cli.Context, title string) (*render.Renderer, error) {
	r := render.NewRenderer()
	r.Format = c.String("format")
	if !render.ValidFormat(r.Format) {
		return nil, fmt.Errorf("unsupported format %q", r.Format)
	}

	r.HasColor = !c.Bool("no-color")
	r.HasPrefix = c.Bool("prefix")
	r.HTML.Layout = c.String("layout")
	r.HTML.Theme = c.String("theme")
	if title != "" {
		r.HTML.Title = title
	}

	return r, nil
}

func buildCommand(ui UI) *cli.Command {
	flags := []cli.Flag{
		modeFlag,
		fileFlag,
		&cli.StringFlag{
			Name:  "doc",
			Usage: "build from an annotated doc JSON file, without parser",
		},
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "write to this file instead of stdout",
		},
		&cli.StringFlag{
			Name:  "save",
			Usage: "store the graph in the repository under this name",
		},
	}

	return &cli.Command{
		Name:      "build",
		Usage:     "build the mind map of a text",
		ArgsUsage: "[text...]",
		Flags:     append(flags, renderFlags()...),
		Action: func(c *cli.Context) error {
			e, err := loadEnv(c)
			if err != nil {
				return err
			}
			defer e.Close()

			var g *graph.Graph
			title := ""
			if path := c.String("doc"); path != "" {
				doc, err := reader.ReadDoc(path)
				if err != nil {
					return err
				}

				mode := c.String("mode")
				if mode == "" {
					mode = e.cfg.Mode
				}

				g, err = builder.FromDoc(doc, builder.Mode(mode))
				if err != nil {
					return err
				}
				title = reader.Name(path)
			} else {
				text, err := inputText(c, ui)
				if err != nil {
					return err
				}

				b, err := e.builder(c.Context, c.String("mode"))
				if err != nil {
					return err
				}

				g, err = b.Build(c.Context, text)
				if err != nil {
					return err
				}

				if path := c.String("file"); path != "" {
					title = reader.Name(path)
				}
			}

			if name := c.String("save"); name != "" {
				repo, err := e.requireRepo()
				if err != nil {
					return err
				}

				if err := repo.WriteGraph(name, g); err != nil {
					return err
				}
			}

			r, err := newRenderer(c, title)
			if err != nil {
				return err
			}

			out := ui.Out
			if path := c.String("out"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
				r.HasColor = false
			}

			return r.Render(out, g)
		},
	}
}

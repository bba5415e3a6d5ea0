package main

import (
	"github.com/urfave/cli/v2"

	"github.com/revelaction/mindmap/query"
	"github.com/revelaction/mindmap/render"
)

func replCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "interactive prompt: type text, see its mind map",
		Flags: []cli.Flag{
			modeFlag,
			&cli.BoolFlag{Name: "no-color", Usage: "do not color the tree"},
			&cli.BoolFlag{Name: "prefix", Usage: "print role and relation in front of the tree nodes"},
		},
		Action: func(c *cli.Context) error {
			e, err := loadEnv(c)
			if err != nil {
				return err
			}
			defer e.Close()

			b, err := e.builder(c.Context, c.String("mode"))
			if err != nil {
				return err
			}

			r := render.NewRenderer()
			r.HasColor = !c.Bool("no-color")
			r.HasPrefix = c.Bool("prefix")

			h := query.NewHandler(b, r, ui.Out)
			if e.repo != nil {
				h.Graphs = e.repo
			}

			return h.Run(c.Context)
		},
	}
}

package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func graphsCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "graphs",
		Usage:     "list the stored graphs, or show one",
		ArgsUsage: "[name]",
		Flags:     renderFlags(),
		BashComplete: func(c *cli.Context) {
			e, err := loadEnv(c)
			if err != nil || e.repo == nil {
				return
			}
			defer e.Close()

			names, _ := e.repo.ListGraphs()
			for _, n := range names {
				fmt.Fprintln(ui.Out, n)
			}
		},
		Action: func(c *cli.Context) error {
			e, err := loadEnv(c)
			if err != nil {
				return err
			}
			defer e.Close()

			repo, err := e.requireRepo()
			if err != nil {
				return err
			}

			if !c.Args().Present() {
				names, err := repo.ListGraphs()
				if err != nil {
					return err
				}

				for _, n := range names {
					fmt.Fprintln(ui.Out, n)
				}
				return nil
			}

			name := c.Args().First()
			g, err := repo.ReadGraph(name)
			if err != nil {
				return fmt.Errorf("graph %s: %w", name, err)
			}

			r, err := newRenderer(c, name)
			if err != nil {
				return err
			}

			return r.Render(ui.Out, g)
		},
	}
}

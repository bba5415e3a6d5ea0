package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/mindmap/graph"
	"github.com/revelaction/mindmap/search"
)

func searchCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "find the nodes of the stored graphs containing all terms",
		ArgsUsage: "<term>...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "role",
				Usage: "only nodes of this role (" + strings.Join(roleNames(), ", ") + ")",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "stop after `N` matches",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the matches as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			if !c.Args().Present() {
				return fmt.Errorf("search needs at least one term")
			}

			e, err := loadEnv(c)
			if err != nil {
				return err
			}
			defer e.Close()

			repo, err := e.requireRepo()
			if err != nil {
				return err
			}

			s := search.New(repo).
				WithRole(graph.Role(c.String("role"))).
				WithLimit(c.Int("limit"))

			matches := []search.Match{}
			err = s.Nodes(c.Args().Slice(), func(m search.Match) error {
				if c.Bool("json") {
					matches = append(matches, m)
					return nil
				}

				_, err := fmt.Fprintf(ui.Out, "%s: %s (%s) -> %s\n", m.Graph, m.Node.ID, m.Node.Role, strings.Join(m.Neighbors, ", "))
				return err
			})
			if err != nil {
				return err
			}

			if c.Bool("json") {
				return writeJSON(ui, matches)
			}

			return nil
		},
	}
}

func roleNames() []string {
	var names []string
	for _, r := range graph.Roles() {
		names = append(names, string(r))
	}
	return names
}

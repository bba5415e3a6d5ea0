package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/mindmap/graph"
	"github.com/revelaction/mindmap/reader"
)

func exportCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write the stored graphs as portable JSON files",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "to", Required: true, Usage: "target directory"},
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

			to := c.String("to")
			if err := os.MkdirAll(to, 0755); err != nil {
				return fmt.Errorf("failed to create target directory: %w", err)
			}

			names, err := repo.ListGraphs()
			if err != nil {
				return err
			}

			p, bar := newProgress(ui.Err, len(names), names)

			count := 0
			for _, name := range names {
				g, err := repo.ReadGraph(name)
				if err != nil {
					p.Stop()
					return fmt.Errorf("failed to read graph %s: %w", name, err)
				}

				data, err := graph.Marshal(g)
				if err != nil {
					p.Stop()
					return err
				}

				targetPath := filepath.Join(to, name+".json")
				if err := os.WriteFile(targetPath, data, 0644); err != nil {
					p.Stop()
					return fmt.Errorf("failed to write file %s: %w", targetPath, err)
				}
				count++
				bar.Incr()
			}
			p.Stop()

			fmt.Fprintf(ui.Out, "Successfully exported %d graphs to %s\n", count, to)
			return nil
		},
	}
}

func importCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "store portable JSON graph files in the repository",
		ArgsUsage: "<file.json>...",
		Action: func(c *cli.Context) error {
			if !c.Args().Present() {
				return fmt.Errorf("import needs at least one file")
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

			files := c.Args().Slice()
			names := make([]string, len(files))
			for i, f := range files {
				names[i] = reader.Name(f)
			}

			p, bar := newProgress(ui.Err, len(files), names)

			for i, path := range files {
				data, err := os.ReadFile(path)
				if err != nil {
					p.Stop()
					return err
				}

				g, err := graph.Unmarshal(data)
				if err != nil {
					p.Stop()
					return fmt.Errorf("%s: %w", path, err)
				}

				if err := repo.WriteGraph(names[i], g); err != nil {
					p.Stop()
					return fmt.Errorf("failed to write graph %s: %w", names[i], err)
				}
				bar.Incr()
			}
			p.Stop()

			fmt.Fprintf(ui.Out, "Successfully imported %d graphs\n", len(files))
			return nil
		},
	}
}

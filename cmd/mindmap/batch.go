package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/revelaction/mindmap/reader"
)

func batchCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Usage:     "build the mind map of every text file of a directory and store them",
		ArgsUsage: "<dir>",
		Flags: []cli.Flag{
			modeFlag,
			&cli.BoolFlag{Name: "keep-going", Aliases: []string{"k"}, Usage: "continue after a failed file"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("batch needs a directory")
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

			files, err := reader.Files(c.Args().First())
			if err != nil {
				return err
			}

			if len(files) == 0 {
				fmt.Fprintf(ui.Out, "No text files in %s\n", c.Args().First())
				return nil
			}

			b, err := e.builder(c.Context, c.String("mode"))
			if err != nil {
				return err
			}

			names := make([]string, len(files))
			for i, f := range files {
				names[i] = reader.Name(f)
			}

			p, bar := newProgress(ui.Err, len(files), names)

			var failed []string
			for i, path := range files {
				err := func() error {
					text, err := reader.ReadText(path)
					if err != nil {
						return err
					}

					g, err := b.Build(c.Context, text)
					if err != nil {
						return err
					}

					return repo.WriteGraph(names[i], g)
				}()

				bar.Incr()

				if err != nil {
					e.logger.Warn("batch file failed", zap.String("file", path), zap.Error(err))
					if !c.Bool("keep-going") {
						p.Stop()
						return fmt.Errorf("%s: %w", path, err)
					}
					failed = append(failed, path)
				}
			}
			p.Stop()

			fmt.Fprintf(ui.Out, "Built %d graphs from %s\n", len(files)-len(failed), c.Args().First())
			if len(failed) > 0 {
				return fmt.Errorf("%d files failed", len(failed))
			}

			return nil
		},
	}
}

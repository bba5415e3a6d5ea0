package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

func main() {
	ui := UI{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}

	if err := newApp(ui).Run(os.Args); err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "mindmap: %v\n", err)
}

func newApp(ui UI) *cli.App {
	return &cli.App{
		Name:                 "mindmap",
		Usage:                "turn text into mind map graphs",
		Version:              BuildTag,
		Reader:               ui.In,
		Writer:               ui.Out,
		ErrWriter:            ui.Err,
		EnableBashCompletion: true,
		HideVersion:          true,
		Flags:                globalFlags(),
		Commands: []*cli.Command{
			buildCommand(ui),
			replCommand(ui),
			batchCommand(ui),
			exportCommand(ui),
			importCommand(ui),
			graphsCommand(ui),
			searchCommand(ui),
			statCommand(ui),
			serveCommand(ui),
			mcpCommand(ui),
			bashCommand(ui),
			versionCommand(ui),
		},
		// errors are printed by main
		ExitErrHandler: func(c *cli.Context, err error) {},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "path of the YAML configuration file",
			EnvVars: []string{"MINDMAP_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "repository",
			Aliases: []string{"r"},
			Usage:   "directory or SQLite file storing docs and graphs",
		},
		&cli.StringFlag{
			Name:  "parser",
			Usage: "annotation backend: spacy or remote",
		},
		&cli.StringFlag{
			Name:  "spacy-model",
			Usage: "spaCy pipeline loaded by the worker",
		},
		&cli.StringFlag{
			Name:  "remote-url",
			Usage: "URL of the annotation service",
		},
		&cli.BoolFlag{
			Name:  "cache",
			Usage: "store parsed texts in the repository",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, warn or error",
		},
	}
}

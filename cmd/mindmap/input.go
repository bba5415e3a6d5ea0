package main

import (
	"errors"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/mindmap/reader"
)

var fileFlag = &cli.StringFlag{
	Name:    "file",
	Aliases: []string{"f"},
	Usage:   "read the text from a .txt, .md or .pdf file",
}

// inputText returns the text of --file, of the arguments, or of stdin, in
// that order.
func inputText(c *cli.Context, ui UI) (string, error) {
	if path := c.String("file"); path != "" {
		if c.Args().Present() {
			return "", errors.New("give either --file or text arguments")
		}
		return reader.ReadText(path)
	}

	if c.Args().Present() {
		return strings.Join(c.Args().Slice(), " "), nil
	}

	if ui.In == nil {
		return "", nil
	}

	b, err := io.ReadAll(ui.In)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

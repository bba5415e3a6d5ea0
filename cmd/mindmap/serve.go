package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/mindmap/mcpserver"
	"github.com/revelaction/mindmap/server"
	"github.com/revelaction/mindmap/storage"
)

func serveCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the HTTP API",
		Flags: []cli.Flag{
			modeFlag,
			&cli.StringFlag{Name: "addr", Usage: "listen address"},
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

			addr := c.String("addr")
			if addr == "" {
				addr = e.cfg.Server.Addr
			}

			var graphs storage.GraphRepository
			if e.repo != nil {
				graphs = e.repo
			}

			srv := server.New(b, server.Options{
				Graphs:      graphs,
				CORSOrigins: e.cfg.Server.CORSOrigins,
				Logger:      e.logger,
			})

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return srv.ListenAndServe(ctx, addr)
		},
	}
}

func mcpCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "serve the mind map tools over MCP on stdin/stdout",
		Flags: []cli.Flag{modeFlag},
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

			var graphs storage.GraphRepository
			if e.repo != nil {
				graphs = e.repo
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = mcpserver.New(b, graphs, BuildTag, e.logger).Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

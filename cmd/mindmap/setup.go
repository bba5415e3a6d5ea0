package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/revelaction/mindmap/builder"
	"github.com/revelaction/mindmap/config"
	"github.com/revelaction/mindmap/parser"
	"github.com/revelaction/mindmap/parser/cache"
	"github.com/revelaction/mindmap/parser/remote"
	"github.com/revelaction/mindmap/parser/spacy"
	"github.com/revelaction/mindmap/storage"
	"github.com/revelaction/mindmap/storage/filesystem"
	"github.com/revelaction/mindmap/storage/sqlite/zombiezen"
)

// env holds what the commands share once the configuration is loaded.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	repo   storage.Repository

	closers []func() error
}

func (e *env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}

	_ = e.logger.Sync()
	return errors.Join(errs...)
}

// loadEnv loads the configuration, applies the global flags and creates the
// logger. The repository is opened if configured.
func loadEnv(c *cli.Context) (*env, error) {
	path := c.String("config")
	if path == "" {
		path = config.Path()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if v := c.String("repository"); v != "" {
		cfg.Repository = config.ExpandTilde(v)
	}
	if v := c.String("parser"); v != "" {
		cfg.Parser.Kind = v
	}
	if v := c.String("spacy-model"); v != "" {
		cfg.Parser.Spacy.Model = v
	}
	if v := c.String("remote-url"); v != "" {
		cfg.Parser.Remote.URL = v
	}
	if c.IsSet("cache") {
		cfg.Parser.Cache = c.Bool("cache")
	}
	if v := c.String("log-level"); v != "" {
		cfg.Log.Level = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, logger: logger}

	if cfg.Repository != "" {
		repo, err := openRepository(cfg.Repository)
		if err != nil {
			return nil, err
		}
		e.repo = repo
		e.closers = append(e.closers, repo.Close)
	}

	return e, nil
}

// requireRepo returns the repository or an error naming the flag.
func (e *env) requireRepo() (storage.Repository, error) {
	if e.repo == nil {
		return nil, errors.New("no repository: use --repository or set repository in the config")
	}
	return e.repo, nil
}

// openRepository opens a filesystem store for directories and a SQLite store
// for files. A missing path is created: as a SQLite database if it has a
// database extension, as a directory otherwise.
func openRepository(path string) (storage.Repository, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return filesystem.NewStore(path)
	case err == nil:
		return zombiezen.Open(path)
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("repository %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return zombiezen.Open(path)
	default:
		return filesystem.NewStore(path)
	}
}

// newParser creates the configured annotation backend. Tests replace it.
var newParser = func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (parser.Parser, func() error, error) {
	switch cfg.Parser.Kind {
	case config.ParserRemote:
		rc := remote.DefaultConfig(cfg.Parser.Remote.URL)
		if cfg.Parser.Remote.Timeout > 0 {
			rc.Timeout = cfg.Parser.Remote.Timeout
		}
		rc.RateLimit = cfg.Parser.Remote.RateLimit
		rc.Burst = cfg.Parser.Remote.Burst

		p, err := remote.New(rc, logger)
		if err != nil {
			return nil, nil, err
		}
		return p, func() error { return nil }, nil

	default:
		p := spacy.New(spacy.Config{
			Command: cfg.Parser.Spacy.Command,
			Model:   cfg.Parser.Spacy.Model,
		}, logger)
		return p, p.Close, nil
	}
}

// builder creates the parser chain and a builder with mode, or the configured
// mode when empty.
func (e *env) builder(ctx context.Context, mode string) (*builder.Builder, error) {
	if mode == "" {
		mode = e.cfg.Mode
	}

	m, err := builder.ParseMode(mode)
	if err != nil {
		return nil, err
	}

	p, closer, err := newParser(ctx, e.cfg, e.logger)
	if err != nil {
		return nil, err
	}
	e.closers = append(e.closers, closer)

	if e.cfg.Parser.Cache {
		repo, err := e.requireRepo()
		if err != nil {
			return nil, err
		}
		p = cache.New(p, repo)
	}

	return builder.New(p, m)
}

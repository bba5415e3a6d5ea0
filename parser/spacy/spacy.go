// Package spacy annotates text with a long-lived python spaCy process.
//
// The worker reads one JSON request per line on stdin and answers with one
// JSON line on stdout. A {"ready":true} line signals that the model is
// loaded; anything the worker prints before it is logged and skipped.
package spacy

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/revelaction/mindmap/parser"
	sent "github.com/revelaction/mindmap/sentence"
)

//go:embed worker.py
var workerScript []byte

// DefaultModel is the spaCy pipeline loaded when none is configured.
const DefaultModel = "en_core_web_sm"

// ErrClosed is returned by Parse after Close.
var ErrClosed = errors.New("spacy worker closed")

// Config configures the worker process.
type Config struct {
	// Command runs the worker. Empty means python3 with the embedded
	// script. The model name is appended as last argument.
	Command []string
	Model   string
}

type request struct {
	Text string `json:"text"`
}

type response struct {
	Ready  bool           `json:"ready,omitempty"`
	Tokens [][]sent.Token `json:"tokens,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// Parser serializes requests to a single worker process.
type Parser struct {
	cfg    Config
	logger *zap.Logger

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	script string
	closed bool
}

var _ parser.Parser = (*Parser)(nil)

func New(cfg Config, logger *zap.Logger) *Parser {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Parser{cfg: cfg, logger: logger}
}

// Start launches the worker and waits until the model is loaded. Parse calls
// Start lazily.
func (p *Parser) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.start(ctx)
}

func (p *Parser) start(ctx context.Context) error {
	if p.closed {
		return ErrClosed
	}

	if p.cmd != nil {
		return nil
	}

	args, err := p.command()
	if err != nil {
		return err
	}

	// the process outlives the context of the first request
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stderr = &logWriter{logger: p.logger}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting spacy worker: %w", err)
	}

	p.logger.Info("spacy worker started", zap.Strings("cmd", args), zap.Int("pid", cmd.Process.Pid))

	p.cmd = cmd
	p.stdin = stdin
	p.stdout = bufio.NewReaderSize(stdout, 1<<20)

	if err := p.handshake(ctx); err != nil {
		p.stop()
		return err
	}

	return nil
}

// handshake waits for the ready line. Lines that are not a JSON response,
// like the output of a model download, are skipped.
func (p *Parser) handshake(ctx context.Context) error {
	for {
		line, err := p.readLine(ctx)
		if err != nil {
			return fmt.Errorf("waiting for spacy worker: %w", err)
		}

		var resp response
		if err := json.Unmarshal(line, &resp); err != nil {
			p.logger.Debug("spacy worker", zap.ByteString("output", bytes.TrimSpace(line)))
			continue
		}

		if !resp.Ready {
			return fmt.Errorf("spacy worker: unexpected handshake %q", resp.Error)
		}

		return nil
	}
}

// command returns the worker command line, writing the embedded script to a
// temporary file if needed.
func (p *Parser) command() ([]string, error) {
	if len(p.cfg.Command) > 0 {
		return append(append([]string{}, p.cfg.Command...), p.cfg.Model), nil
	}

	if p.script == "" {
		f, err := os.CreateTemp("", "mindmap-spacy-*.py")
		if err != nil {
			return nil, err
		}

		if _, err := f.Write(workerScript); err != nil {
			f.Close()
			return nil, err
		}

		if err := f.Close(); err != nil {
			return nil, err
		}

		p.script = f.Name()
	}

	return []string{"python3", p.script, p.cfg.Model}, nil
}

// Parse sends text to the worker. A worker that fails to answer is stopped
// and restarted on the next call.
func (p *Parser) Parse(ctx context.Context, text string) (sent.Doc, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.start(ctx); err != nil {
		return sent.Doc{}, err
	}

	line, err := json.Marshal(request{Text: text})
	if err != nil {
		return sent.Doc{}, err
	}

	if _, err := p.stdin.Write(append(line, '\n')); err != nil {
		p.stop()
		return sent.Doc{}, fmt.Errorf("writing to spacy worker: %w", err)
	}

	var resp response
	if err := p.read(ctx, &resp); err != nil {
		p.stop()
		return sent.Doc{}, fmt.Errorf("reading from spacy worker: %w", err)
	}

	if resp.Error != "" {
		return sent.Doc{}, errors.New(resp.Error)
	}

	doc := sent.Doc{Text: text, Tokens: resp.Tokens}
	if err := doc.Validate(); err != nil {
		return sent.Doc{}, err
	}

	return doc, nil
}

// read decodes the next line. A canceled context leaves the worker in an
// unknown state; the caller must stop it.
func (p *Parser) read(ctx context.Context, resp *response) error {
	line, err := p.readLine(ctx)
	if err != nil {
		return err
	}
	return json.Unmarshal(line, resp)
}

func (p *Parser) readLine(ctx context.Context) ([]byte, error) {
	type result struct {
		line []byte
		err  error
	}

	r := p.stdout
	ch := make(chan result, 1)
	go func() {
		line, err := r.ReadBytes('\n')
		ch <- result{line, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.line, r.err
	}
}

func (p *Parser) stop() {
	if p.cmd == nil {
		return
	}

	p.stdin.Close()
	p.cmd.Process.Kill()
	if err := p.cmd.Wait(); err != nil {
		p.logger.Debug("spacy worker exited", zap.Error(err))
	}

	p.cmd = nil
	p.stdin = nil
	p.stdout = nil
}

// Close stops the worker and removes the temporary script.
func (p *Parser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true
	p.stop()

	if p.script != "" {
		return os.Remove(filepath.Clean(p.script))
	}

	return nil
}

type logWriter struct {
	logger *zap.Logger
}

func (w *logWriter) Write(b []byte) (int, error) {
	w.logger.Debug("spacy worker", zap.ByteString("stderr", b))
	return len(b), nil
}

package spacy

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/revelaction/mindmap/sentence/sentencetest"
)

// TestHelperProcess is not a real test. It plays the python worker when
// started by helperParser.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	defer os.Exit(0)

	model := os.Args[len(os.Args)-1]
	if model == "broken" {
		fmt.Fprintln(os.Stdout, `{"error":"can't find model"}`)
		return
	}

	if model == "download" {
		fmt.Fprintln(os.Stdout, "Collecting en_core_web_sm")
		fmt.Fprintln(os.Stdout, "")
	}

	fmt.Fprintln(os.Stdout, `{"ready":true}`)

	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		var req request
		if err := json.Unmarshal(sc.Bytes(), &req); err != nil {
			fmt.Fprintf(os.Stdout, `{"error":%q}`+"\n", err.Error())
			continue
		}

		switch req.Text {
		case "crash":
			os.Exit(3)
		case "hang":
			time.Sleep(time.Minute)
		case "fail":
			fmt.Fprintln(os.Stdout, `{"error":"annotation failed"}`)
		default:
			out, _ := json.Marshal(response{Tokens: sentencetest.CatChasedMouse().Tokens})
			fmt.Fprintln(os.Stdout, string(out))
		}
	}
}

func helperParser(t *testing.T, model string) *Parser {
	t.Helper()
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")

	p := New(Config{
		Command: []string{os.Args[0], "-test.run=TestHelperProcess", "--"},
		Model:   model,
	}, nil)
	t.Cleanup(func() { p.Close() })

	return p
}

func TestParse(t *testing.T) {
	p := helperParser(t, "en_core_web_sm")

	for i := 0; i < 3; i++ {
		doc, err := p.Parse(context.Background(), "The cat chased the mouse.")
		if err != nil {
			t.Fatalf("parse %d: %v", i, err)
		}

		if doc.Text != "The cat chased the mouse." {
			t.Errorf("expected the text to be kept, got %q", doc.Text)
		}

		if doc.NumTokens() != 6 {
			t.Errorf("expected 6 tokens, got %d", doc.NumTokens())
		}
	}
}

func TestParseWorkerError(t *testing.T) {
	p := helperParser(t, "en_core_web_sm")

	if _, err := p.Parse(context.Background(), "fail"); err == nil || err.Error() != "annotation failed" {
		t.Fatalf("expected worker error, got %v", err)
	}

	// the worker is still usable
	if _, err := p.Parse(context.Background(), "ok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseRestartsAfterCrash(t *testing.T) {
	p := helperParser(t, "en_core_web_sm")

	if _, err := p.Parse(context.Background(), "crash"); err == nil {
		t.Fatalf("expected error from crashed worker")
	}

	if _, err := p.Parse(context.Background(), "ok"); err != nil {
		t.Fatalf("expected restarted worker, got %v", err)
	}
}

func TestParseContextCanceled(t *testing.T) {
	p := helperParser(t, "en_core_web_sm")

	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := p.Parse(ctx, "hang"); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestStartHandshakeError(t *testing.T) {
	p := helperParser(t, "broken")

	if err := p.Start(context.Background()); err == nil {
		t.Fatalf("expected handshake error")
	}
}

func TestStartSkipsOutputBeforeReady(t *testing.T) {
	p := helperParser(t, "download")

	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := p.Parse(context.Background(), "The cat chased the mouse."); err != nil {
		t.Fatalf("parse: %v", err)
	}
}

func TestParseAfterClose(t *testing.T) {
	p := helperParser(t, "en_core_web_sm")
	p.Close()

	if _, err := p.Parse(context.Background(), "ok"); err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

// TestWorkerScript runs the embedded worker when python3 and the default
// model are installed.
func TestWorkerScript(t *testing.T) {
	if testing.Short() {
		t.Skip("short mode")
	}

	if err := exec.Command("python3", "-c", "import spacy; spacy.load('"+DefaultModel+"')").Run(); err != nil {
		t.Skip("spacy model not installed")
	}

	p := New(Config{}, nil)
	t.Cleanup(func() { p.Close() })

	doc, err := p.Parse(context.Background(), "Dogs bark. Big dogs run.")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(doc.Tokens) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(doc.Tokens))
	}

	for i, tokens := range doc.Tokens {
		for _, tok := range tokens {
			if tok.SentenceId != i {
				t.Errorf("token %q: expected sentence %d, got %d", tok.Text, i, tok.SentenceId)
			}
		}
	}
}

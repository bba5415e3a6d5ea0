package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/revelaction/mindmap/config"
	"github.com/revelaction/mindmap/graph"
	"github.com/revelaction/mindmap/parser"
	"github.com/revelaction/mindmap/sentence/sentencetest"
)

const catText = "The cat chased the mouse."

func useStaticParser(t *testing.T) {
	t.Helper()

	old := newParser
	newParser = func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (parser.Parser, func() error, error) {
		p := parser.Static{
			catText: sentencetest.CatChasedMouse(),
			"Build a delivery app with tracking and payment": sentencetest.DeliveryApp(),
		}
		return p, func() error { return nil }, nil
	}
	t.Cleanup(func() { newParser = old })
}

// run executes the app with a config file that does not exist, so that only
// defaults and flags apply.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	ui := UI{In: strings.NewReader(stdin), Out: &out, Err: &errOut}

	argv := append([]string{"mindmap", "--config", filepath.Join(t.TempDir(), "none.yml"), "--log-level", "error"}, args...)
	err := newApp(ui).Run(argv)
	return out.String(), errOut.String(), err
}

func TestBuildTree(t *testing.T) {
	useStaticParser(t)

	out, _, err := run(t, "", "build", "--no-color", "The", "cat", "chased", "the", "mouse.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "chased\n  └─ cat\n  └─ mouse\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestBuildStdinJSON(t *testing.T) {
	useStaticParser(t)

	out, _, err := run(t, catText, "build", "--format", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g, err := graph.Unmarshal([]byte(out))
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if g.NumNodes() != 3 || g.NumEdges() != 2 {
		t.Errorf("unexpected graph %+v", g.Nodes())
	}
}

func TestBuildNounPhrase(t *testing.T) {
	useStaticParser(t)

	out, _, err := run(t, "", "build", "--mode", "noun-phrase", "--format", "json", "Build a delivery app with tracking and payment")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out, `"Delivery App"`) {
		t.Errorf("expected noun phrase node, got %s", out)
	}
}

func TestBuildErrors(t *testing.T) {
	useStaticParser(t)

	if _, _, err := run(t, "", "build", "--mode", "poem", catText); err == nil || !strings.Contains(err.Error(), "unsupported mode") {
		t.Errorf("expected unsupported mode, got %v", err)
	}

	if _, _, err := run(t, "", "build", "colorless green ideas"); err == nil || !strings.Contains(err.Error(), "parse failure") {
		t.Errorf("expected parse failure, got %v", err)
	}

	if _, _, err := run(t, "", "build", "--format", "svg", catText); err == nil {
		t.Errorf("expected unsupported format error")
	}

	if _, _, err := run(t, "", "build", "--save", "cat", catText); err == nil || !strings.Contains(err.Error(), "no repository") {
		t.Errorf("expected no repository error, got %v", err)
	}
}

func TestBuildEmptyInput(t *testing.T) {
	useStaticParser(t)

	out, _, err := run(t, "  \n", "build", "--format", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var p graph.Portable
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatal(err)
	}

	if len(p.Nodes) != 0 || len(p.Edges) != 0 {
		t.Errorf("expected empty graph, got %s", out)
	}
}

func TestBuildFromDoc(t *testing.T) {
	dir := t.TempDir()
	data, _ := json.Marshal(sentencetest.CatChasedMouse())
	path := filepath.Join(dir, "cat.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	// no parser needed
	out, _, err := run(t, "", "build", "--doc", path, "--format", "html", "--layout", "cose")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out, "<title>cat</title>") || !strings.Contains(out, `name: "cose"`) {
		t.Errorf("unexpected html page")
	}
}

func TestSaveListShow(t *testing.T) {
	useStaticParser(t)
	repo := t.TempDir()

	if _, _, err := run(t, "", "--repository", repo, "build", "--save", "cat", catText); err != nil {
		t.Fatalf("build: %v", err)
	}

	out, _, err := run(t, "", "--repository", repo, "graphs")
	if err != nil {
		t.Fatalf("graphs: %v", err)
	}

	if out != "cat\n" {
		t.Errorf("unexpected list %q", out)
	}

	out, _, err = run(t, "", "--repository", repo, "graphs", "--no-color", "--prefix", "cat")
	if err != nil {
		t.Fatalf("graphs cat: %v", err)
	}

	if !strings.Contains(out, "[dobj noun] mouse") {
		t.Errorf("unexpected tree %q", out)
	}

	if _, _, err := run(t, "", "--repository", repo, "graphs", "dog"); err == nil {
		t.Errorf("expected not found error")
	}
}

func TestExportImport(t *testing.T) {
	useStaticParser(t)
	src := t.TempDir()
	exported := t.TempDir()
	dst := filepath.Join(t.TempDir(), "maps.db")

	if _, _, err := run(t, "", "--repository", src, "build", "--save", "cat", catText); err != nil {
		t.Fatalf("build: %v", err)
	}

	out, _, err := run(t, "", "--repository", src, "export", "--to", exported)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if !strings.Contains(out, "exported 1 graphs") {
		t.Errorf("unexpected output %q", out)
	}

	if _, _, err := run(t, "", "--repository", dst, "import", filepath.Join(exported, "cat.json")); err != nil {
		t.Fatalf("import: %v", err)
	}

	out, _, err = run(t, "", "--repository", dst, "graphs", "--format", "json", "cat")
	if err != nil {
		t.Fatalf("graphs: %v", err)
	}

	g, err := graph.Unmarshal([]byte(out))
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := g.Edge("chased", "mouse"); !ok {
		t.Errorf("expected imported edge")
	}
}

func TestBatch(t *testing.T) {
	useStaticParser(t)
	dir := t.TempDir()
	repo := t.TempDir()

	os.WriteFile(filepath.Join(dir, "cat.txt"), []byte(catText), 0644)
	os.WriteFile(filepath.Join(dir, "app.md"), []byte("Build a delivery app with tracking and payment"), 0644)
	os.WriteFile(filepath.Join(dir, "unknown.txt"), []byte("not annotated"), 0644)

	if _, _, err := run(t, "", "--repository", repo, "batch", dir); err == nil {
		t.Errorf("expected failure on unknown text")
	}

	_, _, err := run(t, "", "--repository", repo, "batch", "--keep-going", dir)
	if err == nil || !strings.Contains(err.Error(), "1 files failed") {
		t.Errorf("expected one failed file, got %v", err)
	}

	out, _, err := run(t, "", "--repository", repo, "graphs")
	if err != nil {
		t.Fatal(err)
	}

	if out != "app\ncat\n" {
		t.Errorf("unexpected graphs %q", out)
	}
}

func TestStat(t *testing.T) {
	useStaticParser(t)

	out, _, err := run(t, "", "stat", catText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"Num sentences 1, num tokens 6", "Num nodes 3, num edges 2", "Hub chased (2 edges)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestVersionAndBash(t *testing.T) {
	out, _, err := run(t, "", "version")
	if err != nil || !strings.HasPrefix(out, "mindmap version dev") {
		t.Errorf("unexpected version %q, %v", out, err)
	}

	out, _, err = run(t, "", "bash")
	if err != nil || !strings.Contains(out, "complete -o bashdefault") {
		t.Errorf("unexpected bash script, %v", err)
	}
}

func TestOpenRepository(t *testing.T) {
	dir := t.TempDir()

	fsRepo, err := openRepository(filepath.Join(dir, "maps"))
	if err != nil {
		t.Fatalf("filesystem: %v", err)
	}
	defer fsRepo.Close()

	if info, err := os.Stat(filepath.Join(dir, "maps")); err != nil || !info.IsDir() {
		t.Errorf("expected a directory repository")
	}

	dbRepo, err := openRepository(filepath.Join(dir, "maps.sqlite"))
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	defer dbRepo.Close()

	if info, err := os.Stat(filepath.Join(dir, "maps.sqlite")); err != nil || info.IsDir() {
		t.Errorf("expected a database file")
	}
}

func TestSearch(t *testing.T) {
	useStaticParser(t)
	repo := t.TempDir()

	if _, _, err := run(t, "", "--repository", repo, "build", "--save", "cat", catText); err != nil {
		t.Fatalf("build: %v", err)
	}

	out, _, err := run(t, "", "--repository", repo, "search", "MOUSE")
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if out != "cat: mouse (noun) -> chased\n" {
		t.Errorf("unexpected matches %q", out)
	}

	out, _, err = run(t, "", "--repository", repo, "search", "--role", "root", "mouse")
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if out != "" {
		t.Errorf("expected no matches, got %q", out)
	}

	if _, _, err := run(t, "", "--repository", repo, "search"); err == nil {
		t.Errorf("expected error without terms")
	}
}

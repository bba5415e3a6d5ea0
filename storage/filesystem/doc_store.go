package filesystem

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	sent "github.com/revelaction/mindmap/sentence"
	"github.com/revelaction/mindmap/storage"
)

// DocStore keeps one JSON file per doc, named after the key.
type DocStore struct {
	docDir string
}

var _ storage.DocRepository = (*DocStore)(nil)

// NewDocStore creates a filesystem document store, creating docDir if needed.
func NewDocStore(docDir string) (*DocStore, error) {
	if err := os.MkdirAll(docDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create doc directory: %w", err)
	}

	return &DocStore{docDir: docDir}, nil
}

// List returns one Doc per stored file, with only the Title (the key) set.
func (h *DocStore) List() ([]sent.Doc, error) {
	names, err := jsonNames(h.docDir)
	if err != nil {
		return nil, err
	}

	docs := make([]sent.Doc, 0, len(names))
	for idx, name := range names {
		docs = append(docs, sent.Doc{Id: idx, Title: name})
	}

	return docs, nil
}

func (h *DocStore) Read(key string) (sent.Doc, error) {
	if err := storage.ValidateName(key); err != nil {
		return sent.Doc{}, err
	}

	doc, err := ReadDoc(filepath.Join(h.docDir, key+".json"))
	if err != nil {
		return sent.Doc{}, err
	}

	doc.Title = key
	return doc, nil
}

func (h *DocStore) Write(key string, doc sent.Doc) error {
	if err := storage.ValidateName(key); err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	return writeFile(filepath.Join(h.docDir, key+".json"), data)
}

// ReadDoc reads a Doc JSON from the given path and unmarshals it.
func ReadDoc(path string) (sent.Doc, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return sent.Doc{}, fmt.Errorf("%w: %s", storage.ErrNotFound, filepath.Base(path))
		}
		return sent.Doc{}, fmt.Errorf("IO error: %w", err)
	}

	var doc sent.Doc
	if err := json.Unmarshal(f, &doc); err != nil {
		return sent.Doc{}, fmt.Errorf("JSON error in %s: %w", path, err)
	}

	return doc, nil
}

// jsonNames returns the sorted base names of the .json files in dir.
func jsonNames(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := []string{}
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".json" {
			continue
		}

		names = append(names, strings.TrimSuffix(file.Name(), ".json"))
	}

	sort.Strings(names)
	return names, nil
}

// writeFile writes through a temporary file so readers never see a partial
// file.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}

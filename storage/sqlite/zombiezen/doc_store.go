package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"

	sent "github.com/revelaction/mindmap/sentence"
	"github.com/revelaction/mindmap/storage"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

type DocStore struct {
	pool *sqlitex.Pool
}

var _ storage.DocRepository = (*DocStore)(nil)

func NewDocStore(pool *sqlitex.Pool) *DocStore {
	return &DocStore{pool: pool}
}

func (h *DocStore) List() ([]sent.Doc, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	var docs []sent.Doc
	err = sqlitex.Execute(conn, "SELECT rowid, doc_key, text FROM docs ORDER BY doc_key", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			docs = append(docs, sent.Doc{
				Id:    stmt.ColumnInt(0),
				Title: stmt.ColumnText(1),
				Text:  stmt.ColumnText(2),
			})
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (h *DocStore) Read(key string) (sent.Doc, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return sent.Doc{}, err
	}
	defer h.pool.Put(conn)

	var doc sent.Doc
	found := false

	err = sqlitex.Execute(conn, "SELECT rowid, data FROM docs WHERE doc_key = ?", &sqlitex.ExecOptions{
		Args: []interface{}{key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			if err := json.Unmarshal([]byte(stmt.ColumnText(1)), &doc); err != nil {
				return err
			}
			doc.Id = stmt.ColumnInt(0)
			return nil
		},
	})
	if err != nil {
		return sent.Doc{}, err
	}
	if !found {
		return sent.Doc{}, fmt.Errorf("%w: doc %s", storage.ErrNotFound, key)
	}

	doc.Title = key
	return doc, nil
}

func (h *DocStore) Write(key string, doc sent.Doc) (err error) {
	if err := storage.ValidateName(key); err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	// Start Transaction
	defer sqlitex.Save(conn)(&err)

	err = sqlitex.Execute(conn, `INSERT INTO docs (doc_key, text, data) VALUES (?, ?, ?)
		ON CONFLICT(doc_key) DO UPDATE SET text = excluded.text, data = excluded.data, updated_at = CURRENT_TIMESTAMP`, &sqlitex.ExecOptions{
		Args: []interface{}{key, doc.Text, string(data)},
	})
	if err != nil {
		return fmt.Errorf("failed to insert doc: %w", err)
	}

	return nil
}

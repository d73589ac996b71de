package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/orderdesk/request-dashboard/internal/biz/domain"
	"github.com/orderdesk/request-dashboard/internal/biz/repo"

	_ "modernc.org/sqlite"
)

// documentRepo is a local document store keeping raw JSON documents per collection
type documentRepo struct {
	db *sql.DB
}

// DocumentStore is the local store: readable as a request source and writable for seeding
type DocumentStore interface {
	repo.RequestRepo
	repo.DocumentWriter
}

// NewDocumentRepo opens (or creates) the SQLite document store at dbPath
func NewDocumentRepo(dbPath string) (DocumentStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			body TEXT NOT NULL,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (collection, id)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &documentRepo{db: db}, nil
}

// FetchAll returns every document of the collection
func (r *documentRepo) FetchAll(ctx context.Context, collection string) ([]domain.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, body FROM documents WHERE collection = ?
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		fields := map[string]any{}
		if err := json.Unmarshal([]byte(body), &fields); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
		}
		records = append(records, domain.Record{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}

	if records == nil {
		records = []domain.Record{}
	}
	return records, nil
}

// Put inserts or replaces a document
func (r *documentRepo) Put(ctx context.Context, collection string, rec domain.Record) error {
	if rec.ID == "" {
		return fmt.Errorf("document id is required")
	}
	body, err := json.Marshal(rec.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", rec.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO documents (collection, id, body, updated_at)
		VALUES (?, ?, ?, ?)
	`, collection, rec.ID, string(body), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save document %s: %w", rec.ID, err)
	}
	return nil
}

// Close closes the database connection
func (r *documentRepo) Close() error {
	return r.db.Close()
}

// ParseDocuments decodes a JSON array of documents, each carrying its id in "id"
func ParseDocuments(data []byte) ([]domain.Record, error) {
	var docs []map[string]any
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse documents: %w", err)
	}

	records := make([]domain.Record, 0, len(docs))
	for i, doc := range docs {
		id, _ := doc["id"].(string)
		if id == "" {
			return nil, fmt.Errorf("document %d: missing id", i)
		}
		delete(doc, "id")
		records = append(records, domain.Record{ID: id, Fields: doc})
	}
	return records, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/subhstories/clientmanager/internal/domain/client"
	"github.com/subhstories/clientmanager/internal/jsonfile"
)

// DefaultDocument is the row name holding the client sequence.
const DefaultDocument = "clients"

// DocumentRepository implements client.Repository by storing the whole JSON
// document in a single row.
type DocumentRepository struct {
	db   *DB
	name string
}

// NewDocumentRepository creates a new DocumentRepository for the named document
func NewDocumentRepository(db *DB, name string) *DocumentRepository {
	if name == "" {
		name = DefaultDocument
	}
	return &DocumentRepository{db: db, name: name}
}

// Initialize creates the schema and an empty document if none exists
func (r *DocumentRepository) Initialize(ctx context.Context) error {
	if err := r.db.RunMigrations(); err != nil {
		return fmt.Errorf("%w: %v", client.ErrWrite, err)
	}

	body, err := jsonfile.Encode(nil)
	if err != nil {
		return fmt.Errorf("%w: %v", client.ErrWrite, err)
	}

	query := `
		INSERT INTO documents (name, body, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, r.name, string(body), time.Now().UTC()); err != nil {
		return fmt.Errorf("%w: failed to initialize document: %v", client.ErrWrite, err)
	}
	return nil
}

// Load reads and decodes the document
func (r *DocumentRepository) Load(ctx context.Context) ([]client.Client, error) {
	query := `
		SELECT body
		FROM documents
		WHERE name = ?
	`

	var body string
	err := r.db.QueryRowContext(ctx, query, r.name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return []client.Client{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	return jsonfile.Decode([]byte(body))
}

// Save replaces the document inside a transaction
func (r *DocumentRepository) Save(ctx context.Context, clients []client.Client) error {
	body, err := jsonfile.Encode(clients)
	if err != nil {
		return fmt.Errorf("%w: %v", client.ErrWrite, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", client.ErrWrite, err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO documents (name, body, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`
	if _, err := tx.ExecContext(ctx, query, r.name, string(body), time.Now().UTC()); err != nil {
		return fmt.Errorf("%w: failed to save document: %v", client.ErrWrite, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit transaction: %v", client.ErrWrite, err)
	}
	return nil
}

// UpdatedAt returns when the document was last written. It only reads, so a
// database that was never initialized reports ErrNotFound.
func (r *DocumentRepository) UpdatedAt(ctx context.Context) (time.Time, error) {
	ok, err := r.db.HasTable(ctx, "documents")
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return time.Time{}, fmt.Errorf("%w: documents table", client.ErrNotFound)
	}

	var updated time.Time
	err = r.db.QueryRowContext(ctx, `SELECT updated_at FROM documents WHERE name = ?`, r.name).Scan(&updated)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("%w: document %s", client.ErrNotFound, r.name)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read document timestamp: %w", err)
	}
	return updated, nil
}

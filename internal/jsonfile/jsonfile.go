// Package jsonfile persists the client sequence as a single JSON document on disk.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/subhstories/clientmanager/internal/domain/client"
)

// FileName is the fixed name of the backing file inside the data directory.
const FileName = "data.json"

// document is the on-disk shape: one object holding the full client sequence.
type document struct {
	Clients []client.Client `json:"clients"`
}

// Initialize writes an empty document at path if no file exists there.
func Initialize(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: stat %s: %v", client.ErrWrite, path, err)
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	return Save(path, []client.Client{})
}

// Load reads and parses the document at path.
func Load(path string) ([]client.Client, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(data)
}

// Decode parses a document. Missing optional fields load as zero values and
// createdAt values are read leniently, so only a malformed document is corrupt.
func Decode(data []byte) ([]client.Client, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", client.ErrCorruptData, err)
	}
	return normalize(doc.Clients), nil
}

// Encode renders clients as an indented document in the form Decode returns:
// projects are never null, statuses are set and timestamps are UTC.
func Encode(clients []client.Client) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{Clients: normalize(client.CloneAll(clients))}); err != nil {
		return nil, fmt.Errorf("encode clients: %w", err)
	}
	return buf.Bytes(), nil
}

// Save replaces the document at path. The new content is written to a temporary
// file in the same directory and renamed into place, so readers never see a partial file.
func Save(path string, clients []client.Client) error {
	data, err := Encode(clients)
	if err != nil {
		return fmt.Errorf("%w: %v", client.ErrWrite, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", client.ErrWrite, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %v", client.ErrWrite, tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: sync %s: %v", client.ErrWrite, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", client.ErrWrite, tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("%w: chmod %s: %v", client.ErrWrite, tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: replace %s: %v", client.ErrWrite, path, err)
	}
	return nil
}

func normalize(clients []client.Client) []client.Client {
	if clients == nil {
		return []client.Client{}
	}
	for i := range clients {
		clients[i].CreatedAt = clients[i].CreatedAt.Normalized()
		if clients[i].Projects == nil {
			clients[i].Projects = []client.Project{}
		}
		for j := range clients[i].Projects {
			p := &clients[i].Projects[j]
			p.CreatedAt = p.CreatedAt.Normalized()
			if p.Status == "" {
				p.Status = client.StatusPending
			}
		}
	}
	return clients
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", client.ErrWrite, dir, err)
	}
	return nil
}

// Store implements client.Repository over a single file.
type Store struct {
	path string
}

// NewStore creates a Store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Initialize(_ context.Context) error {
	return Initialize(s.path)
}

func (s *Store) Load(_ context.Context) ([]client.Client, error) {
	return Load(s.path)
}

func (s *Store) Save(_ context.Context, clients []client.Client) error {
	return Save(s.path, clients)
}

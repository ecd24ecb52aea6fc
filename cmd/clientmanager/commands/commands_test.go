package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/subhstories/clientmanager/internal/domain/client"
	"github.com/subhstories/clientmanager/internal/jsonfile"
	"github.com/subhstories/clientmanager/internal/sqlite"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand("v1.2.3")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestInitAndList(t *testing.T) {
	dir := t.TempDir()

	out := run(t, "init", "--data-dir", dir)
	require.Equal(t, filepath.Join(dir, jsonfile.FileName)+"\n", out)
	clients, err := jsonfile.Load(filepath.Join(dir, jsonfile.FileName))
	require.NoError(t, err)
	require.Empty(t, clients)

	require.Equal(t, "no clients\n", run(t, "list", "--data-dir", dir))
}

func TestList_PrintsProjects(t *testing.T) {
	dir := t.TempDir()
	created := client.NewTimestamp(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, jsonfile.Save(filepath.Join(dir, jsonfile.FileName), []client.Client{
		{
			ID:   1,
			Name: "Acme",
			Projects: []client.Project{
				{ID: 2, Title: "Promo Video", Status: client.StatusInProgress, DeliveryDate: "2024-06-01", CreatedAt: created},
				{ID: 3, Title: "Teaser", Status: client.StatusPending, CreatedAt: created},
			},
			CreatedAt: created,
		},
		{ID: 4, Name: "Globex", Projects: []client.Project{}, CreatedAt: created},
	}))

	out := run(t, "list", "--data-dir", dir)
	require.Contains(t, out, "Promo Video")
	require.Contains(t, out, "In Progress")
	require.Contains(t, out, "2024-06-01")
	require.Contains(t, out, "Teaser")
	require.Contains(t, out, "Globex")
	require.Contains(t, out, "2 clients, 2 projects\n")

	var doc struct {
		Clients []client.Client `json:"clients"`
	}
	require.NoError(t, json.Unmarshal([]byte(run(t, "list", "--json", "--data-dir", dir)), &doc))
	require.Len(t, doc.Clients, 2)
	require.Equal(t, "Promo Video", doc.Clients[0].Projects[0].Title)
}

func TestPath(t *testing.T) {
	dir := t.TempDir()

	out := run(t, "path", "--data-dir", dir)
	require.Contains(t, out, "backend: json")
	require.Contains(t, out, "not initialized")

	run(t, "init", "--data-dir", dir, "--backend", "sqlite")
	out = run(t, "path", "--data-dir", dir, "--backend", "sqlite")
	require.Contains(t, out, filepath.Join(dir, "data.db"))
	require.Contains(t, out, "updated:")
}

func TestPath_DoesNotInitializeSQLite(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "data.db")
	require.NoError(t, os.WriteFile(dbPath, nil, 0o644))

	out := run(t, "path", "--data-dir", dir, "--backend", "sqlite")
	require.Contains(t, out, "not initialized")
	require.NotContains(t, out, "updated:")

	db, err := sqlite.New(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	ok, err := db.HasTable(context.Background(), "documents")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestInvalidBackend(t *testing.T) {
	cmd := NewRootCommand("dev")
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"list", "--data-dir", t.TempDir(), "--backend", "postgres"})
	require.Error(t, cmd.Execute())
}

func TestVersion(t *testing.T) {
	require.Equal(t, "clientmanager v1.2.3\n", run(t, "version", "--data-dir", t.TempDir()))
}

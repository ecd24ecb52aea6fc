package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/subhstories/clientmanager/internal/domain/client"
)

func sampleClients() []client.Client {
	created := client.NewTimestamp(time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC))
	return []client.Client{
		{
			ID:      1714640400000,
			Name:    "Acme",
			Email:   "a@acme.com",
			Phone:   "555-0100",
			Address: "1 Main St",
			Projects: []client.Project{
				{ID: 1, Title: "Promo Video", Details: "30s cut", Status: client.StatusInProgress, DeliveryDate: "2024-06-01", CreatedAt: created},
				{ID: 2, Title: "Teaser", Status: client.StatusPending, CreatedAt: created},
			},
			CreatedAt: created,
		},
		{ID: 2, Name: "Globex", Projects: []client.Project{}, CreatedAt: created},
	}
}

func TestInitialize_CreatesEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	require.NoError(t, Initialize(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{"clients": []}`, string(data))

	clients, err := Load(path)
	require.NoError(t, err)
	require.Empty(t, clients)
	require.NotNil(t, clients)
}

func TestInitialize_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, sampleClients()))

	require.NoError(t, Initialize(path))
	clients, err := Load(path)
	require.NoError(t, err)
	require.Len(t, clients, 2)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	want := sampleClients()

	require.NoError(t, Save(path, want))
	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, want, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestLoad_MissingOptionalFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"clients": [{"id": 1, "name": "X", "projects": []}]}`), 0o644))

	clients, err := Load(path)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	require.Equal(t, int64(1), clients[0].ID)
	require.Equal(t, "X", clients[0].Name)
	require.Empty(t, clients[0].Email)
	require.Empty(t, clients[0].Phone)
	require.Empty(t, clients[0].Address)
	require.Empty(t, clients[0].Projects)
}

func TestLoad_LegacyDocument(t *testing.T) {
	doc := `{
  "clients": [
    {
      "name": "Subh",
      "email": "",
      "phone": "",
      "address": "",
      "id": 1717000000000,
      "projects": [
        {"title": "Wedding", "details": "", "status": "On Hold", "deliveryDate": "", "id": 1717000000500, "createdAt": "2024-05-29T16:26:40.500Z"},
        {"title": "Reel", "id": 1717000000600}
      ],
      "createdAt": "2024-05-29T16:26:40.000Z"
    }
  ]
}`
	clients, err := Decode([]byte(doc))
	require.NoError(t, err)
	require.Len(t, clients[0].Projects, 2)
	require.Equal(t, client.StatusOnHold, clients[0].Projects[0].Status)
	require.Equal(t, client.StatusPending, clients[0].Projects[1].Status)
	require.Equal(t, client.NewTimestamp(time.Date(2024, 5, 29, 16, 26, 40, 500_000_000, time.UTC)), clients[0].Projects[0].CreatedAt)
}

func TestLoad_LenientCreatedAt(t *testing.T) {
	doc := `{"clients": [
  {"id": 1, "name": "X", "projects": [], "createdAt": ""},
  {"id": 2, "name": "Y", "createdAt": "2024-05-29", "projects": [
    {"id": 3, "title": "Reel", "status": "Pending", "createdAt": "yesterday"},
    {"id": 4, "title": "Cut", "status": "Pending", "createdAt": "2024-05-29 16:26:40"}
  ]}
]}`
	clients, err := Decode([]byte(doc))
	require.NoError(t, err)
	require.Len(t, clients, 2)

	require.True(t, clients[0].CreatedAt.IsZero())
	require.Equal(t, client.NewTimestamp(time.Date(2024, 5, 29, 0, 0, 0, 0, time.UTC)), clients[1].CreatedAt)
	require.Equal(t, "yesterday", clients[1].Projects[0].CreatedAt.Raw())
	require.Equal(t, client.NewTimestamp(time.Date(2024, 5, 29, 16, 26, 40, 0, time.UTC)), clients[1].Projects[1].CreatedAt)

	data, err := Encode(clients)
	require.NoError(t, err)
	again, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, clients, again)
	require.Contains(t, string(data), `"createdAt": "yesterday"`)
}

func TestSaveLoad_NormalizesBeforeWriting(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cest := time.FixedZone("CEST", 2*3600)
	in := []client.Client{{
		ID:        1,
		Name:      "Acme",
		CreatedAt: client.Timestamp{Time: time.Date(2024, 5, 2, 11, 0, 0, 0, cest)},
	}}

	require.NoError(t, Save(path, in))
	got, err := Load(path)
	require.NoError(t, err)

	// Loaded values equal the normalized input: same instant in UTC, empty projects.
	require.Equal(t, normalize(client.CloneAll(in)), got)
	require.True(t, in[0].CreatedAt.Equal(got[0].CreatedAt.Time))
	require.NotNil(t, got[0].Projects)
	require.Nil(t, in[0].Projects, "input must not be modified")

	before, err := Encode(in)
	require.NoError(t, err)
	after, err := Encode(got)
	require.NoError(t, err)
	require.Equal(t, string(before), string(after))
}

func TestLoad_MissingClientsField(t *testing.T) {
	clients, err := Decode([]byte(`{}`))
	require.NoError(t, err)
	require.Empty(t, clients)
	require.NotNil(t, clients)
}

func TestLoad_Corrupt(t *testing.T) {
	for _, content := range []string{`{"clients": [`, `not json`, `[1,2,3]`, `{"clients": "nope"}`} {
		_, err := Decode([]byte(content))
		require.ErrorIs(t, err, client.ErrCorruptData, content)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	require.NotErrorIs(t, err, client.ErrCorruptData)
}

func TestSave_WriteError(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced")
	}
	dir := filepath.Join(t.TempDir(), "ro")
	require.NoError(t, os.Mkdir(dir, 0o555))

	err := Save(filepath.Join(dir, FileName), sampleClients())
	require.ErrorIs(t, err, client.ErrWrite)
}

func TestStore_Repository(t *testing.T) {
	ctx := context.Background()
	store := NewStore(filepath.Join(t.TempDir(), FileName))
	var _ client.Repository = store

	require.NoError(t, store.Initialize(ctx))
	require.NoError(t, store.Save(ctx, sampleClients()))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, sampleClients(), got)
}

func TestEncode_Indented(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	require.Equal(t, "{\n  \"clients\": []\n}\n", string(data))
}

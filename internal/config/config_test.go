package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, BackendJSON, cfg.Data.Backend)
	require.Equal(t, ModeStdio, cfg.Transport.Mode)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "data.json", filepath.Base(cfg.DataPath()))
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
data:
  dir: /srv/clients
  backend: sqlite
server:
  port: 9090
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("CLIENTMANAGER_CONFIG_PATH", path)
	t.Setenv("CLIENTMANAGER_SERVER_PORT", "7070")
	t.Setenv("CLIENTMANAGER_TRANSPORT_MODE", "http")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/srv/clients", cfg.Data.Dir)
	require.Equal(t, BackendSQLite, cfg.Data.Backend)
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, ModeHTTP, cfg.Transport.Mode)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, filepath.Join("/srv/clients", "data.db"), cfg.DataPath())
	require.Equal(t, "127.0.0.1:7070", cfg.Server.Addr())
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("CLIENTMANAGER_SERVER_PORT", "not-a-port")
	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Data.Backend = "postgres"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Transport.Mode = "grpc"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Data.Dir = ""
	require.Error(t, cfg.Validate())

	require.NoError(t, Default().Validate())
}

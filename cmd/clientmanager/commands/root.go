// Package commands implements the clientmanager command line.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/subhstories/clientmanager/internal/config"
	"github.com/subhstories/clientmanager/internal/domain/client"
	"github.com/subhstories/clientmanager/internal/jsonfile"
	"github.com/subhstories/clientmanager/internal/logging"
	"github.com/subhstories/clientmanager/internal/sqlite"
)

// app carries what every subcommand needs once config is loaded.
type app struct {
	version  string
	cfg      config.Config
	logger   *slog.Logger
	closeLog func() error

	dataDir string
	backend string
}

// NewRootCommand builds the command tree.
func NewRootCommand(version string) *cobra.Command {
	a := &app{version: version}

	rootCmd := &cobra.Command{
		Use:           config.AppName,
		Short:         "Client and project tracker for a video-editing business",
		Long:          "clientmanager keeps clients and their projects in a single JSON file and serves them over MCP or JSON-RPC.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.closeLog != nil {
				return a.closeLog()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "Directory holding the data file (overrides CLIENTMANAGER_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&a.backend, "backend", "", "Storage backend: json or sqlite")

	rootCmd.AddCommand(newServeCommand(a))
	rootCmd.AddCommand(newInitCommand(a))
	rootCmd.AddCommand(newListCommand(a))
	rootCmd.AddCommand(newPathCommand(a))
	rootCmd.AddCommand(newVersionCommand(a))

	return rootCmd
}

func (a *app) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if a.dataDir != "" {
		cfg.Data.Dir = a.dataDir
	}
	if a.backend != "" {
		cfg.Data.Backend = a.backend
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Path:   cfg.Log.Path,
	})
	if err != nil {
		return fmt.Errorf("log file: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	a.closeLog = closeLog
	return nil
}

// openRepository returns the configured backend and a function releasing it.
func (a *app) openRepository() (client.Repository, func() error, error) {
	path := a.cfg.DataPath()
	if a.cfg.Data.Backend != config.BackendSQLite {
		return jsonfile.NewStore(path), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create data directory: %w", err)
	}
	db, err := sqlite.New(path)
	if err != nil {
		return nil, nil, err
	}
	return sqlite.NewDocumentRepository(db, sqlite.DefaultDocument), db.Close, nil
}

// openService opens the repository and loads the client list.
func (a *app) openService(ctx context.Context, opts ...client.Option) (*client.Service, func() error, error) {
	repo, closeRepo, err := a.openRepository()
	if err != nil {
		return nil, nil, err
	}
	svc := client.NewService(repo, a.logger, opts...)
	if err := svc.Open(ctx); err != nil {
		_ = closeRepo()
		return nil, nil, err
	}
	return svc, closeRepo, nil
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/subhstories/clientmanager/internal/config"
	"github.com/subhstories/clientmanager/internal/domain/client"
	"github.com/subhstories/clientmanager/internal/mcp"
	"github.com/subhstories/clientmanager/internal/metrics"
	"github.com/subhstories/clientmanager/internal/transport"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the client store over MCP",
		Long:  "Serve the client store over stdio MCP, or over HTTP with JSON-RPC at /rpc and streamable MCP at /mcp.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if mode != "" {
				a.cfg.Transport.Mode = mode
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "Transport: stdio or http (overrides CLIENTMANAGER_TRANSPORT_MODE)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	recorder := metrics.NewRecorder()
	svc, closeRepo, err := a.openService(ctx, client.WithObserver(recorder))
	if err != nil {
		return err
	}
	defer closeRepo()
	defer a.flushOnExit(svc)

	mcpServer := mcp.NewServer(mcp.Config{
		Clients: svc,
		Version: a.version,
		Logger:  a.logger,
	})

	if a.cfg.Transport.Mode == config.ModeStdio {
		// Logs go to stderr or a file; stdout carries the protocol.
		a.logger.Info("starting stdio transport", "data", a.cfg.DataPath())
		if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("stdio server: %w", err)
		}
		return nil
	}

	return a.serveHTTP(ctx, svc, mcpServer, recorder)
}

func (a *app) serveHTTP(ctx context.Context, svc *client.Service, mcpServer *sdkmcp.Server, recorder *metrics.Recorder) error {
	opts := transport.Options{
		MCP: sdkmcp.NewStreamableHTTPHandler(
			func(*http.Request) *sdkmcp.Server { return mcpServer },
			&sdkmcp.StreamableHTTPOptions{
				Stateless:      false,
				SessionTimeout: 30 * time.Minute,
			},
		),
		Logger: a.logger,
	}
	if a.cfg.Server.Metrics {
		opts.Metrics = recorder.Handler()
	}
	if a.cfg.Server.Token != "" {
		opts.Auth = transport.AuthMiddleware(transport.StaticToken(a.cfg.Server.Token))
	}

	httpServer := &http.Server{
		Addr:              a.cfg.Server.Addr(),
		Handler:           transport.NewServer(mcp.NewHandler(svc), opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening",
			"addr", httpServer.Addr,
			"data", a.cfg.DataPath(),
			"auth", a.cfg.Server.Token != "",
			"metrics", a.cfg.Server.Metrics)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("shutdown error", "error", err)
	}
	return nil
}

// flushOnExit retries a save that failed while serving.
func (a *app) flushOnExit(svc *client.Service) {
	if !svc.Dirty() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := svc.Flush(ctx); err != nil {
		a.logger.Error("unsaved changes lost", "error", err)
		return
	}
	a.logger.Info("saved pending changes")
}

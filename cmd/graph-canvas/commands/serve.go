package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tbrumbaugh5396/graph-canvas/config"
	"github.com/tbrumbaugh5396/graph-canvas/errors"
	"github.com/tbrumbaugh5396/graph-canvas/logger"
	"github.com/tbrumbaugh5396/graph-canvas/server"
	"github.com/tbrumbaugh5396/graph-canvas/storage"
)

// ServeCmd starts the graph server.
var ServeCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Start the graph server",
	Long: `Launch the graph server. Canvas clients talk to it over the REST API
and subscribe to /ws for change notifications.`,
	RunE: runServe,
}

var (
	serveAddr    string
	serveBackend string
	servePath    string
)

func init() {
	ServeCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	ServeCmd.Flags().StringVar(&serveBackend, "backend", "", "Storage backend: memory, jsonfile, or sqlite (overrides config)")
	ServeCmd.Flags().StringVar(&servePath, "path", "", "Storage file path (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	backend := cfg.Storage.Backend
	if serveBackend != "" {
		backend = serveBackend
	}
	path := cfg.Storage.Path
	if servePath != "" {
		path = servePath
	}

	log := logger.Logger
	repo, err := openRepository(backend, path)
	if err != nil {
		return err
	}
	defer repo.Close()
	log.Infow("Opened graph store", "backend", backend, "path", path)

	srv := server.New(repo, addr, log)

	// External rewrites of the JSON document reach connected clients too.
	if fileRepo, ok := repo.(*storage.JSONFileRepository); ok {
		if err := fileRepo.Watch(srv.NotifyAll); err != nil {
			log.Warnw("Store watcher unavailable", "error", err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Infow("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func openRepository(backend, path string) (storage.Repository, error) {
	switch backend {
	case "memory":
		return storage.NewMemoryRepository(), nil
	case "jsonfile":
		return storage.NewJSONFileRepository(path, nil)
	case "sqlite", "":
		return storage.NewSQLiteRepository(path, nil)
	default:
		return nil, errors.Newf("unknown storage backend: %s", backend)
	}
}

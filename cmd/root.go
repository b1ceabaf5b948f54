package cmd

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/bz888/loanchat/internal/api"
	"github.com/bz888/loanchat/internal/api/server"
	"github.com/bz888/loanchat/internal/auth"
	"github.com/bz888/loanchat/internal/chat"
	"github.com/bz888/loanchat/internal/config"
	"github.com/bz888/loanchat/internal/logger"
	"github.com/bz888/loanchat/internal/profile"
	"github.com/bz888/loanchat/internal/session"
	"github.com/bz888/loanchat/internal/ui"
)

func openStore(cfg *config.Config) (session.Store, error) {
	if cfg.Ephemeral {
		return session.NewMemory(), nil
	}
	return session.NewSQLite(cfg.SessionPath)
}

var newStore = openStore

// openBackend opens the session store and the api client over it. The store
// is closed again when the client cannot be built.
func openBackend(cfg *config.Config) (session.Store, *api.Client, error) {
	store, err := newStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open session store: %w", err)
	}
	client, err := api.NewClient(api.ClientConfig{BaseURL: cfg.APIBaseURL, Timeout: cfg.Timeout}, store)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("create api client: %w", err)
	}
	return store, client, nil
}

func Execute() {
	config.Init()
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ui.Init()
	debugConsole, err := ui.GetDebugConsole()
	if err != nil {
		return err
	}

	logger.InitLogger(cfg.Dev, cfg.LogPath, debugConsole)
	defer logger.Close()
	localLogger := logger.NewLogger("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, client, err := openBackend(cfg)
	if err != nil {
		localLogger.Error("Failed to start:", err)
		return err
	}
	defer store.Close()

	if cfg.Mock {
		server.Init()
		go func() {
			if err := server.Run(ctx, cfg.MockAddr); err != nil {
				localLogger.Error("Dev backend stopped:", err)
			}
		}()
	}

	localLogger.Infow("starting", "api", cfg.APIBaseURL, "mock", cfg.Mock, "ephemeral", cfg.Ephemeral)
	err = ui.Run(ctx, ui.Deps{
		Chat:        chat.NewController(client, store),
		Auth:        auth.NewService(client, store),
		Profile:     profile.NewLoader(client, store),
		Downloads:   client,
		DownloadDir: cfg.DownloadDir,
		Dev:         cfg.Dev,
	})
	if err != nil {
		localLogger.Error("UI exited with error:", err)
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"tougpt/pkg/api"
	"tougpt/pkg/chat"
	"tougpt/pkg/config"
	"tougpt/pkg/logging"
	"tougpt/pkg/settings"
	"tougpt/pkg/storage"
)

// app holds what every subcommand needs. Fields are filled in two steps:
// loadConfig before any command runs, open only for commands that touch chats.
type app struct {
	configPath string
	serverURL  string
	backend    string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg     config.Config
	logger  *slog.Logger
	store   storage.Store
	prefs   *settings.Preferences
	client  *api.Client
	manager *chat.Manager
}

func newApp() *app {
	return &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: slog.Default(),
	}
}

func (a *app) loadConfig() error {
	if a.configPath == "" {
		a.configPath = config.GetConfigPath()
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if a.serverURL != "" {
		cfg.ServerURL = a.serverURL
	}
	if a.backend != "" {
		cfg.Storage.Backend = strings.ToLower(a.backend)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", a.configPath, err)
	}
	a.cfg = cfg

	logger, err := logging.Init(cfg)
	if err != nil {
		fmt.Fprintf(a.stderr, "Warning: logging disabled: %v\n", err)
	}
	a.logger = logger
	a.logger.Info("config_loaded",
		"config_path", a.configPath,
		"server_url", cfg.ServerURL,
		"storage", cfg.Storage.Backend,
		"timeout_seconds", cfg.TimeoutSeconds,
	)
	return nil
}

func (a *app) timeout() time.Duration {
	return time.Duration(a.cfg.TimeoutSeconds) * time.Second
}

// open connects storage and restores the saved chats.
func (a *app) open(ctx context.Context) error {
	store, err := storage.Open(ctx, a.cfg)
	if err != nil {
		return fmt.Errorf("error opening %s storage: %w", a.cfg.Storage.Backend, err)
	}
	a.store = store
	a.prefs = settings.New(ctx, store, a.cfg).WithLogger(a.logger)

	a.client = api.NewClient(a.cfg.ServerURL)
	a.client.Logger = a.logger

	a.manager = chat.NewManager(store, a.prefs, a.client,
		chat.WithTimeout(a.timeout()),
		chat.WithLogger(a.logger),
	)
	a.manager.LoadSessions(ctx)
	return nil
}

func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("storage_close_failed", "error", err)
	}
	a.store = nil
}

package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/fatih/color"

	"github.com/ojtrack/ojtrack/internal/adapter/outbound/api"
	"github.com/ojtrack/ojtrack/internal/adapter/outbound/credstore"
	"github.com/ojtrack/ojtrack/internal/config"
	"github.com/ojtrack/ojtrack/internal/domain/session"
)

// app bundles the wired client: config, logger, credential store, API client,
// and session manager. Every command goes through newApp so wiring happens in
// exactly one place.
type app struct {
	cfg     *config.ClientConfig
	logger  *slog.Logger
	store   *credstore.FileCredentialStore
	client  *api.Client
	session *session.Manager
}

// newApp loads configuration, wires the components, and restores the
// persisted session. The session manager is past its loading phase when this
// returns, so route decisions are safe.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if credentialsPath != "" {
		cfg.Credentials.Path = credentialsPath
	}

	logger := newLogger(cfg)
	if cfg.NoColor {
		color.NoColor = true
	}

	store := credstore.NewFileCredentialStore(cfg.Credentials.Path, logger)
	client := api.NewClient(cfg.API.URL,
		api.WithTimeout(cfg.RequestTimeout()),
		api.WithCacheTTL(cfg.ResponseCacheTTL()),
		api.WithLogger(logger),
	)
	mgr := session.NewManager(store, client, logger)

	// The client and the manager reference each other: the client reads the
	// bearer token from the manager, and a 401 on any authenticated request
	// tears the session down centrally.
	client.AttachSession(mgr, mgr.ForceLogout)

	mgr.Initialize(ctx)

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		client:  client,
		session: mgr,
	}, nil
}

func newLogger(cfg *config.ClientConfig) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	} else {
		switch cfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

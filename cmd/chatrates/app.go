// ABOUTME: Shared command setup: config, logger, settings store
// ABOUTME: Builds the simulated host and plugin used by replay and report

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/2389/chat-success-rates/internal/chat"
	"github.com/2389/chat-success-rates/internal/config"
	"github.com/2389/chat-success-rates/internal/eventbus"
	"github.com/2389/chat-success-rates/internal/plugin"
	"github.com/2389/chat-success-rates/internal/settings"
	"github.com/2389/chat-success-rates/internal/sim"
	"github.com/2389/chat-success-rates/internal/store"
)

// app holds what every command needs once the config is loaded.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    store.Store
	settings *settings.Manager
}

func openApp(ctx context.Context, configPath string, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging, logOut)
	slog.SetDefault(logger)

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening settings database: %w", err)
	}

	defaults, err := plugin.SettingsDefaults(cfg.Defaults)
	if err != nil {
		st.Close()
		return nil, err
	}

	mgr, err := settings.NewManager(ctx, st, defaults, logger)
	if err != nil {
		st.Close()
		return nil, err
	}

	logger.Debug("config loaded", "config", configPath, "database", cfg.Database.Path)
	return &app{cfg: cfg, logger: logger, store: st, settings: mgr}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// session is a running plugin attached to a simulated chat box.
type session struct {
	box    *sim.Chatbox
	plugin *plugin.Plugin
}

func (a *app) startSession() (*session, error) {
	opts, err := plugin.OptionsFromConfig(a.cfg)
	if err != nil {
		return nil, err
	}

	bus := eventbus.New[chat.Event]("chat", a.logger)
	box := sim.New(bus, a.logger)
	p := plugin.New(box, a.settings, bus, opts, a.logger)
	box.SetFilter(p)
	p.Start()

	return &session{box: box, plugin: p}, nil
}

// replay runs the script at path through a fresh session.
func (a *app) replay(ctx context.Context, path string) (*session, error) {
	script, err := sim.LoadScript(path)
	if err != nil {
		return nil, err
	}
	s, err := a.startSession()
	if err != nil {
		return nil, err
	}
	if err := script.Run(ctx, s.box, a.settings); err != nil {
		s.plugin.Stop()
		return nil, fmt.Errorf("replaying %s: %w", path, err)
	}
	a.logger.Info("replay finished", "script", path, "lines", len(s.box.Lines()))
	return s, nil
}

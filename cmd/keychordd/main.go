package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/petems/keychord"
	"github.com/petems/keychord/internal/app"
	"github.com/petems/keychord/internal/config"
	"github.com/petems/keychord/internal/logging"
	"github.com/petems/keychord/internal/permissions"
	"github.com/petems/keychord/internal/tray"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

func main() {
	// Load config from XDG/Library/AppData
	cfg, err := config.Load()
	if err != nil {
		// Use default logger if config fails to load
		log := logging.New()
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// Initialize logger with configured level
	log := logging.NewWithLevel(cfg.LogLevel)

	// macOS requires accessibility approval before global hotkeys work
	if err := permissions.EnsurePermissions(); err != nil {
		log.Fatal().Err(err).Msg("Required permissions not granted")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the hotkey engine
	hook, err := keychord.New(keychord.WithLogger(log))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize hotkey capture")
	}
	defer hook.Close()

	// Create tray UI first (we'll pass it to app)
	trayUI := tray.New(nil, cfg, Version, Commit) // App reference set below

	// Create app with tray as status updater
	application := app.New(app.Config{
		Hook:          hook,
		Config:        cfg,
		Logger:        log,
		StatusUpdater: trayUI,
	})

	// Set app reference in tray
	trayUI.SetApp(application)

	// Register configured bindings
	if err := application.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to register bindings")
	}

	log.Info().Int("bindings", len(cfg.Bindings)).Msg("keychordd starting...")

	// Setup shutdown signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Shutting down...")
		application.Shutdown()
		hook.Close()
		os.Exit(0)
	}()

	// Start tray UI - MUST run on main thread
	if err := trayUI.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Tray error")
	}
}

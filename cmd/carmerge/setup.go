package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/carmerge/internal/assets"
	"github.com/vovakirdan/carmerge/internal/config"
	"github.com/vovakirdan/carmerge/internal/platform/tui"
	"github.com/vovakirdan/carmerge/internal/platform/watch"
	"github.com/vovakirdan/carmerge/internal/storage"
)

// newLogger builds the process logger. Without --log-file, logs go to
// stderr only when the terminal is not taken by the TUI.
func newLogger(stderr bool) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}

	var w io.Writer = io.Discard
	closeFn := func() {}
	switch {
	case flagLogFile != "":
		if err := os.MkdirAll(filepath.Dir(flagLogFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
		}
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	case stderr:
		w = os.Stderr
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "carmerge",
		Level:           level,
	})
	return logger, closeFn, nil
}

// loadEnv loads the configuration and models shared by every round.
func loadEnv(logger *log.Logger) (tui.Env, error) {
	cfg, err := config.LoadMerge(flagConfig)
	if err != nil {
		return tui.Env{}, err
	}
	catalog, err := assets.Default()
	if err != nil {
		return tui.Env{}, err
	}
	return tui.Env{Config: cfg, Catalog: catalog, Logger: logger}, nil
}

// openStore opens the history database. Play continues without it.
func openStore(env *tui.Env) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open round history: %v\n", err)
		env.Logger.Warn("could not open round history", "err", err)
		return nil
	}
	env.Store = store
	return store
}

// startWatch serves the snapshot feed on addr until ctx is done.
func startWatch(ctx context.Context, env *tui.Env, addr string) {
	if addr == "" {
		return
	}
	hub := watch.NewHub(env.Logger.WithPrefix("watch"))
	go hub.Run(ctx)
	go func() {
		if err := hub.Serve(ctx, addr); err != nil {
			env.Logger.Error("watch feed stopped", "addr", addr, "err", err)
		}
	}()
	env.Watch = hub
}

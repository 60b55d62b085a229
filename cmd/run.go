package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/arjunr/regchat/internal/app"
	"github.com/arjunr/regchat/internal/backend"
	"github.com/arjunr/regchat/internal/chat"
	"github.com/arjunr/regchat/internal/dispatch"
	"github.com/arjunr/regchat/internal/session"
	"github.com/arjunr/regchat/internal/store"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.DebugLog)
	if err != nil {
		return err
	}
	defer closeLog()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	client := backend.New(cfg.APIBase, cfg.HTTPTimeout)

	sessions, err := session.NewManager(ctx, st, client, logger)
	if err != nil {
		return fmt.Errorf("init session: %w", err)
	}

	timeline := chat.NewTimeline()

	return app.Run(app.Options{
		Timeline:   timeline,
		Dispatcher: dispatch.New(timeline, client, sessions, logger),
		Loader:     dispatch.NewLoader(timeline, client, logger),
		Sessions:   sessions,
		Recorder:   st,
		Logger:     logger,
	})
}

// newLogger builds the application logger. The TUI owns the terminal,
// so logs go to a file when REGCHAT_DEBUG_LOG is set and nowhere
// otherwise.
func newLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open debug log: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { f.Close() }, nil
}

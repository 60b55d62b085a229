package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/arjunr/regchat/internal/backend"
	"github.com/arjunr/regchat/internal/session"
	"github.com/arjunr/regchat/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Start a fresh session",
	Long:  "Rotates the session id. The backend is told the old session may be discarded; the next run starts with an empty conversation.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		client := backend.New(cfg.APIBase, cfg.HTTPTimeout)

		mgr, err := session.NewManager(ctx, st, client, logger)
		if err != nil {
			return fmt.Errorf("init session: %w", err)
		}

		id, err := mgr.Reset(ctx)
		if err != nil {
			return fmt.Errorf("reset session: %w", err)
		}

		fmt.Println("Started new session", id)
		return nil
	},
}

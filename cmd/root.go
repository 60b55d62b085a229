package cmd

import (
	"github.com/spf13/cobra"

	"github.com/arjunr/regchat/internal/config"
	"github.com/arjunr/regchat/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "regchat",
	Short: "Regents exam practice chat",
	Long:  "Regchat is a terminal chat client for Regents exam practice: ask for questions in plain English, take the quiz, keep your score.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("api", "", "Question service base URL (overrides REGCHAT_API_BASE)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides REGCHAT_DB)")

	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment configuration and applies flag
// overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if api, _ := cmd.Flags().GetString("api"); api != "" {
		cfg.APIBase = api
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then REGCHAT_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, nil
	}
	return store.DefaultDBPath()
}

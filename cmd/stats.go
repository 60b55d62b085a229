package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arjunr/regchat/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show recent quiz results",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		attempts, err := st.Attempts(ctx, limit)
		if err != nil {
			return fmt.Errorf("load attempts: %w", err)
		}

		if len(attempts) == 0 {
			fmt.Println("No quizzes finished yet.")
			return nil
		}

		fmt.Printf("%-20s %-24s %7s %7s\n", "FINISHED", "SUBJECT", "SCORE", "MISSED")
		for _, a := range attempts {
			subject := a.Subject
			if subject == "" {
				subject = "-"
			}
			fmt.Printf("%-20s %-24s %3d/%-3d %7d\n",
				a.FinishedAt.Format("2006-01-02 15:04"),
				subject, a.Score, a.Total, a.Missed)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("limit", 20, "Maximum number of results to show (0 = all)")
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hknu/puzzle/apps/go-server/internal/db"
	"github.com/hknu/puzzle/apps/go-server/internal/ranking"
)

var rankingCmd = &cobra.Command{
	Use:   "ranking",
	Short: "Leaderboard tools",
}

var topLimit int

var rankingTopCmd = &cobra.Command{
	Use:   "top <stage>",
	Short: "Print the leaderboard of a stage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := lookupStage(args[0])
		if err != nil {
			return err
		}
		ctx := context.Background()
		sqlDB, err := db.Open(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer sqlDB.Close()

		rk := openRankings(ctx, sqlDB)
		defer rk.Close()

		l, err := rk.Fetch(ctx, st.ID, topLimit)
		if err != nil {
			return fmt.Errorf("fetch ranking: %w", err)
		}
		out := cmd.OutOrStdout()
		source := "remote"
		if l.IsLocal {
			source = "local"
		}
		fmt.Fprintf(out, "Stage %d leaderboard (%s):\n", st.ID, source)
		if len(l.Entries) == 0 {
			fmt.Fprintln(out, "  (none)")
			return nil
		}
		for i, e := range l.Entries {
			fmt.Fprintf(out, "  %2d. %-10s %s  %s\n",
				i+1, e.Nickname, ranking.FormatTimeDetailed(e.TimeMs), e.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	rankingTopCmd.Flags().IntVar(&topLimit, "limit", 0, "entries to show (default: remote window)")
	rankingCmd.AddCommand(rankingTopCmd)
}

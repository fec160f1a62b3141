package main

import (
	"context"
	"fmt"

	"primatebot/internal/bot"
	"primatebot/internal/storage"

	"github.com/spf13/cobra"
)

var (
	rankGuildID int64
	rankUserID  int64
	rankMetric  string
	rankWorst   bool
)

var rankCmd = &cobra.Command{
	Use:   "rank [analysis|records|wins|winrate]",
	Short: "Print a guild leaderboard",
	Long: `Print one of the guild leaderboards:

  analysis  average IQ and purity per user
  records   each user's single most extreme result
  wins      most duel wins
  winrate   best duel win rates

The records board accepts --metric (iq, purity, combined) and --worst.`,
	Args: cobra.ExactArgs(1),
	RunE: runRank,
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().Int64Var(&rankGuildID, "guild", 0, "Guild ID to rank")
	rankCmd.Flags().Int64Var(&rankUserID, "user", 0, "Invoking user ID, highlighted in charts")
	rankCmd.Flags().StringVar(&rankMetric, "metric", "iq", "Metric for the records board: iq, purity, combined")
	rankCmd.Flags().BoolVar(&rankWorst, "worst", false, "Rank worst records instead of best")
	rankCmd.MarkFlagRequired("guild")
}

func runRank(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	h, err := newHandler(e)
	if err != nil {
		return err
	}

	botCmd := bot.Command{GuildID: rankGuildID, UserID: rankUserID}

	switch args[0] {
	case "analysis":
		return runOnDispatcher(e, "rank-analysis", func(ctx context.Context) error {
			return h.RankAnalysis(ctx, botCmd)
		})
	case "records":
		metric, err := storage.ParseMetric(rankMetric)
		if err != nil {
			return err
		}
		direction := storage.Best
		if rankWorst {
			direction = storage.Worst
		}
		return runOnDispatcher(e, "rank-records", func(ctx context.Context) error {
			return h.RankRecords(ctx, botCmd, metric, direction)
		})
	case "wins":
		return runOnDispatcher(e, "rank-wins", func(ctx context.Context) error {
			return h.RankWins(ctx, botCmd)
		})
	case "winrate":
		return runOnDispatcher(e, "rank-winrate", func(ctx context.Context) error {
			return h.RankWinRate(ctx, botCmd)
		})
	default:
		return fmt.Errorf("unknown leaderboard: %s", args[0])
	}
}

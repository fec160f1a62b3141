package main

import (
	"context"

	"primatebot/internal/bot"

	"github.com/spf13/cobra"
)

var (
	duelUserID       int64
	duelGuildID      int64
	duelUsername     string
	duelOpponentID   int64
	duelOpponentName string
)

var duelCmd = &cobra.Command{
	Use:   "duel",
	Short: "Run a monkey-off duel between two users",
	Long: `Roll a purity score for both contestants, persist the outcome, and
print the duel announcement. Self-duels are rejected.`,
	RunE: runDuel,
}

func init() {
	rootCmd.AddCommand(duelCmd)

	duelCmd.Flags().Int64Var(&duelUserID, "user", 0, "Challenging user ID")
	duelCmd.Flags().Int64Var(&duelGuildID, "guild", 0, "Guild ID the duel belongs to")
	duelCmd.Flags().StringVar(&duelUsername, "name", "", "Display name of the challenger")
	duelCmd.Flags().Int64Var(&duelOpponentID, "opponent", 0, "Opponent user ID")
	duelCmd.Flags().StringVar(&duelOpponentName, "opponent-name", "", "Display name of the opponent")
	duelCmd.MarkFlagRequired("user")
	duelCmd.MarkFlagRequired("guild")
	duelCmd.MarkFlagRequired("opponent")
}

func runDuel(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	h, err := newHandler(e)
	if err != nil {
		return err
	}

	return runOnDispatcher(e, "duel", func(ctx context.Context) error {
		return h.MonkeyOff(ctx, bot.Command{
			GuildID:    duelGuildID,
			UserID:     duelUserID,
			Username:   duelUsername,
			TargetID:   duelOpponentID,
			TargetName: duelOpponentName,
		})
	})
}

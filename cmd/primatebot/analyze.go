package main

import (
	"context"

	"primatebot/internal/bot"

	"github.com/spf13/cobra"
)

var (
	analyzeUserID   int64
	analyzeGuildID  int64
	analyzeUsername string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a primate analysis for a user",
	Long: `Roll a fresh IQ and monkey purity score for a user, persist the
result, and print the analysis verdict.`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().Int64Var(&analyzeUserID, "user", 0, "User ID to analyze")
	analyzeCmd.Flags().Int64Var(&analyzeGuildID, "guild", 0, "Guild ID the analysis belongs to")
	analyzeCmd.Flags().StringVar(&analyzeUsername, "name", "", "Display name of the user")
	analyzeCmd.MarkFlagRequired("user")
	analyzeCmd.MarkFlagRequired("guild")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	h, err := newHandler(e)
	if err != nil {
		return err
	}

	return runOnDispatcher(e, "analyze", func(ctx context.Context) error {
		return h.Analyze(ctx, bot.Command{
			GuildID:  analyzeGuildID,
			UserID:   analyzeUserID,
			Username: analyzeUsername,
		})
	})
}

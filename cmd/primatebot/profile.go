package main

import (
	"context"

	"primatebot/internal/bot"

	"github.com/spf13/cobra"
)

var (
	profileUserID     int64
	profileGuildID    int64
	profileUsername   string
	profileTargetID   int64
	profileTargetName string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show a user's stored scores and duel record",
	RunE:  runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.Flags().Int64Var(&profileUserID, "user", 0, "Invoking user ID")
	profileCmd.Flags().Int64Var(&profileGuildID, "guild", 0, "Guild ID")
	profileCmd.Flags().StringVar(&profileUsername, "name", "", "Display name of the invoking user")
	profileCmd.Flags().Int64Var(&profileTargetID, "target", 0, "User ID to inspect instead of the invoker")
	profileCmd.Flags().StringVar(&profileTargetName, "target-name", "", "Display name of the inspected user")
	profileCmd.MarkFlagRequired("user")
	profileCmd.MarkFlagRequired("guild")
}

func runProfile(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	h, err := newHandler(e)
	if err != nil {
		return err
	}

	return runOnDispatcher(e, "profile", func(ctx context.Context) error {
		return h.Profile(ctx, bot.Command{
			GuildID:    profileGuildID,
			UserID:     profileUserID,
			Username:   profileUsername,
			TargetID:   profileTargetID,
			TargetName: profileTargetName,
		})
	})
}

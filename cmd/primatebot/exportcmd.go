package main

import (
	"fmt"
	"os"

	"primatebot/internal/export"

	"github.com/spf13/cobra"
)

var (
	exportGuildID int64
	exportOut     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a guild's scoring data",
	Long: `Write a zstd-compressed JSON dump of one guild's profiles, analysis
history, and duel history.`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().Int64Var(&exportGuildID, "guild", 0, "Guild ID to export")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default: guild-<id>.json.zst)")
	exportCmd.MarkFlagRequired("guild")
}

func runExport(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	out := exportOut
	if out == "" {
		out = fmt.Sprintf("guild-%d.json.zst", exportGuildID)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := export.WriteGuild(f, e.store, exportGuildID); err != nil {
		return err
	}

	fmt.Printf("Exported guild %d to %s\n", exportGuildID, out)
	return nil
}

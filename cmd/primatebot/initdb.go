package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initdbCmd = &cobra.Command{
	Use:   "initdb",
	Short: "Create or migrate the database schema",
	Long: `Create the database file if needed and bring its schema up to date.
Safe to run repeatedly; existing data is preserved.`,
	RunE: runInitDB,
}

func init() {
	rootCmd.AddCommand(initdbCmd)
}

func runInitDB(cmd *cobra.Command, args []string) error {
	// loadEnv already applies the schema on open.
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	fmt.Printf("Database ready at %s\n", e.store.Path())
	return nil
}

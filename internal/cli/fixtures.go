package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var seedFixturesCmd = &cobra.Command{
	Use:   "seed-fixtures",
	Short: "Wipe the database and repopulate it with the fixed development seed",
	Long: `seed-fixtures is a local bring-up and demo helper: it wipes every
existing identity and repopulates the database with the well-known "Alice"
development seed phrase across every registered network. It must never be
used against a production database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeDB, err := openService()
		if err != nil {
			return err
		}
		defer closeDB()

		if err := svc.SeedTestFixtures(); err != nil {
			return fmt.Errorf("seed fixtures: %w", err)
		}
		fmt.Println("Database wiped and repopulated with development fixtures.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedFixturesCmd)
}

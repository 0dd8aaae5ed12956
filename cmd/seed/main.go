package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oggyb/muzz-interest/internal/config"
	"github.com/oggyb/muzz-interest/internal/db"
)

var (
	users   int
	seed    int64
	minimal bool
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Reset the database and load demo data",
	Long:  "Clears every interest table and repopulates users, behaviour stats, learned preferences and discovery queues.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.New()

		database, err := db.NewDB(cfg)
		if err != nil {
			return fmt.Errorf("init db: %w", err)
		}

		if minimal {
			err = db.SeedMinimalTestData(database)
		} else {
			err = db.SeedTestData(database, db.SeedOptions{Users: users, Seed: seed})
		}
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Seeding completed.")
		return nil
	},
}

func init() {
	rootCmd.Flags().IntVarP(&users, "users", "n", 20, "Number of demo users to create")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 = time based)")
	rootCmd.Flags().BoolVar(&minimal, "minimal", false, "Insert three bare profiles only")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/anonto42/nano-midea/notifier/pkg/config"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	dsn        string
	jsonOutput bool

	db *gorm.DB
)

var rootCmd = &cobra.Command{
	Use:           "notifyctl",
	Short:         "Administrative CLI for the notifier database",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if dsn == "" {
			return fmt.Errorf("no database configured: pass --db or set POSTGRES_CONN_STR")
		}
		var err error
		db, err = config.InitPostgres(dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db == nil {
			return
		}
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dsn, "db", os.Getenv("POSTGRES_CONN_STR"), "PostgreSQL connection string")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(usersCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

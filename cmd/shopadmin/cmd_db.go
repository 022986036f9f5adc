package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopadmin/config"
	"github.com/shashiranjanraj/shopadmin/database/seeders"
	"github.com/shashiranjanraj/shopadmin/pkg/database"
	"github.com/shashiranjanraj/shopadmin/pkg/migration"
)

// withDB loads config, opens the database for fn and closes it after.
func withDB(fn func(db *gorm.DB) error) error {
	if err := config.Load(); err != nil {
		return err
	}
	db, err := database.Connect()
	if err != nil {
		return err
	}
	defer database.Close(db)
	return fn(db)
}

func printNames(verb string, names []string) {
	if len(names) == 0 {
		fmt.Println("Nothing to do.")
		return
	}
	for _, n := range names {
		fmt.Printf("%s: %s\n", verb, n)
	}
}

// shopadmin migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			ran, err := migration.New(db).Up()
			printNames("Migrated", ran)
			return err
		})
	},
}

// shopadmin migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Roll back the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			rolled, err := migration.New(db).Rollback()
			printNames("Rolled back", rolled)
			return err
		})
	},
}

// shopadmin migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			status, err := migration.New(db).Status()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "RAN\tBATCH\tMIGRATION")
			for _, s := range status {
				ran, batch := "No", "-"
				if s.Ran {
					ran, batch = "Yes", fmt.Sprint(s.Batch)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", ran, batch, s.Name)
			}
			return w.Flush()
		})
	},
}

// shopadmin seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			ran, err := seeders.RunAll(db)
			printNames("Seeded", ran)
			return err
		})
	},
}

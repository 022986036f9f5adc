// Command shopadmin runs the storefront admin API and its maintenance tasks.
//
//	shopadmin serve             # HTTP (and gRPC health when GRPC_PORT is set)
//	shopadmin migrate           # apply pending migrations
//	shopadmin migrate:rollback
//	shopadmin migrate:status
//	shopadmin seed              # default admin and demo coupon
//	shopadmin route:list
//	shopadmin assets:prune      # delete images no product references
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Register migrations and seeders.
	_ "github.com/shashiranjanraj/shopadmin/database/migrations"
	_ "github.com/shashiranjanraj/shopadmin/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "shopadmin",
	Short:         "Storefront admin API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	rootCmd.AddCommand(assetsPruneCmd)
}

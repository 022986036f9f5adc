package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopadmin/config"
	"github.com/shashiranjanraj/shopadmin/internal/kernel"
	"github.com/shashiranjanraj/shopadmin/pkg/storage"
)

// shopadmin assets:prune
var assetsPruneCmd = &cobra.Command{
	Use:   "assets:prune",
	Short: "Delete stored images that no product references",
	Long: "Deletes files on the upload disk that no product references and that are\n" +
		"older than ASSET_PRUNE_GRACE.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return withDB(func(db *gorm.DB) error {
			disk, err := storage.Open(ctx, config.StorageDefault())
			if err != nil {
				return err
			}
			opts, err := kernel.FromConfig(db, disk, nil)
			if err != nil {
				return err
			}
			app, err := kernel.New(opts)
			if err != nil {
				return err
			}
			defer app.Pool.Shutdown()

			removed, err := app.Catalog.PruneImages(ctx)
			printNames("Deleted", removed)
			return err
		})
	},
}

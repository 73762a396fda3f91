package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"feed-go/internal/app"
)

// newStoreApp reads the config and creates a StoreApp. The caller must defer app.Close().
func newStoreApp(ctx context.Context, operation string) (*app.StoreApp, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewStoreApp(ctx, cfg, operation, verbose)
	if err != nil {
		return nil, fmt.Errorf("initializing store: %w", err)
	}
	return a, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a resource store for feed clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		listen, _ := cmd.Flags().GetString("listen")
		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}

		a, err := newStoreApp(cmd.Context(), "Serve")
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Serve(cmd.Context(), listen)
	},
}

// store command
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Maintain the local resource store",
}

var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the store schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Opening the store applies pending migrations.
		a, err := newStoreApp(cmd.Context(), "StoreMigrate")
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Println("Store schema is up to date.")
		return nil
	},
}

var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the SQLite store schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newStoreApp(cmd.Context(), "StoreStatus")
		if err != nil {
			return err
		}
		defer a.Close()

		path, status, err := a.Status()
		if path != "" {
			fmt.Printf("Database: %s\n", path)
			fmt.Printf("Schema:   %s\n", status)
		}
		if err != nil {
			return err
		}
		fmt.Println("Schema is current.")
		return nil
	},
}

var storeBackupCmd = &cobra.Command{
	Use:   "backup DEST",
	Short: "Copy the SQLite store to DEST",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newStoreApp(cmd.Context(), "StoreBackup")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Backup(args[0]); err != nil {
			return err
		}
		fmt.Printf("Backup written to %s\n", args[0])
		return nil
	},
}

func init() {
	serveCmd.Flags().StringP("listen", "l", "", "Address to listen on (default from config)")

	storeCmd.AddCommand(storeMigrateCmd)
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeBackupCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(storeCmd)
}

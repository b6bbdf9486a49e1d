package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/facegate/internal/config"
	"github.com/kozaktomas/facegate/internal/database"
	"github.com/kozaktomas/facegate/internal/database/mariadb"
	"github.com/kozaktomas/facegate/internal/database/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Create or update the neighborhoods schema for the configured
DATABASE_DRIVER. Running it again is a no-op.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().Bool("status", false, "List applied migrations instead of applying (postgres only)")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	logger := newLogger(cfg.Log, os.Stderr)
	ctx := context.Background()

	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL environment variable is required")
	}
	status := mustGetBool(cmd, "status")

	switch cfg.Database.Driver {
	case database.DriverPostgres:
		pool, err := postgres.NewPool(&cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		defer pool.Close()

		if !status {
			if err := pool.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
		}
		applied, err := pool.MigrationsApplied(ctx)
		if err != nil {
			return fmt.Errorf("failed to list migrations: %w", err)
		}
		out := cmd.OutOrStdout()
		for _, name := range applied {
			fmt.Fprintln(out, name)
		}
	case database.DriverMySQL:
		if status {
			return errors.New("--status is only supported for postgres")
		}
		pool, err := mariadb.NewPool(&cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to MariaDB: %w", err)
		}
		defer pool.Close()

		if err := pool.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.Database.Driver)
	}

	logger.Info("migrations complete", "driver", cfg.Database.Driver)
	return nil
}

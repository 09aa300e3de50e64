package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yukikurage/issue-tracker-api/internal/database"
	"github.com/yukikurage/issue-tracker-api/internal/logger"
	"github.com/yukikurage/issue-tracker-api/internal/repository"
	"github.com/yukikurage/issue-tracker-api/internal/services"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and seed roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := bootstrap(); err != nil {
				return err
			}
			db := database.GetDB()
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			if err := database.Seed(db); err != nil {
				return fmt.Errorf("failed to seed roles: %w", err)
			}
			logger.Info("Migrations completed")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the built-in roles if they are missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := bootstrap(); err != nil {
				return err
			}
			if err := database.Seed(database.GetDB()); err != nil {
				return fmt.Errorf("failed to seed roles: %w", err)
			}
			logger.Info("Roles seeded")
			return nil
		},
	}
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Mark overdue tasks as delayed once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := bootstrap(); err != nil {
				return err
			}
			maintenance := services.NewMaintenanceService(repository.NewTaskRepository(database.GetDB()))
			count, err := maintenance.SweepOverdueTasks(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d task(s) marked as delayed\n", count)
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deppfellow/software-engineers/internal/database"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Bring the database schema up to date and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, loggerService, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer loggerService.Shutdown()

			db, err := database.New(cfg, log, loggerService)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer db.Close()

			return db.Migrate(cmd.Context(), cfg)
		},
	}
}

package main

import (
	"fmt"

	"maintenance-system/pkg/database/postgresql"

	"github.com/spf13/cobra"
)

func migrateCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Применить миграции базы данных",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pool, err := postgresql.ConnectDB(ctx, app.cfg.Postgres.DSN, app.logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgresql.Migrate(ctx, pool); err != nil {
				return fmt.Errorf("ошибка миграции: %w", err)
			}
			app.logger.Info("Миграции применены")
			return nil
		},
	}
}

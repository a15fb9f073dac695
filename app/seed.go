package main

import (
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/database/postgresql"
	"maintenance-system/seeders"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func seedCommand(app *appContext) *cobra.Command {
	var withMigrations bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Заполнить базу демо-оборудованием и базовыми протоколами",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pool, err := postgresql.ConnectDB(ctx, app.cfg.Postgres.DSN, app.logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			if withMigrations {
				if err := postgresql.Migrate(ctx, pool); err != nil {
					return err
				}
			}

			// Кэш каталога тоже надо сбросить, иначе serve отдаст старые протоколы
			redisClient := redis.NewClient(&redis.Options{
				Addr:     app.cfg.Redis.Address,
				Password: app.cfg.Redis.Password,
				DB:       app.cfg.Redis.DB,
			})
			defer redisClient.Close()

			var protocolRepo repositories.ProtocolRepositoryInterface = repositories.NewProtocolRepository(pool, app.logger)
			if err := redisClient.Ping(ctx).Err(); err != nil {
				app.logger.Warn("Redis недоступен, кэш протоколов не будет сброшен", zap.Error(err))
			} else {
				protocolRepo = repositories.NewCachedProtocolRepository(
					protocolRepo,
					repositories.NewRedisCacheRepository(redisClient),
					app.cfg.Protocols.CatalogCacheTTL,
					app.logger,
				)
			}

			return seeders.SeedDemo(
				ctx,
				repositories.NewTxManager(pool),
				repositories.NewEquipmentRepository(pool, app.logger),
				protocolRepo,
				app.logger,
			)
		},
	}

	cmd.Flags().BoolVar(&withMigrations, "migrate", false, "Перед наполнением применить миграции")
	return cmd
}

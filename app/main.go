// Файл: main.go

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"maintenance-system/pkg/config"
	applogger "maintenance-system/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// appContext - общее состояние для всех команд, заполняется в PersistentPreRunE.
type appContext struct {
	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	app := &appContext{}

	rootCmd := &cobra.Command{
		Use:           "maintenance",
		Short:         "Сервис базовых протоколов обслуживания",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app.cfg = config.New()
			app.logger = applogger.NewLogger(app.cfg.Log)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.logger != nil {
				_ = app.logger.Sync()
			}
		},
	}

	rootCmd.AddCommand(
		serveCommand(app),
		migrateCommand(app),
		seedCommand(app),
		tokenCommand(app),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if app.logger != nil {
			app.logger.Error("Команда завершилась с ошибкой", zap.Error(err))
		} else {
			os.Stderr.WriteString(err.Error() + "\n")
		}
		stop()
		os.Exit(1)
	}
}

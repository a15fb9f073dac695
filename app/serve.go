package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"slices"
	"time"

	"maintenance-system/internal/listeners"
	"maintenance-system/internal/repositories"
	"maintenance-system/internal/routes"
	"maintenance-system/internal/services"
	"maintenance-system/internal/suggestions"
	"maintenance-system/internal/suggestions/gemini"
	"maintenance-system/internal/suggestions/httpapi"
	"maintenance-system/internal/suggestions/mock"
	"maintenance-system/pkg/config"
	"maintenance-system/pkg/database/postgresql"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/eventbus"
	"maintenance-system/pkg/filestorage"
	"maintenance-system/pkg/metrics"
	appmiddleware "maintenance-system/pkg/middleware"
	"maintenance-system/pkg/service"
	"maintenance-system/pkg/utils"
	"maintenance-system/pkg/validation"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func serveCommand(app *appContext) *cobra.Command {
	var migrateOnStart bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), app.cfg, app.logger, migrateOnStart)
		},
	}

	cmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "Применить миграции перед запуском")
	return cmd
}

func runServer(ctx context.Context, cfg *config.Config, logger *zap.Logger, migrateOnStart bool) error {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOriginFunc: func(origin string) (bool, error) {
			return slices.Contains(cfg.Server.AllowedOrigins, origin), nil
		},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{"Content-Disposition"},
	}))
	e.Use(appmiddleware.RequestLogger(logger.Named("http")))

	e.Validator = validation.New()

	absPath, err := filepath.Abs(cfg.Protocols.UploadsDir)
	if err != nil {
		return fmt.Errorf("не удалось получить абсолютный путь к %s: %w", cfg.Protocols.UploadsDir, err)
	}
	fileStorage, err := filestorage.NewLocalFileStorage(absPath, cfg.Protocols.UploadsURLPrefix)
	if err != nil {
		return err
	}
	e.Static(cfg.Protocols.UploadsURLPrefix, absPath)

	dbConn, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if migrateOnStart {
		if err := postgresql.Migrate(ctx, dbConn); err != nil {
			return err
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("не удалось подключиться к Redis %s: %w", cfg.Redis.Address, err)
	}

	appMetrics := metrics.New()
	e.GET("/metrics", echo.WrapHandler(appMetrics.Handler()))

	provider, err := buildSuggestionProvider(ctx, cfg.Suggestion, fileStorage, logger)
	if err != nil {
		return err
	}
	logger.Info("Сервис подсказок выбран", zap.String("provider", provider.Name()))

	protocolRepo := repositories.NewCachedProtocolRepository(
		repositories.NewProtocolRepository(dbConn, logger),
		repositories.NewRedisCacheRepository(redisClient),
		cfg.Protocols.CatalogCacheTTL,
		logger,
	)

	bus := eventbus.New(logger.Named("events"))
	listeners.NewAuditListener(repositories.NewAuditRepository(dbConn), logger.Named("audit")).Register(bus)

	baseProtocolService := services.NewBaseProtocolService(
		services.WorkflowDeps{
			EquipmentRepo: repositories.NewEquipmentRepository(dbConn, logger),
			ProtocolRepo:  protocolRepo,
			Provider:      suggestions.WithMetrics(provider, appMetrics),
			Bus:           bus,
			Metrics:       appMetrics,
			CallTimeout:   cfg.Suggestion.CallTimeout,
			Logger:        logger,
		},
		fileStorage,
		services.SessionConfig{TTL: cfg.Protocols.SessionTTL, CleanupInterval: cfg.Protocols.SessionTTL / 2},
	)

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL, logger)

	routes.InitRouter(e, jwtSvc, baseProtocolService, &routes.Loggers{
		Main: logger,
		Auth: logger.Named("auth"),
		API:  logger.Named("api"),
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("🚀 Сервер запущен", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("ошибка запуска сервера: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Получен сигнал остановки, завершаем работу")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", zap.Error(err))
	}

	// Дожидаемся записи журнала по уже опубликованным событиям
	bus.Wait()
	logger.Info("Сервер остановлен")
	return nil
}

// buildSuggestionProvider регистрирует все доступные реализации и выбирает активную по конфигурации.
// mock доступен всегда, genai только при наличии ключа.
func buildSuggestionProvider(ctx context.Context, cfg config.SuggestionConfig, storage filestorage.FileStorageInterface, logger *zap.Logger) (suggestions.Provider, error) {
	registry := suggestions.NewRegistry()

	if err := registry.Register(mock.NewMockProvider()); err != nil {
		return nil, err
	}

	if cfg.GenAIAPIKey != "" {
		genaiProvider, err := gemini.New(ctx, cfg.GenAIAPIKey, cfg.TextModel, cfg.ImageModel, storage, logger.Named("genai"))
		if err != nil {
			return nil, fmt.Errorf("не удалось создать клиент genai: %w", err)
		}
		if err := registry.Register(genaiProvider); err != nil {
			return nil, err
		}
	}

	if cfg.HTTPBaseURL != "" {
		if err := registry.Register(httpapi.New(cfg.HTTPBaseURL, cfg.HTTPAPIKey, cfg.HTTPTimeout, logger.Named("suggestions-http"))); err != nil {
			return nil, err
		}
	}

	if err := registry.SetActive(cfg.Provider); err != nil {
		return nil, fmt.Errorf("сервис подсказок %q: %w", cfg.Provider, err)
	}
	return registry.GetActive()
}

package routes

import (
	"maintenance-system/internal/controllers"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/middleware"
	"maintenance-system/pkg/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type Loggers struct {
	Main *zap.Logger
	Auth *zap.Logger
	API  *zap.Logger
}

// InitRouter регистрирует маршруты API. Сервисы собираются в app, здесь только HTTP-слой.
func InitRouter(e *echo.Echo, jwtSvc service.JWTService, baseProtocolService services.BaseProtocolServiceInterface, loggers *Loggers) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, loggers.Auth)
	secureGroup := api.Group("", authMW.Auth)

	baseProtocolCtrl := controllers.NewBaseProtocolController(baseProtocolService, loggers.API)
	runBaseProtocolRouter(secureGroup, baseProtocolCtrl, authMW)

	loggers.Main.Info("INIT_ROUTER: Создание маршрутов завершено")
}

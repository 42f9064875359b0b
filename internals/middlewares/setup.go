package middlewares

import (
	"github.com/gofiber/fiber/v2"

	loggerMiddleware "escolinha_backend/internals/middlewares/logger"
)

// SetupMiddlewares registra os middlewares globais na ordem esperada
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(loggerMiddleware.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}

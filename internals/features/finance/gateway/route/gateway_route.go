package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	gatewayController "escolinha_backend/internals/features/finance/gateway/controller"
	gatewayService "escolinha_backend/internals/features/finance/gateway/service"
	"escolinha_backend/internals/middlewares"
)

// GatewayWebhookRoutes - endpoint público chamado pela Asaas
func GatewayWebhookRoutes(app *fiber.App, db *gorm.DB) {
	webhook := gatewayController.NewWebhookController(gatewayService.NewGormReconcileStore(db))
	app.Post("/webhooks/asaas", middlewares.WebhookRateLimiter(), webhook.HandleAsaas)
}

// GatewayAdminRoutes - configuração do gateway (staff)
func GatewayAdminRoutes(admin fiber.Router, db *gorm.DB) {
	cfg := gatewayController.NewGatewayConfigController(db)
	admin.Get("/finance/gateway-config", cfg.Get)
	admin.Put("/finance/gateway-config", cfg.Update)
}

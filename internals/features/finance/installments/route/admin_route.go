package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	installmentController "escolinha_backend/internals/features/finance/installments/controller"
	gatewayService "escolinha_backend/internals/features/finance/gateway/service"
)

// InstallmentAdminRoutes - tela de detalhe da cobrança + lote (staff)
func InstallmentAdminRoutes(admin fiber.Router, db *gorm.DB) {
	cfg := gatewayService.NewDBConfigProvider(db)
	ctrl := installmentController.NewInstallmentController(db, cfg)
	actions := installmentController.NewInstallmentActionController(db, cfg)

	g := admin.Group("/finance/installments")
	g.Post("/", ctrl.Create)
	g.Get("/", ctrl.List)
	g.Post("/generate-payments", actions.GenerateBatch)
	g.Get("/:id", ctrl.GetByID)

	g.Patch("/:id/instructions", actions.SaveInstructions)
	g.Patch("/:id/publish", actions.TogglePublish)
	g.Patch("/:id/dates", actions.UpdateDates)
	g.Post("/:id/pay", actions.MarkPaid)
	g.Post("/:id/negotiate", actions.Negotiate)
	g.Post("/:id/cancel", actions.Cancel)
	g.Post("/:id/generate", actions.Generate)
	g.Post("/:id/gateway-action", actions.GatewayAction)
}

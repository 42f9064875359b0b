package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	installmentController "escolinha_backend/internals/features/finance/installments/controller"
	gatewayService "escolinha_backend/internals/features/finance/gateway/service"
)

// InstallmentUserRoutes - visão do responsável (somente parcelas publicadas)
func InstallmentUserRoutes(user fiber.Router, db *gorm.DB) {
	ctrl := installmentController.NewInstallmentController(db, gatewayService.NewDBConfigProvider(db))

	g := user.Group("/finance/installments")
	g.Get("/", ctrl.ListMine)
}

package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"escolinha_backend/internals/configs"
	notifController "escolinha_backend/internals/features/notifications/controller"
	notifService "escolinha_backend/internals/features/notifications/service"
)

func newController(db *gorm.DB) *notifController.NotificationController {
	sender := notifService.NewWhatsappClient(configs.WhatsappBaseURL, configs.WhatsappToken)
	return notifController.NewNotificationController(db, notifService.NewDispatchService(db, sender))
}

// NotificationAdminRoutes - criação/listagem e configuração do canal (staff)
func NotificationAdminRoutes(admin fiber.Router, db *gorm.DB) {
	h := newController(db)
	notif := admin.Group("/notifications")
	notif.Post("/", h.Create)
	notif.Get("/", h.List)
	notif.Put("/channel-settings", h.UpdateChannelSetting)
}

// NotificationInternalRoutes - disparo chamado por jobs internos
func NotificationInternalRoutes(app *fiber.App, db *gorm.DB) {
	h := newController(db)
	app.Post("/internal/notifications/:id/dispatch", h.DispatchOne)
}

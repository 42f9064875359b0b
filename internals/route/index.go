// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"escolinha_backend/internals/configs"
	gatewayRoute "escolinha_backend/internals/features/finance/gateway/route"
	installmentRoute "escolinha_backend/internals/features/finance/installments/route"
	notificationRoute "escolinha_backend/internals/features/notifications/route"
	enrollmentRoute "escolinha_backend/internals/features/school/enrollments/route"
	userRoute "escolinha_backend/internals/features/users/route"
	"escolinha_backend/internals/middlewares"
	authMiddleware "escolinha_backend/internals/middlewares/auth"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	app.Use(middlewares.DBMiddleware(db))

	// ===================== BASE / AUTH =====================
	BaseRoutes(app)

	log.Println("[INFO] Montando AuthRoutes...")
	userRoute.AuthRoutes(app, db)

	// ===================== WEBHOOKS (público) =====================
	log.Println("[INFO] Montando webhook da Asaas...")
	gatewayRoute.GatewayWebhookRoutes(app, db)

	// ===================== INTERNAL =====================
	log.Println("[INFO] Montando rotas internas de notificação...")
	notificationRoute.NotificationInternalRoutes(app, db)

	// ===================== GROUPS =====================

	// responsável autenticado
	log.Println("[INFO] Montando grupo USER (/api/u)...")
	user := app.Group("/api/u",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              configs.JWTSecret,
			AllowCookieFallback: true,
		}),
	)

	// equipe da escola
	log.Println("[INFO] Montando grupo ADMIN (/api/a)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              configs.JWTSecret,
			AllowCookieFallback: true,
		}),
		authMiddleware.RequireStaff(),
	)

	// ===================== MOUNT =====================

	log.Println("[INFO] Montando rotas de usuários...")
	userRoute.UserAdminRoutes(admin, db)

	log.Println("[INFO] Montando rotas de matrículas...")
	enrollmentRoute.EnrollmentAdminRoutes(admin, db)

	log.Println("[INFO] Montando rotas financeiras...")
	installmentRoute.InstallmentAdminRoutes(admin, db)
	installmentRoute.InstallmentUserRoutes(user, db)
	gatewayRoute.GatewayAdminRoutes(admin, db)

	log.Println("[INFO] Montando rotas de notificações...")
	notificationRoute.NotificationAdminRoutes(admin, db)
}

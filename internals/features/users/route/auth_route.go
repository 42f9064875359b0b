package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userController "escolinha_backend/internals/features/users/controller"
	"escolinha_backend/internals/middlewares"
)

// AuthRoutes monta as rotas públicas de autenticação
func AuthRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := userController.NewAuthController(db)

	auth := app.Group("/api/auth")
	auth.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
}

// UserAdminRoutes monta as rotas de gestão de usuários (grupo admin)
func UserAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := userController.NewAuthController(db)
	admin.Post("/users", ctrl.CreateUser)
}

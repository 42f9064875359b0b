package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	enrollmentController "escolinha_backend/internals/features/school/enrollments/controller"
)

// EnrollmentAdminRoutes - CRUD de matrículas (staff)
func EnrollmentAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := enrollmentController.NewEnrollmentController(db)

	g := admin.Group("/enrollments")
	g.Post("/", ctrl.Create)
	g.Get("/", ctrl.List)
	g.Get("/:id", ctrl.GetByID)
	g.Put("/:id", ctrl.Update)
}

package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	availabilityController "tutorat_backend/internals/features/sessions/availability/controller"
)

func AvailabilityRoutes(private fiber.Router, db *gorm.DB) {
	ctrl := availabilityController.NewAvailabilityController(db)

	availability := private.Group("/availability")
	availability.Post("/", ctrl.CreateAvailability)
	availability.Get("/", ctrl.GetMyAvailability)
	availability.Get("/tutor/:tutorId", ctrl.GetTutorAvailability)
	availability.Put("/:id", ctrl.UpdateAvailability)
	availability.Delete("/:id", ctrl.DeleteAvailability)
}

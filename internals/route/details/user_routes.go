package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userController "tutorat_backend/internals/features/users/user/controller"
)

func UserRoutes(private fiber.Router, db *gorm.DB) {
	ctrl := userController.NewUserController(db)

	user := private.Group("/users")
	user.Get("/me", ctrl.GetMe)
	user.Put("/me", ctrl.UpdateMe)
	user.Post("/onboarding", ctrl.Onboarding)
	user.Put("/tutor-profile", ctrl.UpdateTutorProfile)
	user.Put("/student-profile", ctrl.UpdateStudentProfile)
}

package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	consortiumController "tutorat_backend/internals/features/consortiums/consortium/controller"
)

func ConsortiumRoutes(private fiber.Router, db *gorm.DB) {
	ctrl := consortiumController.NewConsortiumController(db)

	consortiums := private.Group("/consortiums")
	consortiums.Post("/", ctrl.CreateConsortium)
	consortiums.Get("/", ctrl.GetMyConsortiums)
	consortiums.Get("/:id", ctrl.GetConsortium)
	consortiums.Put("/:id", ctrl.UpdateConsortium)
	consortiums.Delete("/:id", ctrl.DeleteConsortium)

	consortiums.Put("/:id/policy", ctrl.UpdateRevenuePolicy)
	consortiums.Post("/:id/invite", ctrl.InviteTutorsByEmail)

	consortiums.Get("/:id/members", ctrl.GetMembers)
	consortiums.Post("/:id/members", ctrl.AddMember)
	consortiums.Delete("/:id/members/:tutorId", ctrl.RemoveMember)
}

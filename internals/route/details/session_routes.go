package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	classController "tutorat_backend/internals/features/sessions/class/controller"
)

func SessionRoutes(private fiber.Router, db *gorm.DB) {
	classes := classController.NewClassController(db)
	sessions := classController.NewSessionController(db)

	classGroup := private.Group("/classes")
	classGroup.Post("/", classes.CreateClass)
	classGroup.Get("/", classes.GetMyClasses)
	classGroup.Get("/:id", classes.GetClass)
	classGroup.Put("/:id", classes.UpdateClass)
	classGroup.Delete("/:id", classes.DeleteClass)

	classGroup.Post("/:id/enroll", classes.Enroll)
	classGroup.Post("/:id/leave", classes.Leave)

	classGroup.Post("/:id/sessions", sessions.CreateSession)
	classGroup.Get("/:id/sessions", sessions.GetClassSessions)

	sessionGroup := private.Group("/sessions")
	sessionGroup.Get("/", sessions.GetMySessions)
	sessionGroup.Put("/:id/status", sessions.UpdateSessionStatus)
}

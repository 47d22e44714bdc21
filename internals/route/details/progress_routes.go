package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	badgeController "tutorat_backend/internals/features/progress/badges/controller"
	resultController "tutorat_backend/internals/features/progress/results/controller"
)

func ProgressRoutes(private fiber.Router, db *gorm.DB) {
	results := resultController.NewAcademicResultController(db)
	badges := badgeController.NewBadgeController(db)

	progress := private.Group("/progress")
	progress.Post("/results", results.CreateResult)
	progress.Get("/results", results.GetMyResults)
	progress.Get("/results/:id", results.GetResult)
	progress.Put("/results/:id", results.UpdateResult)
	progress.Delete("/results/:id", results.DeleteResult)

	progress.Get("/subjects", results.GetSubjects)
	progress.Get("/subject/:subject", results.GetSubjectProgress)
	progress.Get("/dashboard", results.GetDashboard)
	progress.Get("/visualization", results.GetVisualization)

	progress.Get("/badges", badges.GetMyBadges)
}

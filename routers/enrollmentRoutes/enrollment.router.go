package enrollmentRoutes

import (
	enrollmentController "cyberlearn/controllers/enrollment"
	"cyberlearn/middleware"
	"cyberlearn/models"
	enrollmentValidator "cyberlearn/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

func SetupEnrollmentRoutes(app *fiber.App) {
	enrollmentGroup := app.Group("/api/enrollments")
	admin := middleware.RequireRole(models.RoleAdmin)

	enrollmentGroup.Post("/", middleware.JWTMiddleware, enrollmentValidator.Enroll(), enrollmentController.Enroll)
	enrollmentGroup.Get("/", middleware.JWTMiddleware, admin, enrollmentValidator.List(), enrollmentController.ListEnrollments)
	enrollmentGroup.Get("/stats", middleware.JWTMiddleware, admin, enrollmentController.EnrollmentStats)
	enrollmentGroup.Get("/user/me", middleware.JWTMiddleware, enrollmentController.MyEnrollments)
	enrollmentGroup.Get("/user/:userId", middleware.JWTMiddleware, enrollmentValidator.UserParam(), enrollmentController.UserEnrollments)

	enrollmentGroup.Get("/:id", middleware.JWTMiddleware, enrollmentValidator.EnrollmentID(), enrollmentController.GetEnrollment)
	enrollmentGroup.Put("/:id/status", middleware.JWTMiddleware, enrollmentValidator.EnrollmentID(), enrollmentValidator.UpdateStatus(), enrollmentController.UpdateStatus)
	enrollmentGroup.Post("/:id/sync", middleware.JWTMiddleware, enrollmentValidator.EnrollmentID(), enrollmentController.SyncEnrollment)
	enrollmentGroup.Delete("/:id", middleware.JWTMiddleware, enrollmentValidator.EnrollmentID(), enrollmentController.DeleteEnrollment)
}

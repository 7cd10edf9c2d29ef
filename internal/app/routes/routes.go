package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollportal/internal/app/controllers"
	"github.com/yigit/enrollportal/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	enrollmentController *controllers.EnrollmentController,
	studentController *controllers.StudentController,
	authMiddleware *middleware.AuthMiddleware,
) {
	api := router.Group("/api")

	// --- Public Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/logout", authMiddleware.JWTAuth(), authController.Logout)
	}

	// --- Authenticated Routes Group ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	enrollments := authenticated.Group("/enrollments")
	{
		enrollments.POST("", enrollmentController.CreateEnrollment)
	}

	students := authenticated.Group("/students")
	{
		students.GET("", studentController.ListStudents)
		students.GET("/:id", studentController.GetStudent)
		students.PUT("/:id", studentController.UpdateStudent)
		students.DELETE("/:id", studentController.DeleteStudent)
	}
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollportal/internal/app/models/dto"
	"github.com/yigit/enrollportal/internal/app/services"
	"github.com/yigit/enrollportal/internal/middleware"
)

const msgEnrolled = "Enrollment successful"

// EnrollmentController handles new enrollments
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
	}
}

// CreateEnrollment handles enrollment creation
// @Summary Enroll a student
// @Description Validates the form and stores an enrollment owned by the caller. semester and percentage may be sent as numbers or numeric strings.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEnrollmentRequest true "Enrollment form"
// @Success 201 {object} dto.CreateEnrollmentResponse "Enrollment created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Please authenticate"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments [post]
func (c *EnrollmentController) CreateEnrollment(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateEnrollmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	enrollment, err := c.enrollmentService.Create(ctx.Request.Context(), req.Fields(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.CreateEnrollmentResponse{
		Success:    true,
		Message:    msgEnrolled,
		Enrollment: dto.NewEnrollmentCreated(enrollment),
	})
}

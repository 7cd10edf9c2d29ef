package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollportal/internal/app/models"
	"github.com/yigit/enrollportal/internal/app/models/dto"
	"github.com/yigit/enrollportal/internal/app/services"
	"github.com/yigit/enrollportal/internal/middleware"
)

const (
	msgInvalidEnrollmentID   = "Invalid enrollment ID"
	msgInvalidSemesterFilter = "Semester filter must be a whole number"
	msgEnrollmentDeleted     = "Enrollment deleted successfully"
)

// StudentController exposes the caller's enrollment records
type StudentController struct {
	enrollmentService services.EnrollmentService
}

// NewStudentController creates a new StudentController
func NewStudentController(enrollmentService services.EnrollmentService) *StudentController {
	return &StudentController{
		enrollmentService: enrollmentService,
	}
}

// ListStudents lists the caller's enrollments
// @Summary List enrollments
// @Description Returns the caller's enrollments ordered by student name, optionally filtered by exact course and semester
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param course query string false "Course filter, e.g. MBA"
// @Param semester query int false "Semester filter"
// @Success 200 {object} dto.StudentListResponse "Enrollments"
// @Failure 400 {object} dto.ErrorResponse "Malformed semester filter"
// @Failure 401 {object} dto.ErrorResponse "Please authenticate"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	filter := models.EnrollmentFilter{Course: strings.TrimSpace(ctx.Query("course"))}
	if raw := strings.TrimSpace(ctx.Query("semester")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeInvalidRequest, msgInvalidSemesterFilter))
			return
		}
		semester := int(parsed)
		filter.Semester = &semester
	}

	students, err := c.enrollmentService.ListForOwner(ctx.Request.Context(), userID, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.StudentListResponse{Success: true, Students: students})
}

// GetStudent returns one enrollment
// @Summary Get an enrollment
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID" Format(int64) minimum(1)
// @Success 200 {object} dto.StudentResponse "Enrollment"
// @Failure 400 {object} dto.ErrorResponse "Invalid enrollment ID"
// @Failure 401 {object} dto.ErrorResponse "Please authenticate"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", msgInvalidEnrollmentID)
	if !ok {
		return
	}

	student, err := c.enrollmentService.GetForOwner(ctx.Request.Context(), id, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.StudentResponse{Success: true, Student: student})
}

// UpdateStudent replaces the writable fields of an enrollment
// @Summary Update an enrollment
// @Description Accepts the record as returned by GET. id, enrollment_id, user_id and timestamps are ignored.
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID" Format(int64) minimum(1)
// @Param request body dto.UpdateEnrollmentRequest true "Enrollment record"
// @Success 200 {object} dto.StudentResponse "Updated enrollment"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Please authenticate"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", msgInvalidEnrollmentID)
	if !ok {
		return
	}

	var req dto.UpdateEnrollmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.enrollmentService.UpdateForOwner(ctx.Request.Context(), id, userID, req.Fields())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.StudentResponse{Success: true, Student: student})
}

// DeleteStudent removes an enrollment
// @Summary Delete an enrollment
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID" Format(int64) minimum(1)
// @Success 200 {object} dto.SuccessResponse "Deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid enrollment ID"
// @Failure 401 {object} dto.ErrorResponse "Please authenticate"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", msgInvalidEnrollmentID)
	if !ok {
		return
	}

	if err := c.enrollmentService.DeleteForOwner(ctx.Request.Context(), id, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(msgEnrollmentDeleted))
}

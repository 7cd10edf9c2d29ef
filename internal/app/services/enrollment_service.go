package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/enrollportal/internal/app/models"
	"github.com/yigit/enrollportal/internal/app/models/dto"
	"github.com/yigit/enrollportal/internal/app/repositories"
	"github.com/yigit/enrollportal/internal/pkg/apperrors"
	"github.com/yigit/enrollportal/internal/pkg/helpers"
	"github.com/yigit/enrollportal/internal/pkg/validation"
)

// Enrollment validation messages
const (
	msgInvalidMobile     = "Invalid mobile number"
	msgInvalidPercentage = "Percentage must be between 0 and 100"
	msgPercentageScale   = "Percentage can have at most 2 decimal places"
	msgInvalidDOB        = "Invalid date of birth"
	msgTooYoung          = "Student must be at least 16 years old"
	msgInvalidSemester   = "Semester must be a positive whole number"
)

// EnrollmentService defines the enrollment store. Every operation is scoped to ownerID.
type EnrollmentService interface {
	Create(ctx context.Context, fields dto.EnrollmentFields, ownerID int64) (*models.Enrollment, error)
	ListForOwner(ctx context.Context, ownerID int64, filter models.EnrollmentFilter) ([]models.Enrollment, error)
	GetForOwner(ctx context.Context, id, ownerID int64) (*models.Enrollment, error)
	UpdateForOwner(ctx context.Context, id, ownerID int64, fields dto.EnrollmentFields) (*models.Enrollment, error)
	DeleteForOwner(ctx context.Context, id, ownerID int64) error
}

// enrollmentServiceImpl implements the EnrollmentService interface
type enrollmentServiceImpl struct {
	enrollmentRepo repositories.IEnrollmentRepository
	logger         zerolog.Logger
	now            func() time.Time
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(enrollmentRepo repositories.IEnrollmentRepository, logger zerolog.Logger) EnrollmentService {
	return &enrollmentServiceImpl{
		enrollmentRepo: enrollmentRepo,
		logger:         logger,
		now:            time.Now,
	}
}

// validateFields checks the submitted fields in a fixed order and returns the
// parsed record on success. The first violated rule determines the error.
func (s *enrollmentServiceImpl) validateFields(f dto.EnrollmentFields) (*models.Enrollment, error) {
	f = trimFields(f)

	if f.StudentName == "" || f.DOB == "" || f.Gender == "" || f.Course == "" || f.Semester == "" ||
		f.Email == "" || f.Mobile == "" || f.Address == "" || f.Percentage == "" {
		return nil, apperrors.NewValidationError(apperrors.MsgAllFieldsRequired)
	}
	if err := checkLengths(f); err != nil {
		return nil, err
	}

	if !validation.IsEmail(f.Email) {
		return nil, apperrors.NewValidationError(apperrors.MsgInvalidEmail)
	}

	if !validation.IsMobile(f.Mobile) {
		return nil, apperrors.NewValidationError(msgInvalidMobile)
	}

	percentage, err := strconv.ParseFloat(f.Percentage, 64)
	if err != nil || math.IsNaN(percentage) || !validation.IsPercentage(percentage) {
		return nil, apperrors.NewValidationError(msgInvalidPercentage)
	}
	if !validation.HasCentPrecision(percentage) {
		return nil, apperrors.NewValidationError(msgPercentageScale)
	}

	dob, ok := validation.ParseDate(f.DOB)
	if !ok {
		return nil, apperrors.NewValidationError(msgInvalidDOB)
	}
	if validation.AgeAt(dob, s.now().UTC()) < validation.MinimumAge {
		return nil, apperrors.NewValidationError(msgTooYoung)
	}

	semester, err := parseSemester(f.Semester)
	if err != nil {
		return nil, err
	}
	if limit, ok := validation.MaxSemesters(f.Course); ok && semester > limit {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%s program has maximum %d semesters", f.Course, limit))
	}

	return &models.Enrollment{
		StudentName: f.StudentName,
		DOB:         dob,
		Gender:      f.Gender,
		Course:      f.Course,
		Semester:    semester,
		Email:       f.Email,
		Mobile:      f.Mobile,
		Address:     f.Address,
		Percentage:  percentage,
	}, nil
}

func trimFields(f dto.EnrollmentFields) dto.EnrollmentFields {
	return dto.EnrollmentFields{
		StudentName: strings.TrimSpace(f.StudentName),
		DOB:         strings.TrimSpace(f.DOB),
		Gender:      strings.TrimSpace(f.Gender),
		Course:      strings.TrimSpace(f.Course),
		Semester:    strings.TrimSpace(f.Semester),
		Email:       strings.TrimSpace(f.Email),
		Mobile:      strings.TrimSpace(f.Mobile),
		Address:     strings.TrimSpace(f.Address),
		Percentage:  strings.TrimSpace(f.Percentage),
	}
}

func checkLengths(f dto.EnrollmentFields) error {
	limits := []struct {
		field string
		value string
		max   int
	}{
		{"Student name", f.StudentName, validation.MaxNameLength},
		{"Gender", f.Gender, validation.MaxGenderLength},
		{"Course", f.Course, validation.MaxCourseLength},
		{"Email", f.Email, validation.MaxEmailLength},
		{"Mobile", f.Mobile, validation.MaxMobileLength},
	}
	for _, l := range limits {
		if !validation.FitsLength(l.value, l.max) {
			return apperrors.NewValidationError(fmt.Sprintf("%s must be at most %d characters", l.field, l.max))
		}
	}
	return nil
}

// parseSemester accepts "3" and "3.0" but not "2.5" or "0"
func parseSemester(s string) (int, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 1 || v != math.Trunc(v) || v > math.MaxInt32 {
		return 0, apperrors.NewValidationError(msgInvalidSemester)
	}
	return int(v), nil
}

// Create validates and stores a new enrollment owned by ownerID
func (s *enrollmentServiceImpl) Create(ctx context.Context, fields dto.EnrollmentFields, ownerID int64) (*models.Enrollment, error) {
	enrollment, err := s.validateFields(fields)
	if err != nil {
		return nil, err
	}

	enrollment.UserID = ownerID
	enrollment.EnrollmentID = helpers.GenerateEnrollmentCode(enrollment.Course, s.now())

	created, err := s.enrollmentRepo.Create(ctx, enrollment)
	if err != nil {
		return nil, fmt.Errorf("error creating enrollment: %w", err)
	}

	s.logger.Info().
		Int64("userID", ownerID).
		Int64("enrollmentID", created.ID).
		Str("code", created.EnrollmentID).
		Msg("Enrollment created")
	return created, nil
}

// ListForOwner returns ownerID's enrollments matching filter
func (s *enrollmentServiceImpl) ListForOwner(ctx context.Context, ownerID int64, filter models.EnrollmentFilter) ([]models.Enrollment, error) {
	filter.Course = strings.TrimSpace(filter.Course)

	enrollments, err := s.enrollmentRepo.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	return enrollments, nil
}

// GetForOwner returns one enrollment. Records of other owners are reported as not found.
func (s *enrollmentServiceImpl) GetForOwner(ctx context.Context, id, ownerID int64) (*models.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, notFoundOr(err, "error retrieving enrollment")
	}
	return enrollment, nil
}

// UpdateForOwner validates fields and overwrites the enrollment in place
func (s *enrollmentServiceImpl) UpdateForOwner(ctx context.Context, id, ownerID int64, fields dto.EnrollmentFields) (*models.Enrollment, error) {
	enrollment, err := s.validateFields(fields)
	if err != nil {
		return nil, err
	}

	enrollment.ID = id
	enrollment.UserID = ownerID

	updated, err := s.enrollmentRepo.UpdateByIDAndOwner(ctx, enrollment)
	if err != nil {
		return nil, notFoundOr(err, "error updating enrollment")
	}

	s.logger.Info().Int64("userID", ownerID).Int64("enrollmentID", id).Msg("Enrollment updated")
	return updated, nil
}

// DeleteForOwner removes the enrollment
func (s *enrollmentServiceImpl) DeleteForOwner(ctx context.Context, id, ownerID int64) error {
	if err := s.enrollmentRepo.DeleteByIDAndOwner(ctx, id, ownerID); err != nil {
		return notFoundOr(err, "error deleting enrollment")
	}

	s.logger.Info().Int64("userID", ownerID).Int64("enrollmentID", id).Msg("Enrollment deleted")
	return nil
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		return apperrors.NewResourceNotFoundError(apperrors.MsgEnrollmentNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

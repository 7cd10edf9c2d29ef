package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/enrollportal/internal/app/models"
	"github.com/yigit/enrollportal/internal/db"
	"github.com/yigit/enrollportal/internal/pkg/apperrors"
	"github.com/yigit/enrollportal/internal/pkg/logger"
)

var enrollmentColumns = []string{
	"id", "enrollment_id", "student_name", "dob", "gender", "course", "semester",
	"email", "mobile", "address", "percentage", "user_id", "created_at", "updated_at",
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEnrollment(row rowScanner) (*models.Enrollment, error) {
	e := &models.Enrollment{}
	err := row.Scan(
		&e.ID, &e.EnrollmentID, &e.StudentName, &e.DOB, &e.Gender, &e.Course, &e.Semester,
		&e.Email, &e.Mobile, &e.Address, &e.Percentage, &e.UserID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// EnrollmentRepository handles enrollment database operations
type EnrollmentRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(q db.Querier) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts an enrollment and returns it with its generated id and timestamps
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) (*models.Enrollment, error) {
	sql, args, err := r.sb.Insert("enrollments").
		Columns("enrollment_id", "student_name", "dob", "gender", "course", "semester",
			"email", "mobile", "address", "percentage", "user_id").
		Values(enrollment.EnrollmentID, enrollment.StudentName, enrollment.DOB, enrollment.Gender,
			enrollment.Course, enrollment.Semester, enrollment.Email, enrollment.Mobile,
			enrollment.Address, enrollment.Percentage, enrollment.UserID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create enrollment query: %w", err)
	}

	created := *enrollment
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		logger.Error().Err(err).Int64("userID", enrollment.UserID).Msg("Error executing create enrollment query")
		return nil, fmt.Errorf("error creating enrollment: %w", err)
	}

	return &created, nil
}

// ListByOwner returns the owner's enrollments ordered by student name
func (r *EnrollmentRepository) ListByOwner(ctx context.Context, ownerID int64, filter models.EnrollmentFilter) ([]models.Enrollment, error) {
	query := r.sb.Select(enrollmentColumns...).
		From("enrollments").
		Where(squirrel.Eq{"user_id": ownerID})

	if filter.Course != "" {
		query = query.Where(squirrel.Eq{"course": filter.Course})
	}
	if filter.Semester != nil {
		query = query.Where(squirrel.Eq{"semester": *filter.Semester})
	}

	sql, args, err := query.OrderBy("student_name ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list enrollments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", ownerID).Msg("Error executing list enrollments query")
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := make([]models.Enrollment, 0)
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning enrollment row: %w", err)
		}
		enrollments = append(enrollments, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollment rows: %w", err)
	}

	return enrollments, nil
}

// GetByIDAndOwner retrieves an enrollment matching both id and owner
func (r *EnrollmentRepository) GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*models.Enrollment, error) {
	sql, args, err := r.sb.Select(enrollmentColumns...).
		From("enrollments").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"user_id": ownerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get enrollment query: %w", err)
	}

	e, err := scanEnrollment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	return e, nil
}

// UpdateByIDAndOwner overwrites the writable columns of the enrollment identified by
// enrollment.ID and enrollment.UserID in a single statement and returns the stored row
func (r *EnrollmentRepository) UpdateByIDAndOwner(ctx context.Context, enrollment *models.Enrollment) (*models.Enrollment, error) {
	sql, args, err := r.sb.Update("enrollments").
		Set("student_name", enrollment.StudentName).
		Set("dob", enrollment.DOB).
		Set("gender", enrollment.Gender).
		Set("course", enrollment.Course).
		Set("semester", enrollment.Semester).
		Set("email", enrollment.Email).
		Set("mobile", enrollment.Mobile).
		Set("address", enrollment.Address).
		Set("percentage", enrollment.Percentage).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": enrollment.ID}).
		Where(squirrel.Eq{"user_id": enrollment.UserID}).
		Suffix("RETURNING " + strings.Join(enrollmentColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update enrollment query: %w", err)
	}

	updated, err := scanEnrollment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		logger.Error().Err(err).Int64("enrollmentID", enrollment.ID).Msg("Error executing update enrollment query")
		return nil, fmt.Errorf("error updating enrollment: %w", err)
	}

	return updated, nil
}

// DeleteByIDAndOwner removes the enrollment matching both id and owner
func (r *EnrollmentRepository) DeleteByIDAndOwner(ctx context.Context, id, ownerID int64) error {
	sql, args, err := r.sb.Delete("enrollments").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"user_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete enrollment query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("enrollmentID", id).Msg("Error executing delete enrollment query")
		return fmt.Errorf("error deleting enrollment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}

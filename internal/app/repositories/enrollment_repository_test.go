package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollportal/internal/app/models"
	"github.com/yigit/enrollportal/internal/pkg/apperrors"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func sampleEnrollment() *models.Enrollment {
	return &models.Enrollment{
		EnrollmentID: "ENR-MBA-20261018-AB12",
		StudentName:  "Rahul Mehta",
		DOB:          time.Date(2004, time.May, 21, 0, 0, 0, 0, time.UTC),
		Gender:       "Male",
		Course:       "MBA",
		Semester:     2,
		Email:        "rahul@example.com",
		Mobile:       "9876543210",
		Address:      "Pune",
		Percentage:   78.5,
		UserID:       1,
	}
}

func enrollmentRows(e *models.Enrollment) *pgxmock.Rows {
	return pgxmock.NewRows(enrollmentColumns).AddRow(
		e.ID, e.EnrollmentID, e.StudentName, e.DOB, e.Gender, e.Course, e.Semester,
		e.Email, e.Mobile, e.Address, e.Percentage, e.UserID, e.CreatedAt, e.UpdatedAt,
	)
}

func TestEnrollmentRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEnrollmentRepository(mock)
	e := sampleEnrollment()
	now := time.Now()

	mock.ExpectQuery("INSERT INTO enrollments").
		WithArgs(e.EnrollmentID, e.StudentName, e.DOB, e.Gender, e.Course, e.Semester,
			e.Email, e.Mobile, e.Address, e.Percentage, e.UserID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(5), now, now))

	created, err := repo.Create(context.Background(), e)
	require.NoError(t, err)

	assert.Equal(t, int64(5), created.ID)
	assert.Equal(t, now, created.CreatedAt)
	assert.Equal(t, int64(0), e.ID, "input must not be mutated")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_ListByOwner_Filters(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEnrollmentRepository(mock)
	e := sampleEnrollment()
	e.ID = 3
	semester := 2

	mock.ExpectQuery(regexp.QuoteMeta("FROM enrollments WHERE user_id = $1 AND course = $2 AND semester = $3 ORDER BY student_name ASC, id ASC")).
		WithArgs(int64(1), "MBA", 2).
		WillReturnRows(enrollmentRows(e))

	list, err := repo.ListByOwner(context.Background(), 1, models.EnrollmentFilter{Course: "MBA", Semester: &semester})
	require.NoError(t, err)

	require.Len(t, list, 1)
	assert.Equal(t, "Rahul Mehta", list[0].StudentName)
	assert.Equal(t, 78.5, list[0].Percentage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_ListByOwner_Empty(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEnrollmentRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM enrollments WHERE user_id = $1 ORDER BY")).
		WithArgs(int64(9)).
		WillReturnRows(pgxmock.NewRows(enrollmentColumns))

	list, err := repo.ListByOwner(context.Background(), 9, models.EnrollmentFilter{})
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestEnrollmentRepository_GetByIDAndOwner_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEnrollmentRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND user_id = $2")).
		WithArgs(int64(7), int64(2)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByIDAndOwner(context.Background(), 7, 2)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_UpdateByIDAndOwner(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEnrollmentRepository(mock)
	e := sampleEnrollment()
	e.ID = 3
	e.Semester = 3

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE enrollments SET")).
		WithArgs(e.StudentName, e.DOB, e.Gender, e.Course, e.Semester, e.Email, e.Mobile,
			e.Address, e.Percentage, e.ID, e.UserID).
		WillReturnRows(enrollmentRows(e))

	updated, err := repo.UpdateByIDAndOwner(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Semester)
	assert.Equal(t, e.EnrollmentID, updated.EnrollmentID)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE enrollments SET")).
		WithArgs(e.StudentName, e.DOB, e.Gender, e.Course, e.Semester, e.Email, e.Mobile,
			e.Address, e.Percentage, e.ID, int64(99)).
		WillReturnError(pgx.ErrNoRows)

	other := *e
	other.UserID = 99
	_, err = repo.UpdateByIDAndOwner(context.Background(), &other)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_DeleteByIDAndOwner(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEnrollmentRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM enrollments WHERE id = $1 AND user_id = $2")).
		WithArgs(int64(3), int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM enrollments WHERE id = $1 AND user_id = $2")).
		WithArgs(int64(3), int64(2)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(t, repo.DeleteByIDAndOwner(context.Background(), 3, 1))
	assert.ErrorIs(t, repo.DeleteByIDAndOwner(context.Background(), 3, 2), apperrors.ErrResourceNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

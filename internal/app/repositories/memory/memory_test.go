package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollportal/internal/app/models"
	"github.com/yigit/enrollportal/internal/pkg/apperrors"
)

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	_, err := users.Create(ctx, &models.User{Name: "A", Email: "a@example.com", Password: "h"})
	require.NoError(t, err)

	_, err = users.Create(ctx, &models.User{Name: "B", Email: "a@example.com", Password: "h"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	exists, err := users.EmailExists(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepository_Tokens(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()
	id, err := users.Create(ctx, &models.User{Name: "A", Email: "a@example.com", Password: "h"})
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, users.SetToken(ctx, id, "first", now.Add(time.Hour)))
	require.NoError(t, users.SetToken(ctx, id, "second", now.Add(time.Hour)))

	_, err = users.GetByToken(ctx, "first")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	u, err := users.GetByToken(ctx, "second")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Empty(t, u.Password)

	cleared, err := users.ClearExpiredTokens(ctx, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleared)

	_, err = users.GetByToken(ctx, "second")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestEnrollmentRepository_OwnerScoping(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Enrollments()

	mine, err := repo.Create(ctx, &models.Enrollment{StudentName: "Zed", Course: "MBA", Semester: 1, UserID: 1})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Enrollment{StudentName: "Amy", Course: "B.Sc", Semester: 2, UserID: 1})
	require.NoError(t, err)
	theirs, err := repo.Create(ctx, &models.Enrollment{StudentName: "Bob", Course: "MBA", Semester: 1, UserID: 2})
	require.NoError(t, err)

	list, err := repo.ListByOwner(ctx, 1, models.EnrollmentFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Amy", list[0].StudentName)
	assert.Equal(t, "Zed", list[1].StudentName)

	semester := 1
	list, err = repo.ListByOwner(ctx, 1, models.EnrollmentFilter{Course: "MBA", Semester: &semester})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	_, err = repo.GetByIDAndOwner(ctx, theirs.ID, 1)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	hijack := *theirs
	hijack.UserID = 1
	hijack.StudentName = "Mallory"
	_, err = repo.UpdateByIDAndOwner(ctx, &hijack)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	assert.ErrorIs(t, repo.DeleteByIDAndOwner(ctx, theirs.ID, 1), apperrors.ErrResourceNotFound)

	got, err := repo.GetByIDAndOwner(ctx, theirs.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.StudentName)
}

func TestEnrollmentRepository_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Enrollments()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, &models.Enrollment{StudentName: "S", UserID: 1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	list, err := repo.ListByOwner(ctx, 1, models.EnrollmentFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 50)
}

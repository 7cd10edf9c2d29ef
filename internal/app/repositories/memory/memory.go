// Package memory provides process-local implementations of the repository
// interfaces. It backs the "memory" database driver and the service tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yigit/enrollportal/internal/app/models"
	"github.com/yigit/enrollportal/internal/app/repositories"
	"github.com/yigit/enrollportal/internal/pkg/apperrors"
)

// Store holds users and enrollments behind a single lock
type Store struct {
	mu          sync.RWMutex
	users       map[int64]*models.User
	enrollments map[int64]*models.Enrollment
	nextUserID  int64
	nextEnrolID int64
	now         func() time.Time
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		users:       make(map[int64]*models.User),
		enrollments: make(map[int64]*models.Enrollment),
		now:         time.Now,
	}
}

// Repositories returns repository views over a new empty store
func Repositories() *repositories.Repositories {
	s := NewStore()
	return &repositories.Repositories{
		UserRepository:       s.Users(),
		EnrollmentRepository: s.Enrollments(),
	}
}

// Users returns the user repository view of s
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Enrollments returns the enrollment repository view of s
func (s *Store) Enrollments() *EnrollmentRepository { return &EnrollmentRepository{s: s} }

// UserRepository implements repositories.IUserRepository in memory
type UserRepository struct {
	s *Store
}

var _ repositories.IUserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(_ context.Context, user *models.User) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}

	r.s.nextUserID++
	now := r.s.now()
	stored := &models.User{
		ID:        r.s.nextUserID,
		Name:      user.Name,
		Email:     user.Email,
		Password:  user.Password,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.s.users[stored.ID] = stored
	return stored.ID, nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return identity(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return &models.User{ID: u.ID, Name: u.Name, Email: u.Email, Password: u.Password}, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == apperrors.ErrResourceNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *UserRepository) SetToken(_ context.Context, userID int64, token string, expiresAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return apperrors.ErrResourceNotFound
	}
	u.Token = &token
	u.TokenExpiresAt = &expiresAt
	u.UpdatedAt = r.s.now()
	return nil
}

func (r *UserRepository) GetByToken(_ context.Context, token string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Token != nil && *u.Token == token {
			return identity(u), nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (r *UserRepository) ClearToken(_ context.Context, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if u, ok := r.s.users[userID]; ok {
		u.Token = nil
		u.TokenExpiresAt = nil
		u.UpdatedAt = r.s.now()
	}
	return nil
}

func (r *UserRepository) ClearExpiredTokens(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var cleared int64
	for _, u := range r.s.users {
		if u.TokenExpiresAt != nil && u.TokenExpiresAt.Before(now) {
			u.Token = nil
			u.TokenExpiresAt = nil
			cleared++
		}
	}
	return cleared, nil
}

func identity(u *models.User) *models.User {
	return &models.User{ID: u.ID, Name: u.Name, Email: u.Email}
}

// EnrollmentRepository implements repositories.IEnrollmentRepository in memory
type EnrollmentRepository struct {
	s *Store
}

var _ repositories.IEnrollmentRepository = (*EnrollmentRepository)(nil)

func (r *EnrollmentRepository) Create(_ context.Context, enrollment *models.Enrollment) (*models.Enrollment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextEnrolID++
	now := r.s.now()
	stored := *enrollment
	stored.ID = r.s.nextEnrolID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.s.enrollments[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *EnrollmentRepository) ListByOwner(_ context.Context, ownerID int64, filter models.EnrollmentFilter) ([]models.Enrollment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	list := make([]models.Enrollment, 0)
	for _, e := range r.s.enrollments {
		if e.UserID != ownerID {
			continue
		}
		if filter.Course != "" && e.Course != filter.Course {
			continue
		}
		if filter.Semester != nil && e.Semester != *filter.Semester {
			continue
		}
		list = append(list, *e)
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].StudentName != list[j].StudentName {
			return list[i].StudentName < list[j].StudentName
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r *EnrollmentRepository) GetByIDAndOwner(_ context.Context, id, ownerID int64) (*models.Enrollment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.enrollments[id]
	if !ok || e.UserID != ownerID {
		return nil, apperrors.ErrResourceNotFound
	}
	out := *e
	return &out, nil
}

func (r *EnrollmentRepository) UpdateByIDAndOwner(_ context.Context, enrollment *models.Enrollment) (*models.Enrollment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.enrollments[enrollment.ID]
	if !ok || e.UserID != enrollment.UserID {
		return nil, apperrors.ErrResourceNotFound
	}

	e.StudentName = enrollment.StudentName
	e.DOB = enrollment.DOB
	e.Gender = enrollment.Gender
	e.Course = enrollment.Course
	e.Semester = enrollment.Semester
	e.Email = enrollment.Email
	e.Mobile = enrollment.Mobile
	e.Address = enrollment.Address
	e.Percentage = enrollment.Percentage
	e.UpdatedAt = r.s.now()

	out := *e
	return &out, nil
}

func (r *EnrollmentRepository) DeleteByIDAndOwner(_ context.Context, id, ownerID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.enrollments[id]
	if !ok || e.UserID != ownerID {
		return apperrors.ErrResourceNotFound
	}
	delete(r.s.enrollments, id)
	return nil
}

package repositories

import (
	"context"
	"time"

	"github.com/yigit/enrollportal/internal/app/models"
	"github.com/yigit/enrollportal/internal/db"
)

// IUserRepository defines the user and session-token operations
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)

	// Session token, one per user
	SetToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	GetByToken(ctx context.Context, token string) (*models.User, error)
	ClearToken(ctx context.Context, userID int64) error
	ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

// IEnrollmentRepository defines owner-scoped enrollment persistence.
// Every method that takes an id also takes the owner id, so rows of other users are never matched.
type IEnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) (*models.Enrollment, error)
	ListByOwner(ctx context.Context, ownerID int64, filter models.EnrollmentFilter) ([]models.Enrollment, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*models.Enrollment, error)
	UpdateByIDAndOwner(ctx context.Context, enrollment *models.Enrollment) (*models.Enrollment, error)
	DeleteByIDAndOwner(ctx context.Context, id, ownerID int64) error
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       IUserRepository
	EnrollmentRepository IEnrollmentRepository
}

// NewRepositories initializes the PostgreSQL repositories over q, which may be the pool or a transaction
func NewRepositories(q db.Querier) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(q),
		EnrollmentRepository: NewEnrollmentRepository(q),
	}
}

package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/enrollportal/internal/app/models"
	"github.com/yigit/enrollportal/internal/app/models/dto"
	appRepos "github.com/yigit/enrollportal/internal/app/repositories"
	appServices "github.com/yigit/enrollportal/internal/app/services"
	"github.com/yigit/enrollportal/internal/pkg/apperrors"
	"github.com/yigit/enrollportal/internal/pkg/auth"
)

// DemoAccount describes the account created by CreateDemoData
type DemoAccount struct {
	Name     string
	Email    string
	Password string
}

// demoEnrollments are stored for a freshly created demo account
var demoEnrollments = []dto.EnrollmentFields{
	{
		StudentName: "Priya Sharma",
		DOB:         "2003-08-14",
		Gender:      "Female",
		Course:      "B.Sc",
		Semester:    "3",
		Email:       "priya.sharma@example.com",
		Mobile:      "9812345678",
		Address:     "221 Park Street, Kolkata",
		Percentage:  "88.4",
	},
	{
		StudentName: "Arjun Nair",
		DOB:         "2001-01-30",
		Gender:      "Male",
		Course:      "MBA",
		Semester:    "1",
		Email:       "arjun.nair@example.com",
		Mobile:      "+919900112233",
		Address:     "14 Marine Drive, Kochi",
		Percentage:  "72",
	},
}

// CreateDemoData creates the demo account with sample enrollments unless it already exists.
// Returns the demo user id, or 0 when nothing was created.
func CreateDemoData(ctx context.Context, repos *appRepos.Repositories, account DemoAccount, lgr zerolog.Logger) (int64, error) {
	exists, err := repos.UserRepository.EmailExists(ctx, account.Email)
	if err != nil {
		return 0, fmt.Errorf("error checking demo account: %w", err)
	}
	if exists {
		lgr.Info().Str("email", account.Email).Msg("Demo account already exists, skipping seed")
		return 0, nil
	}

	hashedPassword, err := auth.HashPassword(account.Password)
	if err != nil {
		return 0, fmt.Errorf("error hashing demo password: %w", err)
	}

	userID, err := repos.UserRepository.Create(ctx, &appModels.User{
		Name:     account.Name,
		Email:    account.Email,
		Password: hashedPassword,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return 0, nil
		}
		return 0, fmt.Errorf("error creating demo account: %w", err)
	}

	enrollmentService := appServices.NewEnrollmentService(repos.EnrollmentRepository, lgr)
	for _, fields := range demoEnrollments {
		if _, err := enrollmentService.Create(ctx, fields, userID); err != nil {
			return 0, fmt.Errorf("error creating demo enrollment %q: %w", fields.StudentName, err)
		}
	}

	lgr.Info().
		Int64("userID", userID).
		Int("enrollments", len(demoEnrollments)).
		Msg("Demo data created")
	return userID, nil
}

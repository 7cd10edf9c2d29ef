package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/enrollportal/internal/app/models"
	"github.com/yigit/enrollportal/internal/app/repositories"
	"github.com/yigit/enrollportal/internal/pkg/apperrors"
	"github.com/yigit/enrollportal/internal/pkg/auth"
	"github.com/yigit/enrollportal/internal/pkg/validation"
)

// AuthService defines the credential store: accounts and their single session token
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (int64, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	IssueToken(ctx context.Context, userID int64) (string, error)
	ResolveToken(ctx context.Context, token string) (*models.User, error)
	Invalidate(ctx context.Context, userID int64) error
}

// authServiceImpl implements the AuthService interface
type authServiceImpl struct {
	userRepo   repositories.IUserRepository
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.IUserRepository, jwtService *auth.JWTService, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// normalizeEmail lowercases and trims so lookups are case-insensitive
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and returns its id
func (s *authServiceImpl) Register(ctx context.Context, name, email, password string) (int64, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" || email == "" || password == "" {
		return 0, apperrors.NewValidationError(apperrors.MsgAllFieldsRequired)
	}
	if !validation.FitsLength(name, validation.MaxNameLength) {
		return 0, apperrors.NewValidationError(fmt.Sprintf("Name must be at most %d characters", validation.MaxNameLength))
	}
	if !validation.FitsLength(email, validation.MaxEmailLength) || !validation.IsEmail(email) {
		return 0, apperrors.NewValidationError(apperrors.MsgInvalidEmail)
	}
	if !validation.IsStrongPassword(password) {
		return 0, apperrors.NewWeakPasswordError(apperrors.MsgWeakPassword)
	}
	if len(password) > validation.MaxPasswordBytes {
		return 0, apperrors.NewValidationError(apperrors.MsgPasswordTooLong)
	}

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("error checking if email exists: %w", err)
	}
	if exists {
		return 0, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, apperrors.MsgEmailRegistered)
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("error hashing password: %w", err)
	}

	id, err := s.userRepo.Create(ctx, &models.User{Name: name, Email: email, Password: hashedPassword})
	if err != nil {
		// lost a race with a concurrent registration of the same email
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return 0, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, apperrors.MsgEmailRegistered)
		}
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info().Int64("userID", id).Msg("User registered")
	return id, nil
}

// Authenticate verifies credentials. Unknown email and wrong password fail identically.
func (s *authServiceImpl) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError(apperrors.MsgCredentialsMissing)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewInvalidCredentialsError()
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		s.logger.Debug().Int64("userID", user.ID).Msg("Password mismatch")
		return nil, apperrors.NewInvalidCredentialsError()
	}

	return user.Identity(), nil
}

// GetUser returns the public identity of an account
func (s *authServiceImpl) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError(apperrors.MsgUserNotFound)
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// IssueToken signs a new session token and stores it over any previous one
func (s *authServiceImpl) IssueToken(ctx context.Context, userID int64) (string, error) {
	token, expiresAt, err := s.jwtService.GenerateToken(userID)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}

	if err := s.userRepo.SetToken(ctx, userID, token, expiresAt); err != nil {
		return "", fmt.Errorf("error storing token: %w", err)
	}

	return token, nil
}

// ResolveToken maps a bearer token to the identity that currently holds it
func (s *authServiceImpl) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperrors.NewInvalidTokenError(apperrors.MsgAuthenticate)
	}

	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Token rejected")
		return nil, apperrors.NewCustomError(fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err), apperrors.MsgAuthenticate)
	}

	user, err := s.userRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewInvalidTokenError(apperrors.MsgAuthenticate)
		}
		return nil, fmt.Errorf("error resolving token: %w", err)
	}

	if user.ID != claims.UserID {
		s.logger.Warn().Int64("claimUserID", claims.UserID).Int64("userID", user.ID).Msg("Token subject does not match stored owner")
		return nil, apperrors.NewInvalidTokenError(apperrors.MsgAuthenticate)
	}

	return user, nil
}

// Invalidate ends the user's session
func (s *authServiceImpl) Invalidate(ctx context.Context, userID int64) error {
	if err := s.userRepo.ClearToken(ctx, userID); err != nil {
		return fmt.Errorf("error clearing token: %w", err)
	}
	return nil
}

package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollportal/internal/app/repositories/memory"
	"github.com/yigit/enrollportal/internal/pkg/apperrors"
	"github.com/yigit/enrollportal/internal/pkg/auth"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    7 * 24 * time.Hour,
		TokenIssuer: "enrollportal-test",
	})
}

func newTestAuthService(t *testing.T) AuthService {
	t.Helper()
	return NewAuthService(memory.NewStore().Users(), newTestJWTService(), zerolog.Nop())
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		wantMsg  string
		sentinel error
	}{
		{"missing name", "", "a@example.com", "password1", apperrors.MsgAllFieldsRequired, apperrors.ErrValidationFailed},
		{"blank email", "Asha", "  ", "password1", apperrors.MsgAllFieldsRequired, apperrors.ErrValidationFailed},
		{"missing password", "Asha", "a@example.com", "", apperrors.MsgAllFieldsRequired, apperrors.ErrValidationFailed},
		{"bad email", "Asha", "not-an-email", "password1", apperrors.MsgInvalidEmail, apperrors.ErrValidationFailed},
		{"short password", "Asha", "a@example.com", "short", apperrors.MsgWeakPassword, apperrors.ErrWeakPassword},
		{"long name", strings.Repeat("a", 256), "a@example.com", "password1", "Name must be at most 255 characters", apperrors.ErrValidationFailed},
		{"long email", "Asha", strings.Repeat("a", 250) + "@example.com", "password1", apperrors.MsgInvalidEmail, apperrors.ErrValidationFailed},
		{"password over 72 bytes", "Asha", "a@example.com", strings.Repeat("p", 73), apperrors.MsgPasswordTooLong, apperrors.ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.userName, tt.email, tt.password)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, "Asha", "asha@example.com", "password1")
	require.NoError(t, err)
	assert.Positive(t, id)

	_, err = svc.Register(ctx, "Other", "ASHA@example.com", "password2")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, apperrors.MsgEmailRegistered, err.Error())
}

func TestAuthService_Authenticate(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, "Asha", "asha@example.com", "password1")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "Asha@Example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Empty(t, user.Password)

	_, wrongPassword := svc.Authenticate(ctx, "asha@example.com", "password2")
	_, wrongEmail := svc.Authenticate(ctx, "nobody@example.com", "password1")
	require.Error(t, wrongPassword)
	require.Error(t, wrongEmail)
	assert.ErrorIs(t, wrongPassword, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongEmail, apperrors.ErrInvalidCredentials)
	assert.Equal(t, wrongEmail.Error(), wrongPassword.Error())

	_, err = svc.Authenticate(ctx, "", "password1")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, apperrors.MsgCredentialsMissing, err.Error())
}

func TestAuthService_GetUser(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, "Asha", "Asha@Example.com", "password1")
	require.NoError(t, err)

	user, err := svc.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "Asha", user.Name)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Empty(t, user.Password)

	_, err = svc.GetUser(ctx, id+100)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.Equal(t, apperrors.MsgUserNotFound, err.Error())
}

func TestAuthService_TokenLifecycle(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, "Asha", "asha@example.com", "password1")
	require.NoError(t, err)

	first, err := svc.IssueToken(ctx, id)
	require.NoError(t, err)

	user, err := svc.ResolveToken(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Empty(t, user.Password)

	second, err := svc.IssueToken(ctx, id)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	_, err = svc.ResolveToken(ctx, first)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid, "a new login replaces the previous session")

	_, err = svc.ResolveToken(ctx, second)
	require.NoError(t, err)

	require.NoError(t, svc.Invalidate(ctx, id))
	_, err = svc.ResolveToken(ctx, second)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestAuthService_ResolveToken_Rejects(t *testing.T) {
	users := memory.NewStore().Users()
	svc := NewAuthService(users, newTestJWTService(), zerolog.Nop())
	ctx := context.Background()

	_, err := svc.ResolveToken(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	_, err = svc.ResolveToken(ctx, "garbage")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	// a well-signed token that was never stored
	unstored, _, err := newTestJWTService().GenerateToken(1)
	require.NoError(t, err)
	_, err = svc.ResolveToken(ctx, unstored)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	// a stored token whose subject belongs to someone else
	a, err := svc.Register(ctx, "A", "a@example.com", "password1")
	require.NoError(t, err)
	b, err := svc.Register(ctx, "B", "b@example.com", "password1")
	require.NoError(t, err)
	forged, expiresAt, err := newTestJWTService().GenerateToken(b)
	require.NoError(t, err)
	require.NoError(t, users.SetToken(ctx, a, forged, expiresAt))

	_, err = svc.ResolveToken(ctx, forged)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	assert.Equal(t, apperrors.MsgAuthenticate, err.Error())
}

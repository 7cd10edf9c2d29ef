package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/enrollportal/internal/app/models"
	"github.com/yigit/enrollportal/internal/app/models/dto"
	"github.com/yigit/enrollportal/internal/pkg/apperrors"
	"github.com/yigit/enrollportal/internal/pkg/auth"
)

// ContextUser is the gin context key under which JWTAuth stores the resolved *models.User
const ContextUser = "user"

// TokenResolver maps a bearer token to the identity currently holding it
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware guards routes that require a logged-in user
type AuthMiddleware struct {
	resolver TokenResolver
	logger   zerolog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(resolver TokenResolver, logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		resolver: resolver,
		logger:   logger,
	}
}

// JWTAuth resolves the Authorization bearer token and attaches the identity to the context.
// Every failure is answered with the same 401 body.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abortUnauthorized(c)
			return
		}

		user, err := m.resolver.ResolveToken(c.Request.Context(), tokenString)
		if err != nil {
			if !errors.Is(err, apperrors.ErrTokenInvalid) {
				m.logger.Error().Err(err).Msg("Token resolution failed")
			}
			abortUnauthorized(c)
			return
		}

		c.Set(ContextUser, user)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, apperrors.MsgAuthenticate))
}

// CurrentUser returns the identity attached by JWTAuth
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(ContextUser)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

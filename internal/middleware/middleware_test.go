package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollportal/internal/app/models"
	"github.com/yigit/enrollportal/internal/app/models/dto"
	"github.com/yigit/enrollportal/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubResolver struct {
	tokens map[string]*models.User
	err    error
}

func (r *stubResolver) ResolveToken(_ context.Context, token string) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	if u, ok := r.tokens[token]; ok {
		return u, nil
	}
	return nil, apperrors.NewInvalidTokenError(apperrors.MsgAuthenticate)
}

func newGuardedRouter(resolver TokenResolver) *gin.Engine {
	router := gin.New()
	guard := NewAuthMiddleware(resolver, zerolog.Nop())
	router.GET("/protected", guard.JWTAuth(), func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": user.ID, "email": user.Email})
	})
	return router
}

func decodeError(t *testing.T, body []byte) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

func TestJWTAuth(t *testing.T) {
	resolver := &stubResolver{tokens: map[string]*models.User{
		"good-token": {ID: 42, Name: "Asha", Email: "asha@example.com"},
	}}
	router := newGuardedRouter(resolver)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer good-token", http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"no bearer prefix", "good-token", http.StatusUnauthorized},
		{"wrong scheme", "Basic good-token", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"unknown token", "Bearer other-token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				resp := decodeError(t, w.Body.Bytes())
				assert.False(t, resp.Success)
				assert.Equal(t, apperrors.MsgAuthenticate, resp.Message)
			} else {
				assert.JSONEq(t, `{"userId":42,"email":"asha@example.com"}`, w.Body.String())
			}
		})
	}
}

func TestJWTAuth_ResolverFailureIsUnauthorized(t *testing.T) {
	router := newGuardedRouter(&stubResolver{err: errors.New("connection refused")})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer any")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperrors.MsgAuthenticate, decodeError(t, w.Body.Bytes()).Message)
}

func TestCurrentUser_Unset(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := CurrentUser(c)
	assert.False(t, ok)

	c.Set(ContextUser, "not a user")
	_, ok = CurrentUser(c)
	assert.False(t, ok)
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", apperrors.NewValidationError("Invalid mobile number"), http.StatusBadRequest, "Invalid mobile number"},
		{"weak password", apperrors.NewWeakPasswordError(apperrors.MsgWeakPassword), http.StatusBadRequest, apperrors.MsgWeakPassword},
		{"duplicate email", apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, apperrors.MsgEmailRegistered), http.StatusBadRequest, apperrors.MsgEmailRegistered},
		{"credentials", apperrors.NewInvalidCredentialsError(), http.StatusUnauthorized, apperrors.MsgInvalidCredentials},
		{"token", apperrors.NewInvalidTokenError("bad signature"), http.StatusUnauthorized, apperrors.MsgAuthenticate},
		{"not found", apperrors.NewResourceNotFoundError(apperrors.MsgEnrollmentNotFound), http.StatusNotFound, apperrors.MsgEnrollmentNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", apperrors.ErrResourceNotFound), http.StatusNotFound, "Resource not found"},
		{"internal", errors.New("pq: relation does not exist"), http.StatusInternalServerError, apperrors.MsgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeError(t, w.Body.Bytes())
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantMsg, resp.Message)
		})
	}
}

func TestRequestIDAndLogger(t *testing.T) {
	var buf bytes.Buffer
	router := gin.New()
	router.Use(RequestID(zerolog.New(&buf)), RequestLogger())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	requestID := w.Header().Get(RequestIDHeader)
	require.NotEmpty(t, requestID)

	line := buf.String()
	assert.Contains(t, line, `"requestID":"`+requestID+`"`)
	assert.Contains(t, line, `"status":200`)
	assert.Contains(t, line, `"path":"/ping"`)

	// an incoming id is propagated
	buf.Reset()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.True(t, strings.Contains(buf.String(), `"requestID":"abc-123"`))
}

func TestBindJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	router := gin.New()
	router.POST("/bind", func(c *gin.Context) {
		var p payload
		if !BindJSON(c, &p) {
			return
		}
		c.String(http.StatusOK, p.Name)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(`{"name":"x"}`)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "x", w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(`{"name":`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, MsgInvalidRequestBody, decodeError(t, w.Body.Bytes()).Message)
}

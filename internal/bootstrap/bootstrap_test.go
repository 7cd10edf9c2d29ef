package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollportal/internal/config"
)

func memoryConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Server.AllowedOrigins = []string{"http://localhost:5500"}
	cfg.Database.Driver = config.DriverMemory
	cfg.JWT.Secret = "bootstrap-test-secret"
	cfg.JWT.TokenExpiration = "1h"
	cfg.JWT.Issuer = "enrollportal"
	cfg.Jobs.TokenCleanupSchedule = "@hourly"
	cfg.Seed.Enabled = true
	cfg.Seed.DemoName = "Demo"
	cfg.Seed.DemoEmail = "Demo@Example.com"
	cfg.Seed.DemoPassword = "demo-password"
	return cfg
}

func TestMemoryStack(t *testing.T) {
	cfg := memoryConfig()
	lgr := zerolog.Nop()

	database, err := SetupDatabase(context.Background(), cfg, lgr)
	require.NoError(t, err)
	assert.Nil(t, database)

	deps, err := BuildDependencies(cfg, database, lgr)
	require.NoError(t, err)
	require.NoError(t, SeedDemoData(context.Background(), cfg, database, deps))

	router := SetupRouter(cfg, deps, lgr)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	// the seeded demo account can log in
	body := `{"email":"demo@example.com","password":"demo-password"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://localhost:5500")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "http://localhost:5500", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestBuildDependencies_BadSchedule(t *testing.T) {
	cfg := memoryConfig()
	cfg.Jobs.TokenCleanupSchedule = "every now and then"

	_, err := BuildDependencies(cfg, nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestCorsConfig(t *testing.T) {
	all := corsConfig([]string{"*"})
	assert.True(t, all.AllowAllOrigins)
	assert.Empty(t, all.AllowOrigins)

	some := corsConfig([]string{"http://a.example"})
	assert.False(t, some.AllowAllOrigins)
	assert.Equal(t, []string{"http://a.example"}, some.AllowOrigins)
}

package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	pkgserver "github.com/letspunt/adpage/pkg/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticHealth bool

func (h staticHealth) Healthy(context.Context) bool {
	return bool(h)
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("PORT", "")
		t.Setenv("USE_HTTP2", "")
		t.Setenv("CORS_ORIGINS", "")

		cfg, err := LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.False(t, cfg.UseHttp2)
		assert.Equal(t, []string{"*"}, cfg.CorsOrigins)
	})

	t.Run("custom", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("USE_HTTP2", "true")
		t.Setenv("CORS_ORIGINS", "https://a.com, ,https://b.com")

		cfg, err := LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.Port)
		assert.True(t, cfg.UseHttp2)
		assert.Equal(t, []string{"https://a.com", "https://b.com"}, cfg.CorsOrigins)
	})

	t.Run("invalid port", func(t *testing.T) {
		for _, p := range []string{"abc", "0", "70000"} {
			t.Setenv("PORT", p)
			_, err := LoadConfig()
			assert.Error(t, err, p)
		}
	})
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name   string
		health pkgserver.HealthChecker
		want   int
	}{
		{name: "healthy", health: staticHealth(true), want: http.StatusOK},
		{name: "unhealthy", health: staticHealth(false), want: http.StatusServiceUnavailable},
		{name: "composite", health: pkgserver.CompositeHealthChecker{pkgserver.NewOkHealthChecker(), staticHealth(false)}, want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&Config{Port: "8080", CorsOrigins: []string{"*"}}, tt.health).
				SetupMiddlewares().
				SetupErrorHandler().
				SetupHealthChecks("/health")
			defer s.stop()

			rec := httptest.NewRecorder()
			s.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestErrorHandlerInstalled(t *testing.T) {
	s := New(&Config{Port: "8080", CorsOrigins: []string{"*"}}, nil).
		SetupMiddlewares().
		SetupErrorHandler()
	defer s.stop()

	s.Echo.GET("/boom", func(c echo.Context) error {
		return errors.New("boom")
	})

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

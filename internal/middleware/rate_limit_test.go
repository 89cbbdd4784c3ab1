// internal/middleware/rate_limit_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodia-community/melodia-backend/internal/config"
)

func newThrottledRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	limits := NewRateLimits(cfg)
	r := gin.New()
	r.GET("/ping", limits.General, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.POST("/login", limits.Auth, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestGeneralRateLimitUsesConfiguredBudget(t *testing.T) {
	r := newThrottledRouter(t, &config.Config{
		RateLimit: config.RateLimitConfig{
			GeneralPerSecond: 1,
			GeneralBurst:     2,
			AuthPerMinute:    1,
			UploadPerMinute:  1,
		},
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestAuthRateLimitIsIndependentOfGeneralTier(t *testing.T) {
	r := newThrottledRouter(t, &config.Config{
		RateLimit: config.RateLimitConfig{
			GeneralPerSecond: 100,
			GeneralBurst:     100,
			AuthPerMinute:    1,
			UploadPerMinute:  1,
		},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// The general tier still has budget left
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

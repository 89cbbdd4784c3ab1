// internal/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodia-community/melodia-backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("middleware-test-secret")
}

func newAuthTestRouter() *gin.Engine {
	r := gin.New()
	r.GET("/protected", AuthRequired(), func(c *gin.Context) {
		userID, _ := utils.GetUserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	r.GET("/admin", AuthRequired(), AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/board", AuthRequired(), BoardRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func requestWithToken(t *testing.T, r *gin.Engine, path, role string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := utils.GenerateJWT(uuid.New(), "testuser", role, "member", 1)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequiredRejectsMissingToken(t *testing.T) {
	r := newAuthTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredRejectsMalformedHeader(t *testing.T) {
	r := newAuthTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "not-a-bearer-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredAcceptsValidToken(t *testing.T) {
	r := newAuthTestRouter()
	w := requestWithToken(t, r, "/protected", "user")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRequiredEnforcesRole(t *testing.T) {
	r := newAuthTestRouter()

	assert.Equal(t, http.StatusForbidden, requestWithToken(t, r, "/admin", "user").Code)
	assert.Equal(t, http.StatusForbidden, requestWithToken(t, r, "/admin", "board").Code)
	assert.Equal(t, http.StatusOK, requestWithToken(t, r, "/admin", "admin").Code)
}

func TestBoardRequiredAllowsBoardAndAdmin(t *testing.T) {
	r := newAuthTestRouter()

	assert.Equal(t, http.StatusForbidden, requestWithToken(t, r, "/board", "user").Code)
	assert.Equal(t, http.StatusOK, requestWithToken(t, r, "/board", "board").Code)
	assert.Equal(t, http.StatusOK, requestWithToken(t, r, "/board", "admin").Code)
}

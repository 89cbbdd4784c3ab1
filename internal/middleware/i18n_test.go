// internal/middleware/i18n_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestI18nMiddlewareNegotiatesLanguage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(I18nMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("lang"))
	})

	cases := map[string]string{
		"":                   "en",
		"en-US,en;q=0.9":     "en",
		"tr":                 "tr",
		"tr-TR,tr;q=0.9":     "tr",
		"tr_TR":              "tr",
		"de-DE,de;q=0.9":     "en",
		"TR-tr":              "tr",
	}

	for header, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Accept-Language", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Body.String(), "header %q", header)
	}
}

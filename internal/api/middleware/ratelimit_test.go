package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"libraryhub/internal/api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("BurstThenReject", func(t *testing.T) {
		// refill too slow to matter within the test
		rl := middleware.NewRateLimiter(0.001, 3)
		r := gin.New()
		r.POST("/login", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

		for i := 0; i < 3; i++ {
			req, _ := http.NewRequest(http.MethodPost, "/login", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}

		req, _ := http.NewRequest(http.MethodPost, "/login", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("ClientsLimitedIndependently", func(t *testing.T) {
		rl := middleware.NewRateLimiter(0.001, 1)
		r := gin.New()
		r.POST("/login", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

		first, _ := http.NewRequest(http.MethodPost, "/login", nil)
		first.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, first)
		assert.Equal(t, http.StatusOK, w.Code)

		exhausted, _ := http.NewRequest(http.MethodPost, "/login", nil)
		exhausted.RemoteAddr = "10.0.0.1:1234"
		w = httptest.NewRecorder()
		r.ServeHTTP(w, exhausted)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)

		other, _ := http.NewRequest(http.MethodPost, "/login", nil)
		other.RemoteAddr = "10.0.0.2:1234"
		w = httptest.NewRecorder()
		r.ServeHTTP(w, other)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

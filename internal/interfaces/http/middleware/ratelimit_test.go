package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	t.Run("grants up to the limit", func(t *testing.T) {
		rl := NewRateLimiter(3, time.Minute)

		for i := 0; i < 3; i++ {
			assert.True(t, rl.Allow("10.0.0.1"), "request %d", i+1)
		}
		assert.False(t, rl.Allow("10.0.0.1"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		rl := NewRateLimiter(1, time.Minute)

		assert.True(t, rl.Allow("10.0.0.1"))
		assert.False(t, rl.Allow("10.0.0.1"))
		assert.True(t, rl.Allow("10.0.0.2"))
	})

	t.Run("window elapse refills the budget", func(t *testing.T) {
		rl := NewRateLimiter(1, 30*time.Millisecond)

		assert.True(t, rl.Allow("10.0.0.1"))
		assert.False(t, rl.Allow("10.0.0.1"))

		time.Sleep(40 * time.Millisecond)
		assert.True(t, rl.Allow("10.0.0.1"))
	})

	t.Run("safe under concurrent callers", func(t *testing.T) {
		rl := NewRateLimiter(100, time.Minute)

		var wg sync.WaitGroup
		granted := make(chan bool, 200)
		for i := 0; i < 200; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				granted <- rl.Allow("10.0.0.1")
			}()
		}
		wg.Wait()
		close(granted)

		allowed := 0
		for ok := range granted {
			if ok {
				allowed++
			}
		}
		assert.Equal(t, 100, allowed)
	})
}

func TestRateLimiter_Remaining(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)

	assert.Equal(t, 5, rl.Remaining("10.0.0.1"))

	rl.Allow("10.0.0.1")
	rl.Allow("10.0.0.1")
	assert.Equal(t, 3, rl.Remaining("10.0.0.1"))
}

func TestRateLimit_Middleware(t *testing.T) {
	newRouter := func(rl *RateLimiter) *gin.Engine {
		router := gin.New()
		router.Use(RateLimit(rl))
		router.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})
		return router
	}

	t.Run("sets rate limit headers", func(t *testing.T) {
		router := newRouter(NewRateLimiter(5, time.Minute))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("rejects over the limit with 429", func(t *testing.T) {
		router := newRouter(NewRateLimiter(2, time.Minute))

		var last *httptest.ResponseRecorder
		for i := 0; i < 3; i++ {
			last = httptest.NewRecorder()
			router.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/ping", nil))
		}

		assert.Equal(t, http.StatusTooManyRequests, last.Code)
		assert.Contains(t, last.Body.String(), "RATE_LIMIT_EXCEEDED")
	})

	t.Run("tenant header partitions the budget", func(t *testing.T) {
		router := newRouter(NewRateLimiter(1, time.Minute))

		reqA := httptest.NewRequest(http.MethodGet, "/ping", nil)
		reqA.Header.Set(TenantHeaderKey, "tenant-a")
		wA := httptest.NewRecorder()
		router.ServeHTTP(wA, reqA)
		assert.Equal(t, http.StatusOK, wA.Code)

		// Same IP, different tenant, separate bucket
		reqB := httptest.NewRequest(http.MethodGet, "/ping", nil)
		reqB.Header.Set(TenantHeaderKey, "tenant-b")
		wB := httptest.NewRecorder()
		router.ServeHTTP(wB, reqB)
		assert.Equal(t, http.StatusOK, wB.Code)

		reqA2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
		reqA2.Header.Set(TenantHeaderKey, "tenant-a")
		wA2 := httptest.NewRecorder()
		router.ServeHTTP(wA2, reqA2)
		assert.Equal(t, http.StatusTooManyRequests, wA2.Code)
	})
}

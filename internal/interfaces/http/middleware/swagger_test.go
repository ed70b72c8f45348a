package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func swaggerRouter(cfg SwaggerConfig, jwt gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.GET("/swagger/index.html", SwaggerProtection(cfg, jwt), func(c *gin.Context) {
		c.String(http.StatusOK, "docs")
	})
	return router
}

func TestSwaggerProtection_DisabledAnswers404(t *testing.T) {
	router := swaggerRouter(SwaggerConfig{Enabled: false}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}

func TestSwaggerProtection_EnabledWithoutRestrictions(t *testing.T) {
	router := swaggerRouter(SwaggerConfig{Enabled: true}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "docs", w.Body.String())
}

func TestSwaggerProtection_IPWhitelist(t *testing.T) {
	tests := []struct {
		name       string
		allowedIPs []string
		remoteAddr string
		wantCode   int
	}{
		{
			name:       "exact IP allowed",
			allowedIPs: []string{"192.0.2.10"},
			remoteAddr: "192.0.2.10:4312",
			wantCode:   http.StatusOK,
		},
		{
			name:       "IP outside whitelist rejected",
			allowedIPs: []string{"192.0.2.10"},
			remoteAddr: "192.0.2.99:4312",
			wantCode:   http.StatusForbidden,
		},
		{
			name:       "CIDR range allowed",
			allowedIPs: []string{"10.1.0.0/16"},
			remoteAddr: "10.1.42.7:4312",
			wantCode:   http.StatusOK,
		},
		{
			name:       "outside CIDR range rejected",
			allowedIPs: []string{"10.1.0.0/16"},
			remoteAddr: "10.2.0.1:4312",
			wantCode:   http.StatusForbidden,
		},
		{
			name:       "malformed whitelist entry is skipped",
			allowedIPs: []string{"not-an-ip", "192.0.2.10"},
			remoteAddr: "192.0.2.10:4312",
			wantCode:   http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := swaggerRouter(SwaggerConfig{Enabled: true, AllowedIPs: tt.allowedIPs}, nil)

			req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
			req.RemoteAddr = tt.remoteAddr
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestSwaggerProtection_RequireAuth(t *testing.T) {
	rejectingJWT := func(c *gin.Context) {
		c.AbortWithStatus(http.StatusUnauthorized)
	}
	passingJWT := func(c *gin.Context) {
		c.Next()
	}

	t.Run("unauthenticated request is rejected", func(t *testing.T) {
		router := swaggerRouter(SwaggerConfig{Enabled: true, RequireAuth: true}, rejectingJWT)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("authenticated request passes", func(t *testing.T) {
		router := swaggerRouter(SwaggerConfig{Enabled: true, RequireAuth: true}, passingJWT)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestIPAllowed(t *testing.T) {
	_, privateNet, _ := net.ParseCIDR("10.0.0.0/8")

	assert.True(t, ipAllowed(net.ParseIP("10.20.30.40"), nil, []*net.IPNet{privateNet}))
	assert.True(t, ipAllowed(net.ParseIP("192.0.2.1"), []net.IP{net.ParseIP("192.0.2.1")}, nil))
	assert.False(t, ipAllowed(net.ParseIP("203.0.113.5"), []net.IP{net.ParseIP("192.0.2.1")}, []*net.IPNet{privateNet}))
	assert.False(t, ipAllowed(nil, []net.IP{net.ParseIP("192.0.2.1")}, nil))
}

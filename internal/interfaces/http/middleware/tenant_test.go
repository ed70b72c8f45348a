package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizsuite/backend/internal/infrastructure/logger"
)

type stubTenantValidator struct {
	info *TenantInfo
	err  error
}

func (v *stubTenantValidator) ValidateTenant(string) (*TenantInfo, error) {
	return v.info, v.err
}

func tenantRouter(cfg TenantMiddlewareConfig, pre ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	for _, h := range pre {
		router.Use(h)
	}
	router.Use(TenantMiddlewareWithConfig(cfg))
	router.GET("/api/v1/deals", func(c *gin.Context) {
		c.String(http.StatusOK, GetTenantID(c))
	})
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestTenantMiddleware_HeaderResolution(t *testing.T) {
	tenantID := uuid.NewString()
	router := tenantRouter(DefaultTenantConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil)
	req.Header.Set(TenantHeaderKey, tenantID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, tenantID, w.Body.String())
}

func TestTenantMiddleware_JWTClaimWinsOverHeader(t *testing.T) {
	jwtTenant := uuid.NewString()
	headerTenant := uuid.NewString()

	router := tenantRouter(DefaultTenantConfig(), func(c *gin.Context) {
		c.Set("jwt_tenant_id", jwtTenant)
		c.Next()
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil)
	req.Header.Set(TenantHeaderKey, headerTenant)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, jwtTenant, w.Body.String())
}

func TestTenantFromSubdomain(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"acme.bizsuite.example", "acme"},
		{"acme.bizsuite.example:8080", "acme"},
		{"eu.acme.bizsuite.example", "eu"},
		{"www.bizsuite.example", ""},
		{"bizsuite.example", ""},
		{"elsewhere.example", ""},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.want, tenantFromSubdomain(tt.host, "bizsuite.example"))
		})
	}
}

func TestTenantMiddleware_RequiredRejectsMissingTenant(t *testing.T) {
	router := tenantRouter(DefaultTenantConfig())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Tenant identification required")
}

func TestTenantMiddleware_OptionalAllowsMissingTenant(t *testing.T) {
	cfg := DefaultTenantConfig()
	cfg.Required = false
	router := tenantRouter(cfg)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestTenantMiddleware_RejectsMalformedTenantID(t *testing.T) {
	router := tenantRouter(DefaultTenantConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil)
	req.Header.Set(TenantHeaderKey, "not-a-uuid")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid tenant ID format")
}

func TestTenantMiddleware_SkipPathsBypassResolution(t *testing.T) {
	router := tenantRouter(DefaultTenantConfig())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTenantMiddleware_ValidatorRejectsInactiveTenant(t *testing.T) {
	cfg := DefaultTenantConfig()
	cfg.Validator = &stubTenantValidator{err: errors.New("tenant suspended")}
	router := tenantRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil)
	req.Header.Set(TenantHeaderKey, uuid.NewString())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or inactive tenant")
}

func TestTenantMiddleware_ValidatorSetsTenantCode(t *testing.T) {
	tenantID := uuid.New()
	cfg := DefaultTenantConfig()
	cfg.Validator = &stubTenantValidator{info: &TenantInfo{ID: tenantID, Code: "acme"}}

	router := gin.New()
	router.Use(TenantMiddlewareWithConfig(cfg))
	router.GET("/api/v1/deals", func(c *gin.Context) {
		code, _ := c.Get(TenantCodeKey)
		c.String(http.StatusOK, code.(string))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil)
	req.Header.Set(TenantHeaderKey, tenantID.String())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "acme", w.Body.String())
}

func TestTenantMiddleware_PropagatesTenantToRequestContext(t *testing.T) {
	tenantID := uuid.NewString()

	router := gin.New()
	router.Use(TenantMiddlewareWithConfig(DefaultTenantConfig()))
	router.GET("/api/v1/deals", func(c *gin.Context) {
		c.String(http.StatusOK, logger.GetTenantID(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil)
	req.Header.Set(TenantHeaderKey, tenantID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, tenantID, w.Body.String())
}

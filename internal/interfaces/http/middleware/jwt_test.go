package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizsuite/backend/internal/infrastructure/auth"
	"github.com/bizsuite/backend/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func issuerService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "access-signing-secret-0123456789ab",
		RefreshSecret:          "refresh-signing-secret-0123456789",
		AccessTokenExpiration:  expiration,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "bizsuite",
		MaxRefreshCount:        10,
	})
}

func mintPair(t *testing.T, svc *auth.JWTService) (*auth.TokenPair, auth.GenerateTokenInput) {
	t.Helper()

	input := auth.GenerateTokenInput{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Username: "fklimt",
		Role:     "manager",
	}
	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)
	return pair, input
}

func protectedRouter(mw gin.HandlerFunc, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(mw)
	handlers := append(extra, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/api/v1/deals", handlers...)
	return router
}

func getWithAuth(router *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set(AuthHeaderKey, authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware_AcceptsValidToken(t *testing.T) {
	svc := issuerService(15 * time.Minute)
	pair, who := mintPair(t, svc)

	var claims *auth.Claims
	router := protectedRouter(JWTAuthMiddleware(svc), func(c *gin.Context) {
		claims = GetJWTClaims(c)
		c.Next()
	})

	w := getWithAuth(router, "/api/v1/deals", BearerPrefix+pair.AccessToken)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, claims)
	assert.Equal(t, who.UserID.String(), claims.UserID)
	assert.Equal(t, who.TenantID.String(), claims.TenantID)
}

func TestJWTAuthMiddleware_RejectsBadCredentials(t *testing.T) {
	svc := issuerService(15 * time.Minute)
	validPair, _ := mintPair(t, svc)

	expired := issuerService(-time.Hour)
	expiredPair, _ := mintPair(t, expired)

	tests := []struct {
		name          string
		authorization string
		wantCode      string
	}{
		{"no header", "", "INVALID_TOKEN"},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "INVALID_TOKEN"},
		{"empty bearer token", BearerPrefix, "INVALID_TOKEN"},
		{"garbage token", BearerPrefix + "not.a.jwt", "INVALID_TOKEN"},
		{"expired token", BearerPrefix + expiredPair.AccessToken, "TOKEN_EXPIRED"},
		{"refresh token as access", BearerPrefix + validPair.RefreshToken, "INVALID_TOKEN_TYPE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := protectedRouter(JWTAuthMiddleware(svc))
			w := getWithAuth(router, "/api/v1/deals", tt.authorization)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}
}

func TestJWTAuthMiddleware_SkipPathsBypassAuth(t *testing.T) {
	svc := issuerService(15 * time.Minute)

	cfg := DefaultJWTConfig(svc)
	cfg.SkipPaths = append(cfg.SkipPaths, "/api/v1/ping")
	cfg.SkipPathPrefixes = append(cfg.SkipPathPrefixes, "/static")

	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	for _, path := range []string{"/health", "/api/v1/auth/login", "/api/v1/ping", "/static/logo.png", "/swagger/index.html"} {
		router.GET(path, func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
	}

	for _, path := range []string{"/health", "/api/v1/auth/login", "/api/v1/ping", "/static/logo.png", "/swagger/index.html"} {
		w := getWithAuth(router, path, "")
		assert.Equal(t, http.StatusOK, w.Code, "path %s", path)
	}
}

func TestJWTAuthMiddleware_RevokedTokenRejected(t *testing.T) {
	svc := issuerService(15 * time.Minute)
	pair, _ := mintPair(t, svc)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	blacklist := auth.NewInMemoryTokenBlacklist()
	require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Hour))

	cfg := DefaultJWTConfig(svc)
	cfg.TokenBlacklist = blacklist
	router := protectedRouter(JWTAuthMiddlewareWithConfig(cfg))

	w := getWithAuth(router, "/api/v1/deals", BearerPrefix+pair.AccessToken)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
}

func TestJWTAuthMiddleware_InvalidatedSessionRejected(t *testing.T) {
	svc := issuerService(15 * time.Minute)
	pair, who := mintPair(t, svc)

	blacklist := auth.NewInMemoryTokenBlacklist()
	require.NoError(t, blacklist.AddUserTokensToBlacklist(context.Background(), who.UserID.String(), time.Hour))

	cfg := DefaultJWTConfig(svc)
	cfg.TokenBlacklist = blacklist
	router := protectedRouter(JWTAuthMiddlewareWithConfig(cfg))

	w := getWithAuth(router, "/api/v1/deals", BearerPrefix+pair.AccessToken)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
}

func TestJWTAuthMiddleware_CustomOnError(t *testing.T) {
	svc := issuerService(15 * time.Minute)

	var seen error
	cfg := DefaultJWTConfig(svc)
	cfg.OnError = func(c *gin.Context, err error) {
		seen = err
		c.AbortWithStatus(http.StatusTeapot)
	}
	router := protectedRouter(JWTAuthMiddlewareWithConfig(cfg))

	w := getWithAuth(router, "/api/v1/deals", "")

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.ErrorIs(t, seen, auth.ErrInvalidToken)
}

func TestJWTContextAccessors_EmptyWithoutAuth(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetJWTUserID(c))
	assert.Empty(t, GetJWTTenantID(c))
}

func TestRequireRole(t *testing.T) {
	svc := issuerService(15 * time.Minute)
	pair, _ := mintPair(t, svc) // minted with role "manager"

	newRouter := func(allowed ...string) *gin.Engine {
		return protectedRouter(JWTAuthMiddleware(svc), RequireRole(allowed...))
	}

	t.Run("matching role passes", func(t *testing.T) {
		w := getWithAuth(newRouter("admin", "manager"), "/api/v1/deals", BearerPrefix+pair.AccessToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("other role is forbidden", func(t *testing.T) {
		w := getWithAuth(newRouter("admin"), "/api/v1/deals", BearerPrefix+pair.AccessToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unauthenticated request is forbidden", func(t *testing.T) {
		router := gin.New()
		router.GET("/api/v1/deals", RequireRole("admin"), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		w := getWithAuth(router, "/api/v1/deals", "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

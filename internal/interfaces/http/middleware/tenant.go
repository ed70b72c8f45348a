package middleware

import (
	"net/http"
	"strings"

	"github.com/bizsuite/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// TenantIDKey is the gin context key holding the resolved tenant ID
	TenantIDKey = "tenant_id"
	// TenantCodeKey holds the tenant's short code when a validator ran
	TenantCodeKey = "tenant_code"
	// TenantHeaderKey is the request header carrying an explicit tenant
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantInfo is what a TenantValidator reports for a known tenant
type TenantInfo struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
}

// TenantValidator checks that a tenant exists and is active
type TenantValidator interface {
	ValidateTenant(tenantID string) (*TenantInfo, error)
}

// TenantMiddlewareConfig configures tenant resolution. Sources are
// tried in order: JWT claims, then the X-Tenant-ID header, then the
// request subdomain.
type TenantMiddlewareConfig struct {
	HeaderEnabled    bool
	JWTEnabled       bool
	SubdomainEnabled bool
	// BaseDomain anchors subdomain extraction, "acme.bizsuite.example"
	// against BaseDomain "bizsuite.example" resolves tenant "acme"
	BaseDomain string
	// SkipPaths bypass tenant resolution entirely
	SkipPaths []string
	// Required rejects requests that carry no tenant at all
	Required  bool
	Validator TenantValidator
	Logger    *zap.Logger
}

// DefaultTenantConfig resolves tenants from JWT claims and the header,
// skipping health and metrics endpoints.
func DefaultTenantConfig() TenantMiddlewareConfig {
	return TenantMiddlewareConfig{
		HeaderEnabled: true,
		JWTEnabled:    true,
		SkipPaths:     []string{"/health", "/healthz", "/ready", "/metrics", "/api/v1/health"},
		Required:      true,
	}
}

// TenantMiddlewareWithConfig resolves the acting tenant and places it
// on both the gin context and the request context, so repositories
// reached through the service layer scope their queries.
func TenantMiddlewareWithConfig(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip || strings.HasPrefix(path, skip+"/") {
				c.Next()
				return
			}
		}

		var tenantID, source string

		if cfg.JWTEnabled {
			if v, exists := c.Get("jwt_tenant_id"); exists {
				if tid, ok := v.(string); ok && tid != "" {
					tenantID, source = tid, "jwt"
				}
			}
		}
		if tenantID == "" && cfg.HeaderEnabled {
			if tid := c.GetHeader(TenantHeaderKey); tid != "" {
				tenantID, source = tid, "header"
			}
		}
		if tenantID == "" && cfg.SubdomainEnabled && cfg.BaseDomain != "" {
			if tid := tenantFromSubdomain(c.Request.Host, cfg.BaseDomain); tid != "" {
				tenantID, source = tid, "subdomain"
			}
		}

		if tenantID != "" {
			if _, err := uuid.Parse(tenantID); err != nil {
				respondUnauthorized(c, "Invalid tenant ID format")
				return
			}
		}
		if tenantID == "" && cfg.Required {
			respondUnauthorized(c, "Tenant identification required")
			return
		}

		var info *TenantInfo
		if tenantID != "" && cfg.Validator != nil {
			var err error
			info, err = cfg.Validator.ValidateTenant(tenantID)
			if err != nil {
				log := cfg.Logger
				if log == nil {
					log = logger.FromContext(c.Request.Context())
				}
				log.Warn("Tenant validation failed",
					zap.String("tenant_id", tenantID),
					zap.Error(err),
				)
				respondUnauthorized(c, "Invalid or inactive tenant")
				return
			}
		}

		if tenantID != "" {
			c.Set(TenantIDKey, tenantID)
			if info != nil {
				c.Set(TenantCodeKey, info.Code)
			}

			ctx := c.Request.Context()
			ctx, _ = logger.WithTenantID(ctx, logger.FromContext(ctx), tenantID)
			c.Request = c.Request.WithContext(ctx)

			if cfg.Logger != nil {
				cfg.Logger.Debug("Tenant resolved",
					zap.String("tenant_id", tenantID),
					zap.String("source", source),
				)
			}
		}

		c.Next()
	}
}

// tenantFromSubdomain picks the leftmost label in front of baseDomain.
// "www" and the bare base domain resolve to nothing.
func tenantFromSubdomain(host, baseDomain string) string {
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}
	if !strings.HasSuffix(host, baseDomain) {
		return ""
	}

	sub := strings.TrimSuffix(host, "."+baseDomain)
	if sub == host || sub == "" || sub == "www" {
		return ""
	}
	return strings.Split(sub, ".")[0]
}

func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}

// GetTenantID reads the resolved tenant ID off the gin context, empty
// when the request carried none.
func GetTenantID(c *gin.Context) string {
	if v, exists := c.Get(TenantIDKey); exists {
		if tid, ok := v.(string); ok {
			return tid
		}
	}
	return ""
}

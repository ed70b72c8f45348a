package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func textHandler(status int, body string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(status, body)
	}
}

func TestRouter_DefaultsToV1(t *testing.T) {
	engine := gin.New()

	g := NewDomainGroup("system", "/system")
	g.GET("/health", textHandler(http.StatusOK, "ok"))

	NewRouter(engine).Register(g).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/system/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestRouter_VersionOverride(t *testing.T) {
	engine := gin.New()

	g := NewDomainGroup("system", "/system")
	g.GET("/health", textHandler(http.StatusOK, "ok"))

	NewRouter(engine, WithAPIVersion("v2")).Register(g).Setup()

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v2/system/health").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/system/health").Code)
}

func TestRouter_MiddlewareCoversAllGroups(t *testing.T) {
	engine := gin.New()

	crm := NewDomainGroup("crm", "/crm")
	crm.GET("/deals", textHandler(http.StatusOK, "deals"))
	hr := NewDomainGroup("hr", "/hr")
	hr.GET("/employees", textHandler(http.StatusOK, "employees"))

	NewRouter(engine).
		Use(func(c *gin.Context) {
			c.Header("X-Suite", "on")
			c.Next()
		}).
		Register(crm).
		Register(hr).
		Setup()

	for _, path := range []string{"/api/v1/crm/deals", "/api/v1/hr/employees"} {
		w := serve(engine, http.MethodGet, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "on", w.Header().Get("X-Suite"), path)
	}
}

func TestDomainGroup_AllMethods(t *testing.T) {
	engine := gin.New()

	g := NewDomainGroup("crm", "/crm")
	g.GET("/deals", textHandler(http.StatusOK, "list")).
		POST("/deals", textHandler(http.StatusCreated, "created")).
		PUT("/deals/:id", textHandler(http.StatusOK, "replaced")).
		PATCH("/deals/:id", textHandler(http.StatusOK, "patched")).
		DELETE("/deals/:id", textHandler(http.StatusNoContent, ""))

	NewRouter(engine).Register(g).Setup()

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/v1/crm/deals", http.StatusOK},
		{http.MethodPost, "/api/v1/crm/deals", http.StatusCreated},
		{http.MethodPut, "/api/v1/crm/deals/7", http.StatusOK},
		{http.MethodPatch, "/api/v1/crm/deals/7", http.StatusOK},
		{http.MethodDelete, "/api/v1/crm/deals/7", http.StatusNoContent},
	}
	for _, tt := range tests {
		w := serve(engine, tt.method, tt.path)
		assert.Equal(t, tt.want, w.Code, "%s %s", tt.method, tt.path)
	}
}

func TestDomainGroup_MiddlewareScopedToGroup(t *testing.T) {
	engine := gin.New()

	guarded := NewDomainGroup("finance", "/finance")
	guarded.Use(func(c *gin.Context) {
		c.Header("X-Guarded", "yes")
		c.Next()
	})
	guarded.GET("/invoices", textHandler(http.StatusOK, "invoices"))

	open := NewDomainGroup("system", "/system")
	open.GET("/health", textHandler(http.StatusOK, "ok"))

	NewRouter(engine).Register(guarded).Register(open).Setup()

	assert.Equal(t, "yes", serve(engine, http.MethodGet, "/api/v1/finance/invoices").Header().Get("X-Guarded"))
	assert.Empty(t, serve(engine, http.MethodGet, "/api/v1/system/health").Header().Get("X-Guarded"))
}

func TestDomainGroup_Subgroups(t *testing.T) {
	engine := gin.New()

	crm := NewDomainGroup("crm", "/crm")
	crm.Group("deals", "/deals").GET("", textHandler(http.StatusOK, "deals list"))
	crm.Group("opportunities", "/opportunities").GET("", textHandler(http.StatusOK, "opportunities list"))

	NewRouter(engine).Register(crm).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/crm/deals")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "deals list", w.Body.String())

	w = serve(engine, http.MethodGet, "/api/v1/crm/opportunities")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "opportunities list", w.Body.String())
}

func TestDomainGroup_Name(t *testing.T) {
	assert.Equal(t, "crm", NewDomainGroup("crm", "/crm").Name())
}

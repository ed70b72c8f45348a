package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	auditapp "github.com/bizsuite/backend/internal/application/audit"
	"github.com/bizsuite/backend/internal/domain/audit"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockEntryRepository implements audit.EntryRepository for handler tests
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Save(ctx context.Context, entry *audit.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*audit.AuditEntry, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audit.AuditEntry), args.Error(1)
}

func (m *MockEntryRepository) Search(ctx context.Context, tenantID uuid.UUID, query audit.Query, filter shared.Filter) ([]audit.AuditEntry, error) {
	args := m.Called(ctx, tenantID, query, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.AuditEntry), args.Error(1)
}

func (m *MockEntryRepository) Count(ctx context.Context, tenantID uuid.UUID, query audit.Query) (int64, error) {
	args := m.Called(ctx, tenantID, query)
	return args.Get(0).(int64), args.Error(1)
}

var _ audit.EntryRepository = (*MockEntryRepository)(nil)

func setupAuditTestRouter(tenantID uuid.UUID) (*gin.Engine, *MockEntryRepository, *AuditHandler) {
	gin.SetMode(gin.TestMode)

	mockRepo := new(MockEntryRepository)
	service := auditapp.NewTrailService(mockRepo, zap.NewNop())
	handler := NewAuditHandler(service)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		setJWTContext(c, tenantID, uuid.New())
		c.Next()
	})

	return router, mockRepo, handler
}

func newTestAuditEntry(t *testing.T, tenantID, actorID uuid.UUID) *audit.AuditEntry {
	t.Helper()
	entry, err := audit.NewAuditEntry(tenantID, actorID, "jordan",
		audit.AuditActionUpdate, "invoice", uuid.New(), "Invoice INV-2026-001 issued")
	assert.NoError(t, err)
	return entry
}

func TestAuditHandler_Search(t *testing.T) {
	tenantID := uuid.New()

	t.Run("returns entries with pagination meta", func(t *testing.T) {
		router, mockRepo, handler := setupAuditTestRouter(tenantID)
		router.GET("/audit/entries", handler.Search)

		entry := newTestAuditEntry(t, tenantID, uuid.New())
		mockRepo.On("Search", mock.Anything, tenantID, mock.Anything, mock.Anything).
			Return([]audit.AuditEntry{*entry}, nil)
		mockRepo.On("Count", mock.Anything, tenantID, mock.Anything).Return(int64(1), nil)

		req, _ := http.NewRequest(http.MethodGet, "/audit/entries?page=1&page_size=20", nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Invoice INV-2026-001 issued")

		var response struct {
			Success bool `json:"success"`
			Meta    struct {
				Total int64 `json:"total"`
			} `json:"meta"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.True(t, response.Success)
		assert.Equal(t, int64(1), response.Meta.Total)
		mockRepo.AssertExpectations(t)
	})

	t.Run("passes actor and action filters to the query", func(t *testing.T) {
		router, mockRepo, handler := setupAuditTestRouter(tenantID)
		router.GET("/audit/entries", handler.Search)

		actorID := uuid.New()
		mockRepo.On("Search", mock.Anything, tenantID,
			mock.MatchedBy(func(q audit.Query) bool {
				return q.ActorID == actorID && q.Action == audit.AuditActionLogin
			}), mock.Anything).Return([]audit.AuditEntry{}, nil)
		mockRepo.On("Count", mock.Anything, tenantID, mock.Anything).Return(int64(0), nil)

		url := "/audit/entries?actor_id=" + actorID.String() + "&action=login"
		req, _ := http.NewRequest(http.MethodGet, url, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("malformed actor_id returns 400", func(t *testing.T) {
		router, mockRepo, handler := setupAuditTestRouter(tenantID)
		router.GET("/audit/entries", handler.Search)

		req, _ := http.NewRequest(http.MethodGet, "/audit/entries?actor_id=nope", nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockRepo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuditHandler_GetByID(t *testing.T) {
	tenantID := uuid.New()

	t.Run("returns entry", func(t *testing.T) {
		router, mockRepo, handler := setupAuditTestRouter(tenantID)
		router.GET("/audit/entries/:id", handler.GetByID)

		entry := newTestAuditEntry(t, tenantID, uuid.New())
		mockRepo.On("FindByID", mock.Anything, tenantID, entry.ID).Return(entry, nil)

		req, _ := http.NewRequest(http.MethodGet, "/audit/entries/"+entry.ID.String(), nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "jordan")
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown entry returns 404", func(t *testing.T) {
		router, mockRepo, handler := setupAuditTestRouter(tenantID)
		router.GET("/audit/entries/:id", handler.GetByID)

		entryID := uuid.New()
		mockRepo.On("FindByID", mock.Anything, tenantID, entryID).
			Return(nil, shared.NewDomainError("NOT_FOUND", "Audit entry not found"))

		req, _ := http.NewRequest(http.MethodGet, "/audit/entries/"+entryID.String(), nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

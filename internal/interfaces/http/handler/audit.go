package handler

import (
	"time"

	auditapp "github.com/bizsuite/backend/internal/application/audit"
	"github.com/bizsuite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditHandler handles audit trail endpoints
type AuditHandler struct {
	BaseHandler
	trailService *auditapp.TrailService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(trailService *auditapp.TrailService) *AuditHandler {
	return &AuditHandler{trailService: trailService}
}

// Search godoc
// @Summary      Search audit trail
// @Tags         audit
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        actor_id query string false "Filter by actor"
// @Param        action query string false "Filter by action"
// @Param        entity_type query string false "Filter by entity type"
// @Param        entity_id query string false "Filter by entity"
// @Param        from query string false "Range start (RFC3339)"
// @Param        to query string false "Range end (RFC3339)"
// @Success      200 {object} dto.Response{data=[]auditapp.AuditEntryResponse}
// @Router       /audit/entries [get]
func (h *AuditHandler) Search(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := auditapp.AuditListFilter{
		Page:       listReq.Page,
		PageSize:   listReq.PageSize,
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
	}
	if raw := c.Query("actor_id"); raw != "" {
		actorID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid actor_id")
			return
		}
		filter.ActorID = actorID
	}
	if raw := c.Query("entity_id"); raw != "" {
		entityID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid entity_id")
			return
		}
		filter.EntityID = entityID
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.BadRequest(c, "Invalid from timestamp")
			return
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.BadRequest(c, "Invalid to timestamp")
			return
		}
		filter.To = &to
	}

	entries, total, err := h.trailService.Search(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, entries, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get audit entry by ID
// @Tags         audit
// @Produce      json
// @Param        id path string true "Entry ID"
// @Success      200 {object} dto.Response{data=auditapp.AuditEntryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /audit/entries/{id} [get]
func (h *AuditHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	entryID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	entry, err := h.trailService.GetByID(c.Request.Context(), tenantID, entryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

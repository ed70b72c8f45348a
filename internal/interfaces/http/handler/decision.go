package handler

import (
	"context"

	insightapp "github.com/bizsuite/backend/internal/application/insight"
	"github.com/bizsuite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DecisionHandler handles autonomous decision endpoints
type DecisionHandler struct {
	BaseHandler
	decisionService *insightapp.DecisionService
}

// NewDecisionHandler creates a new decision handler
func NewDecisionHandler(decisionService *insightapp.DecisionService) *DecisionHandler {
	return &DecisionHandler{decisionService: decisionService}
}

// Request godoc
// @Summary      Request a decision
// @Description  Score the options for a known decision type and recommend one
// @Tags         decisions
// @Accept       json
// @Produce      json
// @Param        request body insightapp.RequestDecisionRequest true "Decision type"
// @Success      201 {object} dto.Response{data=insightapp.DecisionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /decisions [post]
func (h *DecisionHandler) Request(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req insightapp.RequestDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	decision, err := h.decisionService.Request(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, decision)
}

// List godoc
// @Summary      List decisions
// @Tags         decisions
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        type query string false "Filter by decision type"
// @Param        status query string false "Filter by status"
// @Success      200 {object} dto.Response{data=[]insightapp.DecisionResponse}
// @Router       /decisions [get]
func (h *DecisionHandler) List(c *gin.Context) {
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

	filter := insightapp.DecisionListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
		Type:     c.Query("type"),
		Status:   c.Query("status"),
	}

	decisions, total, err := h.decisionService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, decisions, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get decision by ID
// @Tags         decisions
// @Produce      json
// @Param        id path string true "Decision ID"
// @Success      200 {object} dto.Response{data=insightapp.DecisionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /decisions/{id} [get]
func (h *DecisionHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	decisionID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid decision ID")
		return
	}

	decision, err := h.decisionService.GetByID(c.Request.Context(), tenantID, decisionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, decision)
}

// Accept godoc
// @Summary      Accept recommendation
// @Description  Accepting feeds the learning multiplier for future decisions
// @Tags         decisions
// @Accept       json
// @Produce      json
// @Param        id path string true "Decision ID"
// @Param        request body insightapp.ReviewDecisionRequest true "Reviewer"
// @Success      200 {object} dto.Response{data=insightapp.DecisionResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /decisions/{id}/accept [post]
func (h *DecisionHandler) Accept(c *gin.Context) {
	h.review(c, h.decisionService.Accept)
}

// Reject godoc
// @Summary      Reject recommendation
// @Tags         decisions
// @Accept       json
// @Produce      json
// @Param        id path string true "Decision ID"
// @Param        request body insightapp.ReviewDecisionRequest true "Reviewer"
// @Success      200 {object} dto.Response{data=insightapp.DecisionResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /decisions/{id}/reject [post]
func (h *DecisionHandler) Reject(c *gin.Context) {
	h.review(c, h.decisionService.Reject)
}

// decisionReview is the shape shared by accept and reject
type decisionReview func(ctx context.Context, tenantID, decisionID uuid.UUID, req insightapp.ReviewDecisionRequest) (*insightapp.DecisionResponse, error)

func (h *DecisionHandler) review(c *gin.Context, review decisionReview) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	decisionID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid decision ID")
		return
	}

	var req insightapp.ReviewDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	decision, err := review(c.Request.Context(), tenantID, decisionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, decision)
}

package handler

import (
	"context"

	projectapp "github.com/bizsuite/backend/internal/application/project"
	"github.com/bizsuite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TaskHandler handles project task endpoints
type TaskHandler struct {
	BaseHandler
	taskService *projectapp.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *projectapp.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Create godoc
// @Summary      Create task
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        request body projectapp.CreateTaskRequest true "Task"
// @Success      201 {object} dto.Response{data=projectapp.TaskResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /projects/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req projectapp.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, task)
}

// List godoc
// @Summary      List tasks
// @Tags         projects
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        status query string false "Filter by status"
// @Param        priority query string false "Filter by priority"
// @Param        project query string false "Filter by project name"
// @Param        assignee query string false "Filter by assignee"
// @Success      200 {object} dto.Response{data=[]projectapp.TaskResponse}
// @Router       /projects/tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
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

	filter := projectapp.TaskListFilter{
		Page:        listReq.Page,
		PageSize:    listReq.PageSize,
		OrderBy:     listReq.OrderBy,
		OrderDir:    listReq.OrderDir,
		Search:      listReq.Search,
		Status:      c.Query("status"),
		Priority:    c.Query("priority"),
		ProjectName: c.Query("project"),
		Assignee:    c.Query("assignee"),
	}

	tasks, total, err := h.taskService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, tasks, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get task by ID
// @Tags         projects
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {object} dto.Response{data=projectapp.TaskResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /projects/tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	taskID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.taskService.GetByID(c.Request.Context(), tenantID, taskID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, task)
}

// GetByCode godoc
// @Summary      Get task by code
// @Tags         projects
// @Produce      json
// @Param        code path string true "Task code"
// @Success      200 {object} dto.Response{data=projectapp.TaskResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /projects/tasks/code/{code} [get]
func (h *TaskHandler) GetByCode(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	task, err := h.taskService.GetByCode(c.Request.Context(), tenantID, c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, task)
}

// Update godoc
// @Summary      Update task
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        request body projectapp.UpdateTaskRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=projectapp.TaskResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /projects/tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	taskID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid task ID")
		return
	}

	var req projectapp.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), tenantID, taskID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, task)
}

// Start godoc
// @Summary      Start task
// @Tags         projects
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {object} dto.Response{data=projectapp.TaskResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /projects/tasks/{id}/start [post]
func (h *TaskHandler) Start(c *gin.Context) {
	h.transition(c, h.taskService.Start)
}

// SubmitForReview godoc
// @Summary      Submit task for review
// @Tags         projects
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {object} dto.Response{data=projectapp.TaskResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /projects/tasks/{id}/review [post]
func (h *TaskHandler) SubmitForReview(c *gin.Context) {
	h.transition(c, h.taskService.SubmitForReview)
}

// RequestChanges godoc
// @Summary      Request changes on a task in review
// @Tags         projects
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {object} dto.Response{data=projectapp.TaskResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /projects/tasks/{id}/request-changes [post]
func (h *TaskHandler) RequestChanges(c *gin.Context) {
	h.transition(c, h.taskService.RequestChanges)
}

// Complete godoc
// @Summary      Complete task
// @Tags         projects
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {object} dto.Response{data=projectapp.TaskResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /projects/tasks/{id}/complete [post]
func (h *TaskHandler) Complete(c *gin.Context) {
	h.transition(c, h.taskService.Complete)
}

// Reopen godoc
// @Summary      Reopen completed task
// @Tags         projects
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {object} dto.Response{data=projectapp.TaskResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /projects/tasks/{id}/reopen [post]
func (h *TaskHandler) Reopen(c *gin.Context) {
	h.transition(c, h.taskService.Reopen)
}

// Cancel godoc
// @Summary      Cancel task
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        request body projectapp.CancelTaskRequest true "Cancel reason"
// @Success      200 {object} dto.Response{data=projectapp.TaskResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /projects/tasks/{id}/cancel [post]
func (h *TaskHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	taskID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid task ID")
		return
	}

	var req projectapp.CancelTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Cancel(c.Request.Context(), tenantID, taskID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, task)
}

// LogHours godoc
// @Summary      Log worked hours
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        request body projectapp.LogHoursRequest true "Hours"
// @Success      200 {object} dto.Response{data=projectapp.TaskResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /projects/tasks/{id}/hours [post]
func (h *TaskHandler) LogHours(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	taskID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid task ID")
		return
	}

	var req projectapp.LogHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.LogHours(c.Request.Context(), tenantID, taskID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, task)
}

// Delete godoc
// @Summary      Delete task
// @Tags         projects
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /projects/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	taskID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid task ID")
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), tenantID, taskID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Progress godoc
// @Summary      Project progress
// @Description  Per-status task breakdown for one project
// @Tags         projects
// @Produce      json
// @Param        name path string true "Project name"
// @Success      200 {object} dto.Response{data=projectapp.ProjectProgressResponse}
// @Router       /projects/{name}/progress [get]
func (h *TaskHandler) Progress(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	progress, err := h.taskService.Progress(c.Request.Context(), tenantID, c.Param("name"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, progress)
}

// taskTransition is the shape shared by the status change endpoints
type taskTransition func(ctx context.Context, tenantID, taskID uuid.UUID) (*projectapp.TaskResponse, error)

func (h *TaskHandler) transition(c *gin.Context, change taskTransition) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	taskID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := change(c.Request.Context(), tenantID, taskID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, task)
}

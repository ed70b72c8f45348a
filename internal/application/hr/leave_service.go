package hr

import (
	"context"
	"time"

	"github.com/bizsuite/backend/internal/domain/hr"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LeaveService handles leave request workflow operations
type LeaveService struct {
	leaveRepo      hr.LeaveRequestRepository
	employeeRepo   hr.EmployeeRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewLeaveService creates a new LeaveService
func NewLeaveService(
	leaveRepo hr.LeaveRequestRepository,
	employeeRepo hr.EmployeeRepository,
	logger *zap.Logger,
) *LeaveService {
	return &LeaveService{
		leaveRepo:    leaveRepo,
		employeeRepo: employeeRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for audit and integration events
func (s *LeaveService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new draft leave request for an active employee
func (s *LeaveService) Create(ctx context.Context, tenantID uuid.UUID, req CreateLeaveRequestRequest) (*LeaveRequestResponse, error) {
	employee, err := s.employeeRepo.FindByID(ctx, tenantID, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if employee.IsTerminated() {
		return nil, shared.NewDomainError("EMPLOYEE_TERMINATED", "Cannot request leave for a terminated employee")
	}

	request, err := hr.NewLeaveRequest(tenantID, req.EmployeeID, hr.LeaveType(req.Type), req.StartDate, req.EndDate, req.Days)
	if err != nil {
		return nil, err
	}
	request.Reason = req.Reason

	if err := s.leaveRepo.Save(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info("Leave request created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("request_id", request.ID.String()),
		zap.String("employee_id", req.EmployeeID.String()))

	response := ToLeaveRequestResponse(request)
	return &response, nil
}

// GetByID retrieves a leave request by ID
func (s *LeaveService) GetByID(ctx context.Context, tenantID, requestID uuid.UUID) (*LeaveRequestResponse, error) {
	request, err := s.leaveRepo.FindByID(ctx, tenantID, requestID)
	if err != nil {
		return nil, err
	}

	response := ToLeaveRequestResponse(request)
	return &response, nil
}

// List retrieves leave requests with filtering and pagination
func (s *LeaveService) List(ctx context.Context, tenantID uuid.UUID, filter LeaveListFilter) ([]LeaveRequestResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	var (
		requests []hr.LeaveRequest
		err      error
	)
	if filter.EmployeeID != nil {
		requests, err = s.leaveRepo.FindByEmployee(ctx, tenantID, *filter.EmployeeID, domainFilter)
	} else {
		requests, err = s.leaveRepo.FindAll(ctx, tenantID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.leaveRepo.Count(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToLeaveRequestResponses(requests), total, nil
}

// Update updates a draft leave request
func (s *LeaveService) Update(ctx context.Context, tenantID, requestID uuid.UUID, req UpdateLeaveRequestRequest) (*LeaveRequestResponse, error) {
	request, err := s.leaveRepo.FindByID(ctx, tenantID, requestID)
	if err != nil {
		return nil, err
	}

	leaveType := request.Type
	startDate := request.StartDate
	endDate := request.EndDate
	days := request.Days
	reason := request.Reason

	if req.Type != nil {
		leaveType = hr.LeaveType(*req.Type)
	}
	if req.StartDate != nil {
		startDate = *req.StartDate
	}
	if req.EndDate != nil {
		endDate = *req.EndDate
	}
	if req.Days != nil {
		days = *req.Days
	}
	if req.Reason != nil {
		reason = *req.Reason
	}

	if err := request.Update(leaveType, startDate, endDate, days, reason); err != nil {
		return nil, err
	}

	if err := s.leaveRepo.Save(ctx, request); err != nil {
		return nil, err
	}

	response := ToLeaveRequestResponse(request)
	return &response, nil
}

// Submit submits a draft request for approval
func (s *LeaveService) Submit(ctx context.Context, tenantID, requestID uuid.UUID) (*LeaveRequestResponse, error) {
	return s.transition(ctx, tenantID, requestID, func(r *hr.LeaveRequest) error { return r.Submit() })
}

// Approve approves a submitted request.
// Overlapping approved leave for the same employee is rejected, and the
// employee flips to on_leave when the range covers today.
func (s *LeaveService) Approve(ctx context.Context, tenantID, requestID uuid.UUID, req DecideLeaveRequest) (*LeaveRequestResponse, error) {
	request, err := s.leaveRepo.FindByID(ctx, tenantID, requestID)
	if err != nil {
		return nil, err
	}

	overlapping, err := s.leaveRepo.FindApprovedOverlapping(ctx, tenantID, request.EmployeeID, request.StartDate, request.EndDate)
	if err != nil {
		return nil, err
	}
	for i := range overlapping {
		if overlapping[i].ID != request.ID {
			return nil, shared.NewDomainError("OVERLAPPING_LEAVE", "Employee already has approved leave in this period")
		}
	}

	if err := request.Approve(req.Approver); err != nil {
		return nil, err
	}

	if err := s.leaveRepo.Save(ctx, request); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, request)

	if request.CoversDate(time.Now()) {
		if err := s.startEmployeeLeave(ctx, tenantID, request.EmployeeID); err != nil {
			s.logger.Error("Failed to flip employee to on_leave",
				zap.String("employee_id", request.EmployeeID.String()),
				zap.Error(err))
		}
	}

	s.logger.Info("Leave request approved",
		zap.String("tenant_id", tenantID.String()),
		zap.String("request_id", requestID.String()),
		zap.String("approver", req.Approver))

	response := ToLeaveRequestResponse(request)
	return &response, nil
}

// Reject rejects a submitted request with a reason
func (s *LeaveService) Reject(ctx context.Context, tenantID, requestID uuid.UUID, req DecideLeaveRequest) (*LeaveRequestResponse, error) {
	return s.transition(ctx, tenantID, requestID, func(r *hr.LeaveRequest) error {
		return r.Reject(req.Approver, req.Reason)
	})
}

// Cancel cancels a draft or submitted request
func (s *LeaveService) Cancel(ctx context.Context, tenantID, requestID uuid.UUID) (*LeaveRequestResponse, error) {
	return s.transition(ctx, tenantID, requestID, func(r *hr.LeaveRequest) error { return r.Cancel() })
}

// Delete removes a leave request. Approved requests are kept for the balance history.
func (s *LeaveService) Delete(ctx context.Context, tenantID, requestID uuid.UUID) error {
	request, err := s.leaveRepo.FindByID(ctx, tenantID, requestID)
	if err != nil {
		return err
	}

	if request.IsApproved() {
		return shared.NewDomainError("CANNOT_DELETE", "Approved leave requests cannot be deleted")
	}

	return s.leaveRepo.Delete(ctx, tenantID, requestID)
}

// Balance returns approved leave days per type for an employee
func (s *LeaveService) Balance(ctx context.Context, tenantID, employeeID uuid.UUID) (*LeaveBalanceResponse, error) {
	if _, err := s.employeeRepo.FindByID(ctx, tenantID, employeeID); err != nil {
		return nil, err
	}

	balances, err := s.leaveRepo.SummarizeByType(ctx, tenantID, employeeID)
	if err != nil {
		return nil, err
	}

	response := &LeaveBalanceResponse{
		EmployeeID: employeeID,
		Balances:   make(map[string]float64, len(balances)),
	}
	for _, balance := range balances {
		response.Balances[string(balance.Type)] = balance.Days
		response.TotalDays += balance.Days
	}

	return response, nil
}

func (s *LeaveService) transition(ctx context.Context, tenantID, requestID uuid.UUID, change func(*hr.LeaveRequest) error) (*LeaveRequestResponse, error) {
	request, err := s.leaveRepo.FindByID(ctx, tenantID, requestID)
	if err != nil {
		return nil, err
	}

	if err := change(request); err != nil {
		return nil, err
	}

	if err := s.leaveRepo.Save(ctx, request); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, request)

	response := ToLeaveRequestResponse(request)
	return &response, nil
}

func (s *LeaveService) startEmployeeLeave(ctx context.Context, tenantID, employeeID uuid.UUID) error {
	employee, err := s.employeeRepo.FindByID(ctx, tenantID, employeeID)
	if err != nil {
		return err
	}

	if err := employee.StartLeave(); err != nil {
		return err
	}

	return s.employeeRepo.Save(ctx, employee)
}

func (s *LeaveService) publishEvents(ctx context.Context, request *hr.LeaveRequest) {
	if s.eventPublisher == nil {
		return
	}

	events := request.GetDomainEvents()
	if len(events) == 0 {
		return
	}

	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish leave events",
			zap.String("request_id", request.ID.String()),
			zap.Error(err))
	}
	request.ClearDomainEvents()
}

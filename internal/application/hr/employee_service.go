package hr

import (
	"context"

	"github.com/bizsuite/backend/internal/domain/hr"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EmployeeService handles employee lifecycle operations
type EmployeeService struct {
	employeeRepo   hr.EmployeeRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(employeeRepo hr.EmployeeRepository, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{
		employeeRepo: employeeRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for audit and integration events
func (s *EmployeeService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new active employee
func (s *EmployeeService) Create(ctx context.Context, tenantID uuid.UUID, req CreateEmployeeRequest) (*EmployeeResponse, error) {
	exists, err := s.employeeRepo.ExistsByNumber(ctx, tenantID, req.Number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Employee with this number already exists")
	}

	employee, err := hr.NewEmployee(tenantID, req.Number, req.Name, req.HireDate, valueobject.NewMoneyUSD(req.Salary))
	if err != nil {
		return nil, err
	}

	if req.Email != "" || req.Department != "" || req.Position != "" {
		if err := employee.Update(req.Name, req.Email, req.Department, req.Position); err != nil {
			return nil, err
		}
	}

	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, employee)

	s.logger.Info("Employee created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("employee_id", employee.ID.String()),
		zap.String("number", employee.Number))

	response := ToEmployeeResponse(employee)
	return &response, nil
}

// GetByID retrieves an employee by ID
func (s *EmployeeService) GetByID(ctx context.Context, tenantID, employeeID uuid.UUID) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByID(ctx, tenantID, employeeID)
	if err != nil {
		return nil, err
	}

	response := ToEmployeeResponse(employee)
	return &response, nil
}

// GetByNumber retrieves an employee by employee number
func (s *EmployeeService) GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByNumber(ctx, tenantID, number)
	if err != nil {
		return nil, err
	}

	response := ToEmployeeResponse(employee)
	return &response, nil
}

// List retrieves employees with filtering and pagination
func (s *EmployeeService) List(ctx context.Context, tenantID uuid.UUID, filter EmployeeListFilter) ([]EmployeeResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "number"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Department != "" {
		domainFilter.Filters["department"] = filter.Department
	}

	employees, err := s.employeeRepo.FindAll(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.employeeRepo.Count(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToEmployeeResponses(employees), total, nil
}

// Update updates an employee's profile and salary
func (s *EmployeeService) Update(ctx context.Context, tenantID, employeeID uuid.UUID, req UpdateEmployeeRequest) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByID(ctx, tenantID, employeeID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Email != nil || req.Department != nil || req.Position != nil {
		name := employee.Name
		email := employee.Email
		department := employee.Department
		position := employee.Position

		if req.Name != nil {
			name = *req.Name
		}
		if req.Email != nil {
			email = *req.Email
		}
		if req.Department != nil {
			department = *req.Department
		}
		if req.Position != nil {
			position = *req.Position
		}

		if err := employee.Update(name, email, department, position); err != nil {
			return nil, err
		}
	}

	if req.Salary != nil {
		if err := employee.SetSalary(valueobject.NewMoneyUSD(*req.Salary)); err != nil {
			return nil, err
		}
	}

	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		return nil, err
	}

	response := ToEmployeeResponse(employee)
	return &response, nil
}

// Terminate permanently ends an employment
func (s *EmployeeService) Terminate(ctx context.Context, tenantID, employeeID uuid.UUID) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByID(ctx, tenantID, employeeID)
	if err != nil {
		return nil, err
	}

	if err := employee.Terminate(); err != nil {
		return nil, err
	}

	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, employee)

	s.logger.Info("Employee terminated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("employee_id", employeeID.String()))

	response := ToEmployeeResponse(employee)
	return &response, nil
}

// Delete removes an employee record. Only terminated employees can be deleted.
func (s *EmployeeService) Delete(ctx context.Context, tenantID, employeeID uuid.UUID) error {
	employee, err := s.employeeRepo.FindByID(ctx, tenantID, employeeID)
	if err != nil {
		return err
	}

	if !employee.IsTerminated() {
		return shared.NewDomainError("CANNOT_DELETE", "Terminate the employee before deleting the record")
	}

	return s.employeeRepo.Delete(ctx, tenantID, employeeID)
}

func (s *EmployeeService) publishEvents(ctx context.Context, employee *hr.Employee) {
	if s.eventPublisher == nil {
		return
	}

	events := employee.GetDomainEvents()
	if len(events) == 0 {
		return
	}

	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish employee events",
			zap.String("employee_id", employee.ID.String()),
			zap.Error(err))
	}
	employee.ClearDomainEvents()
}

package identity

import (
	"context"

	"github.com/bizsuite/backend/internal/domain/identity"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantService handles tenant provisioning and lifecycle operations
type TenantService struct {
	tenantRepo identity.TenantRepository
	userRepo   identity.UserRepository
	logger     *zap.Logger
}

// NewTenantService creates a new TenantService
func NewTenantService(
	tenantRepo identity.TenantRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// Create provisions a new tenant together with its first admin user
func (s *TenantService) Create(ctx context.Context, req CreateTenantRequest) (*TenantResponse, error) {
	exists, err := s.tenantRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Tenant with this code already exists")
	}

	tenant, err := identity.NewTenant(req.Code, req.Name)
	if err != nil {
		return nil, err
	}

	if req.Contact != "" || req.Email != "" {
		if err := tenant.Update(req.Name, req.Contact, req.Email); err != nil {
			return nil, err
		}
	}

	// The admin account must be valid before the tenant is persisted,
	// otherwise a failed provisioning leaves an ownerless tenant
	admin, err := identity.NewUser(tenant.ID, req.AdminUsername, req.AdminPassword, identity.UserRoleAdmin)
	if err != nil {
		return nil, err
	}
	if req.Email != "" {
		if err := admin.SetEmail(req.Email); err != nil {
			return nil, err
		}
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, admin); err != nil {
		s.logger.Error("Failed to create admin user for new tenant",
			zap.String("tenant_id", tenant.ID.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Tenant provisioned",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("code", tenant.Code))

	response := ToTenantResponse(tenant)
	return &response, nil
}

// GetByID retrieves a tenant by ID
func (s *TenantService) GetByID(ctx context.Context, tenantID uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	response := ToTenantResponse(tenant)
	return &response, nil
}

// GetByCode retrieves a tenant by code
func (s *TenantService) GetByCode(ctx context.Context, code string) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	response := ToTenantResponse(tenant)
	return &response, nil
}

// List retrieves tenants with filtering and pagination
func (s *TenantService) List(ctx context.Context, filter TenantListFilter) ([]TenantResponse, int64, error) {
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
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Plan != "" {
		domainFilter.Filters["plan"] = filter.Plan
	}

	tenants, err := s.tenantRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.tenantRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToTenantResponses(tenants), total, nil
}

// Update updates a tenant's basic information
func (s *TenantService) Update(ctx context.Context, tenantID uuid.UUID, req UpdateTenantRequest) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Contact != nil || req.Email != nil {
		name := tenant.Name
		contact := tenant.Contact
		email := tenant.Email

		if req.Name != nil {
			name = *req.Name
		}
		if req.Contact != nil {
			contact = *req.Contact
		}
		if req.Email != nil {
			email = *req.Email
		}

		if err := tenant.Update(name, contact, email); err != nil {
			return nil, err
		}
	}

	if req.Config != nil {
		if err := tenant.UpdateConfig(*req.Config); err != nil {
			return nil, err
		}
	}

	if req.Notes != nil {
		tenant.SetNotes(*req.Notes)
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	response := ToTenantResponse(tenant)
	return &response, nil
}

// SetPlan changes a tenant's subscription plan
func (s *TenantService) SetPlan(ctx context.Context, tenantID uuid.UUID, plan string) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if err := tenant.SetPlan(identity.TenantPlan(plan)); err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	s.logger.Info("Tenant plan changed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("plan", plan))

	response := ToTenantResponse(tenant)
	return &response, nil
}

// Activate activates a tenant
func (s *TenantService) Activate(ctx context.Context, tenantID uuid.UUID) (*TenantResponse, error) {
	return s.changeStatus(ctx, tenantID, func(t *identity.Tenant) error { return t.Activate() })
}

// Deactivate deactivates a tenant
func (s *TenantService) Deactivate(ctx context.Context, tenantID uuid.UUID) (*TenantResponse, error) {
	return s.changeStatus(ctx, tenantID, func(t *identity.Tenant) error { return t.Deactivate() })
}

// Suspend suspends a tenant
func (s *TenantService) Suspend(ctx context.Context, tenantID uuid.UUID) (*TenantResponse, error) {
	return s.changeStatus(ctx, tenantID, func(t *identity.Tenant) error { return t.Suspend() })
}

func (s *TenantService) changeStatus(ctx context.Context, tenantID uuid.UUID, change func(*identity.Tenant) error) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if err := change(tenant); err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	response := ToTenantResponse(tenant)
	return &response, nil
}

// Delete removes a tenant. Only inactive tenants can be deleted.
func (s *TenantService) Delete(ctx context.Context, tenantID uuid.UUID) error {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return err
	}

	if tenant.IsActive() {
		return shared.NewDomainError("CANNOT_DELETE", "Deactivate the tenant before deleting it")
	}

	return s.tenantRepo.Delete(ctx, tenantID)
}

// CountByStatus returns tenant counts by status
func (s *TenantService) CountByStatus(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)

	var total int64
	for _, status := range []identity.TenantStatus{
		identity.TenantStatusActive,
		identity.TenantStatusInactive,
		identity.TenantStatusSuspended,
	} {
		count, err := s.tenantRepo.CountByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		counts[string(status)] = count
		total += count
	}
	counts["total"] = total

	return counts, nil
}

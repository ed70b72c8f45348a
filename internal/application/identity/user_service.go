package identity

import (
	"context"
	"time"

	"github.com/bizsuite/backend/internal/domain/identity"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles user management within a tenant
type UserService struct {
	tenantRepo identity.TenantRepository
	userRepo   identity.UserRepository
	logger     *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	tenantRepo identity.TenantRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// Create creates a new user in a tenant, enforcing the plan's user cap
func (s *UserService) Create(ctx context.Context, tenantID uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	currentCount, err := s.userRepo.CountForTenant(ctx, tenantID, shared.Filter{})
	if err != nil {
		return nil, err
	}
	if !tenant.CanAddUser(currentCount) {
		return nil, shared.NewDomainError("USER_LIMIT_REACHED", "Tenant has reached its user limit for the current plan")
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, tenantID, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "User with this username already exists")
	}

	if req.Email != "" {
		exists, err = s.userRepo.ExistsByEmail(ctx, tenantID, req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "User with this email already exists")
		}
	}

	user, err := identity.NewUser(tenantID, req.Username, req.Password, identity.UserRole(req.Role))
	if err != nil {
		return nil, err
	}

	if req.Email != "" {
		if err := user.SetEmail(req.Email); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != "" {
		if err := user.SetDisplayName(req.DisplayName); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("role", req.Role))

	response := ToUserResponse(user)
	return &response, nil
}

// GetByID retrieves a user by ID within a tenant
func (s *UserService) GetByID(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// List retrieves users with filtering and pagination
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, filter UserListFilter) ([]UserResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "username"
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
	if filter.Role != "" {
		domainFilter.Filters["role"] = filter.Role
	}

	users, err := s.userRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.userRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToUserResponses(users), total, nil
}

// Update updates a user's profile and role
func (s *UserService) Update(ctx context.Context, tenantID, userID uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		if *req.Email != "" && *req.Email != user.Email {
			exists, err := s.userRepo.ExistsByEmail(ctx, tenantID, *req.Email)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "User with this email already exists")
			}
		}
		if err := user.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}

	if req.DisplayName != nil {
		if err := user.SetDisplayName(*req.DisplayName); err != nil {
			return nil, err
		}
	}

	if req.Role != nil && identity.UserRole(*req.Role) != user.Role {
		// A tenant must always keep at least one admin
		if user.IsAdmin() {
			adminCount, err := s.userRepo.CountByRole(ctx, tenantID, identity.UserRoleAdmin)
			if err != nil {
				return nil, err
			}
			if adminCount <= 1 {
				return nil, shared.NewDomainError("LAST_ADMIN", "Cannot demote the last admin of a tenant")
			}
		}
		if err := user.SetRole(identity.UserRole(*req.Role)); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// ResetPassword sets a new password without requiring the old one
func (s *UserService) ResetPassword(ctx context.Context, tenantID, userID uuid.UUID, newPassword string) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return err
	}

	if err := user.SetPassword(newPassword); err != nil {
		return err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.logger.Info("User password reset",
		zap.String("tenant_id", tenantID.String()),
		zap.String("user_id", userID.String()))

	return nil
}

// Activate activates a user
func (s *UserService) Activate(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	return s.changeStatus(ctx, tenantID, userID, func(u *identity.User) error { return u.Activate() })
}

// Deactivate deactivates a user
func (s *UserService) Deactivate(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	if user.IsAdmin() {
		adminCount, err := s.userRepo.CountByRole(ctx, tenantID, identity.UserRoleAdmin)
		if err != nil {
			return nil, err
		}
		if adminCount <= 1 {
			return nil, shared.NewDomainError("LAST_ADMIN", "Cannot deactivate the last admin of a tenant")
		}
	}

	if err := user.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// Lock locks a user out of login for the given duration
func (s *UserService) Lock(ctx context.Context, tenantID, userID uuid.UUID, duration time.Duration) (*UserResponse, error) {
	return s.changeStatus(ctx, tenantID, userID, func(u *identity.User) error { return u.Lock(duration) })
}

// Unlock clears a login lock ahead of its expiry
func (s *UserService) Unlock(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	return s.changeStatus(ctx, tenantID, userID, func(u *identity.User) error { return u.Unlock() })
}

func (s *UserService) changeStatus(ctx context.Context, tenantID, userID uuid.UUID, change func(*identity.User) error) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	if err := change(user); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// Delete removes a user from a tenant
func (s *UserService) Delete(ctx context.Context, tenantID, userID uuid.UUID) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return err
	}

	if user.IsAdmin() {
		adminCount, err := s.userRepo.CountByRole(ctx, tenantID, identity.UserRoleAdmin)
		if err != nil {
			return err
		}
		if adminCount <= 1 {
			return shared.NewDomainError("LAST_ADMIN", "Cannot delete the last admin of a tenant")
		}
	}

	return s.userRepo.DeleteForTenant(ctx, tenantID, userID)
}

package identity

import (
	"time"

	"github.com/bizsuite/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// LoginInput contains the credentials for a login attempt
type LoginInput struct {
	TenantCode string
	Username   string
	Password   string
	IP         string
}

// UserInfo is the authenticated user's profile carried in auth results
type UserInfo struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
}

// LoginResult is returned on successful login
type LoginResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// RefreshTokenInput contains the refresh token to exchange
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult is returned on successful token refresh
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LogoutInput identifies the session being terminated
type LogoutInput struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	TokenJTI string
	TokenTTL time.Duration
}

// ChangePasswordInput contains a password change request
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// CreateTenantRequest contains fields for provisioning a tenant
type CreateTenantRequest struct {
	Code          string `json:"code" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Contact       string `json:"contact"`
	Email         string `json:"email"`
	AdminUsername string `json:"admin_username" binding:"required"`
	AdminPassword string `json:"admin_password" binding:"required"`
}

// UpdateTenantRequest contains fields for updating a tenant
type UpdateTenantRequest struct {
	Name    *string `json:"name"`
	Contact *string `json:"contact"`
	Email   *string `json:"email"`
	Config  *string `json:"config"`
	Notes   *string `json:"notes"`
}

// TenantResponse is the full tenant representation
type TenantResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Plan      string    `json:"plan"`
	Status    string    `json:"status"`
	Contact   string    `json:"contact"`
	Email     string    `json:"email"`
	Config    string    `json:"config"`
	MaxUsers  int       `json:"max_users"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TenantListFilter contains list filtering options for tenants
type TenantListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Status   string
	Plan     string
}

// ToTenantResponse converts a domain tenant to a response DTO
func ToTenantResponse(t *identity.Tenant) TenantResponse {
	return TenantResponse{
		ID:        t.ID,
		Code:      t.Code,
		Name:      t.Name,
		Plan:      string(t.Plan),
		Status:    string(t.Status),
		Contact:   t.Contact,
		Email:     t.Email,
		Config:    t.Config,
		MaxUsers:  t.MaxUsers,
		Notes:     t.Notes,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// ToTenantResponses converts a slice of domain tenants
func ToTenantResponses(tenants []identity.Tenant) []TenantResponse {
	responses := make([]TenantResponse, len(tenants))
	for i := range tenants {
		responses[i] = ToTenantResponse(&tenants[i])
	}
	return responses
}

// CreateUserRequest contains fields for creating a user
type CreateUserRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role" binding:"required"`
}

// UpdateUserRequest contains fields for updating a user
type UpdateUserRequest struct {
	Email       *string `json:"email"`
	DisplayName *string `json:"display_name"`
	Role        *string `json:"role"`
}

// ResetPasswordRequest contains an admin password reset
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
}

// UserResponse is the full user representation
type UserResponse struct {
	ID             uuid.UUID  `json:"id"`
	TenantID       uuid.UUID  `json:"tenant_id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	DisplayName    string     `json:"display_name"`
	Role           string     `json:"role"`
	Status         string     `json:"status"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	FailedAttempts int        `json:"failed_attempts"`
	LockedUntil    *time.Time `json:"locked_until,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// UserListFilter contains list filtering options for users
type UserListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Status   string
	Role     string
}

// ToUserResponse converts a domain user to a response DTO
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		TenantID:       u.TenantID,
		Username:       u.Username,
		Email:          u.Email,
		DisplayName:    u.DisplayName,
		Role:           string(u.Role),
		Status:         string(u.Status),
		LastLoginAt:    u.LastLoginAt,
		FailedAttempts: u.FailedAttempts,
		LockedUntil:    u.LockedUntil,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// ToUserResponses converts a slice of domain users
func ToUserResponses(users []identity.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses
}

func toUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Username:    u.Username,
		DisplayName: u.GetDisplayNameOrUsername(),
		Email:       u.Email,
		Role:        string(u.Role),
	}
}

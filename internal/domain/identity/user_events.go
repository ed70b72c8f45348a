package identity

import (
	"github.com/bizsuite/backend/internal/domain/shared"
)

const AggregateTypeUser = "User"

const (
	EventTypeUserCreated         = "UserCreated"
	EventTypeUserPasswordChanged = "UserPasswordChanged"
	EventTypeUserStatusChanged   = "UserStatusChanged"
	EventTypeUserRoleChanged     = "UserRoleChanged"
	EventTypeUserDeleted         = "UserDeleted"
)

// userEvent builds the base event for the user aggregate
func userEvent(eventType string, u *User) shared.BaseDomainEvent {
	return shared.NewBaseDomainEvent(eventType, AggregateTypeUser, u.ID, u.TenantID)
}

// UserCreatedEvent records a new account joining the tenant
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Username string     `json:"username"`
	Role     UserRole   `json:"role"`
	Status   UserStatus `json:"status"`
}

func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: userEvent(EventTypeUserCreated, user),
		Username:        user.Username,
		Role:            user.Role,
		Status:          user.Status,
	}
}

// UserPasswordChangedEvent records a credential rotation. The event never
// carries password material, only the account identity.
type UserPasswordChangedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
}

func NewUserPasswordChangedEvent(user *User) *UserPasswordChangedEvent {
	return &UserPasswordChangedEvent{
		BaseDomainEvent: userEvent(EventTypeUserPasswordChanged, user),
		Username:        user.Username,
	}
}

// UserStatusChangedEvent records a lifecycle transition with both endpoints
type UserStatusChangedEvent struct {
	shared.BaseDomainEvent
	Username  string     `json:"username"`
	OldStatus UserStatus `json:"old_status"`
	NewStatus UserStatus `json:"new_status"`
}

func NewUserStatusChangedEvent(user *User, oldStatus, newStatus UserStatus) *UserStatusChangedEvent {
	return &UserStatusChangedEvent{
		BaseDomainEvent: userEvent(EventTypeUserStatusChanged, user),
		Username:        user.Username,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// UserRoleChangedEvent records a permission tier change
type UserRoleChangedEvent struct {
	shared.BaseDomainEvent
	Username string   `json:"username"`
	OldRole  UserRole `json:"old_role"`
	NewRole  UserRole `json:"new_role"`
}

func NewUserRoleChangedEvent(user *User, oldRole, newRole UserRole) *UserRoleChangedEvent {
	return &UserRoleChangedEvent{
		BaseDomainEvent: userEvent(EventTypeUserRoleChanged, user),
		Username:        user.Username,
		OldRole:         oldRole,
		NewRole:         newRole,
	}
}

// UserDeletedEvent records the removal of an account
type UserDeletedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
}

func NewUserDeletedEvent(user *User) *UserDeletedEvent {
	return &UserDeletedEvent{
		BaseDomainEvent: userEvent(EventTypeUserDeleted, user),
		Username:        user.Username,
	}
}

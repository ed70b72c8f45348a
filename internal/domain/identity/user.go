package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus is the lifecycle state of an account
type UserStatus string

const (
	UserStatusActive UserStatus = "active"
	// Locked accounts rejected too many logins in a row; the lock may expire
	UserStatusLocked UserStatus = "locked"
	// Deactivated accounts were switched off by an admin
	UserStatusDeactivated UserStatus = "deactivated"
)

// UserRole is the coarse permission tier inside a tenant
type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleManager UserRole = "manager"
	UserRoleMember  UserRole = "member"
)

const bcryptCost = 12

var (
	usernamePattern  = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	hasLetterPattern = regexp.MustCompile(`[a-zA-Z]`)
	hasDigitPattern  = regexp.MustCompile(`[0-9]`)
	userEmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// User is the aggregate root for one account inside a tenant.
// Usernames and emails are stored lowercased.
type User struct {
	shared.TenantAggregateRoot
	Username       string
	Email          string
	PasswordHash   string
	DisplayName    string
	Role           UserRole
	Status         UserStatus
	LastLoginAt    *time.Time
	LastLoginIP    string
	FailedAttempts int
	LockedUntil    *time.Time
}

func (User) TableName() string {
	return "users"
}

// NewUser creates an active account and hashes the password
func NewUser(tenantID uuid.UUID, username, password string, role UserRole) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if err := validateRole(role); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Username:            strings.ToLower(strings.TrimSpace(username)),
		PasswordHash:        hash,
		Role:                role,
		Status:              UserStatusActive,
	}
	user.AddDomainEvent(NewUserCreatedEvent(user))
	return user, nil
}

// touch bumps the optimistic lock version and the update timestamp
func (u *User) touch() {
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// SetEmail replaces the email; an empty string clears it
func (u *User) SetEmail(email string) error {
	if email != "" {
		if err := validateUserEmail(email); err != nil {
			return err
		}
		email = strings.ToLower(strings.TrimSpace(email))
	}
	u.Email = email
	u.touch()
	return nil
}

func (u *User) SetDisplayName(displayName string) error {
	if len(displayName) > 200 {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 200 characters")
	}
	u.DisplayName = strings.TrimSpace(displayName)
	u.touch()
	return nil
}

// SetRole moves the user to a different permission tier
func (u *User) SetRole(role UserRole) error {
	if err := validateRole(role); err != nil {
		return err
	}

	previous := u.Role
	u.Role = role
	u.touch()
	u.AddDomainEvent(NewUserRoleChangedEvent(u, previous, role))
	return nil
}

// ChangePassword requires the current password; for self-service flows
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword replaces the password without a current-password check;
// for admin resets.
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = hash
	u.touch()
	u.AddDomainEvent(NewUserPasswordChangedEvent(u))
	return nil
}

func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// setStatus transitions the lifecycle state and emits the status event
func (u *User) setStatus(next UserStatus) {
	previous := u.Status
	u.Status = next
	u.touch()
	u.AddDomainEvent(NewUserStatusChangedEvent(u, previous, next))
}

// Activate reinstates a locked or deactivated account
func (u *User) Activate() error {
	if u.Status == UserStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.setStatus(UserStatusActive)
	return nil
}

// Deactivate switches the account off until an admin reinstates it
func (u *User) Deactivate() error {
	if u.Status == UserStatusDeactivated {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "User is already deactivated")
	}
	u.setStatus(UserStatusDeactivated)
	return nil
}

// Lock blocks logins. A positive duration makes the lock expire on its
// own; zero locks until an explicit Unlock.
func (u *User) Lock(duration time.Duration) error {
	if u.Status == UserStatusDeactivated {
		return shared.NewDomainError("USER_DEACTIVATED", "Cannot lock a deactivated user")
	}
	if duration > 0 {
		until := time.Now().Add(duration)
		u.LockedUntil = &until
	}
	u.setStatus(UserStatusLocked)
	return nil
}

// Unlock clears the lock and the failed-attempt counter
func (u *User) Unlock() error {
	if u.Status != UserStatusLocked {
		return shared.NewDomainError("NOT_LOCKED", "User is not locked")
	}
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.setStatus(UserStatusActive)
	return nil
}

// RecordLoginSuccess resets the failure counter and stamps the login
func (u *User) RecordLoginSuccess(ip string) {
	now := time.Now()
	u.LastLoginAt = &now
	u.LastLoginIP = ip
	u.FailedAttempts = 0
	u.touch()
}

// RecordLoginFailure counts the attempt and locks the account once the
// ceiling is reached. Reports whether this attempt triggered the lock.
func (u *User) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	u.FailedAttempts++
	u.touch()

	if u.FailedAttempts >= maxAttempts {
		_ = u.Lock(lockDuration)
		return true
	}
	return false
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// IsLocked reports whether a lock is in force. An expired timed lock
// no longer counts even before the status is reset.
func (u *User) IsLocked() bool {
	if u.Status != UserStatusLocked {
		return false
	}
	if u.LockedUntil != nil && time.Now().After(*u.LockedUntil) {
		return false
	}
	return true
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// CanLogin is false for deactivated accounts and accounts under an
// active lock.
func (u *User) CanLogin() bool {
	return u.Status != UserStatusDeactivated && !u.IsLocked()
}

// GetDisplayNameOrUsername prefers the display name when set
func (u *User) GetDisplayNameOrUsername() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	case len(username) < 3:
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	case len(username) > 100:
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	case !usernamePattern.MatchString(username):
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

func validatePassword(password string) error {
	switch {
	case password == "":
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	case len(password) < 8:
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	case len(password) > 128:
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}
	if !hasLetterPattern.MatchString(password) || !hasDigitPattern.MatchString(password) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}

func validateRole(role UserRole) error {
	switch role {
	case UserRoleAdmin, UserRoleManager, UserRoleMember:
		return nil
	default:
		return shared.NewDomainError("INVALID_ROLE", "Role must be 'admin', 'manager', or 'member'")
	}
}

func validateUserEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !userEmailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

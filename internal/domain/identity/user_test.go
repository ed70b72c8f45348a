package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMemberUser builds a valid active member account for mutation tests
func newMemberUser(t *testing.T) *User {
	t.Helper()
	user, err := NewUser(uuid.New(), "testuser", "Password123", UserRoleMember)
	require.NoError(t, err)
	user.ClearDomainEvents()
	return user
}

func TestNewUser(t *testing.T) {
	tenantID := uuid.New()

	user, err := NewUser(tenantID, "testuser", "Password123", UserRoleMember)
	require.NoError(t, err)

	assert.Equal(t, tenantID, user.TenantID)
	assert.Equal(t, "testuser", user.Username)
	assert.NotEmpty(t, user.PasswordHash)
	assert.Equal(t, UserStatusActive, user.Status)
	assert.Equal(t, UserRoleMember, user.Role)

	events := user.GetDomainEvents()
	require.Len(t, events, 1)
	assert.IsType(t, &UserCreatedEvent{}, events[0])
}

func TestNewUser_NormalizesUsername(t *testing.T) {
	for _, raw := range []string{"TestUser", "  testuser  ", "TESTUSER"} {
		user, err := NewUser(uuid.New(), raw, "Password123", UserRoleMember)
		require.NoError(t, err)
		assert.Equal(t, "testuser", user.Username)
	}
}

func TestNewUser_Validation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		role     UserRole
		wantErr  string
	}{
		{"empty username", "", "Password123", UserRoleMember, "cannot be empty"},
		{"short username", "ab", "Password123", UserRoleMember, "at least 3 characters"},
		{"username with symbols", "test@user", "Password123", UserRoleMember, "only contain letters"},
		{"empty password", "testuser", "", UserRoleMember, "cannot be empty"},
		{"short password", "testuser", "Pass1", UserRoleMember, "at least 8 characters"},
		{"digits only password", "testuser", "12345678", UserRoleMember, "at least one letter"},
		{"letters only password", "testuser", "Password", UserRoleMember, "at least one letter and one number"},
		{"unknown role", "testuser", "Password123", UserRole("owner"), "Role must be"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(uuid.New(), tt.username, tt.password, tt.role)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestUser_SetEmail(t *testing.T) {
	user := newMemberUser(t)

	require.NoError(t, user.SetEmail("test@example.com"))
	assert.Equal(t, "test@example.com", user.Email)

	// Mixed case is stored lowercased
	require.NoError(t, user.SetEmail("Test@Example.COM"))
	assert.Equal(t, "test@example.com", user.Email)

	// Clearing the email is allowed
	require.NoError(t, user.SetEmail(""))
	assert.Empty(t, user.Email)

	err := user.SetEmail("invalid-email")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid email")
}

func TestUser_SetDisplayName(t *testing.T) {
	user := newMemberUser(t)

	require.NoError(t, user.SetDisplayName("Test User"))
	assert.Equal(t, "Test User", user.DisplayName)
}

func TestUser_SetRole(t *testing.T) {
	t.Run("records both roles on the change event", func(t *testing.T) {
		user := newMemberUser(t)

		require.NoError(t, user.SetRole(UserRoleManager))
		assert.Equal(t, UserRoleManager, user.Role)

		events := user.GetDomainEvents()
		require.Len(t, events, 1)
		event, ok := events[0].(*UserRoleChangedEvent)
		require.True(t, ok)
		assert.Equal(t, UserRoleMember, event.OldRole)
		assert.Equal(t, UserRoleManager, event.NewRole)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		user := newMemberUser(t)
		assert.Error(t, user.SetRole(UserRole("superuser")))
	})

	t.Run("IsAdmin follows the role", func(t *testing.T) {
		user, err := NewUser(uuid.New(), "adminuser", "Password123", UserRoleAdmin)
		require.NoError(t, err)
		assert.True(t, user.IsAdmin())

		require.NoError(t, user.SetRole(UserRoleMember))
		assert.False(t, user.IsAdmin())
	})
}

func TestUser_VerifyPassword(t *testing.T) {
	user := newMemberUser(t)

	assert.True(t, user.VerifyPassword("Password123"))
	assert.False(t, user.VerifyPassword("WrongPassword1"))
}

func TestUser_ChangePassword(t *testing.T) {
	t.Run("rotates with correct current password", func(t *testing.T) {
		user := newMemberUser(t)

		require.NoError(t, user.ChangePassword("Password123", "NewPassword456"))
		assert.True(t, user.VerifyPassword("NewPassword456"))
		assert.False(t, user.VerifyPassword("Password123"))

		events := user.GetDomainEvents()
		require.Len(t, events, 1)
		assert.IsType(t, &UserPasswordChangedEvent{}, events[0])
	})

	t.Run("rejects wrong current password", func(t *testing.T) {
		user := newMemberUser(t)

		err := user.ChangePassword("WrongPassword1", "NewPassword456")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "incorrect")
	})
}

func TestUser_SetPassword(t *testing.T) {
	// Admin resets skip the current-password check
	user := newMemberUser(t)

	require.NoError(t, user.SetPassword("NewPassword456"))
	assert.True(t, user.VerifyPassword("NewPassword456"))
}

func TestUser_StatusTransitions(t *testing.T) {
	t.Run("activate is rejected when already active", func(t *testing.T) {
		user := newMemberUser(t)

		err := user.Activate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already active")
	})

	t.Run("deactivate emits a status change event", func(t *testing.T) {
		user := newMemberUser(t)

		require.NoError(t, user.Deactivate())
		assert.Equal(t, UserStatusDeactivated, user.Status)

		events := user.GetDomainEvents()
		require.Len(t, events, 1)
		event, ok := events[0].(*UserStatusChangedEvent)
		require.True(t, ok)
		assert.Equal(t, UserStatusActive, event.OldStatus)
		assert.Equal(t, UserStatusDeactivated, event.NewStatus)
	})

	t.Run("deactivate is rejected when already deactivated", func(t *testing.T) {
		user := newMemberUser(t)
		require.NoError(t, user.Deactivate())

		err := user.Deactivate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already deactivated")
	})

	t.Run("deactivated account can be reactivated", func(t *testing.T) {
		user := newMemberUser(t)
		require.NoError(t, user.Deactivate())

		require.NoError(t, user.Activate())
		assert.Equal(t, UserStatusActive, user.Status)
	})
}

func TestUser_Lock(t *testing.T) {
	t.Run("timed lock sets the expiry", func(t *testing.T) {
		user := newMemberUser(t)

		require.NoError(t, user.Lock(time.Hour))
		assert.Equal(t, UserStatusLocked, user.Status)
		assert.NotNil(t, user.LockedUntil)
		assert.True(t, user.IsLocked())
	})

	t.Run("zero duration locks indefinitely", func(t *testing.T) {
		user := newMemberUser(t)

		require.NoError(t, user.Lock(0))
		assert.Equal(t, UserStatusLocked, user.Status)
		assert.Nil(t, user.LockedUntil)
		assert.True(t, user.IsLocked())
	})

	t.Run("deactivated account cannot be locked", func(t *testing.T) {
		user := newMemberUser(t)
		require.NoError(t, user.Deactivate())

		assert.Error(t, user.Lock(time.Hour))
	})

	t.Run("unlock restores active status", func(t *testing.T) {
		user := newMemberUser(t)
		require.NoError(t, user.Lock(time.Hour))

		require.NoError(t, user.Unlock())
		assert.Equal(t, UserStatusActive, user.Status)
		assert.Nil(t, user.LockedUntil)
		assert.False(t, user.IsLocked())
	})

	t.Run("unlock is rejected on an unlocked account", func(t *testing.T) {
		user := newMemberUser(t)
		assert.Error(t, user.Unlock())
	})
}

func TestUser_RecordLoginSuccess(t *testing.T) {
	user := newMemberUser(t)
	user.FailedAttempts = 3

	user.RecordLoginSuccess("192.168.1.1")

	assert.NotNil(t, user.LastLoginAt)
	assert.Equal(t, "192.168.1.1", user.LastLoginIP)
	assert.Zero(t, user.FailedAttempts)
}

func TestUser_RecordLoginFailure(t *testing.T) {
	user := newMemberUser(t)
	const maxAttempts = 5

	for i := range maxAttempts - 1 {
		locked := user.RecordLoginFailure(maxAttempts, time.Hour)
		assert.False(t, locked)
		assert.Equal(t, i+1, user.FailedAttempts)
	}

	locked := user.RecordLoginFailure(maxAttempts, time.Hour)
	assert.True(t, locked)
	assert.True(t, user.IsLocked())
}

func TestUser_CanLogin(t *testing.T) {
	t.Run("active account", func(t *testing.T) {
		assert.True(t, newMemberUser(t).CanLogin())
	})

	t.Run("deactivated account", func(t *testing.T) {
		user := newMemberUser(t)
		require.NoError(t, user.Deactivate())
		assert.False(t, user.CanLogin())
	})

	t.Run("locked account", func(t *testing.T) {
		user := newMemberUser(t)
		require.NoError(t, user.Lock(time.Hour))
		assert.False(t, user.CanLogin())
	})

	t.Run("expired lock no longer blocks login", func(t *testing.T) {
		user := newMemberUser(t)
		user.Status = UserStatusLocked
		pastTime := time.Now().Add(-time.Hour)
		user.LockedUntil = &pastTime

		assert.False(t, user.IsLocked())
		assert.True(t, user.CanLogin())
	})
}

func TestUser_GetDisplayNameOrUsername(t *testing.T) {
	user := newMemberUser(t)
	assert.Equal(t, "testuser", user.GetDisplayNameOrUsername())

	require.NoError(t, user.SetDisplayName("Test User"))
	assert.Equal(t, "Test User", user.GetDisplayNameOrUsername())
}

func TestUser_TableName(t *testing.T) {
	assert.Equal(t, "users", User{}.TableName())
}

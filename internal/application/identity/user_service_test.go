package identity

import (
	"context"
	"testing"

	"github.com/bizsuite/backend/internal/domain/identity"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUserTestService(tenantRepo *MockTenantRepository, userRepo *MockUserRepository) *UserService {
	return NewUserService(tenantRepo, userRepo, zap.NewNop())
}

func createUserTestTenant(t *testing.T) *identity.Tenant {
	t.Helper()
	tenant, err := identity.NewTenant("ACME", "Acme Corp")
	require.NoError(t, err)
	return tenant
}

func strPtr(s string) *string {
	return &s
}

func TestUserService_Create_Success(t *testing.T) {
	mockTenantRepo := new(MockTenantRepository)
	mockUserRepo := new(MockUserRepository)
	service := newUserTestService(mockTenantRepo, mockUserRepo)

	ctx := context.Background()
	tenant := createUserTestTenant(t)

	mockTenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	mockUserRepo.On("CountForTenant", ctx, tenant.ID, shared.Filter{}).Return(int64(1), nil)
	mockUserRepo.On("ExistsByUsername", ctx, tenant.ID, "jdoe").Return(false, nil)
	mockUserRepo.On("ExistsByEmail", ctx, tenant.ID, "jdoe@acme.test").Return(false, nil)
	mockUserRepo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

	result, err := service.Create(ctx, tenant.ID, CreateUserRequest{
		Username:    "jdoe",
		Password:    "s3cret-pass",
		Email:       "jdoe@acme.test",
		DisplayName: "Jane Doe",
		Role:        "member",
	})

	require.NoError(t, err)
	assert.Equal(t, "jdoe", result.Username)
	assert.Equal(t, "jdoe@acme.test", result.Email)
	assert.Equal(t, "Jane Doe", result.DisplayName)
	assert.Equal(t, "member", result.Role)
	assert.Equal(t, tenant.ID, result.TenantID)
	mockTenantRepo.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

func TestUserService_Create_UserLimitReached(t *testing.T) {
	mockTenantRepo := new(MockTenantRepository)
	mockUserRepo := new(MockUserRepository)
	service := newUserTestService(mockTenantRepo, mockUserRepo)

	ctx := context.Background()
	tenant := createUserTestTenant(t)
	// Free plan allows 5 users
	require.Equal(t, identity.TenantPlanFree, tenant.Plan)

	mockTenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	mockUserRepo.On("CountForTenant", ctx, tenant.ID, shared.Filter{}).Return(int64(5), nil)

	_, err := service.Create(ctx, tenant.ID, CreateUserRequest{
		Username: "jdoe",
		Password: "s3cret-pass",
		Role:     "member",
	})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "USER_LIMIT_REACHED", domainErr.Code)
	mockUserRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUserService_Create_UnlimitedPlanIgnoresCap(t *testing.T) {
	mockTenantRepo := new(MockTenantRepository)
	mockUserRepo := new(MockUserRepository)
	service := newUserTestService(mockTenantRepo, mockUserRepo)

	ctx := context.Background()
	tenant := createUserTestTenant(t)
	require.NoError(t, tenant.SetPlan(identity.TenantPlanEnterprise))

	mockTenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	mockUserRepo.On("CountForTenant", ctx, tenant.ID, shared.Filter{}).Return(int64(10000), nil)
	mockUserRepo.On("ExistsByUsername", ctx, tenant.ID, "jdoe").Return(false, nil)
	mockUserRepo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

	_, err := service.Create(ctx, tenant.ID, CreateUserRequest{
		Username: "jdoe",
		Password: "s3cret-pass",
		Role:     "member",
	})

	assert.NoError(t, err)
	mockUserRepo.AssertExpectations(t)
}

func TestUserService_Create_DuplicateUsername(t *testing.T) {
	mockTenantRepo := new(MockTenantRepository)
	mockUserRepo := new(MockUserRepository)
	service := newUserTestService(mockTenantRepo, mockUserRepo)

	ctx := context.Background()
	tenant := createUserTestTenant(t)

	mockTenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	mockUserRepo.On("CountForTenant", ctx, tenant.ID, shared.Filter{}).Return(int64(1), nil)
	mockUserRepo.On("ExistsByUsername", ctx, tenant.ID, "jdoe").Return(true, nil)

	_, err := service.Create(ctx, tenant.ID, CreateUserRequest{
		Username: "jdoe",
		Password: "s3cret-pass",
		Role:     "member",
	})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	mockUserRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUserService_Update_DemoteLastAdminRejected(t *testing.T) {
	mockTenantRepo := new(MockTenantRepository)
	mockUserRepo := new(MockUserRepository)
	service := newUserTestService(mockTenantRepo, mockUserRepo)

	ctx := context.Background()
	tenantID := uuid.New()
	admin, err := identity.NewUser(tenantID, "admin", "admin-pass1", identity.UserRoleAdmin)
	require.NoError(t, err)

	mockUserRepo.On("FindByIDForTenant", ctx, tenantID, admin.ID).Return(admin, nil)
	mockUserRepo.On("CountByRole", ctx, tenantID, identity.UserRoleAdmin).Return(int64(1), nil)

	_, err = service.Update(ctx, tenantID, admin.ID, UpdateUserRequest{Role: strPtr("member")})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "LAST_ADMIN", domainErr.Code)
	assert.Equal(t, identity.UserRoleAdmin, admin.Role)
	mockUserRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUserService_Update_DemoteAdminWithAnotherAdmin(t *testing.T) {
	mockTenantRepo := new(MockTenantRepository)
	mockUserRepo := new(MockUserRepository)
	service := newUserTestService(mockTenantRepo, mockUserRepo)

	ctx := context.Background()
	tenantID := uuid.New()
	admin, err := identity.NewUser(tenantID, "admin", "admin-pass1", identity.UserRoleAdmin)
	require.NoError(t, err)

	mockUserRepo.On("FindByIDForTenant", ctx, tenantID, admin.ID).Return(admin, nil)
	mockUserRepo.On("CountByRole", ctx, tenantID, identity.UserRoleAdmin).Return(int64(2), nil)
	mockUserRepo.On("Save", ctx, admin).Return(nil)

	result, err := service.Update(ctx, tenantID, admin.ID, UpdateUserRequest{Role: strPtr("manager")})

	require.NoError(t, err)
	assert.Equal(t, "manager", result.Role)
	mockUserRepo.AssertExpectations(t)
}

func TestUserService_Update_Profile(t *testing.T) {
	mockTenantRepo := new(MockTenantRepository)
	mockUserRepo := new(MockUserRepository)
	service := newUserTestService(mockTenantRepo, mockUserRepo)

	ctx := context.Background()
	tenantID := uuid.New()
	user, err := identity.NewUser(tenantID, "jdoe", "s3cret-pass", identity.UserRoleMember)
	require.NoError(t, err)

	mockUserRepo.On("FindByIDForTenant", ctx, tenantID, user.ID).Return(user, nil)
	mockUserRepo.On("ExistsByEmail", ctx, tenantID, "new@acme.test").Return(false, nil)
	mockUserRepo.On("Save", ctx, user).Return(nil)

	result, err := service.Update(ctx, tenantID, user.ID, UpdateUserRequest{
		Email:       strPtr("new@acme.test"),
		DisplayName: strPtr("Jane Doe"),
	})

	require.NoError(t, err)
	assert.Equal(t, "new@acme.test", result.Email)
	assert.Equal(t, "Jane Doe", result.DisplayName)
	assert.Equal(t, "member", result.Role)
	mockUserRepo.AssertExpectations(t)
}

func TestUserService_ResetPassword(t *testing.T) {
	mockTenantRepo := new(MockTenantRepository)
	mockUserRepo := new(MockUserRepository)
	service := newUserTestService(mockTenantRepo, mockUserRepo)

	ctx := context.Background()
	tenantID := uuid.New()
	user, err := identity.NewUser(tenantID, "jdoe", "s3cret-pass", identity.UserRoleMember)
	require.NoError(t, err)

	mockUserRepo.On("FindByIDForTenant", ctx, tenantID, user.ID).Return(user, nil)
	mockUserRepo.On("Save", ctx, user).Return(nil)

	err = service.ResetPassword(ctx, tenantID, user.ID, "n3w-secret-pass")

	require.NoError(t, err)
	assert.True(t, user.VerifyPassword("n3w-secret-pass"))
	assert.False(t, user.VerifyPassword("s3cret-pass"))
	mockUserRepo.AssertExpectations(t)
}

func TestUserService_Deactivate_LastAdminRejected(t *testing.T) {
	mockTenantRepo := new(MockTenantRepository)
	mockUserRepo := new(MockUserRepository)
	service := newUserTestService(mockTenantRepo, mockUserRepo)

	ctx := context.Background()
	tenantID := uuid.New()
	admin, err := identity.NewUser(tenantID, "admin", "admin-pass1", identity.UserRoleAdmin)
	require.NoError(t, err)

	mockUserRepo.On("FindByIDForTenant", ctx, tenantID, admin.ID).Return(admin, nil)
	mockUserRepo.On("CountByRole", ctx, tenantID, identity.UserRoleAdmin).Return(int64(1), nil)

	_, err = service.Deactivate(ctx, tenantID, admin.ID)

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "LAST_ADMIN", domainErr.Code)
	assert.Equal(t, identity.UserStatusActive, admin.Status)
}

func TestUserService_Unlock(t *testing.T) {
	mockTenantRepo := new(MockTenantRepository)
	mockUserRepo := new(MockUserRepository)
	service := newUserTestService(mockTenantRepo, mockUserRepo)

	ctx := context.Background()
	tenantID := uuid.New()
	user, err := identity.NewUser(tenantID, "jdoe", "s3cret-pass", identity.UserRoleMember)
	require.NoError(t, err)
	require.NoError(t, user.Lock(0))

	mockUserRepo.On("FindByIDForTenant", ctx, tenantID, user.ID).Return(user, nil)
	mockUserRepo.On("Save", ctx, user).Return(nil)

	result, err := service.Unlock(ctx, tenantID, user.ID)

	require.NoError(t, err)
	assert.Equal(t, string(identity.UserStatusActive), result.Status)
	assert.Equal(t, 0, result.FailedAttempts)
	mockUserRepo.AssertExpectations(t)
}

func TestUserService_Delete_LastAdminRejected(t *testing.T) {
	mockTenantRepo := new(MockTenantRepository)
	mockUserRepo := new(MockUserRepository)
	service := newUserTestService(mockTenantRepo, mockUserRepo)

	ctx := context.Background()
	tenantID := uuid.New()
	admin, err := identity.NewUser(tenantID, "admin", "admin-pass1", identity.UserRoleAdmin)
	require.NoError(t, err)

	mockUserRepo.On("FindByIDForTenant", ctx, tenantID, admin.ID).Return(admin, nil)
	mockUserRepo.On("CountByRole", ctx, tenantID, identity.UserRoleAdmin).Return(int64(1), nil)

	err = service.Delete(ctx, tenantID, admin.ID)

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "LAST_ADMIN", domainErr.Code)
	mockUserRepo.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_Delete_Member(t *testing.T) {
	mockTenantRepo := new(MockTenantRepository)
	mockUserRepo := new(MockUserRepository)
	service := newUserTestService(mockTenantRepo, mockUserRepo)

	ctx := context.Background()
	tenantID := uuid.New()
	user, err := identity.NewUser(tenantID, "jdoe", "s3cret-pass", identity.UserRoleMember)
	require.NoError(t, err)

	mockUserRepo.On("FindByIDForTenant", ctx, tenantID, user.ID).Return(user, nil)
	mockUserRepo.On("DeleteForTenant", ctx, tenantID, user.ID).Return(nil)

	err = service.Delete(ctx, tenantID, user.ID)

	assert.NoError(t, err)
	mockUserRepo.AssertExpectations(t)
}

func TestUserService_List_Filters(t *testing.T) {
	mockTenantRepo := new(MockTenantRepository)
	mockUserRepo := new(MockUserRepository)
	service := newUserTestService(mockTenantRepo, mockUserRepo)

	ctx := context.Background()
	tenantID := uuid.New()
	user, err := identity.NewUser(tenantID, "jdoe", "s3cret-pass", identity.UserRoleMember)
	require.NoError(t, err)

	expectedFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20 &&
			f.OrderBy == "username" && f.OrderDir == "asc" &&
			f.Filters["role"] == "member"
	})
	mockUserRepo.On("FindAllForTenant", ctx, tenantID, expectedFilter).Return([]identity.User{*user}, nil)
	mockUserRepo.On("CountForTenant", ctx, tenantID, expectedFilter).Return(int64(1), nil)

	results, total, err := service.List(ctx, tenantID, UserListFilter{Role: "member"})

	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, int64(1), total)
	mockUserRepo.AssertExpectations(t)
}

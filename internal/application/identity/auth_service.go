package identity

import (
	"context"
	"time"

	"github.com/bizsuite/backend/internal/domain/identity"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthServiceConfig tunes the account lockout policy
type AuthServiceConfig struct {
	MaxLoginAttempts int
	LockDuration     time.Duration
}

func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// AuthService implements login, token refresh, logout, and password
// changes. Failed lookups all surface as INVALID_CREDENTIALS so the
// response does not reveal whether a tenant or username exists.
type AuthService struct {
	tenantRepo identity.TenantRepository
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	config     AuthServiceConfig
	logger     *zap.Logger
}

func NewAuthService(
	tenantRepo identity.TenantRepository,
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		config:     config,
		logger:     logger,
	}
}

// resolveLoginUser finds the account for a login attempt. Credentials
// are scoped per tenant, so the tenant resolves first.
func (s *AuthService) resolveLoginUser(ctx context.Context, input LoginInput) (*identity.User, error) {
	tenant, err := s.tenantRepo.FindByCode(ctx, input.TenantCode)
	if err != nil {
		s.logger.Warn("Unknown tenant during login", zap.String("tenant_code", input.TenantCode))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}
	if !tenant.IsActive() {
		s.logger.Warn("Login attempt for inactive tenant", zap.String("tenant_code", input.TenantCode))
		return nil, shared.NewDomainError("TENANT_INACTIVE", "Organization account is not active")
	}

	user, err := s.userRepo.FindByUsername(ctx, tenant.ID, input.Username)
	if err != nil {
		s.logger.Warn("User not found during login", zap.String("username", input.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if !user.CanLogin() {
		if user.IsLocked() {
			s.logger.Warn("Login attempt for locked account", zap.String("username", input.Username))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later or contact support")
		}
		s.logger.Warn("Login attempt for deactivated account", zap.String("username", input.Username))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	return user, nil
}

// recordFailedPassword counts the failure and locks the account once the
// attempt budget is spent.
func (s *AuthService) recordFailedPassword(ctx context.Context, user *identity.User) error {
	locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to update user after login failure", zap.Error(err))
	}

	if locked {
		s.logger.Warn("Account locked after too many failed attempts",
			zap.String("username", user.Username),
			zap.Int("attempts", s.config.MaxLoginAttempts))
		return shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
	}

	s.logger.Warn("Invalid password attempt",
		zap.String("username", user.Username),
		zap.Int("failed_attempts", user.FailedAttempts))
	return shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
}

// Login authenticates a user within a tenant and issues a token pair
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	s.logger.Info("Login attempt",
		zap.String("tenant_code", input.TenantCode),
		zap.String("username", input.Username))

	user, err := s.resolveLoginUser(ctx, input)
	if err != nil {
		return nil, err
	}

	if !user.VerifyPassword(input.Password) {
		return nil, s.recordFailedPassword(ctx, user)
	}

	// An expired lock clears on successful authentication
	if user.Status == identity.UserStatusLocked {
		if err := user.Unlock(); err != nil {
			s.logger.Error("Failed to unlock user after expired lock", zap.Error(err))
		}
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: user.TenantID,
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	user.RecordLoginSuccess(input.IP)
	if err := s.userRepo.Save(ctx, user); err != nil {
		// The login itself succeeded; losing the audit fields is not fatal
		s.logger.Error("Failed to update user after successful login", zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("username", input.Username),
		zap.String("user_id", user.ID.String()))

	return &LoginResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		User:                  toUserInfo(user),
	}, nil
}

// RefreshToken exchanges a valid refresh token for a fresh pair. The
// account is re-checked so a deactivated user cannot keep rotating
// tokens forever.
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	refreshClaims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	userID, err := uuid.Parse(refreshClaims.UserID)
	if err != nil {
		s.logger.Error("Invalid user ID in refresh token", zap.Error(err))
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("User not found during token refresh", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	if !user.CanLogin() {
		s.logger.Warn("Token refresh for inactive user", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	tokenPair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, user.Username, string(user.Role))
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	s.logger.Info("Token refreshed", zap.String("user_id", userID.String()))

	return &RefreshTokenResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
	}, nil
}

// Logout revokes the presented access token by JTI
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("User logout",
		zap.String("user_id", input.UserID.String()),
		zap.String("tenant_id", input.TenantID.String()))

	if s.blacklist != nil && input.TokenJTI != "" {
		if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, input.TokenTTL); err != nil {
			s.logger.Error("Failed to blacklist token on logout", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to revoke session")
		}
	}
	return nil
}

// GetCurrentUser returns the profile behind the authenticated token
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	info := toUserInfo(user)
	return &info, nil
}

// ChangePassword rotates the credential and revokes every outstanding
// token so stolen sessions die with the old password.
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to update user after password change", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update password")
	}

	if s.blacklist != nil {
		ttl := s.jwtService.GetRefreshTokenExpiration()
		if err := s.blacklist.AddUserTokensToBlacklist(ctx, user.ID.String(), ttl); err != nil {
			s.logger.Error("Failed to invalidate user tokens after password change", zap.Error(err))
		}
	}

	s.logger.Info("User password changed", zap.String("user_id", input.UserID.String()))
	return nil
}

func mapTokenError(err error) error {
	switch err {
	case auth.ErrExpiredToken:
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case auth.ErrInvalidToken:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	case auth.ErrMaxRefreshExceeded:
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "Failed to validate refresh token")
	}
}

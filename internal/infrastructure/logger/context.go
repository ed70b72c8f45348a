package logger

import (
	"context"

	"go.uber.org/zap"
)

// contextKey keeps the logger package's context values collision-free
type contextKey string

const (
	// LoggerKey carries the request-scoped logger
	LoggerKey contextKey = "logger"
	// RequestIDKey carries the request correlation ID
	RequestIDKey contextKey = "request_id"
	// TenantIDKey carries the acting tenant
	TenantIDKey contextKey = "tenant_id"
	// UserIDKey carries the authenticated user
	UserIDKey contextKey = "user_id"
)

// WithContext attaches a logger to the context
func WithContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, log)
}

// FromContext returns the attached logger, or a no-op logger when the
// context carries none
func FromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return log
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID and returns a logger tagged with it
func WithRequestID(ctx context.Context, log *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	tagged := log.With(zap.String("request_id", requestID))
	return WithContext(ctx, tagged), tagged
}

// WithTenantID stores the tenant ID and returns a logger tagged with it
func WithTenantID(ctx context.Context, log *zap.Logger, tenantID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, TenantIDKey, tenantID)
	tagged := log.With(zap.String("tenant_id", tenantID))
	return WithContext(ctx, tagged), tagged
}

// WithUserID stores the user ID and returns a logger tagged with it
func WithUserID(ctx context.Context, log *zap.Logger, userID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	tagged := log.With(zap.String("user_id", userID))
	return WithContext(ctx, tagged), tagged
}

// GetRequestID reads the request ID, empty when absent
func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, RequestIDKey)
}

// GetTenantID reads the tenant ID, empty when absent
func GetTenantID(ctx context.Context) string {
	return stringValue(ctx, TenantIDKey)
}

// GetUserID reads the user ID, empty when absent
func GetUserID(ctx context.Context) string {
	return stringValue(ctx, UserIDKey)
}

func stringValue(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

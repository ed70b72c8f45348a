// Package config loads application settings from config.toml with
// SUITE_-prefixed environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root of all application settings
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Auth      AuthConfig
	Cookie    CookieConfig
	Log       LogConfig
	Event     EventConfig
	HTTP      HTTPConfig
	Scheduler SchedulerConfig
	Insight   InsightConfig
	Storage   StorageConfig
	Swagger   SwaggerConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Name string
	Env  string
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns int
	MaxIdleConns int
	// Lifetimes are in minutes
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

// DSN renders a postgres connection URL. User and password are
// URL-escaped so punctuation in credentials survives.
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret                 string
	RefreshSecret          string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
	MaxRefreshCount        int
}

// AuthConfig controls login brute-force protection
type AuthConfig struct {
	MaxLoginAttempts int
	LockDuration     time.Duration
}

// CookieConfig shapes the refresh token cookie
type CookieConfig struct {
	Domain   string
	Path     string
	Secure   bool
	SameSite string // strict, lax or none
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or a file path
}

// EventConfig sizes the async domain event dispatcher
type EventConfig struct {
	AsyncEnabled bool
	BufferSize   int
	WorkerCount  int
}

type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	MaxBodySize    int64

	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	// The auth endpoints get their own, stricter budget
	AuthRateLimitEnabled  bool
	AuthRateLimitRequests int
	AuthRateLimitWindow   time.Duration

	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

type SchedulerConfig struct {
	Enabled           bool
	MetricRollupCron  string
	InsightCron       string
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
}

// InsightConfig tunes the metric rollup and alerting thresholds
type InsightConfig struct {
	MetricRetention    time.Duration
	RollupWindow       time.Duration
	AlertWarningRatio  float64
	AlertCriticalRatio float64
}

// StorageConfig points at the S3-compatible bucket for receipt uploads
type StorageConfig struct {
	Endpoint          string
	Region            string
	Bucket            string
	AccessKey         string
	SecretKey         string
	UseSSL            bool
	PresignExpiration time.Duration
}

type SwaggerConfig struct {
	Enabled     bool
	RequireAuth bool
	AllowedIPs  []string
}

type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool

	DBTraceEnabled    bool
	DBLogFullSQL      bool
	DBSlowQueryThresh time.Duration
}

// Load reads configuration in ascending priority: built-in defaults,
// then config.toml, then SUITE_-prefixed environment variables
// (SUITE_DATABASE_PASSWORD overrides database.password).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		// Running on defaults and environment alone is supported
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("SUITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App:       loadApp(v),
		Database:  loadDatabase(v),
		Redis:     loadRedis(v),
		JWT:       loadJWT(v),
		Auth:      loadAuth(v),
		Cookie:    loadCookie(v),
		Log:       loadLog(v),
		Event:     loadEvent(v),
		HTTP:      loadHTTP(v),
		Scheduler: loadScheduler(v),
		Insight:   loadInsight(v),
		Storage:   loadStorage(v),
		Swagger:   loadSwagger(v),
		Telemetry: loadTelemetry(v),
	}
	cfg.fillDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadApp(v *viper.Viper) AppConfig {
	return AppConfig{
		Name: v.GetString("app.name"),
		Env:  v.GetString("app.env"),
		Port: v.GetString("app.port"),
	}
}

func loadDatabase(v *viper.Viper) DatabaseConfig {
	return DatabaseConfig{
		Host:            v.GetString("database.host"),
		Port:            v.GetInt("database.port"),
		User:            v.GetString("database.user"),
		Password:        v.GetString("database.password"),
		DBName:          v.GetString("database.dbname"),
		SSLMode:         v.GetString("database.sslmode"),
		MaxOpenConns:    v.GetInt("database.max_open_conns"),
		MaxIdleConns:    v.GetInt("database.max_idle_conns"),
		ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
		ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
	}
}

func loadRedis(v *viper.Viper) RedisConfig {
	return RedisConfig{
		Host:     v.GetString("redis.host"),
		Port:     v.GetInt("redis.port"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
}

func loadJWT(v *viper.Viper) JWTConfig {
	return JWTConfig{
		Secret:                 v.GetString("jwt.secret"),
		RefreshSecret:          v.GetString("jwt.refresh_secret"),
		AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
		RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
		Issuer:                 v.GetString("jwt.issuer"),
		MaxRefreshCount:        v.GetInt("jwt.max_refresh_count"),
	}
}

func loadAuth(v *viper.Viper) AuthConfig {
	return AuthConfig{
		MaxLoginAttempts: v.GetInt("auth.max_login_attempts"),
		LockDuration:     v.GetDuration("auth.lock_duration"),
	}
}

func loadCookie(v *viper.Viper) CookieConfig {
	return CookieConfig{
		Domain:   v.GetString("cookie.domain"),
		Path:     v.GetString("cookie.path"),
		Secure:   v.GetBool("cookie.secure"),
		SameSite: v.GetString("cookie.same_site"),
	}
}

func loadLog(v *viper.Viper) LogConfig {
	return LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
		Output: v.GetString("log.output"),
	}
}

func loadEvent(v *viper.Viper) EventConfig {
	return EventConfig{
		AsyncEnabled: v.GetBool("event.async_enabled"),
		BufferSize:   v.GetInt("event.buffer_size"),
		WorkerCount:  v.GetInt("event.worker_count"),
	}
}

func loadHTTP(v *viper.Viper) HTTPConfig {
	return HTTPConfig{
		ReadTimeout:           v.GetDuration("http.read_timeout"),
		WriteTimeout:          v.GetDuration("http.write_timeout"),
		IdleTimeout:           v.GetDuration("http.idle_timeout"),
		MaxHeaderBytes:        v.GetInt("http.max_header_bytes"),
		MaxBodySize:           v.GetInt64("http.max_body_size"),
		RateLimitEnabled:      v.GetBool("http.rate_limit_enabled"),
		RateLimitRequests:     v.GetInt("http.rate_limit_requests"),
		RateLimitWindow:       v.GetDuration("http.rate_limit_window"),
		AuthRateLimitEnabled:  v.GetBool("http.auth_rate_limit_enabled"),
		AuthRateLimitRequests: v.GetInt("http.auth_rate_limit_requests"),
		AuthRateLimitWindow:   v.GetDuration("http.auth_rate_limit_window"),
		CORSAllowOrigins:      v.GetStringSlice("http.cors_allow_origins"),
		CORSAllowMethods:      v.GetStringSlice("http.cors_allow_methods"),
		CORSAllowHeaders:      v.GetStringSlice("http.cors_allow_headers"),
		TrustedProxies:        v.GetStringSlice("http.trusted_proxies"),
	}
}

func loadScheduler(v *viper.Viper) SchedulerConfig {
	return SchedulerConfig{
		Enabled:           v.GetBool("scheduler.enabled"),
		MetricRollupCron:  v.GetString("scheduler.metric_rollup_cron"),
		InsightCron:       v.GetString("scheduler.insight_cron"),
		MaxConcurrentJobs: v.GetInt("scheduler.max_concurrent_jobs"),
		JobTimeout:        v.GetDuration("scheduler.job_timeout"),
		RetryAttempts:     v.GetInt("scheduler.retry_attempts"),
		RetryDelay:        v.GetDuration("scheduler.retry_delay"),
	}
}

func loadInsight(v *viper.Viper) InsightConfig {
	return InsightConfig{
		MetricRetention:    v.GetDuration("insight.metric_retention"),
		RollupWindow:       v.GetDuration("insight.rollup_window"),
		AlertWarningRatio:  v.GetFloat64("insight.alert_warning_ratio"),
		AlertCriticalRatio: v.GetFloat64("insight.alert_critical_ratio"),
	}
}

func loadStorage(v *viper.Viper) StorageConfig {
	return StorageConfig{
		Endpoint:          v.GetString("storage.endpoint"),
		Region:            v.GetString("storage.region"),
		Bucket:            v.GetString("storage.bucket"),
		AccessKey:         v.GetString("storage.access_key"),
		SecretKey:         v.GetString("storage.secret_key"),
		UseSSL:            v.GetBool("storage.use_ssl"),
		PresignExpiration: v.GetDuration("storage.presign_expiration"),
	}
}

func loadSwagger(v *viper.Viper) SwaggerConfig {
	return SwaggerConfig{
		Enabled:     v.GetBool("swagger.enabled"),
		RequireAuth: v.GetBool("swagger.require_auth"),
		AllowedIPs:  v.GetStringSlice("swagger.allowed_ips"),
	}
}

func loadTelemetry(v *viper.Viper) TelemetryConfig {
	return TelemetryConfig{
		Enabled:           v.GetBool("telemetry.enabled"),
		CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
		SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
		ServiceName:       v.GetString("telemetry.service_name"),
		Insecure:          v.GetBool("telemetry.insecure"),
		DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
		DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
		DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
	}
}

func fallbackString(target *string, value string) {
	if *target == "" {
		*target = value
	}
}

func fallbackInt(target *int, value int) {
	if *target == 0 {
		*target = value
	}
}

func fallbackInt64(target *int64, value int64) {
	if *target == 0 {
		*target = value
	}
}

func fallbackDuration(target *time.Duration, value time.Duration) {
	if *target == 0 {
		*target = value
	}
}

func fallbackFloat(target *float64, value float64) {
	if *target == 0 {
		*target = value
	}
}

func fallbackSlice(target *[]string, value []string) {
	if len(*target) == 0 {
		*target = value
	}
}

// fillDefaults treats zero values as unset. Booleans keep their
// zero value: everything optional is off until enabled.
func (c *Config) fillDefaults() {
	fallbackString(&c.App.Name, "suite-backend")
	fallbackString(&c.App.Env, "development")
	fallbackString(&c.App.Port, "8080")

	fallbackString(&c.Database.Host, "localhost")
	fallbackInt(&c.Database.Port, 5432)
	fallbackString(&c.Database.User, "postgres")
	fallbackString(&c.Database.DBName, "bizsuite")
	fallbackString(&c.Database.SSLMode, "disable")
	fallbackInt(&c.Database.MaxOpenConns, 25)
	fallbackInt(&c.Database.MaxIdleConns, 5)
	fallbackInt(&c.Database.ConnMaxLifetime, 60)
	fallbackInt(&c.Database.ConnMaxIdleTime, 30)

	fallbackString(&c.Redis.Host, "localhost")
	fallbackInt(&c.Redis.Port, 6379)

	fallbackDuration(&c.JWT.AccessTokenExpiration, 15*time.Minute)
	fallbackDuration(&c.JWT.RefreshTokenExpiration, 168*time.Hour)
	fallbackString(&c.JWT.Issuer, "suite-backend")
	fallbackInt(&c.JWT.MaxRefreshCount, 10)

	fallbackInt(&c.Auth.MaxLoginAttempts, 5)
	fallbackDuration(&c.Auth.LockDuration, 15*time.Minute)

	fallbackString(&c.Cookie.Path, "/")
	fallbackString(&c.Cookie.SameSite, "lax")

	fallbackString(&c.Log.Level, "info")
	fallbackString(&c.Log.Format, "console")
	fallbackString(&c.Log.Output, "stdout")

	fallbackInt(&c.Event.BufferSize, 256)
	fallbackInt(&c.Event.WorkerCount, 4)

	fallbackDuration(&c.HTTP.ReadTimeout, 15*time.Second)
	fallbackDuration(&c.HTTP.WriteTimeout, 15*time.Second)
	fallbackDuration(&c.HTTP.IdleTimeout, time.Minute)
	fallbackInt(&c.HTTP.MaxHeaderBytes, 1<<20)
	fallbackInt64(&c.HTTP.MaxBodySize, 10<<20)
	fallbackInt(&c.HTTP.RateLimitRequests, 100)
	fallbackDuration(&c.HTTP.RateLimitWindow, time.Minute)
	fallbackInt(&c.HTTP.AuthRateLimitRequests, 5)
	fallbackDuration(&c.HTTP.AuthRateLimitWindow, time.Minute)
	// CORSAllowOrigins deliberately has no fallback. Until origins are
	// configured, no cross-origin request is allowed.
	fallbackSlice(&c.HTTP.CORSAllowMethods, []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"})
	fallbackSlice(&c.HTTP.CORSAllowHeaders, []string{"Content-Type", "Authorization", "X-Request-ID", "X-Tenant-ID"})

	fallbackString(&c.Scheduler.MetricRollupCron, "0 * * * *")
	fallbackString(&c.Scheduler.InsightCron, "0 6 * * *")
	fallbackInt(&c.Scheduler.MaxConcurrentJobs, 3)
	fallbackDuration(&c.Scheduler.JobTimeout, 30*time.Minute)
	fallbackInt(&c.Scheduler.RetryAttempts, 3)
	fallbackDuration(&c.Scheduler.RetryDelay, 5*time.Minute)

	fallbackDuration(&c.Insight.MetricRetention, 30*24*time.Hour)
	fallbackDuration(&c.Insight.RollupWindow, time.Hour)
	fallbackFloat(&c.Insight.AlertWarningRatio, 1.5)
	fallbackFloat(&c.Insight.AlertCriticalRatio, 2.0)

	fallbackString(&c.Storage.Region, "us-east-1")
	fallbackString(&c.Storage.Bucket, "suite-receipts")
	fallbackDuration(&c.Storage.PresignExpiration, 15*time.Minute)

	fallbackString(&c.Telemetry.CollectorEndpoint, "localhost:4317")
	fallbackFloat(&c.Telemetry.SamplingRatio, 1.0)
	fallbackString(&c.Telemetry.ServiceName, "suite-backend")
	fallbackDuration(&c.Telemetry.DBSlowQueryThresh, 200*time.Millisecond)
}

func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return errors.New("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return errors.New("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if ratio := c.Telemetry.SamplingRatio; ratio < 0.0 || ratio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", ratio)
	}

	if c.Insight.AlertCriticalRatio <= c.Insight.AlertWarningRatio {
		return fmt.Errorf("insight.alert_critical_ratio (%f) must exceed insight.alert_warning_ratio (%f)",
			c.Insight.AlertCriticalRatio, c.Insight.AlertWarningRatio)
	}

	if c.App.Env == "production" {
		return c.validateProduction()
	}
	return nil
}

// validateProduction refuses configurations that would weaken the
// deployment: unset or short secrets, plaintext database links,
// insecure cookies, wildcard CORS, and an unprotected swagger surface.
func (c *Config) validateProduction() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required in production")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("jwt.secret must be at least 32 characters in production")
	}
	if c.Database.Password == "" {
		return errors.New("database.password is required in production")
	}
	if c.Database.SSLMode == "disable" {
		return errors.New("database.sslmode cannot be 'disable' in production")
	}
	// The refresh token rides on a cookie, so HTTPS is mandatory
	if !c.Cookie.Secure {
		return errors.New("cookie.secure must be true in production (HTTPS required for secure cookies)")
	}
	for _, origin := range c.HTTP.CORSAllowOrigins {
		if origin == "*" {
			return errors.New("cors_allow_origins cannot be '*' in production (use specific origins)")
		}
	}
	if c.Swagger.Enabled && !c.Swagger.RequireAuth && len(c.Swagger.AllowedIPs) == 0 {
		return errors.New("swagger endpoint must be disabled, require authentication, or have IP restriction in production")
	}
	// Full SQL statements in traces leak tenant data
	if c.Telemetry.DBLogFullSQL {
		return errors.New("telemetry.db_log_full_sql must be false in production to prevent sensitive data exposure in traces")
	}
	return nil
}

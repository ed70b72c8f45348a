package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every override the tests touch so each subtest
// starts from built-in defaults. t.Setenv restores the originals.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SUITE_APP_NAME", "SUITE_APP_ENV", "SUITE_APP_PORT",
		"SUITE_DATABASE_HOST", "SUITE_DATABASE_PORT", "SUITE_DATABASE_USER",
		"SUITE_DATABASE_PASSWORD", "SUITE_DATABASE_DBNAME", "SUITE_DATABASE_SSLMODE",
		"SUITE_DATABASE_MAX_OPEN_CONNS", "SUITE_DATABASE_MAX_IDLE_CONNS",
		"SUITE_JWT_SECRET", "SUITE_COOKIE_SECURE",
		"SUITE_SWAGGER_ENABLED", "SUITE_SWAGGER_REQUIRE_AUTH", "SUITE_SWAGGER_ALLOWED_IPS",
		"APP_ENV",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "suite-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Empty(t, cfg.Database.Password)
	assert.Equal(t, "bizsuite", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins, "cross-origin requests stay off until configured")
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SUITE_APP_NAME", "suite-under-test")
	t.Setenv("SUITE_APP_PORT", "9000")
	t.Setenv("SUITE_DATABASE_HOST", "pg.internal")
	t.Setenv("SUITE_DATABASE_PORT", "5433")
	t.Setenv("SUITE_DATABASE_USER", "suite")
	t.Setenv("SUITE_DATABASE_PASSWORD", "hunter-two")
	t.Setenv("SUITE_DATABASE_DBNAME", "suite_test")
	t.Setenv("SUITE_DATABASE_SSLMODE", "require")
	t.Setenv("SUITE_DATABASE_MAX_OPEN_CONNS", "50")
	t.Setenv("SUITE_DATABASE_MAX_IDLE_CONNS", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "suite-under-test", cfg.App.Name)
	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "pg.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "suite", cfg.Database.User)
	assert.Equal(t, "hunter-two", cfg.Database.Password)
	assert.Equal(t, "suite_test", cfg.Database.DBName)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10, cfg.Database.MaxIdleConns)
}

func TestLoad_PoolValidation(t *testing.T) {
	t.Run("idle above open is rejected", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SUITE_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("SUITE_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("negative idle is rejected", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SUITE_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("explicit zero open conns falls back to default", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SUITE_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})
}

// productionBase satisfies every production requirement. Individual
// tests break one rule at a time.
func productionBase(t *testing.T) {
	t.Helper()
	clearEnv(t)
	t.Setenv("SUITE_APP_ENV", "production")
	t.Setenv("SUITE_JWT_SECRET", "a-production-grade-secret-with-32-chars!")
	t.Setenv("SUITE_DATABASE_PASSWORD", "prod-password")
	t.Setenv("SUITE_DATABASE_SSLMODE", "require")
	t.Setenv("SUITE_COOKIE_SECURE", "true")
	t.Setenv("SUITE_SWAGGER_ENABLED", "false")
}

func TestLoad_ProductionGuards(t *testing.T) {
	t.Run("well-formed production config loads", func(t *testing.T) {
		productionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})

	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing jwt secret",
			env:     map[string]string{"SUITE_JWT_SECRET": ""},
			wantErr: "jwt.secret is required in production",
		},
		{
			name:    "short jwt secret",
			env:     map[string]string{"SUITE_JWT_SECRET": "too-short"},
			wantErr: "jwt.secret must be at least 32 characters",
		},
		{
			name:    "missing database password",
			env:     map[string]string{"SUITE_DATABASE_PASSWORD": ""},
			wantErr: "database.password is required in production",
		},
		{
			name:    "plaintext database link",
			env:     map[string]string{"SUITE_DATABASE_SSLMODE": "disable"},
			wantErr: "database.sslmode cannot be 'disable' in production",
		},
		{
			name:    "insecure cookie",
			env:     map[string]string{"SUITE_COOKIE_SECURE": "false"},
			wantErr: "cookie.secure must be true in production",
		},
		{
			name: "unprotected swagger",
			env: map[string]string{
				"SUITE_SWAGGER_ENABLED":      "true",
				"SUITE_SWAGGER_REQUIRE_AUTH": "false",
			},
			wantErr: "swagger endpoint must be disabled, require authentication, or have IP restriction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			productionBase(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("swagger behind auth is allowed", func(t *testing.T) {
		productionBase(t)
		t.Setenv("SUITE_SWAGGER_ENABLED", "true")
		t.Setenv("SUITE_SWAGGER_REQUIRE_AUTH", "true")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Swagger.Enabled)
		assert.True(t, cfg.Swagger.RequireAuth)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "pg.internal",
		Port:     5432,
		User:     "suite",
		Password: "p@ss#word",
		DBName:   "bizsuite",
		SSLMode:  "require",
	}

	dsn := cfg.DSN()

	assert.Contains(t, dsn, "pg.internal:5432")
	assert.Contains(t, dsn, "/bizsuite")
	assert.Contains(t, dsn, "sslmode=require")
	// Credential punctuation must be URL-escaped
	assert.Contains(t, dsn, "p%40ss%23word")
	assert.NotContains(t, dsn, "p@ss#word")
}

func TestDatabaseConfig_DSN_EmptyPassword(t *testing.T) {
	cfg := DatabaseConfig{Host: "localhost", Port: 5432, User: "suite", DBName: "bizsuite", SSLMode: "disable"}

	assert.NotEmpty(t, cfg.DSN())
}

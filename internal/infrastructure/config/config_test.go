package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"ENVIO_APP_NAME":                os.Getenv("ENVIO_APP_NAME"),
		"ENVIO_APP_ENV":                 os.Getenv("ENVIO_APP_ENV"),
		"ENVIO_APP_PORT":                os.Getenv("ENVIO_APP_PORT"),
		"ENVIO_DATABASE_HOST":           os.Getenv("ENVIO_DATABASE_HOST"),
		"ENVIO_DATABASE_PORT":           os.Getenv("ENVIO_DATABASE_PORT"),
		"ENVIO_DATABASE_USER":           os.Getenv("ENVIO_DATABASE_USER"),
		"ENVIO_DATABASE_PASSWORD":       os.Getenv("ENVIO_DATABASE_PASSWORD"),
		"ENVIO_DATABASE_DBNAME":         os.Getenv("ENVIO_DATABASE_DBNAME"),
		"ENVIO_DATABASE_SSLMODE":        os.Getenv("ENVIO_DATABASE_SSLMODE"),
		"ENVIO_DATABASE_MAX_OPEN_CONNS": os.Getenv("ENVIO_DATABASE_MAX_OPEN_CONNS"),
		"ENVIO_DATABASE_MAX_IDLE_CONNS": os.Getenv("ENVIO_DATABASE_MAX_IDLE_CONNS"),
		"ENVIO_JWT_SECRET":              os.Getenv("ENVIO_JWT_SECRET"),
		"ENVIO_TIER_PRO_THRESHOLD":      os.Getenv("ENVIO_TIER_PRO_THRESHOLD"),
		"ENVIO_TIER_VIP_THRESHOLD":      os.Getenv("ENVIO_TIER_VIP_THRESHOLD"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "envio-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "envio", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, int64(5), cfg.Tier.ProThreshold)
		assert.Equal(t, int64(10), cfg.Tier.VipThreshold)
		assert.Equal(t, 0, cfg.Scheduler.ResetHour)
		assert.Equal(t, 5, cfg.Scheduler.ResetMinute)
		assert.Equal(t, int64(4<<20), cfg.HTTP.MaxBodySize)
		assert.Equal(t, 100, cfg.HTTP.RateLimitRequests)
		assert.Equal(t, time.Minute, cfg.HTTP.RateLimitWindow)
		assert.Equal(t, 30*time.Second, cfg.Event.HandlerTimeout)
	})

	t.Run("loads values from environment variables with ENVIO prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("ENVIO_APP_NAME", "test-app")
		os.Setenv("ENVIO_APP_ENV", "testing")
		os.Setenv("ENVIO_APP_PORT", "9000")
		os.Setenv("ENVIO_DATABASE_HOST", "testdb.local")
		os.Setenv("ENVIO_DATABASE_PORT", "5433")
		os.Setenv("ENVIO_DATABASE_USER", "testuser")
		os.Setenv("ENVIO_DATABASE_PASSWORD", "testpass")
		os.Setenv("ENVIO_DATABASE_DBNAME", "testdb")
		os.Setenv("ENVIO_DATABASE_SSLMODE", "require")
		os.Setenv("ENVIO_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("ENVIO_DATABASE_MAX_IDLE_CONNS", "10")
		os.Setenv("ENVIO_TIER_PRO_THRESHOLD", "3")
		os.Setenv("ENVIO_TIER_VIP_THRESHOLD", "7")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, int64(3), cfg.Tier.ProThreshold)
		assert.Equal(t, int64(7), cfg.Tier.VipThreshold)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("ENVIO_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("ENVIO_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv()
		os.Setenv("ENVIO_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		// 0 is treated as "not set", so default (25) is used
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		clearEnv()
		os.Setenv("ENVIO_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("validates vip threshold must exceed pro threshold", func(t *testing.T) {
		clearEnv()
		os.Setenv("ENVIO_TIER_PRO_THRESHOLD", "10")
		os.Setenv("ENVIO_TIER_VIP_THRESHOLD", "10")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "vip_threshold")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"ENVIO_APP_ENV":           os.Getenv("ENVIO_APP_ENV"),
		"ENVIO_JWT_SECRET":        os.Getenv("ENVIO_JWT_SECRET"),
		"ENVIO_DATABASE_PASSWORD": os.Getenv("ENVIO_DATABASE_PASSWORD"),
		"ENVIO_DATABASE_SSLMODE":  os.Getenv("ENVIO_DATABASE_SSLMODE"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	setValidProductionBase := func() {
		os.Setenv("ENVIO_APP_ENV", "production")
		os.Setenv("ENVIO_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		os.Setenv("ENVIO_DATABASE_PASSWORD", "secure-password")
		os.Setenv("ENVIO_DATABASE_SSLMODE", "require")
	}

	t.Run("requires jwt.secret in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("ENVIO_JWT_SECRET")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("ENVIO_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret must be at least 32 characters")
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("ENVIO_DATABASE_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("ENVIO_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "envio",
		Password: "p@ss/word",
		DBName:   "envio",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// Special characters in the password must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}

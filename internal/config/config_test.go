package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, AuthModeDemo, cfg.Auth.Mode)
	assert.Equal(t, "123456", cfg.Auth.DemoOTPCode)
	assert.Equal(t, 5*time.Minute, cfg.Auth.OTPTTL())
	assert.Equal(t, 60*time.Second, cfg.Auth.ResendCooldown())
	assert.Equal(t, 3, cfg.Auth.OTPMaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Notification.InitialDelay())
	assert.Equal(t, 5*time.Minute, cfg.Notification.Interval())
	assert.Equal(t, 100, cfg.Notification.HistoryLimit)
	assert.Equal(t, time.UTC, cfg.Notification.Location())
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_MODE", "provider")
	t.Setenv("AUTH_OTP_TTL_SECONDS", "120")
	t.Setenv("NOTIFY_TIMEZONE", "Asia/Kolkata")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUTH_SIMULATED_LATENCY_MS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, AuthModeProvider, cfg.Auth.Mode)
	assert.Equal(t, 2*time.Minute, cfg.Auth.OTPTTL())
	assert.Equal(t, "Asia/Kolkata", cfg.Notification.Location().String())
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Zero(t, cfg.Auth.SimulatedLatency())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("auth mode", func(t *testing.T) {
		t.Setenv("AUTH_MODE", "ldap")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("timezone", func(t *testing.T) {
		t.Setenv("NOTIFY_TIMEZONE", "Mars/Olympus")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("redis db", func(t *testing.T) {
		t.Setenv("REDIS_DB", "x")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestLoadEmptyDemoPasswordDisablesDemoLogin(t *testing.T) {
	t.Setenv("AUTH_DEMO_PASSWORD", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Auth.DemoPassword)
}

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdesk/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "s3", cfg.Storage.Provider)
	assert.Equal(t, "storage", cfg.Upload.Transport)
	assert.Equal(t, 500*time.Millisecond, cfg.Upload.SettleDelay)
	assert.Equal(t, 200*time.Millisecond, cfg.Upload.TickInterval)
	assert.Equal(t, "permissive", cfg.Policy.Mode)
	assert.Equal(t, "hrdesk.documents.verification", cfg.NATS.DecisionSubject)
	assert.Empty(t, cfg.NATS.URL)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HRDESK_STORAGE_PROVIDER", "MINIO")
	t.Setenv("HRDESK_UPLOAD_TRANSPORT", "simulated")
	t.Setenv("HRDESK_UPLOAD_TICK_INTERVAL", "50ms")
	t.Setenv("HRDESK_POLICY_MODE", "rbac")
	t.Setenv("HRDESK_CORS_ALLOWED_ORIGINS", "https://hr.example.com, https://admin.example.com")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "minio", cfg.Storage.Provider)
	assert.Equal(t, "simulated", cfg.Upload.Transport)
	assert.Equal(t, 50*time.Millisecond, cfg.Upload.TickInterval)
	assert.Equal(t, "rbac", cfg.Policy.Mode)
	assert.Equal(t, []string{"https://hr.example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PortFallback(t *testing.T) {
	t.Setenv("PORT", "9999")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Port)

	t.Setenv("HRDESK_SERVER_PORT", ":7000")
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Port)
}

func TestLoad_RejectsUnknownModes(t *testing.T) {
	t.Setenv("HRDESK_STORAGE_PROVIDER", "gcs")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	db := config.DBConfig{User: "u", Password: "p", Host: "h", Port: 5432, Name: "n", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/n?sslmode=disable", db.DSN())
}

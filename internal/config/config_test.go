package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "test-secret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, uint32(65536), cfg.Security.PasswordHash.Memory)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "test-secret")
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DB_PASSWORD", "hunter22")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Store.Backend)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Contains(t, cfg.Database.DSN(), "hunter22")
}

func TestLoad_YAMLFile(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "test-secret")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9999
redis:
  enabled: true
  ttl: 30s
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.True(t, cfg.Redis.Enabled)
}

func TestValidate_Failures(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "")

	_, err := Load("")
	assert.Error(t, err)

	t.Setenv("ADMIN_JWT_SECRET", "test-secret")
	t.Setenv("STORE_BACKEND", "cassandra")
	_, err = Load("")
	assert.Error(t, err)

	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DB_PASSWORD", "")
	_, err = Load("")
	assert.Error(t, err)
}

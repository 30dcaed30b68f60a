package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "5001", cfg.Server.Port)
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, DeletePolicyAllow, cfg.Integrity.DepartmentDeletePolicy)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Origins())
	assert.False(t, cfg.Auth.RequireLogin)
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := []byte(`
server:
  port: "9000"
database:
  driver: memory
  name: records_test
session:
  secret: from-file
auth:
  require_login: true
`)
	require.NoError(t, os.WriteFile(path, yml, 0o600))

	t.Setenv("PORT", "9100")
	t.Setenv("DB_CONNECT_MAX_RETRIES", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "records_test", cfg.Database.Name)
	assert.Equal(t, 3, cfg.Database.ConnectMaxRetries)
	assert.Equal(t, "from-file", cfg.Session.Secret)
	assert.True(t, cfg.Auth.RequireLogin)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Origins())
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing session secret", env: map[string]string{}},
		{name: "unknown driver", env: map[string]string{"SESSION_SECRET": "s", "DB_DRIVER": "sqlite"}},
		{name: "unknown delete policy", env: map[string]string{"SESSION_SECRET": "s", "DEPARTMENT_DELETE_POLICY": "cascade"}},
		{name: "bad session expiration", env: map[string]string{"SESSION_SECRET": "s", "SESSION_EXPIRATION": "tomorrow"}},
		{name: "bad integer", env: map[string]string{"SESSION_SECRET": "s", "DB_MAX_OPEN_CONNS": "many"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SESSION_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
			assert.Error(t, err)
		})
	}
}

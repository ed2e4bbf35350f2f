package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, 200*time.Millisecond, cfg.Database.SlowThreshold)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.True(t, cfg.Relations.AllowSelfFollow)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SOCIAL_DATABASE_DRIVER", "postgresql")
	t.Setenv("SOCIAL_DATABASE_DSN", "host=db user=u dbname=d")
	t.Setenv("SOCIAL_RELATIONS_ALLOW_SELF_FOLLOW", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "host=db user=u dbname=d", cfg.Database.PostgresDSN())
	assert.False(t, cfg.Relations.AllowSelfFollow)
}

func TestLoadFrom_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	content := []byte(`
database:
  driver: postgres
  host: pg.internal
  port: 6543
  user: social
  password: secret
  name: feed
  max_open_conns: 0
log:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns, "non-positive pool size falls back to default")
	assert.Equal(t,
		"host=pg.internal user=social password=secret dbname=feed port=6543 sslmode=disable TimeZone=UTC",
		cfg.Database.PostgresDSN())
}

func TestLoadFrom_UnknownDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  driver: oracle\n"), 0o600))

	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimal = `
jwt:
  secret: test-secret
db:
  driver: sqlite
  dsn: ":memory:"
`

func TestReadAppliesDefaults(t *testing.T) {
	c, err := Read(writeConfig(t, minimal))
	require.NoError(t, err)

	assert.Equal(t, "profile-service", c.App.Name)
	assert.Equal(t, 8080, c.App.HTTP.Port)
	assert.Equal(t, int64(300), c.App.HTTP.MaxInFlight)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "test-secret", c.JWT.Secret)
	assert.Equal(t, "profile-service", c.JWT.Issuer)
	assert.Equal(t, 60, c.JWT.AccessTokenTTLMin)
	assert.Equal(t, 60, c.JWT.LeewaySec)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.True(t, c.DB.AutoMigrate)
	assert.Equal(t, 300, c.Redis.UserTTLSec)
	assert.Empty(t, c.Redis.Addr)
}

func TestReadFileValues(t *testing.T) {
	c, err := Read(writeConfig(t, `
app:
  name: profiles
  http:
    port: 9000
log:
  level: debug
  json: true
  file:
    enable: true
    filename: /tmp/app.log
jwt:
  secret: s
  accesstokenttlmin: 5
db:
  driver: postgres
  dsn: postgres://localhost/profiles
redis:
  addr: 127.0.0.1:6379
  user_ttl_sec: 30
`))
	require.NoError(t, err)

	assert.Equal(t, "profiles", c.App.Name)
	assert.Equal(t, 9000, c.App.HTTP.Port)
	assert.Equal(t, "debug", c.Log.Level)
	assert.True(t, c.Log.JSON)
	assert.True(t, c.Log.File.Enable)
	assert.Equal(t, "/tmp/app.log", c.Log.File.Filename)
	assert.Equal(t, 5, c.JWT.AccessTokenTTLMin)
	assert.Equal(t, "127.0.0.1:6379", c.Redis.Addr)
	assert.Equal(t, 30, c.Redis.UserTTLSec)
}

func TestReadEnvOverride(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "from-env")
	t.Setenv("APP_DB_DSN", "file:env.db")

	c, err := Read(writeConfig(t, minimal))
	require.NoError(t, err)

	assert.Equal(t, "from-env", c.JWT.Secret)
	assert.Equal(t, "file:env.db", c.DB.DSN)
}

func TestReadUsesConfigPathEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, minimal))

	c, err := Read("")
	require.NoError(t, err)
	assert.Equal(t, "test-secret", c.JWT.Secret)
}

func TestReadErrors(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Read(writeConfig(t, "db:\n  driver: sqlite\n  dsn: x\n"))
	assert.ErrorContains(t, err, "jwt.secret")

	_, err = Read(writeConfig(t, "jwt:\n  secret: s\ndb:\n  driver: oracle\n  dsn: x\n"))
	assert.ErrorContains(t, err, "unsupported db.driver")

	_, err = Read(writeConfig(t, "jwt:\n  secret: s\ndb:\n  driver: sqlite\n"))
	assert.ErrorContains(t, err, "db.dsn")
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_SESSION_SECRET", "super-secret")
	path := writeConfig(t, `
app:
  name: sync-gateway
  port: 8080
store:
  host: localhost
  port: 5432
session:
  secret: ${TEST_SESSION_SECRET}
  token_expiry: 24h
  clock_skew: 30s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sync-gateway", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "super-secret", cfg.Session.Secret)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestStoreConfigGetDSN(t *testing.T) {
	c := StoreConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", c.GetDSN())
}

func TestBrokerConfigGetAddr(t *testing.T) {
	c := BrokerConfig{Host: "redis", Port: 6379}
	assert.Equal(t, "redis:6379", c.GetAddr())
}

func TestSessionConfigGetTokenExpiry(t *testing.T) {
	c := SessionConfig{TokenExpiry: "24h"}
	d, err := c.GetTokenExpiry()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, d)
}

func TestSessionConfigGetClockSkewDefaultsToZero(t *testing.T) {
	c := SessionConfig{}
	d, err := c.GetClockSkew()
	require.NoError(t, err)
	assert.Zero(t, d)
}

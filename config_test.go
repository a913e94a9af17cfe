package shadowprobe

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.defaults()

	assert.Equal(t, DefaultAuthKey, cfg.AuthKey)
	assert.Equal(t, 10, cfg.PoolSize)
	assert.Equal(t, time.Hour, cfg.CredentialTTL)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr())
	assert.Equal(t, 10, cfg.InboundBurst)
	assert.NotNil(t, cfg.newTransport)
}

func TestConfigDefaultsKeepExplicitValues(t *testing.T) {
	cfg := Config{AuthKey: "mykey", PoolSize: 3, Host: "0.0.0.0", Port: 9000}
	cfg.defaults()

	assert.Equal(t, "mykey", cfg.AuthKey)
	assert.Equal(t, 3, cfg.PoolSize)
	assert.Equal(t, "0.0.0.0:9000", cfg.ListenAddr())
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"auth_key: filekey\npool_size: 4\nhost: 0.0.0.0\nport: 9090\ncors_allow: \"*\"\ninbound_rps: 2.5\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "filekey", cfg.AuthKey)
	assert.Equal(t, 4, cfg.PoolSize)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr())
	assert.Equal(t, "*", cfg.CORSAllow)
	assert.Equal(t, 2.5, cfg.InboundRPS)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

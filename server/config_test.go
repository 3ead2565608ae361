package server

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mani-shailesh/focus/internal/xtime"
)

func TestLoadConfig(t *testing.T) {
	content := `
dev = true

[log]
level = "debug"
format = "json"

[server]
addr = ":9000"
public_url = "https://focus.example.com"

[database]
host = "db.example.com"
password = "secret"

[auth]
session_max_age = "720h"

[auth.facebook]
client_id = "fb-id"
client_secret = "fb-secret"

[notifications]
enabled = true
webhook_url = "https://discord.com/api/webhooks/123/abc"
`
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Dev)
	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
	assert.Equal(t, LogFormatJSON, cfg.Log.Format)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "https://focus.example.com", cfg.Server.PublicURL)
	assert.Equal(t, "db.example.com", cfg.Database.Host)
	assert.Equal(t, "secret", cfg.Database.Password)
	// defaults survive partial sections
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.Username)
	assert.Equal(t, xtime.Duration(30*24*time.Hour), cfg.Auth.SessionMaxAge)
	assert.True(t, cfg.Auth.Facebook.Configured())
	assert.False(t, cfg.Auth.Twitter.Configured())
	assert.True(t, cfg.Notifications.Enabled)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	assert.Error(t, err)
}

func TestConfigStringMasksSecrets(t *testing.T) {
	cfg := defaultConfig()
	cfg.Database.Password = "hunter2"
	cfg.Auth.Facebook.ClientSecret = "fb-secret"

	str := cfg.String()
	assert.NotContains(t, str, "hunter2")
	assert.NotContains(t, str, "fb-secret")
}

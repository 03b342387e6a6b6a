package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEnvConfig(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("REPO_DB_HOST", "db")
	t.Setenv("REPO_DB_NAME", "tiers")
	t.Setenv("TELEGRAM_TOKEN", "tg")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")
	t.Setenv("GOOGLE_CREDENTIALS_PATH", "/secrets/google.json")

	var cfg Config
	require.NoError(t, ReadEnvConfig(&cfg))

	assert.Equal(t, "token", cfg.DiscordToken)
	assert.Equal(t, "db", cfg.Repo.Host)
	assert.Equal(t, "5432", cfg.Repo.Port)
	assert.Equal(t, "disable", cfg.Repo.SSLMode)
	assert.Equal(t, "tiers", cfg.Repo.DBName)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, int64(-100123), cfg.Telegram.ChatID)
	assert.True(t, cfg.Telegram.Enabled())
	assert.True(t, cfg.Google.Enabled())
	assert.Empty(t, cfg.MetricsAddr)
}

func TestReadEnvConfigRequiresToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")

	var cfg Config
	assert.Error(t, ReadEnvConfig(&cfg))
}

func TestOptionalIntegrationsDisabledByDefault(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")

	var cfg Config
	require.NoError(t, ReadEnvConfig(&cfg))
	assert.False(t, cfg.Telegram.Enabled())
	assert.False(t, cfg.Google.Enabled())
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvToken, EnvWebhookName, EnvClientID, EnvGuildID, EnvLogLevel, EnvLogFormat, EnvHTTPAddr, EnvHistoryLimit} {
		t.Setenv(key, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileAndEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.toml", `
[log]
level = "debug"
format = "json"

[server]
addr = ":9000"

[discord]
token = "file-token"
client_id = "app"
history_limit = 50
`)
	t.Setenv(EnvToken, "env-token")
	t.Setenv(EnvGuildID, "g1")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "env-token", cfg.Discord.Token)
	assert.Equal(t, "app", cfg.Discord.ClientID)
	assert.Equal(t, "g1", cfg.Discord.GuildID)
	assert.Equal(t, DefaultWebhookName, cfg.Discord.WebhookName)
	assert.Equal(t, 50, cfg.Discord.HistoryLimit)
	require.NoError(t, cfg.Validate())
}

func TestLoadRejectsBadFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.toml", "[discord\ntoken = ")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsBadHistoryLimit(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvHistoryLimit, "many")

	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadEnvFileDoesNotOverride(t *testing.T) {
	t.Setenv(EnvToken, "already-set")
	t.Setenv(EnvClientID, "")
	require.NoError(t, os.Unsetenv(EnvClientID))

	path := writeFile(t, ".env", "DISCORD_TOKEN=from-file\nCLIENT_ID=app-from-file\n")
	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "already-set", os.Getenv(EnvToken))
	assert.Equal(t, "app-from-file", os.Getenv(EnvClientID))

	require.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "token required", mutate: func(c *Config) { c.Discord.Token = "" }, field: "Token"},
		{name: "limit too high", mutate: func(c *Config) { c.Discord.HistoryLimit = 101 }, field: "HistoryLimit"},
		{name: "limit too low", mutate: func(c *Config) { c.Discord.HistoryLimit = 0 }, field: "HistoryLimit"},
		{name: "bad format", mutate: func(c *Config) { c.Log.Format = "xml" }, field: "Format"},
		{name: "addr required", mutate: func(c *Config) { c.Server.Addr = "" }, field: "Addr"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			cfg.Discord.Token = "token"
			tc.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, tc.field, verrs[0].Field())
		})
	}

	ok := Default()
	ok.Discord.Token = "token"
	assert.NoError(t, ok.Validate())
}

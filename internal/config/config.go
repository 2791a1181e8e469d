package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DefaultConfigPath   = "config.toml"
	DefaultEnvPath      = ".env"
	DefaultHTTPAddr     = ":8080"
	DefaultWebhookName  = "quote"
	DefaultHistoryLimit = 100
)

// Environment variables that override file values.
const (
	EnvConfigPath   = "CONFIG_PATH"
	EnvToken        = "DISCORD_TOKEN"
	EnvWebhookName  = "DISCORD_WEBHOOK_NAME"
	EnvClientID     = "CLIENT_ID"
	EnvGuildID      = "GUILD_ID"
	EnvLogLevel     = "LOG_LEVEL"
	EnvLogFormat    = "LOG_FORMAT"
	EnvHTTPAddr     = "HTTP_ADDR"
	EnvHistoryLimit = "HISTORY_LIMIT"
)

type Config struct {
	Log     LogConfig     `toml:"log"`
	Server  ServerConfig  `toml:"server"`
	Discord DiscordConfig `toml:"discord"`
}

type LogConfig struct {
	Level  string `toml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `toml:"format" validate:"omitempty,oneof=text json"`
}

type ServerConfig struct {
	Addr string `toml:"addr" validate:"required"`
}

type DiscordConfig struct {
	Token        string `toml:"token" validate:"required"`
	ClientID     string `toml:"client_id"`
	GuildID      string `toml:"guild_id"`
	WebhookName  string `toml:"webhook_name" validate:"required,max=80"`
	HistoryLimit int    `toml:"history_limit" validate:"min=1,max=100"`
}

// Default returns the configuration used when no file or env is present.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Discord: DiscordConfig{
			WebhookName:  DefaultWebhookName,
			HistoryLimit: DefaultHistoryLimit,
		},
	}
}

// Load reads defaults, then the TOML file at path (missing is fine), then
// .env, then environment overrides. The result is not validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return cfg, err
		}
	} else if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}

	if err := LoadEnvFile(DefaultEnvPath); err != nil {
		return cfg, err
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadEnvFile exports variables from a dotenv file without overriding the
// existing environment. A missing file is ignored.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Discord.Token, EnvToken)
	setString(&cfg.Discord.WebhookName, EnvWebhookName)
	setString(&cfg.Discord.ClientID, EnvClientID)
	setString(&cfg.Discord.GuildID, EnvGuildID)
	setString(&cfg.Log.Level, EnvLogLevel)
	setString(&cfg.Log.Format, EnvLogFormat)
	setString(&cfg.Server.Addr, EnvHTTPAddr)
	if raw := strings.TrimSpace(os.Getenv(EnvHistoryLimit)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvHistoryLimit, err)
		}
		cfg.Discord.HistoryLimit = n
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

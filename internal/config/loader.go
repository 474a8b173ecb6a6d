package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies STREAKWATCH_* environment variable overrides, and
// returns the final Config. A missing file is not an error: the defaults and
// environment apply. The returned Config has NOT been validated; the caller
// should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known STREAKWATCH_* environment variables and
// overwrites the corresponding Config fields when a variable is set.
func applyEnvOverrides(cfg *Config) {
	// ── Server ──
	setInt(&cfg.Server.Port, "STREAKWATCH_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "STREAKWATCH_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "STREAKWATCH_SERVER_API_KEY")
	setInt(&cfg.Server.RateLimit, "STREAKWATCH_SERVER_RATE_LIMIT")
	setDuration(&cfg.Server.RateWindow, "STREAKWATCH_SERVER_RATE_WINDOW")
	setDuration(&cfg.Server.ShutdownTimeout, "STREAKWATCH_SERVER_SHUTDOWN_TIMEOUT")
	setBool(&cfg.Server.TrustedProxy, "STREAKWATCH_SERVER_TRUSTED_PROXY")

	// ── Session ──
	setDuration(&cfg.Session.TTL, "STREAKWATCH_SESSION_TTL")
	setInt(&cfg.Session.MaxSessions, "STREAKWATCH_SESSION_MAX_SESSIONS")
	setStr(&cfg.Session.SweepSchedule, "STREAKWATCH_SESSION_SWEEP_SCHEDULE")
	setBool(&cfg.Session.CookieSecure, "STREAKWATCH_SESSION_COOKIE_SECURE")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "STREAKWATCH_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "STREAKWATCH_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "STREAKWATCH_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "STREAKWATCH_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "STREAKWATCH_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "STREAKWATCH_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "STREAKWATCH_REDIS_TLS_ENABLED")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "STREAKWATCH_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "STREAKWATCH_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "STREAKWATCH_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "STREAKWATCH_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "STREAKWATCH_MODE")
	setStr(&cfg.LogLevel, "STREAKWATCH_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}

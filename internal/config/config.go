package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppName string
	Env     string
	Host    string
	Port    int

	DatabasePath string

	JWTSecret          string
	AccessTokenMinutes int

	CORSOrigins []string
	Debug       bool

	// Lifecycle knobs
	NoteMaxChars            int
	InviteMessageMaxChars   int
	InviteTTLHours          int
	ChatTTLDays             int
	DailyMessageLimit       int
	GlobalDailyMessageLimit int
	MessageCharacterLimit   int
	MessagePaceHours        int
	NudgeAfterDays          int
	CompletionAfterDays     int
	SingleThreadEnforced    bool
	SweepIntervalMinutes    int
}

func Load() (*Config, error) {
	cfg := &Config{
		AppName: getEnv("APP_NAME", "Echo Connection API"),
		Env:     getEnv("APP_ENV", "development"),
		Host:    getEnv("HTTP_HOST", "0.0.0.0"),
		Port:    getEnvAsInt("HTTP_PORT", 8000),

		DatabasePath: getEnv("DATABASE_PATH", "echo.db"),

		JWTSecret:          os.Getenv("JWT_SECRET"),
		AccessTokenMinutes: getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60*24),

		Debug: getEnvAsBool("DEBUG", true),

		NoteMaxChars:            getEnvAsInt("NOTE_MAX_CHARS", 300),
		InviteMessageMaxChars:   getEnvAsInt("INVITE_MESSAGE_MAX_CHARS", 150),
		InviteTTLHours:          getEnvAsInt("INVITE_TTL_HOURS", 48),
		ChatTTLDays:             getEnvAsInt("CHAT_TTL_DAYS", 14),
		DailyMessageLimit:       getEnvAsInt("DAILY_MESSAGE_LIMIT", 5),
		GlobalDailyMessageLimit: getEnvAsInt("GLOBAL_DAILY_MESSAGE_LIMIT", 25),
		MessageCharacterLimit:   getEnvAsInt("MESSAGE_CHARACTER_LIMIT", 500),
		MessagePaceHours:        getEnvAsInt("MESSAGE_PACE_HOURS", 4),
		NudgeAfterDays:          getEnvAsInt("NUDGE_AFTER_DAYS", 3),
		CompletionAfterDays:     getEnvAsInt("COMPLETION_AFTER_DAYS", 7),
		SingleThreadEnforced:    getEnvAsBool("SINGLE_THREAD_ENFORCED", true),
		SweepIntervalMinutes:    getEnvAsInt("SWEEP_INTERVAL_MINUTES", 5),
	}

	cors := getEnv("CORS_ORIGINS", "")
	if cors != "" {
		parts := strings.Split(cors, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		cfg.CORSOrigins = parts
	} else {
		cfg.CORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DailyMessageLimit <= 0 {
		return nil, fmt.Errorf("DAILY_MESSAGE_LIMIT must be positive")
	}
	if cfg.CompletionAfterDays <= cfg.NudgeAfterDays {
		return nil, fmt.Errorf("COMPLETION_AFTER_DAYS must be greater than NUDGE_AFTER_DAYS")
	}

	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *Config) InviteTTL() time.Duration {
	return time.Duration(c.InviteTTLHours) * time.Hour
}

func (c *Config) ChatTTL() time.Duration {
	return time.Duration(c.ChatTTLDays) * 24 * time.Hour
}

func (c *Config) NudgeAfter() time.Duration {
	return time.Duration(c.NudgeAfterDays) * 24 * time.Hour
}

func (c *Config) CompletionAfter() time.Duration {
	return time.Duration(c.CompletionAfterDays) * 24 * time.Hour
}

func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMinutes) * time.Minute
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvAsBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

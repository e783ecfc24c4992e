package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"echobackend/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, 300, cfg.NoteMaxChars)
	assert.Equal(t, 5, cfg.DailyMessageLimit)
	assert.Equal(t, 25, cfg.GlobalDailyMessageLimit)
	assert.Equal(t, 48*time.Hour, cfg.InviteTTL())
	assert.Equal(t, 14*24*time.Hour, cfg.ChatTTL())
	assert.Equal(t, 3*24*time.Hour, cfg.NudgeAfter())
	assert.Equal(t, 7*24*time.Hour, cfg.CompletionAfter())
	assert.Equal(t, 5*time.Minute, cfg.SweepInterval())
	assert.True(t, cfg.SingleThreadEnforced)
	assert.Equal(t, "0.0.0.0:8000", cfg.HTTPAddr())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DAILY_MESSAGE_LIMIT", "3")
	t.Setenv("MESSAGE_PACE_HOURS", "0")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, 3, cfg.DailyMessageLimit)
	assert.Equal(t, 0, cfg.MessagePaceHours)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadRejectsBadConfig(t *testing.T) {
	t.Run("MissingSecret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("NonPositiveDailyLimit", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("DAILY_MESSAGE_LIMIT", "0")
		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("CompletionBeforeNudge", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("NUDGE_AFTER_DAYS", "7")
		t.Setenv("COMPLETION_AFTER_DAYS", "7")
		_, err := config.Load()
		assert.Error(t, err)
	})
}

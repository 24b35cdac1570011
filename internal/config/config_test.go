package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("RUN_LOCK_TTL_SECONDS", "")
	t.Setenv("DEFAULT_TIMEZONE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 900*time.Second, cfg.RunLockTTL)
	assert.Equal(t, 10*time.Minute, cfg.CompletionGrace)
	assert.Equal(t, "America/Sao_Paulo", cfg.DefaultTimezone)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("RUN_LOCK_TTL_SECONDS", "30")
	t.Setenv("SCHEDULER_ENABLED", "true")
	t.Setenv("DEFAULT_TIMEZONE", "Europe/Lisbon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, 30*time.Second, cfg.RunLockTTL)
	assert.True(t, cfg.SchedulerEnabled)
	assert.Equal(t, "Europe/Lisbon", cfg.DefaultTimezone)
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() *Config {
		return &Config{
			ServerPort:        "8080",
			DefaultTimezone:   "America/Sao_Paulo",
			DefaultOpen:       "09:00",
			DefaultClose:      "18:00",
			RunLockTTL:        time.Minute,
			CompletionGrace:   time.Minute,
			ReminderLead:      time.Hour,
			InboundRateLimit:  1,
			InboundRateWindow: time.Second,
		}
	}

	require.NoError(t, base().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad port", func(c *Config) { c.ServerPort = "70000" }},
		{"bad zone", func(c *Config) { c.DefaultTimezone = "Mars/Olympus" }},
		{"bad open", func(c *Config) { c.DefaultOpen = "9h" }},
		{"open after close", func(c *Config) { c.DefaultOpen = "19:00" }},
		{"zero ttl", func(c *Config) { c.RunLockTTL = 0 }},
		{"zero rate", func(c *Config) { c.InboundRateLimit = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestDefaultHours(t *testing.T) {
	c := &Config{DefaultOpen: "08:30", DefaultClose: "17:45"}
	open, closing, err := c.DefaultHours()
	require.NoError(t, err)
	assert.Equal(t, "08:30", open.String())
	assert.Equal(t, "17:45", closing.String())

	c.DefaultClose = "25:00"
	_, _, err = c.DefaultHours()
	assert.ErrorContains(t, err, "DEFAULT_CLOSE")

	c.DefaultClose = "08:00"
	_, _, err = c.DefaultHours()
	assert.ErrorContains(t, err, "before")
}
